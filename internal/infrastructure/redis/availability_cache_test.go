package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedSlot struct {
	Start     string `json:"start"`
	Available bool   `json:"available"`
}

func TestAvailabilityCache(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewAvailabilityCache(client)
	ctx := context.Background()
	restaurantID := "R-" + uuid.NewString()[:8]
	date := "2025-09-08"
	t.Cleanup(func() { cache.Invalidate(ctx, restaurantID, "S1", date) })

	t.Run("キャッシュミス時はErrCacheMissを返す", func(t *testing.T) {
		var got []cachedSlot
		err := cache.Get(ctx, restaurantID, "S1", date, 2, &got)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("人数ごとに保存した値を取得できる", func(t *testing.T) {
		two := []cachedSlot{{Start: "20:00", Available: true}}
		four := []cachedSlot{{Start: "20:00", Available: false}}
		require.NoError(t, cache.Set(ctx, restaurantID, "S1", date, 2, two, 30*time.Second))
		require.NoError(t, cache.Set(ctx, restaurantID, "S1", date, 4, four, 30*time.Second))

		var got []cachedSlot
		require.NoError(t, cache.Get(ctx, restaurantID, "S1", date, 2, &got))
		assert.Equal(t, two, got)

		require.NoError(t, cache.Get(ctx, restaurantID, "S1", date, 4, &got))
		assert.Equal(t, four, got)
	})

	t.Run("無効化すると全人数分が消える", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, restaurantID, "S1", date, 2, []cachedSlot{}, 30*time.Second))
		require.NoError(t, cache.Invalidate(ctx, restaurantID, "S1", date))

		var got []cachedSlot
		assert.ErrorIs(t, cache.Get(ctx, restaurantID, "S1", date, 2, &got), ErrCacheMiss)
		assert.ErrorIs(t, cache.Get(ctx, restaurantID, "S1", date, 4, &got), ErrCacheMiss)
	})

	t.Run("TTLが設定される", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, restaurantID, "S1", date, 2, []cachedSlot{}, 30*time.Second))

		ttl, err := client.TTL(ctx, availabilityKey(restaurantID, "S1", date)).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, 30*time.Second)
	})
}
