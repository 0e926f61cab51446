package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotLockKey(t *testing.T) {
	assert.Equal(t, "slot:S3:2025-09-08", SlotLockKey("S3", "2025-09-08"))
}

func TestLockManager_AcquireLock(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	manager := NewLockManager(client)
	prefix := "test-" + uuid.NewString()[:8] + "-"

	t.Run("ロックを取得できる", func(t *testing.T) {
		lock, err := manager.AcquireLock(ctx, prefix+"1", 5*time.Second)
		require.NoError(t, err)
		require.NotNil(t, lock)
		defer lock.Release(ctx)
	})

	t.Run("同じキーのロックは取得できない", func(t *testing.T) {
		lock1, err := manager.AcquireLock(ctx, prefix+"2", 5*time.Second)
		require.NoError(t, err)
		defer lock1.Release(ctx)

		lock2, err := manager.AcquireLock(ctx, prefix+"2", 5*time.Second)
		assert.ErrorIs(t, err, ErrLockNotAcquired)
		assert.Nil(t, lock2)
	})

	t.Run("解放後は再取得できる", func(t *testing.T) {
		lock1, err := manager.AcquireLock(ctx, prefix+"3", 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, lock1.Release(ctx))

		lock2, err := manager.AcquireLock(ctx, prefix+"3", 5*time.Second)
		require.NoError(t, err)
		defer lock2.Release(ctx)
	})

	t.Run("リトライで取得できる", func(t *testing.T) {
		lock1, err := manager.AcquireLock(ctx, prefix+"4", 5*time.Second)
		require.NoError(t, err)

		go func() {
			time.Sleep(300 * time.Millisecond)
			lock1.Release(ctx)
		}()

		lock2, err := manager.AcquireLockWithRetry(ctx, prefix+"4", 5*time.Second, 10, 100*time.Millisecond)
		require.NoError(t, err)
		defer lock2.Release(ctx)
	})

	t.Run("リトライ回数を使い切るとErrLockNotAcquired", func(t *testing.T) {
		lock1, err := manager.AcquireLock(ctx, prefix+"5", 5*time.Second)
		require.NoError(t, err)
		defer lock1.Release(ctx)

		_, err = manager.AcquireLockWithRetry(ctx, prefix+"5", 5*time.Second, 2, 10*time.Millisecond)
		assert.ErrorIs(t, err, ErrLockNotAcquired)
	})

	t.Run("ロックを延長できる", func(t *testing.T) {
		lock, err := manager.AcquireLock(ctx, prefix+"extend", time.Second)
		require.NoError(t, err)
		defer lock.Release(ctx)

		require.NoError(t, lock.Extend(ctx, 5*time.Second))

		lock2, err := manager.AcquireLock(ctx, prefix+"extend", time.Second)
		assert.ErrorIs(t, err, ErrLockNotAcquired)
		assert.Nil(t, lock2)
	})

	t.Run("解放後は延長も解放もできない", func(t *testing.T) {
		lock, err := manager.AcquireLock(ctx, prefix+"released", time.Second)
		require.NoError(t, err)
		require.NoError(t, lock.Release(ctx))

		assert.ErrorIs(t, lock.Extend(ctx, 5*time.Second), ErrLockNotOwned)
		assert.ErrorIs(t, lock.Release(ctx), ErrLockNotOwned)
	})
}
