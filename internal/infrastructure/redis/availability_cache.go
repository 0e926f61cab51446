package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("キャッシュが見つかりません")

// AvailabilityCache はセクター・日付ごとの空き状況を人数別にキャッシュする
// 1つのハッシュに人数ごとのフィールドを持たせ、無効化はハッシュごと削除する
type AvailabilityCache struct {
	client *redis.Client
}

func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// Get はキャッシュ済みの値を dest にデコードする
func (c *AvailabilityCache) Get(ctx context.Context, restaurantID, sectorID, date string, partySize int, dest any) error {
	raw, err := c.client.HGet(ctx, availabilityKey(restaurantID, sectorID, date), strconv.Itoa(partySize)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("キャッシュのデコードに失敗: %w", err)
	}
	return nil
}

// Set は値を保存し、ハッシュ全体の有効期限を ttl に更新する
func (c *AvailabilityCache) Set(ctx context.Context, restaurantID, sectorID, date string, partySize int, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("キャッシュのエンコードに失敗: %w", err)
	}

	key := availabilityKey(restaurantID, sectorID, date)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, strconv.Itoa(partySize), raw)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はセクター・日付の空き状況を全人数分削除する
func (c *AvailabilityCache) Invalidate(ctx context.Context, restaurantID, sectorID, date string) error {
	if err := c.client.Del(ctx, availabilityKey(restaurantID, sectorID, date)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func availabilityKey(restaurantID, sectorID, date string) string {
	return fmt.Sprintf("availability:%s:%s:%s", restaurantID, sectorID, date)
}
