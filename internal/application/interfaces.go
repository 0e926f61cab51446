package application

import (
	"context"
	"time"

	"github.com/sanosuguru/go-table-reservation/internal/domain/reservation"
	redisinfra "github.com/sanosuguru/go-table-reservation/internal/infrastructure/redis"
)

// SlotLocker はセクター・日付単位のロックを取得する
// redisinfra.LockManager が実装する
type SlotLocker interface {
	AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (redisinfra.Lock, error)
}

// AvailabilityCache は空き状況のキャッシュ
// redisinfra.AvailabilityCache が実装する
type AvailabilityCache interface {
	Get(ctx context.Context, restaurantID, sectorID, date string, partySize int, dest any) error
	Set(ctx context.Context, restaurantID, sectorID, date string, partySize int, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, restaurantID, sectorID, date string) error
}

// EventPublisher は予約イベントを外部に配信する
// rabbitmq.Publisher が実装する
type EventPublisher interface {
	Publish(ctx context.Context, event reservation.Event) error
}

var (
	_ SlotLocker        = (*redisinfra.LockManager)(nil)
	_ AvailabilityCache = (*redisinfra.AvailabilityCache)(nil)
)
