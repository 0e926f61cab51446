package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sanosuguru/go-table-reservation/internal/domain/idempotency"
	"github.com/sanosuguru/go-table-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-table-reservation/internal/domain/transaction"
)

// IdempotencyCoordinator は冪等性キーと予約の対応を管理する
// キーは一度予約に紐づいたら変わらない
type IdempotencyCoordinator struct {
	keys         idempotency.Repository
	reservations reservation.Repository
}

func NewIdempotencyCoordinator(keys idempotency.Repository, reservations reservation.Repository) *IdempotencyCoordinator {
	return &IdempotencyCoordinator{keys: keys, reservations: reservations}
}

// Replay はキーに紐づく予約を返す。未使用のキーなら false を返す
// tx が nil の場合はトランザクション外で読む
func (c *IdempotencyCoordinator) Replay(ctx context.Context, tx transaction.Tx, key string) (*reservation.Reservation, bool, error) {
	k, err := c.keys.Find(ctx, tx, key)
	if err != nil {
		if errors.Is(err, idempotency.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("冪等性キーの確認に失敗: %w", err)
	}

	res, err := c.reservations.GetByID(ctx, tx, k.ReservationID)
	if err != nil {
		return nil, false, fmt.Errorf("冪等性キーに紐づく予約の取得に失敗: %w", err)
	}
	return res, true, nil
}

// Bind はキーを予約に紐づける
// 既に使用済みのキーは idempotency.ErrKeyAlreadyBound を返す
func (c *IdempotencyCoordinator) Bind(ctx context.Context, tx transaction.Tx, key, reservationID string) error {
	return c.keys.Create(ctx, tx, idempotency.NewKey(key, reservationID))
}
