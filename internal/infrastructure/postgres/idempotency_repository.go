package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-table-reservation/internal/domain/idempotency"
	"github.com/sanosuguru/go-table-reservation/internal/domain/transaction"
)

type idempotencyRow struct {
	Key           string    `db:"key"`
	ReservationID string    `db:"reservation_id"`
	CreatedAt     time.Time `db:"created_at"`
}

type IdempotencyRepository struct{ db *sqlx.DB }

func NewIdempotencyRepository(db *sqlx.DB) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

func (r *IdempotencyRepository) Find(ctx context.Context, tx transaction.Tx, key string) (*idempotency.Key, error) {
	var row idempotencyRow
	query := `SELECT key, reservation_id, created_at FROM idempotency_keys WHERE key = $1`
	if err := sqlx.GetContext(ctx, extFor(r.db, tx), &row, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, idempotency.ErrKeyNotFound
		}
		return nil, fmt.Errorf("冪等性キー取得に失敗: %w", err)
	}
	return &idempotency.Key{Key: row.Key, ReservationID: row.ReservationID, CreatedAt: row.CreatedAt}, nil
}

// Create は対応付けを保存する
// 一意制約違反になった場合、呼び出し側のトランザクションは中断状態になるためロールバックが必要
func (r *IdempotencyRepository) Create(ctx context.Context, tx transaction.Tx, k *idempotency.Key) error {
	sqlTx := UnwrapTx(tx)
	if sqlTx == nil {
		return errTxRequired
	}
	query := `INSERT INTO idempotency_keys (key, reservation_id, created_at) VALUES ($1, $2, $3)`
	if _, err := sqlTx.ExecContext(ctx, query, k.Key, k.ReservationID, k.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return idempotency.ErrKeyAlreadyBound
		}
		return fmt.Errorf("冪等性キー保存に失敗: %w", err)
	}
	return nil
}

var _ idempotency.Repository = (*IdempotencyRepository)(nil)
