package idempotency

import (
	"context"

	"github.com/sanosuguru/go-table-reservation/internal/domain/transaction"
)

// Repository は冪等性キーのリポジトリ
// tx が nil の場合はトランザクション外で実行する
type Repository interface {
	// Find はキーの対応付けを取得する。存在しない場合は ErrKeyNotFound
	Find(ctx context.Context, tx transaction.Tx, key string) (*Key, error)

	// Create は対応付けを保存する。キーが既に存在する場合は ErrKeyAlreadyBound
	Create(ctx context.Context, tx transaction.Tx, key *Key) error
}
