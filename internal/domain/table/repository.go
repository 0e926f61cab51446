package table

import (
	"context"

	"github.com/sanosuguru/go-table-reservation/internal/domain/transaction"
)

// Repository はテーブルリポジトリのインターフェース
type Repository interface {
	// ListBySector はセクター内のテーブルをID順に取得する
	ListBySector(ctx context.Context, sectorID string) ([]*Table, error)

	// LockBySector はセクター内のテーブルを行ロックして取得する（トランザクション必須）
	// 同じセクターへの割り当てはこのロックで直列化される
	LockBySector(ctx context.Context, tx transaction.Tx, sectorID string) ([]*Table, error)
}
