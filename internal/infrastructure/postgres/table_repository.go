package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-table-reservation/internal/domain/table"
	"github.com/sanosuguru/go-table-reservation/internal/domain/transaction"
)

type tableRow struct {
	ID        string    `db:"id"`
	SectorID  string    `db:"sector_id"`
	Name      string    `db:"name"`
	MinSize   int       `db:"min_size"`
	MaxSize   int       `db:"max_size"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *tableRow) toEntity() *table.Table {
	return &table.Table{
		ID: r.ID, SectorID: r.SectorID, Name: r.Name,
		MinSize: r.MinSize, MaxSize: r.MaxSize,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type TableRepository struct{ db *sqlx.DB }

func NewTableRepository(db *sqlx.DB) *TableRepository { return &TableRepository{db: db} }

const tableSelect = `SELECT id, sector_id, name, min_size, max_size, created_at, updated_at FROM dining_tables WHERE sector_id = $1 ORDER BY id`

func (r *TableRepository) ListBySector(ctx context.Context, sectorID string) ([]*table.Table, error) {
	var rows []tableRow
	if err := r.db.SelectContext(ctx, &rows, tableSelect, sectorID); err != nil {
		return nil, fmt.Errorf("テーブル一覧取得に失敗: %w", err)
	}
	return toTables(rows), nil
}

// LockBySector はセクター内の全テーブルを SELECT ... FOR UPDATE で取得する
// ID 順にロックするため、同じセクターを扱うトランザクション同士でデッドロックしない
func (r *TableRepository) LockBySector(ctx context.Context, tx transaction.Tx, sectorID string) ([]*table.Table, error) {
	sqlTx := UnwrapTx(tx)
	if sqlTx == nil {
		return nil, errTxRequired
	}
	var rows []tableRow
	if err := sqlTx.SelectContext(ctx, &rows, tableSelect+` FOR UPDATE`, sectorID); err != nil {
		return nil, fmt.Errorf("テーブルのロックに失敗: %w", err)
	}
	return toTables(rows), nil
}

func toTables(rows []tableRow) []*table.Table {
	result := make([]*table.Table, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result
}

var _ table.Repository = (*TableRepository)(nil)
