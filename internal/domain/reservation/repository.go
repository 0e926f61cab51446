package reservation

import (
	"context"
	"time"

	"github.com/sanosuguru/go-table-reservation/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
// tx を受け取るメソッドは tx が nil の場合トランザクション外で実行する
type Repository interface {
	// Create は新しい予約と割り当てテーブルを保存する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, reservation *Reservation) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, tx transaction.Tx, id string) (*Reservation, error)

	// ListActiveBySector は [from, to) と重なるキャンセル以外の予約を取得する
	ListActiveBySector(ctx context.Context, tx transaction.Tx, restaurantID, sectorID string, from, to time.Time) ([]*Reservation, error)

	// ListByRestaurant は開始時刻が [from, to) にある予約を状態に関係なく開始時刻順で取得する
	// sectorID が空の場合は全セクターが対象
	ListByRestaurant(ctx context.Context, restaurantID, sectorID string, from, to time.Time) ([]*Reservation, error)

	// UpdateStatus は予約の状態を更新し、更新後の予約を返す
	UpdateStatus(ctx context.Context, id string, status Status) (*Reservation, error)

	// CountByStatus は開始時刻が from 以降の予約数を状態ごとに返す
	CountByStatus(ctx context.Context, from time.Time) (map[Status]int, error)
}
