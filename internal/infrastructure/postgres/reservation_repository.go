package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-table-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-table-reservation/internal/domain/transaction"
)

type reservationRow struct {
	ID            string         `db:"id"`
	RestaurantID  string         `db:"restaurant_id"`
	SectorID      string         `db:"sector_id"`
	TableIDs      pq.StringArray `db:"table_ids"`
	PartySize     int            `db:"party_size"`
	StartAt       time.Time      `db:"start_at"`
	EndAt         time.Time      `db:"end_at"`
	Status        string         `db:"status"`
	CustomerName  string         `db:"customer_name"`
	CustomerPhone string         `db:"customer_phone"`
	CustomerEmail string         `db:"customer_email"`
	Notes         sql.NullString `db:"notes"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r *reservationRow) toEntity() *reservation.Reservation {
	return &reservation.Reservation{
		ID:           r.ID,
		RestaurantID: r.RestaurantID,
		SectorID:     r.SectorID,
		TableIDs:     []string(r.TableIDs),
		PartySize:    r.PartySize,
		StartAt:      r.StartAt,
		EndAt:        r.EndAt,
		Status:       reservation.Status(r.Status),
		Customer: reservation.Customer{
			Name:  r.CustomerName,
			Phone: r.CustomerPhone,
			Email: r.CustomerEmail,
		},
		Notes:     r.Notes.String,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// テーブルIDは reservation_tables から集約して1行で取得する
const reservationSelect = `SELECT r.id, r.restaurant_id, r.sector_id, r.party_size, r.start_at, r.end_at, r.status,
	r.customer_name, r.customer_phone, r.customer_email, r.notes, r.created_at, r.updated_at,
	COALESCE(array_agg(rt.table_id ORDER BY rt.table_id) FILTER (WHERE rt.table_id IS NOT NULL), '{}') AS table_ids
FROM reservations r
LEFT JOIN reservation_tables rt ON rt.reservation_id = r.id`

type ReservationRepository struct{ db *sqlx.DB }

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlTx := UnwrapTx(tx)
	if sqlTx == nil {
		return errTxRequired
	}

	var notes sql.NullString
	if res.Notes != "" {
		notes = sql.NullString{String: res.Notes, Valid: true}
	}
	query := `INSERT INTO reservations (id, restaurant_id, sector_id, party_size, start_at, end_at, status, customer_name, customer_phone, customer_email, notes, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err := sqlTx.ExecContext(ctx, query,
		res.ID, res.RestaurantID, res.SectorID, res.PartySize, res.StartAt, res.EndAt, string(res.Status),
		res.Customer.Name, res.Customer.Phone, res.Customer.Email, notes, res.CreatedAt, res.UpdatedAt,
	); err != nil {
		return fmt.Errorf("予約作成に失敗: %w", err)
	}

	if _, err := sqlTx.ExecContext(ctx,
		`INSERT INTO reservation_tables (reservation_id, table_id) SELECT $1, unnest($2::text[])`,
		res.ID, pq.Array(res.TableIDs),
	); err != nil {
		return fmt.Errorf("予約テーブル関連付けに失敗: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, tx transaction.Tx, id string) (*reservation.Reservation, error) {
	var row reservationRow
	query := reservationSelect + ` WHERE r.id = $1 GROUP BY r.id`
	if err := sqlx.GetContext(ctx, extFor(r.db, tx), &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ReservationRepository) ListActiveBySector(ctx context.Context, tx transaction.Tx, restaurantID, sectorID string, from, to time.Time) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := reservationSelect + `
WHERE r.restaurant_id = $1 AND r.sector_id = $2 AND r.status <> $3
  AND r.start_at < $5 AND r.end_at > $4
GROUP BY r.id
ORDER BY r.start_at, r.id`
	if err := sqlx.SelectContext(ctx, extFor(r.db, tx), &rows, query,
		restaurantID, sectorID, string(reservation.StatusCancelled), from, to,
	); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	return toReservations(rows), nil
}

func (r *ReservationRepository) ListByRestaurant(ctx context.Context, restaurantID, sectorID string, from, to time.Time) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := reservationSelect + `
WHERE r.restaurant_id = $1 AND ($2 = '' OR r.sector_id = $2)
  AND r.start_at >= $3 AND r.start_at < $4
GROUP BY r.id
ORDER BY r.start_at, r.id`
	if err := r.db.SelectContext(ctx, &rows, query, restaurantID, sectorID, from, to); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	return toReservations(rows), nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id string, status reservation.Status) (*reservation.Reservation, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
	if err != nil {
		if isInvalidText(err) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, reservation.ErrReservationNotFound
	}
	return r.GetByID(ctx, nil, id)
}

func (r *ReservationRepository) CountByStatus(ctx context.Context, from time.Time) (map[reservation.Status]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS count FROM reservations WHERE start_at >= $1 GROUP BY status`, from); err != nil {
		return nil, fmt.Errorf("予約数の集計に失敗: %w", err)
	}
	counts := make(map[reservation.Status]int, len(rows))
	for _, row := range rows {
		counts[reservation.Status(row.Status)] = row.Count
	}
	return counts, nil
}

func toReservations(rows []reservationRow) []*reservation.Reservation {
	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result
}

var _ reservation.Repository = (*ReservationRepository)(nil)
