package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/sanosuguru/go-table-reservation/internal/domain/restaurant"
	"github.com/sanosuguru/go-table-reservation/internal/domain/schedule"
)

type restaurantRow struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Timezone  string         `db:"timezone"`
	Shifts    types.JSONText `db:"shifts"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r *restaurantRow) toEntity() (*restaurant.Restaurant, error) {
	var shifts []schedule.Shift
	if len(r.Shifts) > 0 {
		if err := r.Shifts.Unmarshal(&shifts); err != nil {
			return nil, fmt.Errorf("営業時間の読み込みに失敗 (restaurant=%s): %w", r.ID, err)
		}
	}
	return &restaurant.Restaurant{
		ID: r.ID, Name: r.Name, Timezone: r.Timezone, Shifts: shifts,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}, nil
}

type sectorRow struct {
	ID           string    `db:"id"`
	RestaurantID string    `db:"restaurant_id"`
	Name         string    `db:"name"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r *sectorRow) toEntity() *restaurant.Sector {
	return &restaurant.Sector{
		ID: r.ID, RestaurantID: r.RestaurantID, Name: r.Name,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type RestaurantRepository struct{ db *sqlx.DB }

func NewRestaurantRepository(db *sqlx.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

const restaurantColumns = `id, name, timezone, shifts, created_at, updated_at`

func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (*restaurant.Restaurant, error) {
	var row restaurantRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, restaurant.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("レストラン取得に失敗: %w", err)
	}
	return row.toEntity()
}

func (r *RestaurantRepository) List(ctx context.Context) ([]*restaurant.Restaurant, error) {
	var rows []restaurantRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+restaurantColumns+` FROM restaurants ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("レストラン一覧取得に失敗: %w", err)
	}
	result := make([]*restaurant.Restaurant, 0, len(rows))
	for i := range rows {
		rest, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		result = append(result, rest)
	}
	return result, nil
}

func (r *RestaurantRepository) GetSector(ctx context.Context, id string) (*restaurant.Sector, error) {
	var row sectorRow
	if err := r.db.GetContext(ctx, &row, `SELECT id, restaurant_id, name, created_at, updated_at FROM sectors WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, restaurant.ErrSectorNotFound
		}
		return nil, fmt.Errorf("セクター取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *RestaurantRepository) ListSectors(ctx context.Context, restaurantID string) ([]*restaurant.Sector, error) {
	var rows []sectorRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, restaurant_id, name, created_at, updated_at FROM sectors WHERE restaurant_id = $1 ORDER BY id`, restaurantID); err != nil {
		return nil, fmt.Errorf("セクター一覧取得に失敗: %w", err)
	}
	result := make([]*restaurant.Sector, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

var _ restaurant.Repository = (*RestaurantRepository)(nil)
