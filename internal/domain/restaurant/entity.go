package restaurant

import (
	"fmt"
	"time"

	"github.com/sanosuguru/go-table-reservation/internal/domain/schedule"
)

// Restaurant はレストランエンティティを表す
type Restaurant struct {
	ID        string
	Name      string
	Timezone  string
	Shifts    []schedule.Shift
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sector はレストラン内のエリア（テーブルのグループ）を表す
type Sector struct {
	ID           string
	RestaurantID string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Location はレストランのタイムゾーンを返す
func (r *Restaurant) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, r.Timezone)
	}
	return loc, nil
}

// IsOpenAt は instant がいずれかのシフト内かを返す
func (r *Restaurant) IsOpenAt(instant time.Time, loc *time.Location) bool {
	return schedule.IsWithinShifts(instant, r.Shifts, loc)
}

// Validate はレストランの検証を行う
func (r *Restaurant) Validate() error {
	if r.ID == "" {
		return ErrRestaurantIDRequired
	}
	if r.Name == "" {
		return ErrNameRequired
	}
	if _, err := r.Location(); err != nil {
		return err
	}
	for _, s := range r.Shifts {
		if _, _, err := s.Minutes(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidShift, err)
		}
	}
	return nil
}

// BelongsTo はセクターが指定レストランに属するかを返す
func (s *Sector) BelongsTo(restaurantID string) bool {
	return s.RestaurantID == restaurantID
}
