package reservation

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status は予約の状態を表す
type Status string

const (
	// StatusPending は型として存在するが、割り当て処理では生成しない
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// Duration は1予約あたりの固定の利用時間
const Duration = 90 * time.Minute

// Customer は予約者の連絡先
type Customer struct {
	Name  string
	Phone string
	Email string
}

// Reservation は予約エンティティを表す
// 利用区間は半開区間 [StartAt, EndAt)
type Reservation struct {
	ID           string
	RestaurantID string
	SectorID     string
	TableIDs     []string
	PartySize    int
	StartAt      time.Time
	EndAt        time.Time
	Status       Status
	Customer     Customer
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewReservation は確定済みの新しい予約を作成する
func NewReservation(restaurantID, sectorID string, tableIDs []string, partySize int, startAt time.Time, customer Customer, notes string) *Reservation {
	// DB の timestamptz はマイクロ秒精度のため揃えておく
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &Reservation{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		SectorID:     sectorID,
		TableIDs:     tableIDs,
		PartySize:    partySize,
		StartAt:      startAt,
		EndAt:        EndOf(startAt),
		Status:       StatusConfirmed,
		Customer:     customer,
		Notes:        notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// EndOf は開始時刻から予約の終了時刻を求める
func EndOf(startAt time.Time) time.Time {
	return startAt.Add(Duration)
}

// IsCancelled は予約がキャンセル済みかを返す
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// IsActive は予約がテーブルを占有しているかを返す
func (r *Reservation) IsActive() bool {
	return r.Status != StatusCancelled
}

// Cancel は予約をキャンセルする
// キャンセル済みの予約に対しても成功する
func (r *Reservation) Cancel() {
	r.Status = StatusCancelled
	r.UpdatedAt = time.Now()
}

// Validate は予約の検証を行う
func (r *Reservation) Validate() error {
	if r.RestaurantID == "" {
		return ErrRestaurantIDRequired
	}
	if r.SectorID == "" {
		return ErrSectorIDRequired
	}
	if len(r.TableIDs) == 0 {
		return ErrTableIDsRequired
	}
	if r.PartySize <= 0 {
		return ErrInvalidPartySize
	}
	if r.StartAt.IsZero() {
		return ErrStartTimeRequired
	}
	return r.Customer.Validate()
}

// Validate は予約者情報の必須項目を検証する
func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrCustomerNameRequired
	}
	if strings.TrimSpace(c.Phone) == "" {
		return ErrCustomerPhoneRequired
	}
	if strings.TrimSpace(c.Email) == "" {
		return ErrCustomerEmailRequired
	}
	return nil
}
