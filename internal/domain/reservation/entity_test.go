package reservation

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2025, 9, 8, 20, 0, 0, 0, time.FixedZone("-03", -3*60*60))

var testCustomer = Customer{Name: "John Doe", Phone: "+54 9 11 5555-1234", Email: "john.doe@mail.com"}

func TestNewReservation(t *testing.T) {
	tests := []struct {
		name         string
		restaurantID string
		sectorID     string
		tableIDs     []string
		partySize    int
		startAt      time.Time
		customer     Customer
		errExpected  error
	}{
		{
			name: "正常な予約作成", restaurantID: "R1", sectorID: "S1",
			tableIDs: []string{"T1"}, partySize: 2, startAt: testStart, customer: testCustomer,
		},
		{
			name: "レストランID未指定", restaurantID: "", sectorID: "S1",
			tableIDs: []string{"T1"}, partySize: 2, startAt: testStart, customer: testCustomer,
			errExpected: ErrRestaurantIDRequired,
		},
		{
			name: "セクターID未指定", restaurantID: "R1", sectorID: "",
			tableIDs: []string{"T1"}, partySize: 2, startAt: testStart, customer: testCustomer,
			errExpected: ErrSectorIDRequired,
		},
		{
			name: "テーブル未割り当て", restaurantID: "R1", sectorID: "S1",
			tableIDs: nil, partySize: 2, startAt: testStart, customer: testCustomer,
			errExpected: ErrTableIDsRequired,
		},
		{
			name: "人数が0", restaurantID: "R1", sectorID: "S1",
			tableIDs: []string{"T1"}, partySize: 0, startAt: testStart, customer: testCustomer,
			errExpected: ErrInvalidPartySize,
		},
		{
			name: "開始日時未指定", restaurantID: "R1", sectorID: "S1",
			tableIDs: []string{"T1"}, partySize: 2, startAt: time.Time{}, customer: testCustomer,
			errExpected: ErrStartTimeRequired,
		},
		{
			name: "予約者名が空白のみ", restaurantID: "R1", sectorID: "S1",
			tableIDs: []string{"T1"}, partySize: 2, startAt: testStart,
			customer:    Customer{Name: "  ", Phone: "1", Email: "a@b.c"},
			errExpected: ErrCustomerNameRequired,
		},
		{
			name: "電話番号未指定", restaurantID: "R1", sectorID: "S1",
			tableIDs: []string{"T1"}, partySize: 2, startAt: testStart,
			customer:    Customer{Name: "A", Email: "a@b.c"},
			errExpected: ErrCustomerPhoneRequired,
		},
		{
			name: "メールアドレス未指定", restaurantID: "R1", sectorID: "S1",
			tableIDs: []string{"T1"}, partySize: 2, startAt: testStart,
			customer:    Customer{Name: "A", Phone: "1"},
			errExpected: ErrCustomerEmailRequired,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReservation(tt.restaurantID, tt.sectorID, tt.tableIDs, tt.partySize, tt.startAt, tt.customer, "")
			err := r.Validate()
			if tt.errExpected != nil {
				assert.ErrorIs(t, err, tt.errExpected)
				assert.True(t, IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StatusConfirmed, r.Status)
			assert.Equal(t, tt.startAt.Add(90*time.Minute), r.EndAt)
			assert.Equal(t, r.CreatedAt, r.UpdatedAt)
			_, parseErr := uuid.Parse(r.ID)
			assert.NoError(t, parseErr)
		})
	}
}

func TestNewReservation_UniqueIDs(t *testing.T) {
	a := NewReservation("R1", "S1", []string{"T1"}, 2, testStart, testCustomer, "")
	b := NewReservation("R1", "S1", []string{"T1"}, 2, testStart, testCustomer, "")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestReservation_Cancel(t *testing.T) {
	tests := []struct {
		name   string
		status Status
	}{
		{"Confirmed状態からキャンセル", StatusConfirmed},
		{"Cancelled状態からもう一度キャンセル", StatusCancelled},
		{"Pending状態からキャンセル", StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReservation("R1", "S1", []string{"T1"}, 2, testStart, testCustomer, "窓際希望")
			r.Status = tt.status
			before := *r

			r.Cancel()

			assert.Equal(t, StatusCancelled, r.Status)
			assert.True(t, r.IsCancelled())
			assert.False(t, r.IsActive())
			// 状態と更新日時以外は変わらない
			assert.Equal(t, before.TableIDs, r.TableIDs)
			assert.Equal(t, before.StartAt, r.StartAt)
			assert.Equal(t, before.Notes, r.Notes)
			assert.False(t, r.UpdatedAt.Before(before.UpdatedAt))
		})
	}
}

func TestEndOf(t *testing.T) {
	assert.Equal(t, testStart.Add(Duration), EndOf(testStart))
	assert.Equal(t, 90*time.Minute, EndOf(testStart).Sub(testStart))
}

func TestNoCapacityErrors(t *testing.T) {
	assert.ErrorIs(t, ErrSectorHasNoTables, ErrNoCapacity)
	assert.ErrorIs(t, ErrNoTableAvailable, ErrNoCapacity)
	assert.NotEqual(t, ErrSectorHasNoTables.Error(), ErrNoTableAvailable.Error())
	assert.False(t, errors.Is(ErrSectorHasNoTables, ErrNoTableAvailable))

	wrapped := fmt.Errorf("%w（人数: %d）", ErrNoTableAvailable, 4)
	assert.ErrorIs(t, wrapped, ErrNoCapacity)
	assert.False(t, IsValidationError(wrapped))
}
