package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-table-reservation/internal/api"
	"github.com/sanosuguru/go-table-reservation/internal/application"
	"github.com/sanosuguru/go-table-reservation/internal/domain/restaurant"
	"github.com/sanosuguru/go-table-reservation/internal/domain/schedule"
)

// MockAvailabilityService はAvailabilityServiceInterfaceのモック
type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) GetAvailability(ctx context.Context, input application.AvailabilityInput) (*application.Availability, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.Availability), args.Error(1)
}

func TestAvailabilityHandler_Get(t *testing.T) {
	e := NewTestEcho()
	loc := time.FixedZone("ART", -3*60*60)
	input := application.AvailabilityInput{RestaurantID: "R1", SectorID: "S1", Date: "2025-09-08", PartySize: 4}

	t.Run("スロットごとの空き状況を返す", func(t *testing.T) {
		mockService := new(MockAvailabilityService)
		mockService.On("GetAvailability", mock.Anything, input).Return(&application.Availability{
			RestaurantID:    "R1",
			SectorID:        "S1",
			Date:            "2025-09-08",
			PartySize:       4,
			SlotMinutes:     15,
			DurationMinutes: 90,
			Slots: []application.Slot{
				{Start: time.Date(2025, 9, 8, 20, 0, 0, 0, loc), Available: true, TableIDs: []string{"T2", "T3"}},
				{Start: time.Date(2025, 9, 8, 20, 15, 0, 0, loc), Available: false, Reason: application.ReasonNoCapacity},
			},
		}, nil)

		handler := NewAvailabilityHandler(mockService)
		req := httptest.NewRequest(http.MethodGet, "/availability?restaurantId=R1&sectorId=S1&date=2025-09-08&partySize=4", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, handler.Get(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp AvailabilityResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 15, resp.SlotMinutes)
		assert.Equal(t, 90, resp.DurationMinutes)
		require.Len(t, resp.Slots, 2)
		assert.Equal(t, "2025-09-08T23:00:00Z", resp.Slots[0].Start)
		assert.Equal(t, []string{"T2", "T3"}, resp.Slots[0].TableIDs)
		assert.False(t, resp.Slots[1].Available)
		assert.Equal(t, "no_capacity", resp.Slots[1].Reason)

		mockService.AssertExpectations(t)
	})

	t.Run("パラメータが不正な場合400", func(t *testing.T) {
		tests := []struct {
			name  string
			query string
		}{
			{"人数が数値でない", "restaurantId=R1&sectorId=S1&date=2025-09-08&partySize=abc"},
			{"人数が0", "restaurantId=R1&sectorId=S1&date=2025-09-08&partySize=0"},
			{"人数がない", "restaurantId=R1&sectorId=S1&date=2025-09-08"},
			{"日付がない", "restaurantId=R1&sectorId=S1&partySize=2"},
			{"セクターがない", "restaurantId=R1&date=2025-09-08&partySize=2"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mockService := new(MockAvailabilityService)
				handler := NewAvailabilityHandler(mockService)
				req := httptest.NewRequest(http.MethodGet, "/availability?"+tt.query, nil)
				rec := httptest.NewRecorder()
				c := e.NewContext(req, rec)

				requireHTTPError(t, handler.Get(c), http.StatusBadRequest, api.CodeBadRequest)
				mockService.AssertNotCalled(t, "GetAvailability", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("サービスのエラーをステータスに変換する", func(t *testing.T) {
		tests := []struct {
			name   string
			err    error
			status int
			code   string
		}{
			{"日付の形式が不正", schedule.ErrInvalidDate, http.StatusBadRequest, api.CodeBadRequest},
			{"レストランなし", restaurant.ErrRestaurantNotFound, http.StatusNotFound, api.CodeNotFound},
			{"他レストランのセクター", restaurant.ErrSectorNotFound, http.StatusNotFound, api.CodeNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mockService := new(MockAvailabilityService)
				mockService.On("GetAvailability", mock.Anything, input).Return(nil, tt.err)
				handler := NewAvailabilityHandler(mockService)
				req := httptest.NewRequest(http.MethodGet, "/availability?restaurantId=R1&sectorId=S1&date=2025-09-08&partySize=4", nil)
				rec := httptest.NewRecorder()
				c := e.NewContext(req, rec)

				requireHTTPError(t, handler.Get(c), tt.status, tt.code)
				mockService.AssertExpectations(t)
			})
		}
	})
}
