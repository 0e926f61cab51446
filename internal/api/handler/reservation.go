package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-table-reservation/internal/api"
	"github.com/sanosuguru/go-table-reservation/internal/application"
	"github.com/sanosuguru/go-table-reservation/internal/domain/reservation"
)

// IdempotencyKeyHeader は予約作成の冪等性キーを運ぶヘッダー
const IdempotencyKeyHeader = "Idempotency-Key"

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

type CustomerRequest struct {
	Name  string `json:"name" validate:"required" example:"John Doe"`
	Phone string `json:"phone" validate:"required" example:"+54 9 11 5555-1234"`
	Email string `json:"email" validate:"required,email" example:"john.doe@mail.com"`
}

type CreateReservationRequest struct {
	RestaurantID     string          `json:"restaurantId" validate:"required" example:"R1"`
	SectorID         string          `json:"sectorId" validate:"required" example:"S1"`
	PartySize        int             `json:"partySize" validate:"gt=0" example:"4"`
	StartDateTimeISO string          `json:"startDateTimeISO" validate:"required,datetime=2006-01-02T15:04:05Z07:00" example:"2025-09-08T20:00:00-03:00"`
	Customer         CustomerRequest `json:"customer"`
	Notes            string          `json:"notes" validate:"max=500" example:"窓際希望"`
}

type CustomerResponse struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type ReservationResponse struct {
	ID           string           `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	RestaurantID string           `json:"restaurantId" example:"R1"`
	SectorID     string           `json:"sectorId" example:"S1"`
	TableIDs     []string         `json:"tableIds" example:"T2"`
	PartySize    int              `json:"partySize" example:"4"`
	Start        string           `json:"start" example:"2025-09-08T23:00:00Z"`
	End          string           `json:"end" example:"2025-09-09T00:30:00Z"`
	Status       string           `json:"status" example:"CONFIRMED"`
	Customer     CustomerResponse `json:"customer"`
	Notes        string           `json:"notes,omitempty"`
	CreatedAt    string           `json:"createdAt"`
	UpdatedAt    string           `json:"updatedAt"`
}

type DayReservationsResponse struct {
	Date  string                `json:"date" example:"2025-09-08"`
	Items []ReservationResponse `json:"items"`
}

// 時刻はすべて UTC で返す
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:           r.ID,
		RestaurantID: r.RestaurantID,
		SectorID:     r.SectorID,
		TableIDs:     r.TableIDs,
		PartySize:    r.PartySize,
		Start:        formatTime(r.StartAt),
		End:          formatTime(r.EndAt),
		Status:       string(r.Status),
		Customer: CustomerResponse{
			Name:  r.Customer.Name,
			Phone: r.Customer.Phone,
			Email: r.Customer.Email,
		},
		Notes:     r.Notes,
		CreatedAt: formatTime(r.CreatedAt),
		UpdatedAt: formatTime(r.UpdatedAt),
	}
}

// Create godoc
// @Summary 予約を作成
// @Description 指定時刻に空いている最適なテーブルを割り当てて予約を確定します。同じ冪等性キーの再送には最初の予約を返します
// @Tags reservations
// @Accept json
// @Produce json
// @Param Idempotency-Key header string true "冪等性キー"
// @Param request body CreateReservationRequest true "予約情報"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "空きテーブルなし"
// @Failure 422 {object} api.ErrorResponse "営業時間外"
// @Router /reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	key := strings.TrimSpace(c.Request().Header.Get(IdempotencyKeyHeader))
	if key == "" {
		return api.NewError(http.StatusBadRequest, api.CodeBadRequest, reservation.ErrIdempotencyKeyRequired.Error())
	}
	var req CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return api.NewError(http.StatusBadRequest, api.CodeBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	startAt, err := time.Parse(time.RFC3339, req.StartDateTimeISO)
	if err != nil {
		return api.NewError(http.StatusBadRequest, api.CodeBadRequest, "startDateTimeISO の形式が不正です")
	}

	r, err := h.service.CreateReservation(c.Request().Context(), application.CreateReservationInput{
		RestaurantID: req.RestaurantID,
		SectorID:     req.SectorID,
		PartySize:    req.PartySize,
		StartAt:      startAt,
		Customer: reservation.Customer{
			Name:  req.Customer.Name,
			Phone: req.Customer.Phone,
			Email: req.Customer.Email,
		},
		Notes:          req.Notes,
		IdempotencyKey: key,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toReservationResponse(r))
}

// GetByID godoc
// @Summary 予約を取得
// @Tags reservations
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetByID(c echo.Context) error {
	r, err := h.service.GetReservation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 予約をキャンセルしてテーブルを解放します。キャンセル済みの予約に対しても成功します
// @Tags reservations
// @Param id path string true "予約ID"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	if _, err := h.service.CancelReservation(c.Request().Context(), c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type ListByDayQuery struct {
	RestaurantID string `query:"restaurantId" validate:"required"`
	Date         string `query:"date" validate:"required"`
	SectorID     string `query:"sectorId"`
}

// ListByDay godoc
// @Summary 日付ごとの予約一覧
// @Description レストランの現地日付に開始する予約を開始時刻順に返します（キャンセル済みを含む）
// @Tags reservations
// @Produce json
// @Param restaurantId query string true "レストランID"
// @Param date query string true "日付 (YYYY-MM-DD)"
// @Param sectorId query string false "セクターID"
// @Success 200 {object} DayReservationsResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /reservations/day [get]
func (h *ReservationHandler) ListByDay(c echo.Context) error {
	var q ListByDayQuery
	if err := c.Bind(&q); err != nil {
		return api.NewError(http.StatusBadRequest, api.CodeBadRequest, "クエリパラメータが不正です")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}
	items, err := h.service.ListReservationsByDay(c.Request().Context(), q.RestaurantID, q.Date, q.SectorID)
	if err != nil {
		return toHTTPError(err)
	}
	resp := DayReservationsResponse{Date: q.Date, Items: make([]ReservationResponse, len(items))}
	for i, r := range items {
		resp.Items[i] = toReservationResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}
