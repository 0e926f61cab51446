package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-table-reservation/internal/api"
	"github.com/sanosuguru/go-table-reservation/internal/application"
)

type AvailabilityHandler struct {
	service AvailabilityServiceInterface
}

func NewAvailabilityHandler(s AvailabilityServiceInterface) *AvailabilityHandler {
	return &AvailabilityHandler{service: s}
}

type AvailabilityQuery struct {
	RestaurantID string `query:"restaurantId" validate:"required"`
	SectorID     string `query:"sectorId" validate:"required"`
	Date         string `query:"date" validate:"required"`
	PartySize    int    `query:"partySize" validate:"gt=0"`
}

type SlotResponse struct {
	Start     string   `json:"start" example:"2025-09-08T23:00:00Z"`
	Available bool     `json:"available" example:"true"`
	TableIDs  []string `json:"tableIds,omitempty" example:"T2,T3"`
	Reason    string   `json:"reason,omitempty" example:"no_capacity"`
}

type AvailabilityResponse struct {
	RestaurantID    string         `json:"restaurantId" example:"R1"`
	SectorID        string         `json:"sectorId" example:"S1"`
	Date            string         `json:"date" example:"2025-09-08"`
	PartySize       int            `json:"partySize" example:"4"`
	SlotMinutes     int            `json:"slotMinutes" example:"15"`
	DurationMinutes int            `json:"durationMinutes" example:"90"`
	Slots           []SlotResponse `json:"slots"`
}

func toAvailabilityResponse(a *application.Availability) AvailabilityResponse {
	resp := AvailabilityResponse{
		RestaurantID:    a.RestaurantID,
		SectorID:        a.SectorID,
		Date:            a.Date,
		PartySize:       a.PartySize,
		SlotMinutes:     a.SlotMinutes,
		DurationMinutes: a.DurationMinutes,
		Slots:           make([]SlotResponse, len(a.Slots)),
	}
	for i, s := range a.Slots {
		resp.Slots[i] = SlotResponse{
			Start:     formatTime(s.Start),
			Available: s.Available,
			TableIDs:  s.TableIDs,
			Reason:    s.Reason,
		}
	}
	return resp
}

// Get godoc
// @Summary 空き状況を取得
// @Description セクターの1日分の15分刻みの開始時刻ごとに、指定人数で割り当て可能なテーブルを返します
// @Tags availability
// @Produce json
// @Param restaurantId query string true "レストランID"
// @Param sectorId query string true "セクターID"
// @Param date query string true "日付 (YYYY-MM-DD)"
// @Param partySize query int true "人数"
// @Success 200 {object} AvailabilityResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /availability [get]
func (h *AvailabilityHandler) Get(c echo.Context) error {
	var q AvailabilityQuery
	if err := c.Bind(&q); err != nil {
		return api.NewError(http.StatusBadRequest, api.CodeBadRequest, "クエリパラメータが不正です")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}
	a, err := h.service.GetAvailability(c.Request().Context(), application.AvailabilityInput{
		RestaurantID: q.RestaurantID,
		SectorID:     q.SectorID,
		Date:         q.Date,
		PartySize:    q.PartySize,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toAvailabilityResponse(a))
}
