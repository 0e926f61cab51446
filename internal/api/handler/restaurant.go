package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-table-reservation/internal/domain/restaurant"
	"github.com/sanosuguru/go-table-reservation/internal/domain/schedule"
	"github.com/sanosuguru/go-table-reservation/internal/domain/table"
)

type RestaurantHandler struct {
	service RestaurantServiceInterface
}

func NewRestaurantHandler(s RestaurantServiceInterface) *RestaurantHandler {
	return &RestaurantHandler{service: s}
}

type RestaurantResponse struct {
	ID       string           `json:"id" example:"R1"`
	Name     string           `json:"name" example:"Bistro Central"`
	Timezone string           `json:"timezone" example:"America/Argentina/Buenos_Aires"`
	Shifts   []schedule.Shift `json:"shifts"`
}

type SectorResponse struct {
	ID           string `json:"id" example:"S1"`
	RestaurantID string `json:"restaurantId" example:"R1"`
	Name         string `json:"name" example:"Main Hall"`
}

type TableResponse struct {
	ID       string `json:"id" example:"T1"`
	SectorID string `json:"sectorId" example:"S1"`
	Name     string `json:"name" example:"Table 1"`
	MinSize  int    `json:"minSize" example:"2"`
	MaxSize  int    `json:"maxSize" example:"4"`
}

func toRestaurantResponse(r *restaurant.Restaurant) RestaurantResponse {
	shifts := r.Shifts
	if shifts == nil {
		shifts = []schedule.Shift{}
	}
	return RestaurantResponse{ID: r.ID, Name: r.Name, Timezone: r.Timezone, Shifts: shifts}
}

func toSectorResponse(s *restaurant.Sector) SectorResponse {
	return SectorResponse{ID: s.ID, RestaurantID: s.RestaurantID, Name: s.Name}
}

func toTableResponse(t *table.Table) TableResponse {
	return TableResponse{ID: t.ID, SectorID: t.SectorID, Name: t.Name, MinSize: t.MinSize, MaxSize: t.MaxSize}
}

// List godoc
// @Summary レストラン一覧
// @Tags restaurants
// @Produce json
// @Success 200 {array} RestaurantResponse
// @Router /restaurants [get]
func (h *RestaurantHandler) List(c echo.Context) error {
	rs, err := h.service.ListRestaurants(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]RestaurantResponse, len(rs))
	for i, r := range rs {
		resp[i] = toRestaurantResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary レストランを取得
// @Tags restaurants
// @Produce json
// @Param id path string true "レストランID"
// @Success 200 {object} RestaurantResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /restaurants/{id} [get]
func (h *RestaurantHandler) GetByID(c echo.Context) error {
	r, err := h.service.GetRestaurant(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toRestaurantResponse(r))
}

// ListSectors godoc
// @Summary レストランのセクター一覧
// @Tags restaurants
// @Produce json
// @Param id path string true "レストランID"
// @Success 200 {array} SectorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /restaurants/{id}/sectors [get]
func (h *RestaurantHandler) ListSectors(c echo.Context) error {
	sectors, err := h.service.ListSectors(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]SectorResponse, len(sectors))
	for i, s := range sectors {
		resp[i] = toSectorResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListTables godoc
// @Summary セクターのテーブル一覧
// @Tags restaurants
// @Produce json
// @Param id path string true "セクターID"
// @Success 200 {array} TableResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /sectors/{id}/tables [get]
func (h *RestaurantHandler) ListTables(c echo.Context) error {
	tables, err := h.service.ListTables(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]TableResponse, len(tables))
	for i, t := range tables {
		resp[i] = toTableResponse(t)
	}
	return c.JSON(http.StatusOK, resp)
}
