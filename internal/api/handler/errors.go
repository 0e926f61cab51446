package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-table-reservation/internal/api"
	"github.com/sanosuguru/go-table-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-table-reservation/internal/domain/restaurant"
	"github.com/sanosuguru/go-table-reservation/internal/domain/schedule"
)

// toHTTPError はアプリケーション層のエラーを HTTP エラーに変換する
func toHTTPError(err error) *echo.HTTPError {
	switch {
	case reservation.IsValidationError(err), errors.Is(err, schedule.ErrInvalidDate):
		return api.NewError(http.StatusBadRequest, api.CodeBadRequest, err.Error())
	case errors.Is(err, restaurant.ErrRestaurantNotFound),
		errors.Is(err, restaurant.ErrSectorNotFound),
		errors.Is(err, reservation.ErrReservationNotFound):
		return api.NewError(http.StatusNotFound, api.CodeNotFound, err.Error())
	case errors.Is(err, reservation.ErrOutsideServiceWindow):
		return api.NewError(http.StatusUnprocessableEntity, api.CodeOutsideServiceWindow, err.Error())
	case errors.Is(err, reservation.ErrNoCapacity):
		return api.NewError(http.StatusConflict, api.CodeNoCapacity, err.Error())
	default:
		he := api.NewError(http.StatusInternalServerError, api.CodeInternalError, "内部サーバーエラー")
		return he.SetInternal(err)
	}
}
