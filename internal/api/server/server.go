// Package server は HTTP ルーティングとミドルウェアを組み立てる
package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanosuguru/go-table-reservation/internal/api"
	"github.com/sanosuguru/go-table-reservation/internal/api/handler"
	"github.com/sanosuguru/go-table-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-table-reservation/internal/config"
	"github.com/sanosuguru/go-table-reservation/internal/pkg/metrics"
)

// Dependencies はルーティングに必要なサービス群
type Dependencies struct {
	Reservations handler.ReservationServiceInterface
	Availability handler.AvailabilityServiceInterface
	Restaurants  handler.RestaurantServiceInterface
	DB           handler.Pinger

	// Metrics が nil の場合は HTTP メトリクスを収集しない
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	MetricsAuth config.MetricsConfig
}

// New はミドルウェアとルートを設定した Echo インスタンスを返す
func New(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	middleware.SetupMiddleware(e)
	if deps.Metrics != nil {
		e.Use(middleware.PrometheusMiddleware(deps.Metrics))
	}

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})),
		middleware.MetricsBasicAuth(deps.MetricsAuth))

	health := handler.NewHealthHandler(deps.DB)
	e.GET("/health", health.Check)

	v1 := e.Group("/api/v1")
	v1.GET("/health", health.Check)

	reservations := handler.NewReservationHandler(deps.Reservations)
	v1.POST("/reservations", reservations.Create)
	v1.GET("/reservations/day", reservations.ListByDay)
	v1.GET("/reservations/:id", reservations.GetByID)
	v1.DELETE("/reservations/:id", reservations.Cancel)

	availability := handler.NewAvailabilityHandler(deps.Availability)
	v1.GET("/availability", availability.Get)

	restaurants := handler.NewRestaurantHandler(deps.Restaurants)
	v1.GET("/restaurants", restaurants.List)
	v1.GET("/restaurants/:id", restaurants.GetByID)
	v1.GET("/restaurants/:id/sectors", restaurants.ListSectors)
	v1.GET("/sectors/:id/tables", restaurants.ListTables)

	return e
}
