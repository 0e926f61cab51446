package handler

import (
	"context"

	"github.com/sanosuguru/go-table-reservation/internal/application"
	"github.com/sanosuguru/go-table-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-table-reservation/internal/domain/restaurant"
	"github.com/sanosuguru/go-table-reservation/internal/domain/table"
)

// ReservationServiceInterface は予約サービスのインターフェース
type ReservationServiceInterface interface {
	CreateReservation(ctx context.Context, input application.CreateReservationInput) (*reservation.Reservation, error)
	GetReservation(ctx context.Context, id string) (*reservation.Reservation, error)
	CancelReservation(ctx context.Context, id string) (*reservation.Reservation, error)
	ListReservationsByDay(ctx context.Context, restaurantID, date, sectorID string) ([]*reservation.Reservation, error)
}

// AvailabilityServiceInterface は空き状況サービスのインターフェース
type AvailabilityServiceInterface interface {
	GetAvailability(ctx context.Context, input application.AvailabilityInput) (*application.Availability, error)
}

// RestaurantServiceInterface はレストラン参照サービスのインターフェース
type RestaurantServiceInterface interface {
	ListRestaurants(ctx context.Context) ([]*restaurant.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*restaurant.Restaurant, error)
	ListSectors(ctx context.Context, restaurantID string) ([]*restaurant.Sector, error)
	ListTables(ctx context.Context, sectorID string) ([]*table.Table, error)
}
