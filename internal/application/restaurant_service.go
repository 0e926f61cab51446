package application

import (
	"context"

	"github.com/sanosuguru/go-table-reservation/internal/domain/restaurant"
	"github.com/sanosuguru/go-table-reservation/internal/domain/table"
)

type RestaurantService struct {
	restaurantRepo restaurant.Repository
	tableRepo      table.Repository
}

func NewRestaurantService(rr restaurant.Repository, tr table.Repository) *RestaurantService {
	return &RestaurantService{restaurantRepo: rr, tableRepo: tr}
}

func (s *RestaurantService) ListRestaurants(ctx context.Context) ([]*restaurant.Restaurant, error) {
	return s.restaurantRepo.List(ctx)
}

func (s *RestaurantService) GetRestaurant(ctx context.Context, id string) (*restaurant.Restaurant, error) {
	return s.restaurantRepo.GetByID(ctx, id)
}

// ListSectors はレストランのセクター一覧を返す。レストランが存在しない場合はエラー
func (s *RestaurantService) ListSectors(ctx context.Context, restaurantID string) ([]*restaurant.Sector, error) {
	if _, err := s.restaurantRepo.GetByID(ctx, restaurantID); err != nil {
		return nil, err
	}
	return s.restaurantRepo.ListSectors(ctx, restaurantID)
}

func (s *RestaurantService) ListTables(ctx context.Context, sectorID string) ([]*table.Table, error) {
	if _, err := s.restaurantRepo.GetSector(ctx, sectorID); err != nil {
		return nil, err
	}
	return s.tableRepo.ListBySector(ctx, sectorID)
}
