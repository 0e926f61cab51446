package restaurant

import "context"

// Repository はレストランとセクターの読み取りリポジトリ
type Repository interface {
	// GetByID はIDからレストランを取得する
	GetByID(ctx context.Context, id string) (*Restaurant, error)

	// List はレストラン一覧を名前順に取得する
	List(ctx context.Context) ([]*Restaurant, error)

	// GetSector はIDからセクターを取得する
	GetSector(ctx context.Context, id string) (*Sector, error)

	// ListSectors はレストランのセクター一覧を取得する
	ListSectors(ctx context.Context, restaurantID string) ([]*Sector, error)
}
