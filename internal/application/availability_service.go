package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-table-reservation/internal/domain/availability"
	"github.com/sanosuguru/go-table-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-table-reservation/internal/domain/restaurant"
	"github.com/sanosuguru/go-table-reservation/internal/domain/schedule"
	"github.com/sanosuguru/go-table-reservation/internal/domain/table"
	redisinfra "github.com/sanosuguru/go-table-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-table-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-table-reservation/internal/pkg/metrics"
)

const (
	defaultAvailabilityCacheTTL = 30 * time.Second

	// ReasonNoCapacity は満席のスロットに付ける理由
	ReasonNoCapacity = "no_capacity"
)

// AvailabilityInput は空き状況照会の条件
type AvailabilityInput struct {
	RestaurantID string
	SectorID     string
	Date         string
	PartySize    int
}

// Availability はセクターの1日分の空き状況
type Availability struct {
	RestaurantID    string `json:"restaurantId"`
	SectorID        string `json:"sectorId"`
	Date            string `json:"date"`
	PartySize       int    `json:"partySize"`
	SlotMinutes     int    `json:"slotMinutes"`
	DurationMinutes int    `json:"durationMinutes"`
	Slots           []Slot `json:"slots"`
}

// Slot は開始時刻ごとの空き状況
// Available が true の場合は割り当て可能なテーブルを最適な順に持つ
type Slot struct {
	Start     time.Time `json:"start"`
	Available bool      `json:"available"`
	TableIDs  []string  `json:"tableIds,omitempty"`
	Tables    []string  `json:"tables,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

type AvailabilityService struct {
	restaurantRepo  restaurant.Repository
	tableRepo       table.Repository
	reservationRepo reservation.Repository

	cache    AvailabilityCache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

type AvailabilityOption func(*AvailabilityService)

// WithAvailabilityCache は照会結果を ttl の間キャッシュする
func WithAvailabilityCache(cache AvailabilityCache, ttl time.Duration) AvailabilityOption {
	return func(s *AvailabilityService) {
		s.cache = cache
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

func WithAvailabilityMetrics(m *metrics.Metrics) AvailabilityOption {
	return func(s *AvailabilityService) { s.metrics = m }
}

func NewAvailabilityService(rr restaurant.Repository, tr table.Repository, resRepo reservation.Repository, opts ...AvailabilityOption) *AvailabilityService {
	s := &AvailabilityService{
		restaurantRepo:  rr,
		tableRepo:       tr,
		reservationRepo: resRepo,
		cacheTTL:        defaultAvailabilityCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAvailability は日付のスロットごとに、予約枠 [start, start+90分) で割り当て可能なテーブルを返す
// 予約作成と同じ判定（キャンセル済みの除外と人数の適合）を使う
func (s *AvailabilityService) GetAvailability(ctx context.Context, input AvailabilityInput) (*Availability, error) {
	log := logger.Operation("check_availability",
		zap.String("restaurant_id", input.RestaurantID),
		zap.String("sector_id", input.SectorID),
		zap.String("date", input.Date),
		zap.Int("party_size", input.PartySize),
	)

	if input.PartySize <= 0 {
		return nil, reservation.ErrInvalidPartySize
	}

	rest, err := s.restaurantRepo.GetByID(ctx, input.RestaurantID)
	if err != nil {
		return nil, err
	}
	sector, err := s.restaurantRepo.GetSector(ctx, input.SectorID)
	if err != nil {
		return nil, err
	}
	if !sector.BelongsTo(rest.ID) {
		return nil, restaurant.ErrSectorNotFound
	}
	loc, err := rest.Location()
	if err != nil {
		return nil, err
	}
	dayStart, dayEnd, err := schedule.DayBounds(input.Date, loc)
	if err != nil {
		return nil, err
	}
	date := dayStart.Format(schedule.DateLayout)

	if cached, ok := s.fromCache(ctx, rest.ID, sector.ID, date, input.PartySize); ok {
		log.Debug("空き状況をキャッシュから返却")
		return cached, nil
	}

	grid, err := schedule.GenerateSlotGrid(date, loc, rest.Shifts, schedule.SlotInterval)
	if err != nil {
		return nil, err
	}
	tables, err := s.tableRepo.ListBySector(ctx, sector.ID)
	if err != nil {
		return nil, fmt.Errorf("テーブル取得に失敗: %w", err)
	}
	// 最終スロットの枠は翌日に掛かるため終了側を予約時間分広げる
	active, err := s.reservationRepo.ListActiveBySector(ctx, nil, rest.ID, sector.ID, dayStart, dayEnd.Add(reservation.Duration))
	if err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}

	result := &Availability{
		RestaurantID:    rest.ID,
		SectorID:        sector.ID,
		Date:            date,
		PartySize:       input.PartySize,
		SlotMinutes:     int(schedule.SlotInterval / time.Minute),
		DurationMinutes: int(reservation.Duration / time.Minute),
		Slots:           make([]Slot, 0, len(grid)),
	}
	for _, start := range grid {
		occupied := availability.ComputeOccupiedTables(active, start, reservation.EndOf(start))
		candidates := availability.SelectCandidateTables(tables, occupied, input.PartySize)
		slot := Slot{Start: start, Available: len(candidates) > 0}
		if slot.Available {
			slot.TableIDs = table.IDs(candidates)
			slot.Tables = table.Names(candidates)
		} else {
			slot.Reason = ReasonNoCapacity
		}
		result.Slots = append(result.Slots, slot)
	}

	s.toCache(ctx, result)
	log.Info("空き状況を算出",
		zap.Int("slots", len(result.Slots)),
		zap.Int("tables", len(tables)),
		zap.Int("reservations", len(active)),
	)
	return result, nil
}

func (s *AvailabilityService) fromCache(ctx context.Context, restaurantID, sectorID, date string, partySize int) (*Availability, bool) {
	if s.cache == nil {
		return nil, false
	}
	var cached Availability
	err := s.cache.Get(ctx, restaurantID, sectorID, date, partySize, &cached)
	switch {
	case err == nil:
		s.countCache("hit")
		return &cached, true
	case errors.Is(err, redisinfra.ErrCacheMiss):
		s.countCache("miss")
	default:
		s.countCache("error")
		logger.Warn("空き状況キャッシュの取得に失敗", zap.Error(err))
	}
	return nil, false
}

func (s *AvailabilityService) toCache(ctx context.Context, a *Availability) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, a.RestaurantID, a.SectorID, a.Date, a.PartySize, a, s.cacheTTL); err != nil {
		logger.Warn("空き状況キャッシュの保存に失敗", zap.Error(err))
	}
}

func (s *AvailabilityService) countCache(result string) {
	if s.metrics != nil {
		s.metrics.AvailabilityCacheRequests.WithLabelValues(result).Inc()
	}
}
