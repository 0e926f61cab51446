package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-table-reservation/internal/domain/availability"
	"github.com/sanosuguru/go-table-reservation/internal/domain/idempotency"
	"github.com/sanosuguru/go-table-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-table-reservation/internal/domain/restaurant"
	"github.com/sanosuguru/go-table-reservation/internal/domain/schedule"
	"github.com/sanosuguru/go-table-reservation/internal/domain/table"
	"github.com/sanosuguru/go-table-reservation/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-table-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-table-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-table-reservation/internal/pkg/metrics"
)

const (
	defaultSlotLockTTL        = 10 * time.Second
	defaultSlotLockRetries    = 3
	defaultSlotLockRetryDelay = 100 * time.Millisecond
)

type ReservationService struct {
	txManager       transaction.Manager
	restaurantRepo  restaurant.Repository
	tableRepo       table.Repository
	reservationRepo reservation.Repository
	idempotency     *IdempotencyCoordinator

	locker         SlotLocker
	lockTTL        time.Duration
	lockRetries    int
	lockRetryDelay time.Duration

	cache     AvailabilityCache
	publisher EventPublisher
	metrics   *metrics.Metrics
}

// ReservationOption は ReservationService の任意の依存を設定する
type ReservationOption func(*ReservationService)

// WithSlotLock はテーブル割り当てをセクター・日付単位の分散ロックで囲む
// ロックは補助的なもので、取得できなくても処理は続行する
func WithSlotLock(locker SlotLocker, ttl time.Duration, retries int, retryDelay time.Duration) ReservationOption {
	return func(s *ReservationService) {
		s.locker = locker
		if ttl > 0 {
			s.lockTTL = ttl
		}
		if retries > 0 {
			s.lockRetries = retries
		}
		if retryDelay > 0 {
			s.lockRetryDelay = retryDelay
		}
	}
}

// WithCacheInvalidation は予約の作成・キャンセル時に空き状況キャッシュを無効化する
func WithCacheInvalidation(cache AvailabilityCache) ReservationOption {
	return func(s *ReservationService) { s.cache = cache }
}

// WithEventPublisher は予約の確定・キャンセルイベントを配信する
func WithEventPublisher(p EventPublisher) ReservationOption {
	return func(s *ReservationService) { s.publisher = p }
}

func WithReservationMetrics(m *metrics.Metrics) ReservationOption {
	return func(s *ReservationService) { s.metrics = m }
}

func NewReservationService(
	txm transaction.Manager,
	rr restaurant.Repository,
	tr table.Repository,
	resRepo reservation.Repository,
	idem *IdempotencyCoordinator,
	opts ...ReservationOption,
) *ReservationService {
	s := &ReservationService{
		txManager:       txm,
		restaurantRepo:  rr,
		tableRepo:       tr,
		reservationRepo: resRepo,
		idempotency:     idem,
		lockTTL:         defaultSlotLockTTL,
		lockRetries:     defaultSlotLockRetries,
		lockRetryDelay:  defaultSlotLockRetryDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateReservationInput struct {
	RestaurantID   string
	SectorID       string
	PartySize      int
	StartAt        time.Time
	Customer       reservation.Customer
	Notes          string
	IdempotencyKey string
}

func (in CreateReservationInput) validate() error {
	if in.RestaurantID == "" {
		return reservation.ErrRestaurantIDRequired
	}
	if in.SectorID == "" {
		return reservation.ErrSectorIDRequired
	}
	if in.PartySize <= 0 {
		return reservation.ErrInvalidPartySize
	}
	if in.StartAt.IsZero() {
		return reservation.ErrStartTimeRequired
	}
	return in.Customer.Validate()
}

// CreateReservation は空いているテーブルを1卓割り当てて予約を確定する
// 同じ冪等性キーでの再送には最初に作成した予約をそのまま返す
func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (*reservation.Reservation, error) {
	started := time.Now()
	log := logger.Operation("create_reservation",
		zap.String("restaurant_id", input.RestaurantID),
		zap.String("sector_id", input.SectorID),
		zap.Int("party_size", input.PartySize),
		zap.String("idempotency_key", input.IdempotencyKey),
	)

	res, replayed, err := s.createReservation(ctx, input)
	outcome := createOutcome(replayed, err)
	if s.metrics != nil {
		s.metrics.ReservationsTotal.WithLabelValues(outcome).Inc()
		s.metrics.AllocationDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
	}

	if err != nil {
		if outcome == metrics.OutcomeError {
			log.Error("予約作成に失敗", zap.Error(err))
		} else {
			log.Info("予約を作成できません", zap.String("outcome", outcome), zap.Error(err))
		}
		return nil, err
	}
	if replayed {
		log.Info("冪等性キーに紐づく既存の予約を返却",
			zap.String("outcome", outcome),
			zap.String("reservation_id", res.ID),
		)
		return res, nil
	}

	s.afterChange(ctx, res, reservation.EventConfirmed)
	log.Info("予約を作成",
		zap.String("outcome", outcome),
		zap.String("reservation_id", res.ID),
		zap.Strings("table_ids", res.TableIDs),
		zap.Time("start", res.StartAt),
	)
	return res, nil
}

func (s *ReservationService) createReservation(ctx context.Context, input CreateReservationInput) (*reservation.Reservation, bool, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" {
		return nil, false, reservation.ErrIdempotencyKeyRequired
	}

	// 再送は入力内容を検証せずに最初の結果を返す
	existing, ok, err := s.idempotency.Replay(ctx, nil, key)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return existing, true, nil
	}

	if err := input.validate(); err != nil {
		return nil, false, err
	}

	rest, err := s.restaurantRepo.GetByID(ctx, input.RestaurantID)
	if err != nil {
		return nil, false, err
	}
	sector, err := s.restaurantRepo.GetSector(ctx, input.SectorID)
	if err != nil {
		return nil, false, err
	}
	if !sector.BelongsTo(rest.ID) {
		return nil, false, restaurant.ErrSectorNotFound
	}
	loc, err := rest.Location()
	if err != nil {
		return nil, false, err
	}

	startAt := input.StartAt
	endAt := reservation.EndOf(startAt)
	if !rest.IsOpenAt(startAt, loc) {
		return nil, false, reservation.ErrOutsideServiceWindow
	}

	dayStart, dayEnd := schedule.DayOf(startAt, loc)
	if s.locker != nil {
		release := s.acquireSlotLock(ctx, redisinfra.SlotLockKey(sector.ID, dayStart.Format(schedule.DateLayout)))
		defer release()
	}

	tables, err := s.tableRepo.ListBySector(ctx, sector.ID)
	if err != nil {
		return nil, false, fmt.Errorf("テーブル取得に失敗: %w", err)
	}
	if len(tables) == 0 {
		return nil, false, reservation.ErrSectorHasNoTables
	}

	// 日をまたぐ予約も重なり判定できるよう、読み込み範囲は終了時刻まで広げる
	loadFrom, loadTo := dayStart, laterOf(dayEnd, endAt)
	candidates, err := s.candidateTables(ctx, nil, tables, rest.ID, sector.ID, loadFrom, loadTo, startAt, endAt, input.PartySize)
	if err != nil {
		return nil, false, err
	}
	if len(candidates) == 0 {
		return nil, false, noTableAvailable(input.PartySize)
	}
	preferred := candidates[0].ID

	var created, replayed *reservation.Reservation
	err = transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		// セクターのテーブル行をロックし、同じセクターへの割り当てを直列化する
		locked, err := s.tableRepo.LockBySector(ctx, tx, sector.ID)
		if err != nil {
			return fmt.Errorf("テーブルのロックに失敗: %w", err)
		}

		existing, ok, err := s.idempotency.Replay(ctx, tx, key)
		if err != nil {
			return err
		}
		if ok {
			replayed = existing
			return nil
		}

		if len(locked) == 0 {
			return reservation.ErrSectorHasNoTables
		}
		current, err := s.candidateTables(ctx, tx, locked, rest.ID, sector.ID, loadFrom, loadTo, startAt, endAt, input.PartySize)
		if err != nil {
			return err
		}
		tableID, ok := pickTable(current, preferred)
		if !ok {
			return noTableAvailable(input.PartySize)
		}

		res := reservation.NewReservation(rest.ID, sector.ID, []string{tableID}, input.PartySize, startAt, input.Customer, input.Notes)
		if err := res.Validate(); err != nil {
			return err
		}
		if err := s.reservationRepo.Create(ctx, tx, res); err != nil {
			return err
		}
		if err := s.idempotency.Bind(ctx, tx, key, res.ID); err != nil {
			return err
		}
		created = res
		return nil
	})
	if err != nil {
		if errors.Is(err, idempotency.ErrKeyAlreadyBound) {
			// 同じキーの並行リクエストが先にコミットした
			winner, ok, rerr := s.idempotency.Replay(ctx, nil, key)
			if rerr != nil {
				return nil, false, rerr
			}
			if ok {
				return winner, true, nil
			}
		}
		return nil, false, err
	}
	if replayed != nil {
		return replayed, true, nil
	}
	return created, false, nil
}

// candidateTables は [startAt, endAt) に空いていて partySize が収まるテーブルを返す
func (s *ReservationService) candidateTables(
	ctx context.Context,
	tx transaction.Tx,
	tables []*table.Table,
	restaurantID, sectorID string,
	loadFrom, loadTo, startAt, endAt time.Time,
	partySize int,
) ([]*table.Table, error) {
	active, err := s.reservationRepo.ListActiveBySector(ctx, tx, restaurantID, sectorID, loadFrom, loadTo)
	if err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	occupied := availability.ComputeOccupiedTables(active, startAt, endAt)
	return availability.SelectCandidateTables(tables, occupied, partySize), nil
}

// acquireSlotLock はスロットロックを取得し、解放関数を返す
// 取得できなかった場合も DB のロックで整合性は保たれるため警告のみ出す
func (s *ReservationService) acquireSlotLock(ctx context.Context, key string) func() {
	started := time.Now()
	lock, err := s.locker.AcquireLockWithRetry(ctx, key, s.lockTTL, s.lockRetries, s.lockRetryDelay)
	s.observeLock("acquire", err, started)
	if err != nil {
		logger.Warn("スロットロックを取得できませんでした", zap.String("key", key), zap.Error(err))
		return func() {}
	}
	return func() {
		started := time.Now()
		err := lock.Release(context.WithoutCancel(ctx))
		s.observeLock("release", err, started)
		if err != nil {
			logger.Warn("スロットロックの解放に失敗", zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *ReservationService) observeLock(operation string, err error, started time.Time) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	s.metrics.SlotLockDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}

func (s *ReservationService) GetReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	return s.reservationRepo.GetByID(ctx, nil, id)
}

// CancelReservation は予約をキャンセル状態にする。キャンセル済みの予約にも再適用できる
func (s *ReservationService) CancelReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	log := logger.Operation("cancel_reservation", zap.String("reservation_id", id))

	res, err := s.reservationRepo.UpdateStatus(ctx, id, reservation.StatusCancelled)
	if err != nil {
		if errors.Is(err, reservation.ErrReservationNotFound) {
			log.Info("予約が見つかりません")
		} else {
			log.Error("予約キャンセルに失敗", zap.Error(err))
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CancellationsTotal.Inc()
	}
	s.afterChange(ctx, res, reservation.EventCancelled)
	log.Info("予約をキャンセル",
		zap.String("restaurant_id", res.RestaurantID),
		zap.String("sector_id", res.SectorID),
	)
	return res, nil
}

// ListReservationsByDay はレストランの現地日付の予約をすべての状態について開始時刻順に返す
// sectorID が空の場合は全セクターを対象にする
func (s *ReservationService) ListReservationsByDay(ctx context.Context, restaurantID, date, sectorID string) ([]*reservation.Reservation, error) {
	rest, err := s.restaurantRepo.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	loc, err := rest.Location()
	if err != nil {
		return nil, err
	}
	from, to, err := schedule.DayBounds(date, loc)
	if err != nil {
		return nil, err
	}
	return s.reservationRepo.ListByRestaurant(ctx, rest.ID, sectorID, from, to)
}

// CountActiveReservations は終了していない予約の件数を状態別に返す
func (s *ReservationService) CountActiveReservations(ctx context.Context) (map[reservation.Status]int, error) {
	return s.reservationRepo.CountByStatus(ctx, time.Now().Add(-reservation.Duration))
}

// afterChange はコミット後の処理。失敗しても予約自体は確定しているため警告のみ出す
func (s *ReservationService) afterChange(ctx context.Context, res *reservation.Reservation, eventType string) {
	ctx = context.WithoutCancel(ctx)

	if s.cache != nil {
		if err := s.invalidateAvailability(ctx, res); err != nil {
			logger.Warn("空き状況キャッシュの無効化に失敗",
				zap.String("reservation_id", res.ID),
				zap.Error(err),
			)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, reservation.NewEvent(eventType, res)); err != nil {
			logger.Warn("予約イベントの配信に失敗",
				zap.String("event_type", eventType),
				zap.String("reservation_id", res.ID),
				zap.Error(err),
			)
		}
	}
}

// invalidateAvailability は予約が掛かる現地日付すべての空き状況を無効化する
func (s *ReservationService) invalidateAvailability(ctx context.Context, res *reservation.Reservation) error {
	rest, err := s.restaurantRepo.GetByID(ctx, res.RestaurantID)
	if err != nil {
		return err
	}
	loc, err := rest.Location()
	if err != nil {
		return err
	}

	for day, _ := schedule.DayOf(res.StartAt, loc); day.Before(res.EndAt); day = day.AddDate(0, 0, 1) {
		if err := s.cache.Invalidate(ctx, res.RestaurantID, res.SectorID, day.Format(schedule.DateLayout)); err != nil {
			return err
		}
	}
	// 前日のスロットも 90 分の枠でこの予約と重なりうる
	prev, _ := schedule.DayOf(res.StartAt.Add(-reservation.Duration), loc)
	return s.cache.Invalidate(ctx, res.RestaurantID, res.SectorID, prev.Format(schedule.DateLayout))
}

// pickTable は事前に選んだテーブルがまだ空いていればそれを、なければ最適な候補を返す
func pickTable(candidates []*table.Table, preferred string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	for _, t := range candidates {
		if t.ID == preferred {
			return t.ID, true
		}
	}
	return candidates[0].ID, true
}

func noTableAvailable(partySize int) error {
	return fmt.Errorf("%w（%d名）", reservation.ErrNoTableAvailable, partySize)
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func createOutcome(replayed bool, err error) string {
	switch {
	case err == nil && replayed:
		return metrics.OutcomeReplayed
	case err == nil:
		return metrics.OutcomeCreated
	case errors.Is(err, reservation.ErrNoCapacity):
		return metrics.OutcomeNoCapacity
	case errors.Is(err, reservation.ErrOutsideServiceWindow):
		return metrics.OutcomeOutsideServiceWindow
	case errors.Is(err, restaurant.ErrRestaurantNotFound), errors.Is(err, restaurant.ErrSectorNotFound):
		return metrics.OutcomeNotFound
	case reservation.IsValidationError(err):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
