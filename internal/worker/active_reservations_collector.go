package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-table-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-table-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-table-reservation/internal/pkg/metrics"
)

// ReservationCounter は終了していない予約を状態別に数えるインターフェース
type ReservationCounter interface {
	CountActiveReservations(ctx context.Context) (map[reservation.Status]int, error)
}

var trackedStatuses = []reservation.Status{
	reservation.StatusPending,
	reservation.StatusConfirmed,
	reservation.StatusCancelled,
}

// ActiveReservationsCollector は予約件数を定期的に集計してゲージに反映するワーカー
type ActiveReservationsCollector struct {
	counter  ReservationCounter
	metrics  *metrics.Metrics
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewActiveReservationsCollector は新しいコレクターを作成
func NewActiveReservationsCollector(
	counter ReservationCounter,
	m *metrics.Metrics,
	interval time.Duration,
) *ActiveReservationsCollector {
	return &ActiveReservationsCollector{
		counter:  counter,
		metrics:  m,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はコレクターを開始する。起動直後に1回集計する
func (c *ActiveReservationsCollector) Start(ctx context.Context) {
	logger.Info("予約件数コレクター開始", zap.Duration("interval", c.interval))

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.doneCh)

	c.collect(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("予約件数コレクター停止（コンテキストキャンセル）")
			return
		case <-c.stopCh:
			logger.Info("予約件数コレクター停止（シグナル受信）")
			return
		case <-ticker.C:
			c.collect(ctx)
		}
	}
}

// Stop はコレクターを停止し、ループの終了を待つ
func (c *ActiveReservationsCollector) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	<-c.doneCh
}

func (c *ActiveReservationsCollector) collect(ctx context.Context) {
	counts, err := c.counter.CountActiveReservations(ctx)
	if err != nil {
		logger.Error("予約件数の集計に失敗", zap.Error(err))
		return
	}

	for _, status := range trackedStatuses {
		c.metrics.ActiveReservations.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
	logger.Debug("予約件数を更新",
		zap.Int("confirmed", counts[reservation.StatusConfirmed]),
		zap.Int("cancelled", counts[reservation.StatusCancelled]),
	)
}
