package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 予約作成の結果ラベル
const (
	OutcomeCreated              = "created"
	OutcomeReplayed             = "replayed"
	OutcomeNoCapacity           = "no_capacity"
	OutcomeOutsideServiceWindow = "outside_service_window"
	OutcomeNotFound             = "not_found"
	OutcomeInvalid              = "invalid"
	OutcomeError                = "error"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約作成の試行数（outcome: created, replayed, no_capacity, ...）
	ReservationsTotal *prometheus.CounterVec

	// 予約キャンセル数
	CancellationsTotal prometheus.Counter

	// テーブル割り当て（トランザクション含む）の所要時間（outcome）
	AllocationDuration *prometheus.HistogramVec

	// スロットロックの操作時間（operation: acquire/release, status: success/failed）
	SlotLockDuration *prometheus.HistogramVec

	// 空き状況キャッシュの参照結果（result: hit/miss/error）
	AvailabilityCacheRequests *prometheus.CounterVec

	// 本日以降の予約数（status: CONFIRMED, CANCELLED）
	ActiveReservations *prometheus.GaugeVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservations_total",
				Help: "Total number of reservation attempts by outcome",
			},
			[]string{"outcome"},
		),
		CancellationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "reservation_cancellations_total",
				Help: "Total number of reservation cancellations",
			},
		),
		AllocationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "table_allocation_duration_seconds",
				Help:    "Time spent allocating a table and committing the reservation",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"outcome"},
		),
		SlotLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "slot_lock_duration_seconds",
				Help:    "Time spent on sector slot lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		AvailabilityCacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "availability_cache_requests_total",
				Help: "Availability cache lookups by result",
			},
			[]string{"result"},
		),
		ActiveReservations: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "active_reservations",
				Help: "Number of upcoming reservations by status",
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReservationsTotal,
		m.CancellationsTotal,
		m.AllocationDuration,
		m.SlotLockDuration,
		m.AvailabilityCacheRequests,
		m.ActiveReservations,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
