package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Movement metrics
	MovementsRecorded *prometheus.CounterVec
	MovementAmount    *prometheus.HistogramVec
	MovementErrors    *prometheus.CounterVec

	// Transfer metrics
	TransfersScheduled prometheus.Counter
	TransfersExecuted  prometheus.Counter
	TransfersCancelled prometheus.Counter
	TransferDuration   prometheus.Histogram
	TransferErrors     *prometheus.CounterVec

	// Sweep metrics
	SweepRuns     prometheus.Counter
	SweepDue      prometheus.Counter
	SweepExecuted prometheus.Counter
	SweepSkipped  prometheus.Counter
	SweepFailed   prometheus.Counter
	SweepDuration prometheus.Histogram

	// Account metrics
	AccountsCreated prometheus.Counter
	AccountBalance  *prometheus.GaugeVec

	// Projection metrics
	ProjectionsGenerated *prometheus.CounterVec
	ProjectionDuration   prometheus.Histogram
	ProjectionCacheHits  prometheus.Counter

	// Session metrics
	SessionsOpened prometheus.Counter
	SessionsClosed prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Outbox metrics
	EventsPublished *prometheus.CounterVec
	PublishErrors   prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Movement metrics
		MovementsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caixaflow_movements_recorded_total",
				Help: "Total number of movements recorded",
			},
			[]string{"direction", "method"},
		),
		MovementAmount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "caixaflow_movement_amount",
				Help:    "Movement amounts",
				Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
			},
			[]string{"direction"},
		),
		MovementErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caixaflow_movement_errors_total",
				Help: "Total number of movement errors by type",
			},
			[]string{"error_type"},
		),

		// Transfer metrics
		TransfersScheduled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_transfers_scheduled_total",
			Help: "Total number of transfers scheduled",
		}),
		TransfersExecuted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_transfers_executed_total",
			Help: "Total number of transfers executed",
		}),
		TransfersCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_transfers_cancelled_total",
			Help: "Total number of transfers cancelled",
		}),
		TransferDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "caixaflow_transfer_duration_seconds",
			Help:    "Duration of transfer execution",
			Buckets: prometheus.DefBuckets,
		}),
		TransferErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caixaflow_transfer_errors_total",
				Help: "Total number of transfer errors by type",
			},
			[]string{"error_type"},
		),

		// Sweep metrics
		SweepRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_sweep_runs_total",
			Help: "Total number of due-transfer sweep runs",
		}),
		SweepDue: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_sweep_due_total",
			Help: "Total number of due transfers found by sweeps",
		}),
		SweepExecuted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_sweep_executed_total",
			Help: "Total number of transfers executed by sweeps",
		}),
		SweepSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_sweep_skipped_total",
			Help: "Total number of transfers skipped by sweeps",
		}),
		SweepFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_sweep_failed_total",
			Help: "Total number of transfers that failed during sweeps",
		}),
		SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "caixaflow_sweep_duration_seconds",
			Help:    "Duration of sweep runs",
			Buckets: prometheus.DefBuckets,
		}),

		// Account metrics
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountBalance: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "caixaflow_account_balance",
				Help: "Current account balance",
			},
			[]string{"account_id", "kind"},
		),

		// Projection metrics
		ProjectionsGenerated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caixaflow_projections_generated_total",
				Help: "Total number of projections generated by scenario",
			},
			[]string{"scenario"},
		),
		ProjectionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "caixaflow_projection_duration_seconds",
			Help:    "Duration of projection generation",
			Buckets: prometheus.DefBuckets,
		}),
		ProjectionCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_projection_cache_hits_total",
			Help: "Total number of projection cache hits",
		}),

		// Session metrics
		SessionsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_sessions_opened_total",
			Help: "Total number of cash sessions opened",
		}),
		SessionsClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_sessions_closed_total",
			Help: "Total number of cash sessions closed",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caixaflow_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "caixaflow_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caixaflow_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "caixaflow_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "caixaflow_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caixaflow_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caixaflow_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caixaflow_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caixaflow_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Outbox metrics
		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caixaflow_events_published_total",
				Help: "Total outbox events published by type",
			},
			[]string{"event_type"},
		),
		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caixaflow_publish_errors_total",
			Help: "Total outbox publish errors",
		}),
	}
}
