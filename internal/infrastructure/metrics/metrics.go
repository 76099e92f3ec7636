package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	TransactionsSubmitted *prometheus.CounterVec
	TransactionsResolved  *prometheus.CounterVec
	AdminAdjustments      *prometheus.CounterVec
	DepositsCleared       prometheus.Counter
	TransactionAmount     *prometheus.HistogramVec
	LedgerDuration        *prometheus.HistogramVec
	LedgerErrors          *prometheus.CounterVec

	// Reconciliation metrics
	ReconciliationRuns          *prometheus.CounterVec
	ReconciliationDiscrepancies prometheus.Gauge

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxErrors    prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
// A nil reg registers with the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Ledger metrics
		TransactionsSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletledger_transactions_submitted_total",
				Help: "Total number of transactions submitted for approval",
			},
			[]string{"kind"},
		),
		TransactionsResolved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletledger_transactions_resolved_total",
				Help: "Total number of transactions approved or declined",
			},
			[]string{"kind", "decision"},
		),
		AdminAdjustments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletledger_admin_adjustments_total",
				Help: "Total number of direct admin credits and debits",
			},
			[]string{"kind"},
		),
		DepositsCleared: factory.NewCounter(prometheus.CounterOpts{
			Name: "walletledger_deposits_cleared_total",
			Help: "Total number of deposits moved to cleared",
		}),
		TransactionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "walletledger_transaction_amount",
				Help:    "Amounts of completed transactions",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"kind"},
		),
		LedgerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "walletledger_operation_duration_seconds",
				Help:    "Duration of ledger operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		LedgerErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletledger_operation_errors_total",
				Help: "Total ledger operation errors by type",
			},
			[]string{"operation", "error_type"},
		),

		// Reconciliation metrics
		ReconciliationRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletledger_reconciliation_runs_total",
				Help: "Total reconciliation runs by result",
			},
			[]string{"result"},
		),
		ReconciliationDiscrepancies: factory.NewGauge(prometheus.GaugeOpts{
			Name: "walletledger_reconciliation_discrepancies",
			Help: "Wallets whose balance disagreed with the transaction log in the last run",
		}),

		// Outbox metrics
		OutboxPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "walletledger_outbox_published_total",
			Help: "Total outbox events published",
		}),
		OutboxErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "walletledger_outbox_errors_total",
			Help: "Total outbox publish failures",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "walletledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "walletledger_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		// Redis metrics
		RedisOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletledger_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"route"},
		),

		// Audit metrics
		AuditLogsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletledger_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
