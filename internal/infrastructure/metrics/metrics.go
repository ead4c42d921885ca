package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/stmtledger/internal/domain"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Statement metrics
	StatementsRecorded  *prometheus.CounterVec
	StatementAmount     *prometheus.HistogramVec
	StatementRejections *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		StatementsRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stmtledger_statements_recorded_total",
				Help: "Total number of statements committed",
			},
			[]string{"operation"},
		),
		StatementAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stmtledger_statement_amount",
				Help:    "Committed statement amounts",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"operation"},
		),
		StatementRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stmtledger_statement_rejections_total",
				Help: "Statements rejected by operation and reason",
			},
			[]string{"operation", "reason"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stmtledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stmtledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "stmtledger_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		}),
	}
}

// ObserveStatement records a committed statement.
func (m *Metrics) ObserveStatement(op domain.Operation, amount decimal.Decimal) {
	m.StatementsRecorded.WithLabelValues(string(op)).Inc()
	m.StatementAmount.WithLabelValues(string(op)).Observe(amount.InexactFloat64())
}

// ObserveRejection records a statement that was not committed.
func (m *Metrics) ObserveRejection(op domain.Operation, reason string) {
	m.StatementRejections.WithLabelValues(string(op), reason).Inc()
}
