package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/stmtledger/internal/adapter/http/handler"
	"github.com/iho/stmtledger/internal/adapter/http/middleware"
	"github.com/iho/stmtledger/internal/infrastructure/metrics"
	"github.com/iho/stmtledger/internal/usecase"
)

// RouterConfig holds dependencies for the router. Optional parts are
// disabled when nil.
type RouterConfig struct {
	AccountHandler        *handler.AccountHandler
	StatementHandler      *handler.StatementHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler

	Logger zerolog.Logger

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	TokenVerifier    middleware.TokenVerifier
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))

	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		r.Post("/accounts", cfg.AccountHandler.Create)
		r.Post("/credentials/verify", cfg.AccountHandler.VerifyCredentials)

		r.Route("/accounts/{id}", func(r chi.Router) {
			if cfg.TokenVerifier != nil {
				r.Use(middleware.AuthMiddleware(cfg.TokenVerifier))
				r.Use(middleware.RequireAccountOwner)
			}

			r.Get("/", cfg.AccountHandler.Get)

			r.Route("/statements", func(r chi.Router) {
				r.Get("/", cfg.StatementHandler.List)
				r.Post("/deposit", cfg.StatementHandler.Deposit)
				r.Post("/withdraw", cfg.StatementHandler.Withdraw)
				r.Get("/{statementID}", cfg.StatementHandler.Get)
			})

			r.Get("/balance", cfg.StatementHandler.Balance)
			r.Get("/reconciliation", cfg.ReconciliationHandler.Reconcile)
		})
	})

	return r
}
