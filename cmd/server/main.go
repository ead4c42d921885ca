package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	grpcServer "github.com/iho/stmtledger/internal/adapter/grpc/server"
	httpAdapter "github.com/iho/stmtledger/internal/adapter/http"
	"github.com/iho/stmtledger/internal/adapter/http/handler"
	"github.com/iho/stmtledger/internal/adapter/http/middleware"
	redisRepo "github.com/iho/stmtledger/internal/adapter/repository/redis"
	"github.com/iho/stmtledger/internal/infrastructure/auth"
	"github.com/iho/stmtledger/internal/infrastructure/config"
	"github.com/iho/stmtledger/internal/infrastructure/eventpublisher"
	"github.com/iho/stmtledger/internal/infrastructure/idgen"
	"github.com/iho/stmtledger/internal/infrastructure/logger"
	"github.com/iho/stmtledger/internal/infrastructure/metrics"
	"github.com/iho/stmtledger/internal/infrastructure/redis"
	"github.com/iho/stmtledger/internal/usecase"
)

const (
	serviceName = "stmtledger"

	rateLimitCleanupInterval = time.Minute
	rateLimitIdleTimeout     = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	for _, worker := range a.workers {
		go worker(workerCtx)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 2)
	go func() {
		log.Info().
			Str("port", cfg.HTTPPort).
			Str("backend", cfg.Backend).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("http server: %w", err)
		}
	}()

	if a.grpcServer != nil {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			return fmt.Errorf("failed to listen on gRPC port: %w", err)
		}

		go func() {
			log.Info().Str("port", cfg.GRPCPort).Msg("starting gRPC server")
			if err := a.grpcServer.Serve(lis); err != nil {
				serverErr <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if a.grpcServer != nil {
		a.grpcHealth.Shutdown()
		stopGRPC(shutdownCtx, a.grpcServer)
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")

	return nil
}

// stopGRPC drains in-flight calls until ctx expires, then closes the rest.
func stopGRPC(ctx context.Context, srv *grpc.Server) {
	done := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		srv.Stop()
	}
}

// app is the wired HTTP handler and gRPC server plus the background workers
// that run next to them.
type app struct {
	handler    http.Handler
	grpcServer *grpc.Server
	grpcHealth *health.Server
	workers    []func(ctx context.Context)
	closers    []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	ids := idgen.NewULIDGenerator()

	store, err := openBackend(ctx, cfg, ids, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", cfg.Backend, err)
	}

	a := &app{closers: []func(){store.Close}}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	var directory usecase.AccountDirectory = store.accounts
	var idempotencyStore usecase.IdempotencyStore

	if cfg.RedisEnabled {
		client, err := redis.NewClient(ctx, redis.ClientConfig{URL: cfg.RedisURL})
		if err != nil {
			a.Close()
			return nil, err
		}
		log.Info().Msg("connected to redis")

		a.closers = append(a.closers, func() { _ = client.Close() })
		store.checks["redis"] = redisPinger(client)

		idempotencyStore = redisRepo.NewIdempotencyStore(client)
		directory = redisRepo.NewCachedAccountDirectory(store.accounts, redisRepo.NewCache(client), cfg.AccountCacheTTL)
	}

	opts := []usecase.StatementOption{
		usecase.WithMetrics(m),
		usecase.WithLogger(log),
		usecase.WithMaxAmount(cfg.MaxAmount()),
	}
	if store.retrier != nil {
		opts = append(opts, usecase.WithRetrier(store.retrier))
	}

	var tokenVerifier *auth.TokenVerifier
	if cfg.AuthEnabled {
		tokenVerifier = auth.NewTokenVerifier(cfg.JWTSecret)
	}

	statementUC := usecase.NewStatementUseCase(store.txManager, store.statements, directory, store.outbox, ids, opts...)
	accountUC := usecase.NewAccountUseCase(store.accounts, ids)
	reconciliationUC := usecase.NewReconciliationUseCase(store.statements, directory)

	routerCfg := httpAdapter.RouterConfig{
		AccountHandler:        handler.NewAccountHandler(accountUC),
		StatementHandler:      handler.NewStatementHandler(statementUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		HealthHandler:         handler.NewHealthHandler(store.checks),
		Logger:                log,
		Metrics:               m,
		Gatherer:              registry,
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
	}

	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)
		routerCfg.RateLimiter = limiter
		a.workers = append(a.workers, func(ctx context.Context) {
			limiter.RunCleanup(ctx, rateLimitCleanupInterval, rateLimitIdleTimeout)
		})
	}

	if tokenVerifier != nil {
		routerCfg.TokenVerifier = tokenVerifier
	}

	if cfg.GRPCEnabled {
		grpcOpts := grpcServer.Options{
			Ledger:           grpcServer.NewLedgerServer(accountUC, statementUC, reconciliationUC),
			Logger:           log,
			IdempotencyStore: idempotencyStore,
			IdempotencyTTL:   cfg.IdempotencyTTL,
		}
		if tokenVerifier != nil {
			grpcOpts.TokenVerifier = tokenVerifier
		}
		a.grpcServer, a.grpcHealth = grpcServer.New(grpcOpts)
	}

	if store.publishOutbox {
		publisher, closePublisher := newOutboxPublisher(cfg, log)
		a.closers = append(a.closers, closePublisher)

		worker := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: store.outbox,
			Publisher:  publisher,
			Logger:     log,
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxInterval,
		})
		a.workers = append(a.workers, func(ctx context.Context) {
			if err := worker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("outbox publisher stopped")
			}
		})
	}

	a.handler = httpAdapter.NewRouter(routerCfg)

	return a, nil
}

func newOutboxPublisher(cfg *config.Config, log zerolog.Logger) (eventpublisher.Publisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		log.Warn().Msg("no kafka brokers configured, outbox events are logged only")
		return eventpublisher.NewLogPublisher(log), func() {}
	}

	publisher := eventpublisher.NewKafkaPublisher(eventpublisher.KafkaConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
		Logger:  log,
	})

	return publisher, func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close kafka writer")
		}
	}
}

func redisPinger(client *goredis.Client) handler.PingFunc {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
