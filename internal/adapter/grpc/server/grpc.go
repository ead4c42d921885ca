package server

import (
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/iho/stmtledger/internal/adapter/grpc/ledgerv1"
	"github.com/iho/stmtledger/internal/adapter/grpc/middleware"
	"github.com/iho/stmtledger/internal/usecase"
)

// Options configures New. Optional interceptors are disabled when nil.
type Options struct {
	Ledger *LedgerServer
	Logger zerolog.Logger

	TokenVerifier    middleware.TokenVerifier
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
}

// New builds a gRPC server exposing LedgerService and the standard health service.
func New(opts Options) (*grpc.Server, *health.Server) {
	interceptors := []grpc.UnaryServerInterceptor{
		middleware.RecoveryInterceptor(opts.Logger),
		middleware.LoggingInterceptor(opts.Logger),
	}

	if opts.TokenVerifier != nil {
		interceptors = append(interceptors, middleware.AuthInterceptor(opts.TokenVerifier, PublicMethods()...))
	}

	if opts.IdempotencyStore != nil {
		interceptors = append(interceptors,
			middleware.IdempotencyInterceptor(opts.IdempotencyStore, opts.IdempotencyTTL, IdempotentMethods(), opts.Logger))
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	ledgerv1.RegisterLedgerServiceServer(srv, opts.Ledger)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthSrv)
	healthSrv.SetServingStatus(ledgerv1.ServiceName, healthpb.HealthCheckResponse_SERVING)

	return srv, healthSrv
}
