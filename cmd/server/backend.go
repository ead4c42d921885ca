package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/stmtledger/internal/adapter/http/handler"
	"github.com/iho/stmtledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/stmtledger/internal/adapter/repository/postgres"
	"github.com/iho/stmtledger/internal/adapter/repository/wal"
	"github.com/iho/stmtledger/internal/infrastructure/config"
	"github.com/iho/stmtledger/internal/infrastructure/postgres"
	"github.com/iho/stmtledger/internal/usecase"
)

// backend is one storage engine wired behind the use case interfaces.
type backend struct {
	txManager  usecase.TransactionManager
	accounts   usecase.AccountRepository
	statements usecase.StatementRepository
	outbox     usecase.OutboxRepository
	retrier    usecase.Retrier

	// publishOutbox is set when outbox rows are persisted and need a publisher.
	publishOutbox bool

	checks  map[string]handler.Pinger
	closers []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackend(ctx context.Context, cfg *config.Config, ids usecase.IDGenerator, logger zerolog.Logger) (*backend, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		return openPostgresBackend(ctx, cfg, ids, logger)
	case config.BackendWAL:
		return openWALBackend(cfg, ids, logger)
	case config.BackendMemory:
		return openMemoryBackend(ids), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func openPostgresBackend(ctx context.Context, cfg *config.Config, ids usecase.IDGenerator, logger zerolog.Logger) (*backend, error) {
	migrator := postgres.NewMigrator(cfg.MigrationsPath, cfg.DatabaseURL, logger)
	if err := migrator.Up(); err != nil {
		return nil, err
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, err
	}
	logger.Info().Msg("connected to postgres")

	return &backend{
		txManager:     postgresRepo.NewTxManager(pool),
		accounts:      postgresRepo.NewAccountRepository(pool),
		statements:    postgresRepo.NewStatementRepository(pool, ids),
		outbox:        postgresRepo.NewOutboxRepository(pool),
		retrier:       postgresRepo.NewRetrier(logger),
		publishOutbox: true,
		checks:        map[string]handler.Pinger{"postgres": pool},
		closers:       []func(){pool.Close},
	}, nil
}

func openWALBackend(cfg *config.Config, ids usecase.IDGenerator, logger zerolog.Logger) (*backend, error) {
	journal, err := wal.Open(wal.Config{
		Dir:              cfg.WALDir,
		SegmentThreshold: cfg.WALSegmentThreshold,
		SyncWrites:       cfg.WALSyncWrites,
	})
	if err != nil {
		return nil, err
	}

	accounts := memory.NewAccountRepository(journal)
	statements := memory.NewStatementRepository(ids, journal)

	restored, err := journal.Replay(accounts, statements)
	if err != nil {
		_ = journal.Close()
		return nil, err
	}

	logger.Info().
		Str("dir", cfg.WALDir).
		Int("accounts", restored.Accounts).
		Int("statements", restored.Statements).
		Msg("replayed write-ahead log")

	return &backend{
		txManager:  memory.NewTxManager(),
		accounts:   accounts,
		statements: statements,
		outbox:     memory.NewNullOutboxRepository(),
		checks:     map[string]handler.Pinger{},
		closers: []func(){func() {
			if err := journal.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close write-ahead log")
			}
		}},
	}, nil
}

func openMemoryBackend(ids usecase.IDGenerator) *backend {
	return &backend{
		txManager:  memory.NewTxManager(),
		accounts:   memory.NewAccountRepository(nil),
		statements: memory.NewStatementRepository(ids, nil),
		outbox:     memory.NewNullOutboxRepository(),
		checks:     map[string]handler.Pinger{},
	}
}
