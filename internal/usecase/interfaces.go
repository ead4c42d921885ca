package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/stmtledger/internal/domain"
)

// AccountDirectory resolves whether an account exists.
type AccountDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	AccountDirectory
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

// StatementRepository defines data access for statements.
//
// Create assigns ID and CreatedAt when they are empty. GetByID only returns a
// statement owned by accountID. SumByAccount must agree with enumerating every
// statement through ListByAccount. ListByAccount returns no statements when
// limit is not positive and treats a negative offset as zero. LockAccount
// serializes callers on the same account until tx ends.
type StatementRepository interface {
	Create(ctx context.Context, tx Transaction, statement *domain.Statement) error
	GetByID(ctx context.Context, accountID, id string) (*domain.Statement, error)
	SumByAccount(ctx context.Context, accountID string) (domain.Totals, error)
	SumByAccountTx(ctx context.Context, tx Transaction, accountID string) (domain.Totals, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Statement, error)
	LockAccount(ctx context.Context, tx Transaction, accountID string) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a storage transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// MetricsRecorder records statement outcomes.
type MetricsRecorder interface {
	ObserveStatement(op domain.Operation, amount decimal.Decimal)
	ObserveRejection(op domain.Operation, reason string)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request may be retried.
	Release(ctx context.Context, key string) error
}
