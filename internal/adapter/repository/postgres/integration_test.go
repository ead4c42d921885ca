package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/stmtledger/internal/adapter/repository/postgres"
	"github.com/iho/stmtledger/internal/domain"
	"github.com/iho/stmtledger/internal/infrastructure/idgen"
	pginfra "github.com/iho/stmtledger/internal/infrastructure/postgres"
	"github.com/iho/stmtledger/internal/usecase"
)

// integrationDB connects to TEST_DATABASE_URL, migrates it and empties the
// ledger tables. The test is skipped when the variable is unset or -short is given.
func integrationDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	require.NoError(t, pginfra.NewMigrator("file://../../../../migrations", dbURL, zerolog.Nop()).Up())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, dbURL, 20, 2)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE TABLE outbox_events, statements, accounts`)
	require.NoError(t, err)

	return pool
}

type ledger struct {
	accounts   *postgres.AccountRepository
	statements *postgres.StatementRepository
	outbox     *postgres.OutboxRepository
	accountUC  *usecase.AccountUseCase
	uc         *usecase.StatementUseCase
}

func newLedger(pool *pgxpool.Pool) *ledger {
	ids := idgen.NewULIDGenerator()
	accounts := postgres.NewAccountRepository(pool)
	statements := postgres.NewStatementRepository(pool, ids)
	outbox := postgres.NewOutboxRepository(pool)

	return &ledger{
		accounts:   accounts,
		statements: statements,
		outbox:     outbox,
		accountUC:  usecase.NewAccountUseCaseWithCost(accounts, ids, 4),
		uc: usecase.NewStatementUseCase(postgres.NewTxManager(pool), statements, accounts, outbox, ids,
			usecase.WithRetrier(postgres.NewRetrier(zerolog.Nop()))),
	}
}

func (l *ledger) account(t *testing.T, email string) string {
	t.Helper()

	account, err := l.accountUC.CreateAccount(context.Background(), usecase.CreateAccountInput{
		Name:     "Integration",
		Email:    email,
		Password: "Passw0rdX",
	})
	require.NoError(t, err)

	return account.ID
}

func (l *ledger) record(ctx context.Context, accountID string, op domain.Operation, amount string) (*domain.Statement, error) {
	return l.uc.CreateStatement(ctx, usecase.CreateStatementInput{
		AccountID: accountID,
		Operation: op,
		Amount:    decimal.RequireFromString(amount),
	})
}

func TestIntegration_ConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	pool := integrationDB(t)
	l := newLedger(pool)
	ctx := context.Background()

	accountID := l.account(t, "concurrent@example.com")
	_, err := l.record(ctx, accountID, domain.OperationDeposit, "100")
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		rejected  atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.record(ctx, accountID, domain.OperationWithdraw, "10")
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, domain.ErrInsufficientFunds):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), succeeded.Load())
	assert.Equal(t, int32(10), rejected.Load())

	totals, err := l.statements.SumByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.True(t, totals.Balance().IsZero(), "balance %s", totals.Balance())
}

func TestIntegration_StatementWritesOutboxEvent(t *testing.T) {
	pool := integrationDB(t)
	l := newLedger(pool)
	ctx := context.Background()

	accountID := l.account(t, "outbox@example.com")
	stmt, err := l.record(ctx, accountID, domain.OperationDeposit, "42.50")
	require.NoError(t, err)

	events, err := l.outbox.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTypeStatementCreated, events[0].EventType)
	assert.Equal(t, stmt.ID, events[0].AggregateID)

	require.NoError(t, l.outbox.MarkPublished(ctx, events[0].ID, time.Now()))

	events, err = l.outbox.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestIntegration_RejectedWithdrawalLeavesNoTrace(t *testing.T) {
	pool := integrationDB(t)
	l := newLedger(pool)
	ctx := context.Background()

	accountID := l.account(t, "reject@example.com")
	_, err := l.record(ctx, accountID, domain.OperationWithdraw, "1")
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	statements, err := l.statements.ListByAccount(ctx, accountID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, statements)

	events, err := l.outbox.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestIntegration_LookupIsScopedToAccount(t *testing.T) {
	pool := integrationDB(t)
	l := newLedger(pool)
	ctx := context.Background()

	alice := l.account(t, "alice@example.com")
	bob := l.account(t, "bob@example.com")

	stmt, err := l.record(ctx, alice, domain.OperationDeposit, "5")
	require.NoError(t, err)

	got, err := l.uc.GetStatement(ctx, alice, stmt.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(5)))

	_, err = l.uc.GetStatement(ctx, bob, stmt.ID)
	assert.ErrorIs(t, err, domain.ErrStatementNotFound)
}

func TestIntegration_StatementsAreAppendOnly(t *testing.T) {
	pool := integrationDB(t)
	l := newLedger(pool)
	ctx := context.Background()

	accountID := l.account(t, "immutable@example.com")
	stmt, err := l.record(ctx, accountID, domain.OperationDeposit, "5")
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `UPDATE statements SET amount = 500 WHERE id = $1`, stmt.ID)
	assert.ErrorContains(t, err, "append-only")

	_, err = pool.Exec(ctx, `DELETE FROM statements WHERE id = $1`, stmt.ID)
	assert.ErrorContains(t, err, "append-only")
}
