package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/stmtledger/internal/domain"
	"github.com/iho/stmtledger/internal/infrastructure/postgres/generated"
	"github.com/iho/stmtledger/internal/usecase"
)

// StatementRepository implements usecase.StatementRepository.
type StatementRepository struct {
	queries *generated.Queries
	idGen   usecase.IDGenerator
}

// NewStatementRepository creates a new StatementRepository.
func NewStatementRepository(pool *pgxpool.Pool, idGen usecase.IDGenerator) *StatementRepository {
	return newStatementRepository(pool, idGen)
}

func newStatementRepository(db generated.DBTX, idGen usecase.IDGenerator) *StatementRepository {
	return &StatementRepository{
		queries: generated.New(db),
		idGen:   idGen,
	}
}

// Create inserts a statement within tx.
func (r *StatementRepository) Create(ctx context.Context, tx usecase.Transaction, statement *domain.Statement) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	if statement.ID == "" {
		statement.ID = r.idGen.Generate()
	}

	if statement.CreatedAt.IsZero() {
		statement.CreatedAt = time.Now().UTC()
	}

	row, err := queries.CreateStatement(ctx, generated.CreateStatementParams{
		ID:          statement.ID,
		AccountID:   statement.AccountID,
		Operation:   string(statement.Operation),
		Amount:      decimalToNumeric(statement.Amount),
		Description: statement.Description,
		CreatedAt:   timeToPgTimestamptz(statement.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("failed to insert statement: %w", err)
	}

	statement.CreatedAt = row.CreatedAt.Time

	return nil
}

// GetByID retrieves a statement owned by accountID.
func (r *StatementRepository) GetByID(ctx context.Context, accountID, id string) (*domain.Statement, error) {
	row, err := r.queries.GetStatementByAccount(ctx, generated.GetStatementByAccountParams{
		ID:        id,
		AccountID: accountID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStatementNotFound
		}

		return nil, err
	}

	return rowToStatement(row), nil
}

// SumByAccount aggregates committed statements of accountID.
func (r *StatementRepository) SumByAccount(ctx context.Context, accountID string) (domain.Totals, error) {
	return sumByAccount(ctx, r.queries, accountID)
}

// SumByAccountTx aggregates statements of accountID as seen by tx.
func (r *StatementRepository) SumByAccountTx(ctx context.Context, tx usecase.Transaction, accountID string) (domain.Totals, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return domain.Totals{}, err
	}

	return sumByAccount(ctx, queries, accountID)
}

// ListByAccount lists statements of accountID in creation order.
func (r *StatementRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Statement, error) {
	if limit <= 0 {
		return []*domain.Statement{}, nil
	}

	rows, err := r.queries.ListStatementsByAccount(ctx, generated.ListStatementsByAccountParams{
		AccountID: accountID,
		Limit:     int32(min(limit, math.MaxInt32)),
		Offset:    int32(min(max(offset, 0), math.MaxInt32)),
	})
	if err != nil {
		return nil, err
	}

	statements := make([]*domain.Statement, 0, len(rows))
	for _, row := range rows {
		statements = append(statements, rowToStatement(row))
	}

	return statements, nil
}

// LockAccount takes a transaction-scoped advisory lock keyed by accountID.
func (r *StatementRepository) LockAccount(ctx context.Context, tx usecase.Transaction, accountID string) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	if err := queries.LockAccountStatements(ctx, accountID); err != nil {
		return fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}

	return nil
}

func sumByAccount(ctx context.Context, queries *generated.Queries, accountID string) (domain.Totals, error) {
	row, err := queries.SumStatementsByAccount(ctx, accountID)
	if err != nil {
		return domain.Totals{}, err
	}

	return domain.Totals{
		Deposits:    numericToDecimal(row.Deposits),
		Withdrawals: numericToDecimal(row.Withdrawals),
	}, nil
}

func rowToStatement(row generated.Statement) *domain.Statement {
	return &domain.Statement{
		ID:          row.ID,
		AccountID:   row.AccountID,
		Operation:   domain.Operation(row.Operation),
		Amount:      numericToDecimal(row.Amount),
		Description: row.Description,
		CreatedAt:   row.CreatedAt.Time,
	}
}
