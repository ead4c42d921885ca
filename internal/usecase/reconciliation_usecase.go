package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/stmtledger/internal/domain"
)

// ReconciliationUseCase checks that an account's stored aggregate agrees with
// a fold over its full statement history.
type ReconciliationUseCase struct {
	statements StatementRepository
	directory  AccountDirectory
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(statements StatementRepository, directory AccountDirectory) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		statements: statements,
		directory:  directory,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	LastChecked       time.Time
	AccountID         string
	StatementCount    int
	RecordedTotals    domain.Totals
	CalculatedTotals  domain.Totals
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
}

// ReconcileAccount compares SumByAccount with a fold over ListByAccount.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	exists, err := uc.directory.Exists(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, domain.ErrAccountNotFound
	}

	history, err := collectStatements(ctx, uc.statements, accountID)
	if err != nil {
		return nil, err
	}

	recorded, err := uc.statements.SumByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	calculated := domain.FoldTotals(history)
	diff := recorded.Balance().Sub(calculated.Balance())

	return &ReconciliationResult{
		AccountID:         accountID,
		StatementCount:    len(history),
		RecordedTotals:    recorded,
		CalculatedTotals:  calculated,
		RecordedBalance:   recorded.Balance(),
		CalculatedBalance: calculated.Balance(),
		Difference:        diff,
		IsReconciled: recorded.Deposits.Equal(calculated.Deposits) &&
			recorded.Withdrawals.Equal(calculated.Withdrawals),
		LastChecked: time.Now().UTC(),
	}, nil
}
