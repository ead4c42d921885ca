package usecase

import (
	"context"

	"github.com/shopspring/decimal"
)

// BalanceEvaluator derives an account balance from its statements. It never
// caches and never checks that the account exists.
type BalanceEvaluator struct {
	statements StatementRepository
}

// NewBalanceEvaluator creates a new BalanceEvaluator.
func NewBalanceEvaluator(statements StatementRepository) *BalanceEvaluator {
	return &BalanceEvaluator{statements: statements}
}

// BalanceOf returns deposits minus withdrawals for accountID.
func (e *BalanceEvaluator) BalanceOf(ctx context.Context, accountID string) (decimal.Decimal, error) {
	totals, err := e.statements.SumByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	return totals.Balance(), nil
}

// BalanceOfTx evaluates the balance inside tx, observing the caller's lock.
func (e *BalanceEvaluator) BalanceOfTx(ctx context.Context, tx Transaction, accountID string) (decimal.Decimal, error) {
	totals, err := e.statements.SumByAccountTx(ctx, tx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	return totals.Balance(), nil
}
