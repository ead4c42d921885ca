package domain

import "github.com/shopspring/decimal"

// Totals aggregates an account's statements by operation.
type Totals struct {
	Deposits    decimal.Decimal
	Withdrawals decimal.Decimal
}

// Balance returns deposits minus withdrawals.
func (t Totals) Balance() decimal.Decimal {
	return t.Deposits.Sub(t.Withdrawals)
}

// Add folds one statement into the totals.
func (t Totals) Add(s *Statement) Totals {
	switch s.Operation {
	case OperationDeposit:
		t.Deposits = t.Deposits.Add(s.Amount)
	case OperationWithdraw:
		t.Withdrawals = t.Withdrawals.Add(s.Amount)
	}

	return t
}

// FoldTotals recomputes totals from a full statement history.
func FoldTotals(statements []*Statement) Totals {
	totals := Totals{Deposits: decimal.Zero, Withdrawals: decimal.Zero}
	for _, s := range statements {
		totals = totals.Add(s)
	}

	return totals
}

// EnsureSufficientFunds rejects a withdrawal of amount that would take balance
// below zero.
func EnsureSufficientFunds(balance, amount decimal.Decimal) error {
	if amount.GreaterThan(balance) {
		return ErrInsufficientFunds
	}

	return nil
}
