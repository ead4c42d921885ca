package converter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/stmtledger/internal/domain"
	"github.com/iho/stmtledger/internal/usecase"
)

func TestAccountToPbHidesPassword(t *testing.T) {
	if AccountToPb(nil) != nil {
		t.Fatal("expected nil for nil account")
	}

	now := time.Now().UTC()
	got := AccountToPb(&domain.Account{
		ID:             "acc-1",
		Name:           "Alice",
		Email:          "alice@example.com",
		HashedPassword: "$2a$10$secret",
		CreatedAt:      now,
		UpdatedAt:      now,
	})

	if got.ID != "acc-1" || got.Email != "alice@example.com" || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected account %+v", got)
	}
}

func TestStatementToPb(t *testing.T) {
	if StatementToPb(nil) != nil {
		t.Fatal("expected nil for nil statement")
	}

	got := StatementToPb(&domain.Statement{
		ID:          "stmt-1",
		AccountID:   "acc-1",
		Operation:   domain.OperationWithdraw,
		Amount:      decimal.RequireFromString("12.50"),
		Description: "rent",
	})

	if got.Operation != "withdraw" || got.Amount != "12.5" || got.Description != "rent" {
		t.Fatalf("unexpected statement %+v", got)
	}
}

func TestBalanceToPb(t *testing.T) {
	got := BalanceToPb(&usecase.BalanceReport{
		AccountID: "acc-1",
		Balance:   decimal.NewFromInt(70),
		Statements: []*domain.Statement{
			{ID: "s1", AccountID: "acc-1", Operation: domain.OperationDeposit, Amount: decimal.NewFromInt(100)},
			{ID: "s2", AccountID: "acc-1", Operation: domain.OperationWithdraw, Amount: decimal.NewFromInt(30)},
		},
	})

	if got.Balance != "70" || len(got.Statements) != 2 || got.Statements[1].ID != "s2" {
		t.Fatalf("unexpected balance %+v", got)
	}
}

func TestReconciliationToPb(t *testing.T) {
	got := ReconciliationToPb(&usecase.ReconciliationResult{
		AccountID:         "acc-1",
		StatementCount:    3,
		RecordedBalance:   decimal.NewFromInt(10),
		CalculatedBalance: decimal.NewFromInt(12),
		Difference:        decimal.NewFromInt(-2),
	})

	if got.StatementCount != 3 || got.Difference != "-2" || got.IsReconciled {
		t.Fatalf("unexpected reconciliation %+v", got)
	}
}
