package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/stmtledger/internal/domain"
	"github.com/iho/stmtledger/internal/usecase"
)

func TestAccountFromDomain(t *testing.T) {
	now := time.Now()
	account := &domain.Account{
		ID:             "acc-1",
		Name:           "Main",
		Email:          "main@example.com",
		HashedPassword: "hash",
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	resp := AccountFromDomain(account)
	if resp.ID != account.ID || resp.Email != account.Email || !resp.CreatedAt.Equal(now) {
		t.Fatalf("unexpected account response: %+v", resp)
	}
}

func TestStatementFromDomain(t *testing.T) {
	now := time.Now()
	stmt := &domain.Statement{
		ID:          "stmt-1",
		AccountID:   "acc-1",
		Operation:   domain.OperationWithdraw,
		Amount:      decimal.RequireFromString("10.50"),
		Description: "rent",
		CreatedAt:   now,
	}

	resp := StatementFromDomain(stmt)
	if resp.ID != stmt.ID || resp.Operation != "withdraw" || resp.Amount != "10.5" {
		t.Fatalf("unexpected statement response: %+v", resp)
	}

	list := StatementsFromDomain([]*domain.Statement{stmt})
	if len(list) != 1 || list[0].ID != stmt.ID {
		t.Fatalf("StatementsFromDomain returned %+v", list)
	}
}

func TestBalanceFromReport(t *testing.T) {
	report := &usecase.BalanceReport{
		AccountID: "acc-1",
		Balance:   decimal.RequireFromString("30"),
		Statements: []*domain.Statement{
			{ID: "s1", Operation: domain.OperationDeposit, Amount: decimal.NewFromInt(100)},
			{ID: "s2", Operation: domain.OperationWithdraw, Amount: decimal.NewFromInt(70)},
		},
	}

	resp := BalanceFromReport(report)
	if resp.Balance != "30" || len(resp.Statements) != 2 || resp.Statements[1].ID != "s2" {
		t.Fatalf("unexpected balance response: %+v", resp)
	}
}

func TestReconciliationFromResult(t *testing.T) {
	result := &usecase.ReconciliationResult{
		AccountID:         "acc-1",
		StatementCount:    3,
		RecordedBalance:   decimal.NewFromInt(5),
		CalculatedBalance: decimal.NewFromInt(5),
		Difference:        decimal.Zero,
		IsReconciled:      true,
	}

	resp := ReconciliationFromResult(result)
	if !resp.IsReconciled || resp.Difference != "0" || resp.StatementCount != 3 {
		t.Fatalf("unexpected reconciliation response: %+v", resp)
	}
}
