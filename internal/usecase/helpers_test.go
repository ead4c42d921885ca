package usecase_test

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/stmtledger/internal/adapter/repository/memory"
	"github.com/iho/stmtledger/internal/domain"
	"github.com/iho/stmtledger/internal/usecase"
)

type seqGen struct{ n atomic.Int64 }

func (g *seqGen) Generate() string {
	return "id-" + strconv.FormatInt(g.n.Add(1), 10)
}

// ledger wires the use cases over the in-memory store.
type ledger struct {
	accounts   *memory.AccountRepository
	statements *memory.StatementRepository
	uc         *usecase.StatementUseCase
	evaluator  *usecase.BalanceEvaluator
}

func newLedger(t *testing.T, accountIDs ...string) *ledger {
	t.Helper()

	ids := &seqGen{}
	accounts := memory.NewAccountRepository(nil)
	statements := memory.NewStatementRepository(ids, nil)

	for _, id := range accountIDs {
		if err := accounts.Create(context.Background(), &domain.Account{ID: id, Email: id + "@example.com"}); err != nil {
			t.Fatalf("failed to seed account %s: %v", id, err)
		}
	}

	return &ledger{
		accounts:   accounts,
		statements: statements,
		uc: usecase.NewStatementUseCase(
			memory.NewTxManager(),
			statements,
			accounts,
			memory.NewNullOutboxRepository(),
			ids,
		),
		evaluator: usecase.NewBalanceEvaluator(statements),
	}
}

func (l *ledger) deposit(t *testing.T, accountID string, amount int64, description string) *domain.Statement {
	t.Helper()

	stmt, err := l.uc.CreateStatement(context.Background(), usecase.CreateStatementInput{
		AccountID:   accountID,
		Operation:   domain.OperationDeposit,
		Amount:      decimal.NewFromInt(amount),
		Description: description,
	})
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	return stmt
}

func (l *ledger) withdraw(accountID string, amount int64) (*domain.Statement, error) {
	return l.uc.CreateStatement(context.Background(), usecase.CreateStatementInput{
		AccountID:   accountID,
		Operation:   domain.OperationWithdraw,
		Amount:      decimal.NewFromInt(amount),
		Description: "Withdraw",
	})
}

func (l *ledger) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()

	b, err := l.evaluator.BalanceOf(context.Background(), accountID)
	if err != nil {
		t.Fatalf("BalanceOf failed: %v", err)
	}

	return b
}

func (l *ledger) count(t *testing.T, accountID string) int {
	t.Helper()

	list, err := l.statements.ListByAccount(context.Background(), accountID, domain.MaxPageSize, 0)
	if err != nil {
		t.Fatalf("ListByAccount failed: %v", err)
	}

	return len(list)
}
