package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/stmtledger/internal/domain"
	"github.com/iho/stmtledger/internal/usecase"
	"github.com/iho/stmtledger/internal/usecase/mocks"
)

type statementMocks struct {
	txMgr      *mocks.MockTransactionManager
	tx         *mocks.MockTransaction
	statements *mocks.MockStatementRepository
	directory  *mocks.MockAccountDirectory
	outbox     *mocks.MockOutboxRepository
	idGen      *mocks.MockIDGenerator
	metrics    *mocks.MockMetricsRecorder
}

func newStatementMocks(ctrl *gomock.Controller) *statementMocks {
	return &statementMocks{
		txMgr:      mocks.NewMockTransactionManager(ctrl),
		tx:         mocks.NewMockTransaction(ctrl),
		statements: mocks.NewMockStatementRepository(ctrl),
		directory:  mocks.NewMockAccountDirectory(ctrl),
		outbox:     mocks.NewMockOutboxRepository(ctrl),
		idGen:      mocks.NewMockIDGenerator(ctrl),
		metrics:    mocks.NewMockMetricsRecorder(ctrl),
	}
}

func (m *statementMocks) useCase(opts ...usecase.StatementOption) *usecase.StatementUseCase {
	opts = append([]usecase.StatementOption{usecase.WithMetrics(m.metrics)}, opts...)
	return usecase.NewStatementUseCase(m.txMgr, m.statements, m.directory, m.outbox, m.idGen, opts...)
}

func TestStatementUseCase_CreateStatement(t *testing.T) {
	tests := []struct {
		name       string
		input      usecase.CreateStatementInput
		setupMocks func(m *statementMocks)
		errorType  error
	}{
		{
			name: "deposit commits without locking",
			input: usecase.CreateStatementInput{
				AccountID:   "acc-1",
				Operation:   domain.OperationDeposit,
				Amount:      decimal.NewFromInt(100),
				Description: "Deposit",
			},
			setupMocks: func(m *statementMocks) {
				m.directory.EXPECT().Exists(gomock.Any(), "acc-1").Return(true, nil)
				m.txMgr.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.statements.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ usecase.Transaction, s *domain.Statement) error {
						s.ID = "stmt-1"
						return nil
					})
				m.idGen.EXPECT().Generate().Return("evt-1")
				m.outbox.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ usecase.Transaction, e *domain.OutboxEvent) error {
						if e.AggregateID != "stmt-1" || e.EventType != domain.EventTypeStatementCreated {
							t.Errorf("unexpected outbox event %+v", e)
						}
						return nil
					})
				m.tx.EXPECT().Commit(gomock.Any()).Return(nil)
				m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
				m.metrics.EXPECT().ObserveStatement(domain.OperationDeposit, gomock.Any())
			},
		},
		{
			name: "withdraw within balance",
			input: usecase.CreateStatementInput{
				AccountID: "acc-1",
				Operation: domain.OperationWithdraw,
				Amount:    decimal.NewFromInt(80),
			},
			setupMocks: func(m *statementMocks) {
				m.directory.EXPECT().Exists(gomock.Any(), "acc-1").Return(true, nil)
				m.txMgr.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				gomock.InOrder(
					m.statements.EXPECT().LockAccount(gomock.Any(), m.tx, "acc-1").Return(nil),
					m.statements.EXPECT().SumByAccountTx(gomock.Any(), m.tx, "acc-1").
						Return(domain.Totals{Deposits: decimal.NewFromInt(100), Withdrawals: decimal.Zero}, nil),
					m.statements.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil),
				)
				m.idGen.EXPECT().Generate().Return("evt-1")
				m.outbox.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil)
				m.tx.EXPECT().Commit(gomock.Any()).Return(nil)
				m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
				m.metrics.EXPECT().ObserveStatement(domain.OperationWithdraw, gomock.Any())
			},
		},
		{
			name: "withdraw above balance writes nothing",
			input: usecase.CreateStatementInput{
				AccountID: "acc-1",
				Operation: domain.OperationWithdraw,
				Amount:    decimal.NewFromInt(30),
			},
			setupMocks: func(m *statementMocks) {
				m.directory.EXPECT().Exists(gomock.Any(), "acc-1").Return(true, nil)
				m.txMgr.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.statements.EXPECT().LockAccount(gomock.Any(), m.tx, "acc-1").Return(nil)
				m.statements.EXPECT().SumByAccountTx(gomock.Any(), m.tx, "acc-1").
					Return(domain.Totals{Deposits: decimal.NewFromInt(100), Withdrawals: decimal.NewFromInt(80)}, nil)
				m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
				m.metrics.EXPECT().ObserveRejection(domain.OperationWithdraw, "insufficient_funds")
			},
			errorType: domain.ErrInsufficientFunds,
		},
		{
			name: "unknown account",
			input: usecase.CreateStatementInput{
				AccountID: "ghost",
				Operation: domain.OperationDeposit,
				Amount:    decimal.NewFromInt(1),
			},
			setupMocks: func(m *statementMocks) {
				m.directory.EXPECT().Exists(gomock.Any(), "ghost").Return(false, nil)
				m.metrics.EXPECT().ObserveRejection(domain.OperationDeposit, "account_not_found")
			},
			errorType: domain.ErrAccountNotFound,
		},
		{
			name: "zero amount rejected before any lookup",
			input: usecase.CreateStatementInput{
				AccountID: "acc-1",
				Operation: domain.OperationDeposit,
				Amount:    decimal.Zero,
			},
			setupMocks: func(m *statementMocks) {
				m.metrics.EXPECT().ObserveRejection(domain.OperationDeposit, "invalid_amount")
			},
			errorType: domain.ErrInvalidAmount,
		},
		{
			name: "unknown operation",
			input: usecase.CreateStatementInput{
				AccountID: "acc-1",
				Operation: domain.Operation("transfer"),
				Amount:    decimal.NewFromInt(5),
			},
			setupMocks: func(m *statementMocks) {
				m.metrics.EXPECT().ObserveRejection(domain.Operation("transfer"), "invalid_operation")
			},
			errorType: domain.ErrInvalidOperation,
		},
		{
			name: "description too long",
			input: usecase.CreateStatementInput{
				AccountID:   "acc-1",
				Operation:   domain.OperationDeposit,
				Amount:      decimal.NewFromInt(5),
				Description: strings.Repeat("x", domain.MaxDescriptionLength+1),
			},
			setupMocks: func(m *statementMocks) {
				m.metrics.EXPECT().ObserveRejection(domain.OperationDeposit, "invalid_description")
			},
			errorType: domain.ErrDescriptionTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := newStatementMocks(ctrl)
			tt.setupMocks(m)

			stmt, err := m.useCase().CreateStatement(context.Background(), tt.input)

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected error %v, got %v", tt.errorType, err)
				}
				if stmt != nil {
					t.Fatalf("expected nil statement on error, got %+v", stmt)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !stmt.Amount.Equal(tt.input.Amount) || stmt.Operation != tt.input.Operation {
				t.Fatalf("stored statement does not match input: %+v", stmt)
			}
		})
	}
}

func TestStatementUseCase_CreateStatement_MaxAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newStatementMocks(ctrl)
	m.metrics.EXPECT().ObserveRejection(domain.OperationDeposit, "invalid_amount")

	uc := m.useCase(usecase.WithMaxAmount(decimal.NewFromInt(1000)))

	_, err := uc.CreateStatement(context.Background(), usecase.CreateStatementInput{
		AccountID: "acc-1",
		Operation: domain.OperationDeposit,
		Amount:    decimal.NewFromInt(1001),
	})
	if !errors.Is(err, domain.ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestStatementUseCase_CreateStatement_RejectsUnstorablePrecision(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newStatementMocks(ctrl)
	m.metrics.EXPECT().ObserveRejection(domain.OperationDeposit, "invalid_amount")

	_, err := m.useCase().CreateStatement(context.Background(), usecase.CreateStatementInput{
		AccountID: "acc-1",
		Operation: domain.OperationDeposit,
		Amount:    decimal.RequireFromString("0.000000004"),
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestStatementUseCase_CreateStatement_UsesRetrier(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newStatementMocks(ctrl)
	retrier := mocks.NewMockRetrier(ctrl)

	transient := errors.New("serialization failure")
	attempts := 0

	m.directory.EXPECT().Exists(gomock.Any(), "acc-1").Return(true, nil)
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, op func() error) error {
			for {
				err := op()
				if !errors.Is(err, transient) {
					return err
				}
			}
		})
	m.txMgr.EXPECT().Begin(gomock.Any()).Return(m.tx, nil).Times(2)
	m.statements.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, s *domain.Statement) error {
			attempts++
			if s.ID != "" {
				t.Errorf("attempt %d reused statement id %q", attempts, s.ID)
			}
			s.ID = "stmt-1"
			if attempts == 1 {
				return transient
			}
			return nil
		}).Times(2)
	m.idGen.EXPECT().Generate().Return("evt-1")
	m.outbox.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.tx.EXPECT().Commit(gomock.Any()).Return(nil)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).Times(2)
	m.metrics.EXPECT().ObserveStatement(domain.OperationDeposit, gomock.Any())

	_, err := m.useCase(usecase.WithRetrier(retrier)).CreateStatement(context.Background(), usecase.CreateStatementInput{
		AccountID: "acc-1",
		Operation: domain.OperationDeposit,
		Amount:    decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestStatementUseCase_GetStatement(t *testing.T) {
	t.Run("unknown account", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := newStatementMocks(ctrl)
		m.directory.EXPECT().Exists(gomock.Any(), "ghost").Return(false, nil)

		_, err := m.useCase().GetStatement(context.Background(), "ghost", "stmt-1")
		if !errors.Is(err, domain.ErrAccountNotFound) {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
	})

	t.Run("directory failure propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := newStatementMocks(ctrl)
		boom := errors.New("directory down")
		m.directory.EXPECT().Exists(gomock.Any(), "acc-1").Return(false, boom)

		_, err := m.useCase().GetStatement(context.Background(), "acc-1", "stmt-1")
		if !errors.Is(err, boom) {
			t.Fatalf("expected directory error, got %v", err)
		}
	})

	t.Run("lookup scoped to account", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := newStatementMocks(ctrl)
		m.directory.EXPECT().Exists(gomock.Any(), "acc-1").Return(true, nil)
		m.statements.EXPECT().GetByID(gomock.Any(), "acc-1", "stmt-1").
			Return(&domain.Statement{ID: "stmt-1", AccountID: "acc-1"}, nil)

		stmt, err := m.useCase().GetStatement(context.Background(), "acc-1", "stmt-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stmt.ID != "stmt-1" {
			t.Fatalf("unexpected statement %+v", stmt)
		}
	})
}

func TestStatementUseCase_GetBalance_FoldsReturnedStatements(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newStatementMocks(ctrl)
	m.directory.EXPECT().Exists(gomock.Any(), "acc-1").Return(true, nil)
	m.statements.EXPECT().ListByAccount(gomock.Any(), "acc-1", gomock.Any(), 0).Return([]*domain.Statement{
		{ID: "s1", AccountID: "acc-1", Operation: domain.OperationDeposit, Amount: decimal.NewFromInt(100)},
		{ID: "s2", AccountID: "acc-1", Operation: domain.OperationWithdraw, Amount: decimal.NewFromInt(30)},
	}, nil)
	// A statement committed after the listing must not leak into the balance.
	m.statements.EXPECT().SumByAccount(gomock.Any(), "acc-1").Return(domain.Totals{
		Deposits:    decimal.NewFromInt(150),
		Withdrawals: decimal.NewFromInt(30),
	}, nil).AnyTimes()

	report, err := m.useCase().GetBalance(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Statements) != 2 || !report.Balance.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("unexpected report: balance %s with %d statements", report.Balance, len(report.Statements))
	}
}

func TestStatementUseCase_ListStatements_ClampsPagination(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newStatementMocks(ctrl)
	m.directory.EXPECT().Exists(gomock.Any(), "acc-1").Return(true, nil)
	m.statements.EXPECT().ListByAccount(gomock.Any(), "acc-1", domain.DefaultPageSize, 0).Return(nil, nil)

	if _, err := m.useCase().ListStatements(context.Background(), usecase.ListStatementsInput{AccountID: "acc-1", Limit: -1, Offset: -3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Properties exercised against the in-memory store.

func TestBalanceIsFoldOfHistory(t *testing.T) {
	l := newLedger(t, "acc-1")

	l.deposit(t, "acc-1", 100, "Deposit")
	if _, err := l.withdraw("acc-1", 40); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	l.deposit(t, "acc-1", 15, "Deposit")

	list, err := l.statements.ListByAccount(context.Background(), "acc-1", domain.MaxPageSize, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	var want decimal.Decimal
	for _, s := range list {
		switch s.Operation {
		case domain.OperationDeposit:
			want = want.Add(s.Amount)
		case domain.OperationWithdraw:
			want = want.Sub(s.Amount)
		}
	}

	if got := l.balance(t, "acc-1"); !got.Equal(want) || !got.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("balance = %s, fold = %s", got, want)
	}
}

func TestDepositIncreasesBalanceByAmount(t *testing.T) {
	l := newLedger(t, "acc-1")

	for _, amount := range []int64{1, 10, 250} {
		before := l.balance(t, "acc-1")
		l.deposit(t, "acc-1", amount, "")
		after := l.balance(t, "acc-1")

		if !after.Sub(before).Equal(decimal.NewFromInt(amount)) {
			t.Fatalf("deposit of %d moved balance from %s to %s", amount, before, after)
		}
	}
}

func TestOverdraftLeavesStoreUnchanged(t *testing.T) {
	l := newLedger(t, "acc-1")
	l.deposit(t, "acc-1", 50, "Deposit")

	before := l.count(t, "acc-1")

	_, err := l.withdraw("acc-1", 51)
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if after := l.count(t, "acc-1"); after != before {
		t.Fatalf("entry count changed from %d to %d", before, after)
	}
}

func TestWithdrawScenario(t *testing.T) {
	l := newLedger(t, "acc-1")

	if !l.balance(t, "acc-1").IsZero() {
		t.Fatal("expected empty account to have zero balance")
	}

	l.deposit(t, "acc-1", 100, "Deposit")
	if got := l.balance(t, "acc-1"); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance after deposit = %s", got)
	}

	if _, err := l.withdraw("acc-1", 80); err != nil {
		t.Fatalf("withdraw 80 failed: %v", err)
	}
	if got := l.balance(t, "acc-1"); !got.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("balance after withdraw = %s", got)
	}

	if _, err := l.withdraw("acc-1", 30); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := l.balance(t, "acc-1"); !got.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("balance after rejected withdraw = %s", got)
	}
}

func TestGetStatementReturnsDeposit(t *testing.T) {
	l := newLedger(t, "acc-1")
	created := l.deposit(t, "acc-1", 100, "Deposit")

	got, err := l.uc.GetStatement(context.Background(), "acc-1", created.ID)
	if err != nil {
		t.Fatalf("GetStatement failed: %v", err)
	}

	if !got.Amount.Equal(decimal.NewFromInt(100)) || got.Description != "Deposit" || got.Operation != domain.OperationDeposit {
		t.Fatalf("unexpected statement %+v", got)
	}
}

func TestGetStatementFromOtherAccountIsNotFound(t *testing.T) {
	l := newLedger(t, "acc-a", "acc-b")
	owned := l.deposit(t, "acc-b", 10, "Deposit")

	_, err := l.uc.GetStatement(context.Background(), "acc-a", owned.ID)
	if !errors.Is(err, domain.ErrStatementNotFound) {
		t.Fatalf("expected ErrStatementNotFound, got %v", err)
	}

	if _, err := l.uc.GetStatement(context.Background(), "acc-b", owned.ID); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
}

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	l := newLedger(t, "acc-1", "acc-2")
	l.deposit(t, "acc-1", 100, "Deposit")
	l.deposit(t, "acc-2", 100, "Deposit")

	const workers = 25

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)

	for i := 0; i < workers; i++ {
		for _, account := range []string{"acc-1", "acc-2"} {
			wg.Add(1)
			go func(accountID string) {
				defer wg.Done()

				_, err := l.withdraw(accountID, 10)

				mu.Lock()
				defer mu.Unlock()

				switch {
				case err == nil:
					succeeded++
				case errors.Is(err, domain.ErrInsufficientFunds):
					rejected++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(account)
		}
	}

	// Deposits are not serialized against withdrawals.
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.uc.CreateStatement(context.Background(), usecase.CreateStatementInput{
				AccountID: "acc-2",
				Operation: domain.OperationDeposit,
				Amount:    decimal.NewFromInt(1),
			})
			if err != nil {
				t.Errorf("concurrent deposit failed: %v", err)
			}
		}()
	}

	wg.Wait()

	if got := l.balance(t, "acc-1"); !got.IsZero() {
		t.Fatalf("acc-1 balance = %s, want 0", got)
	}

	if got := l.balance(t, "acc-2"); got.IsNegative() {
		t.Fatalf("acc-2 balance went negative: %s", got)
	}

	if succeeded != 20 || succeeded+rejected != 2*workers {
		t.Fatalf("succeeded=%d rejected=%d", succeeded, rejected)
	}
}

func TestGetBalanceReport(t *testing.T) {
	l := newLedger(t, "acc-1")
	l.deposit(t, "acc-1", 100, "Deposit")
	if _, err := l.withdraw("acc-1", 25); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	report, err := l.uc.GetBalance(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}

	if len(report.Statements) != 2 || !report.Balance.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("unexpected report %+v", report)
	}

	if _, err := l.uc.GetBalance(context.Background(), "ghost"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
