package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/stmtledger/internal/domain"
)

// StatementUseCase records deposits and withdrawals and serves lookups.
type StatementUseCase struct {
	txManager  TransactionManager
	statements StatementRepository
	directory  AccountDirectory
	outbox     OutboxRepository
	idGen      IDGenerator
	evaluator  *BalanceEvaluator
	retrier    Retrier
	metrics    MetricsRecorder
	logger     zerolog.Logger
	maxAmount  decimal.Decimal
}

// StatementOption configures optional collaborators of StatementUseCase.
type StatementOption func(*StatementUseCase)

// WithRetrier retries the write transaction on transient storage errors.
func WithRetrier(r Retrier) StatementOption {
	return func(uc *StatementUseCase) { uc.retrier = r }
}

// WithMetrics records accepted and rejected statements.
func WithMetrics(m MetricsRecorder) StatementOption {
	return func(uc *StatementUseCase) { uc.metrics = m }
}

// WithLogger sets the use case logger.
func WithLogger(l zerolog.Logger) StatementOption {
	return func(uc *StatementUseCase) { uc.logger = l }
}

// WithMaxAmount rejects single statements above limit.
func WithMaxAmount(limit decimal.Decimal) StatementOption {
	return func(uc *StatementUseCase) { uc.maxAmount = limit }
}

// NewStatementUseCase creates a new StatementUseCase.
func NewStatementUseCase(
	txManager TransactionManager,
	statements StatementRepository,
	directory AccountDirectory,
	outbox OutboxRepository,
	idGen IDGenerator,
	opts ...StatementOption,
) *StatementUseCase {
	uc := &StatementUseCase{
		txManager:  txManager,
		statements: statements,
		directory:  directory,
		outbox:     outbox,
		idGen:      idGen,
		evaluator:  NewBalanceEvaluator(statements),
		retrier:    singleAttempt{},
		metrics:    noopMetrics{},
		logger:     zerolog.Nop(),
		maxAmount:  decimal.Zero,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// CreateStatementInput represents input for recording a statement.
type CreateStatementInput struct {
	AccountID   string
	Operation   domain.Operation
	Description string
	Amount      decimal.Decimal
}

// CreateStatement validates and records a deposit or withdrawal. A withdrawal
// is rejected with domain.ErrInsufficientFunds when it exceeds the balance at
// the moment the account lock is held.
func (uc *StatementUseCase) CreateStatement(ctx context.Context, input CreateStatementInput) (*domain.Statement, error) {
	draft := domain.Statement{
		AccountID:   input.AccountID,
		Operation:   input.Operation,
		Amount:      input.Amount,
		Description: input.Description,
	}

	if err := draft.Validate(); err != nil {
		uc.reject(input, err)
		return nil, err
	}

	if err := domain.ValidateAmountCeiling(input.Amount, uc.maxAmount); err != nil {
		uc.reject(input, err)
		return nil, err
	}

	exists, err := uc.directory.Exists(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if !exists {
		uc.reject(input, domain.ErrAccountNotFound)
		return nil, domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	var stored *domain.Statement

	err = uc.retrier.Retry(ctx, func() error {
		attempt := draft

		if err := uc.record(ctx, &attempt); err != nil {
			return err
		}

		stored = &attempt

		return nil
	})
	if err != nil {
		uc.reject(input, err)
		return nil, err
	}

	uc.metrics.ObserveStatement(stored.Operation, stored.Amount)
	uc.logger.Info().
		Str("account_id", stored.AccountID).
		Str("statement_id", stored.ID).
		Str("operation", string(stored.Operation)).
		Str("amount", stored.Amount.String()).
		Msg("statement recorded")

	return stored, nil
}

func (uc *StatementUseCase) record(ctx context.Context, stmt *domain.Statement) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if stmt.Operation == domain.OperationWithdraw {
		if err := uc.statements.LockAccount(ctx, tx, stmt.AccountID); err != nil {
			return err
		}

		balance, err := uc.evaluator.BalanceOfTx(ctx, tx, stmt.AccountID)
		if err != nil {
			return err
		}

		if err := domain.EnsureSufficientFunds(balance, stmt.Amount); err != nil {
			return err
		}
	}

	if err := uc.statements.Create(ctx, tx, stmt); err != nil {
		return err
	}

	if err := uc.outbox.Create(ctx, tx, domain.NewStatementCreatedEvent(uc.idGen.Generate(), stmt)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (uc *StatementUseCase) reject(input CreateStatementInput, err error) {
	reason := rejectionReason(err)
	uc.metrics.ObserveRejection(input.Operation, reason)
	uc.logger.Debug().
		Err(err).
		Str("account_id", input.AccountID).
		Str("operation", string(input.Operation)).
		Str("reason", reason).
		Msg("statement rejected")
}

// GetStatement returns a statement owned by accountID. A statement that belongs
// to another account is reported as domain.ErrStatementNotFound.
func (uc *StatementUseCase) GetStatement(ctx context.Context, accountID, statementID string) (*domain.Statement, error) {
	if err := uc.requireAccount(ctx, accountID); err != nil {
		return nil, err
	}

	return uc.statements.GetByID(ctx, accountID, statementID)
}

// BalanceReport is an account's statement history with its derived balance.
type BalanceReport struct {
	AccountID  string
	Statements []*domain.Statement
	Balance    decimal.Decimal
}

// GetBalance returns every statement of the account together with its balance.
// The balance is folded from the returned statements, so the report is always
// self-consistent even while writes land concurrently.
func (uc *StatementUseCase) GetBalance(ctx context.Context, accountID string) (*BalanceReport, error) {
	if err := uc.requireAccount(ctx, accountID); err != nil {
		return nil, err
	}

	statements, err := collectStatements(ctx, uc.statements, accountID)
	if err != nil {
		return nil, err
	}

	return &BalanceReport{
		AccountID:  accountID,
		Statements: statements,
		Balance:    domain.FoldTotals(statements).Balance(),
	}, nil
}

// ListStatementsInput represents input for listing statements.
type ListStatementsInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListStatements lists an account's statements in creation order.
func (uc *StatementUseCase) ListStatements(ctx context.Context, input ListStatementsInput) ([]*domain.Statement, error) {
	if err := uc.requireAccount(ctx, input.AccountID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.statements.ListByAccount(ctx, input.AccountID, limit, offset)
}

func (uc *StatementUseCase) requireAccount(ctx context.Context, accountID string) error {
	exists, err := uc.directory.Exists(ctx, accountID)
	if err != nil {
		return err
	}

	if !exists {
		return domain.ErrAccountNotFound
	}

	return nil
}

func collectStatements(ctx context.Context, repo StatementRepository, accountID string) ([]*domain.Statement, error) {
	var all []*domain.Statement

	for offset := 0; ; offset += reconcilePageSize {
		page, err := repo.ListByAccount(ctx, accountID, reconcilePageSize, offset)
		if err != nil {
			return nil, err
		}

		all = append(all, page...)

		if len(page) < reconcilePageSize {
			return all, nil
		}
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrAmountTooLarge):
		return "invalid_amount"
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return "invalid_description"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "internal"
	}
}

type singleAttempt struct{}

func (singleAttempt) Retry(_ context.Context, operation func() error) error {
	return operation()
}

type noopMetrics struct{}

func (noopMetrics) ObserveStatement(domain.Operation, decimal.Decimal) {}

func (noopMetrics) ObserveRejection(domain.Operation, string) {}
