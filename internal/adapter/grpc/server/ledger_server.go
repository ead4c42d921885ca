package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/stmtledger/internal/adapter/grpc/converter"
	grpcerrors "github.com/iho/stmtledger/internal/adapter/grpc/errors"
	"github.com/iho/stmtledger/internal/adapter/grpc/ledgerv1"
	"github.com/iho/stmtledger/internal/adapter/grpc/middleware"
	"github.com/iho/stmtledger/internal/domain"
	"github.com/iho/stmtledger/internal/usecase"
)

// AccountService defines the account operations the server needs.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	VerifyPassword(ctx context.Context, email, password string) (*domain.Account, error)
}

// StatementService defines the statement operations the server needs.
type StatementService interface {
	CreateStatement(ctx context.Context, input usecase.CreateStatementInput) (*domain.Statement, error)
	GetStatement(ctx context.Context, accountID, statementID string) (*domain.Statement, error)
	ListStatements(ctx context.Context, input usecase.ListStatementsInput) ([]*domain.Statement, error)
	GetBalance(ctx context.Context, accountID string) (*usecase.BalanceReport, error)
}

// ReconciliationService defines the reconciliation operation the server needs.
type ReconciliationService interface {
	ReconcileAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
}

// LedgerServer implements ledgerv1.LedgerServiceServer.
type LedgerServer struct {
	ledgerv1.UnimplementedLedgerServiceServer
	accountUC        AccountService
	statementUC      StatementService
	reconciliationUC ReconciliationService
}

// NewLedgerServer creates a new LedgerServer.
func NewLedgerServer(accountUC AccountService, statementUC StatementService, reconciliationUC ReconciliationService) *LedgerServer {
	return &LedgerServer{
		accountUC:        accountUC,
		statementUC:      statementUC,
		reconciliationUC: reconciliationUC,
	}
}

// PublicMethods need no bearer token.
func PublicMethods() []string {
	return []string{
		ledgerv1.LedgerService_CreateAccount_FullMethodName,
		ledgerv1.LedgerService_VerifyCredentials_FullMethodName,
	}
}

// IdempotentMethods lists the mutating methods that honour idempotency-key metadata.
func IdempotentMethods() middleware.ResponseFactories {
	return middleware.ResponseFactories{
		ledgerv1.LedgerService_CreateAccount_FullMethodName: func() any { return new(ledgerv1.CreateAccountResponse) },
		ledgerv1.LedgerService_Deposit_FullMethodName:       func() any { return new(ledgerv1.RecordStatementResponse) },
		ledgerv1.LedgerService_Withdraw_FullMethodName:      func() any { return new(ledgerv1.RecordStatementResponse) },
	}
}

// CreateAccount registers a new account.
func (s *LedgerServer) CreateAccount(ctx context.Context, req *ledgerv1.CreateAccountRequest) (*ledgerv1.CreateAccountResponse, error) {
	account, err := s.accountUC.CreateAccount(ctx, usecase.CreateAccountInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, grpcerrors.MapDomainError(err)
	}

	return &ledgerv1.CreateAccountResponse{Account: converter.AccountToPb(account)}, nil
}

// GetAccount retrieves an account by ID.
func (s *LedgerServer) GetAccount(ctx context.Context, req *ledgerv1.GetAccountRequest) (*ledgerv1.GetAccountResponse, error) {
	account, err := s.accountUC.GetAccount(ctx, req.AccountID)
	if err != nil {
		return nil, grpcerrors.MapDomainError(err)
	}

	return &ledgerv1.GetAccountResponse{Account: converter.AccountToPb(account)}, nil
}

// VerifyCredentials checks an email and password pair.
func (s *LedgerServer) VerifyCredentials(ctx context.Context, req *ledgerv1.VerifyCredentialsRequest) (*ledgerv1.VerifyCredentialsResponse, error) {
	account, err := s.accountUC.VerifyPassword(ctx, req.Email, req.Password)
	if err != nil {
		return nil, grpcerrors.MapDomainError(err)
	}

	return &ledgerv1.VerifyCredentialsResponse{Account: converter.AccountToPb(account)}, nil
}

// Deposit records a deposit statement.
func (s *LedgerServer) Deposit(ctx context.Context, req *ledgerv1.RecordStatementRequest) (*ledgerv1.RecordStatementResponse, error) {
	return s.record(ctx, domain.OperationDeposit, req)
}

// Withdraw records a withdrawal statement.
func (s *LedgerServer) Withdraw(ctx context.Context, req *ledgerv1.RecordStatementRequest) (*ledgerv1.RecordStatementResponse, error) {
	return s.record(ctx, domain.OperationWithdraw, req)
}

func (s *LedgerServer) record(ctx context.Context, op domain.Operation, req *ledgerv1.RecordStatementRequest) (*ledgerv1.RecordStatementResponse, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		return nil, grpcerrors.MapDomainError(fmt.Errorf("%w: %q", domain.ErrInvalidAmount, req.Amount))
	}

	stmt, err := s.statementUC.CreateStatement(ctx, usecase.CreateStatementInput{
		AccountID:   req.AccountID,
		Operation:   op,
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		return nil, grpcerrors.MapDomainError(err)
	}

	return &ledgerv1.RecordStatementResponse{Statement: converter.StatementToPb(stmt)}, nil
}

// GetStatement retrieves one statement of an account.
func (s *LedgerServer) GetStatement(ctx context.Context, req *ledgerv1.GetStatementRequest) (*ledgerv1.GetStatementResponse, error) {
	stmt, err := s.statementUC.GetStatement(ctx, req.AccountID, req.StatementID)
	if err != nil {
		return nil, grpcerrors.MapDomainError(err)
	}

	return &ledgerv1.GetStatementResponse{Statement: converter.StatementToPb(stmt)}, nil
}

// ListStatements lists statements of an account in creation order.
func (s *LedgerServer) ListStatements(ctx context.Context, req *ledgerv1.ListStatementsRequest) (*ledgerv1.ListStatementsResponse, error) {
	limit, offset := domain.ValidatePagination(int(req.Limit), int(req.Offset))

	statements, err := s.statementUC.ListStatements(ctx, usecase.ListStatementsInput{
		AccountID: req.AccountID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, grpcerrors.MapDomainError(err)
	}

	return &ledgerv1.ListStatementsResponse{
		Statements: converter.StatementsToPb(statements),
		Limit:      int32(limit),
		Offset:     int32(offset),
	}, nil
}

// GetBalance returns the balance with the statements it is folded from.
func (s *LedgerServer) GetBalance(ctx context.Context, req *ledgerv1.GetBalanceRequest) (*ledgerv1.GetBalanceResponse, error) {
	report, err := s.statementUC.GetBalance(ctx, req.AccountID)
	if err != nil {
		return nil, grpcerrors.MapDomainError(err)
	}

	return converter.BalanceToPb(report), nil
}

// Reconcile compares the stored totals of an account with its statement history.
func (s *LedgerServer) Reconcile(ctx context.Context, req *ledgerv1.ReconcileRequest) (*ledgerv1.ReconcileResponse, error) {
	result, err := s.reconciliationUC.ReconcileAccount(ctx, req.AccountID)
	if err != nil {
		return nil, grpcerrors.MapDomainError(err)
	}

	return converter.ReconciliationToPb(result), nil
}
