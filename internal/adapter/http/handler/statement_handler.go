package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/stmtledger/internal/adapter/http/dto"
	"github.com/iho/stmtledger/internal/domain"
	"github.com/iho/stmtledger/internal/usecase"
)

// StatementService defines the behavior needed by StatementHandler.
type StatementService interface {
	CreateStatement(ctx context.Context, input usecase.CreateStatementInput) (*domain.Statement, error)
	GetStatement(ctx context.Context, accountID, statementID string) (*domain.Statement, error)
	ListStatements(ctx context.Context, input usecase.ListStatementsInput) ([]*domain.Statement, error)
	GetBalance(ctx context.Context, accountID string) (*usecase.BalanceReport, error)
}

// StatementHandler handles deposits, withdrawals and statement lookups.
type StatementHandler struct {
	statementUC StatementService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementUC StatementService) *StatementHandler {
	return &StatementHandler{statementUC: statementUC}
}

// Deposit records a deposit.
func (h *StatementHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, domain.OperationDeposit)
}

// Withdraw records a withdrawal.
func (h *StatementHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, domain.OperationWithdraw)
}

func (h *StatementHandler) create(w http.ResponseWriter, r *http.Request, op domain.Operation) {
	var req dto.CreateStatementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"), op)
	if err != nil {
		writeDomainError(w, "invalid statement", err)
		return
	}

	stmt, err := h.statementUC.CreateStatement(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to record "+string(op), err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.StatementFromDomain(stmt))
}

// Get retrieves a statement of the account in the path.
func (h *StatementHandler) Get(w http.ResponseWriter, r *http.Request) {
	stmt, err := h.statementUC.GetStatement(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "statementID"))
	if err != nil {
		writeDomainError(w, "failed to get statement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromDomain(stmt))
}

// List returns one page of the account's statements in creation order.
func (h *StatementHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := domain.ValidatePagination(
		parseIntQuery(r, "limit", domain.DefaultPageSize),
		parseIntQuery(r, "offset", 0),
	)

	statements, err := h.statementUC.ListStatements(r.Context(), usecase.ListStatementsInput{
		AccountID: chi.URLParam(r, "id"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		writeDomainError(w, "failed to list statements", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListStatementsResponse{
		Statements: dto.StatementsFromDomain(statements),
		Limit:      limit,
		Offset:     offset,
	})
}

// Balance returns the account's statements together with its balance.
func (h *StatementHandler) Balance(w http.ResponseWriter, r *http.Request) {
	report, err := h.statementUC.GetBalance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromReport(report))
}
