package dto

import (
	"time"

	"github.com/iho/stmtledger/internal/domain"
	"github.com/iho/stmtledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// StatementResponse represents a statement in API responses.
type StatementResponse struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Operation   string    `json:"operation"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// StatementFromDomain converts domain statement to response.
func StatementFromDomain(s *domain.Statement) *StatementResponse {
	return &StatementResponse{
		ID:          s.ID,
		AccountID:   s.AccountID,
		Operation:   string(s.Operation),
		Amount:      s.Amount.String(),
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
	}
}

// StatementsFromDomain converts domain statements to responses.
func StatementsFromDomain(statements []*domain.Statement) []*StatementResponse {
	result := make([]*StatementResponse, len(statements))
	for i, s := range statements {
		result[i] = StatementFromDomain(s)
	}
	return result
}

// ListStatementsResponse is one page of an account's statements.
type ListStatementsResponse struct {
	Statements []*StatementResponse `json:"statements"`
	Limit      int                  `json:"limit"`
	Offset     int                  `json:"offset"`
}

// BalanceResponse carries the full statement history and the derived balance.
type BalanceResponse struct {
	AccountID  string               `json:"account_id"`
	Balance    string               `json:"balance"`
	Statements []*StatementResponse `json:"statements"`
}

// BalanceFromReport converts a balance report to response.
func BalanceFromReport(r *usecase.BalanceReport) *BalanceResponse {
	return &BalanceResponse{
		AccountID:  r.AccountID,
		Balance:    r.Balance.String(),
		Statements: StatementsFromDomain(r.Statements),
	}
}

// ReconciliationResponse reports whether an account's stored totals match its history.
type ReconciliationResponse struct {
	AccountID         string    `json:"account_id"`
	StatementCount    int       `json:"statement_count"`
	RecordedBalance   string    `json:"recorded_balance"`
	CalculatedBalance string    `json:"calculated_balance"`
	Difference        string    `json:"difference"`
	IsReconciled      bool      `json:"is_reconciled"`
	LastChecked       time.Time `json:"last_checked"`
}

// ReconciliationFromResult converts a reconciliation result to response.
func ReconciliationFromResult(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:         r.AccountID,
		StatementCount:    r.StatementCount,
		RecordedBalance:   r.RecordedBalance.String(),
		CalculatedBalance: r.CalculatedBalance.String(),
		Difference:        r.Difference.String(),
		IsReconciled:      r.IsReconciled,
		LastChecked:       r.LastChecked,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
