package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/stmtledger/internal/domain"
	"github.com/iho/stmtledger/internal/usecase"
)

// CreateAccountRequest represents a request to register an account.
type CreateAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
	}
}

// VerifyCredentialsRequest carries credentials to check against an account.
type VerifyCredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateStatementRequest represents a deposit or withdrawal. The amount is a
// decimal string so no precision is lost in transit.
type CreateStatementRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input for the given account and operation.
func (r *CreateStatementRequest) ToUseCaseInput(accountID string, op domain.Operation) (usecase.CreateStatementInput, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return usecase.CreateStatementInput{}, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, r.Amount)
	}

	return usecase.CreateStatementInput{
		AccountID:   accountID,
		Operation:   op,
		Amount:      amount,
		Description: r.Description,
	}, nil
}
