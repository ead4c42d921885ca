package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Operation is the kind of balance change a statement records.
type Operation string

const (
	OperationDeposit  Operation = "deposit"
	OperationWithdraw Operation = "withdraw"
)

var validOperations = map[Operation]bool{
	OperationDeposit:  true,
	OperationWithdraw: true,
}

// ParseOperation converts a raw tag into an Operation.
func ParseOperation(raw string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(raw)))
	if !op.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidOperation, raw)
	}

	return op, nil
}

// IsValid reports whether the operation belongs to the closed set.
func (o Operation) IsValid() bool {
	return validOperations[o]
}

// Statement is an immutable ledger entry of a single deposit or withdrawal.
type Statement struct {
	CreatedAt   time.Time
	ID          string
	AccountID   string
	Operation   Operation
	Description string
	Amount      decimal.Decimal
}

// Validate checks the statement before it is persisted.
func (s *Statement) Validate() error {
	if !s.Operation.IsValid() {
		return ErrInvalidOperation
	}

	if err := ValidateAmount(s.Amount); err != nil {
		return err
	}

	return ValidateDescription(s.Description)
}
