package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("account with this email already exists")

	// Statement errors
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidOperation   = errors.New("invalid statement operation")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrStatementNotFound  = errors.New("statement not found")
	ErrDescriptionTooLong = errors.New("description too long")
)
