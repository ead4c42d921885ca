package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooWeak    = errors.New("password does not meet requirements")
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MinAccountNameLength = 1
	MaxDescriptionLength = 1024
	MinPasswordLength    = 8
	MaxPasswordLength    = 128
	DefaultPageSize      = 50
	MaxPageSize          = 1000

	// Amounts are stored as NUMERIC(38, 8).
	MaxAmountScale     = 8
	MaxStatementAmount = "1000000000000" // 1 trillion
)

var maxStatementAmount = decimal.RequireFromString(MaxStatementAmount)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	upperRegex  = regexp.MustCompile(`[A-Z]`)
	lowerRegex  = regexp.MustCompile(`[a-z]`)
	numberRegex = regexp.MustCompile(`[0-9]`)
)

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinAccountNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateAmount rejects zero and negative amounts, amounts with more than
// MaxAmountScale decimal places and amounts above MaxStatementAmount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !amount.Equal(amount.Truncate(MaxAmountScale)) {
		return fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, MaxAmountScale)
	}

	if amount.GreaterThan(maxStatementAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxStatementAmount)
	}

	return nil
}

// ValidateAmountCeiling rejects amounts above limit. A zero limit disables the check.
func ValidateAmountCeiling(amount, limit decimal.Decimal) error {
	if limit.IsZero() {
		return nil
	}

	if amount.GreaterThan(limit) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, limit.String())
	}

	return nil
}

// ValidateDescription limits the free-text label of a statement.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: exceeds %d bytes", ErrDescriptionTooLong, MaxDescriptionLength)
	}

	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePassword validates password strength
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	if !upperRegex.MatchString(password) || !lowerRegex.MatchString(password) || !numberRegex.MatchString(password) {
		return fmt.Errorf("%w: must contain uppercase, lowercase, and numbers", ErrPasswordTooWeak)
	}

	return nil
}

// ValidatePagination clamps limit and offset into the supported range.
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

// IsValidationError reports whether err stems from rejected input.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidAmount,
		ErrInvalidOperation,
		ErrAmountTooLarge,
		ErrDescriptionTooLong,
		ErrInvalidAccountName,
		ErrInvalidEmail,
		ErrPasswordTooWeak,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
