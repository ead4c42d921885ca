package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/stmtledger/internal/domain"
)

// AccountUseCase handles account registration and profile lookup.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
	bcryptCost  int
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
		bcryptCost:  bcrypt.DefaultCost,
	}
}

// NewAccountUseCaseWithCost is NewAccountUseCase with an explicit bcrypt cost.
func NewAccountUseCaseWithCost(accountRepo AccountRepository, idGen IDGenerator, cost int) *AccountUseCase {
	uc := NewAccountUseCase(accountRepo, idGen)
	uc.bcryptCost = cost

	return uc
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name     string
	Email    string
	Password string
}

// CreateAccount registers a new account with a hashed password.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := uc.accountRepo.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrAccountAlreadyExists
	case err != nil && !errors.Is(err, domain.ErrAccountNotFound):
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), uc.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		Name:           strings.TrimSpace(input.Name),
		Email:          email,
		HashedPassword: string(hashed),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return withoutPassword(account), nil
}

// GetAccount retrieves an account profile by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return withoutPassword(account), nil
}

// VerifyPassword checks password against the stored hash of the account with email.
func (uc *AccountUseCase) VerifyPassword(ctx context.Context, email, password string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.HashedPassword), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	return withoutPassword(account), nil
}

func withoutPassword(account *domain.Account) *domain.Account {
	out := *account
	out.HashedPassword = ""

	return &out
}
