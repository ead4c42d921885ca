package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/iho/stmtledger/internal/domain"
)

// AccountRepository implements usecase.AccountRepository in memory.
type AccountRepository struct {
	journal Journal

	mu      sync.RWMutex
	byID    map[string]*domain.Account
	byEmail map[string]string
}

// NewAccountRepository creates a new AccountRepository. journal may be nil.
func NewAccountRepository(journal Journal) *AccountRepository {
	return &AccountRepository{
		journal: journal,
		byID:    make(map[string]*domain.Account),
		byEmail: make(map[string]string),
	}
}

// Create stores a new account. Emails are unique.
func (r *AccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[account.Email]; ok && account.Email != "" {
		return domain.ErrAccountAlreadyExists
	}

	if _, ok := r.byID[account.ID]; ok {
		return domain.ErrAccountAlreadyExists
	}

	if r.journal != nil {
		if err := r.journal.AppendAccount(account); err != nil {
			return fmt.Errorf("failed to journal account: %w", err)
		}
	}

	r.indexLocked(account)

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	cp := *account

	return &cp, nil
}

// GetByEmail retrieves an account by email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return r.GetByID(ctx, id)
}

// Exists reports whether an account with id is registered.
func (r *AccountRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byID[id]

	return ok, nil
}

// Restore indexes an account read back from a journal without re-journaling it.
func (r *AccountRepository) Restore(account *domain.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.indexLocked(account)
}

func (r *AccountRepository) indexLocked(account *domain.Account) {
	cp := *account
	r.byID[cp.ID] = &cp
	if cp.Email != "" {
		r.byEmail[cp.Email] = cp.ID
	}
}
