package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/stmtledger/internal/domain"
	"github.com/iho/stmtledger/internal/usecase"
)

// Journal receives every committed record before it becomes visible.
type Journal interface {
	AppendStatement(statement *domain.Statement) error
	AppendAccount(account *domain.Account) error
}

// StatementRepository implements usecase.StatementRepository in memory. Totals
// are maintained incrementally on commit.
type StatementRepository struct {
	idGen   usecase.IDGenerator
	journal Journal

	mu        sync.RWMutex
	byID      map[string]*domain.Statement
	byAccount map[string][]*domain.Statement
	totals    map[string]domain.Totals

	locksMu sync.Mutex
	locks   map[string]chan struct{}
}

// NewStatementRepository creates a new StatementRepository. journal may be nil.
func NewStatementRepository(idGen usecase.IDGenerator, journal Journal) *StatementRepository {
	return &StatementRepository{
		idGen:     idGen,
		journal:   journal,
		byID:      make(map[string]*domain.Statement),
		byAccount: make(map[string][]*domain.Statement),
		totals:    make(map[string]domain.Totals),
		locks:     make(map[string]chan struct{}),
	}
}

// Create stages statement in tx. ID and CreatedAt are assigned when empty.
func (r *StatementRepository) Create(_ context.Context, tx usecase.Transaction, statement *domain.Statement) error {
	mtx, err := asTx(tx)
	if err != nil {
		return err
	}

	if statement.ID == "" {
		statement.ID = r.idGen.Generate()
	}

	if statement.CreatedAt.IsZero() {
		statement.CreatedAt = time.Now().UTC()
	}

	return mtx.stage(r, *statement)
}

// GetByID returns the statement only when it belongs to accountID.
func (r *StatementRepository) GetByID(_ context.Context, accountID, id string) (*domain.Statement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok || s.AccountID != accountID {
		return nil, domain.ErrStatementNotFound
	}

	cp := *s

	return &cp, nil
}

// SumByAccount returns committed totals for accountID.
func (r *StatementRepository) SumByAccount(_ context.Context, accountID string) (domain.Totals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.totalsLocked(accountID), nil
}

// SumByAccountTx returns committed totals plus inserts staged in tx.
func (r *StatementRepository) SumByAccountTx(ctx context.Context, tx usecase.Transaction, accountID string) (domain.Totals, error) {
	mtx, err := asTx(tx)
	if err != nil {
		return domain.Totals{}, err
	}

	totals, err := r.SumByAccount(ctx, accountID)
	if err != nil {
		return domain.Totals{}, err
	}

	for _, s := range mtx.pendingFor(r, accountID) {
		totals = totals.Add(s)
	}

	return totals, nil
}

// ListByAccount returns statements in commit order.
func (r *StatementRepository) ListByAccount(_ context.Context, accountID string, limit, offset int) ([]*domain.Statement, error) {
	if limit <= 0 {
		return []*domain.Statement{}, nil
	}

	offset = max(offset, 0)

	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.byAccount[accountID]
	if offset >= len(all) {
		return []*domain.Statement{}, nil
	}

	end := min(len(all), offset+limit)

	out := make([]*domain.Statement, 0, end-offset)
	for _, s := range all[offset:end] {
		cp := *s
		out = append(out, &cp)
	}

	return out, nil
}

// LockAccount blocks until tx holds the account lock or ctx is done. The lock
// is re-entrant within one transaction and released when tx ends.
func (r *StatementRepository) LockAccount(ctx context.Context, tx usecase.Transaction, accountID string) error {
	mtx, err := asTx(tx)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%p/%s", r, accountID)
	if mtx.holds(key) {
		return nil
	}

	sem := r.semaphore(accountID)

	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	return mtx.addLock(key, func() { <-sem })
}

// Restore indexes a statement read back from a journal without re-journaling it.
func (r *StatementRepository) Restore(statement *domain.Statement) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[statement.ID]; ok {
		return
	}

	r.indexLocked(statement)
}

// Len returns the number of committed statements.
func (r *StatementRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}

func (r *StatementRepository) apply(statement *domain.Statement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.journal != nil {
		if err := r.journal.AppendStatement(statement); err != nil {
			return fmt.Errorf("failed to journal statement: %w", err)
		}
	}

	r.indexLocked(statement)

	return nil
}

func (r *StatementRepository) indexLocked(statement *domain.Statement) {
	cp := *statement
	r.byID[cp.ID] = &cp
	r.byAccount[cp.AccountID] = append(r.byAccount[cp.AccountID], &cp)
	r.totals[cp.AccountID] = r.totalsLocked(cp.AccountID).Add(&cp)
}

func (r *StatementRepository) totalsLocked(accountID string) domain.Totals {
	totals, ok := r.totals[accountID]
	if !ok {
		return domain.FoldTotals(nil)
	}

	return totals
}

func (r *StatementRepository) semaphore(accountID string) chan struct{} {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()

	sem, ok := r.locks[accountID]
	if !ok {
		sem = make(chan struct{}, 1)
		r.locks[accountID] = sem
	}

	return sem
}
