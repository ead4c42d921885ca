package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/stmtledger/internal/domain"
	"github.com/iho/stmtledger/internal/usecase"
)

var (
	// ErrTxClosed is returned when a finished transaction is used again.
	ErrTxClosed = errors.New("memory: transaction already closed")
	// ErrForeignTx is returned when a repository receives a transaction it did not create.
	ErrForeignTx = errors.New("memory: transaction does not belong to the memory store")
)

// TxManager implements usecase.TransactionManager for the in-memory store.
type TxManager struct{}

// NewTxManager creates a new TxManager.
func NewTxManager() *TxManager {
	return &TxManager{}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Tx{held: make(map[string]func())}, nil
}

// Tx buffers inserts until Commit and holds account locks until it ends.
type Tx struct {
	mu     sync.Mutex
	staged []staged
	held   map[string]func()
	closed bool
}

type staged struct {
	repo      *StatementRepository
	statement domain.Statement
}

// Commit applies staged inserts in order and releases held locks.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTxClosed
	}
	t.closed = true
	defer t.releaseLocked()

	if err := ctx.Err(); err != nil {
		return err
	}

	for i := range t.staged {
		s := t.staged[i]
		if err := s.repo.apply(&s.statement); err != nil {
			return err
		}
	}

	return nil
}

// Rollback discards staged inserts and releases held locks. It is a no-op
// after Commit.
func (t *Tx) Rollback(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	t.staged = nil
	t.releaseLocked()

	return nil
}

func (t *Tx) stage(repo *StatementRepository, statement domain.Statement) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTxClosed
	}

	t.staged = append(t.staged, staged{repo: repo, statement: statement})

	return nil
}

func (t *Tx) pendingFor(repo *StatementRepository, accountID string) []*domain.Statement {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []*domain.Statement
	for i := range t.staged {
		if t.staged[i].repo == repo && t.staged[i].statement.AccountID == accountID {
			out = append(out, &t.staged[i].statement)
		}
	}

	return out
}

func (t *Tx) holds(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.held[key]

	return ok
}

func (t *Tx) addLock(key string, release func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		release()
		return ErrTxClosed
	}

	t.held[key] = release

	return nil
}

func (t *Tx) releaseLocked() {
	for key, release := range t.held {
		release()
		delete(t.held, key)
	}
}

func asTx(tx usecase.Transaction) (*Tx, error) {
	mtx, ok := tx.(*Tx)
	if !ok {
		return nil, ErrForeignTx
	}

	return mtx, nil
}
