// Package wal persists the in-memory ledger to a segmented write-ahead log
// and rebuilds it on startup.
package wal

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/gowal"

	"github.com/iho/stmtledger/internal/adapter/repository/memory"
	"github.com/iho/stmtledger/internal/domain"
)

const (
	statementKeyPrefix = "statement:"
	accountKeyPrefix   = "account:"
)

// Config configures the journal segments. Segments are never pruned: the
// journal is the only copy of the ledger.
type Config struct {
	Dir              string
	SegmentThreshold int
	SyncWrites       bool
}

// Journal implements memory.Journal on top of gowal.
type Journal struct {
	mu  sync.Mutex
	wal *gowal.Wal
}

type statementRecord struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Operation   string          `json:"operation"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

type accountRecord struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"hashed_password"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Open opens or creates the journal in cfg.Dir.
func Open(cfg Config) (*Journal, error) {
	w, err := gowal.NewWAL(gowal.Config{
		Dir:              cfg.Dir,
		Prefix:           "ledger_",
		SegmentThreshold: cfg.SegmentThreshold,
		MaxSegments:      0,
		IsInSyncDiskMode: cfg.SyncWrites,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open WAL: %w", err)
	}

	return &Journal{wal: w}, nil
}

// AppendStatement durably records a committed statement.
func (j *Journal) AppendStatement(s *domain.Statement) error {
	data, err := json.Marshal(statementRecord{
		ID:          s.ID,
		AccountID:   s.AccountID,
		Operation:   string(s.Operation),
		Amount:      s.Amount,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal statement: %w", err)
	}

	return j.write(statementKeyPrefix+s.ID, data)
}

// AppendAccount durably records a registered account.
func (j *Journal) AppendAccount(a *domain.Account) error {
	data, err := json.Marshal(accountRecord{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		HashedPassword: a.HashedPassword,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	return j.write(accountKeyPrefix+a.ID, data)
}

// ReplayResult counts records restored by Replay.
type ReplayResult struct {
	Accounts   int
	Statements int
}

// Replay restores every journaled record into the given repositories.
func (j *Journal) Replay(accounts *memory.AccountRepository, statements *memory.StatementRepository) (ReplayResult, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var result ReplayResult

	for msg := range j.wal.Iterator() {
		switch {
		case strings.HasPrefix(msg.Key, accountKeyPrefix):
			var rec accountRecord
			if err := json.Unmarshal(msg.Value, &rec); err != nil {
				return result, fmt.Errorf("failed to decode %s: %w", msg.Key, err)
			}

			accounts.Restore(&domain.Account{
				ID:             rec.ID,
				Name:           rec.Name,
				Email:          rec.Email,
				HashedPassword: rec.HashedPassword,
				CreatedAt:      rec.CreatedAt,
				UpdatedAt:      rec.UpdatedAt,
			})
			result.Accounts++

		case strings.HasPrefix(msg.Key, statementKeyPrefix):
			var rec statementRecord
			if err := json.Unmarshal(msg.Value, &rec); err != nil {
				return result, fmt.Errorf("failed to decode %s: %w", msg.Key, err)
			}

			op, err := domain.ParseOperation(rec.Operation)
			if err != nil {
				return result, fmt.Errorf("corrupt record %s: %w", msg.Key, err)
			}

			statements.Restore(&domain.Statement{
				ID:          rec.ID,
				AccountID:   rec.AccountID,
				Operation:   op,
				Amount:      rec.Amount,
				Description: rec.Description,
				CreatedAt:   rec.CreatedAt,
			})
			result.Statements++
		}
	}

	return result, nil
}

// Close flushes and closes the underlying log.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.wal.Close()
}

func (j *Journal) write(key string, data []byte) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.wal.Write(j.wal.CurrentIndex()+1, key, data); err != nil {
		return fmt.Errorf("failed to append %s: %w", key, err)
	}

	return nil
}
