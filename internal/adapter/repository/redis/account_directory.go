package redis

import (
	"context"
	"time"

	"github.com/iho/stmtledger/internal/usecase"
)

// CachedAccountDirectory caches positive existence answers of another
// directory. Accounts are never deleted, so a cached hit cannot go stale.
// Negative answers are not cached.
type CachedAccountDirectory struct {
	next  usecase.AccountDirectory
	cache usecase.Cache
	ttl   time.Duration
}

// NewCachedAccountDirectory creates a new CachedAccountDirectory.
func NewCachedAccountDirectory(next usecase.AccountDirectory, cache usecase.Cache, ttl time.Duration) *CachedAccountDirectory {
	return &CachedAccountDirectory{
		next:  next,
		cache: cache,
		ttl:   ttl,
	}
}

// Exists reports whether the account exists, consulting the cache first.
func (d *CachedAccountDirectory) Exists(ctx context.Context, id string) (bool, error) {
	key := "account-exists:" + id

	if val, err := d.cache.Get(ctx, key); err == nil && string(val) == "1" {
		return true, nil
	}

	exists, err := d.next.Exists(ctx, id)
	if err != nil {
		return false, err
	}

	if exists {
		// best effort; the directory remains the source of truth
		_ = d.cache.Set(ctx, key, []byte("1"), d.ttl)
	}

	return exists, nil
}
