package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/stmtledger/internal/adapter/repository/memory"
	"github.com/iho/stmtledger/internal/domain"
)

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	journal := &recordingJournal{}
	repo := memory.NewAccountRepository(journal)

	acc := &domain.Account{ID: "acc-1", Name: "Jane", Email: "jane@example.com", HashedPassword: "hash"}
	require.NoError(t, repo.Create(ctx, acc))
	require.Len(t, journal.accounts, 1)

	exists, err := repo.Exists(ctx, "acc-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, "acc-2")
	require.NoError(t, err)
	assert.False(t, exists)

	byEmail, err := repo.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", byEmail.ID)

	_, err = repo.GetByID(ctx, "acc-2")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	dup := &domain.Account{ID: "acc-3", Name: "Other", Email: "jane@example.com"}
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrAccountAlreadyExists)
}

func TestAccountRepository_Restore(t *testing.T) {
	ctx := context.Background()
	journal := &recordingJournal{}
	repo := memory.NewAccountRepository(journal)

	repo.Restore(&domain.Account{ID: "acc-1", Email: "a@example.com"})

	exists, err := repo.Exists(ctx, "acc-1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Empty(t, journal.accounts)
}
