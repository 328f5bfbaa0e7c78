package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantina/models"
)

func newHistoryRepo(t *testing.T) *BalanceHistoryRepository {
	t.Helper()
	repo, err := NewBalanceHistoryRepository(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRecordAndGetByUser(t *testing.T) {
	repo := newHistoryRepo(t)
	ctx := context.Background()

	entry := &models.BalanceHistory{
		UserID:          "u1",
		BalanceBefore:   0,
		BalanceAfter:    120,
		ChangeAmount:    120,
		TransactionType: models.TransactionTypeWorkPay,
		TransactionMetadata: map[string]any{
			"job": "barista",
		},
	}
	require.NoError(t, repo.Record(ctx, entry))
	assert.Positive(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())

	entries, err := repo.GetByUser(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(120), entries[0].BalanceAfter)
	assert.Equal(t, models.TransactionTypeWorkPay, entries[0].TransactionType)
	assert.Equal(t, "barista", entries[0].TransactionMetadata["job"])
}

func TestGetByUserNewestFirstAndLimited(t *testing.T) {
	repo := newHistoryRepo(t)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, repo.Record(ctx, &models.BalanceHistory{
			UserID:          "u1",
			BalanceBefore:   (i - 1) * 10,
			BalanceAfter:    i * 10,
			ChangeAmount:    10,
			TransactionType: models.TransactionTypeWorkPay,
		}))
	}
	require.NoError(t, repo.Record(ctx, &models.BalanceHistory{
		UserID:          "u2",
		TransactionType: models.TransactionTypeInitial,
	}))

	entries, err := repo.GetByUser(ctx, "u1", 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, int64(50), entries[0].BalanceAfter)
	assert.Equal(t, int64(30), entries[2].BalanceAfter)
}

func TestGetByUserEmpty(t *testing.T) {
	repo := newHistoryRepo(t)

	entries, err := repo.GetByUser(context.Background(), "ghost", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNilMetadataStoredAsEmptyObject(t *testing.T) {
	repo := newHistoryRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, &models.BalanceHistory{
		UserID:          "u1",
		TransactionType: models.TransactionTypeHeal,
	}))

	entries, err := repo.GetByUser(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotNil(t, entries[0].TransactionMetadata)
	assert.Empty(t, entries[0].TransactionMetadata)
}
