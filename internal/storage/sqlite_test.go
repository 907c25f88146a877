package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/expensetrack/etrack/internal/common"
	"github.com/expensetrack/etrack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := NewCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	require.NoError(t, cache.Migrate(context.Background()))
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func sampleRecords() []model.Expense {
	return []model.Expense{
		{
			ID:       "1",
			Title:    "Groceries",
			Amount:   450.50,
			Category: model.CategoryFood,
			Date:     time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			User:     model.User{Name: "alice", Email: "a@example.com"},
		},
		{
			ID:       "2",
			Title:    "Bus pass",
			Amount:   120,
			Category: model.CategoryTransport,
			Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestCache_EmptyHasNoSnapshot(t *testing.T) {
	cache := newTestCache(t)

	_, _, err := cache.LoadSnapshot(context.Background())
	assert.ErrorIs(t, err, common.ErrNoSnapshot)
}

func TestCache_SaveAndLoadSnapshot(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SaveSnapshot(ctx, "alice", sampleRecords()))

	records, fetchedAt, err := cache.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.WithinDuration(t, time.Now(), fetchedAt, time.Minute)

	assert.Equal(t, "Groceries", records[0].Title)
	assert.InDelta(t, 450.50, records[0].Amount, 0.001)
	assert.Equal(t, model.CategoryFood, records[0].Category)
	assert.Equal(t, "alice", records[0].User.Name)
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), records[0].Date)

	assert.Equal(t, "Unknown", records[1].OwnerName())
}

func TestCache_SnapshotReplacedWholesale(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SaveSnapshot(ctx, "alice", sampleRecords()))
	require.NoError(t, cache.SaveSnapshot(ctx, "alice", []model.Expense{{
		ID:       "9",
		Title:    "Cinema",
		Amount:   30,
		Category: model.CategoryEntertainment,
		Date:     time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
	}}))

	records, _, err := cache.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Cinema", records[0].Title)
}

func TestCache_EmptySnapshotIsStillASnapshot(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	// A user with zero expenses cached a fetch; that is not "no snapshot".
	require.NoError(t, cache.SaveSnapshot(ctx, "alice", nil))

	records, _, err := cache.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCache_MigrateIsIdempotent(t *testing.T) {
	cache := newTestCache(t)
	require.NoError(t, cache.Migrate(context.Background()))
	require.NoError(t, cache.Migrate(context.Background()))
}
