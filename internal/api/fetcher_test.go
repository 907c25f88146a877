package api

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/expensetrack/etrack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func TestFetcher_DeliversResult(t *testing.T) {
	mock := NewMockService()
	mock.ListExpensesFn = func(_ context.Context) ([]model.Expense, error) {
		return []model.Expense{{ID: "1", Title: "Coffee", Amount: 4.5}}, nil
	}

	fetcher := NewFetcher(mock)

	expenses, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Coffee", expenses[0].Title)
}

func TestFetcher_SupersededFetchIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	mock := NewMockService()
	mock.ListExpensesFn = func(ctx context.Context) ([]model.Expense, error) {
		if calls.Add(1) == 1 {
			// First fetch hangs until the second has completed, then
			// notices its context was cancelled.
			select {
			case <-release:
			case <-ctx.Done():
			}
			return []model.Expense{{ID: "stale"}}, nil
		}
		return []model.Expense{{ID: "fresh"}}, nil
	}

	fetcher := NewFetcher(mock)

	firstDone := make(chan error, 1)
	go func() {
		_, err := fetcher.Fetch(context.Background())
		firstDone <- err
	}()

	// Wait for the first fetch to be in flight.
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)

	expenses, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "fresh", expenses[0].ID)

	close(release)
	err = <-firstDone
	assert.Error(t, err, "a superseded fetch must not deliver its stale result")
}
