package api

import (
	"context"
	"errors"
	"sync"

	"github.com/expensetrack/etrack/internal/model"
)

// ErrSuperseded is returned to a fetch whose result was invalidated by a
// newer fetch for the same view.
var ErrSuperseded = errors.New("fetch superseded by a newer request")

// Fetcher serializes expense-list fetches for a single view. Issuing a new
// fetch cancels the one in flight, and a stale result can never overwrite a
// newer one: each fetch carries a generation number checked before the
// result is accepted.
type Fetcher struct {
	service ExpenseService
	cancel  context.CancelFunc
	mu      sync.Mutex
	gen     uint64
}

// NewFetcher wraps a service with superseded-fetch cancellation.
func NewFetcher(service ExpenseService) *Fetcher {
	return &Fetcher{service: service}
}

// Fetch retrieves the expense list. If a prior Fetch is still in flight it
// is cancelled; if this fetch is itself superseded before completing, its
// result is discarded and ctx.Err() is returned.
func (f *Fetcher) Fetch(ctx context.Context) ([]model.Expense, error) {
	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.gen++
	gen := f.gen
	f.mu.Unlock()

	expenses, err := f.service.ListExpenses(fetchCtx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		// A newer fetch took over while we were in flight.
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	return expenses, nil
}
