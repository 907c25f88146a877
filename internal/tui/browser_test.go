package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/expensetrack/etrack/internal/api"
	"github.com/expensetrack/etrack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleExpenses() []model.Expense {
	return []model.Expense{
		{
			ID: "1", Title: "Groceries", Amount: 450.50, Category: model.CategoryFood,
			Date: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "2", Title: "Bus pass", Amount: 120, Category: model.CategoryTransport,
			Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestBrowser_ShowsFetchedExpenses(t *testing.T) {
	mock := api.NewMockService()
	mock.ListExpensesFn = func(_ context.Context) ([]model.Expense, error) {
		return sampleExpenses(), nil
	}
	browser := NewBrowser(api.NewFetcher(mock))

	updated, _ := browser.Update(expensesMsg{expenses: sampleExpenses()})
	b, ok := updated.(*Browser)
	require.True(t, ok)

	view := b.View()
	assert.Contains(t, view, "Groceries")
	assert.Contains(t, view, "450.50")
	assert.Contains(t, view, "570.50", "total metric")
	assert.Contains(t, view, "Transactions")
}

func TestBrowser_ShowsFetchError(t *testing.T) {
	browser := NewBrowser(api.NewFetcher(api.NewMockService()))

	updated, _ := browser.Update(expensesMsg{err: errors.New("network unreachable")})
	b := updated.(*Browser)

	view := b.View()
	assert.Contains(t, view, "network unreachable")
	assert.Contains(t, view, "press r to retry")
}

func TestBrowser_IgnoresSupersededFetch(t *testing.T) {
	browser := NewBrowser(api.NewFetcher(api.NewMockService()))
	browser.loading = false
	browser.setExpenses(sampleExpenses())

	// A superseded fetch result must not disturb the current view.
	updated, _ := browser.Update(expensesMsg{err: api.ErrSuperseded})
	b := updated.(*Browser)
	assert.NoError(t, b.err)
	assert.Contains(t, b.View(), "Groceries")
}

func TestBrowser_QuitKey(t *testing.T) {
	browser := NewBrowser(api.NewFetcher(api.NewMockService()))

	_, cmd := browser.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd, "q must quit")
}
