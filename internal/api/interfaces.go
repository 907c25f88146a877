package api

import (
	"context"

	"github.com/expensetrack/etrack/internal/model"
)

// ExpenseService defines the contract for the remote expense API.
// This interface allows for easy mocking in tests and swapping transports.
type ExpenseService interface {
	Login(ctx context.Context, name, password string) (model.Session, error)
	Register(ctx context.Context, name, email, password string) error
	ListExpenses(ctx context.Context) ([]model.Expense, error)
	CreateExpense(ctx context.Context, e model.Expense) (model.Expense, error)
	CurrentUser(ctx context.Context) (model.User, error)
}

var _ ExpenseService = (*Client)(nil)
