package api

import (
	"context"
	"sync"

	"github.com/expensetrack/etrack/internal/model"
)

// MockService is a mock implementation of ExpenseService for testing.
type MockService struct {
	// Functions that can be set by tests to control behavior
	LoginFn         func(ctx context.Context, name, password string) (model.Session, error)
	RegisterFn      func(ctx context.Context, name, email, password string) error
	ListExpensesFn  func(ctx context.Context) ([]model.Expense, error)
	CreateExpenseFn func(ctx context.Context, e model.Expense) (model.Expense, error)
	CurrentUserFn   func(ctx context.Context) (model.User, error)

	// Call tracking
	CreateExpenseCalls []model.Expense
	ListExpensesCalls  int

	mu sync.Mutex
}

// NewMockService creates a new mock expense service.
func NewMockService() *MockService {
	return &MockService{}
}

// Login implements ExpenseService.Login.
func (m *MockService) Login(ctx context.Context, name, password string) (model.Session, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, name, password)
	}
	return model.Session{Token: "mock-token", Username: name, Role: "user"}, nil
}

// Register implements ExpenseService.Register.
func (m *MockService) Register(ctx context.Context, name, email, password string) error {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, name, email, password)
	}
	return nil
}

// ListExpenses implements ExpenseService.ListExpenses.
func (m *MockService) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	m.mu.Lock()
	m.ListExpensesCalls++
	m.mu.Unlock()
	if m.ListExpensesFn != nil {
		return m.ListExpensesFn(ctx)
	}
	return []model.Expense{}, nil
}

// CreateExpense implements ExpenseService.CreateExpense.
func (m *MockService) CreateExpense(ctx context.Context, e model.Expense) (model.Expense, error) {
	m.mu.Lock()
	m.CreateExpenseCalls = append(m.CreateExpenseCalls, e)
	m.mu.Unlock()
	if m.CreateExpenseFn != nil {
		return m.CreateExpenseFn(ctx, e)
	}
	return e, nil
}

// CurrentUser implements ExpenseService.CurrentUser.
func (m *MockService) CurrentUser(ctx context.Context) (model.User, error) {
	if m.CurrentUserFn != nil {
		return m.CurrentUserFn(ctx)
	}
	return model.User{Name: "mock", Role: "user"}, nil
}

var _ ExpenseService = (*MockService)(nil)
