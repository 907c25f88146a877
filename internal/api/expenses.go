package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/expensetrack/etrack/internal/model"
)

// dateLayout is the calendar-date format the backend serializes.
const dateLayout = "2006-01-02"

// expenseWire is the backend's JSON shape for an expense. Amount decodes as
// json.Number so both numeric and string encodings parse, and so a
// non-numeric value fails loudly instead of poisoning sums.
type expenseWire struct {
	ID       json.Number `json:"id"`
	Title    string      `json:"title"`
	Amount   json.Number `json:"amount"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
	User     *struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

func (w expenseWire) toModel() (model.Expense, error) {
	amount, err := w.Amount.Float64()
	if err != nil {
		return model.Expense{}, &DataError{RecordID: w.ID.String(), Field: "amount", Err: err}
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return model.Expense{}, &DataError{RecordID: w.ID.String(), Field: "amount", Err: fmt.Errorf("not a finite number")}
	}

	date, err := time.Parse(dateLayout, w.Date)
	if err != nil {
		return model.Expense{}, &DataError{RecordID: w.ID.String(), Field: "date", Err: err}
	}

	e := model.Expense{
		ID:       w.ID.String(),
		Title:    w.Title,
		Amount:   amount,
		Category: model.Category(w.Category),
		Date:     date,
	}
	if w.User != nil {
		e.User = model.User{Name: w.User.Name, Email: w.User.Email}
	}
	return e, nil
}

// Login authenticates and returns the session the server issued. Storing it
// is the caller's job: the session store has exactly two writers and both
// live in the command layer.
func (c *Client) Login(ctx context.Context, name, password string) (model.Session, error) {
	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	err := c.Post(ctx, "/auth/login", map[string]string{
		"name":     name,
		"password": password,
	}, &resp)
	if err != nil {
		return model.Session{}, err
	}
	if resp.Token == "" {
		return model.Session{}, &APIError{Status: 200, Message: "login response missing token"}
	}

	role := resp.Role
	if role == "" {
		role = "user"
	}
	return model.Session{Token: resp.Token, Username: name, Role: role}, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	return c.Post(ctx, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, nil)
}

// ListExpenses fetches the caller's expense records. Any record failing
// shape validation fails the whole fetch with a DataError.
func (c *Client) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	var wires []expenseWire
	if err := c.Get(ctx, "/expenses", &wires); err != nil {
		return nil, err
	}

	expenses := make([]model.Expense, 0, len(wires))
	for _, w := range wires {
		e, err := w.toModel()
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

// CreateExpense validates and submits a new expense, returning the stored
// record. Validation failures never reach the network.
func (c *Client) CreateExpense(ctx context.Context, e model.Expense) (model.Expense, error) {
	if err := e.Validate(); err != nil {
		return model.Expense{}, err
	}

	var wire expenseWire
	err := c.Post(ctx, "/expenses", map[string]any{
		"title":    e.Title,
		"amount":   e.Amount,
		"category": string(e.Category),
		"date":     e.Date.Format(dateLayout),
	}, &wire)
	if err != nil {
		return model.Expense{}, err
	}
	return wire.toModel()
}

// CurrentUser fetches the authenticated user's profile. The role comes from
// the server; nothing here infers it from the name or email text.
func (c *Client) CurrentUser(ctx context.Context) (model.User, error) {
	var resp struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := c.Get(ctx, "/users/me", &resp); err != nil {
		return model.User{}, err
	}

	if resp.Role == "" {
		resp.Role = "user"
	}
	return model.User{Name: resp.Name, Email: resp.Email, Role: resp.Role}, nil
}
