package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/expensetrack/etrack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSessions is an in-memory SessionStore for client tests.
type fakeSessions struct {
	token   string
	cleared bool
}

func (f *fakeSessions) Token() string { return f.token }
func (f *fakeSessions) Clear() error {
	f.token = ""
	f.cleared = true
	return nil
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	sessions := &fakeSessions{token: "tok-abc"}
	client := NewClient(server.URL, sessions)

	_, err := client.ListExpenses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}

func TestClient_OmitsHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, &fakeSessions{})

	_, err := client.ListExpenses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token expired"}`))
	}))
	defer server.Close()

	sessions := &fakeSessions{token: "stale"}
	client := NewClient(server.URL, sessions)

	_, err := client.ListExpenses(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.True(t, sessions.cleared, "401 must clear the session at the client layer")
	assert.Empty(t, sessions.token)

	// The caller never sees the response payload, only the sentinel.
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_ForbiddenKeepsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	sessions := &fakeSessions{token: "tok"}
	client := NewClient(server.URL, sessions)

	_, err := client.ListExpenses(context.Background())
	require.ErrorIs(t, err, ErrForbidden)
	assert.False(t, sessions.cleared, "403 must not touch the session")
	assert.Equal(t, "tok", sessions.token)
}

func TestClient_ServerErrorCarriesRemoteMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"database unavailable"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, &fakeSessions{token: "tok"})

	_, err := client.ListExpenses(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "database unavailable", apiErr.Message)
}

func TestClient_ListExpenses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id":1,"title":"Groceries","amount":450.50,"category":"Food","date":"2024-03-14","user":{"name":"alice","email":"a@example.com"}},
			{"id":2,"title":"Bus pass","amount":"120","category":"Transport","date":"2024-03-01"}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, &fakeSessions{token: "tok"})

	expenses, err := client.ListExpenses(context.Background())
	require.NoError(t, err)
	require.Len(t, expenses, 2)

	assert.Equal(t, "1", expenses[0].ID)
	assert.Equal(t, "Groceries", expenses[0].Title)
	assert.InDelta(t, 450.50, expenses[0].Amount, 0.001)
	assert.Equal(t, model.CategoryFood, expenses[0].Category)
	assert.Equal(t, "Mar 2024", expenses[0].Month())
	assert.Equal(t, "alice", expenses[0].OwnerName())

	// String-encoded amounts parse too; a missing user falls back to Unknown.
	assert.InDelta(t, 120, expenses[1].Amount, 0.001)
	assert.Equal(t, "Unknown", expenses[1].OwnerName())
}

func TestClient_ListExpensesBadAmount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":7,"title":"Broken","amount":"12,50","category":"Food","date":"2024-03-14"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, &fakeSessions{token: "tok"})

	_, err := client.ListExpenses(context.Background())
	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, "amount", dataErr.Field)
	assert.Equal(t, "7", dataErr.RecordID)
}

func TestClient_ListExpensesBadDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":8,"title":"Broken","amount":10,"category":"Food","date":"14/03/2024"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, &fakeSessions{token: "tok"})

	_, err := client.ListExpenses(context.Background())
	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, "date", dataErr.Field)
}

func TestClient_CreateExpenseValidatesLocally(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		requests++
	}))
	defer server.Close()

	client := NewClient(server.URL, &fakeSessions{token: "tok"})

	invalid := []model.Expense{
		{Title: "", Amount: 10, Category: model.CategoryFood, Date: day(t, "2024-03-14")},
		{Title: "x", Amount: 0, Category: model.CategoryFood, Date: day(t, "2024-03-14")},
		{Title: "x", Amount: -5, Category: model.CategoryFood, Date: day(t, "2024-03-14")},
		{Title: "x", Amount: 10, Category: "Gadgets", Date: day(t, "2024-03-14")},
		{Title: "x", Amount: 10, Category: model.CategoryFood},
	}
	for _, e := range invalid {
		_, err := client.CreateExpense(context.Background(), e)
		assert.Error(t, err)
	}
	assert.Zero(t, requests, "validation failures must never reach the server")
}

func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		_, _ = w.Write([]byte(`{"token":"issued-tok","role":"admin"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, &fakeSessions{})

	sess, err := client.Login(context.Background(), "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "issued-tok", sess.Token)
	assert.Equal(t, "alice", sess.Username)
	assert.True(t, sess.IsAdmin())
}

func TestClient_LoginDefaultsRole(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"token":"issued-tok"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, &fakeSessions{})

	sess, err := client.Login(context.Background(), "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "user", sess.Role)
	assert.False(t, sess.IsAdmin())
}
