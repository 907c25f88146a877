// Package api wraps all HTTP traffic to the ExpenseTrack backend. Every
// outbound call attaches the stored bearer token; authorization failures are
// handled here, uniformly, instead of at each call site: 401 clears the
// session and surfaces ErrSessionExpired, 403 surfaces ErrForbidden with the
// session untouched.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// SessionStore is the slice of the session store the client needs: reading
// the token on every request and clearing it on 401.
type SessionStore interface {
	Token() string
	Clear() error
}

// Client talks to the ExpenseTrack API.
type Client struct {
	httpClient *http.Client
	sessions   SessionStore
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the request timeout. Calls exceeding it surface as
// transport failures.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string, sessions SessionStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		sessions:   sessions,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes the response into out.
// A nil out discards the response body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if token := c.sessions.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// Fatal to the session: clear it here, in the response pipeline,
		// so no call site can forget to.
		if clearErr := c.sessions.Clear(); clearErr != nil {
			slog.Warn("failed to clear session after 401", "error", clearErr)
		}
		slog.Info("session rejected by server", "method", method, "path", path)
		return ErrSessionExpired

	case resp.StatusCode == http.StatusForbidden:
		// Authenticated but insufficient privilege. The session stays.
		return ErrForbidden

	case resp.StatusCode >= 400:
		return &APIError{Status: resp.StatusCode, Message: remoteMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// remoteMessage extracts an error message from a JSON error body, falling
// back to the raw text.
func remoteMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(data))
}
