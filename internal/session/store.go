// Package session persists the authenticated session (bearer token plus
// identity) across process runs. The store has exactly two writers, the
// login flow and the logout action, and any number of readers.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/expensetrack/etrack/internal/config"
	"github.com/expensetrack/etrack/internal/model"
)

// Store is a file-backed session store. Writes go through a temp file and
// rename so a crash never leaves a half-written session on disk. The mutex
// keeps the store safe when shared across goroutines; no token expiry or
// refresh is performed client-side.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store persisting to the given file path. An empty path
// selects the default location under the user data directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		var err error
		path, err = defaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve session path: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Set replaces the stored session. Only the login and register flows call
// this.
func (s *Store) Set(sess model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to save session file: %w", err)
	}

	slog.Debug("session saved", "user", sess.Username, "path", s.path)
	return nil
}

// Get returns the current session. A missing file yields a zero session,
// not an error; unauthenticated is a normal state.
func (s *Store) Get() (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Session{}, nil
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return model.Session{}, fmt.Errorf("failed to parse session file: %w", err)
	}
	return sess, nil
}

// Token returns the stored bearer token, or "" when no session exists.
func (s *Store) Token() string {
	sess, err := s.Get()
	if err != nil {
		slog.Warn("failed to read session", "error", err)
		return ""
	}
	return sess.Token
}

// Clear removes all stored session state. Logout and 401 handling call
// this; both slots (token and identity) go together, atomically.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func defaultPath() (string, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "session.json"), nil
}
