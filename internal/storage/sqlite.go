// Package storage caches the most recent fetched expense snapshot in a
// local SQLite database, so dashboards and reports keep working when the
// backend is unreachable. The server remains the source of truth; the cache
// is replaced wholesale on every successful fetch.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/expensetrack/etrack/internal/common"
	"github.com/expensetrack/etrack/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Cache is a SQLite-backed snapshot cache.
type Cache struct {
	db     *sql.DB
	dbPath string
}

// NewCache opens (or creates) the cache database at dbPath.
func NewCache(dbPath string) (*Cache, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: cache path is empty", common.ErrInvalidConfig)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	return &Cache{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SaveSnapshot replaces the cached snapshot with the given records. The old
// snapshot and the new one never coexist: the swap happens in one
// transaction.
func (c *Cache) SaveSnapshot(ctx context.Context, username string, records []model.Expense) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("failed to clear old snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expenses (id, title, amount, category, date, user_name, user_email)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.ID,
			rec.Title,
			rec.Amount,
			string(rec.Category),
			rec.Date.Format("2006-01-02"),
			rec.User.Name,
			rec.User.Email,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense %s: %w", rec.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta (id, username, fetched_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET username = excluded.username, fetched_at = excluded.fetched_at`,
		username, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record snapshot metadata: %w", err)
	}

	return tx.Commit()
}

// LoadSnapshot returns the cached records and when they were fetched.
// Returns common.ErrNoSnapshot when nothing has been cached yet.
func (c *Cache) LoadSnapshot(ctx context.Context) ([]model.Expense, time.Time, error) {
	var fetchedAt string
	err := c.db.QueryRowContext(ctx, `SELECT fetched_at FROM snapshot_meta WHERE id = 1`).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, common.ErrNoSnapshot
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read snapshot metadata: %w", err)
	}

	when, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: bad fetched_at %q", common.ErrCacheCorrupted, fetchedAt)
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, title, amount, category, date, user_name, user_email
		FROM expenses ORDER BY rowid`)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.Expense
	for rows.Next() {
		var rec model.Expense
		var category, date string
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Amount, &category, &date, &rec.User.Name, &rec.User.Email); err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to scan expense: %w", err)
		}
		rec.Category = model.Category(category)
		rec.Date, err = time.Parse("2006-01-02", date)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("%w: bad date %q for expense %s", common.ErrCacheCorrupted, date, rec.ID)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to iterate snapshot: %w", err)
	}

	return records, when, nil
}
