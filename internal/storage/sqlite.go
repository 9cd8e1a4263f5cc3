package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// SQLiteBackend keeps key/value rows in an embedded SQLite database.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens the database at path, creating parent dirs and the kv table.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &SQLiteBackend{db: db, path: path}, nil
}

// Path returns the database file location.
func (b *SQLiteBackend) Path() string {
	return b.path
}

// Get returns the value stored under key; ok is false when there is none.
func (b *SQLiteBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if b.db == nil {
		return "", false, errors.New("sqlite backend is closed")
	}
	var value string
	err := b.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %s: %w", key, err)
	}
	return value, true, nil
}

// Set overwrites the value stored under key.
func (b *SQLiteBackend) Set(ctx context.Context, key, value string) error {
	if b.db == nil {
		return errors.New("sqlite backend is closed")
	}
	_, err := b.db.ExecContext(ctx,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

// Close releases the database connection. Closing twice is a no-op.
func (b *SQLiteBackend) Close() error {
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}
