// Package sqlite implements the kv.Backend on a single SQLite file, for
// operators who want the collections in a file other tools can query.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/studentdesk/studentdesk/internal/infrastructure/persistence/kv"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Backend stores each key as one row of the kv_entries table.
type Backend struct {
	db *sql.DB
}

var _ kv.Backend = (*Backend)(nil)

// Open opens (or creates) the database file at path and creates the table
// if it does not exist. Parent directories are created as needed.
func Open(ctx context.Context, path string) (*Backend, error) {
	if path == "" {
		return nil, errors.New("sqlite: database path is required")
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create directory for %q: %w", path, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	// One connection: writes are serialized and ":memory:" stays one database.
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE IF NOT EXISTS kv_entries (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create kv_entries: %w", err)
	}
	return &Backend{db: db}, nil
}

func (b *Backend) Name() string { return "sqlite" }

// Get returns the stored document, mapping sql.ErrNoRows to kv.ErrKeyNotFound.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := b.db.QueryRowContext(ctx, "SELECT value FROM kv_entries WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kv.ErrKeyNotFound
		}
		return nil, fmt.Errorf("sqlite: get %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set upserts the document under key.
func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value))
	if err != nil {
		return fmt.Errorf("sqlite: set %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Close() error {
	return b.db.Close()
}
