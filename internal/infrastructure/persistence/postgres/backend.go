package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/studentdesk/studentdesk/internal/infrastructure/persistence/kv"
)

// DefaultTable is the key/value table name.
const DefaultTable = "kv_entries"

// Querier is the subset of *pgxpool.Pool and pgx.Tx the backend needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Backend stores each key as one JSONB row.
type Backend struct {
	db      Querier
	table   string
	ident   string // quoted table name for SQL text
	onClose func()
}

var _ kv.Backend = (*Backend)(nil)

// Open connects, creates the table if needed and returns a backend that
// closes the pool on Close.
func Open(ctx context.Context, cfg Config) (*Backend, error) {
	pool, err := connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	b := NewBackend(pool, cfg.Table)
	b.onClose = pool.Close

	if err := b.EnsureTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return b, nil
}

// NewBackend wraps an existing querier. An empty table name means DefaultTable.
func NewBackend(db Querier, table string) *Backend {
	if table == "" {
		table = DefaultTable
	}
	return &Backend{
		db:    db,
		table: table,
		ident: pgx.Identifier(strings.Split(table, ".")).Sanitize(),
	}
}

// EnsureTable creates the key/value table if it does not exist.
func (b *Backend) EnsureTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key TEXT PRIMARY KEY,
			value JSONB NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`, b.ident)

	if _, err := b.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("postgres: failed to create %s: %w", b.table, err)
	}
	return nil
}

func (b *Backend) Name() string { return "postgres" }

// Get returns the stored document, mapping pgx.ErrNoRows to kv.ErrKeyNotFound.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	query := fmt.Sprintf("SELECT value FROM %s WHERE key = $1", b.ident)

	var data []byte
	if err := b.db.QueryRow(ctx, query, key).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, kv.ErrKeyNotFound
		}
		return nil, fmt.Errorf("postgres: get %s: %w", key, err)
	}
	return data, nil
}

// Set upserts the document under key.
func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, b.ident)

	if _, err := b.db.Exec(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("postgres: set %s: %w", key, err)
	}
	return nil
}

// Close releases the pool when the backend owns it.
func (b *Backend) Close() error {
	if b.onClose != nil {
		b.onClose()
	}
	return nil
}
