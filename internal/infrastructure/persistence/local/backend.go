// Package local implements the kv.Backend on an embedded BadgerDB directory.
// It is the default backend: a single operator keeps all collections on their
// own disk with no server to run.
package local

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/studentdesk/studentdesk/internal/infrastructure/persistence/kv"
)

// Config configures the embedded store.
type Config struct {
	// Dir is the data directory. Ignored when InMemory is set.
	Dir string

	// InMemory keeps everything in RAM (tests, demos).
	InMemory bool
}

// DefaultConfig stores data under ./data/studentdesk.
func DefaultConfig() Config {
	return Config{Dir: "data/studentdesk"}
}

// Backend stores collections in BadgerDB.
type Backend struct {
	db *badger.DB
}

var _ kv.Backend = (*Backend)(nil)

// Open opens (or creates) the BadgerDB directory.
func Open(cfg Config) (*Backend, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Dir == "" {
			return nil, errors.New("local: data directory is required")
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("local: open %q: %w", cfg.Dir, err)
	}
	return &Backend{db: db}, nil
}

func (b *Backend) Name() string { return "local" }

// Get returns a copy of the stored value, mapping badger.ErrKeyNotFound to
// kv.ErrKeyNotFound.
func (b *Backend) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, kv.ErrKeyNotFound
		}
		return nil, fmt.Errorf("local: get %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key in its own transaction.
func (b *Backend) Set(_ context.Context, key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("local: set %s: %w", key, err)
	}
	return nil
}

// Close flushes and closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}
