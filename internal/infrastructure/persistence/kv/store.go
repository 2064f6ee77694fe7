// Package kv implements the key-value persistence adapter every repository
// sits on. Values are JSON documents stored under string keys in a pluggable
// Backend (memory, badger, redis, postgres).
//
// The adapter never returns errors: reads report a miss, writes report
// failure, and the cause is logged. Callers decide what a miss means.
package kv

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/studentdesk/studentdesk/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// BACKEND
// ══════════════════════════════════════════════════════════════════════════════

// ErrKeyNotFound is returned by a Backend when the key holds no value.
var ErrKeyNotFound = errors.New("kv: key not found")

// Backend is a string-keyed byte store. Implementations must be safe for
// concurrent use; no cross-process coordination is expected (last write wins).
type Backend interface {
	// Name identifies the backend in logs.
	Name() string

	// Get returns the stored bytes, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases the backend's resources.
	Close() error
}

// ══════════════════════════════════════════════════════════════════════════════
// STORE
// ══════════════════════════════════════════════════════════════════════════════

// Store serializes structured values to JSON on top of a Backend.
type Store struct {
	backend Backend
	log     *logger.Logger
}

// NewStore wraps backend. A nil logger discards diagnostics.
func NewStore(backend Backend, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		backend: backend,
		log:     log.With(logger.Component("kv"), logger.Backend(backend.Name())),
	}
}

// Read decodes the value stored under key into dest. It returns false when
// the key is absent, the backend fails, or the stored text does not decode.
func (s *Store) Read(ctx context.Context, key string, dest any) bool {
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			s.log.Debug("key not found", logger.Key(key))
			return false
		}
		s.log.Error("error reading from storage", logger.Key(key), logger.Err(err))
		return false
	}
	if len(data) == 0 {
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.log.Error("error decoding stored value", logger.Key(key), logger.Err(err))
		return false
	}
	return true
}

// Write encodes value as JSON and stores it under key. It returns false when
// encoding or the backend fails.
func (s *Store) Write(ctx context.Context, key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Error("error encoding value", logger.Key(key), logger.Err(err))
		return false
	}

	if err := s.backend.Set(ctx, key, data); err != nil {
		s.log.Error("error saving to storage", logger.Key(key), logger.Err(err))
		return false
	}
	return true
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
