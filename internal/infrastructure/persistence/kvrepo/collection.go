// Package kvrepo implements the domain repositories on top of the kv.Store.
//
// Every repository owns one collection key and keeps no state between calls:
// each operation loads the whole persisted array, works on it, and writes the
// whole array back. Collections are small (hundreds of rows), so lookups are
// linear scans.
package kvrepo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/studentdesk/studentdesk/internal/domain/shared"
	"github.com/studentdesk/studentdesk/internal/infrastructure/persistence/kv"
)

// collection is a JSON array of T persisted under one key.
type collection[T any] struct {
	store  *kv.Store
	key    string
	domain string
	id     func(*T) string
}

// load returns the persisted rows, or an empty slice when nothing is stored
// or the stored value cannot be read.
func (c collection[T]) load(ctx context.Context) []T {
	var items []T
	if !c.store.Read(ctx, c.key, &items) || items == nil {
		return []T{}
	}
	return items
}

func (c collection[T]) save(ctx context.Context, op string, items []T) error {
	if !c.store.Write(ctx, c.key, items) {
		return shared.StorageWriteError(c.domain, op, c.key)
	}
	return nil
}

func (c collection[T]) find(items []T, id string) int {
	for i := range items {
		if c.id(&items[i]) == id {
			return i
		}
	}
	return -1
}

func (c collection[T]) get(ctx context.Context, id string) (T, bool) {
	items := c.load(ctx)
	if i := c.find(items, id); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

func (c collection[T]) filter(ctx context.Context, keep func(*T) bool) []T {
	items := c.load(ctx)
	out := make([]T, 0, len(items))
	for i := range items {
		if keep(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

// add validates and persists a new row. The caller has already stamped it.
func (c collection[T]) add(ctx context.Context, item T, validate func(T) error) (T, error) {
	if err := validate(item); err != nil {
		return item, err
	}
	items := c.load(ctx)
	items = append(items, item)
	return item, c.save(ctx, "Add", items)
}

// update applies fn to the row with the given ID and persists. Unknown IDs
// return nil, nil and leave storage untouched.
func (c collection[T]) update(ctx context.Context, id string, fn func(*T), validate func(T) error) (*T, error) {
	items := c.load(ctx)
	i := c.find(items, id)
	if i < 0 {
		return nil, nil
	}

	updated := items[i]
	fn(&updated)
	if err := validate(updated); err != nil {
		return nil, err
	}

	items[i] = updated
	if err := c.save(ctx, "Update", items); err != nil {
		return nil, err
	}
	return &updated, nil
}

// removeWhere drops every row matching drop, persists, and returns the rest.
func (c collection[T]) removeWhere(ctx context.Context, op string, drop func(*T) bool) ([]T, error) {
	items := c.load(ctx)
	kept := make([]T, 0, len(items))
	for i := range items {
		if !drop(&items[i]) {
			kept = append(kept, items[i])
		}
	}
	return kept, c.save(ctx, op, kept)
}

// ══════════════════════════════════════════════════════════════════════════════
// IDENTITY & TIME
// ══════════════════════════════════════════════════════════════════════════════

// Options carries the collaborators shared by every repository.
type Options struct {
	// Keys names the persisted collections.
	Keys kv.Keys

	// Now stamps createdAt/updatedAt. Defaults to time.Now in UTC.
	Now func() time.Time

	// NewID generates entity IDs. Defaults to random UUIDs.
	NewID func() string
}

func (o Options) withDefaults() Options {
	if o.Keys.Prefix == "" {
		o.Keys = kv.NewKeys("")
	}
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

func (o Options) stamp() time.Time {
	return o.Now().UTC()
}
