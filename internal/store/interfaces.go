// interfaces.go defines the abstraction for persisted panel state.
//
// The state is a small set of named values (the page map, the language list,
// the last refresh timestamp). Values are JSON documents so the stored form
// matches what other consumers of the cache expect.

package store

import (
	"context"
	"time"
)

// Store is a durable key/value store for JSON-encodable values.
type Store interface {
	// Get decodes the value stored under key into v. It reports false,
	// leaving v untouched, when nothing is stored.
	Get(ctx context.Context, key string, v any) (bool, error)

	// Set encodes v as JSON and stores it under key, replacing any
	// previous value.
	Set(ctx context.Context, key string, v any) error

	// Entries lists what is stored, ordered by key.
	Entries(ctx context.Context) ([]Entry, error)

	// Clear removes every stored value at once.
	Clear(ctx context.Context) error
}

// Entry describes a stored value without decoding it.
type Entry struct {
	Key       string    `json:"key"`
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}
