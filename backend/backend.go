// Package backend defines the storage contract consumed by graphcache.
//
// A Backend holds many named caches. Keys are unique within one cache name.
// Implementations MUST be byte-for-byte transparent (Get returns exactly the
// bytes previously passed to Put) and MUST be safe for concurrent use.
//
// PutIfAbsent MUST be an atomic insert-if-absent per (cache, key): of any number
// of concurrent callers racing on an absent key exactly one stores its value.
// Backends without a native primitive serialize access per key.
package backend

import (
	"context"
	"errors"
)

var (
	// ErrShutdown is returned by every operation after Shutdown.
	ErrShutdown = errors.New("backend: shut down")
	// ErrNotInitialised is returned by backends that need Initialise before use.
	ErrNotInitialised = errors.New("backend: not initialised")
	// ErrRejected is returned when a write is refused (capacity, entry size).
	ErrRejected = errors.New("backend: write rejected")
)

// Backend is a multi-namespace byte store.
type Backend interface {
	// Initialise configures the backend. Called once before first use;
	// repeated calls have backend-defined effects.
	Initialise(ctx context.Context, props map[string]string) error

	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	Get(ctx context.Context, cache, key string) ([]byte, bool, error)

	// Put stores value unconditionally.
	Put(ctx context.Context, cache, key string, value []byte) error

	// PutIfAbsent stores value only if key holds nothing. stored is false when
	// an entry already existed; that entry is left untouched.
	PutIfAbsent(ctx context.Context, cache, key string, value []byte) (stored bool, err error)

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, cache, key string) error

	// Clear deletes every entry of cache.
	Clear(ctx context.Context, cache string) error

	Size(ctx context.Context, cache string) (int, error)
	Keys(ctx context.Context, cache string) ([]string, error)
	Values(ctx context.Context, cache string) ([][]byte, error)

	// Shutdown releases resources. Safe to call multiple times.
	Shutdown(ctx context.Context) error
}
