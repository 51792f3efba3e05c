package graphcache

import (
	"errors"
	"fmt"
)

var (
	// ErrServiceUnavailable is returned when no backend is configured or it
	// has been shut down.
	ErrServiceUnavailable = errors.New("graphcache: cache service not available")
	// ErrConflict is returned by safe puts when the key already holds a value.
	ErrConflict = errors.New("graphcache: entry already exists")
	// ErrInvalidCacheName is returned for empty or malformed cache names.
	ErrInvalidCacheName = errors.New("graphcache: invalid cache name")
)

// CacheOperationError wraps any failure of a cache operation. Use errors.Is
// with ErrConflict or ErrServiceUnavailable to tell the common cases apart.
type CacheOperationError struct {
	Op    string
	Cache string
	Key   string
	Err   error
}

func (e *CacheOperationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("cache %s %q: %v", e.Op, e.Cache, e.Err)
	}
	return fmt.Sprintf("cache %s %q key %q: %v", e.Op, e.Cache, e.Key, e.Err)
}

func (e *CacheOperationError) Unwrap() error { return e.Err }
