package graphcache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/unkn0wn-root/graphcache/backend"
	"github.com/unkn0wn-root/graphcache/internal/util"
)

// Options tune a Service. Only Backend is required.
type Options struct {
	Backend backend.Backend
	Logger  Logger // if nil, NopLogger is used
	Hooks   Hooks  // if nil, NopHooks is used
}

// Resolver yields the Service to use for the next operation.
// *Service and *Locator both implement it.
type Resolver interface {
	Service() (*Service, error)
}

// Service is the uniform cache contract over one backend. It holds no entries
// itself. Every failure is returned as *CacheOperationError; nothing is
// retried or swallowed.
type Service struct {
	b     backend.Backend
	log   Logger
	hooks Hooks

	mu   sync.RWMutex
	down bool
}

var _ Resolver = (*Service)(nil)

func NewService(opts Options) (*Service, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("graphcache: backend is required")
	}
	return &Service{
		b:     opts.Backend,
		log:   coalesce[Logger](opts.Logger, NopLogger{}),
		hooks: coalesce[Hooks](opts.Hooks, NopHooks{}),
	}, nil
}

// Service returns s, or ErrServiceUnavailable once s has been shut down.
func (s *Service) Service() (*Service, error) {
	if !s.Available() {
		return nil, ErrServiceUnavailable
	}
	return s, nil
}

func (s *Service) Available() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.down
}

// Initialise hands props to the backend.
func (s *Service) Initialise(ctx context.Context, props map[string]string) error {
	if !s.Available() {
		return &CacheOperationError{Op: "initialise", Err: ErrServiceUnavailable}
	}
	if err := s.b.Initialise(ctx, props); err != nil {
		s.log.Error("cache backend initialise failed", Fields{"err": err})
		return &CacheOperationError{Op: "initialise", Err: err}
	}
	s.log.Info("cache backend initialised", Fields{"props": len(props)})
	return nil
}

// Shutdown releases the backend. Every later call fails with
// ErrServiceUnavailable. Safe to call multiple times.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.down {
		s.mu.Unlock()
		return nil
	}
	s.down = true
	s.mu.Unlock()

	if err := s.b.Shutdown(ctx); err != nil {
		s.log.Warn("cache backend shutdown failed", Fields{"err": err})
		return &CacheOperationError{Op: "shutdown", Err: err}
	}
	s.log.Info("cache backend shut down", nil)
	return nil
}

func (s *Service) Get(ctx context.Context, cache, key string) ([]byte, bool, error) {
	if err := s.check("get", cache, key); err != nil {
		return nil, false, err
	}
	b, ok, err := s.b.Get(ctx, cache, key)
	if err != nil {
		return nil, false, s.fail("get", cache, key, err)
	}
	return b, ok, nil
}

// Put stores value unconditionally.
func (s *Service) Put(ctx context.Context, cache, key string, value []byte) error {
	if err := s.check("put", cache, key); err != nil {
		return err
	}
	if err := s.b.Put(ctx, cache, key, value); err != nil {
		return s.fail("put", cache, key, err)
	}
	return nil
}

// PutSafe stores value only if key is absent. An existing entry is left as is
// and the call fails with ErrConflict.
func (s *Service) PutSafe(ctx context.Context, cache, key string, value []byte) error {
	if err := s.check("put-safe", cache, key); err != nil {
		return err
	}
	stored, err := s.b.PutIfAbsent(ctx, cache, key, value)
	if err != nil {
		return s.fail("put-safe", cache, key, err)
	}
	if !stored {
		s.hooks.SafePutConflict(cache, key)
		s.log.Debug("safe put found existing entry", Fields{"cache": cache, "key": key})
		return &CacheOperationError{Op: "put-safe", Cache: cache, Key: key, Err: ErrConflict}
	}
	return nil
}

// Remove deletes key; absent keys are not an error.
func (s *Service) Remove(ctx context.Context, cache, key string) error {
	if err := s.check("remove", cache, key); err != nil {
		return err
	}
	if err := s.b.Remove(ctx, cache, key); err != nil {
		return s.fail("remove", cache, key, err)
	}
	return nil
}

func (s *Service) Clear(ctx context.Context, cache string) error {
	if err := s.check("clear", cache, ""); err != nil {
		return err
	}
	if err := s.b.Clear(ctx, cache); err != nil {
		return s.fail("clear", cache, "", err)
	}
	s.log.Debug("cache cleared", Fields{"cache": cache})
	return nil
}

func (s *Service) Size(ctx context.Context, cache string) (int, error) {
	if err := s.check("size", cache, ""); err != nil {
		return 0, err
	}
	n, err := s.b.Size(ctx, cache)
	if err != nil {
		return 0, s.fail("size", cache, "", err)
	}
	return n, nil
}

func (s *Service) Keys(ctx context.Context, cache string) ([]string, error) {
	if err := s.check("keys", cache, ""); err != nil {
		return nil, err
	}
	keys, err := s.b.Keys(ctx, cache)
	if err != nil {
		return nil, s.fail("keys", cache, "", err)
	}
	return keys, nil
}

func (s *Service) Values(ctx context.Context, cache string) ([][]byte, error) {
	if err := s.check("values", cache, ""); err != nil {
		return nil, err
	}
	vals, err := s.b.Values(ctx, cache)
	if err != nil {
		return nil, s.fail("values", cache, "", err)
	}
	return vals, nil
}

func (s *Service) check(op, cache, key string) error {
	if !util.ValidCacheName(cache) {
		return &CacheOperationError{Op: op, Cache: cache, Key: key, Err: ErrInvalidCacheName}
	}
	if !s.Available() {
		s.hooks.Unavailable(op)
		return &CacheOperationError{Op: op, Cache: cache, Key: key, Err: ErrServiceUnavailable}
	}
	return nil
}

func (s *Service) fail(op, cache, key string, err error) error {
	switch {
	case errors.Is(err, backend.ErrShutdown), errors.Is(err, backend.ErrNotInitialised):
		s.hooks.Unavailable(op)
		err = fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	case errors.Is(err, backend.ErrRejected):
		s.hooks.PutRejected(cache, key, err)
	default:
		s.hooks.BackendError(op, cache, err)
	}
	s.log.Warn("cache operation failed", Fields{"op": op, "cache": cache, "key": key, "err": err})
	return &CacheOperationError{Op: op, Cache: cache, Key: key, Err: err}
}

func (s *Service) decodeFailed(cache, key string, err error) error {
	s.hooks.DecodeFailed(cache, key, err)
	s.log.Warn("cache value decode failed", Fields{"cache": cache, "key": key, "err": err})
	return &CacheOperationError{Op: "decode", Cache: cache, Key: key, Err: err}
}
