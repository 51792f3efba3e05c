package graphcache

import (
	"context"
	"fmt"
	"sync"

	"github.com/unkn0wn-root/graphcache/backend"
	"github.com/unkn0wn-root/graphcache/store"
)

type LocatorOptions struct {
	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // passed to the Service built by Initialise
}

// Locator holds the one active Service of a process. Facades resolve through
// it on every call, so Reset in test teardown is observed immediately.
// Reconfiguring while operations are in flight is not supported.
type Locator struct {
	mu    sync.RWMutex
	svc   *Service
	log   Logger
	hooks Hooks
}

var _ Resolver = (*Locator)(nil)

var defaultLocator = NewLocator(LocatorOptions{})

// DefaultLocator is the process-wide locator used when nothing else is injected.
func DefaultLocator() *Locator { return defaultLocator }

func NewLocator(opts LocatorOptions) *Locator {
	return &Locator{
		log:   coalesce[Logger](opts.Logger, NopLogger{}),
		hooks: opts.Hooks,
	}
}

// Initialise builds and initialises the backend named by props.CacheBackend().
// It runs once: later calls are no-ops until Reset. With no backend configured
// the locator stays empty and facades report ErrServiceUnavailable.
func (l *Locator) Initialise(ctx context.Context, props *store.Properties) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.svc != nil {
		l.log.Debug("cache service already initialised", nil)
		return nil
	}
	name := ""
	if props != nil {
		name = props.CacheBackend()
	}
	if name == "" {
		l.log.Info("no cache backend configured", nil)
		return nil
	}
	factory, err := backend.Lookup(name)
	if err != nil {
		return fmt.Errorf("graphcache: %w", err)
	}
	svc, err := NewService(Options{Backend: factory(), Logger: l.log, Hooks: l.hooks})
	if err != nil {
		return err
	}
	if err := svc.Initialise(ctx, props.Map()); err != nil {
		return fmt.Errorf("graphcache: initialise %s backend: %w", name, err)
	}
	l.svc = svc
	l.log.Info("cache service initialised", Fields{"backend": name})
	return nil
}

// Use installs svc as the active service, replacing any previous one without
// shutting it down.
func (l *Locator) Use(svc *Service) {
	l.mu.Lock()
	l.svc = svc
	l.mu.Unlock()
}

// Service returns the active service or ErrServiceUnavailable.
func (l *Locator) Service() (*Service, error) {
	l.mu.RLock()
	svc := l.svc
	l.mu.RUnlock()
	if svc == nil {
		return nil, ErrServiceUnavailable
	}
	return svc.Service()
}

// Reset shuts down the active service and forgets it.
func (l *Locator) Reset(ctx context.Context) error {
	l.mu.Lock()
	svc := l.svc
	l.svc = nil
	l.mu.Unlock()
	if svc == nil {
		return nil
	}
	return svc.Shutdown(ctx)
}
