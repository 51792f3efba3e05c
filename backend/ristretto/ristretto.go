// Package ristretto layers an in-process ristretto cache in front of another
// backend. Reads are served from the local tier when possible; every write
// goes to the inner backend first and then evicts the local copy.
//
// The local tier is a near cache: writes made through other processes are only
// observed after TTL expiry.
package ristretto

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/graphcache/backend"
	"github.com/unkn0wn-root/graphcache/internal/util"
)

// Name is the registry name of this backend.
const Name = "ristretto"

const (
	PropInner       = "cache.ristretto.inner" // registry name of the wrapped backend; default "memory"
	PropNumCounters = "cache.ristretto.num-counters"
	PropMaxCost     = "cache.ristretto.max-cost" // bytes
	PropBufferItems = "cache.ristretto.buffer-items"
	PropTTL         = "cache.ristretto.ttl"
)

func init() {
	backend.Register(Name, func() backend.Backend { return &Tier{} })
}

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	TTL         time.Duration // 0 => no expiry
	Metrics     bool
}

const genStripes = 256

// Tier is a read-through near cache over Inner.
//
// Every write bumps the generation of its key stripe and then evicts the local
// copy. Get keeps an L1 fill only if the stripe generation is unchanged since
// before it read the inner backend, so a read racing a write cannot leave the
// old value in L1.
type Tier struct {
	mu    sync.RWMutex
	inner backend.Backend
	l1    *rc.Cache
	ttl   time.Duration
	down  bool

	gens  [genStripes]atomic.Uint64
	epoch atomic.Uint64 // bumped by Clear; covers every key
}

var _ backend.Backend = (*Tier)(nil)

// New wraps an already initialised inner backend.
func New(inner backend.Backend, cfg Config) (*Tier, error) {
	if inner == nil {
		return nil, errors.New("ristretto: inner backend is required")
	}
	l1, err := newL1(cfg)
	if err != nil {
		return nil, err
	}
	return &Tier{inner: inner, l1: l1, ttl: cfg.TTL}, nil
}

func newL1(cfg Config) (*rc.Cache, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	return rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
}

// Initialise builds the inner backend named by PropInner, initialises it with
// the same props, then builds the local tier.
func (t *Tier) Initialise(ctx context.Context, props map[string]string) error {
	var (
		cfg Config
		err error
	)
	if cfg.NumCounters, err = backend.Int64(props, PropNumCounters, 1e5); err != nil {
		return err
	}
	if cfg.MaxCost, err = backend.Int64(props, PropMaxCost, 64<<20); err != nil {
		return err
	}
	if cfg.BufferItems, err = backend.Int64(props, PropBufferItems, 64); err != nil {
		return err
	}
	if cfg.TTL, err = backend.Duration(props, PropTTL, time.Minute); err != nil {
		return err
	}
	innerName := backend.String(props, PropInner, "memory")
	if innerName == Name {
		return errors.New("ristretto: inner backend cannot be ristretto")
	}
	factory, err := backend.Lookup(innerName)
	if err != nil {
		return err
	}
	inner := factory()
	if err := inner.Initialise(ctx, props); err != nil {
		return err
	}
	l1, err := newL1(cfg)
	if err != nil {
		_ = inner.Shutdown(ctx)
		return err
	}

	t.mu.Lock()
	t.inner, t.l1, t.ttl, t.down = inner, l1, cfg.TTL, false
	t.mu.Unlock()
	return nil
}

func (t *Tier) parts() (backend.Backend, *rc.Cache, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.down {
		return nil, nil, backend.ErrShutdown
	}
	if t.inner == nil {
		return nil, nil, backend.ErrNotInitialised
	}
	return t.inner, t.l1, nil
}

func (t *Tier) Get(ctx context.Context, cache, key string) ([]byte, bool, error) {
	inner, l1, err := t.parts()
	if err != nil {
		return nil, false, err
	}
	sk := util.StorageKey(cache, key)
	if v, ok := l1.Get(sk); ok {
		if b, ok := v.([]byte); ok {
			return bytes.Clone(b), true, nil
		}
		// self-heal: drop unexpected entry shape
		l1.Del(sk)
	}
	gen := t.gen(cache, key)
	epoch := t.epoch.Load()
	before := gen.Load()
	b, ok, err := inner.Get(ctx, cache, key)
	if err != nil || !ok {
		return nil, false, err
	}
	if l1.SetWithTTL(sk, bytes.Clone(b), int64(len(b))+1, t.ttl) {
		// SetWithTTL is buffered; wait so a later invalidation cannot
		// overtake it, then undo the fill if a write slipped in.
		l1.Wait()
		if gen.Load() != before || t.epoch.Load() != epoch {
			l1.Del(sk)
		}
	}
	return b, true, nil
}

func (t *Tier) gen(cache, key string) *atomic.Uint64 {
	return &t.gens[util.Stripe(cache, key, genStripes)]
}

// invalidate marks key as written and drops its local copy.
func (t *Tier) invalidate(l1 *rc.Cache, cache, key string) {
	t.gen(cache, key).Add(1)
	l1.Del(util.StorageKey(cache, key))
}

func (t *Tier) Put(ctx context.Context, cache, key string, value []byte) error {
	inner, l1, err := t.parts()
	if err != nil {
		return err
	}
	err = inner.Put(ctx, cache, key, value)
	t.invalidate(l1, cache, key)
	return err
}

func (t *Tier) PutIfAbsent(ctx context.Context, cache, key string, value []byte) (bool, error) {
	inner, l1, err := t.parts()
	if err != nil {
		return false, err
	}
	stored, err := inner.PutIfAbsent(ctx, cache, key, value)
	if stored {
		t.invalidate(l1, cache, key)
	}
	return stored, err
}

func (t *Tier) Remove(ctx context.Context, cache, key string) error {
	inner, l1, err := t.parts()
	if err != nil {
		return err
	}
	err = inner.Remove(ctx, cache, key)
	t.invalidate(l1, cache, key)
	return err
}

// Clear empties the whole local tier; ristretto cannot enumerate one cache.
func (t *Tier) Clear(ctx context.Context, cache string) error {
	inner, l1, err := t.parts()
	if err != nil {
		return err
	}
	err = inner.Clear(ctx, cache)
	t.epoch.Add(1)
	l1.Clear()
	return err
}

func (t *Tier) Size(ctx context.Context, cache string) (int, error) {
	inner, _, err := t.parts()
	if err != nil {
		return 0, err
	}
	return inner.Size(ctx, cache)
}

func (t *Tier) Keys(ctx context.Context, cache string) ([]string, error) {
	inner, _, err := t.parts()
	if err != nil {
		return nil, err
	}
	return inner.Keys(ctx, cache)
}

func (t *Tier) Values(ctx context.Context, cache string) ([][]byte, error) {
	inner, _, err := t.parts()
	if err != nil {
		return nil, err
	}
	return inner.Values(ctx, cache)
}

func (t *Tier) Shutdown(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.down {
		return nil
	}
	t.down = true
	if t.l1 != nil {
		t.l1.Wait()
		t.l1.Close()
	}
	if t.inner != nil {
		return t.inner.Shutdown(ctx)
	}
	return nil
}

// Metrics exposes ristretto counters when Config.Metrics was set.
func (t *Tier) Metrics() *rc.Metrics {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.l1 == nil {
		return nil
	}
	return t.l1.Metrics
}
