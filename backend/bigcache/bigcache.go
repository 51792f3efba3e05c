package bigcache

import (
	"context"
	"errors"
	"sync"
	"time"

	bc "github.com/allegro/bigcache/v3"
	"github.com/cespare/xxhash/v2"

	"github.com/unkn0wn-root/graphcache/backend"
	"github.com/unkn0wn-root/graphcache/internal/util"
)

// Name is the registry name of this backend.
const Name = "bigcache"

const (
	PropLifeWindow         = "cache.bigcache.life-window"
	PropCleanWindow        = "cache.bigcache.clean-window"
	PropShards             = "cache.bigcache.shards"
	PropMaxEntriesInWindow = "cache.bigcache.max-entries-in-window"
	PropMaxEntrySize       = "cache.bigcache.max-entry-size"
	PropHardMaxCacheSizeMB = "cache.bigcache.hard-max-cache-size-mb"
)

const (
	defaultLifeWindow = 30 * 24 * time.Hour
	stripes           = 64
)

func init() {
	backend.Register(Name, func() backend.Backend { return &Provider{} })
}

// Config mirrors the tunables bigcache exposes. Zero values keep bigcache defaults.
type Config struct {
	LifeWindow         time.Duration // 0 => 30 days
	CleanWindow        time.Duration // 0 => no background cleanup
	Shards             int
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

// Provider stores every cache in one BigCache under "<cache>\x1f<key>".
// BigCache has no insert-if-absent, so writers serialize on an xxhash
// stripe of (cache, key).
type Provider struct {
	mu    sync.RWMutex // write-locked by Clear and Shutdown
	locks [stripes]sync.Mutex
	c     *bc.BigCache
	down  bool
}

var _ backend.Backend = (*Provider)(nil)

// New builds a ready-to-use provider.
func New(cfg Config) (*Provider, error) {
	p := &Provider{}
	if err := p.open(cfg); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Provider) open(cfg Config) error {
	life := cfg.LifeWindow
	if life <= 0 {
		life = defaultLifeWindow
	}
	conf := bc.DefaultConfig(life)
	conf.CleanWindow = cfg.CleanWindow
	conf.Hasher = xxHasher{}
	conf.Verbose = false
	if cfg.Shards > 0 {
		conf.Shards = cfg.Shards
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return err
	}

	p.mu.Lock()
	old := p.c
	p.c, p.down = c, false
	p.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Initialise (re)creates the underlying BigCache from props. Re-initialising
// drops all entries.
func (p *Provider) Initialise(_ context.Context, props map[string]string) error {
	var (
		cfg Config
		err error
	)
	if cfg.LifeWindow, err = backend.Duration(props, PropLifeWindow, 0); err != nil {
		return err
	}
	if cfg.CleanWindow, err = backend.Duration(props, PropCleanWindow, 0); err != nil {
		return err
	}
	if cfg.Shards, err = backend.Int(props, PropShards, 0); err != nil {
		return err
	}
	if cfg.MaxEntriesInWindow, err = backend.Int(props, PropMaxEntriesInWindow, 0); err != nil {
		return err
	}
	if cfg.MaxEntrySize, err = backend.Int(props, PropMaxEntrySize, 0); err != nil {
		return err
	}
	if cfg.HardMaxCacheSizeMB, err = backend.Int(props, PropHardMaxCacheSizeMB, 0); err != nil {
		return err
	}
	return p.open(cfg)
}

// acquire read-locks p.mu and checks state. Callers must RUnlock.
func (p *Provider) acquire() error {
	p.mu.RLock()
	if p.down {
		p.mu.RUnlock()
		return backend.ErrShutdown
	}
	if p.c == nil {
		p.mu.RUnlock()
		return backend.ErrNotInitialised
	}
	return nil
}

// xxHasher hashes storage keys for bigcache's shard and entry index.
type xxHasher struct{}

func (xxHasher) Sum64(key string) uint64 { return xxhash.Sum64String(key) }

func (p *Provider) stripe(cache, key string) *sync.Mutex {
	return &p.locks[util.Stripe(cache, key, stripes)]
}

func (p *Provider) Get(_ context.Context, cache, key string) ([]byte, bool, error) {
	if err := p.acquire(); err != nil {
		return nil, false, err
	}
	defer p.mu.RUnlock()
	b, err := p.c.Get(util.StorageKey(cache, key))
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (p *Provider) Put(_ context.Context, cache, key string, value []byte) error {
	if err := p.acquire(); err != nil {
		return err
	}
	defer p.mu.RUnlock()
	l := p.stripe(cache, key)
	l.Lock()
	defer l.Unlock()
	return p.set(cache, key, value)
}

// PutIfAbsent relies on bigcache's 64-bit key hash. Two distinct keys with the
// same hash look absent to each other, and the later write replaces the
// earlier entry.
func (p *Provider) PutIfAbsent(_ context.Context, cache, key string, value []byte) (bool, error) {
	if err := p.acquire(); err != nil {
		return false, err
	}
	defer p.mu.RUnlock()
	l := p.stripe(cache, key)
	l.Lock()
	defer l.Unlock()

	_, err := p.c.Get(util.StorageKey(cache, key))
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, bc.ErrEntryNotFound):
		return false, err
	}
	if err := p.set(cache, key, value); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Provider) set(cache, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if err := p.c.Set(util.StorageKey(cache, key), value); err != nil {
		// bigcache refuses entries larger than a shard
		return errors.Join(backend.ErrRejected, err)
	}
	return nil
}

func (p *Provider) Remove(_ context.Context, cache, key string) error {
	if err := p.acquire(); err != nil {
		return err
	}
	defer p.mu.RUnlock()
	l := p.stripe(cache, key)
	l.Lock()
	defer l.Unlock()
	if err := p.c.Delete(util.StorageKey(cache, key)); err != nil && !errors.Is(err, bc.ErrEntryNotFound) {
		return err
	}
	return nil
}

// scan calls fn for every entry of cache. Requires p.mu held. Entries
// overwritten while the iterator runs are skipped.
func (p *Provider) scan(cache string, fn func(key string, value []byte)) {
	it := p.c.Iterator()
	for it.SetNext() {
		e, err := it.Value()
		if err != nil {
			continue
		}
		c, k, ok := util.SplitStorageKey(e.Key())
		if !ok || c != cache {
			continue
		}
		fn(k, e.Value())
	}
}

func (p *Provider) Clear(_ context.Context, cache string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.down {
		return backend.ErrShutdown
	}
	if p.c == nil {
		return backend.ErrNotInitialised
	}
	var keys []string
	p.scan(cache, func(k string, _ []byte) { keys = append(keys, k) })
	for _, k := range keys {
		if err := p.c.Delete(util.StorageKey(cache, k)); err != nil && !errors.Is(err, bc.ErrEntryNotFound) {
			return err
		}
	}
	return nil
}

func (p *Provider) Size(_ context.Context, cache string) (int, error) {
	if err := p.acquire(); err != nil {
		return 0, err
	}
	defer p.mu.RUnlock()
	n := 0
	p.scan(cache, func(string, []byte) { n++ })
	return n, nil
}

func (p *Provider) Keys(_ context.Context, cache string) ([]string, error) {
	if err := p.acquire(); err != nil {
		return nil, err
	}
	defer p.mu.RUnlock()
	out := []string{}
	p.scan(cache, func(k string, _ []byte) { out = append(out, k) })
	return out, nil
}

func (p *Provider) Values(_ context.Context, cache string) ([][]byte, error) {
	if err := p.acquire(); err != nil {
		return nil, err
	}
	defer p.mu.RUnlock()
	out := [][]byte{}
	p.scan(cache, func(_ string, v []byte) { out = append(out, v) })
	return out, nil
}

func (p *Provider) Shutdown(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.down {
		return nil
	}
	p.down = true
	if p.c == nil {
		return nil
	}
	err := p.c.Close()
	p.c = nil
	return err
}
