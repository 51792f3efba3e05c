package redis

import (
	"context"
	"errors"
	"strings"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/graphcache/backend"
)

// Name is the registry name of this backend.
const Name = "redis"

const (
	PropAddrs    = "cache.redis.addrs" // comma separated host:port list
	PropUsername = "cache.redis.username"
	PropPassword = "cache.redis.password"
	PropDB       = "cache.redis.db"
	PropPrefix   = "cache.redis.prefix"
)

const defaultPrefix = "graphcache:"

var ErrNilClient = errors.New("redis backend: nil client")

func init() {
	backend.Register(Name, func() backend.Backend { return &Redis{} })
}

// Redis stores each cache as one hash named <prefix><cache>. HSETNX gives
// PutIfAbsent its atomicity.
type Redis struct {
	mu          sync.RWMutex
	rdb         goredis.UniversalClient
	prefix      string
	closeClient bool
	down        bool
}

var _ backend.Backend = (*Redis)(nil)

type Config struct {
	Client      goredis.UniversalClient
	Prefix      string // "" => "graphcache:"
	CloseClient bool   // set true only if this backend exclusively owns the client
}

// New wraps an existing client. Initialise is then a no-op.
func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Redis{rdb: cfg.Client, prefix: prefix, closeClient: cfg.CloseClient}, nil
}

// Initialise dials redis from props unless a client was supplied to New.
func (r *Redis) Initialise(ctx context.Context, props map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rdb != nil {
		return nil
	}
	db, err := backend.Int(props, PropDB, 0)
	if err != nil {
		return err
	}
	var addrs []string
	for _, a := range strings.Split(backend.String(props, PropAddrs, "localhost:6379"), ",") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	rdb := goredis.NewUniversalClient(&goredis.UniversalOptions{
		Addrs:    addrs,
		Username: backend.String(props, PropUsername, ""),
		Password: backend.String(props, PropPassword, ""),
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return err
	}
	r.rdb = rdb
	r.prefix = backend.String(props, PropPrefix, defaultPrefix)
	r.closeClient = true
	r.down = false
	return nil
}

func (r *Redis) client() (goredis.UniversalClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.down {
		return nil, backend.ErrShutdown
	}
	if r.rdb == nil {
		return nil, backend.ErrNotInitialised
	}
	return r.rdb, nil
}

func (r *Redis) hash(cache string) string { return r.prefix + cache }

func (r *Redis) Get(ctx context.Context, cache, key string) ([]byte, bool, error) {
	rdb, err := r.client()
	if err != nil {
		return nil, false, err
	}
	b, err := rdb.HGet(ctx, r.hash(cache), key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (r *Redis) Put(ctx context.Context, cache, key string, value []byte) error {
	rdb, err := r.client()
	if err != nil {
		return err
	}
	return rdb.HSet(ctx, r.hash(cache), key, value).Err()
}

func (r *Redis) PutIfAbsent(ctx context.Context, cache, key string, value []byte) (bool, error) {
	rdb, err := r.client()
	if err != nil {
		return false, err
	}
	return rdb.HSetNX(ctx, r.hash(cache), key, value).Result()
}

func (r *Redis) Remove(ctx context.Context, cache, key string) error {
	rdb, err := r.client()
	if err != nil {
		return err
	}
	return rdb.HDel(ctx, r.hash(cache), key).Err()
}

func (r *Redis) Clear(ctx context.Context, cache string) error {
	rdb, err := r.client()
	if err != nil {
		return err
	}
	return rdb.Del(ctx, r.hash(cache)).Err()
}

func (r *Redis) Size(ctx context.Context, cache string) (int, error) {
	rdb, err := r.client()
	if err != nil {
		return 0, err
	}
	n, err := rdb.HLen(ctx, r.hash(cache)).Result()
	return int(n), err
}

func (r *Redis) Keys(ctx context.Context, cache string) ([]string, error) {
	rdb, err := r.client()
	if err != nil {
		return nil, err
	}
	return rdb.HKeys(ctx, r.hash(cache)).Result()
}

func (r *Redis) Values(ctx context.Context, cache string) ([][]byte, error) {
	rdb, err := r.client()
	if err != nil {
		return nil, err
	}
	vals, err := rdb.HVals(ctx, r.hash(cache)).Result()
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(vals))
	for i, v := range vals {
		out[i] = []byte(v)
	}
	return out, nil
}

// Shutdown releases the underlying redis client only when this backend owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (r *Redis) Shutdown(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		return nil
	}
	r.down = true
	if r.closeClient && r.rdb != nil {
		if err := r.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
