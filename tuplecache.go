package graphcache

import (
	"context"
	"errors"

	"github.com/unkn0wn-root/graphcache/codec"
	"github.com/unkn0wn-root/graphcache/internal/util"
	"github.com/unkn0wn-root/graphcache/internal/wire"
)

// TupleOptions configure a TupleCache. Name and Services are required.
type TupleOptions[K comparable, V any] struct {
	// Name is the logical cache this facade owns, e.g. "federatedStoreGraphs".
	Name     string
	Services Resolver

	Keys  KeyCodec[K]         // nil => StringKeys (K must be string)
	Codec codec.Serialiser[V] // nil => codec.JSON[V]

	// OwnerKey derives the key for an owner ID. It must be deterministic.
	// nil => the owner ID itself (K must be string).
	OwnerKey func(ownerID string) K
}

// TupleCache is a typed view of one named cache. It keeps no entries; every
// call resolves the current Service and delegates to it.
//
// Methods without a cache argument act on Name. The *In / *From / *Of variants
// address any cache through the same key and value codecs.
type TupleCache[K comparable, V any] struct {
	name     string
	services Resolver
	keys     KeyCodec[K]
	codec    codec.Serialiser[V]
	ownerKey func(string) K
}

func NewTupleCache[K comparable, V any](opts TupleOptions[K, V]) (*TupleCache[K, V], error) {
	if !util.ValidCacheName(opts.Name) {
		return nil, ErrInvalidCacheName
	}
	if opts.Services == nil {
		return nil, errors.New("graphcache: services resolver is required")
	}
	c := &TupleCache[K, V]{
		name:     opts.Name,
		services: opts.Services,
		keys:     opts.Keys,
		codec:    opts.Codec,
		ownerKey: opts.OwnerKey,
	}
	if c.keys == nil {
		kc, ok := any(StringKeys{}).(KeyCodec[K])
		if !ok {
			return nil, errors.New("graphcache: Keys is required for non-string keys")
		}
		c.keys = kc
	}
	if c.codec == nil {
		c.codec = codec.JSON[V]{}
	}
	if c.ownerKey == nil {
		if _, ok := any("").(K); !ok {
			return nil, errors.New("graphcache: OwnerKey is required for non-string keys")
		}
		c.ownerKey = func(id string) K { return any(id).(K) }
	}
	return c, nil
}

func (c *TupleCache[K, V]) CacheName() string { return c.name }

// OwnerKey returns the key entries of ownerID are stored under.
func (c *TupleCache[K, V]) OwnerKey(ownerID string) K { return c.ownerKey(ownerID) }

// PutOwner upserts value under the key derived from ownerID.
func (c *TupleCache[K, V]) PutOwner(ctx context.Context, ownerID string, value V) error {
	return c.PutIn(ctx, c.name, c.ownerKey(ownerID), value)
}

// PutSafeOwner inserts value under the key derived from ownerID, failing with
// ErrConflict if the owner already has an entry.
func (c *TupleCache[K, V]) PutSafeOwner(ctx context.Context, ownerID string, value V) error {
	return c.PutSafeIn(ctx, c.name, c.ownerKey(ownerID), value)
}

func (c *TupleCache[K, V]) Put(ctx context.Context, key K, value V) error {
	return c.PutIn(ctx, c.name, key, value)
}

func (c *TupleCache[K, V]) PutSafe(ctx context.Context, key K, value V) error {
	return c.PutSafeIn(ctx, c.name, key, value)
}

func (c *TupleCache[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	return c.GetFrom(ctx, c.name, key)
}

func (c *TupleCache[K, V]) Keys(ctx context.Context) ([]K, error) { return c.KeysOf(ctx, c.name) }

func (c *TupleCache[K, V]) Values(ctx context.Context) ([]V, error) { return c.ValuesOf(ctx, c.name) }

func (c *TupleCache[K, V]) Remove(ctx context.Context, key K) error {
	return c.RemoveFrom(ctx, c.name, key)
}

func (c *TupleCache[K, V]) Clear(ctx context.Context) error { return c.ClearCache(ctx, c.name) }

func (c *TupleCache[K, V]) Size(ctx context.Context) (int, error) { return c.SizeOf(ctx, c.name) }

func (c *TupleCache[K, V]) PutIn(ctx context.Context, cache string, key K, value V) error {
	svc, k, raw, err := c.prepare("put", cache, key, value)
	if err != nil {
		return err
	}
	return svc.Put(ctx, cache, k, raw)
}

func (c *TupleCache[K, V]) PutSafeIn(ctx context.Context, cache string, key K, value V) error {
	svc, k, raw, err := c.prepare("put-safe", cache, key, value)
	if err != nil {
		return err
	}
	return svc.PutSafe(ctx, cache, k, raw)
}

func (c *TupleCache[K, V]) GetFrom(ctx context.Context, cache string, key K) (V, bool, error) {
	var zero V
	svc, err := c.service("get", cache)
	if err != nil {
		return zero, false, err
	}
	k, err := c.encodeKey("get", cache, key)
	if err != nil {
		return zero, false, err
	}
	raw, ok, err := svc.Get(ctx, cache, k)
	if err != nil || !ok {
		return zero, false, err
	}
	v, err := c.decode(svc, cache, k, raw)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// KeysOf returns the keys of cache in no particular order.
func (c *TupleCache[K, V]) KeysOf(ctx context.Context, cache string) ([]K, error) {
	svc, err := c.service("keys", cache)
	if err != nil {
		return nil, err
	}
	raw, err := svc.Keys(ctx, cache)
	if err != nil {
		return nil, err
	}
	out := make([]K, 0, len(raw))
	for _, s := range raw {
		k, err := c.keys.DecodeKey(s)
		if err != nil {
			return nil, svc.decodeFailed(cache, s, err)
		}
		out = append(out, k)
	}
	return out, nil
}

// ValuesOf returns every value of cache in no particular order.
func (c *TupleCache[K, V]) ValuesOf(ctx context.Context, cache string) ([]V, error) {
	svc, err := c.service("values", cache)
	if err != nil {
		return nil, err
	}
	raw, err := svc.Values(ctx, cache)
	if err != nil {
		return nil, err
	}
	out := make([]V, 0, len(raw))
	for _, b := range raw {
		v, err := c.decode(svc, cache, "", b)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *TupleCache[K, V]) RemoveFrom(ctx context.Context, cache string, key K) error {
	svc, err := c.service("remove", cache)
	if err != nil {
		return err
	}
	k, err := c.encodeKey("remove", cache, key)
	if err != nil {
		return err
	}
	return svc.Remove(ctx, cache, k)
}

func (c *TupleCache[K, V]) ClearCache(ctx context.Context, cache string) error {
	svc, err := c.service("clear", cache)
	if err != nil {
		return err
	}
	return svc.Clear(ctx, cache)
}

func (c *TupleCache[K, V]) SizeOf(ctx context.Context, cache string) (int, error) {
	svc, err := c.service("size", cache)
	if err != nil {
		return 0, err
	}
	return svc.Size(ctx, cache)
}

// Initialise passes props through to the backend.
func (c *TupleCache[K, V]) Initialise(ctx context.Context, props map[string]string) error {
	svc, err := c.service("initialise", c.name)
	if err != nil {
		return err
	}
	return svc.Initialise(ctx, props)
}

// Shutdown releases the backend shared by every facade on the same service.
func (c *TupleCache[K, V]) Shutdown(ctx context.Context) error {
	svc, err := c.service("shutdown", c.name)
	if err != nil {
		return err
	}
	return svc.Shutdown(ctx)
}

func (c *TupleCache[K, V]) service(op, cache string) (*Service, error) {
	svc, err := c.services.Service()
	if err != nil {
		return nil, &CacheOperationError{Op: op, Cache: cache, Err: err}
	}
	return svc, nil
}

func (c *TupleCache[K, V]) encodeKey(op, cache string, key K) (string, error) {
	k, err := c.keys.EncodeKey(key)
	if err != nil {
		return "", &CacheOperationError{Op: op, Cache: cache, Err: err}
	}
	return k, nil
}

func (c *TupleCache[K, V]) prepare(op, cache string, key K, value V) (*Service, string, []byte, error) {
	svc, err := c.service(op, cache)
	if err != nil {
		return nil, "", nil, err
	}
	k, err := c.encodeKey(op, cache, key)
	if err != nil {
		return nil, "", nil, err
	}
	payload, err := c.codec.Encode(value)
	if err != nil {
		return nil, "", nil, &CacheOperationError{Op: op, Cache: cache, Key: k, Err: err}
	}
	return svc, k, wire.EncodeEntry(payload), nil
}

func (c *TupleCache[K, V]) decode(svc *Service, cache, key string, raw []byte) (V, error) {
	var zero V
	payload, err := wire.DecodeEntry(raw)
	if err != nil {
		return zero, svc.decodeFailed(cache, key, &codec.SerialisationError{Codec: "wire", Err: err})
	}
	v, err := c.codec.Decode(payload)
	if err != nil {
		return zero, svc.decodeFailed(cache, key, err)
	}
	return v, nil
}
