package bigcache

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/cespare/xxhash/v2"

	"github.com/unkn0wn-root/graphcache/backend"
	"github.com/unkn0wn-root/graphcache/backend/backendtest"
	"github.com/unkn0wn-root/graphcache/internal/util"
)

func newTestProvider(t *testing.T) backend.Backend {
	t.Helper()
	p, err := New(Config{Shards: 16})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestContract(t *testing.T) {
	backendtest.Run(t, newTestProvider)
}

func TestInitialiseFromProps(t *testing.T) {
	ctx := context.Background()
	p := &Provider{}
	t.Cleanup(func() { _ = p.Shutdown(ctx) })

	if err := p.Put(ctx, "c", "k", []byte("v")); !errors.Is(err, backend.ErrNotInitialised) {
		t.Fatalf("Put before Initialise: want ErrNotInitialised, got %v", err)
	}

	err := p.Initialise(ctx, map[string]string{
		PropShards:       "8",
		PropLifeWindow:   "1h",
		PropMaxEntrySize: "64",
	})
	if err != nil {
		t.Fatalf("Initialise: %v", err)
	}
	if err := p.Put(ctx, "c", "k", []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := p.Get(ctx, "c", "k")
	if err != nil || !ok || !bytes.Equal(got, []byte("v")) {
		t.Fatalf("Get: ok=%v err=%v got=%q", ok, err, got)
	}
}

func TestInitialiseRejectsBadConfig(t *testing.T) {
	p := &Provider{}
	if err := p.Initialise(context.Background(), map[string]string{PropShards: "three"}); err == nil {
		t.Fatalf("expected parse error")
	}
	// bigcache requires a power-of-two shard count
	if err := p.Initialise(context.Background(), map[string]string{PropShards: "3"}); err == nil {
		t.Fatalf("expected bigcache config error")
	}
}

func TestOversizedEntryRejected(t *testing.T) {
	ctx := context.Background()
	p, err := New(Config{Shards: 1, HardMaxCacheSizeMB: 1, MaxEntrySize: 16, MaxEntriesInWindow: 16})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(ctx) })

	big := bytes.Repeat([]byte("x"), 2<<20)
	if err := p.Put(ctx, "c", "k", big); !errors.Is(err, backend.ErrRejected) {
		t.Fatalf("want ErrRejected, got %v", err)
	}
}

func TestHasherMatchesStripes(t *testing.T) {
	key := util.StorageKey("graphs", "g1")
	if got, want := (xxHasher{}).Sum64(key), xxhash.Sum64String(key); got != want {
		t.Fatalf("Sum64=%d, want %d", got, want)
	}
	if (xxHasher{}).Sum64(util.StorageKey("a", "k")) == (xxHasher{}).Sum64(util.StorageKey("b", "k")) {
		t.Fatalf("same key in different caches hashed equal")
	}
}
