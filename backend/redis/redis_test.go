package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/graphcache/backend"
	"github.com/unkn0wn-root/graphcache/backend/backendtest"
)

// GRAPHCACHE_TEST_REDIS=localhost:6379 enables the tests that need a server.
func testAddr(t *testing.T) string {
	t.Helper()
	addr := os.Getenv("GRAPHCACHE_TEST_REDIS")
	if addr == "" {
		t.Skip("GRAPHCACHE_TEST_REDIS not set")
	}
	return addr
}

func TestContract(t *testing.T) {
	addr := testAddr(t)
	n := 0
	backendtest.Run(t, func(t *testing.T) backend.Backend {
		n++
		prefix := fmt.Sprintf("graphcache-test:%d:%d:", time.Now().UnixNano(), n)
		r := &Redis{}
		err := r.Initialise(context.Background(), map[string]string{
			PropAddrs:  addr,
			PropPrefix: prefix,
		})
		if err != nil {
			t.Fatalf("Initialise: %v", err)
		}
		t.Cleanup(func() {
			rdb := goredis.NewClient(&goredis.Options{Addr: addr})
			defer rdb.Close()
			ctx := context.Background()
			keys, _ := rdb.Keys(ctx, prefix+"*").Result()
			if len(keys) > 0 {
				rdb.Del(ctx, keys...)
			}
		})
		return r
	})
}

func TestNewRequiresClient(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrNilClient) {
		t.Fatalf("want ErrNilClient, got %v", err)
	}
}

func TestUninitialisedAndShutdown(t *testing.T) {
	ctx := context.Background()
	r := &Redis{}
	if _, _, err := r.Get(ctx, "c", "k"); !errors.Is(err, backend.ErrNotInitialised) {
		t.Fatalf("want ErrNotInitialised, got %v", err)
	}

	// client is never dialled: Shutdown must not close a borrowed client
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()
	b, err := New(Config{Client: rdb, Prefix: "p:"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if b.hash("graphs") != "p:graphs" {
		t.Fatalf("hash = %q", b.hash("graphs"))
	}
	if err := b.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := b.Put(ctx, "c", "k", nil); !errors.Is(err, backend.ErrShutdown) {
		t.Fatalf("want ErrShutdown, got %v", err)
	}
	if err := rdb.Close(); err != nil {
		t.Fatalf("borrowed client was closed by Shutdown: %v", err)
	}
}

func TestInitialiseUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	r := &Redis{}
	if err := r.Initialise(ctx, map[string]string{PropAddrs: "127.0.0.1:1"}); err == nil {
		t.Fatalf("expected dial error")
	}
}
