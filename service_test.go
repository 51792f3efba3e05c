package graphcache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/unkn0wn-root/graphcache/backend"
	"github.com/unkn0wn-root/graphcache/backend/memory"
)

// faultyBackend wraps the memory backend and fails every call while err is set.
type faultyBackend struct {
	*memory.Memory
	err      error
	shutdown int
}

func newFaulty() *faultyBackend { return &faultyBackend{Memory: memory.New()} }

func (f *faultyBackend) Get(ctx context.Context, cache, key string) ([]byte, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	return f.Memory.Get(ctx, cache, key)
}

func (f *faultyBackend) Put(ctx context.Context, cache, key string, v []byte) error {
	if f.err != nil {
		return f.err
	}
	return f.Memory.Put(ctx, cache, key, v)
}

func (f *faultyBackend) Shutdown(ctx context.Context) error {
	f.shutdown++
	return f.Memory.Shutdown(ctx)
}

type countingHooks struct {
	mu          sync.Mutex
	conflicts   int
	rejected    int
	decode      int
	backend     int
	unavailable int
}

func (h *countingHooks) SafePutConflict(string, string) {
	h.mu.Lock()
	h.conflicts++
	h.mu.Unlock()
}
func (h *countingHooks) PutRejected(string, string, error) {
	h.mu.Lock()
	h.rejected++
	h.mu.Unlock()
}
func (h *countingHooks) DecodeFailed(string, string, error) {
	h.mu.Lock()
	h.decode++
	h.mu.Unlock()
}
func (h *countingHooks) BackendError(string, string, error) {
	h.mu.Lock()
	h.backend++
	h.mu.Unlock()
}
func (h *countingHooks) Unavailable(string) {
	h.mu.Lock()
	h.unavailable++
	h.mu.Unlock()
}

func newTestService(t *testing.T, b backend.Backend, h Hooks) *Service {
	t.Helper()
	svc, err := NewService(Options{Backend: b, Hooks: h})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestNewServiceRequiresBackend(t *testing.T) {
	if _, err := NewService(Options{}); err == nil {
		t.Fatalf("expected error without backend")
	}
}

func TestPutSafeKeepsOriginal(t *testing.T) {
	ctx := context.Background()
	h := &countingHooks{}
	svc := newTestService(t, memory.New(), h)

	if err := svc.PutSafe(ctx, "c", "k", []byte("v1")); err != nil {
		t.Fatalf("first PutSafe: %v", err)
	}
	err := svc.PutSafe(ctx, "c", "k", []byte("v2"))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("second PutSafe err=%v, want ErrConflict", err)
	}
	var opErr *CacheOperationError
	if !errors.As(err, &opErr) || opErr.Op != "put-safe" || opErr.Cache != "c" || opErr.Key != "k" {
		t.Fatalf("unexpected error shape: %#v", err)
	}
	got, ok, err := svc.Get(ctx, "c", "k")
	if err != nil || !ok || string(got) != "v1" {
		t.Fatalf("Get=%q ok=%v err=%v, want v1", got, ok, err)
	}
	if h.conflicts != 1 {
		t.Fatalf("conflict hook fired %d times", h.conflicts)
	}
}

func TestPutOverwrites(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.New(), nil)

	_ = svc.Put(ctx, "c", "k", []byte("v1"))
	if err := svc.Put(ctx, "c", "k", []byte("v2")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, _, _ := svc.Get(ctx, "c", "k")
	if string(got) != "v2" {
		t.Fatalf("Get=%q, want v2", got)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.New(), nil)

	_ = svc.Put(ctx, "c", "other", []byte("x"))
	if err := svc.Remove(ctx, "c", "missing"); err != nil {
		t.Fatalf("Remove absent: %v", err)
	}
	if n, _ := svc.Size(ctx, "c"); n != 1 {
		t.Fatalf("Size=%d, want 1", n)
	}
}

func TestCachesAreIsolated(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.New(), nil)

	_ = svc.Put(ctx, "a", "k", []byte("a"))
	_ = svc.Put(ctx, "b", "k", []byte("b"))
	if err := svc.Clear(ctx, "a"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n, _ := svc.Size(ctx, "a"); n != 0 {
		t.Fatalf("Size(a)=%d after clear", n)
	}
	got, ok, _ := svc.Get(ctx, "b", "k")
	if !ok || string(got) != "b" {
		t.Fatalf("cache b affected by clearing a: %q %v", got, ok)
	}
	keys, _ := svc.Keys(ctx, "b")
	vals, _ := svc.Values(ctx, "b")
	if len(keys) != 1 || keys[0] != "k" || len(vals) != 1 || string(vals[0]) != "b" {
		t.Fatalf("Keys=%v Values=%q", keys, vals)
	}
}

func TestInvalidCacheNameRejected(t *testing.T) {
	svc := newTestService(t, memory.New(), nil)
	for _, name := range []string{"", "a\x1fb"} {
		if err := svc.Put(context.Background(), name, "k", nil); !errors.Is(err, ErrInvalidCacheName) {
			t.Fatalf("Put(%q) err=%v, want ErrInvalidCacheName", name, err)
		}
	}
}

func TestShutdownFailsFast(t *testing.T) {
	ctx := context.Background()
	h := &countingHooks{}
	b := newFaulty()
	svc := newTestService(t, b, h)

	if err := svc.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := svc.Shutdown(ctx); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
	if b.shutdown != 1 {
		t.Fatalf("backend shut down %d times", b.shutdown)
	}
	if svc.Available() {
		t.Fatalf("service still available")
	}
	if _, err := svc.Service(); !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("Service() err=%v", err)
	}

	checks := map[string]error{
		"put":    svc.Put(ctx, "c", "k", nil),
		"remove": svc.Remove(ctx, "c", "k"),
		"clear":  svc.Clear(ctx, "c"),
	}
	_, _, checks["get"] = svc.Get(ctx, "c", "k")
	_, checks["size"] = svc.Size(ctx, "c")
	for op, err := range checks {
		if !errors.Is(err, ErrServiceUnavailable) {
			t.Fatalf("%s after shutdown err=%v", op, err)
		}
	}
	if h.unavailable != len(checks) {
		t.Fatalf("unavailable hook fired %d times, want %d", h.unavailable, len(checks))
	}
}

func TestBackendErrorsWrapped(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	h := &countingHooks{}
	b := newFaulty()
	svc := newTestService(t, b, h)

	b.err = boom
	_, _, err := svc.Get(ctx, "c", "k")
	var opErr *CacheOperationError
	if !errors.As(err, &opErr) || !errors.Is(err, boom) || opErr.Op != "get" {
		t.Fatalf("Get err=%v", err)
	}
	if h.backend != 1 {
		t.Fatalf("backend hook fired %d times", h.backend)
	}

	b.err = backend.ErrRejected
	if err := svc.Put(ctx, "c", "k", nil); !errors.Is(err, backend.ErrRejected) {
		t.Fatalf("Put err=%v", err)
	}
	if h.rejected != 1 {
		t.Fatalf("rejected hook fired %d times", h.rejected)
	}

	b.err = backend.ErrShutdown
	if err := svc.Put(ctx, "c", "k", nil); !errors.Is(err, ErrServiceUnavailable) || !errors.Is(err, backend.ErrShutdown) {
		t.Fatalf("Put err=%v", err)
	}
}

func TestServiceDefaultsToNopLogger(t *testing.T) {
	svc := newTestService(t, memory.New(), nil)
	if _, ok := svc.log.(NopLogger); !ok {
		t.Fatalf("log=%T, want NopLogger", svc.log)
	}
	if _, ok := svc.hooks.(NopHooks); !ok {
		t.Fatalf("hooks=%T, want NopHooks", svc.hooks)
	}
}
