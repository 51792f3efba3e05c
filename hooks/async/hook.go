// Package asynchook runs graphcache.Hooks off the caller's goroutine.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{ConflictEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	svc, _ := graphcache.NewService(graphcache.Options{Backend: b, Hooks: hooks})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/graphcache"
)

// Hooks queues every event for a worker pool. Events are dropped when the
// queue is full, and after Close.
type Hooks struct {
	inner   graphcache.Hooks
	q       chan func()
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ graphcache.Hooks = (*Hooks)(nil)

func New(inner graphcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}
	if inner == nil {
		inner = graphcache.NopHooks{}
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains the queue and stops the workers. Safe to call more than once.
func (h *Hooks) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	close(h.q)
	h.mu.Unlock()
	h.wg.Wait()
}

// Dropped counts events lost to a full queue or a closed hook.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) SafePutConflict(cache, key string) {
	h.try(func() { h.inner.SafePutConflict(cache, key) })
}
func (h *Hooks) PutRejected(cache, key string, err error) {
	h.try(func() { h.inner.PutRejected(cache, key, err) })
}
func (h *Hooks) DecodeFailed(cache, key string, err error) {
	h.try(func() { h.inner.DecodeFailed(cache, key, err) })
}
func (h *Hooks) BackendError(op, cache string, err error) {
	h.try(func() { h.inner.BackendError(op, cache, err) })
}
func (h *Hooks) Unavailable(op string) { h.try(func() { h.inner.Unavailable(op) }) }
