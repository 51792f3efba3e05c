// Package memory is an in-process backend. It is the default when no other
// backend is configured.
package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/unkn0wn-root/graphcache/backend"
)

// Name is the registry name of this backend.
const Name = "memory"

// PropMaxEntries caps entries per cache; 0 or unset means unlimited.
const PropMaxEntries = "cache.memory.max-entries"

func init() {
	backend.Register(Name, func() backend.Backend { return New() })
}

// Memory keeps one map per cache behind a single RWMutex, which also makes
// PutIfAbsent atomic.
type Memory struct {
	mu         sync.RWMutex
	caches     map[string]map[string][]byte
	maxEntries int
	down       bool
}

var _ backend.Backend = (*Memory)(nil)

// New returns a ready-to-use backend; Initialise is optional.
func New() *Memory {
	return &Memory{caches: make(map[string]map[string][]byte)}
}

func (m *Memory) Initialise(_ context.Context, props map[string]string) error {
	max, err := backend.Int(props, PropMaxEntries, 0)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.maxEntries = max
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, cache, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.down {
		return nil, false, backend.ErrShutdown
	}
	v, ok := m.caches[cache][key]
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(v), true, nil
}

func (m *Memory) Put(_ context.Context, cache, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return backend.ErrShutdown
	}
	return m.store(cache, key, value)
}

func (m *Memory) PutIfAbsent(_ context.Context, cache, key string, value []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return false, backend.ErrShutdown
	}
	if _, exists := m.caches[cache][key]; exists {
		return false, nil
	}
	if err := m.store(cache, key, value); err != nil {
		return false, err
	}
	return true, nil
}

// store requires m.mu held for writing.
func (m *Memory) store(cache, key string, value []byte) error {
	entries := m.caches[cache]
	if entries == nil {
		entries = make(map[string][]byte)
		m.caches[cache] = entries
	}
	if _, exists := entries[key]; !exists && m.maxEntries > 0 && len(entries) >= m.maxEntries {
		return backend.ErrRejected
	}
	if value == nil {
		value = []byte{}
	}
	entries[key] = bytes.Clone(value)
	return nil
}

func (m *Memory) Remove(_ context.Context, cache, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return backend.ErrShutdown
	}
	delete(m.caches[cache], key)
	return nil
}

func (m *Memory) Clear(_ context.Context, cache string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return backend.ErrShutdown
	}
	delete(m.caches, cache)
	return nil
}

func (m *Memory) Size(_ context.Context, cache string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.down {
		return 0, backend.ErrShutdown
	}
	return len(m.caches[cache]), nil
}

func (m *Memory) Keys(_ context.Context, cache string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.down {
		return nil, backend.ErrShutdown
	}
	out := make([]string, 0, len(m.caches[cache]))
	for k := range m.caches[cache] {
		out = append(out, k)
	}
	return out, nil
}

func (m *Memory) Values(_ context.Context, cache string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.down {
		return nil, backend.ErrShutdown
	}
	out := make([][]byte, 0, len(m.caches[cache]))
	for _, v := range m.caches[cache] {
		out = append(out, bytes.Clone(v))
	}
	return out, nil
}

func (m *Memory) Shutdown(_ context.Context) error {
	m.mu.Lock()
	m.down = true
	m.caches = nil
	m.mu.Unlock()
	return nil
}
