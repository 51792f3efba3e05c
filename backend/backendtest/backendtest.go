// Package backendtest runs the backend.Backend contract against an implementation.
package backendtest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/graphcache/backend"
)

// Run exercises every contract rule. newBackend must return an initialised,
// empty backend; Run shuts it down when each subtest ends.
func Run(t *testing.T, newBackend func(t *testing.T) backend.Backend) {
	t.Helper()

	fresh := func(t *testing.T) backend.Backend {
		b := newBackend(t)
		t.Cleanup(func() { _ = b.Shutdown(context.Background()) })
		return b
	}

	t.Run("PutGet", func(t *testing.T) {
		ctx := context.Background()
		b := fresh(t)

		_, ok, err := b.Get(ctx, "c", "k")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, b.Put(ctx, "c", "k", []byte("v1")))
		require.NoError(t, b.Put(ctx, "c", "k", []byte("v2")))
		got, ok, err := b.Get(ctx, "c", "k")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("v2"), got)
	})

	t.Run("EmptyValueIsStored", func(t *testing.T) {
		ctx := context.Background()
		b := fresh(t)

		require.NoError(t, b.Put(ctx, "c", "null", []byte{}))
		got, ok, err := b.Get(ctx, "c", "null")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Len(t, got, 0)
	})

	t.Run("NamespacesAreIsolated", func(t *testing.T) {
		ctx := context.Background()
		b := fresh(t)

		require.NoError(t, b.Put(ctx, "a", "k", []byte("in-a")))
		require.NoError(t, b.Put(ctx, "b", "k", []byte("in-b")))
		got, _, err := b.Get(ctx, "a", "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("in-a"), got)

		require.NoError(t, b.Clear(ctx, "a"))
		n, err := b.Size(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		n, err = b.Size(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("PutIfAbsentKeepsOriginal", func(t *testing.T) {
		ctx := context.Background()
		b := fresh(t)

		stored, err := b.PutIfAbsent(ctx, "c", "k", []byte("first"))
		require.NoError(t, err)
		assert.True(t, stored)

		stored, err = b.PutIfAbsent(ctx, "c", "k", []byte("second"))
		require.NoError(t, err)
		assert.False(t, stored)

		got, _, err := b.Get(ctx, "c", "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("first"), got)
	})

	t.Run("PutIfAbsentSingleWinner", func(t *testing.T) {
		ctx := context.Background()
		b := fresh(t)

		const racers = 32
		var wins atomic.Int32
		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := 0; i < racers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				stored, err := b.PutIfAbsent(ctx, "c", "owner", []byte(fmt.Sprintf("racer-%d", i)))
				if err == nil && stored {
					wins.Add(1)
				}
			}(i)
		}
		close(start)
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())

		n, err := b.Size(ctx, "c")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("RemoveIsIdempotent", func(t *testing.T) {
		ctx := context.Background()
		b := fresh(t)

		require.NoError(t, b.Put(ctx, "c", "k", []byte("v")))
		require.NoError(t, b.Remove(ctx, "c", "missing"))
		n, err := b.Size(ctx, "c")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		require.NoError(t, b.Remove(ctx, "c", "k"))
		require.NoError(t, b.Remove(ctx, "c", "k"))
		n, err = b.Size(ctx, "c")
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("KeysValuesSize", func(t *testing.T) {
		ctx := context.Background()
		b := fresh(t)

		want := map[string]string{"g1": "a", "g2": "b", "g3": "a"}
		for k, v := range want {
			require.NoError(t, b.Put(ctx, "c", k, []byte(v)))
		}
		require.NoError(t, b.Put(ctx, "other", "x", []byte("x")))

		keys, err := b.Keys(ctx, "c")
		require.NoError(t, err)
		sort.Strings(keys)
		assert.Equal(t, []string{"g1", "g2", "g3"}, keys)

		vals, err := b.Values(ctx, "c")
		require.NoError(t, err)
		strs := make([]string, 0, len(vals))
		for _, v := range vals {
			strs = append(strs, string(v))
		}
		sort.Strings(strs)
		assert.Equal(t, []string{"a", "a", "b"}, strs)

		n, err := b.Size(ctx, "c")
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		n, err = b.Size(ctx, "never-used")
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		keys, err = b.Keys(ctx, "never-used")
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("ShutdownMakesUnavailable", func(t *testing.T) {
		ctx := context.Background()
		b := newBackend(t)

		require.NoError(t, b.Put(ctx, "c", "k", []byte("v")))
		require.NoError(t, b.Shutdown(ctx))
		require.NoError(t, b.Shutdown(ctx))

		_, _, err := b.Get(ctx, "c", "k")
		assert.True(t, errors.Is(err, backend.ErrShutdown), "got %v", err)
		err = b.Put(ctx, "c", "k", []byte("v"))
		assert.True(t, errors.Is(err, backend.ErrShutdown), "got %v", err)
	})
}
