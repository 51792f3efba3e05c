// Package graphcache is a name-addressed cache facade for small derived
// artifacts (lookup tuples, metadata pairs) keyed by an owning entity such as
// a graph ID.
//
// Components:
//   - Backend: multi-namespace byte store (memory, bigcache, redis, ristretto
//     near cache). See package backend.
//   - Service: uniform contract over one Backend. Wraps every backend failure in
//     *CacheOperationError and fails fast once the backend is gone.
//   - Locator: holds the active Service for a process; initialised from store
//     properties and reset in test teardown.
//   - TupleCache[K, V]: typed facade bound to one cache name. Keys go through a
//     KeyCodec[K], values through a codec.Serialiser[V].
//
// Safe puts are atomic insert-if-absent in every backend:
//
//	err := graphs.PutSafeOwner(ctx, g.ID, graphcache.NewPair(g, access))
//	if errors.Is(err, graphcache.ErrConflict) {
//		// another caller registered g.ID first; its entry is unchanged
//	}
package graphcache
