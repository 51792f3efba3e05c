package util

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// sep cannot appear in a cache name accepted by ValidCacheName.
const sep = "\x1f"

// StorageKey composes the flat backend key for (cache, key).
func StorageKey(cache, key string) string {
	return cache + sep + key
}

// CachePrefix is the prefix shared by every StorageKey of cache.
func CachePrefix(cache string) string {
	return cache + sep
}

// SplitStorageKey reverses StorageKey. ok is false for keys that were not
// composed by StorageKey.
func SplitStorageKey(storageKey string) (cache, key string, ok bool) {
	return strings.Cut(storageKey, sep)
}

// ValidCacheName reports whether name can be used as a cache namespace.
func ValidCacheName(name string) bool {
	return name != "" && !strings.Contains(name, sep)
}

// Stripe maps (cache, key) to one of n lock stripes. Deterministic across
// processes.
func Stripe(cache, key string, n int) int {
	if n <= 1 {
		return 0
	}
	return int(xxhash.Sum64String(StorageKey(cache, key)) % uint64(n))
}
