package cache

import "time"

// Cache is a small key-value cache with per-entry TTL.
type Cache[K comparable, V any] interface {
	// Get returns the value and whether it was present and not expired.
	Get(key K) (V, bool)

	// Set stores the value. A ttl <= 0 falls back to the cache default;
	// if that is also <= 0 the entry never expires.
	Set(key K, value V, ttl time.Duration)

	// GetOrLoad returns the cached value or calls load and caches its result.
	// Errors from load are returned as-is and nothing is cached.
	GetOrLoad(key K, load func() (V, error)) (V, error)

	Delete(key K)
	Len() int
	Clear()

	// PurgeExpired removes expired entries and returns how many were dropped.
	PurgeExpired() int
}
