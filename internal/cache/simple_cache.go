package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiration
}

func (e entry[V]) expired(at time.Time) bool {
	return !e.expiresAt.IsZero() && at.After(e.expiresAt)
}

// SimpleCache is a map-backed Cache. Expired entries are skipped on read and
// dropped by PurgeExpired; there is no background janitor.
type SimpleCache[K comparable, V any] struct {
	// nil when the cache was built without ConcurrencySafe
	mu *sync.RWMutex

	defaultTTL time.Duration
	items      map[K]entry[V]
}

// Options controls construction of a SimpleCache.
type Options struct {
	ConcurrencySafe bool
	DefaultTTL      time.Duration
}

// NewSimpleCache constructs a new SimpleCache with the given options.
func NewSimpleCache[K comparable, V any](opts Options) *SimpleCache[K, V] {
	c := &SimpleCache[K, V]{
		defaultTTL: opts.DefaultTTL,
		items:      make(map[K]entry[V]),
	}
	if opts.ConcurrencySafe {
		c.mu = &sync.RWMutex{}
	}
	return c
}

func (c *SimpleCache[K, V]) lockR() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.RLock()
	return c.mu.RUnlock
}

func (c *SimpleCache[K, V]) lockW() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.Lock()
	return c.mu.Unlock
}

// now is swapped out by tests.
var now = time.Now

func (c *SimpleCache[K, V]) Get(key K) (V, bool) {
	unlock := c.lockR()
	defer unlock()

	var zero V
	e, ok := c.items[key]
	if !ok || e.expired(now()) {
		return zero, false
	}
	return e.value, true
}

func (c *SimpleCache[K, V]) Set(key K, value V, ttl time.Duration) {
	unlock := c.lockW()
	defer unlock()
	c.set(key, value, ttl)
}

func (c *SimpleCache[K, V]) set(key K, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	var exp time.Time
	if ttl > 0 {
		exp = now().Add(ttl)
	}
	c.items[key] = entry[V]{value: value, expiresAt: exp}
}

func (c *SimpleCache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	unlock := c.lockW()
	defer unlock()
	c.set(key, v, 0)
	return v, nil
}

func (c *SimpleCache[K, V]) Delete(key K) {
	unlock := c.lockW()
	defer unlock()
	delete(c.items, key)
}

// Len counts only non-expired entries.
func (c *SimpleCache[K, V]) Len() int {
	unlock := c.lockR()
	defer unlock()
	at := now()
	count := 0
	for _, e := range c.items {
		if !e.expired(at) {
			count++
		}
	}
	return count
}

func (c *SimpleCache[K, V]) Clear() {
	unlock := c.lockW()
	defer unlock()
	c.items = make(map[K]entry[V])
}

func (c *SimpleCache[K, V]) PurgeExpired() int {
	unlock := c.lockW()
	defer unlock()
	at := now()
	dropped := 0
	for k, e := range c.items {
		if e.expired(at) {
			delete(c.items, k)
			dropped++
		}
	}
	return dropped
}

var _ Cache[string, int] = (*SimpleCache[string, int])(nil)
