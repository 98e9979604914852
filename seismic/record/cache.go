package record

import (
	"crypto/sha256"
	"sync"

	"github.com/golang/groupcache/lru"
)

// Fingerprint identifies raw input bytes.
type Fingerprint [sha256.Size]byte

// FingerprintOf hashes raw input bytes.
func FingerprintOf(raw []byte) Fingerprint { return sha256.Sum256(raw) }

type cacheKey struct {
	kind string
	fp   Fingerprint
}

// Cache memoizes parsed records by content fingerprint, so repeated runs
// over the same files skip parsing. It is safe for concurrent use and owned
// by the caller; nothing is shared between caches.
type Cache struct {
	mu  sync.Mutex
	lru *lru.Cache

	hits, misses int
}

// NewCache returns a cache holding at most maxEntries parsed inputs
// (0 means unbounded).
func NewCache(maxEntries int) *Cache {
	return &Cache{lru: lru.New(maxEntries)}
}

// Accelerogram returns the cached record for raw, calling parse on a miss.
// Parse errors are not cached.
func (c *Cache) Accelerogram(raw []byte, parse func([]byte) (Accelerogram, error)) (Accelerogram, error) {
	v, err := c.get("accel", raw, func(b []byte) (any, error) { return parse(b) })
	if err != nil {
		return Accelerogram{}, err
	}

	return v.(Accelerogram), nil
}

// Target returns the cached target spectrum for raw, calling parse on a miss.
func (c *Cache) Target(raw []byte, parse func([]byte) (Target, error)) (Target, error) {
	v, err := c.get("target", raw, func(b []byte) (any, error) { return parse(b) })
	if err != nil {
		return Target{}, err
	}

	return v.(Target), nil
}

func (c *Cache) get(kind string, raw []byte, parse func([]byte) (any, error)) (any, error) {
	key := cacheKey{kind: kind, fp: FingerprintOf(raw)}

	c.mu.Lock()
	if v, ok := c.lru.Get(key); ok {
		c.hits++
		c.mu.Unlock()

		return v, nil
	}
	c.misses++
	c.mu.Unlock()

	v, err := parse(raw)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.lru.Add(key, v)
	c.mu.Unlock()

	return v, nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Len()
}

// Stats returns the hit and miss counts since creation or the last Clear.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hits, c.misses
}

// Clear drops every entry and resets the counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Clear()
	c.hits, c.misses = 0, 0
}
