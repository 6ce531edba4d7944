// Package cache implements the in-memory response cache the client core
// consults for read requests. Expiry is purely time-based; there is no size
// bound because the working set is a handful of list endpoints.
package cache

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTTL is the entry lifetime used when none is configured.
const DefaultTTL = 5 * time.Minute

// Key identifies one cached response. Entity is the domain tag mutations
// invalidate by ("gastos", "usuarios", ...); the remaining fields pin the
// exact request.
type Key struct {
	Entity string
	Method string
	Path   string
	Body   string
}

// String renders the key for logs.
func (k Key) String() string {
	return fmt.Sprintf("%s %s %s#%s", k.Entity, k.Method, k.Path, k.Body)
}

type entry struct {
	payload   []byte
	timestamp time.Time
}

// Cache is a TTL map from request keys to raw response payloads.
// Safe for concurrent use.
type Cache struct {
	mu        sync.Mutex
	ttl       time.Duration
	entries   map[Key]entry
	now       func() time.Time
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a cache with the given TTL (DefaultTTL when zero or negative).
// The periodic sweep is not started; call StartSweep for that.
func New(ttl time.Duration) *Cache {
	return NewWithClock(ttl, time.Now)
}

// NewWithClock creates a cache with an injected clock. Tests use this to
// advance time without sleeping.
func NewWithClock(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[Key]entry),
		now:     now,
		done:    make(chan struct{}),
	}
}

// Get returns the cached payload for key. An entry older than the TTL is
// removed and reported as a miss.
func (c *Cache) Get(key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.timestamp) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.payload, true
}

// Set stores payload under key with the current timestamp, overwriting any
// existing entry.
func (c *Cache) Set(key Key, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{payload: payload, timestamp: c.now()}
}

// Delete removes the exact key.
func (c *Cache) Delete(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Invalidate removes every entry tagged with the given entity. Matching is
// by exact tag, so "cuota" never clips "cuotas-config".
func (c *Cache) Invalidate(entity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.Entity == entity {
			delete(c.entries, k)
		}
	}
}

// Sweep removes all expired entries.
func (c *Cache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.timestamp) >= c.ttl {
			delete(c.entries, k)
		}
	}
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// StartSweep launches the background sweep, one pass per TTL interval,
// until Close is called.
func (c *Cache) StartSweep() {
	go func() {
		ticker := time.NewTicker(c.ttl)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Sweep()
			case <-c.done:
				return
			}
		}
	}()
}

// Close stops the background sweep. Idempotent.
func (c *Cache) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}
