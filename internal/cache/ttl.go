package cache

import (
	"sync"
	"time"
)

type entry struct {
	body     []byte
	storedAt time.Time
}

// TTL is a concurrency-safe in-memory response cache whose entries expire a
// fixed duration after they were stored.
type TTL struct {
	mu sync.RWMutex

	data map[string]entry

	ttl        time.Duration
	maxEntries int // 0 = unlimited
	now        func() time.Time
}

// NewTTL creates a cache. A ttl <= 0 disables caching: Get always misses.
// If maxEntries is <= 0, it is treated as unlimited.
func NewTTL(ttl time.Duration, maxEntries int) *TTL {
	return &TTL{
		data:       make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the cached body for key if it has not expired.
func (c *TTL) Get(key string) ([]byte, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	if !ok || c.expired(e) {
		return nil, false
	}
	return e.body, true
}

// Set stores body under key and enforces retention.
func (c *TTL) Set(key string, body []byte) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = entry{body: body, storedAt: c.now()}

	// Enforce retention by age.
	for k, e := range c.data {
		if c.expired(e) {
			delete(c.data, k)
		}
	}

	// Enforce retention by count, oldest first.
	for c.maxEntries > 0 && len(c.data) > c.maxEntries {
		var (
			oldestKey string
			oldest    time.Time
		)
		for k, e := range c.data {
			if oldestKey == "" || e.storedAt.Before(oldest) {
				oldestKey, oldest = k, e.storedAt
			}
		}
		delete(c.data, oldestKey)
	}
}

// Len returns the number of live entries.
func (c *TTL) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, e := range c.data {
		if !c.expired(e) {
			n++
		}
	}
	return n
}

func (c *TTL) expired(e entry) bool {
	return c.now().Sub(e.storedAt) >= c.ttl
}
