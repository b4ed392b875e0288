package cache

import (
	"context"
	"sync"
	"time"

	"rostersync/pkg/platform/sentinel"
)

type cachedID struct {
	subscriberID string
	storedAt     time.Time
}

// MemoryCache is an in-process lookup cache with TTL expiration. It is the
// fallback when no Redis is configured; entries only help within one run.
type MemoryCache struct {
	mu  sync.RWMutex
	ids map[string]cachedID
	ttl time.Duration
}

// NewMemoryCache creates an in-memory cache with the specified TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ids: make(map[string]cachedID),
		ttl: ttl,
	}
}

// Find retrieves a cached subscriber ID by CPF.
// Returns sentinel.ErrNotFound if the entry does not exist or has expired.
func (c *MemoryCache) Find(_ context.Context, cpf string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if cached, ok := c.ids[cpf]; ok {
		if time.Since(cached.storedAt) < c.ttl {
			return cached.subscriberID, nil
		}
	}
	return "", sentinel.ErrNotFound
}

// Save stores a CPF to subscriber ID resolution.
func (c *MemoryCache) Save(_ context.Context, cpf, subscriberID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids[cpf] = cachedID{subscriberID: subscriberID, storedAt: time.Now()}
	return nil
}
