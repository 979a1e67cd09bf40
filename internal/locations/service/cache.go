package service

import (
	"sync"
	"time"

	"parkade/pkg/model"
)

type cacheEntry struct {
	coordinates model.Coordinates
	expiresAt   time.Time
}

// geocodeCache keeps resolved addresses for a fixed TTL. Expired entries
// are evicted lazily on lookup; geocode traffic is low enough that a
// background janitor is not worth a goroutine.
type geocodeCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

func newGeocodeCache(ttl time.Duration) *geocodeCache {
	return &geocodeCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

func (c *geocodeCache) Get(key string) (model.Coordinates, bool) {
	c.mu.RLock()
	entry, found := c.entries[key]
	c.mu.RUnlock()

	if !found {
		return model.Coordinates{}, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return model.Coordinates{}, false
	}
	return entry.coordinates, true
}

func (c *geocodeCache) Set(key string, coordinates model.Coordinates) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{
		coordinates: coordinates,
		expiresAt:   time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}
