package cache

import (
	"context"
	"sync"
	"time"

	"github.com/facture/backend/internal/application/invoicing"
)

// entry represents a cached document with expiration
type entry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryArtifactCache caches rendered documents in an in-process map.
// Suitable for single-instance deployments and testing.
type InMemoryArtifactCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryArtifactCache creates a new in-memory artifact cache.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryArtifactCache(ttl time.Duration) *InMemoryArtifactCache {
	cache := &InMemoryArtifactCache{
		entries:  make(map[string]entry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	cache.wg.Add(1)
	go cache.cleanupLoop()

	return cache
}

// Get retrieves a cached document. Expired entries count as misses.
func (c *InMemoryArtifactCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[key]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set stores a rendered document under the content key
func (c *InMemoryArtifactCache) Set(_ context.Context, key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		data:      data,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times.
func (c *InMemoryArtifactCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *InMemoryArtifactCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes expired entries from the cache
func (c *InMemoryArtifactCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of entries in the cache (for testing/monitoring)
func (c *InMemoryArtifactCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ invoicing.ArtifactCache = (*InMemoryArtifactCache)(nil)
