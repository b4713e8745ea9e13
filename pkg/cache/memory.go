package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoryEntries bounds a MemoryCache created with size <= 0.
const DefaultMemoryEntries = 1024

// MemoryCache is an in-process LRU cache. It suits long-running callers
// that generate many documents, and tests.
type MemoryCache struct {
	lru *lru.Cache[string, memoryEntry]
	now func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates a cache holding at most size entries.
func NewMemoryCache(size int) (*MemoryCache, error) {
	if size <= 0 {
		size = DefaultMemoryEntries
	}
	c, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{lru: c, now: time.Now}, nil
}

// Get retrieves a value, evicting it if it has expired.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.lru.Remove(key)
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set stores a copy of data.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := memoryEntry{data: append([]byte(nil), data...)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.lru.Add(key, e)
	return nil
}

// Delete removes a value.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int { return c.lru.Len() }

// Close drops all entries.
func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
