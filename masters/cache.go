package masters

import (
	"context"
	"sync"
	"time"

	"github.com/opsfloor/mfgops_backend/config"
)

const cacheKeyPrefix = "MastersList:"

// Entry is the cached state of one collection: the last-fetched records plus
// staleness. Invalidation marks the entry stale but keeps the data, so a
// failed refetch can still serve the last-known list.
type Entry struct {
	Collection string    `json:"collection"`
	Records    []Record  `json:"records"`
	FetchedAt  time.Time `json:"fetched_at"`
	Stale      bool      `json:"stale"`
}

// Cache is the keyed per-collection store. Redis in production (shared across
// instances behind the same address), in-memory for tests.
type Cache interface {
	Get(ctx context.Context, collection string) (*Entry, error)
	Set(ctx context.Context, collection string, entry *Entry) error
	MarkStale(ctx context.Context, collection string) error
	Purge(ctx context.Context, collection string) error
}

type redisCache struct{}

func NewRedisCache() Cache {
	return &redisCache{}
}

func (c *redisCache) Get(ctx context.Context, collection string) (*Entry, error) {
	var entry Entry
	exists, err := config.GetRedisObject(cacheKeyPrefix+collection, &entry)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return &entry, nil
}

func (c *redisCache) Set(ctx context.Context, collection string, entry *Entry) error {
	// no TTL: staleness is explicit, and the last-known list must survive
	// invalidation for fail-soft reads
	return config.SetRedisObject(cacheKeyPrefix+collection, entry, 0)
}

func (c *redisCache) MarkStale(ctx context.Context, collection string) error {
	entry, err := c.Get(ctx, collection)
	if err != nil || entry == nil {
		return err
	}
	entry.Stale = true
	return c.Set(ctx, collection, entry)
}

func (c *redisCache) Purge(ctx context.Context, collection string) error {
	return config.RemoveRedisKey(cacheKeyPrefix + collection)
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

func NewMemoryCache() Cache {
	return &memoryCache{entries: make(map[string]*Entry)}
}

func (c *memoryCache) Get(ctx context.Context, collection string) (*Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[collection]
	if !ok {
		return nil, nil
	}
	copied := *entry
	return &copied, nil
}

func (c *memoryCache) Set(ctx context.Context, collection string, entry *Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *entry
	c.entries[collection] = &copied
	return nil
}

func (c *memoryCache) MarkStale(ctx context.Context, collection string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[collection]; ok {
		entry.Stale = true
	}
	return nil
}

func (c *memoryCache) Purge(ctx context.Context, collection string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, collection)
	return nil
}
