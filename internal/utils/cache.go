package utils

import (
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	DefaultCacheSize = 500
	DefaultCacheTTL  = 30 * time.Second
)

// CacheItem wraps a cached value with its expiry.
type CacheItem struct {
	Data      any
	ExpiresAt time.Time
}

// GlobalCache is a process-local LRU whose entries expire after a TTL.
// Every Purge starts a new generation; SetIfGeneration refuses data loaded
// in an older one.
type GlobalCache struct {
	lruCache *lru.Cache[string, CacheItem]
	ttl      time.Duration

	mu  sync.Mutex
	gen uint64
}

var (
	cacheInstance *GlobalCache
	cacheOnce     sync.Once
)

// NewCache builds a cache holding at most size entries.
func NewCache(size int, ttl time.Duration) (*GlobalCache, error) {
	l, err := lru.New[string, CacheItem](size)
	if err != nil {
		return nil, err
	}
	return &GlobalCache{lruCache: l, ttl: ttl}, nil
}

// ConfigureCache sets up the shared instance. Only the first call wins.
func ConfigureCache(size int, ttl time.Duration) {
	cacheOnce.Do(func() {
		c, err := NewCache(size, ttl)
		if err != nil {
			slog.Error("Failed to create LRU cache, using defaults", "error", err, "size", size)
			c, _ = NewCache(DefaultCacheSize, DefaultCacheTTL)
		}
		cacheInstance = c
	})
}

// GetCache returns the shared instance, creating it with defaults if needed.
func GetCache() *GlobalCache {
	ConfigureCache(DefaultCacheSize, DefaultCacheTTL)
	return cacheInstance
}

// Set stores data under key with the cache's TTL.
func (c *GlobalCache) Set(key string, data any) {
	c.SetWithTTL(key, data, c.ttl)
}

func (c *GlobalCache) SetWithTTL(key string, data any, ttl time.Duration) {
	c.lruCache.Add(key, CacheItem{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	})
}

// Get returns nil when the key is missing or expired.
func (c *GlobalCache) Get(key string) any {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}

	if time.Now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}

	return val.Data
}

func (c *GlobalCache) Delete(key string) {
	c.lruCache.Remove(key)
}

// Generation identifies the current purge epoch. Read it before loading data
// that will be passed to SetIfGeneration.
func (c *GlobalCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// SetIfGeneration stores data only if no Purge happened since gen was read.
func (c *GlobalCache) SetIfGeneration(key string, data any, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.SetWithTTL(key, data, c.ttl)
	return true
}

// Purge drops every entry and starts a new generation.
func (c *GlobalCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lruCache.Purge()
}

func (c *GlobalCache) Len() int {
	return c.lruCache.Len()
}
