package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Common cache errors
var (
	ErrCacheMiss    = errors.New("cache miss")
	ErrCacheExpired = errors.New("cache expired")
)

// Cache is a process-wide key/value store with per-entry TTLs.
// It fronts remote reads: a miss is advisory and simply means the
// caller performs a live fetch.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) *Stats
	Close() error
}

// Stats contains cache performance counters
type Stats struct {
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	HitRatio float64 `json:"hit_ratio"`
	Keys     int64   `json:"keys"`
	Expired  int64   `json:"expired"`
}

// Entry is a cached value with its expiry
type Entry struct {
	Key       string
	Value     interface{}
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the entry's TTL has elapsed
func (e *Entry) IsExpired() bool {
	return !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt)
}

// MemoryCacheConfig contains configuration for the in-memory cache
type MemoryCacheConfig struct {
	DefaultTTL      time.Duration `yaml:"default_ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// DefaultMemoryCacheConfig returns default memory cache configuration
func DefaultMemoryCacheConfig() *MemoryCacheConfig {
	return &MemoryCacheConfig{
		DefaultTTL:      5 * time.Minute,
		CleanupInterval: 1 * time.Minute,
	}
}

// MemoryCache is an in-memory TTL cache. Entries are evicted on explicit
// deletion or TTL expiry, never partially updated.
type MemoryCache struct {
	config  *MemoryCacheConfig
	items   map[string]*Entry
	mu      sync.RWMutex
	hits    int64
	misses  int64
	expired int64
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewMemoryCache creates a new in-memory cache and starts its cleanup loop
func NewMemoryCache(config *MemoryCacheConfig) *MemoryCache {
	if config == nil {
		config = DefaultMemoryCacheConfig()
	}

	c := &MemoryCache{
		config: config,
		items:  make(map[string]*Entry),
		stopCh: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get retrieves a value by key. Returns ErrCacheMiss when absent and
// ErrCacheExpired when the entry's TTL has elapsed.
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, ErrCacheMiss
	}
	if entry.IsExpired() {
		delete(c.items, key)
		c.misses++
		c.expired++
		return nil, ErrCacheExpired
	}

	c.hits++
	return entry.Value, nil
}

// Set stores a value under key with the given TTL. A zero TTL falls back
// to the configured default.
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.config.DefaultTTL
	}

	now := time.Now()
	entry := &Entry{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry

	return nil
}

// Delete removes entries by key. Missing keys are not an error.
func (c *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.items, key)
	}
	return nil
}

// Clear removes all cache entries
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*Entry)
	return nil
}

// Stats returns cache performance counters
func (c *MemoryCache) Stats(ctx context.Context) *Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := &Stats{
		Hits:    c.hits,
		Misses:  c.misses,
		Keys:    int64(len(c.items)),
		Expired: c.expired,
	}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRatio = float64(c.hits) / float64(total)
	}
	return stats
}

// Close stops the cleanup loop
func (c *MemoryCache) Close() error {
	close(c.stopCh)
	c.wg.Wait()
	return nil
}

func (c *MemoryCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *MemoryCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.items {
		if entry.IsExpired() {
			delete(c.items, key)
			c.expired++
		}
	}
}
