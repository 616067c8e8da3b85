package dasa

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
)

// CacheEntry represents a cached tree
type CacheEntry struct {
	Tree       *Tree
	ExpiresAt  time.Time
	AccessedAt time.Time
}

// TreeCache keeps built trees keyed by their build parameters. Trees are
// immutable, so a cached tree can be handed to any number of readers.
type TreeCache struct {
	entries         map[string]*CacheEntry
	mutex           sync.RWMutex
	ttl             time.Duration
	maxEntries      int
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	closeOnce       sync.Once
}

// CacheConfig holds configuration for the tree cache
type CacheConfig struct {
	TTL             time.Duration // How long entries stay valid
	MaxEntries      int           // Maximum number of entries before eviction
	CleanupInterval time.Duration // How often to run cleanup
}

// DefaultCacheConfig provides sensible defaults for tree caching
var DefaultCacheConfig = CacheConfig{
	TTL:             15 * time.Minute,
	MaxEntries:      1000,
	CleanupInterval: 5 * time.Minute,
}

// NewTreeCache creates a new tree cache and starts its cleanup goroutine.
// Close must be called to stop it.
func NewTreeCache(config CacheConfig) *TreeCache {
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultCacheConfig.CleanupInterval
	}
	cache := &TreeCache{
		entries:         make(map[string]*CacheEntry),
		ttl:             config.TTL,
		maxEntries:      config.MaxEntries,
		cleanupInterval: config.CleanupInterval,
		stopCleanup:     make(chan struct{}),
	}

	go cache.cleanupLoop()

	return cache
}

// cacheKey hashes the build parameters. The fraction is hashed by its bit
// pattern so that only identical inputs share an entry.
func cacheKey(lord Lord, fraction float64, depth int) string {
	var buf [24]byte
	binary.BigEndian.PutUint64(buf[0:8], uint64(lord))
	binary.BigEndian.PutUint64(buf[8:16], math.Float64bits(fraction))
	binary.BigEndian.PutUint64(buf[16:24], uint64(depth))
	sum := sha256.Sum256(buf[:])
	return fmt.Sprintf("%x", sum)
}

// Get retrieves a cached tree if it exists and hasn't expired
func (c *TreeCache) Get(lord Lord, fraction float64, depth int) (*Tree, bool) {
	key := cacheKey(lord, fraction, depth)

	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, false
	}

	now := time.Now()
	if now.After(entry.ExpiresAt) {
		c.mutex.Lock()
		delete(c.entries, key)
		c.mutex.Unlock()
		return nil, false
	}

	c.mutex.Lock()
	entry.AccessedAt = now
	c.mutex.Unlock()

	return entry.Tree, true
}

// Set stores a tree in the cache
func (c *TreeCache) Set(tree *Tree) {
	key := cacheKey(tree.Lord, tree.Fraction, tree.Depth)
	now := time.Now()

	entry := &CacheEntry{
		Tree:       tree,
		ExpiresAt:  now.Add(c.ttl),
		AccessedAt: now,
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = entry

	if c.maxEntries > 0 && len(c.entries) > c.maxEntries {
		c.cleanup()
	}
}

// cleanup removes expired entries and then the least recently accessed ones
// until the cache is within its limit. Callers hold the write lock.
func (c *TreeCache) cleanup() {
	now := time.Now()

	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
		}
	}

	if c.maxEntries <= 0 || len(c.entries) <= c.maxEntries {
		return
	}

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return c.entries[keys[i]].AccessedAt.Before(c.entries[keys[j]].AccessedAt)
	})

	excess := len(c.entries) - c.maxEntries
	for _, key := range keys[:excess] {
		delete(c.entries, key)
	}
}

func (c *TreeCache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mutex.Lock()
			c.cleanup()
			c.mutex.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

// Close stops the cleanup goroutine and clears the cache. It is safe to call
// more than once.
func (c *TreeCache) Close() {
	c.closeOnce.Do(func() {
		close(c.stopCleanup)
	})
	c.mutex.Lock()
	c.entries = make(map[string]*CacheEntry)
	c.mutex.Unlock()
}

// Stats returns cache statistics
func (c *TreeCache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entryCount := len(c.entries)
	expiredCount := 0
	now := time.Now()

	for _, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			expiredCount++
		}
	}

	return CacheStats{
		TotalEntries:   entryCount,
		ExpiredEntries: expiredCount,
		ActiveEntries:  entryCount - expiredCount,
	}
}

// CacheStats provides information about cache contents
type CacheStats struct {
	TotalEntries   int
	ExpiredEntries int
	ActiveEntries  int
}
