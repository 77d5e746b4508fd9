package reconcile

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// PlaceLoader fetches a places payload, typically from object storage.
type PlaceLoader func(ctx context.Context) ([]ExternalPlace, error)

// CachedIndex holds a built place index and its freshness.
type CachedIndex struct {
	// Index is the immutable place index.
	Index *PlaceIndex

	// Built is the timestamp when this index was built.
	Built time.Time

	// TTL is the time-to-live for this entry.
	TTL time.Duration
}

// IsExpired returns true if this entry has expired based on its TTL.
func (c *CachedIndex) IsExpired() bool {
	if c.TTL == 0 {
		return true // No caching
	}
	return time.Since(c.Built) > c.TTL
}

// IndexCache reuses place indices across match runs against the same places
// payload. Entries are immutable, so readers never block each other.
type IndexCache struct {
	mu      sync.RWMutex
	entries map[string]*CachedIndex
	sf      singleflight.Group
	ttl     time.Duration
}

// NewIndexCache creates a cache. A zero TTL disables caching.
func NewIndexCache(ttl time.Duration) *IndexCache {
	return &IndexCache{
		entries: make(map[string]*CachedIndex),
		ttl:     ttl,
	}
}

// CacheKey returns a unique key for a places source and threshold, so indices
// built for different thresholds never share an entry.
func CacheKey(source string, threshold float64) string {
	return source + "|" + strconv.FormatFloat(threshold, 'g', -1, 64)
}

// GetOrBuild returns a fresh index for source, building it with load when it
// is missing or expired. Uses singleflight to prevent cache stampedes.
func (c *IndexCache) GetOrBuild(ctx context.Context, source string, threshold float64, load PlaceLoader) (*PlaceIndex, error) {
	key := CacheKey(source, threshold)

	// Fast path: check if entry exists and is fresh
	if idx, ok := c.fresh(key); ok {
		return idx, nil
	}

	// Slow path: build using singleflight to prevent stampedes
	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		if idx, ok := c.fresh(key); ok {
			return idx, nil
		}

		places, err := load(ctx)
		if err != nil {
			return nil, err
		}
		idx := BuildPlaceIndex(places, threshold)

		if c.ttl > 0 {
			c.mu.Lock()
			c.entries[key] = &CachedIndex{Index: idx, Built: time.Now(), TTL: c.ttl}
			c.mu.Unlock()
		}

		return idx, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*PlaceIndex), nil
}

// Invalidate removes every entry built from source.
func (c *IndexCache) Invalidate(source string) {
	prefix := source + "|"
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

func (c *IndexCache) fresh(key string) (*PlaceIndex, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if exists && !entry.IsExpired() {
		return entry.Index, true
	}
	return nil, false
}
