// internal/cache/cache.go
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/job-radar/radar/pkg/models"
	"github.com/rs/zerolog/log"
)

// Cache defines the interface for analysis-result caching implementations.
//
// Keys are origins (scheme+host); at most one live entry exists per origin.
type Cache interface {
	// Get retrieves a cached recommendation by origin.
	// Returns the recommendation and a boolean indicating if a live entry was found.
	// An expired entry is treated as absent and evicted lazily.
	Get(origin string) (*models.StrategyRecommendation, bool)

	// Set stores a recommendation with the specified TTL.
	// If the origin already has an entry, it is overwritten.
	Set(origin string, rec *models.StrategyRecommendation, ttl time.Duration) error

	// Delete removes a cached recommendation by origin.
	// Should not error if the origin doesn't exist.
	Delete(origin string) error

	// Clear removes all cached recommendations.
	Clear() error

	// Close performs cleanup and closes the cache.
	// Implementations must ensure background goroutines are stopped.
	Close()
}

// cacheEntry represents one cached recommendation with its expiry
type cacheEntry struct {
	Rec       *models.StrategyRecommendation
	ExpiresAt time.Time
}

// MemoryCache implements in-memory analysis-result caching.
// Entries are small (one recommendation per distinct origin), so there is
// no size-based eviction; expiry is checked on Get and swept periodically.
type MemoryCache struct {
	store  map[string]*cacheEntry
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	hits   uint64
	misses uint64
}

// NewMemoryCache creates a new in-memory analysis cache
func NewMemoryCache() *MemoryCache {
	ctx, cancel := context.WithCancel(context.Background())

	cache := &MemoryCache{
		store:  make(map[string]*cacheEntry),
		ctx:    ctx,
		cancel: cancel,
	}

	// Start background cleanup routine with context
	go cache.cleanupExpired()

	return cache
}

// Get retrieves a cached recommendation, evicting it lazily when expired
func (mc *MemoryCache) Get(origin string) (*models.StrategyRecommendation, bool) {
	mc.mu.Lock()
	entry, exists := mc.store[origin]
	if !exists {
		mc.misses++
		mc.mu.Unlock()
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		mc.misses++
		delete(mc.store, origin)
		mc.mu.Unlock()
		log.Debug().Str("origin", origin).Msg("Evicted expired analysis entry")
		return nil, false
	}

	mc.hits++
	mc.mu.Unlock()

	log.Debug().Str("origin", origin).Msg("Analysis cache hit")
	return entry.Rec, true
}

// Set stores a recommendation with TTL, overwriting any previous entry
func (mc *MemoryCache) Set(origin string, rec *models.StrategyRecommendation, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.store[origin] = &cacheEntry{
		Rec:       rec,
		ExpiresAt: time.Now().Add(ttl),
	}

	log.Debug().
		Str("origin", origin).
		Str("strategy", rec.Strategy.String()).
		Dur("ttl", ttl).
		Msg("Cached analysis result")

	return nil
}

// Delete removes a cached recommendation
func (mc *MemoryCache) Delete(origin string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, exists := mc.store[origin]; exists {
		delete(mc.store, origin)
		log.Debug().Str("origin", origin).Msg("Deleted from analysis cache")
	}

	return nil
}

// Clear removes all cached recommendations
func (mc *MemoryCache) Clear() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.store = make(map[string]*cacheEntry)
	mc.hits = 0
	mc.misses = 0

	log.Debug().Msg("Analysis cache cleared")
	return nil
}

// Close stops the background cleanup goroutine
func (mc *MemoryCache) Close() {
	mc.cancel()
	log.Debug().Msg("Analysis cache closed")
}

// Len returns the number of live entries
func (mc *MemoryCache) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.store)
}

// cleanupExpired periodically removes expired entries
func (mc *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mc.mu.Lock()
			now := time.Now()
			for origin, entry := range mc.store {
				if now.After(entry.ExpiresAt) {
					delete(mc.store, origin)
				}
			}
			mc.mu.Unlock()
		case <-mc.ctx.Done():
			log.Debug().Msg("Analysis cache cleanup routine stopped")
			return
		}
	}
}

// Stats returns cache statistics including hit rate
func (mc *MemoryCache) Stats() map[string]interface{} {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	hitRate := 0.0
	total := mc.hits + mc.misses
	if total > 0 {
		hitRate = float64(mc.hits) / float64(total) * 100
	}

	return map[string]interface{}{
		"entries":  len(mc.store),
		"hits":     mc.hits,
		"misses":   mc.misses,
		"hit_rate": hitRate,
	}
}
