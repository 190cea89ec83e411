// Package cache provides an in-memory TTL cache with ETag support for
// API responses.
package cache

import (
	"crypto/md5"
	"fmt"
	"sync"
	"time"
)

// TTLs per endpoint family. Standings and scoreboards move during game
// nights; team and season lists barely change.
const (
	TTLStandings  = 5 * time.Minute
	TTLTeams      = 1 * time.Hour
	TTLTeamDetail = 5 * time.Minute
	TTLSeasons    = 1 * time.Hour
	TTLSchedule   = 10 * time.Minute
	TTLScoreboard = 1 * time.Minute
)

type entry struct {
	body      []byte
	etag      string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// Cache is a thread-safe in-memory TTL cache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	enabled bool
	done    chan struct{}
}

// New creates a new cache. Pass enabled=false to create a no-op cache.
func New(enabled bool) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		enabled: enabled,
		done:    make(chan struct{}),
	}
	if enabled {
		go c.evictLoop()
	}
	return c
}

// Get retrieves a cached value. Returns data, etag, and whether the entry was found.
func (c *Cache) Get(key string) (data []byte, etag string, ok bool) {
	if !c.enabled {
		return nil, "", false
	}
	c.mu.RLock()
	e, found := c.entries[key]
	c.mu.RUnlock()
	if !found || e.expired(time.Now()) {
		return nil, "", false
	}
	return e.body, e.etag, true
}

// Set stores a value with a TTL and returns its ETag. A disabled cache
// still computes the ETag so conditional requests keep working.
func (c *Cache) Set(key string, data []byte, ttl time.Duration) string {
	etag := ComputeETag(data)
	if !c.enabled {
		return etag
	}
	c.mu.Lock()
	c.entries[key] = entry{body: data, etag: etag, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return etag
}

// Stats returns cache statistics for the health endpoint.
func (c *Cache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	expired := 0
	for _, e := range c.entries {
		if e.expired(now) {
			expired++
		}
	}
	return map[string]interface{}{
		"enabled":      c.enabled,
		"total_keys":   len(c.entries),
		"active_keys":  len(c.entries) - expired,
		"expired_keys": expired,
	}
}

// Close stops the eviction loop. Safe to call on a disabled cache.
func (c *Cache) Close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

// evictLoop periodically removes expired entries until Close is called.
func (c *Cache) evictLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.evict()
		case <-c.done:
			return
		}
	}
}

func (c *Cache) evict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
		}
	}
}

// ComputeETag generates a weak ETag from response data using MD5.
func ComputeETag(data []byte) string {
	sum := md5.Sum(data)
	return fmt.Sprintf(`W/"%x"`, sum[:8])
}

// CheckETagMatch reports whether an If-None-Match header matches the
// current ETag. Exact match only; responses never carry ETag lists.
func CheckETagMatch(ifNoneMatch, etag string) bool {
	switch ifNoneMatch {
	case "":
		return false
	case "*", etag:
		return true
	}
	return false
}
