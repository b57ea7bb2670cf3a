// Package cache provides a time-boxed memo of built reports, keyed by
// granularity and window bounds rounded to the minute.
//
// Reports are stored encoded, so a hit always returns a fresh copy that the
// caller may keep. Any entry that fails to decode (or was written under a
// different schema version) is treated as a miss and evicted.
//
// Example usage:
//
//	c := cache.New(5*time.Minute, 64)
//	c.Put(cache.KeyFor(window), report, 0)
//	report, ok := c.Get(cache.KeyFor(window))
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/JonnyWalker81/patternlog/internal/metrics"
	"github.com/JonnyWalker81/patternlog/internal/models"
)

// SchemaVersion is bumped whenever models.Report changes shape.
const SchemaVersion = 1

// DefaultTTL is used when Put is called with a non-positive ttl.
const DefaultTTL = 5 * time.Minute

// Key identifies a cached report.
type Key struct {
	Granularity models.Granularity
	Start       int64 // unix seconds, truncated to the minute
	End         int64 // unix seconds, truncated to the minute
	TimeZone    string
}

// KeyFor builds the cache key of a window.
func KeyFor(w models.Window) Key {
	return Key{
		Granularity: w.Granularity,
		Start:       w.Start.Truncate(time.Minute).Unix(),
		End:         w.End.Truncate(time.Minute).Unix(),
		TimeZone:    w.TimeZone,
	}
}

// String renders the key for logs.
func (k Key) String() string {
	return fmt.Sprintf("%s:%s..%s",
		k.Granularity,
		time.Unix(k.Start, 0).UTC().Format("2006-01-02T15:04Z"),
		time.Unix(k.End, 0).UTC().Format("2006-01-02T15:04Z"))
}

// covers reports whether a record at ts could be part of a report cached
// under k. The end bound is widened to the end of its minute because the
// key dropped the seconds.
func (k Key) covers(ts time.Time) bool {
	u := ts.Unix()
	return u >= k.Start && u < k.End+60
}

// entry is a single cached report.
type entry struct {
	key       Key
	window    models.Window
	payload   []byte
	version   int
	createdAt time.Time
	expiresAt time.Time
}

// Cache provides thread-safe in-memory caching with TTL and bounded size.
// Reads run concurrently; Put and Invalidate are serialized.
type Cache struct {
	mu         sync.RWMutex
	entries    map[Key]*entry
	ttl        time.Duration
	maxEntries int
	generation uint64
	now        func() time.Time
	metrics    *metrics.Metrics // Optional metrics tracking
}

// New creates a cache with the given default TTL and maximum entries.
// A non-positive ttl means DefaultTTL; a non-positive maxEntries means
// unbounded.
func New(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries:    make(map[Key]*entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// SetMetrics sets the metrics tracker for this cache.
func (c *Cache) SetMetrics(m *metrics.Metrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = m
}

// SetClock replaces the clock used for expiry.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Generation returns the current invalidation generation. It is advanced by
// every Invalidate call, whether or not anything was removed.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Len returns the number of live and expired-but-unswept entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Get returns a decoded copy of the report cached under key.
// Expired, corrupt and version-mismatched entries are misses.
func (c *Cache) Get(key Key) (*models.Report, bool) {
	c.mu.RLock()
	e, exists := c.entries[key]
	now := c.now()
	m := c.metrics
	c.mu.RUnlock()

	if !exists {
		m.RecordCacheMiss()
		return nil, false
	}

	if !now.Before(e.expiresAt) {
		c.evict(key, e, "expired")
		m.RecordCacheMiss()
		return nil, false
	}

	if e.version != SchemaVersion {
		c.evict(key, e, "corrupt")
		m.RecordCacheMiss()
		return nil, false
	}

	var report models.Report
	if err := json.Unmarshal(e.payload, &report); err != nil {
		c.evict(key, e, "corrupt")
		m.RecordCacheMiss()
		return nil, false
	}

	m.RecordCacheHit()
	return &report, true
}

// Put stores report under key for ttl (DefaultTTL when ttl <= 0).
func (c *Cache) Put(key Key, report *models.Report, ttl time.Duration) error {
	payload, err := encode(report)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(key, report.Window, payload, ttl)
	return nil
}

// PutIfCurrent stores report only if no invalidation happened since
// generation was read. It reports whether the report was stored.
func (c *Cache) PutIfCurrent(key Key, report *models.Report, ttl time.Duration, generation uint64) (bool, error) {
	payload, err := encode(report)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		return false, nil
	}
	c.store(key, report.Window, payload, ttl)
	return true, nil
}

// Invalidate removes every entry whose window matches pred and returns how
// many were removed.
func (c *Cache) Invalidate(pred func(k Key, w models.Window) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	removed := 0
	for k, e := range c.entries {
		if pred(k, e.window) {
			delete(c.entries, k)
			removed++
		}
	}

	c.metrics.RecordInvalidation(removed)
	c.metrics.SetCacheSize(len(c.entries))
	return removed
}

// InvalidateContaining removes every entry whose window could contain a
// record stamped ts.
func (c *Cache) InvalidateContaining(ts time.Time) int {
	return c.Invalidate(func(k Key, _ models.Window) bool {
		return k.covers(ts)
	})
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.Invalidate(func(Key, models.Window) bool { return true })
}

func encode(report *models.Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("failed to cache report: nil report")
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return payload, nil
}

// store inserts an entry. Caller must hold the write lock.
func (c *Cache) store(key Key, w models.Window, payload []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	now := c.now()

	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		if _, exists := c.entries[key]; !exists {
			c.sweepExpired(now)
			if len(c.entries) >= c.maxEntries {
				c.evictOldest()
			}
		}
	}

	c.entries[key] = &entry{
		key:       key,
		window:    w,
		payload:   payload,
		version:   SchemaVersion,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
	c.metrics.SetCacheSize(len(c.entries))
}

// evict removes key if it still maps to e.
func (c *Cache) evict(key Key, e *entry, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.entries[key]; ok && cur == e {
		delete(c.entries, key)
		c.metrics.RecordEviction(reason)
		c.metrics.SetCacheSize(len(c.entries))
	}
}

// sweepExpired drops expired entries. Caller must hold the write lock.
func (c *Cache) sweepExpired(now time.Time) {
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			c.metrics.RecordEviction("expired")
		}
	}
}

// evictOldest removes the entry created first. Caller must hold the write lock.
func (c *Cache) evictOldest() {
	var oldest *entry
	for _, e := range c.entries {
		if oldest == nil || e.createdAt.Before(oldest.createdAt) ||
			(e.createdAt.Equal(oldest.createdAt) && e.key.String() < oldest.key.String()) {
			oldest = e
		}
	}
	if oldest != nil {
		delete(c.entries, oldest.key)
		c.metrics.RecordEviction("capacity")
	}
}
