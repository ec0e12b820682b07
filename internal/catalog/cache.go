package catalog

import (
	"sort"
	"sync"
	"time"

	"github.com/evcraddock/rentapp/internal/clock"
	"github.com/evcraddock/rentapp/internal/metrics"
	"github.com/evcraddock/rentapp/internal/property"
)

// DefaultTTL collapses the reads of one rendering pass.
const DefaultTTL = 100 * time.Millisecond

// RecordSource lists repository records.
type RecordSource interface {
	List() []*property.Record
}

// entry is one computed merge.
type entry struct {
	value      []DisplayProperty
	computedAt time.Time
}

// Cache serves the merged seed and repository list. It owns no data; any
// entry may be dropped at any time.
type Cache struct {
	seed    []DisplayProperty
	source  RecordSource
	clock   clock.Clock
	ttl     time.Duration
	metrics *metrics.Metrics

	mu    sync.Mutex
	entry *entry
	gen   uint64
}

// NewCache creates a cache. A non-positive ttl means DefaultTTL.
func NewCache(seed []DisplayProperty, source RecordSource, clk clock.Clock, ttl time.Duration, m *metrics.Metrics) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		seed:    append([]DisplayProperty(nil), seed...),
		source:  source,
		clock:   clk,
		ttl:     ttl,
		metrics: m,
	}
}

// GetAll returns every display property, most recently modified first.
// Within the TTL and without an intervening Invalidate the same slice is
// returned; callers must not modify it.
//
// The merge runs without the cache lock held. Reading the store can remove a
// corrupted value, and that removal invalidates other tabs' caches
// synchronously.
func (c *Cache) GetAll() []DisplayProperty {
	c.mu.Lock()
	now := c.clock.Now()
	if c.entry != nil && now.Sub(c.entry.computedAt) < c.ttl {
		value := c.entry.value
		c.mu.Unlock()
		c.metrics.CacheHit()
		return value
	}
	gen := c.gen
	c.mu.Unlock()

	c.metrics.CacheMiss()
	value := c.merge()

	c.mu.Lock()
	defer c.mu.Unlock()
	// An Invalidate during the merge means value may already be stale.
	if c.gen == gen {
		c.entry = &entry{value: value, computedAt: now}
	}
	return value
}

func (c *Cache) merge() []DisplayProperty {
	records := c.source.List()
	out := make([]DisplayProperty, 0, len(c.seed)+len(records))
	out = append(out, c.seed...)
	for _, r := range records {
		out = append(out, FromRecord(r))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastModified().After(out[j].LastModified())
	})
	return out
}

// Invalidate drops the cached entry. The next GetAll recomputes.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
	c.gen++
}

// GetByID finds one display property.
func (c *Cache) GetByID(id string) (DisplayProperty, bool) {
	for _, p := range c.GetAll() {
		if p.ID == id {
			return p, true
		}
	}
	return DisplayProperty{}, false
}
