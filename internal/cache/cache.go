// Package cache provides the bounded, time-expiring translation cache that
// backs the resolver's first tier. It is purely transient: contents are gone
// at process restart and there is no error condition — every operation
// resolves to a hit or a miss.
package cache

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/voicebridge/translation-engine/internal/domain"
)

// Cache is a concurrency-safe LRU with per-entry TTL. A hit refreshes the
// entry's recency; an expired entry counts as a miss. Capacity overflow
// evicts the least-recently-used entry.
type Cache struct {
	lru    *expirable.LRU[string, string]
	hits   atomic.Int64
	misses atomic.Int64
}

// Stats is a point-in-time view of cache accounting.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// New creates a cache bounded to capacity entries, each expiring ttl after
// insertion.
func New(capacity int, ttl time.Duration) *Cache {
	return &Cache{
		lru: expirable.NewLRU[string, string](capacity, nil, ttl),
	}
}

// Key builds the canonical cache key for a fragment and language pair.
// The same key scheme is used for request deduplication.
func Key(text, src, dst string) string {
	return strings.Join([]string{
		domain.NormalizeLang(src),
		domain.NormalizeLang(dst),
		domain.NormalizeText(text),
	}, "|")
}

// Get returns the cached translation for the fragment, if present and fresh.
func (c *Cache) Get(text, src, dst string) (string, bool) {
	v, ok := c.lru.Get(Key(text, src, dst))
	if !ok {
		c.misses.Add(1)
		return "", false
	}
	c.hits.Add(1)
	return v, true
}

// Set stores a translation. Blank translations are silently ignored.
func (c *Cache) Set(text, src, dst, translation string) {
	if strings.TrimSpace(translation) == "" {
		return
	}
	c.lru.Add(Key(text, src, dst), translation)
}

// Purge removes all entries. Hit/miss counters are preserved.
func (c *Cache) Purge() {
	c.lru.Purge()
}

// Stats returns current accounting.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.lru.Len(),
	}
}
