// Package cache memoizes train designation parsing. Departure boards repeat the
// same trains at every station they call at, so most designations are seen many
// times per batch.
package cache

import (
	"github.com/couchcryptid/departure-etl/internal/domain"
	"github.com/couchcryptid/departure-etl/internal/observability"
)

// CachedParser wraps a DesignationParser with an in-memory LRU cache.
// It implements domain.DesignationParser.
type CachedParser struct {
	inner   domain.DesignationParser
	cache   *lruCache[string, domain.ParsedTrain]
	metrics *observability.Metrics
}

// NewCachedParser creates a cache decorator around a parser. metrics may be nil.
func NewCachedParser(inner domain.DesignationParser, maxEntries int, metrics *observability.Metrics) *CachedParser {
	return &CachedParser{
		inner:   inner,
		cache:   newLRUCache[string, domain.ParsedTrain](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedParser) Parse(raw string) domain.ParsedTrain {
	if result, ok := c.cache.get(raw); ok {
		c.record("hit")
		return result
	}
	c.record("miss")
	result := c.inner.Parse(raw)
	c.cache.put(raw, result)
	return result
}

// Len returns the number of cached designations.
func (c *CachedParser) Len() int {
	return c.cache.size()
}

func (c *CachedParser) record(result string) {
	if c.metrics == nil {
		return
	}
	c.metrics.DesignationCache.WithLabelValues(result).Inc()
}
