// Package cache declares the layout cache contract used by the placement service.
package cache

import "github.com/guttosm/placement-service/internal/domain/model"

// Cache stores finished layouts keyed by their canonical request key.
type Cache interface {
	Get(key string) (model.LayoutResult, bool)
	Set(key string, value model.LayoutResult)
	Invalidate(key string)
	Clear()
	Stop()
}

// Metrics provides cache performance metrics.
type Metrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// HitRatio returns hits over lookups, or 0 before the first lookup.
func (m Metrics) HitRatio() float64 {
	total := m.Hits + m.Misses
	if total == 0 {
		return 0
	}
	return float64(m.Hits) / float64(total)
}

// CacheWithMetrics extends Cache with metrics reporting.
type CacheWithMetrics interface {
	Cache
	Metrics() Metrics
}
