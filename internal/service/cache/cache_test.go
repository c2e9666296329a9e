//go:build !integration

package cache

import (
	"testing"

	"github.com/guttosm/placement-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
)

type mapCache struct {
	items map[string]model.LayoutResult
}

func (m *mapCache) Get(key string) (model.LayoutResult, bool) {
	v, ok := m.items[key]
	return v, ok
}

func (m *mapCache) Set(key string, value model.LayoutResult) { m.items[key] = value }

func (m *mapCache) Invalidate(key string) { delete(m.items, key) }

func (m *mapCache) Clear() { clear(m.items) }

func (m *mapCache) Stop() {}

func (m *mapCache) Metrics() Metrics { return Metrics{Size: len(m.items)} }

func TestCacheWithMetricsInterface(t *testing.T) {
	var c CacheWithMetrics = &mapCache{items: map[string]model.LayoutResult{}}

	_, found := c.Get("4x4:2x2,2x2")
	assert.False(t, found)

	c.Set("4x4:2x2,2x2", model.LayoutResult{AreaWidth: 4, AreaHeight: 4})
	got, found := c.Get("4x4:2x2,2x2")
	assert.True(t, found)
	assert.Equal(t, 4, got.AreaWidth)
	assert.Equal(t, 1, c.Metrics().Size)

	c.Invalidate("4x4:2x2,2x2")
	assert.Equal(t, 0, c.Metrics().Size)
	c.Stop()
}

func TestMetrics_HitRatio(t *testing.T) {
	tests := []struct {
		name    string
		metrics Metrics
		want    float64
	}{
		{name: "no lookups", metrics: Metrics{}, want: 0},
		{name: "all hits", metrics: Metrics{Hits: 4}, want: 1},
		{name: "mixed", metrics: Metrics{Hits: 3, Misses: 1}, want: 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.metrics.HitRatio(), 1e-9)
		})
	}
}
