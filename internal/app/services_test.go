//go:build !integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/placement-service/config"
	"github.com/guttosm/placement-service/internal/domain/model"
	"github.com/guttosm/placement-service/internal/placement"
	"github.com/guttosm/placement-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoSquares() service.SearchInput {
	return service.SearchInput{
		Width:  4,
		Height: 4,
		Items:  []placement.Item{placement.NewItem(0, 2, 2), placement.NewItem(1, 2, 2)},
	}
}

func TestInitializeServices(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.Config
		wantCache bool
	}{
		{
			name:      "cache disabled",
			cfg:       config.Config{Search: config.SearchConfig{MaxIterations: 1000}},
			wantCache: false,
		},
		{
			name: "cache enabled",
			cfg: config.Config{
				Cache:  config.CacheConfig{Size: 100, TTL: time.Minute, Shards: 4},
				Search: config.SearchConfig{MaxIterations: 1000},
			},
			wantCache: true,
		},
		{
			name: "cache size zero ignores TTL",
			cfg: config.Config{
				Cache: config.CacheConfig{Size: 0, TTL: 5 * time.Minute},
			},
			wantCache: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			components := InitializeServices(tt.cfg, nil)
			require.NotNil(t, components)
			assert.NotNil(t, components.Placement)
			if tt.wantCache {
				require.NotNil(t, components.Cache)
				t.Cleanup(components.Cache.Stop)
			} else {
				assert.Nil(t, components.Cache)
			}
		})
	}
}

func TestServiceComponents_Placement(t *testing.T) {
	components := InitializeServices(config.Config{
		Cache:  config.CacheConfig{Size: 100, TTL: time.Minute},
		Search: config.SearchConfig{MaxIterations: 10000, Timeout: 5 * time.Second},
	}, nil)
	t.Cleanup(components.Cache.Stop)

	first, err := components.Placement.Search(context.Background(), twoSquares())
	require.NoError(t, err)
	assert.Equal(t, model.LayoutStatusSolved, first.Status)
	assert.Len(t, first.Placements, 2)
	assert.InDelta(t, 0.5, first.Utilization, 1e-9)
	assert.False(t, first.Cached)

	second, err := components.Placement.Search(context.Background(), twoSquares())
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.ID, second.ID)
}

func TestServiceComponents_Limits(t *testing.T) {
	components := InitializeServices(config.Config{
		Search: config.SearchConfig{MaxIterations: 1000, MaxItems: 1},
	}, nil)

	_, err := components.Placement.Search(context.Background(), twoSquares())
	assert.ErrorIs(t, err, service.ErrSearchLimit)
}

func TestServiceComponents_FailFast(t *testing.T) {
	components := InitializeServices(config.Config{
		Search: config.SearchConfig{MaxIterations: 1000, FailFast: true},
	}, nil)

	in := service.SearchInput{Width: 2, Height: 2, Items: []placement.Item{placement.NewItem(0, 3, 1)}}
	_, err := components.Placement.Search(context.Background(), in)
	assert.ErrorIs(t, err, placement.ErrInfeasibleItem)
}
