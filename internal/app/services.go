// Package app provides service initialization.
package app

import (
	"github.com/guttosm/placement-service/config"
	"github.com/guttosm/placement-service/internal/service"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Placement service.PlacementService
	// Cache is nil when caching is disabled.
	Cache *service.ShardedCache
}

// InitializeServices initializes business logic services. layouts may be nil
// when storage is disabled.
func InitializeServices(cfg config.Config, layouts service.LayoutService) *ServiceComponents {
	opts := []service.PlacementOption{
		service.WithMaxIterations(cfg.Search.MaxIterations),
		service.WithSearchTimeout(cfg.Search.Timeout),
		service.WithFailFast(cfg.Search.FailFast),
		service.WithLimits(cfg.Search.MaxAreaCells, cfg.Search.MaxItems),
	}

	var resultCache *service.ShardedCache
	if cfg.Cache.Size > 0 {
		resultCache = service.NewShardedCache(cfg.Cache.Size, cfg.Cache.TTL, cfg.Cache.Shards)
		opts = append(opts, service.WithCacheInterface(resultCache))
	}

	if layouts != nil {
		opts = append(opts, service.WithLayoutStore(layouts))
	}

	return &ServiceComponents{
		Placement: service.NewPlacementService(opts...),
		Cache:     resultCache,
	}
}
