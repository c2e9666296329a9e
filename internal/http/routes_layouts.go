package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/placement-service/internal/domain/dto"
	"github.com/guttosm/placement-service/internal/middleware"
)

// searchTimeoutGrace is added to the search timeout for the request timeout,
// so a search cut short by its own deadline still answers with a result.
const searchTimeoutGrace = 5 * time.Second

// LayoutRoutes mounts the layout API on a router group.
type LayoutRoutes struct {
	handler *Handler
}

// NewLayoutRoutes creates the layout routes for handler.
func NewLayoutRoutes(handler *Handler) *LayoutRoutes {
	return &LayoutRoutes{handler: handler}
}

// RegisterPublicRoutes mounts /layouts without authentication.
func (r *LayoutRoutes) RegisterPublicRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	r.mount(rg.Group("/layouts"), cfg, nil, nil)
}

// RegisterProtectedRoutes mounts /layouts behind API key or bearer token
// authentication and a per-subject weighted rate limit. Bearer tokens need
// layouts:write for searches and imports and layouts:read for everything
// else.
func (r *LayoutRoutes) RegisterProtectedRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	layouts := rg.Group("/layouts", middleware.Authenticate(cfg.APIKeys, cfg.TokenService))
	if cfg.RateLimit > 0 {
		// RateLimit searches per window per subject; reads are cheaper.
		limiter := middleware.NewWeightedRateLimiter(cfg.RateLimit*middleware.SearchCost, cfg.RateWindow, middleware.PlacementCost)
		layouts.Use(limiter.UserRateLimit())
	}

	r.mount(layouts, cfg,
		middleware.RequireScope(dto.ScopeLayoutsWrite),
		middleware.RequireScope(dto.ScopeLayoutsRead),
	)
}

// mount registers every layout endpoint on layouts, guarding writes and reads
// with the given handlers when they are not nil.
func (r *LayoutRoutes) mount(layouts *gin.RouterGroup, cfg *RouterConfig, write, read gin.HandlerFunc) {
	guard := func(scope gin.HandlerFunc, chain ...gin.HandlerFunc) []gin.HandlerFunc {
		if scope == nil {
			return chain
		}
		return append([]gin.HandlerFunc{scope}, chain...)
	}
	timeout := searchTimeout(cfg)
	h := r.handler

	layouts.POST("/search", guard(write, timeout, h.Search)...)
	layouts.POST("/import", guard(write, timeout, h.Import)...)
	layouts.GET("", guard(read, h.ListLayouts)...)
	layouts.GET("/:id", guard(read, h.GetLayout)...)
	layouts.GET("/:id/render", guard(read, h.RenderLayout)...)
	layouts.GET("/:id/history", guard(read, h.LayoutHistory)...)
}

func searchTimeout(cfg *RouterConfig) gin.HandlerFunc {
	var timeout time.Duration
	if cfg != nil && cfg.SearchTimeout > 0 {
		timeout = cfg.SearchTimeout + searchTimeoutGrace
	}
	return middleware.Timeout(timeout)
}
