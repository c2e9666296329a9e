package app

import (
	"github.com/guttosm/placement-service/config"
	"github.com/guttosm/placement-service/internal/http"
	"github.com/guttosm/placement-service/internal/middleware"
	"github.com/guttosm/placement-service/internal/service"
)

// RouterComponents is everything http.NewRouter needs.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter builds the handlers and the router configuration. db may
// be nil when storage is disabled; the layout listing, history and audit
// trail then answer 503 or stay silent. With storage, the log batcher is
// started and the database joins the readiness report.
func InitializeRouter(placement service.PlacementService, db *DatabaseComponents, cfg config.Config) *RouterComponents {
	health := http.NewHealthHandler()
	apiKeys, tokens := initializeAuth(cfg.Auth)

	routerCfg := http.RouterConfig{
		RateLimit:         cfg.Server.RateLimit,
		RateWindow:        cfg.Server.RateWindow,
		EnableAuth:        cfg.Auth.Enabled,
		APIKeys:           apiKeys,
		TokenService:      tokens,
		EnableIdempotency: true,
		CORSOrigins:       cfg.Server.CORSOrigins,
		SwaggerUser:       cfg.Server.SwaggerUser,
		SwaggerPass:       cfg.Server.SwaggerPass,
		SearchTimeout:     cfg.Search.Timeout,
	}

	var layouts service.LayoutService
	if db != nil {
		layouts = db.LayoutService
		routerCfg.LoggingService = db.LoggingService
		registerStorageHealth(health, db)
	}
	if routerCfg.LoggingService != nil {
		middleware.StartLogBatcher(routerCfg.LoggingService, middleware.DefaultLogBatcherConfig())
	}

	return &RouterComponents{
		Handler:       http.NewHandler(placement, layouts, http.WithMaxUploadBytes(cfg.Server.MaxUploadBytes)),
		HealthHandler: health,
		Config:        routerCfg,
	}
}

func registerStorageHealth(health *http.HealthHandler, db *DatabaseComponents) {
	if db.LayoutsCircuitBreaker != nil {
		health.RegisterCircuitBreaker("mongodb_layouts", db.LayoutsCircuitBreaker)
	}
	if db.LogsCircuitBreaker != nil {
		health.RegisterCircuitBreaker("mongodb_logs", db.LogsCircuitBreaker)
	}
	if db.DB != nil {
		health.RegisterChecker("mongodb", http.HealthCheckFunc(db.DB.HealthCheck))
	}
}
