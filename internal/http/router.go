package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/placement-service/internal/metrics"
	"github.com/guttosm/placement-service/internal/middleware"
	"github.com/guttosm/placement-service/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit  int
	RateWindow time.Duration
	// APIKeys holds the accepted API keys; nil or empty disables key auth.
	APIKeys           *middleware.APIKeySet
	EnableAuth        bool
	EnableIdempotency bool
	CORSOrigins       []string
	SwaggerUser       string
	SwaggerPass       string
	LoggingService    service.LoggingService
	// TokenService validates bearer tokens; nil disables JWT auth.
	TokenService middleware.TokenValidator
	// SearchTimeout is the per-search deadline of the placement service.
	SearchTimeout time.Duration
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:  100,
		RateWindow: time.Minute,
		EnableAuth: false,
	}
}

// authRequired reports whether the API group needs credentials.
func (cfg *RouterConfig) authRequired() bool {
	return cfg.EnableAuth && (cfg.TokenService != nil || !cfg.APIKeys.Empty())
}

// loggingServiceKey carries the audit sink from the router to the handlers.
const loggingServiceKey = "logging_service"

// NewRouter builds the engine: health checks, metrics and docs at the root, the
// layout API under /api. A nil handler serves only the infrastructure routes.
func NewRouter(handler *Handler, healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.CORS(cfg.CORSOrigins),
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(cfg.LoggingService),
		middleware.ErrorHandler(),
	)
	if cfg.LoggingService != nil {
		logs := cfg.LoggingService
		router.Use(func(c *gin.Context) {
			c.Set(loggingServiceKey, logs)
		})
	}
	if cfg.RateLimit > 0 {
		router.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow).RateLimit())
	}

	if healthHandler != nil {
		healthHandler.Register(router)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	docs := router.Group("/swagger")
	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		docs.Use(gin.BasicAuth(gin.Accounts{cfg.SwaggerUser: cfg.SwaggerPass}))
	}
	docs.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if handler == nil {
		return router
	}

	api := router.Group("/api")
	if cfg.EnableIdempotency {
		api.Use(middleware.Idempotency(middleware.DefaultIdempotencyConfig()))
	}
	layoutRoutes := NewLayoutRoutes(handler)
	if cfg.authRequired() {
		layoutRoutes.RegisterProtectedRoutes(api, &cfg)
	} else {
		layoutRoutes.RegisterPublicRoutes(api, &cfg)
	}
	return router
}
