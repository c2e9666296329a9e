// Package app provides application initialization and dependency injection.
package app

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/placement-service/config"
	"github.com/guttosm/placement-service/internal/http"
	"github.com/guttosm/placement-service/internal/service"
)

// InitializeApp creates and wires all application dependencies.
// This is the main orchestration function that initializes all components.
func InitializeApp(cfg config.Config) *gin.Engine {
	// Initialize logger first (needed by other components)
	InitializeLogger(cfg.Log)

	// Storage comes before services so searches can persist their layouts.
	dbComponents := InitializeDatabase(cfg.Database)

	var layouts service.LayoutService
	if dbComponents != nil {
		layouts = dbComponents.LayoutService
	}
	serviceComponents := InitializeServices(cfg, layouts)

	routerComponents := InitializeRouter(serviceComponents.Placement, dbComponents, cfg)

	return http.NewRouter(routerComponents.Handler, routerComponents.HealthHandler, routerComponents.Config)
}
