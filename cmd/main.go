// Package main is the entry point for the placement-service application.
//
// @title           Placement Service API
// @version         1.0.0
// @description     API for packing rectangles into a grid area with a best-first search.
//
//	Items may be rotated; requests without a complete layout return status exhausted.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/placement-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for authentication. Required if authentication is enabled.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 JWT bearer token. Use "Bearer <token>". Tokens carry layouts:read and layouts:write scopes.
//
// @tag.name        Layouts
// @tag.description Layout search, storage and rendering
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/guttosm/placement-service/docs" // swagger docs

	"github.com/guttosm/placement-service/config"
	"github.com/guttosm/placement-service/internal/app"
	"github.com/guttosm/placement-service/internal/middleware"
	"github.com/rs/zerolog/log"
)

// writeTimeoutGrace keeps the connection open past the search deadline.
const writeTimeoutGrace = 10 * time.Second

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	router := app.InitializeApp(cfg)
	server := app.NewServer(router, cfg.Server.Port,
		app.WithWriteTimeout(cfg.Search.Timeout+writeTimeoutGrace),
		app.WithShutdownHook(middleware.StopLogBatcher),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
