// Package app provides database initialization and setup.
package app

import (
	"context"
	"time"

	"github.com/guttosm/placement-service/config"
	"github.com/guttosm/placement-service/internal/circuitbreaker"
	"github.com/guttosm/placement-service/internal/repository"
	"github.com/guttosm/placement-service/internal/service"
	"github.com/rs/zerolog/log"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB                    *repository.MongoDB
	LayoutService         service.LayoutService
	LoggingService        service.LoggingService
	LayoutsCircuitBreaker *circuitbreaker.CircuitBreaker
	LogsCircuitBreaker    *circuitbreaker.CircuitBreaker
}

// InitializeDatabase initializes MongoDB connection and creates required repositories and services.
// Returns nil if database is disabled or connection fails.
func InitializeDatabase(cfg config.DatabaseConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	db, err := repository.NewMongoDBWithConfig(cfg.URI, cfg.DatabaseName, mongoConfig(cfg))
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without database")
		return nil
	}

	log.Info().Msg("Connected to MongoDB")

	ctx := context.Background()
	if err := db.SetLogsTTL(ctx, ttlDays(cfg.LogsTTL)); err != nil {
		log.Warn().Err(err).Msg("Failed to set logs TTL index (may already exist)")
	}
	if cfg.LayoutsTTL > 0 {
		if err := db.SetLayoutsTTL(ctx, ttlDays(cfg.LayoutsTTL)); err != nil {
			log.Warn().Err(err).Msg("Failed to set layouts TTL index (may already exist)")
		}
	}

	layoutsCB := newCircuitBreaker(cfg, "mongodb-layouts")
	logsCB := newCircuitBreaker(cfg, "mongodb-logs")

	logsRepo := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), logsCB)
	layoutRepo := repository.NewLayoutRepositoryWithCircuitBreaker(repository.NewLayoutRepository(db), layoutsCB)

	return &DatabaseComponents{
		DB:                    db,
		LayoutService:         service.NewLayoutService(layoutRepo),
		LoggingService:        service.NewLoggingService(logsRepo),
		LayoutsCircuitBreaker: layoutsCB,
		LogsCircuitBreaker:    logsCB,
	}
}

func newCircuitBreaker(cfg config.DatabaseConfig, name string) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
		IsFailure:        repository.IsStorageFailure,
	})
}

func mongoConfig(cfg config.DatabaseConfig) repository.MongoConfig {
	mc := repository.DefaultMongoConfig()
	if cfg.MaxPoolSize > 0 {
		mc.MaxPoolSize = uint64(cfg.MaxPoolSize)
		mc.MinPoolSize = min(mc.MinPoolSize, mc.MaxPoolSize)
	}
	if cfg.ConnectTimeout > 0 {
		mc.ConnectTimeout = cfg.ConnectTimeout
	}
	return mc
}

// ttlDays rounds d down to whole days, with a floor of one.
func ttlDays(d time.Duration) int {
	return max(int(d/(24*time.Hour)), 1)
}
