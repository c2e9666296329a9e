package app

import (
	"github.com/guttosm/placement-service/config"
	"github.com/guttosm/placement-service/internal/logger"
	"github.com/rs/zerolog/log"
)

// InitializeLogger installs the process logger from cfg.
func InitializeLogger(cfg config.LogConfig) {
	logger.Init(cfg.Level, cfg.Pretty)
	log.Debug().Str("level", cfg.Level).Bool("pretty", cfg.Pretty).Msg("Logger initialized")
}
