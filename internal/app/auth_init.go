// Package app provides authentication initialization.
package app

import (
	"github.com/guttosm/placement-service/config"
	"github.com/guttosm/placement-service/internal/middleware"
	"github.com/guttosm/placement-service/internal/service"
	"github.com/rs/zerolog/log"
)

// initializeAuth builds the credential checks used by the protected routes.
// The token validator is nil unless auth is enabled.
func initializeAuth(cfg config.AuthConfig) (*middleware.APIKeySet, middleware.TokenValidator) {
	keys := middleware.NewAPIKeySet(cfg.APIKeys, cfg.APIKeyHashes)
	if !cfg.Enabled {
		return keys, nil
	}

	tokens := service.NewTokenService(service.NewTokenConfigFromAuthConfig(cfg))
	log.Info().
		Int("api_keys", len(cfg.APIKeys)+len(cfg.APIKeyHashes)).
		Str("issuer", cfg.JWTIssuer).
		Msg("Authentication enabled")

	return keys, tokens
}
