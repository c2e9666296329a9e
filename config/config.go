// Package config loads the placement service settings from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the complete application configuration.
type Config struct {
	Log      LogConfig
	Server   ServerConfig
	Cache    CacheConfig
	Search   SearchConfig
	Auth     AuthConfig
	Database DatabaseConfig
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string
	Pretty bool
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string
	RateLimit   int
	RateWindow  time.Duration
	CORSOrigins []string
	SwaggerUser string
	SwaggerPass string
	// MaxUploadBytes caps the size of imported item files.
	MaxUploadBytes int64
}

// CacheConfig sizes the layout cache. Size 0 disables it.
type CacheConfig struct {
	Size   int
	TTL    time.Duration
	Shards int
}

// SearchConfig bounds the work a single placement search may do.
type SearchConfig struct {
	MaxIterations int
	Timeout       time.Duration
	FailFast      bool
	MaxAreaCells  int
	MaxItems      int
}

// AuthConfig holds API key and JWT settings.
type AuthConfig struct {
	Enabled bool
	// APIKeys are accepted verbatim.
	APIKeys map[string]bool
	// APIKeyHashes are bcrypt hashes of accepted API keys.
	APIKeyHashes []string
	JWTSecretKey string
	JWTIssuer    string
	// TokenTTL is the lifetime of tokens minted by the key helper script.
	TokenTTL time.Duration
}

// HasAPIKeys reports whether any plain or hashed API key is configured.
func (a AuthConfig) HasAPIKeys() bool {
	return len(a.APIKeys) > 0 || len(a.APIKeyHashes) > 0
}

// DatabaseConfig holds MongoDB settings.
type DatabaseConfig struct {
	Enabled      bool
	URI          string
	DatabaseName string
	MaxPoolSize  int
	// ConnectTimeout bounds the initial connect, ping and index setup.
	ConnectTimeout time.Duration
	LogsTTL        time.Duration
	// LayoutsTTL of zero keeps layouts forever.
	LayoutsTTL time.Duration

	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

const defaultJWTSecret = "your-secret-key-change-in-production"

// ErrInsecureJWTSecret is returned by Validate when auth is enabled with the
// built-in JWT secret.
var ErrInsecureJWTSecret = errors.New("JWT_SECRET_KEY must be set when AUTH_ENABLED is true")

// devOrigins are always allowed by CORS.
var devOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

// Load reads the configuration from the process environment.
func Load() Config {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom reads the configuration through lookup. Unset, empty and
// unparsable values fall back to their defaults.
func LoadFrom(lookup func(string) (string, bool)) Config {
	e := env(lookup)
	return Config{
		Log: LogConfig{
			Level:  e.str("LOG_LEVEL", "info"),
			Pretty: e.bool("LOG_PRETTY", false),
		},
		Server: ServerConfig{
			Port:           e.str("PORT", "8080"),
			RateLimit:      e.int("RATE_LIMIT", 100),
			RateWindow:     e.duration("RATE_WINDOW", time.Minute),
			CORSOrigins:    append(append([]string(nil), devOrigins...), splitList(e.str("CORS_ORIGINS", ""))...),
			SwaggerUser:    e.str("SWAGGER_USER", ""),
			SwaggerPass:    e.str("SWAGGER_PASS", ""),
			MaxUploadBytes: int64(e.int("MAX_UPLOAD_BYTES", 5<<20)),
		},
		Cache: CacheConfig{
			Size:   e.int("CACHE_SIZE", 1000),
			TTL:    e.duration("CACHE_TTL", 5*time.Minute),
			Shards: e.int("CACHE_SHARDS", 16),
		},
		Search: SearchConfig{
			MaxIterations: e.int("SEARCH_MAX_ITERATIONS", 200000),
			Timeout:       e.duration("SEARCH_TIMEOUT", 10*time.Second),
			FailFast:      e.bool("SEARCH_FAIL_FAST", false),
			MaxAreaCells:  e.int("MAX_AREA_CELLS", 10000),
			MaxItems:      e.int("MAX_ITEMS", 64),
		},
		Auth: AuthConfig{
			Enabled:      e.bool("AUTH_ENABLED", false),
			APIKeys:      keySet(splitList(e.str("API_KEYS", ""))),
			APIKeyHashes: splitList(e.str("API_KEY_HASHES", "")),
			JWTSecretKey: e.str("JWT_SECRET_KEY", defaultJWTSecret),
			JWTIssuer:    e.str("JWT_ISSUER", "placement-service"),
			TokenTTL:     e.duration("JWT_TOKEN_TTL", time.Hour),
		},
		Database: DatabaseConfig{
			Enabled:                        e.bool("MONGODB_ENABLED", false),
			URI:                            e.str("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   e.str("MONGODB_DATABASE", "placement_service"),
			MaxPoolSize:                    e.int("MONGODB_MAX_POOL_SIZE", 50),
			ConnectTimeout:                 e.duration("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
			LogsTTL:                        e.duration("MONGODB_LOGS_TTL", 30*24*time.Hour),
			LayoutsTTL:                     e.duration("MONGODB_LAYOUTS_TTL", 0),
			CircuitBreakerFailureThreshold: e.int("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: e.int("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          e.duration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
	}
}

// Validate rejects configurations that must not reach production.
func (c Config) Validate() error {
	if c.Auth.Enabled && c.Auth.JWTSecretKey == defaultJWTSecret {
		return ErrInsecureJWTSecret
	}
	return nil
}

type env func(string) (string, bool)

func (e env) str(key, def string) string {
	if v, ok := e(key); ok && v != "" {
		return v
	}
	return def
}

func parsed[T any](e env, key string, def T, parse func(string) (T, error)) T {
	v := e.str(key, "")
	if v == "" {
		return def
	}
	out, err := parse(v)
	if err != nil {
		return def
	}
	return out
}

func (e env) int(key string, def int) int { return parsed(e, key, def, strconv.Atoi) }

func (e env) bool(key string, def bool) bool { return parsed(e, key, def, strconv.ParseBool) }

func (e env) duration(key string, def time.Duration) time.Duration {
	return parsed(e, key, def, time.ParseDuration)
}

// splitList splits a comma-separated value, trimming and dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func keySet(keys []string) map[string]bool {
	if len(keys) == 0 {
		return nil
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}
