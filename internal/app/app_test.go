package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/guttosm/placement-service/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeApp(t *testing.T) {
	tests := []struct {
		name           string
		cfg            config.Config
		headers        map[string]string
		expectedStatus int
	}{
		{
			name: "search without auth",
			cfg: config.Config{
				Server: config.ServerConfig{Port: "8080", RateLimit: 100, RateWindow: time.Minute},
				Cache:  config.CacheConfig{Size: 1000, TTL: 5 * time.Minute},
				Search: config.SearchConfig{MaxIterations: 10000, Timeout: 5 * time.Second},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "auth enabled rejects anonymous search",
			cfg: config.Config{
				Server: config.ServerConfig{Port: "8080"},
				Auth: config.AuthConfig{
					Enabled:      true,
					APIKeys:      map[string]bool{"test-key": true},
					JWTSecretKey: "app-test-secret",
				},
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "auth enabled accepts API key",
			cfg: config.Config{
				Server: config.ServerConfig{Port: "8080"},
				Search: config.SearchConfig{MaxIterations: 10000},
				Auth: config.AuthConfig{
					Enabled:      true,
					APIKeys:      map[string]bool{"test-key": true},
					JWTSecretKey: "app-test-secret",
				},
			},
			headers:        map[string]string{"X-API-Key": "test-key"},
			expectedStatus: http.StatusOK,
		},
		{
			name: "area over the configured limit",
			cfg: config.Config{
				Server: config.ServerConfig{Port: "8080"},
				Search: config.SearchConfig{MaxIterations: 10000, MaxAreaCells: 4},
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := InitializeApp(tt.cfg)
			require.NotNil(t, router)

			body := `{"area":{"width":4,"height":4},"items":[{"width":2,"height":2,"quantity":2}]}`
			req := httptest.NewRequest(http.MethodPost, "/api/layouts/search", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func TestInitializeApp_StorageDisabled(t *testing.T) {
	router := InitializeApp(config.Config{Server: config.ServerConfig{Port: "8080"}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/layouts", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
