//go:build !integration

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/placement-service/internal/domain/model"
	"github.com/guttosm/placement-service/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func Test_getLogLevel(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   string
	}{
		{statusCode: 200, expected: "info"},
		{statusCode: 301, expected: "info"},
		{statusCode: 404, expected: "warn"},
		{statusCode: 422, expected: "warn"},
		{statusCode: 500, expected: "error"},
		{statusCode: 503, expected: "error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, getLogLevel(tt.statusCode), "status %d", tt.statusCode)
	}
}

func TestIsUnloggedPath(t *testing.T) {
	assert.True(t, isUnloggedPath("/healthz"))
	assert.True(t, isUnloggedPath("/readyz"))
	assert.True(t, isUnloggedPath("/metrics"))
	assert.True(t, isUnloggedPath("/swagger/index.html"))
	assert.False(t, isUnloggedPath("/api/layouts/search"))
}

func TestRequestLogger_StoresEntry(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name          string
		status        int
		authenticated bool
		expectedLevel string
	}{
		{name: "solved search", status: http.StatusOK, expectedLevel: "info"},
		{name: "infeasible item", status: http.StatusUnprocessableEntity, expectedLevel: "warn"},
		{name: "storage failure", status: http.StatusInternalServerError, expectedLevel: "error"},
		{name: "authenticated caller", status: http.StatusOK, authenticated: true, expectedLevel: "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := mocks.NewMockLoggingService(t)
			stored := make(chan *model.LogEntry, 1)
			sink.On("CreateLog", mock.Anything, mock.AnythingOfType("*model.LogEntry")).
				Return(nil).
				Run(func(args mock.Arguments) { stored <- args.Get(1).(*model.LogEntry) }).
				Once()

			router := gin.New()
			router.Use(RequestID(), func(c *gin.Context) {
				if tt.authenticated {
					c.Set(string(AuthSubjectKey), "ci-bot")
					c.Set(string(AuthMethodKey), AuthMethodAPIKey)
				}
				c.Next()
			}, RequestLogger(sink))
			router.POST("/api/layouts/search", func(c *gin.Context) {
				c.Status(tt.status)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/layouts/search", nil)
			req.Header.Set(RequestIDHeader, "req-42")
			req.Header.Set("User-Agent", "placectl/1")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			require.Equal(t, tt.status, w.Code)

			var entry *model.LogEntry
			select {
			case entry = <-stored:
			case <-time.After(time.Second):
				t.Fatal("request entry was not stored")
			}
			assert.Equal(t, tt.expectedLevel, entry.Level)
			assert.Equal(t, "req-42", entry.RequestID)
			assert.Equal(t, http.MethodPost, entry.Method)
			assert.Equal(t, "/api/layouts/search", entry.Path)
			assert.Equal(t, tt.status, entry.StatusCode)
			assert.Equal(t, "placectl/1", entry.UserAgent)
			if tt.authenticated {
				assert.Equal(t, "ci-bot", entry.Subject)
				assert.Equal(t, AuthMethodAPIKey, entry.AuthMethod)
			} else {
				assert.Empty(t, entry.Subject)
			}
		})
	}
}

func TestRequestLogger_SkipsHealthChecks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sink := mocks.NewMockLoggingService(t)

	router := gin.New()
	router.Use(RequestID(), RequestLogger(sink))
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/readyz", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	time.Sleep(20 * time.Millisecond)
	sink.AssertNotCalled(t, "CreateLog", mock.Anything, mock.Anything)
}

func TestRequestLogger_NilService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger(nil))
	router.GET("/api/layouts", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/layouts", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
