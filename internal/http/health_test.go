package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/placement-service/internal/circuitbreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyz(t *testing.T, handler *HealthHandler) (int, ReadinessReport) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler.Register(router)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var report ReadinessReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	return w.Code, report
}

func openBreaker(t *testing.T) *circuitbreaker.CircuitBreaker {
	cb := circuitbreaker.New(circuitbreaker.Config{Name: "test", FailureThreshold: 1, Timeout: time.Hour})
	require.Error(t, cb.Execute(context.Background(), func() error { return errors.New("down") }))
	return cb
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := HealthCheckFunc(func(context.Context) error { return nil })

	tests := []struct {
		name       string
		setup      func(*HealthHandler)
		wantStatus int
		check      func(*testing.T, ReadinessReport)
	}{
		{
			name:       "no dependencies",
			setup:      func(*HealthHandler) {},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, r ReadinessReport) {
				assert.Equal(t, map[string]string{"service": "ok"}, r.Checks)
			},
		},
		{
			name:       "healthy checker",
			setup:      func(h *HealthHandler) { h.RegisterChecker("mongodb", ok) },
			wantStatus: http.StatusOK,
			check: func(t *testing.T, r ReadinessReport) {
				assert.Equal(t, "ok", r.Checks["mongodb"])
			},
		},
		{
			name: "one failing checker",
			setup: func(h *HealthHandler) {
				h.RegisterChecker("mongodb", HealthCheckFunc(func(context.Context) error { return errors.New("ping failed") }))
				h.RegisterChecker("cache", ok)
			},
			wantStatus: http.StatusServiceUnavailable,
			check: func(t *testing.T, r ReadinessReport) {
				assert.Equal(t, "degraded", r.Status)
				assert.Equal(t, "ping failed", r.Checks["mongodb"])
				assert.Equal(t, "ok", r.Checks["cache"])
			},
		},
		{
			name: "closed circuit",
			setup: func(h *HealthHandler) {
				h.RegisterCircuitBreaker("layouts", circuitbreaker.New(circuitbreaker.DefaultConfig()))
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, r ReadinessReport) {
				assert.Equal(t, "closed", r.Circuits["layouts"].State)
				assert.NotContains(t, r.Checks, "service")
			},
		},
		{
			name: "open circuit",
			setup: func(h *HealthHandler) {
				h.RegisterCircuitBreaker("layouts", openBreaker(t))
			},
			wantStatus: http.StatusServiceUnavailable,
			check: func(t *testing.T, r ReadinessReport) {
				assert.Equal(t, "degraded", r.Status)
				assert.Equal(t, "open", r.Circuits["layouts"].State)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler()
			tt.setup(handler)

			code, report := readyz(t, handler)

			assert.Equal(t, tt.wantStatus, code)
			tt.check(t, report)
		})
	}
}

func TestHealthHandler_CheckTimeout(t *testing.T) {
	handler := NewHealthHandler()
	handler.SetCheckTimeout(20 * time.Millisecond)
	handler.RegisterChecker("slow", HealthCheckFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	start := time.Now()
	code, report := readyz(t, handler)

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, context.DeadlineExceeded.Error(), report.Checks["slow"])
}

func TestHealthHandler_ChecksRunConcurrently(t *testing.T) {
	handler := NewHealthHandler()
	release := make(chan struct{})
	// Each check blocks until both have started.
	arrived := make(chan struct{}, 2)
	handler.RegisterChecker("a", HealthCheckFunc(func(context.Context) error {
		arrived <- struct{}{}
		<-release
		return nil
	}))
	handler.RegisterChecker("b", HealthCheckFunc(func(context.Context) error {
		arrived <- struct{}{}
		<-release
		return nil
	}))
	go func() {
		<-arrived
		<-arrived
		close(release)
	}()

	code, report := readyz(t, handler)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]string{"a": "ok", "b": "ok"}, report.Checks)
}

func TestHealthHandler_Liveness(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	NewHealthHandler().Register(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
