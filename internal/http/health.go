package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/placement-service/internal/circuitbreaker"
	"golang.org/x/sync/errgroup"
)

// DefaultCheckTimeout bounds each readiness check.
const DefaultCheckTimeout = 2 * time.Second

// HealthChecker reports whether a dependency can serve requests.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// HealthCheckFunc adapts a plain function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

// Check calls f.
func (f HealthCheckFunc) Check(ctx context.Context) error {
	return f(ctx)
}

// ReadinessReport is the body of the readiness check.
type ReadinessReport struct {
	Status   string                  `json:"status" example:"ok"`
	Checks   map[string]string       `json:"checks"`
	Circuits map[string]CircuitState `json:"circuits,omitempty"`
}

// CircuitState summarizes one storage circuit breaker.
type CircuitState struct {
	State    string `json:"state" example:"closed"`
	Failures int    `json:"failures"`
	Rejected int64  `json:"rejected"`
}

// HealthHandler serves the liveness and readiness checks.
type HealthHandler struct {
	checkers        map[string]HealthChecker
	circuitBreakers map[string]*circuitbreaker.CircuitBreaker
	checkTimeout    time.Duration
}

// NewHealthHandler creates a HealthHandler with no dependencies.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checkers:        make(map[string]HealthChecker),
		circuitBreakers: make(map[string]*circuitbreaker.CircuitBreaker),
		checkTimeout:    DefaultCheckTimeout,
	}
}

// SetCheckTimeout changes the per-check deadline. Non-positive values are
// ignored.
func (h *HealthHandler) SetCheckTimeout(d time.Duration) {
	if d > 0 {
		h.checkTimeout = d
	}
}

// RegisterChecker adds a dependency to the readiness check.
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker) {
	h.checkers[name] = checker
}

// RegisterCircuitBreaker reports cb in the readiness check. An open breaker
// makes the service not ready.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	h.circuitBreakers[name] = cb
}

// Register registers health endpoints on the router.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness handles the liveness check endpoint.
// @Summary     Liveness check
// @Description Returns OK while the process is running.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string "Service is alive"
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles the readiness check endpoint.
// @Summary     Readiness check
// @Description Runs the registered dependency checks and reports circuit breaker states. Returns 503 when any check fails or a circuit is not closed.
// @Tags        Health
// @Produce     json
// @Success     200 {object} ReadinessReport "Service is ready"
// @Failure     503 {object} ReadinessReport "Service is degraded"
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	report := h.check(c.Request.Context())

	status := http.StatusOK
	if report.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

func (h *HealthHandler) check(ctx context.Context) ReadinessReport {
	report := ReadinessReport{Status: "ok", Checks: make(map[string]string, len(h.checkers))}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for name, checker := range h.checkers {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, h.checkTimeout)
			defer cancel()

			result := "ok"
			if err := checker.Check(cctx); err != nil {
				result = err.Error()
			}

			mu.Lock()
			report.Checks[name] = result
			mu.Unlock()
			// Errors stay in the report so the group never cancels.
			return nil
		})
	}
	_ = g.Wait()

	for _, result := range report.Checks {
		if result != "ok" {
			report.Status = "degraded"
		}
	}

	if len(h.circuitBreakers) > 0 {
		report.Circuits = make(map[string]CircuitState, len(h.circuitBreakers))
	}
	for name, cb := range h.circuitBreakers {
		stats := cb.GetStats()
		report.Circuits[name] = CircuitState{State: stats.State, Failures: stats.FailureCount, Rejected: stats.Rejected}
		if !stats.IsHealthy {
			report.Status = "degraded"
		}
	}

	if len(report.Checks) == 0 && len(report.Circuits) == 0 {
		report.Checks["service"] = "ok"
	}
	return report
}
