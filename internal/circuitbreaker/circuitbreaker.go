// Package circuitbreaker guards calls to a flaky dependency such as MongoDB.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/guttosm/placement-service/internal/logger"
	"github.com/guttosm/placement-service/internal/metrics"
	"github.com/rs/zerolog"
)

// ErrCircuitOpen is returned without calling the guarded function while the
// breaker is open, or while a half-open trial is in flight.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is the breaker state.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config holds circuit breaker configuration.
type Config struct {
	// FailureThreshold consecutive failures open the breaker.
	FailureThreshold int
	// SuccessThreshold consecutive half-open successes close it again.
	SuccessThreshold int
	// Timeout is how long the breaker stays open before admitting a trial call.
	Timeout time.Duration
	// Name labels logs and the circuit_breaker_state metric.
	Name string
	// IsFailure decides whether an error counts against the dependency.
	// Nil counts every error except context.Canceled.
	IsFailure func(error) bool
}

// DefaultConfig returns a default circuit breaker configuration.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
		Name:             "circuit-breaker",
	}
}

// CircuitBreaker is a consecutive failure breaker with a single half-open
// trial.
type CircuitBreaker struct {
	config Config
	log    zerolog.Logger
	now    func() time.Time

	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	trialing    bool
	openedAt    time.Time
	lastFailure time.Time
	rejected    int64
}

// New creates a closed circuit breaker.
func New(config Config) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 1
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = defaultIsFailure
	}
	cb := &CircuitBreaker{
		config: config,
		log:    logger.Component("circuitbreaker").With().Str("circuit_breaker", config.Name).Logger(),
		now:    time.Now,
	}
	cb.setState(StateClosed)
	return cb
}

func defaultIsFailure(err error) bool {
	return !errors.Is(err, context.Canceled)
}

// setState changes the state and publishes it. Callers hold cb.mu, except New.
func (cb *CircuitBreaker) setState(s State) {
	cb.state = s
	metrics.SetCircuitBreakerState(cb.config.Name, int(s))
}

// Name returns the configured breaker name.
func (cb *CircuitBreaker) Name() string {
	return cb.config.Name
}

// Execute runs fn unless the breaker refuses it. A context that is already
// done returns its error without calling fn or touching the counters.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	trial, err := cb.admit()
	if err != nil {
		return err
	}

	err = fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if trial {
		cb.trialing = false
	}
	if err != nil && cb.config.IsFailure(err) {
		cb.onFailure()
	} else {
		cb.onSuccess()
	}
	return err
}

// admit decides whether a call may run and whether it is the half-open trial.
func (cb *CircuitBreaker) admit() (trial bool, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.openedAt) < cb.config.Timeout {
			cb.rejected++
			return false, ErrCircuitOpen
		}
		cb.setState(StateHalfOpen)
		cb.successes = 0
		cb.log.Info().Msg("Circuit breaker half-open, admitting a trial call")
		fallthrough
	case StateHalfOpen:
		if cb.trialing {
			cb.rejected++
			return false, ErrCircuitOpen
		}
		cb.trialing = true
		return true, nil
	default:
		return false, nil
	}
}

func (cb *CircuitBreaker) onFailure() {
	cb.failures++
	cb.lastFailure = cb.now()

	switch cb.state {
	case StateClosed:
		if cb.failures >= cb.config.FailureThreshold {
			cb.open()
			cb.log.Warn().Int("failure_count", cb.failures).Msg("Circuit breaker opened")
		}
	case StateHalfOpen:
		cb.open()
		cb.log.Warn().Msg("Circuit breaker trial failed, reopened")
	}
}

func (cb *CircuitBreaker) open() {
	cb.setState(StateOpen)
	cb.openedAt = cb.now()
	cb.successes = 0
}

func (cb *CircuitBreaker) onSuccess() {
	cb.failures = 0
	if cb.state != StateHalfOpen {
		return
	}
	cb.successes++
	if cb.successes >= cb.config.SuccessThreshold {
		cb.setState(StateClosed)
		cb.successes = 0
		cb.log.Info().Msg("Circuit breaker closed")
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// IsOpen reports whether calls are currently refused outright.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.State() == StateOpen
}

// Stats is a snapshot of a breaker.
type Stats struct {
	State        string
	FailureCount int
	SuccessCount int
	Rejected     int64
	LastFailure  time.Time
	IsHealthy    bool
}

// GetStats returns a snapshot of the breaker.
func (cb *CircuitBreaker) GetStats() Stats {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return Stats{
		State:        cb.state.String(),
		FailureCount: cb.failures,
		SuccessCount: cb.successes,
		Rejected:     cb.rejected,
		LastFailure:  cb.lastFailure,
		IsHealthy:    cb.state == StateClosed,
	}
}
