package repository

import (
	"context"
	"errors"

	"github.com/guttosm/placement-service/internal/circuitbreaker"
	"github.com/guttosm/placement-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/mongo"
)

// IsStorageFailure reports whether err says MongoDB itself is unhealthy.
// Duplicate keys are the caller's fault and a canceled request says nothing
// about the server, so neither trips a breaker.
func IsStorageFailure(err error) bool {
	switch {
	case err == nil, errors.Is(err, context.Canceled), mongo.IsDuplicateKeyError(err):
		return false
	default:
		return true
	}
}

// guarded runs fn through cb and returns its result.
func guarded[T any](ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var out T
	err := cb.Execute(ctx, func() error {
		var err error
		out, err = fn()
		return err
	})
	return out, err
}

// LayoutRepositoryWithCircuitBreaker routes every layout call through a
// breaker. An open circuit surfaces as circuitbreaker.ErrCircuitOpen.
type LayoutRepositoryWithCircuitBreaker struct {
	repo LayoutRepositoryInterface
	cb   *circuitbreaker.CircuitBreaker
}

func NewLayoutRepositoryWithCircuitBreaker(repo LayoutRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LayoutRepositoryWithCircuitBreaker {
	return &LayoutRepositoryWithCircuitBreaker{repo: repo, cb: cb}
}

func (r *LayoutRepositoryWithCircuitBreaker) Create(ctx context.Context, layout *model.Layout) error {
	return r.cb.Execute(ctx, func() error { return r.repo.Create(ctx, layout) })
}

func (r *LayoutRepositoryWithCircuitBreaker) GetByRunID(ctx context.Context, runID string) (*model.Layout, error) {
	return guarded(ctx, r.cb, func() (*model.Layout, error) { return r.repo.GetByRunID(ctx, runID) })
}

func (r *LayoutRepositoryWithCircuitBreaker) List(ctx context.Context, opts model.LayoutQueryOptions) ([]model.Layout, error) {
	return guarded(ctx, r.cb, func() ([]model.Layout, error) { return r.repo.List(ctx, opts) })
}

func (r *LayoutRepositoryWithCircuitBreaker) Count(ctx context.Context, opts model.LayoutQueryOptions) (int64, error) {
	return guarded(ctx, r.cb, func() (int64, error) { return r.repo.Count(ctx, opts) })
}

// GetCircuitBreaker exposes the breaker for readiness reporting.
func (r *LayoutRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.cb
}

// LogsRepositoryWithCircuitBreaker routes log calls through a breaker.
// Writes rejected by an open circuit are dropped without error since the
// audit trail must never fail a request; reads still report ErrCircuitOpen.
type LogsRepositoryWithCircuitBreaker struct {
	repo LogsRepositoryInterface
	cb   *circuitbreaker.CircuitBreaker
}

func NewLogsRepositoryWithCircuitBreaker(repo LogsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{repo: repo, cb: cb}
}

func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *LogEntryDocument) error {
	return dropWhenOpen(r.cb.Execute(ctx, func() error { return r.repo.Create(ctx, entry) }))
}

func (r *LogsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*LogEntryDocument) error {
	return dropWhenOpen(r.cb.Execute(ctx, func() error { return r.repo.CreateMany(ctx, entries) }))
}

func (r *LogsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error) {
	return guarded(ctx, r.cb, func() ([]*LogEntryDocument, error) { return r.repo.Query(ctx, opts) })
}

func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts LogQueryOptions) (int64, error) {
	return guarded(ctx, r.cb, func() (int64, error) { return r.repo.Count(ctx, opts) })
}

// GetCircuitBreaker exposes the breaker for readiness reporting.
func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.cb
}

func dropWhenOpen(err error) error {
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}
