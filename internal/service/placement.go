package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/placement-service/internal/domain/model"
	"github.com/guttosm/placement-service/internal/logger"
	"github.com/guttosm/placement-service/internal/metrics"
	"github.com/guttosm/placement-service/internal/placement"
	"github.com/guttosm/placement-service/internal/service/cache"
	"github.com/rs/zerolog"
)

// ErrSearchLimit is returned when a request exceeds the configured area or
// item limits.
var ErrSearchLimit = errors.New("search request exceeds limits")

// metrics status label for rejected input
const statusInvalid = "invalid"

// SearchInput describes one placement request.
type SearchInput struct {
	Width  int
	Height int
	Items  []placement.Item
	// MaxIterations overrides the service default when positive.
	MaxIterations int
	// FailFast enables upfront feasibility checks for this request.
	FailFast bool
	// Labels are stored alongside the items; optional.
	Labels    []string
	RequestID string
	Source    string
}

// PlacementService runs placement searches.
type PlacementService interface {
	Search(ctx context.Context, in SearchInput) (model.LayoutResult, error)
	// InvalidateCache drops all cached results.
	InvalidateCache()
}

// PlacementOption configures a PlacementServiceImpl.
type PlacementOption func(*PlacementServiceImpl)

// PlacementServiceImpl runs each search on its own engine, so concurrent calls
// share nothing but the cache and the layout store.
type PlacementServiceImpl struct {
	cache         cache.Cache
	layouts       LayoutService
	maxIterations int
	timeout       time.Duration
	failFast      bool
	maxCells      int
	maxItems      int
	logger        zerolog.Logger
	newID         func() string
}

// NewPlacementService creates a placement service with the given options.
func NewPlacementService(opts ...PlacementOption) *PlacementServiceImpl {
	s := &PlacementServiceImpl{
		logger: logger.Component("placement"),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithCache enables a single-shard result cache holding capacity layouts
// for ttl. Zero or less leaves caching off.
func WithCache(capacity int, ttl time.Duration) PlacementOption {
	return func(s *PlacementServiceImpl) {
		if capacity > 0 {
			s.cache = NewShardedCache(capacity, ttl, 1)
		}
	}
}

// WithCacheInterface allows injecting a custom cache implementation.
func WithCacheInterface(c cache.Cache) PlacementOption {
	return func(s *PlacementServiceImpl) {
		s.cache = c
	}
}

// WithLayoutStore persists every computed layout through ls.
func WithLayoutStore(ls LayoutService) PlacementOption {
	return func(s *PlacementServiceImpl) {
		s.layouts = ls
	}
}

// WithMaxIterations sets the default iteration budget. Zero means unbounded.
func WithMaxIterations(n int) PlacementOption {
	return func(s *PlacementServiceImpl) {
		if n >= 0 {
			s.maxIterations = n
		}
	}
}

// WithSearchTimeout bounds the wall-clock time of a single search.
func WithSearchTimeout(d time.Duration) PlacementOption {
	return func(s *PlacementServiceImpl) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithFailFast turns on feasibility checks for every request.
func WithFailFast(enabled bool) PlacementOption {
	return func(s *PlacementServiceImpl) {
		s.failFast = enabled
	}
}

// WithLimits rejects requests whose area exceeds maxCells or whose item count
// exceeds maxItems. Zero disables a limit.
func WithLimits(maxCells, maxItems int) PlacementOption {
	return func(s *PlacementServiceImpl) {
		s.maxCells = maxCells
		s.maxItems = maxItems
	}
}

// WithPlacementLogger overrides the component logger.
func WithPlacementLogger(l zerolog.Logger) PlacementOption {
	return func(s *PlacementServiceImpl) {
		s.logger = l
	}
}

// Search validates the input, consults the cache and otherwise runs a fresh
// engine. Exhausted searches are results, not errors. Results cut short by the
// budget are neither cached nor reused.
func (s *PlacementServiceImpl) Search(ctx context.Context, in SearchInput) (model.LayoutResult, error) {
	if err := s.checkLimits(in); err != nil {
		metrics.RecordPlacementSearch(0, statusInvalid, 0, 0)
		return model.LayoutResult{}, err
	}

	maxIterations := s.maxIterations
	if in.MaxIterations > 0 {
		maxIterations = in.MaxIterations
	}
	failFast := s.failFast || in.FailFast
	key := CacheKey(in.Width, in.Height, in.Items, maxIterations, failFast)

	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			cached.Cached = true
			return cached, nil
		}
	}

	engineOpts := []placement.Option{
		placement.WithMaxIterations(maxIterations),
		placement.WithLogger(s.logger),
	}
	if failFast {
		engineOpts = append(engineOpts, placement.WithFailFast())
	}

	engine, err := placement.NewEngine(in.Width, in.Height, in.Items, engineOpts...)
	if err != nil {
		metrics.RecordPlacementSearch(0, statusInvalid, 0, 0)
		return model.LayoutResult{}, err
	}

	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := engine.Run(runCtx)
	if err != nil {
		return model.LayoutResult{}, err
	}

	layout := model.NewLayoutResult(s.newID(), in.Width, in.Height, res)
	metrics.RecordPlacementSearch(res.Duration, searchOutcome(res), res.Expanded, layout.Utilization)

	s.logger.Info().
		Str("run_id", layout.ID).
		Str("request_id", in.RequestID).
		Str("status", layout.Status).
		Int("items", len(in.Items)).
		Int("placed", len(layout.Placements)).
		Int("iterations", layout.Iterations).
		Bool("budget_exceeded", layout.BudgetExceeded).
		Float64("utilization", layout.Utilization).
		Msg("placement search completed")

	if s.cache != nil && !res.BudgetExceeded {
		s.cache.Set(key, layout)
		s.reportCacheSize()
	}

	s.persist(ctx, in, layout)
	return layout, nil
}

// persist stores the run. Failures are logged and never fail the search.
func (s *PlacementServiceImpl) persist(ctx context.Context, in SearchInput, layout model.LayoutResult) {
	if s.layouts == nil {
		return
	}

	source := in.Source
	if source == "" {
		source = model.SourceAPI
	}
	record := &model.Layout{
		LayoutResult: layout,
		Items:        model.LayoutItemsFrom(in.Items),
		RequestID:    in.RequestID,
		Source:       source,
		CreatedAt:    time.Now().UTC(),
	}
	for i, label := range in.Labels {
		if i < len(record.Items) {
			record.Items[i].Label = label
		}
	}

	if err := s.layouts.Save(context.WithoutCancel(ctx), record); err != nil {
		s.logger.Warn().Err(err).Str("run_id", layout.ID).Msg("failed to persist layout")
	}
}

func (s *PlacementServiceImpl) checkLimits(in SearchInput) error {
	// Compared by division so oversized sides cannot wrap the product.
	if s.maxCells > 0 && in.Width > 0 && in.Height > 0 && in.Width > s.maxCells/in.Height {
		return fmt.Errorf("%w: area %dx%d exceeds %d cells", ErrSearchLimit, in.Width, in.Height, s.maxCells)
	}
	if s.maxItems > 0 && len(in.Items) > s.maxItems {
		return fmt.Errorf("%w: %d items, limit is %d", ErrSearchLimit, len(in.Items), s.maxItems)
	}
	return nil
}

// InvalidateCache clears the result cache.
func (s *PlacementServiceImpl) InvalidateCache() {
	if s.cache != nil {
		s.cache.Clear()
		s.reportCacheSize()
	}
}

// reportCacheSize publishes the cache gauges when the cache exposes them.
func (s *PlacementServiceImpl) reportCacheSize() {
	if c, ok := s.cache.(cache.CacheWithMetrics); ok {
		m := c.Metrics()
		metrics.UpdateCacheMetrics(m.Size, m.Capacity)
	}
}

func searchOutcome(res placement.Result) string {
	if res.BudgetExceeded {
		return "budget_exceeded"
	}
	return res.Status.String()
}

// CacheKey is the canonical key of a request: the area, each item's
// dimensions in input order, and the budget settings. Item ids are part of the
// key because they label the placements in the result.
func CacheKey(width, height int, items []placement.Item, maxIterations int, failFast bool) string {
	var b strings.Builder
	b.Grow(16 + len(items)*10)
	b.WriteString(strconv.Itoa(width))
	b.WriteByte('x')
	b.WriteString(strconv.Itoa(height))
	b.WriteByte(':')
	for i, it := range items {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(it.ID))
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(it.Width))
		b.WriteByte('x')
		b.WriteString(strconv.Itoa(it.Height))
	}
	b.WriteString("|i=")
	b.WriteString(strconv.Itoa(maxIterations))
	if failFast {
		b.WriteString("|ff")
	}
	return b.String()
}
