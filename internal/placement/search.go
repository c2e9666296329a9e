package placement

import (
	"cmp"
	"container/heap"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/zyedidia/generic/mapset"
)

// Status is the lifecycle state of an Engine.
type Status int

const (
	// StatusInitialized means the root state is built and the loop has not started.
	StatusInitialized Status = iota
	// StatusRunning means the search loop is executing.
	StatusRunning
	// StatusSolved means a goal state was popped.
	StatusSolved
	// StatusExhausted means the open set emptied, or the budget ran out, without a goal.
	StatusExhausted
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusInitialized:
		return "initialized"
	case StatusRunning:
		return "running"
	case StatusSolved:
		return "solved"
	case StatusExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Result describes a finished run.
type Result struct {
	Status Status
	// Placements is empty unless Status is StatusSolved.
	Placements []Placement
	// Iterations counts open-set pops.
	Iterations int
	// Expanded counts states added to the closed set.
	Expanded int
	// Generated counts children pushed to the open set.
	Generated int
	// Duplicates counts pops discarded because the state was already closed.
	Duplicates int
	// BudgetExceeded is set when the iteration cap or the context ended the run.
	BudgetExceeded bool
	// Path holds the utilization of each state from the root to the goal.
	Path     []float64
	Duration time.Duration
}

// Solved reports whether a complete placement was found.
func (r Result) Solved() bool {
	return r.Status == StatusSolved
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxIterations caps the number of open-set pops. Zero means no cap.
func WithMaxIterations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// WithFailFast rejects items that fit the area in neither orientation before
// the search starts.
func WithFailFast() Option {
	return func(e *Engine) {
		e.failFast = true
	}
}

// WithLogger sets the logger used to trace the run.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// Engine runs one best-first placement search. An Engine runs once and is not
// safe for concurrent use.
type Engine struct {
	width         int
	height        int
	items         []Item
	root          *SearchState
	status        Status
	maxIterations int
	failFast      bool
	logger        zerolog.Logger
}

// NewEngine validates the input, sorts the items by descending area (stable,
// so equal areas keep input order) and builds the root state.
func NewEngine(width, height int, items []Item, opts ...Option) (*Engine, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: area is %dx%d", ErrInvalidDimension, width, height)
	}
	if areaOverflows(width, height) {
		return nil, fmt.Errorf("%w: area %dx%d overflows", ErrInvalidDimension, width, height)
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, err
		}
	}

	e := &Engine{
		width:  width,
		height: height,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.failFast {
		for _, it := range items {
			if !it.FitsIn(width, height) {
				return nil, fmt.Errorf("%w: item %d is %dx%d, area is %dx%d",
					ErrInfeasibleItem, it.ID, it.Width, it.Height, width, height)
			}
		}
	}

	e.items = SortByArea(items)
	e.root = NewRootState(width, height, e.items)
	e.status = StatusInitialized
	return e, nil
}

// SortByArea returns a copy of items stable-sorted by descending area.
func SortByArea(items []Item) []Item {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Item) int {
		return cmp.Compare(b.Area(), a.Area())
	})
	return sorted
}

// Status returns the engine's lifecycle state.
func (e *Engine) Status() Status { return e.status }



// Run executes the search. Cancellation of ctx and the iteration cap end the
// run with StatusExhausted and an empty placement list; they are not errors.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	if e.status != StatusInitialized {
		return Result{}, ErrEngineUsed
	}
	e.status = StatusRunning
	start := time.Now()

	e.logger.Debug().
		Int("area_width", e.width).
		Int("area_height", e.height).
		Int("items", len(e.items)).
		Msg("placement search started")

	res := e.loop(ctx)
	res.Duration = time.Since(start)
	e.status = res.Status

	e.logger.Debug().
		Str("status", res.Status.String()).
		Int("iterations", res.Iterations).
		Int("expanded", res.Expanded).
		Int("generated", res.Generated).
		Bool("budget_exceeded", res.BudgetExceeded).
		Dur("duration", res.Duration).
		Msg("placement search finished")

	return res, nil
}

func (e *Engine) loop(ctx context.Context) Result {
	var res Result

	rootHash := e.root.Hash()
	accumulated := map[string]float64{rootHash: 0}
	cameFrom := make(map[string]*SearchState)
	closed := mapset.New[string]()

	open := &openSet{}
	var seq uint64
	heap.Push(open, &openEntry{priority: 0, seq: seq, state: e.root})

	for open.Len() > 0 {
		if e.maxIterations > 0 && res.Iterations >= e.maxIterations {
			return exhausted(res, true)
		}
		if ctx.Err() != nil {
			return exhausted(res, true)
		}

		current := heap.Pop(open).(*openEntry).state
		res.Iterations++
		hash := current.Hash()

		if current.IsGoal() {
			res.Status = StatusSolved
			res.Placements = current.Placements()
			res.Path = utilizationPath(current, cameFrom)
			return res
		}

		if closed.Has(hash) {
			res.Duplicates++
			continue
		}
		closed.Put(hash)
		res.Expanded++

		next, ok := current.Next()
		if !ok {
			continue
		}

		base := accumulated[hash]
		for _, c := range Candidates(current, next) {
			child := current.Apply(c)
			childHash := child.Hash()
			if closed.Has(childHash) {
				continue
			}

			childScore := Score(child)
			tentative := base + childScore
			if best, seen := accumulated[childHash]; seen && tentative >= best {
				continue
			}
			accumulated[childHash] = tentative
			cameFrom[childHash] = current

			seq++
			heap.Push(open, &openEntry{priority: tentative + childScore, seq: seq, state: child})
			res.Generated++
		}

		e.logger.Trace().
			Int("iteration", res.Iterations).
			Int("placed", len(current.placements)).
			Int("open", open.Len()).
			Msg("expanded state")
	}

	return exhausted(res, false)
}

func exhausted(res Result, budget bool) Result {
	res.Status = StatusExhausted
	res.Placements = []Placement{}
	res.BudgetExceeded = budget
	return res
}

// utilizationPath walks parent links from the goal back to the root. Each
// parent covers strictly fewer cells than its child, so the walk terminates.
func utilizationPath(goal *SearchState, cameFrom map[string]*SearchState) []float64 {
	path := []float64{goal.Utilization()}
	for s := cameFrom[goal.Hash()]; s != nil; s = cameFrom[s.Hash()] {
		path = append(path, s.Utilization())
	}
	slices.Reverse(path)
	return path
}

// Search places items into a width x height area and returns the placements,
// or an empty slice when no complete placement was found.
func Search(width, height int, items []Item, opts ...Option) ([]Placement, error) {
	e, err := NewEngine(width, height, items, opts...)
	if err != nil {
		return nil, err
	}
	res, err := e.Run(context.Background())
	if err != nil {
		return nil, err
	}
	return res.Placements, nil
}
