package placement

import "slices"

// SearchState is an immutable snapshot of a partially filled area.
type SearchState struct {
	areaWidth  int
	areaHeight int
	placements []Placement
	remaining  []Item
	grid       Grid
}

// NewRootState builds the initial state: no placements, every item remaining
// in the given order, and an empty grid.
func NewRootState(width, height int, items []Item) *SearchState {
	return &SearchState{
		areaWidth:  width,
		areaHeight: height,
		remaining:  slices.Clone(items),
		grid:       NewGrid(width, height),
	}
}

// AreaWidth returns the area width.
func (s *SearchState) AreaWidth() int { return s.areaWidth }

// AreaHeight returns the area height.
func (s *SearchState) AreaHeight() int { return s.areaHeight }

// Grid returns the occupancy grid. Callers must not modify it.
func (s *SearchState) Grid() Grid { return s.grid }

// Placements returns a copy of the placements in placement order.
func (s *SearchState) Placements() []Placement {
	return slices.Clone(s.placements)
}

// Remaining returns a copy of the items not yet placed.
func (s *SearchState) Remaining() []Item {
	return slices.Clone(s.remaining)
}

// Next returns the head of the remaining items.
func (s *SearchState) Next() (Item, bool) {
	if len(s.remaining) == 0 {
		return Item{}, false
	}
	return s.remaining[0], true
}

// IsGoal reports whether every item has been placed.
func (s *SearchState) IsGoal() bool {
	return len(s.remaining) == 0
}

// OccupiedArea is the summed footprint area of all placements.
func (s *SearchState) OccupiedArea() int {
	return OccupiedArea(s.placements)
}

// Utilization is the occupied fraction of the area.
func (s *SearchState) Utilization() float64 {
	return float64(s.OccupiedArea()) / float64(s.areaWidth*s.areaHeight)
}

// Hash returns the canonical hash of the state. It depends only on the
// occupancy content, so different histories covering the same cells collide.
func (s *SearchState) Hash() string {
	return s.grid.Key()
}

// Apply derives the child state that places the head item at the candidate.
// The receiver is left untouched; the child owns fresh slices and a fresh grid.
func (s *SearchState) Apply(c Candidate) *SearchState {
	item := s.remaining[0]
	p := Placement{Item: item, Position: c.Position, Rotated: c.Rotated}

	placements := make([]Placement, len(s.placements), len(s.placements)+1)
	copy(placements, s.placements)
	placements = append(placements, p)

	return &SearchState{
		areaWidth:  s.areaWidth,
		areaHeight: s.areaHeight,
		placements: placements,
		remaining:  slices.Clone(s.remaining[1:]),
		grid:       s.grid.WithFootprintSet(p.Width(), p.Height(), c.Position.X, c.Position.Y),
	}
}
