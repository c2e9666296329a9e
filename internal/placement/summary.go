package placement

import "fmt"

// Summary is a read-only view over a placement list.
type Summary struct {
	AreaWidth     int     `json:"area_width"`
	AreaHeight    int     `json:"area_height"`
	TotalArea     int     `json:"total_area"`
	OccupiedArea  int     `json:"occupied_area"`
	Utilization   float64 `json:"utilization"`
	Fragmentation float64 `json:"fragmentation"`
	PlacedCount   int     `json:"placed_count"`
}

// OccupiedArea sums the footprint areas.
func OccupiedArea(placements []Placement) int {
	total := 0
	for _, p := range placements {
		total += p.Width() * p.Height()
	}
	return total
}

// Utilization returns the covered fraction of a width x height area, or 0 for
// an empty area.
func Utilization(width, height int, placements []Placement) float64 {
	if width <= 0 || height <= 0 {
		return 0
	}
	return float64(OccupiedArea(placements)) / float64(width*height)
}

// Summarize computes the summary of placements inside a width x height area.
// Placements are assumed to satisfy Verify.
func Summarize(width, height int, placements []Placement) Summary {
	s := Summary{
		AreaWidth:    width,
		AreaHeight:   height,
		TotalArea:    width * height,
		OccupiedArea: OccupiedArea(placements),
		Utilization:  Utilization(width, height, placements),
		PlacedCount:  len(placements),
	}
	if width > 0 && height > 0 {
		s.Fragmentation = Fragmentation(GridFor(width, height, placements))
	}
	return s
}

// GridFor rasterizes placements onto a fresh grid, clipping anything outside.
func GridFor(width, height int, placements []Placement) Grid {
	g := NewGrid(width, height)
	for _, p := range placements {
		for y := max(p.Position.Y, 0); y < min(p.Position.Y+p.Height(), height); y++ {
			for x := max(p.Position.X, 0); x < min(p.Position.X+p.Width(), width); x++ {
				g.cells[y*width+x] = cellOccupied
			}
		}
	}
	return g
}

// Verify checks that every placement lies inside the area and that no two
// placements overlap.
func Verify(width, height int, placements []Placement) error {
	for i, p := range placements {
		if p.Position.X < 0 || p.Position.Y < 0 ||
			p.Position.X+p.Width() > width || p.Position.Y+p.Height() > height {
			return fmt.Errorf("%w: item %d at (%d,%d) size %dx%d in %dx%d area",
				ErrOutOfBounds, p.Item.ID, p.Position.X, p.Position.Y, p.Width(), p.Height(), width, height)
		}
		for _, o := range placements[i+1:] {
			if p.Overlaps(o) {
				return fmt.Errorf("%w: items %d and %d", ErrOverlap, p.Item.ID, o.Item.ID)
			}
		}
	}
	return nil
}
