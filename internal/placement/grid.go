package placement

import "slices"

const (
	cellEmpty    byte = 0
	cellOccupied byte = 1
)

// Grid is a fixed-size occupancy surface stored row-major, one byte per cell.
// Grids are values: WithFootprintSet returns a new grid and never touches the
// receiver's storage.
type Grid struct {
	width  int
	height int
	cells  []byte
}

// NewGrid returns an empty grid.
func NewGrid(width, height int) Grid {
	return Grid{
		width:  width,
		height: height,
		cells:  make([]byte, width*height),
	}
}

// Width returns the number of columns.
func (g Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g Grid) Height() int { return g.height }

// Size returns the number of cells.
func (g Grid) Size() int { return len(g.cells) }

// Occupied reports whether cell (x, y) is covered. Out-of-range cells report false.
func (g Grid) Occupied(x, y int) bool {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return false
	}
	return g.cells[y*g.width+x] == cellOccupied
}

// OccupiedCount returns the number of covered cells.
func (g Grid) OccupiedCount() int {
	n := 0
	for _, c := range g.cells {
		if c == cellOccupied {
			n++
		}
	}
	return n
}

// CanPlace reports whether a width x height footprint anchored at (x, y) lies
// inside the grid and covers only empty cells.
func (g Grid) CanPlace(width, height, x, y int) bool {
	if width <= 0 || height <= 0 || x < 0 || y < 0 {
		return false
	}
	if x+width > g.width || y+height > g.height {
		return false
	}
	for row := y; row < y+height; row++ {
		start := row*g.width + x
		for _, c := range g.cells[start : start+width] {
			if c == cellOccupied {
				return false
			}
		}
	}
	return true
}

// WithFootprintSet returns a copy of the grid with the footprint cells marked
// occupied. The footprint must lie inside the grid.
func (g Grid) WithFootprintSet(width, height, x, y int) Grid {
	cells := slices.Clone(g.cells)
	for row := y; row < y+height; row++ {
		start := row*g.width + x
		for i := start; i < start+width; i++ {
			cells[i] = cellOccupied
		}
	}
	return Grid{width: g.width, height: g.height, cells: cells}
}

// Key returns the canonical content key of the grid: the raw cell values in
// row-major order. Two grids with identical occupancy always share a key.
func (g Grid) Key() string {
	return string(g.cells)
}
