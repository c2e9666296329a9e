// Package placement implements the placement search engine: it places a fixed
// sequence of rectangular items into a rectangular area using a best-first
// (A*-style) search over positions and rotations.
//
// Items are consumed strictly in order (after a one-time sort by descending
// area); the search branches only over where the next item goes and whether
// it is rotated. States are immutable once built and each owns its occupancy
// grid, so sibling states never alias.
package placement

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidDimension is returned when the area or an item has a width or
	// height that is not strictly positive.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrInfeasibleItem is returned by fail-fast validation when an item fits
	// the area in neither orientation.
	ErrInfeasibleItem = errors.New("item does not fit the area in any orientation")
	// ErrOutOfBounds is returned by Verify when a placement leaves the area.
	ErrOutOfBounds = errors.New("placement out of bounds")
	// ErrOverlap is returned by Verify when two placements share a cell.
	ErrOverlap = errors.New("placements overlap")
	// ErrEngineUsed is returned when Run is called on an engine that already ran.
	ErrEngineUsed = errors.New("engine already ran")
)

// Item is a rectangle to be placed.
type Item struct {
	ID       int  `json:"id"`
	Width    int  `json:"width"`
	Height   int  `json:"height"`
	IsSquare bool `json:"is_square"`
}

// NewItem creates an item, deriving IsSquare from its dimensions.
func NewItem(id, width, height int) Item {
	return Item{ID: id, Width: width, Height: height, IsSquare: width == height}
}

// Area returns width * height.
func (i Item) Area() int {
	return i.Width * i.Height
}

// Validate reports ErrInvalidDimension for non-positive dimensions, for an
// area that overflows int, and for an IsSquare flag that disagrees with the
// dimensions.
func (i Item) Validate() error {
	if i.Width <= 0 || i.Height <= 0 {
		return fmt.Errorf("%w: item %d is %dx%d", ErrInvalidDimension, i.ID, i.Width, i.Height)
	}
	if areaOverflows(i.Width, i.Height) {
		return fmt.Errorf("%w: item %d area %dx%d overflows", ErrInvalidDimension, i.ID, i.Width, i.Height)
	}
	if i.IsSquare != (i.Width == i.Height) {
		return fmt.Errorf("%w: item %d is %dx%d with is_square=%t", ErrInvalidDimension, i.ID, i.Width, i.Height, i.IsSquare)
	}
	return nil
}

// areaOverflows reports whether width*height exceeds math.MaxInt. Both sides
// must be positive.
func areaOverflows(width, height int) bool {
	return width > math.MaxInt/height
}

// FitsIn reports whether the item fits a width x height area in at least one
// allowed orientation.
func (i Item) FitsIn(width, height int) bool {
	if i.Width <= width && i.Height <= height {
		return true
	}
	return !i.IsSquare && i.Height <= width && i.Width <= height
}

// Position is the top-left corner of a placed item.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Placement binds an item to a position and orientation.
type Placement struct {
	Item     Item     `json:"item"`
	Position Position `json:"position"`
	Rotated  bool     `json:"rotated"`
}

// Width returns the effective width, swapped when rotated.
func (p Placement) Width() int {
	if p.Rotated {
		return p.Item.Height
	}
	return p.Item.Width
}

// Height returns the effective height, swapped when rotated.
func (p Placement) Height() int {
	if p.Rotated {
		return p.Item.Width
	}
	return p.Item.Height
}

// Area returns the footprint size.
func (p Placement) Area() int {
	return p.Item.Area()
}

// Overlaps reports whether two footprints share at least one cell.
func (p Placement) Overlaps(o Placement) bool {
	return p.Position.X < o.Position.X+o.Width() &&
		o.Position.X < p.Position.X+p.Width() &&
		p.Position.Y < o.Position.Y+o.Height() &&
		o.Position.Y < p.Position.Y+p.Height()
}
