// Package model defines the core domain entities for the placement service.
package model

import (
	"time"

	"github.com/guttosm/placement-service/internal/placement"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Layout statuses mirror the terminal engine states.
const (
	LayoutStatusSolved    = "solved"
	LayoutStatusExhausted = "exhausted"
)

// Layout sources record which surface produced a run.
const (
	SourceAPI    = "api"
	SourceImport = "import"
	SourceCLI    = "cli"
)

// LayoutItem is an input rectangle as submitted.
//
// @Description Item dimensions as submitted
type LayoutItem struct {
	ID     int    `json:"id" bson:"id" example:"0"`
	Width  int    `json:"width" bson:"width" example:"3"`
	Height int    `json:"height" bson:"height" example:"2"`
	Label  string `json:"label,omitempty" bson:"label,omitempty" example:"shelf"`
}

// PlacedItem is one placement in a layout. Width and Height are the effective
// dimensions after rotation.
//
// @Description Placed item with its top-left corner and effective size
type PlacedItem struct {
	ID      int  `json:"id" bson:"id" example:"0"`
	X       int  `json:"x" bson:"x" example:"0"`
	Y       int  `json:"y" bson:"y" example:"0"`
	Width   int  `json:"width" bson:"width" example:"2"`
	Height  int  `json:"height" bson:"height" example:"3"`
	Rotated bool `json:"rotated" bson:"rotated" example:"true"`
}

// LayoutResult is the outcome of one search run.
//
// @Description Placement search result
type LayoutResult struct {
	// ID is the run identifier (UUID)
	ID            string       `json:"id" bson:"run_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	AreaWidth     int          `json:"area_width" bson:"area_width" example:"20"`
	AreaHeight    int          `json:"area_height" bson:"area_height" example:"15"`
	Status        string       `json:"status" bson:"status" example:"solved"`
	Placements    []PlacedItem `json:"placements" bson:"placements"`
	OccupiedArea  int          `json:"occupied_area" bson:"occupied_area" example:"120"`
	TotalArea     int          `json:"total_area" bson:"total_area" example:"300"`
	Utilization   float64      `json:"utilization" bson:"utilization" example:"0.4"`
	Fragmentation float64      `json:"fragmentation" bson:"fragmentation" example:"0"`
	// Search statistics
	Iterations     int     `json:"iterations" bson:"iterations" example:"42"`
	Expanded       int     `json:"expanded" bson:"expanded" example:"40"`
	Generated      int     `json:"generated" bson:"generated" example:"900"`
	BudgetExceeded bool    `json:"budget_exceeded" bson:"budget_exceeded" example:"false"`
	DurationMs     float64 `json:"duration_ms" bson:"duration_ms" example:"3.2"`
	// UtilizationPath is the utilization of each state from the empty area to
	// the solution. Empty unless solved.
	UtilizationPath []float64 `json:"utilization_path,omitempty" bson:"utilization_path,omitempty"`
	// Cached is set when the result was served from the result cache
	Cached bool `json:"cached,omitempty" bson:"-"`
}

// Solved reports whether every item was placed.
func (r LayoutResult) Solved() bool {
	return r.Status == LayoutStatusSolved
}

// EnginePlacements converts the placed items back into engine placements. The
// original item dimensions are recovered by undoing the rotation.
func (r LayoutResult) EnginePlacements() []placement.Placement {
	out := make([]placement.Placement, 0, len(r.Placements))
	for _, p := range r.Placements {
		w, h := p.Width, p.Height
		if p.Rotated {
			w, h = h, w
		}
		out = append(out, placement.Placement{
			Item:     placement.NewItem(p.ID, w, h),
			Position: placement.Position{X: p.X, Y: p.Y},
			Rotated:  p.Rotated,
		})
	}
	return out
}

// NewLayoutResult builds a LayoutResult from an engine run.
func NewLayoutResult(id string, width, height int, res placement.Result) LayoutResult {
	summary := placement.Summarize(width, height, res.Placements)

	status := LayoutStatusExhausted
	if res.Solved() {
		status = LayoutStatusSolved
	}

	placed := make([]PlacedItem, 0, len(res.Placements))
	for _, p := range res.Placements {
		placed = append(placed, PlacedItem{
			ID:      p.Item.ID,
			X:       p.Position.X,
			Y:       p.Position.Y,
			Width:   p.Width(),
			Height:  p.Height(),
			Rotated: p.Rotated,
		})
	}

	return LayoutResult{
		ID:              id,
		AreaWidth:       width,
		AreaHeight:      height,
		Status:          status,
		Placements:      placed,
		OccupiedArea:    summary.OccupiedArea,
		TotalArea:       summary.TotalArea,
		Utilization:     summary.Utilization,
		Fragmentation:   summary.Fragmentation,
		Iterations:      res.Iterations,
		Expanded:        res.Expanded,
		Generated:       res.Generated,
		BudgetExceeded:  res.BudgetExceeded,
		DurationMs:      float64(res.Duration.Microseconds()) / 1000,
		UtilizationPath: res.Path,
	}
}

// Layout is the persisted record of a search run.
type Layout struct {
	ObjectID     primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	LayoutResult `bson:",inline"`
	Items        []LayoutItem `bson:"items" json:"items"`
	RequestID    string       `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Source       string       `bson:"source" json:"source" example:"api"`
	CreatedAt    time.Time    `bson:"created_at" json:"created_at"`
}

// LayoutItemsFrom converts engine items to their stored form.
func LayoutItemsFrom(items []placement.Item) []LayoutItem {
	out := make([]LayoutItem, 0, len(items))
	for _, it := range items {
		out = append(out, LayoutItem{ID: it.ID, Width: it.Width, Height: it.Height})
	}
	return out
}

// LayoutQueryOptions provides options for listing layouts.
type LayoutQueryOptions struct {
	Status    string
	RequestID string
	Source    string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
	Skip      int
}
