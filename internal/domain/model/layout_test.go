package model

import (
	"testing"
	"time"

	"github.com/guttosm/placement-service/internal/placement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLayoutResult(t *testing.T) {
	tests := []struct {
		name   string
		res    placement.Result
		verify func(*testing.T, LayoutResult)
	}{
		{
			name: "solved run",
			res: placement.Result{
				Status: placement.StatusSolved,
				Placements: []placement.Placement{
					{Item: placement.NewItem(0, 2, 2), Position: placement.Position{X: 0, Y: 0}},
					{Item: placement.NewItem(1, 3, 1), Position: placement.Position{X: 2, Y: 0}, Rotated: true},
				},
				Iterations: 5,
				Expanded:   4,
				Generated:  12,
				Path:       []float64{0, 4.0 / 12.0, 7.0 / 12.0},
				Duration:   1500 * time.Microsecond,
			},
			verify: func(t *testing.T, r LayoutResult) {
				assert.Equal(t, LayoutStatusSolved, r.Status)
				assert.True(t, r.Solved())
				require.Len(t, r.Placements, 2)
				assert.Equal(t, PlacedItem{ID: 1, X: 2, Y: 0, Width: 1, Height: 3, Rotated: true}, r.Placements[1])
				assert.Equal(t, 7, r.OccupiedArea)
				assert.Equal(t, 12, r.TotalArea)
				assert.InDelta(t, 7.0/12.0, r.Utilization, 1e-9)
				assert.Equal(t, 5, r.Iterations)
				assert.InDelta(t, 1.5, r.DurationMs, 1e-9)
				assert.Equal(t, []float64{0, 4.0 / 12.0, 7.0 / 12.0}, r.UtilizationPath)
			},
		},
		{
			name: "exhausted run",
			res: placement.Result{
				Status:         placement.StatusExhausted,
				Placements:     []placement.Placement{},
				BudgetExceeded: true,
			},
			verify: func(t *testing.T, r LayoutResult) {
				assert.Equal(t, LayoutStatusExhausted, r.Status)
				assert.False(t, r.Solved())
				assert.NotNil(t, r.Placements)
				assert.Empty(t, r.Placements)
				assert.True(t, r.BudgetExceeded)
				assert.Equal(t, 0.0, r.Utilization)
				assert.Empty(t, r.UtilizationPath)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewLayoutResult("run-1", 4, 3, tt.res)
			assert.Equal(t, "run-1", r.ID)
			assert.Equal(t, 4, r.AreaWidth)
			assert.Equal(t, 3, r.AreaHeight)
			tt.verify(t, r)
		})
	}
}

func TestLayoutResult_EnginePlacements(t *testing.T) {
	r := LayoutResult{
		AreaWidth:  4,
		AreaHeight: 3,
		Placements: []PlacedItem{
			{ID: 0, X: 0, Y: 0, Width: 2, Height: 2},
			{ID: 1, X: 2, Y: 0, Width: 1, Height: 3, Rotated: true},
		},
	}

	got := r.EnginePlacements()

	require.Len(t, got, 2)
	assert.Equal(t, placement.NewItem(1, 3, 1), got[1].Item)
	assert.Equal(t, 1, got[1].Width())
	assert.Equal(t, 3, got[1].Height())
	assert.NoError(t, placement.Verify(r.AreaWidth, r.AreaHeight, got))
}

func TestLayoutItemsFrom(t *testing.T) {
	items := []placement.Item{placement.NewItem(3, 4, 5), placement.NewItem(4, 2, 2)}

	got := LayoutItemsFrom(items)

	assert.Equal(t, []LayoutItem{{ID: 3, Width: 4, Height: 5}, {ID: 4, Width: 2, Height: 2}}, got)
}
