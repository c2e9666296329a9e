package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFragmentation(t *testing.T) {
	ring := NewGrid(3, 3).
		WithFootprintSet(3, 1, 0, 0).
		WithFootprintSet(3, 1, 0, 2).
		WithFootprintSet(1, 1, 0, 1).
		WithFootprintSet(1, 1, 2, 1)

	tests := []struct {
		name string
		grid Grid
		want float64
	}{
		{name: "single empty cell has no neighbours", grid: NewGrid(1, 1), want: 1},
		{name: "single occupied cell", grid: NewGrid(1, 1).WithFootprintSet(1, 1, 0, 0), want: 0},
		{name: "empty grid", grid: NewGrid(2, 2), want: 0},
		{name: "hole surrounded on four sides", grid: ring, want: 1.0 / 9.0},
		{name: "corner pocket", grid: NewGrid(2, 2).WithFootprintSet(1, 1, 1, 0).WithFootprintSet(1, 1, 0, 1), want: 0.5},
		{name: "full grid", grid: NewGrid(2, 2).WithFootprintSet(2, 2, 0, 0), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Fragmentation(tt.grid), 1e-9)
		})
	}
}

func TestScore(t *testing.T) {
	t.Run("empty 1x1 area scores the fragmentation penalty", func(t *testing.T) {
		root := NewRootState(1, 1, nil)
		assert.InDelta(t, 0.3, Score(root), 1e-9)
	})

	t.Run("full area scores -1", func(t *testing.T) {
		root := NewRootState(2, 2, []Item{NewItem(0, 2, 2)})
		full := root.Apply(Candidate{})
		assert.InDelta(t, -1.0, Score(full), 1e-9)
	})

	t.Run("quarter coverage without holes", func(t *testing.T) {
		root := NewRootState(4, 4, []Item{NewItem(0, 2, 2)})
		s := root.Apply(Candidate{})
		assert.InDelta(t, -0.25, Score(s), 1e-9)
	})
}

func TestScore_DependsOnlyOnOccupancy(t *testing.T) {
	items := []Item{NewItem(1, 2, 2), NewItem(2, 2, 2)}
	root := NewRootState(4, 2, items)

	left := root.Apply(Candidate{Position: Position{X: 0, Y: 0}})
	right := root.Apply(Candidate{Position: Position{X: 2, Y: 0}})

	pathA := left.Apply(Candidate{Position: Position{X: 2, Y: 0}})
	pathB := right.Apply(Candidate{Position: Position{X: 0, Y: 0}})

	assert.NotEqual(t, pathA.Placements(), pathB.Placements())
	assert.Equal(t, pathA.Hash(), pathB.Hash())
	assert.Equal(t, Score(pathA), Score(pathB))
}
