// Package export renders layouts as text grids, PDF reports and DXF drawings.
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/guttosm/placement-service/internal/domain/model"
)

// ErrEmptyArea is returned when a layout has no drawable area.
var ErrEmptyArea = errors.New("layout area is empty")

// cellOwners rasterizes the layout into per-cell placement indexes plus one,
// with 0 for empty cells. Out-of-range footprints are clipped.
func cellOwners(layout model.LayoutResult) [][]int {
	grid := make([][]int, layout.AreaHeight)
	for y := range grid {
		grid[y] = make([]int, layout.AreaWidth)
	}
	for i, p := range layout.Placements {
		for y := max(p.Y, 0); y < min(p.Y+p.Height, layout.AreaHeight); y++ {
			for x := max(p.X, 0); x < min(p.X+p.Width, layout.AreaWidth); x++ {
				grid[y][x] = i + 1
			}
		}
	}
	return grid
}

// WriteText writes the layout as a grid where each covered cell shows the
// item id plus one and empty cells show a dot, followed by a utilization line.
func WriteText(w io.Writer, layout model.LayoutResult) error {
	if layout.AreaWidth <= 0 || layout.AreaHeight <= 0 {
		return ErrEmptyArea
	}

	grid := cellOwners(layout)

	labels := make([]string, len(layout.Placements))
	cellWidth := 1
	for i, p := range layout.Placements {
		labels[i] = strconv.Itoa(p.ID + 1)
		cellWidth = max(cellWidth, len(labels[i]))
	}

	var b strings.Builder
	for _, row := range grid {
		for x, v := range row {
			if x > 0 {
				b.WriteByte(' ')
			}
			label := "."
			if v != 0 {
				label = labels[v-1]
			}
			fmt.Fprintf(&b, "%*s", cellWidth, label)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Utilization: %.2f%% (%d/%d)\n",
		layout.Utilization*100, layout.OccupiedArea, layout.TotalArea)

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderText returns the text rendering of the layout.
func RenderText(layout model.LayoutResult) (string, error) {
	var b strings.Builder
	if err := WriteText(&b, layout); err != nil {
		return "", err
	}
	return b.String(), nil
}
