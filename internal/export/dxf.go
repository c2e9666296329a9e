package export

import (
	"fmt"
	"os"

	"github.com/guttosm/placement-service/internal/domain/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

// DXF layer names.
const (
	LayerArea  = "AREA"
	LayerItems = "ITEMS"
	LayerLabel = "LABELS"
)

// ExportDXF writes the layout as a DXF drawing: the area outline on the AREA
// layer, one closed polyline per placement on the ITEMS layer and the item
// labels on the LABELS layer. One drawing unit is one grid cell. DXF has Y
// pointing up, so rows are flipped.
func ExportDXF(path string, layout model.LayoutResult) error {
	if layout.AreaWidth <= 0 || layout.AreaHeight <= 0 {
		return ErrEmptyArea
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerArea, color.White, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerArea, err)
	}

	w := float64(layout.AreaWidth)
	h := float64(layout.AreaHeight)
	if _, err := d.LwPolyline(true, rect(0, 0, w, h)...); err != nil {
		return fmt.Errorf("failed to draw area: %w", err)
	}

	if _, err := d.AddLayer(LayerItems, color.Cyan, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerItems, err)
	}
	for _, p := range layout.Placements {
		x := float64(p.X)
		y := h - float64(p.Y+p.Height)
		if _, err := d.LwPolyline(true, rect(x, y, float64(p.Width), float64(p.Height))...); err != nil {
			return fmt.Errorf("failed to draw item %d: %w", p.ID, err)
		}
	}

	if _, err := d.AddLayer(LayerLabel, color.Yellow, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerLabel, err)
	}
	for _, p := range layout.Placements {
		x := float64(p.X) + 0.2
		y := h - float64(p.Y) - 0.8
		if _, err := d.Text(fmt.Sprintf("%d", p.ID+1), x, y, 0, 0.5); err != nil {
			return fmt.Errorf("failed to label item %d: %w", p.ID, err)
		}
	}

	return d.SaveAs(path)
}

// RenderDXF returns the DXF drawing as bytes. The drawing library only writes
// to files, so the bytes go through a temporary file.
func RenderDXF(layout model.LayoutResult) ([]byte, error) {
	f, err := os.CreateTemp("", "layout-*.dxf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	_ = f.Close()
	defer os.Remove(path)

	if err := ExportDXF(path, layout); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// rect returns the four corners of an axis-aligned rectangle, counter-clockwise
// from the lower-left.
func rect(x, y, w, h float64) [][]float64 {
	return [][]float64{
		{x, y},
		{x + w, y},
		{x + w, y + h},
		{x, y + h},
	}
}
