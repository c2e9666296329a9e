package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/guttosm/placement-service/internal/domain/model"
	qrcode "github.com/skip2/go-qrcode"
)

type rgb struct {
	R, G, B int
}

var itemColors = []rgb{
	{R: 76, G: 175, B: 80},
	{R: 33, G: 150, B: 243},
	{R: 255, G: 152, B: 0},
	{R: 156, G: 39, B: 176},
	{R: 0, G: 188, B: 212},
	{R: 244, G: 67, B: 54},
	{R: 255, G: 235, B: 59},
	{R: 121, G: 85, B: 72},
}

// A4 landscape in mm.
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendWidth  = 60.0
	qrSize       = 40.0
	drawAreaTop  = marginTop + headerHeight + 8.0
)

// QRPayload is the layout summary encoded in the report's QR code.
type QRPayload struct {
	ID          string  `json:"id"`
	Width       int     `json:"w"`
	Height      int     `json:"h"`
	Status      string  `json:"status"`
	Placed      int     `json:"placed"`
	Utilization float64 `json:"util"`
}

// NewQRPayload extracts the QR summary from a layout.
func NewQRPayload(layout model.LayoutResult) QRPayload {
	return QRPayload{
		ID:          layout.ID,
		Width:       layout.AreaWidth,
		Height:      layout.AreaHeight,
		Status:      layout.Status,
		Placed:      len(layout.Placements),
		Utilization: math.Round(layout.Utilization*10000) / 10000,
	}
}

// WritePDF renders a single-page report of the layout to w.
func WritePDF(w io.Writer, layout model.LayoutResult) error {
	pdf, err := buildPDF(layout)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// ExportPDF renders the layout report to a file.
func ExportPDF(path string, layout model.LayoutResult) error {
	pdf, err := buildPDF(layout)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

func buildPDF(layout model.LayoutResult) (*fpdf.Fpdf, error) {
	if layout.AreaWidth <= 0 || layout.AreaHeight <= 0 {
		return nil, ErrEmptyArea
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Layout %s (%d x %d)", shortID(layout.ID), layout.AreaWidth, layout.AreaHeight)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Status: %s | Items: %d | Occupied: %d / %d | Utilization: %.1f%% | Fragmentation: %.3f",
		layout.Status, len(layout.Placements), layout.OccupiedArea, layout.TotalArea,
		layout.Utilization*100, layout.Fragmentation)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight - legendWidth - 5
	drawHeight := pageHeight - drawAreaTop - marginBottom
	scale := math.Min(drawWidth/float64(layout.AreaWidth), drawHeight/float64(layout.AreaHeight))

	offsetX := marginLeft
	offsetY := drawAreaTop
	canvasW := float64(layout.AreaWidth) * scale
	canvasH := float64(layout.AreaHeight) * scale

	pdf.SetFillColor(240, 240, 240)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for _, p := range layout.Placements {
		col := itemColors[p.ID%len(itemColors)]
		px := offsetX + float64(p.X)*scale
		py := offsetY + float64(p.Y)*scale
		pw := float64(p.Width) * scale
		ph := float64(p.Height) * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		label := fmt.Sprintf("%d", p.ID+1)
		pdf.SetFont("Helvetica", "B", labelFontSize(pw, ph))
		pdf.SetTextColor(0, 0, 0)
		if lw := pdf.GetStringWidth(label); lw < pw-1 {
			pdf.SetXY(px+(pw-lw)/2, py+ph/2-2)
			pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
		}
	}

	legendX := pageWidth - marginRight - legendWidth
	if err := drawQRCode(pdf, layout, legendX, drawAreaTop); err != nil {
		return nil, err
	}
	drawLegend(pdf, layout, legendX, drawAreaTop+qrSize+5)

	return pdf, pdf.Error()
}

func drawQRCode(pdf *fpdf.Fpdf, layout model.LayoutResult, x, y float64) error {
	data, err := json.Marshal(NewQRPayload(layout))
	if err != nil {
		return fmt.Errorf("failed to marshal QR payload: %w", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("layout_qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("layout_qr", x, y, qrSize, qrSize, false, opts, 0, "")
	return nil
}

func drawLegend(pdf *fpdf.Fpdf, layout model.LayoutResult, x, y float64) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(x, y)
	pdf.CellFormat(legendWidth, 6, "Items", "", 0, "L", false, 0, "")
	y += 7

	pdf.SetFont("Helvetica", "", 8)
	for _, p := range layout.Placements {
		if y > pageHeight-marginBottom-4 {
			pdf.SetXY(x, y)
			pdf.CellFormat(legendWidth, 4, "...", "", 0, "L", false, 0, "")
			return
		}
		col := itemColors[p.ID%len(itemColors)]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(x, y+0.5, 3, 3, "F")

		text := fmt.Sprintf("%d: %dx%d at (%d,%d)", p.ID+1, p.Width, p.Height, p.X, p.Y)
		if p.Rotated {
			text += " R"
		}
		pdf.SetXY(x+5, y)
		pdf.CellFormat(legendWidth-5, 4, text, "", 0, "L", false, 0, "")
		y += 5
	}
}

func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 12
	case minDim > 20:
		return 9
	default:
		return 6
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
