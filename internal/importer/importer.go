// Package importer reads item lists from CSV and Excel files. It detects the
// CSV delimiter, maps columns by header name (case-insensitive, with aliases)
// and falls back to a positional layout when no header is present.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/guttosm/placement-service/internal/placement"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned by Import for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ImportResult holds the items read from a file. Errors lists rows that were
// rejected; the remaining rows are still returned.
type ImportResult struct {
	Items []placement.Item
	// Labels holds the optional label of each item, index-aligned with Items.
	Labels   []string
	Errors   []string
	Warnings []string
}

// OK reports whether the import produced items without row errors.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0 && len(r.Items) > 0
}

// Err folds the row errors into a single error, or returns nil.
func (r ImportResult) Err() error {
	if len(r.Errors) == 0 {
		if len(r.Items) == 0 {
			return errors.New("no items found")
		}
		return nil
	}
	return errors.New(strings.Join(r.Errors, "; "))
}

// ColumnMapping maps column roles to indices. -1 marks an absent column.
type ColumnMapping struct {
	Label    int
	Width    int
	Height   int
	Quantity int
}

var headerAliases = map[string][]string{
	"label":    {"label", "name", "id", "item", "description", "desc", "piece"},
	"width":    {"width", "w", "length", "len", "x"},
	"height":   {"height", "h", "depth", "d", "y"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs"},
}

// DetectCSVDelimiter picks the delimiter among comma, semicolon, tab and pipe
// that yields the most consistent multi-column rows.
func DetectCSVDelimiter(data []byte) rune {
	best := ','
	bestScore := 0

	for _, delim := range []rune{',', ';', '\t', '|'} {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) == 0 {
			continue
		}
		cols := len(records[0])
		if cols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == cols {
				score++
			}
		}
		if weighted := score*10 + cols; weighted > bestScore {
			bestScore = weighted
			best = delim
		}
	}

	return best
}

// DetectColumns maps a header row. When no cell matches a known alias the row
// is not a header and the positional mapping (width, height, quantity, label)
// is returned with false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Width: -1, Height: -1, Quantity: -1}
	isHeader := false

	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "label":
					if mapping.Label == -1 {
						mapping.Label = i
					}
				case "width":
					if mapping.Width == -1 {
						mapping.Width = i
					}
				case "height":
					if mapping.Height == -1 {
						mapping.Height = i
					}
				case "quantity":
					if mapping.Quantity == -1 {
						mapping.Quantity = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Width: 0, Height: 1, Quantity: 2, Label: 3}, false
	}
	return mapping, true
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseSide accepts integers and integral decimals such as "3.0".
func parseSide(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}

type row struct {
	label    string
	width    int
	height   int
	quantity int
}

func parseRow(cells []string, mapping ColumnMapping, rowLabel string) (row, string) {
	r := row{label: getCell(cells, mapping.Label), quantity: 1}

	widthStr := getCell(cells, mapping.Width)
	if widthStr == "" {
		return row{}, fmt.Sprintf("%s: missing width", rowLabel)
	}
	w, err := parseSide(widthStr)
	if err != nil {
		return row{}, fmt.Sprintf("%s: invalid width '%s'", rowLabel, widthStr)
	}

	heightStr := getCell(cells, mapping.Height)
	if heightStr == "" {
		return row{}, fmt.Sprintf("%s: missing height", rowLabel)
	}
	h, err := parseSide(heightStr)
	if err != nil {
		return row{}, fmt.Sprintf("%s: invalid height '%s'", rowLabel, heightStr)
	}

	if qtyStr := getCell(cells, mapping.Quantity); qtyStr != "" {
		q, err := strconv.Atoi(qtyStr)
		if err != nil {
			return row{}, fmt.Sprintf("%s: invalid quantity '%s'", rowLabel, qtyStr)
		}
		r.quantity = q
	}

	if w <= 0 || h <= 0 || r.quantity <= 0 {
		return row{}, fmt.Sprintf("%s: width, height and quantity must be positive", rowLabel)
	}

	r.width, r.height = w, h
	return r, ""
}

func isEmptyRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// fromRows is the shared logic for CSV and Excel data. Quantities expand into
// repeated items; ids are assigned from 0 in file order.
func fromRows(rows [][]string, rowPrefix string, warnings []string) ImportResult {
	result := ImportResult{Warnings: warnings}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "no data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	start := 0
	if hasHeader {
		start = 1
		var missing []string
		if mapping.Width == -1 {
			missing = append(missing, "width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if _, err := parseSide(getCell(rows[0], 0)); err != nil && len(rows[0]) >= 2 {
		start = 1
		result.Warnings = append(result.Warnings, "unrecognized header row skipped")
	}

	for i := start; i < len(rows); i++ {
		if isEmptyRow(rows[i]) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		r, errMsg := parseRow(rows[i], mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		for range r.quantity {
			result.Items = append(result.Items, placement.NewItem(len(result.Items), r.width, r.height))
			result.Labels = append(result.Labels, r.label)
		}
	}

	if len(result.Items) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "no items found")
	}
	return result
}

// ParseCSV reads items from CSV data, detecting the delimiter.
func ParseCSV(r io.Reader) ImportResult {
	data, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("cannot read CSV: %v", err)}}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{Errors: []string{"file is empty"}}
	}

	var warnings []string
	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		name := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("detected %s delimiter", name))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("cannot read CSV: %v", err)}, Warnings: warnings}
	}

	return fromRows(records, "line", warnings)
}

// ImportCSV reads items from a CSV file.
func ImportCSV(path string) ImportResult {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("cannot open file: %v", err)}}
	}
	defer f.Close()
	return ParseCSV(f)
}

// ParseExcel reads items from the first sheet of an XLSX document.
func ParseExcel(r io.Reader) ImportResult {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("cannot open Excel data: %v", err)}}
	}
	defer f.Close()
	return fromWorkbook(f)
}

// ImportExcel reads items from the first sheet of an XLSX file.
func ImportExcel(path string) ImportResult {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("cannot open Excel file: %v", err)}}
	}
	defer f.Close()
	return fromWorkbook(f)
}

func fromWorkbook(f *excelize.File) ImportResult {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{Errors: []string{"workbook has no sheets"}}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("cannot read sheet %q: %v", sheets[0], err)}}
	}
	if len(rows) == 0 {
		return ImportResult{Errors: []string{"sheet is empty"}}
	}

	return fromRows(rows, "row", nil)
}

// Import dispatches on the file extension of name.
func Import(name string, r io.Reader) (ImportResult, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", ".tsv":
		return ParseCSV(r), nil
	case ".xlsx", ".xlsm":
		return ParseExcel(r), nil
	default:
		return ImportResult{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}
