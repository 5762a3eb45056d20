// Package importer loads sticker lists from CSV, Excel and DXF files as an
// alternative to the JSON request on stdin. CSV and Excel rows describe
// rectangular stickers; DXF files contribute arbitrary closed outlines.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/nestpack/internal/geom"
	"github.com/piwi3910/nestpack/internal/model"
)

// ImportResult holds the results of an import operation. Items may include
// already-rejected entries when an outline fails validation.
type ImportResult struct {
	Items    []*model.Item
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	ID       int
	Width    int
	Height   int
	Quantity int
}

// headerAliases maps canonical column names to their accepted aliases (all
// lowercase).
var headerAliases = map[string][]string{
	"id":       {"id", "label", "name", "sticker", "part", "description", "desc", "item"},
	"width":    {"width", "w", "length", "len", "x"},
	"height":   {"height", "h", "depth", "d", "y"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
}

// DetectCSVDelimiter determines the most likely CSV delimiter by trying
// comma, semicolon, tab and pipe. The delimiter that produces the most
// consistent multi-column split across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping. Matching
// is case-insensitive against the known aliases. Returns the mapping and
// true if a header was detected, or a positional mapping and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{ID: -1, Width: -1, Height: -1, Quantity: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					switch role {
					case "id":
						if mapping.ID == -1 {
							mapping.ID = i
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
	}

	if !isHeader {
		// Positional fallback: ID, Width, Height, Quantity.
		return ColumnMapping{ID: 0, Width: 1, Height: 2, Quantity: 3}, false
	}

	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts one rectangular sticker description from a row.
// Dimensions are fractional inches. Returns the id, dimensions, quantity
// and an error message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (string, float64, float64, int, string) {
	id := getCell(row, mapping.ID)

	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return "", 0, 0, 0, fmt.Sprintf("%s: Missing width value", rowLabel)
	}
	width, err := strconv.ParseFloat(widthStr, 64)
	if err != nil {
		return "", 0, 0, 0, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr)
	}

	heightStr := getCell(row, mapping.Height)
	if heightStr == "" {
		return "", 0, 0, 0, fmt.Sprintf("%s: Missing height value", rowLabel)
	}
	height, err := strconv.ParseFloat(heightStr, 64)
	if err != nil {
		return "", 0, 0, 0, fmt.Sprintf("%s: Invalid height '%s'", rowLabel, heightStr)
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		qty, err = strconv.Atoi(qtyStr)
		if err != nil {
			return "", 0, 0, 0, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr)
		}
	}

	if width <= 0 || height <= 0 || qty <= 0 {
		return "", 0, 0, 0, fmt.Sprintf("%s: Width, height, and quantity must be positive", rowLabel)
	}

	return id, width, height, qty, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// rectOutline builds an axis-aligned rectangle outline in Units.
func rectOutline(width, height float64) geom.Polygon {
	w := model.ToUnits(width)
	h := model.ToUnits(height)
	return geom.Polygon{
		{X: 0, Y: 0},
		{X: w, Y: 0},
		{X: w, Y: h},
		{X: 0, Y: h},
	}
}

// ImportCSV imports stickers from a CSV file. It automatically detects the
// delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports stickers from a CSV reader with a known
// delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports stickers from an Excel (.xlsx) file. Reads the first
// sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			// Unrecognized header row: skip it but keep positional mapping.
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		id, width, height, qty, errMsg := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}

		if id == "" {
			id = fmt.Sprintf("sticker%d", len(result.Items)+1)
		}
		for q := 0; q < qty; q++ {
			itemID := id
			if qty > 1 {
				itemID = fmt.Sprintf("%s-%d", id, q+1)
			}
			result.Items = append(result.Items,
				model.NewItem(itemID, rectOutline(width, height), len(result.Items)))
		}
	}

	return result
}
