// Package parser turns uploaded CSV/XLSX files into a structured table with
// per-column type inference and suggested column-to-field mappings.
package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"catalog-import-service/models"
	"catalog-import-service/search"

	"github.com/xuri/excelize/v2"
)

const maxSampleValues = 3

// Parse reads an uploaded spreadsheet and returns the parsed table together
// with suggested column-to-field mappings against the given field catalog.
// The file format is chosen by extension: .xlsx goes through excelize,
// everything else is treated as CSV.
func Parse(r io.Reader, filename string, catalog []models.TargetFieldSpec) (*models.ParsedTable, []models.SuggestedMapping, error) {
	var (
		grid [][]string
		err  error
	)
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		grid, err = readXLSX(r)
	} else {
		grid, err = readCSV(r)
	}
	if err != nil {
		return nil, nil, err
	}

	table, err := buildTable(grid)
	if err != nil {
		return nil, nil, err
	}
	return table, SuggestMappings(table.Columns, catalog), nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	var grid [][]string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		grid = append(grid, row)
	}
	return grid, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer file.Close()

	sheetName := file.GetSheetName(file.GetActiveSheetIndex())
	rows, err := file.Rows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	defer rows.Close()

	var grid [][]string
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		grid = append(grid, record)
	}
	return grid, nil
}

// buildTable locates the header row, slices off everything above it, and
// infers per-column types from the data rows.
func buildTable(grid [][]string) (*models.ParsedTable, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("file contains no rows")
	}

	headerIdx := findHeaderRow(grid)
	header := grid[headerIdx]
	dataRows := grid[headerIdx+1:]

	// Pad short rows so positional access stays aligned to column indexes.
	rows := make([][]string, 0, len(dataRows))
	for _, row := range dataRows {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		rows = append(rows, row)
	}

	columns := make([]models.Column, 0, len(header))
	for i, h := range header {
		columns = append(columns, models.Column{
			Index:        i,
			Header:       strings.TrimSpace(h),
			DataType:     inferColumnType(rows, i),
			SampleValues: sampleValues(rows, i),
		})
	}

	return &models.ParsedTable{
		HeaderRowIndex: headerIdx,
		Columns:        columns,
		Rows:           rows,
		TotalRows:      len(rows),
	}, nil
}

// findHeaderRow returns the first row with at least two non-empty cells,
// falling back to row 0. Spreadsheets often carry a title row above the
// actual header.
func findHeaderRow(grid [][]string) int {
	for i, row := range grid {
		nonEmpty := 0
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				nonEmpty++
			}
			if nonEmpty >= 2 {
				return i
			}
		}
	}
	return 0
}

var dateLayouts = []string{
	"2006-01-02", "01/02/2006", "02/01/2006", "2006/01/02", time.RFC3339,
}

func inferColumnType(rows [][]string, col int) models.ColumnType {
	numbers, dates, total := 0, 0, 0
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		total++
		if isNumeric(v) {
			numbers++
		} else if isDate(v) {
			dates++
		}
		if total >= 25 {
			break
		}
	}
	if total == 0 {
		return models.ColumnText
	}
	if numbers*2 > total {
		return models.ColumnNumber
	}
	if dates*2 > total {
		return models.ColumnDate
	}
	return models.ColumnText
}

func isNumeric(v string) bool {
	_, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	return err == nil
}

func isDate(v string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

func sampleValues(rows [][]string, col int) []string {
	var samples []string
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		samples = append(samples, v)
		if len(samples) >= maxSampleValues {
			break
		}
	}
	return samples
}

// SuggestMappings fuzzy-matches column headers against the field catalog and
// proposes the best field per column. An exact normalized match is certainty;
// anything else carries the fuzzy score scaled to [0,1]. Low-confidence
// suggestions are still returned so the user can see them, they just are not
// auto-applied downstream.
func SuggestMappings(columns []models.Column, catalog []models.TargetFieldSpec) []models.SuggestedMapping {
	var suggestions []models.SuggestedMapping
	for _, col := range columns {
		header := normalizeHeader(col.Header)
		if header == "" {
			continue
		}

		bestField := ""
		bestConfidence := 0.0
		for _, field := range catalog {
			confidence := headerConfidence(header, field)
			if confidence > bestConfidence {
				bestConfidence = confidence
				bestField = field.Key
			}
		}
		if bestField == "" {
			continue
		}
		suggestions = append(suggestions, models.SuggestedMapping{
			ExcelColumnIndex: col.Index,
			ProductField:     bestField,
			Confidence:       bestConfidence,
		})
	}
	return suggestions
}

func headerConfidence(header string, field models.TargetFieldSpec) float64 {
	key := strings.ReplaceAll(field.Key, "_", " ")
	label := normalizeHeader(field.Label)
	if header == key || header == label {
		return 1.0
	}

	best := 0.0
	for _, target := range []string{key, label} {
		if res := search.Match(header, target); res.Matches && res.Score/100 > best {
			best = res.Score / 100
		}
	}
	return best
}

// normalizeHeader lower-cases a header and collapses punctuation to spaces.
func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
