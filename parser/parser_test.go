package parser

import (
	"bytes"
	"strings"
	"testing"

	"catalog-import-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `Store Export,,,
Product Name,Price,Quantity In Stock,Created
Coca Cola,1.50,24,2024-01-05
Sprite,$1.25,10,2024-02-11
Fanta,1.75,3,2024-03-20
`

func TestParseCSV(t *testing.T) {
	table, suggestions, err := Parse(strings.NewReader(sampleCSV), "products.csv", models.ProductFields)
	assert.NoError(t, err)

	// The single-cell title row is skipped; the header is row 1.
	assert.Equal(t, 1, table.HeaderRowIndex)
	assert.Equal(t, 3, table.TotalRows)
	assert.Len(t, table.Rows, 3)
	assert.Len(t, table.Columns, 4)

	assert.Equal(t, "Product Name", table.Columns[0].Header)
	assert.Equal(t, models.ColumnText, table.Columns[0].DataType)
	assert.Equal(t, models.ColumnNumber, table.Columns[2].DataType)
	assert.Equal(t, models.ColumnDate, table.Columns[3].DataType)

	assert.Equal(t, []string{"Coca Cola", "Sprite", "Fanta"}, table.Columns[0].SampleValues)

	bySource := make(map[int]models.SuggestedMapping)
	for _, s := range suggestions {
		bySource[s.ExcelColumnIndex] = s
	}

	// Exact normalized matches are certainty.
	assert.Equal(t, "name", bySource[0].ProductField)
	assert.Equal(t, 1.0, bySource[0].Confidence)

	// "Price" matches the price field key exactly after normalization.
	assert.Equal(t, "price", bySource[1].ProductField)
	assert.Equal(t, 1.0, bySource[1].Confidence)

	// "Quantity In Stock" is a fuzzy hit on stock_quantity: surfaced, but
	// below the auto-apply threshold.
	assert.Equal(t, "stock_quantity", bySource[2].ProductField)
	assert.Greater(t, bySource[2].Confidence, 0.3)
	assert.Less(t, bySource[2].Confidence, 0.6)
}

func TestParseCSVWithoutTitleRow(t *testing.T) {
	csv := "name,price\nTea,2.50\n"
	table, _, err := Parse(strings.NewReader(csv), "plain.csv", models.ProductFields)
	assert.NoError(t, err)
	assert.Equal(t, 0, table.HeaderRowIndex)
	assert.Equal(t, 1, table.TotalRows)
}

func TestParseEmptyFile(t *testing.T) {
	_, _, err := Parse(strings.NewReader(""), "empty.csv", models.ProductFields)
	assert.Error(t, err)
}

func TestParseMalformedCSV(t *testing.T) {
	_, _, err := Parse(strings.NewReader("a,\"b\nbroken"), "bad.csv", models.ProductFields)
	assert.Error(t, err)
}

func TestParseShortRowsArePadded(t *testing.T) {
	csv := "name,price,category\nTea,2.50\n"
	table, _, err := Parse(strings.NewReader(csv), "short.csv", models.ProductFields)
	assert.NoError(t, err)
	assert.Len(t, table.Rows[0], 3)
	assert.Equal(t, "", table.Rows[0][2])
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows := [][]interface{}{
		{"Product Name", "Price", "Barcode"},
		{"Coca Cola", 1.5, "6.00617E+12"},
		{"Sprite", 1.25, "4890008100309"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		assert.NoError(t, err)
		assert.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	assert.NoError(t, f.Write(&buf))

	table, suggestions, err := Parse(&buf, "products.xlsx", models.ProductFields)
	assert.NoError(t, err)
	assert.Equal(t, 0, table.HeaderRowIndex)
	assert.Equal(t, 2, table.TotalRows)
	assert.Equal(t, "Coca Cola", table.Rows[0][0])
	assert.NotEmpty(t, suggestions)
}

func TestSuggestMappingsSkipsBlankHeaders(t *testing.T) {
	columns := []models.Column{
		{Index: 0, Header: "   "},
		{Index: 1, Header: "SKU"},
	}
	suggestions := SuggestMappings(columns, models.ProductFields)
	assert.Len(t, suggestions, 1)
	assert.Equal(t, 1, suggestions[0].ExcelColumnIndex)
	assert.Equal(t, "sku", suggestions[0].ProductField)
	assert.Equal(t, 1.0, suggestions[0].Confidence)
}
