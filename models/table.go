package models

// ColumnType is the inferred data type of a spreadsheet column.
type ColumnType string

const (
	ColumnText   ColumnType = "text"
	ColumnNumber ColumnType = "number"
	ColumnDate   ColumnType = "date"
)

// Column describes one column of a parsed spreadsheet.
type Column struct {
	Index        int        `json:"index"`
	Header       string     `json:"header"`
	DataType     ColumnType `json:"data_type"`
	SampleValues []string   `json:"sample_values"`
}

// ParsedTable is the structured result of parsing an uploaded spreadsheet.
// Rows holds only data rows: everything up to and including HeaderRowIndex is
// already sliced off.
type ParsedTable struct {
	HeaderRowIndex int        `json:"header_row_index"`
	Columns        []Column   `json:"columns"`
	Rows           [][]string `json:"rows"`
	TotalRows      int        `json:"total_rows"`
}

// SuggestedMapping is an automatically proposed column-to-field pairing.
// Confidence is in [0,1]; only high-confidence suggestions are auto-applied.
type SuggestedMapping struct {
	ExcelColumnIndex int     `json:"excel_column_index"`
	ProductField     string  `json:"product_field"`
	Confidence       float64 `json:"confidence"`
}
