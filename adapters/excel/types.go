package excel

// RawRowData represents a row of raw workbook data as header -> cell text
type RawRowData map[string]string

// SheetData represents the header row and data rows of one sheet
type SheetData struct {
	Headers []string
	Rows    []RawRowData
}

// Sheet name used for exported workbooks
const StatementsSheet = "Income Statements"
