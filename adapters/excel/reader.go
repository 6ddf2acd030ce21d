package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"goincome/domain/statement"
	"goincome/internal"
	"goincome/ports"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading statement workbooks saved as XLSX or CSV.
// The header row uses the upstream field names (date, revenue, netIncome, ...).
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

var _ ports.StatementSource = (*DataReader)(nil)

// NewDataReader creates a reader that picks the format from the file extension
func NewDataReader(filePath string, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: logger.With("DataReader")}
}

// FetchStatements reads the whole file once
func (r *DataReader) FetchStatements(ctx context.Context) ([]statement.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	return ToRecords(data)
}

// ReadData reads the first sheet (or the CSV) into header/row form
func (r *DataReader) ReadData() (*SheetData, error) {
	r.logger.Debug("reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

func (r *DataReader) readExcelData() (*SheetData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	r.logger.Debug("%s read in %s (%d rows)", sheets[0], time.Since(startTime), len(rows))

	return r.processRows(rows)
}

func (r *DataReader) readCSVData() (*SheetData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return r.processRows(rows)
}

// processRows converts raw string rows into SheetData. A header-only file is
// an empty dataset, not an error.
func (r *DataReader) processRows(rows [][]string) (*SheetData, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s file has no header row", strings.ToUpper(r.fileType))
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(RawRowData)
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	r.logger.Debug("%s file processed (%d columns, %d rows)", strings.ToUpper(r.fileType), len(headers), len(dataRows))
	return &SheetData{Headers: headers, Rows: dataRows}, nil
}

// ToRecords maps sheet rows onto statement records. Empty cells are missing
// values; thousands separators and a leading "$" are tolerated.
func ToRecords(data *SheetData) ([]statement.Record, error) {
	hasDate := false
	for _, h := range data.Headers {
		if h == statement.FieldDate {
			hasDate = true
		}
	}
	if !hasDate {
		return nil, fmt.Errorf("missing %q column", statement.FieldDate)
	}

	records := make([]statement.Record, 0, len(data.Rows))
	for i, row := range data.Rows {
		rec := statement.Record{Date: row[statement.FieldDate]}
		for field, dst := range map[string]**float64{
			statement.FieldRevenue:         &rec.Revenue,
			statement.FieldNetIncome:       &rec.NetIncome,
			statement.FieldGrossProfit:     &rec.GrossProfit,
			statement.FieldEPS:             &rec.EPS,
			statement.FieldOperatingIncome: &rec.OperatingIncome,
		} {
			v, err := parseCell(row[field])
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", i+2, field, err)
			}
			*dst = v
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseCell(raw string) (*float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "N/A") {
		return nil, nil
	}
	s = strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", raw)
	}
	return &v, nil
}
