package excel

import (
	"fmt"
	"io"

	"goincome/domain/statement"

	"github.com/xuri/excelize/v2"
)

// currencyFormat is the custom number format applied to money columns
const currencyFormat = `"$"#,##0`

// WriteStatements writes records to w as an XLSX workbook with one sheet.
// The header row uses the field names so the file can be read back by DataReader.
func WriteStatements(w io.Writer, records []statement.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := StatementsSheet
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	fmtCode := currencyFormat
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &fmtCode})
	if err != nil {
		return fmt.Errorf("failed to create currency style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range statement.Fields {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(statement.Fields), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for r, rec := range records {
		rowIdx := r + 2
		for c, field := range statement.Fields {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
			if field == statement.FieldDate {
				if err := f.SetCellStr(sheet, cell, rec.Date); err != nil {
					return err
				}
				continue
			}
			v, ok := rec.Amount(field)
			if !ok {
				continue
			}
			if err := f.SetCellFloat(sheet, cell, v, -1, 64); err != nil {
				return err
			}
			if field != statement.FieldEPS {
				if err := f.SetCellStyle(sheet, cell, cell, moneyStyle); err != nil {
					return err
				}
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "F", 18); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
