package export

import (
	"fmt"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Results"

// XLSXExporter renders datasets into a single-sheet workbook.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render writes the metadata block, a bold header row and one row per record. Cells of the
// dataset's numeric columns are stored as numbers so spreadsheets can sort and sum them.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", defaultSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	row := 1
	if data.Title != "" {
		if err := setCell(f, 1, row, data.Title, false); err != nil {
			return nil, err
		}
		row++
	}
	for _, field := range data.Meta {
		if err := setCell(f, 1, row, field.Label, false); err != nil {
			return nil, err
		}
		if err := setCell(f, 2, row, field.Value, false); err != nil {
			return nil, err
		}
		row++
	}
	if row > 1 {
		row++
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	for i, header := range data.Headers {
		if err := setCell(f, i+1, row, header, false); err != nil {
			return nil, err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(data.Headers), row)
	if err := f.SetCellStyle(defaultSheet, first, last, bold); err != nil {
		return nil, fmt.Errorf("style header row: %w", err)
	}
	row++

	for _, record := range data.Rows {
		for i, header := range data.Headers {
			if err := setCell(f, i+1, row, record[header], data.IsNumeric(header)); err != nil {
				return nil, err
			}
		}
		row++
	}

	if len(data.Summary) > 0 {
		row++
		for _, field := range data.Summary {
			if err := setCell(f, 1, row, field.Label, false); err != nil {
				return nil, err
			}
			if err := setCell(f, 2, row, field.Value, false); err != nil {
				return nil, err
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, col, row int, value string, numeric bool) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	var v interface{} = value
	if numeric {
		if n, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			v = n
		}
	}
	if err := f.SetCellValue(defaultSheet, cell, v); err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	return nil
}
