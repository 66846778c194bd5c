package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/a3tai/slip-extractor/internal/extract"
)

const sheetName = "注文一覧"

// columnWidths are the preferred widths per field; unlisted fields keep the
// default
var columnWidths = map[extract.Field]float64{
	extract.FieldOrderDate:       12,
	extract.FieldOrderID:         18,
	extract.FieldCustomerName:    20,
	extract.FieldDeliveryAddress: 48,
	extract.FieldProductDetail:   40,
	extract.FieldTotalAmount:     14,
	extract.FieldSourceFilename:  32,
}

// WriteXLSX serializes t as a single-sheet workbook with the same header and
// column order as the CSV
func WriteXLSX(w io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("failed to create cell style: %w", err)
	}

	write := func(col, row int, v string) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheetName, cell, v)
	}

	for i, label := range t.Header() {
		if err := write(i+1, 1, label); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for r, row := range t.Rows() {
		for c, v := range row {
			if err := write(c+1, r+2, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", r+1, err)
			}
		}
	}

	if n := len(t.Columns); n > 0 {
		last, err := excelize.ColumnNumberToName(n)
		if err != nil {
			return fmt.Errorf("failed to name column %d: %w", n, err)
		}
		if err := f.SetCellStyle(sheetName, "A1", last+"1", headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
		if rows := len(t.Results); rows > 0 {
			if err := f.SetCellStyle(sheetName, "A2", fmt.Sprintf("%s%d", last, rows+1), wrapStyle); err != nil {
				return fmt.Errorf("failed to style rows: %w", err)
			}
		}
	}

	for i, c := range t.Columns {
		width, ok := columnWidths[c]
		if !ok {
			continue
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to name column %d: %w", i+1, err)
		}
		if err := f.SetColWidth(sheetName, name, name, width); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", name, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
