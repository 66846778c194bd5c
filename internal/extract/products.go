package extract

import (
	"fmt"
	"strings"

	"github.com/a3tai/slip-extractor/internal/pdf"
	pdferrors "github.com/a3tai/slip-extractor/internal/pdf/errors"
)

// Position of the product cell in the historical single-item layout
const (
	legacyTable  = 0
	legacyRow    = 1
	legacyColumn = 1
)

// ProductDetail collects the second cell of every qualifying row of every
// table, in encounter order, joined by newlines. A row qualifies when it has
// at least two cells and its second cell is non-empty and is not the product
// name header.
func ProductDetail(tables []pdf.Table) string {
	var items []string
	for _, table := range tables {
		for _, row := range table {
			if len(row) < 2 || row[1] == nil {
				continue
			}
			item := *row[1]
			if item == "" || strings.Contains(item, ProductHeaderToken) {
				continue
			}
			items = append(items, item)
		}
	}
	return strings.TrimSpace(strings.Join(items, "\n"))
}

// LegacyProductDetail reads the single product cell of the historical layout
// and keeps its first line. Any other table shape is a LEGACY_TABLE_SHAPE
// error and yields an empty detail.
func LegacyProductDetail(tables []pdf.Table) (string, error) {
	if len(tables) <= legacyTable {
		return "", legacyShapeError("no tables on page")
	}
	table := tables[legacyTable]
	if len(table) <= legacyRow {
		return "", legacyShapeError(fmt.Sprintf("table has %d rows", len(table)))
	}
	row := table[legacyRow]
	if len(row) <= legacyColumn || row[legacyColumn] == nil {
		return "", legacyShapeError(fmt.Sprintf("row has %d cells", len(row)))
	}

	first, _, _ := strings.Cut(*row[legacyColumn], "\n")
	return strings.TrimSpace(first), nil
}

func legacyShapeError(msg string) *pdferrors.PDFError {
	return pdferrors.NewPDFError(pdferrors.ErrorTypeLegacyTableShape, msg)
}
