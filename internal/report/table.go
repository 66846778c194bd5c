package report

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/a3tai/slip-extractor/internal/extract"
)

// Layout is a column layout of the report
type Layout int

const (
	// LayoutFull carries every field
	LayoutFull Layout = iota
	// LayoutLegacy is the historical reduced layout without the delivery
	// address
	LayoutLegacy
)

// ParseLayout maps "full" and "legacy" to a Layout
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "full", "":
		return LayoutFull, nil
	case "legacy":
		return LayoutLegacy, nil
	default:
		return LayoutFull, fmt.Errorf("unknown layout %q (expected full or legacy)", s)
	}
}

func (l Layout) String() string {
	if l == LayoutLegacy {
		return "legacy"
	}
	return "full"
}

// Fields is the set of columns the layout allows
func (l Layout) Fields() extract.FieldSet {
	if l == LayoutLegacy {
		return extract.AllFields().Without(extract.FieldDeliveryAddress)
	}
	return extract.AllFields()
}

// DefaultFilename is the report file name for the layout and format
func (l Layout) DefaultFilename(f Format) string {
	base := "invoice_list_full"
	if l == LayoutLegacy {
		base = "invoice_list"
	}
	return base + "." + f.String()
}

// Format is a report serialization
type Format int

const (
	// FormatCSV is UTF-8 CSV with a byte order mark
	FormatCSV Format = iota
	// FormatXLSX is an Excel workbook
	FormatXLSX
)

// ParseFormat maps "csv" and "xlsx" to a Format
func ParseFormat(s string) (Format, error) {
	switch s {
	case "csv", "":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return FormatCSV, fmt.Errorf("unknown format %q (expected csv or xlsx)", s)
	}
}

func (f Format) String() string {
	if f == FormatXLSX {
		return "xlsx"
	}
	return "csv"
}

// Table is the aggregated result of a batch: one row per document in input
// order
type Table struct {
	BatchID uuid.UUID
	Columns []extract.Field
	Results []extract.Result
}

// NewTable builds a table over results. Columns follow the display order,
// restricted to the layout, and leave out any field no record carries.
func NewTable(batchID uuid.UUID, layout Layout, results []extract.Result) *Table {
	return &Table{
		BatchID: batchID,
		Columns: selectColumns(layout, results),
		Results: results,
	}
}

func selectColumns(layout Layout, results []extract.Result) []extract.Field {
	allowed := layout.Fields()
	if len(results) == 0 {
		return allowed.Ordered()
	}

	var carried extract.FieldSet
	for _, r := range results {
		carried = carried.Union(r.Record.Present)
	}
	return carried.Intersect(allowed).Ordered()
}

// Records returns the record of every row
func (t *Table) Records() []extract.Record {
	out := make([]extract.Record, 0, len(t.Results))
	for _, r := range t.Results {
		out = append(out, r.Record)
	}
	return out
}

// Header returns the localized column labels
func (t *Table) Header() []string {
	header := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		header = append(header, c.Label())
	}
	return header
}

// Rows returns the cell values of every row in column order
func (t *Table) Rows() [][]string {
	rows := make([][]string, 0, len(t.Results))
	for _, r := range t.Results {
		row := make([]string, 0, len(t.Columns))
		for _, c := range t.Columns {
			row = append(row, r.Record.Value(c))
		}
		rows = append(rows, row)
	}
	return rows
}
