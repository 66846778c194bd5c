package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/a3tai/slip-extractor/internal/extract"
)

// utf8BOM lets spreadsheet applications detect the encoding
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV serializes t as UTF-8 CSV with a byte order mark and one header
// row of localized labels
func WriteCSV(w io.Writer, t *Table) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write byte order mark: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows()); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// ReadCSV parses a report written by WriteCSV back into records. Each record
// carries exactly the columns present in the header.
func ReadCSV(r io.Reader) ([]extract.Field, []extract.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("csv has no header row")
	}

	columns := make([]extract.Field, 0, len(rows[0]))
	for _, label := range rows[0] {
		f, ok := extract.ParseField(label)
		if !ok {
			return nil, nil, fmt.Errorf("unknown column %q", label)
		}
		columns = append(columns, f)
	}

	records := make([]extract.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var rec extract.Record
		for i, f := range columns {
			rec.Set(f, row[i])
		}
		records = append(records, rec)
	}
	return columns, records, nil
}
