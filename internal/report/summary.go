package report

import (
	"github.com/a3tai/slip-extractor/internal/extract"
	pdferrors "github.com/a3tai/slip-extractor/internal/pdf/errors"
)

// Summary describes how a batch went
type Summary struct {
	BatchID   string         `json:"batch_id"`
	Documents int            `json:"documents"`
	OK        int            `json:"ok"`
	Partial   int            `json:"partial"`
	Filled    map[string]int `json:"filled"`
	Failures  []Failure      `json:"failures,omitempty"`
}

// Failure is one document that did not extract cleanly
type Failure struct {
	File     string `json:"file"`
	Category string `json:"category"`
	Message  string `json:"message"`
	// PageRead is set when the page was read and only one field was lost
	PageRead bool `json:"page_read"`
}

// Summary counts statuses and the non-empty values of each column
func (t *Table) Summary() Summary {
	s := Summary{
		BatchID:   t.BatchID.String(),
		Documents: len(t.Results),
		Filled:    make(map[string]int, len(t.Columns)),
	}
	for _, c := range t.Columns {
		s.Filled[c.Key()] = 0
	}

	for _, r := range t.Results {
		switch r.Status {
		case extract.StatusOK:
			s.OK++
		case extract.StatusPartial:
			s.Partial++
			category := pdferrors.TypeOf(r.Cause)
			f := Failure{
				File:     r.Record.SourceFilename,
				Category: category.String(),
				PageRead: category.GetSeverity() == pdferrors.SeverityWarning,
			}
			if r.Cause != nil {
				f.Message = r.Cause.Error()
			}
			s.Failures = append(s.Failures, f)
		}

		for _, c := range t.Columns {
			if r.Record.Value(c) != "" {
				s.Filled[c.Key()]++
			}
		}
	}
	return s
}
