package extract

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/a3tai/slip-extractor/internal/pdf"
	pdferrors "github.com/a3tai/slip-extractor/internal/pdf/errors"
)

// Status says whether a record was extracted without incident
type Status int

const (
	// StatusOK means the page was read and every step ran
	StatusOK Status = iota
	// StatusPartial means a step failed; the record holds what was
	// populated before the failure
	StatusPartial
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusPartial:
		return "partial"
	default:
		return "unknown"
	}
}

// Result is the outcome of extracting one document. Record is always usable
// and always carries the source filename; Cause is set for StatusPartial.
type Result struct {
	Record Record
	Status Status
	Cause  error
}

// PageReader renders the first page of a document
type PageReader interface {
	ReadFirstPage(doc pdf.Document) (*pdf.Page, error)
}

// Checker rejects documents before they are read
type Checker interface {
	Check(doc pdf.Document) error
}

// Extractor turns documents into records. It holds no per-document state and
// is safe to reuse across a batch.
type Extractor struct {
	pages          PageReader
	checker        Checker
	strategy       Strategy
	legacyProducts bool
	logger         *zap.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithStrategy selects the name and address strategy
func WithStrategy(s Strategy) Option {
	return func(e *Extractor) {
		if s != nil {
			e.strategy = s
		}
	}
}

// WithChecker validates each document before it is read
func WithChecker(c Checker) Option {
	return func(e *Extractor) {
		e.checker = c
	}
}

// WithLegacyProducts reads the product from the historical single-cell
// layout instead of scanning every table row
func WithLegacyProducts(enabled bool) Option {
	return func(e *Extractor) {
		e.legacyProducts = enabled
	}
}

// WithLogger sets the logger failures are reported to
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExtractor creates an extractor reading pages through pages
func NewExtractor(pages PageReader, opts ...Option) *Extractor {
	e := &Extractor{
		pages:    pages,
		strategy: LineScan{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strategy returns the configured strategy
func (e *Extractor) Strategy() Strategy {
	return e.strategy
}

// Extract pulls the order fields out of doc. It never fails: any error is
// logged and reported through the result status while the record keeps
// whatever was populated.
func (e *Extractor) Extract(doc pdf.Document) Result {
	record := NewRecord(doc.Name)

	if doc.Err != nil {
		return e.partial(record, doc.Err)
	}

	if e.checker != nil {
		if err := e.checker.Check(doc); err != nil {
			return e.partial(record, err)
		}
	}

	page, err := e.readPage(doc)
	if err != nil {
		return e.partial(record, err)
	}

	extracted := e.strategy.Extract(page.Text, page.Tables)
	extracted.SourceFilename = doc.Name
	extracted.Present = record.Present
	record = extracted

	if e.legacyProducts {
		detail, err := LegacyProductDetail(page.Tables)
		record.ProductDetail = detail
		if err != nil {
			var pdfErr *pdferrors.PDFError
			if errors.As(err, &pdfErr) {
				pdfErr.WithFile(doc.Name)
			}
			return e.partial(record, err)
		}
	}

	return Result{Record: record, Status: StatusOK}
}

// readPage guards the page reader so a panic in any implementation becomes a
// BACKEND_PANIC error
func (e *Extractor) readPage(doc pdf.Document) (page *pdf.Page, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			page = nil
			err = pdferrors.NewPDFError(pdferrors.ErrorTypeBackendPanic, fmt.Sprintf("%v", rec)).WithFile(doc.Name)
		}
	}()

	page, err = e.pages.ReadFirstPage(doc)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeMalformedPage, "reader returned no page").WithFile(doc.Name)
	}
	return page, nil
}

func (e *Extractor) partial(record Record, cause error) Result {
	e.logger.Warn("extraction incomplete",
		zap.String("file", record.SourceFilename),
		zap.Stringer("category", pdferrors.TypeOf(cause)),
		zap.Error(cause),
	)
	return Result{Record: record, Status: StatusPartial, Cause: cause}
}
