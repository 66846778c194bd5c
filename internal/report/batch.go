// Package report aggregates extracted records over a batch of documents and
// serializes the resulting table.
package report

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/a3tai/slip-extractor/internal/extract"
	"github.com/a3tai/slip-extractor/internal/pdf"
)

// Batch is the ordered set of documents processed in one run
type Batch struct {
	ID        uuid.UUID
	Documents []pdf.Document
}

// NewBatch wraps docs in a batch with a fresh ID
func NewBatch(docs []pdf.Document) Batch {
	return Batch{
		ID:        uuid.New(),
		Documents: docs,
	}
}

// Extractor produces one result per document and never fails
type Extractor interface {
	Extract(doc pdf.Document) extract.Result
}

// Observer is told about every result and about the finished batch
type Observer interface {
	Observe(result extract.Result)
	ObserveBatch(elapsed time.Duration)
}

// Aggregator runs an extractor over a batch
type Aggregator struct {
	extractor Extractor
	layout    Layout
	observer  Observer
	logger    *zap.Logger
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithLayout selects the column layout of the resulting table
func WithLayout(l Layout) Option {
	return func(a *Aggregator) {
		a.layout = l
	}
}

// WithObserver reports results to o
func WithObserver(o Observer) Option {
	return func(a *Aggregator) {
		a.observer = o
	}
}

// WithLogger sets the logger batch progress is reported to
func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAggregator creates an aggregator using extractor
func NewAggregator(extractor Extractor, opts ...Option) *Aggregator {
	a := &Aggregator{
		extractor: extractor,
		layout:    LayoutFull,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate extracts every document of batch in order, one row per document.
// Documents are processed one at a time; a failing document only affects its
// own row.
func (a *Aggregator) Aggregate(batch Batch) *Table {
	start := time.Now()
	logger := a.logger.With(zap.Stringer("batch", batch.ID))
	logger.Info("batch started", zap.Int("documents", len(batch.Documents)))

	results := make([]extract.Result, 0, len(batch.Documents))
	for i, doc := range batch.Documents {
		result := a.extractor.Extract(doc)
		results = append(results, result)

		if a.observer != nil {
			a.observer.Observe(result)
		}
		logger.Debug("document extracted",
			zap.Int("index", i),
			zap.String("file", doc.Name),
			zap.Stringer("status", result.Status),
		)
	}

	table := NewTable(batch.ID, a.layout, results)

	elapsed := time.Since(start)
	if a.observer != nil {
		a.observer.ObserveBatch(elapsed)
	}

	summary := table.Summary()
	logger.Info("batch finished",
		zap.Int("documents", summary.Documents),
		zap.Int("ok", summary.OK),
		zap.Int("partial", summary.Partial),
		zap.Duration("elapsed", elapsed),
	)

	return table
}
