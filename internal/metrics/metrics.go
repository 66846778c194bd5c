// Package metrics counts extraction outcomes for a run and exports them in the
// Prometheus text format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/a3tai/slip-extractor/internal/extract"
	pdferrors "github.com/a3tai/slip-extractor/internal/pdf/errors"
)

const namespace = "slip_extractor"

// Recorder holds the counters of one process. Each Recorder has its own
// registry so tests and runs never share state.
type Recorder struct {
	registry *prometheus.Registry

	documents *prometheus.CounterVec
	failures  *prometheus.CounterVec
	fields    *prometheus.CounterVec
	batches   prometheus.Counter
	duration  prometheus.Gauge
}

// NewRecorder creates a recorder with all collectors registered
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents processed, by extraction status.",
		}, []string{"status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Partial extractions, by error category.",
		}, []string{"category"}),
		fields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fields_filled_total",
			Help:      "Non-empty extracted values, by field.",
		}, []string{"field"}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Batches aggregated.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_batch_duration_seconds",
			Help:      "Wall time of the most recent batch.",
		}),
	}

	r.registry.MustRegister(r.documents, r.failures, r.fields, r.batches, r.duration)
	return r
}

// Observe counts one extraction result
func (r *Recorder) Observe(result extract.Result) {
	r.documents.WithLabelValues(result.Status.String()).Inc()

	if result.Status == extract.StatusPartial {
		r.failures.WithLabelValues(categoryOf(result.Cause)).Inc()
	}

	for _, f := range result.Record.Filled().Ordered() {
		r.fields.WithLabelValues(f.Key()).Inc()
	}
}

// ObserveBatch records that a batch finished after elapsed
func (r *Recorder) ObserveBatch(elapsed time.Duration) {
	r.batches.Inc()
	r.duration.Set(elapsed.Seconds())
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every metric to path in the node exporter textfile
// format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func categoryOf(err error) string {
	if err == nil {
		return "none"
	}
	return pdferrors.TypeOf(err).String()
}
