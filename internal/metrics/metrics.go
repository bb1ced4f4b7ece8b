// Package metrics counts what parse runs produce: documents, nodes by
// type and diagnostics by kind.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/open-cli-collective/manscope/pkg/man"
)

// Recorder holds the counters of one process on a private registry.
type Recorder struct {
	registry    *prometheus.Registry
	documents   prometheus.Counter
	nodes       *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	duration    prometheus.Histogram
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "manscope_documents_total",
			Help: "Number of documents parsed.",
		}),
		nodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "manscope_nodes_total",
			Help: "Number of tree nodes produced, by node type.",
		}, []string{"type"}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "manscope_diagnostics_total",
			Help: "Number of diagnostics reported, by kind and severity.",
		}, []string{"kind", "severity"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "manscope_parse_duration_seconds",
			Help:    "Time spent parsing one document.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	r.registry.MustRegister(r.documents, r.nodes, r.diagnostics, r.duration)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Record adds the nodes and diagnostics of doc.
func (r *Recorder) Record(doc *man.Document, elapsed time.Duration) {
	r.documents.Inc()
	r.duration.Observe(elapsed.Seconds())
	doc.Walk(func(n *man.Node) bool {
		if n.Type != man.NodeRoot {
			r.nodes.WithLabelValues(n.Type.String()).Inc()
		}
		return true
	})
	for _, d := range doc.Diagnostics {
		r.diagnostics.WithLabelValues(d.Kind.String(), d.Severity.String()).Inc()
	}
}

// Write dumps all metrics in the Prometheus text format.
func (r *Recorder) Write(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
	}
	return nil
}
