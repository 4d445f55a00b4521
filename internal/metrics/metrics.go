// Package metrics exposes prometheus counters for engine operations.
// The engine is offline; counters live on a package registry that the
// CLI can gather and print, and that an embedding application can hook
// into its own exposition if it has one.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

var registry = prometheus.NewRegistry()

var (
	// DocumentsIngested counts true document inserts.
	DocumentsIngested = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "opsrecall",
		Name:      "documents_ingested_total",
		Help:      "Number of documents stored, excluding replaces and skips.",
	})

	// DocumentsSkipped counts documents declined by privacy gates.
	DocumentsSkipped = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "opsrecall",
		Name:      "documents_skipped_total",
		Help:      "Number of documents declined by a privacy policy gate.",
	})

	// QueriesServed counts similarity retrievals.
	QueriesServed = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "opsrecall",
		Name:      "queries_served_total",
		Help:      "Number of similarity queries answered.",
	})

	// PatternsRecorded counts pattern upserts.
	PatternsRecorded = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "opsrecall",
		Name:      "patterns_recorded_total",
		Help:      "Number of mined pattern occurrences recorded.",
	})

	// InsightRuns counts health-insight aggregation passes.
	InsightRuns = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "opsrecall",
		Name:      "insight_runs_total",
		Help:      "Number of health insight aggregations executed.",
	})

	// StorageFailures counts swallowed storage errors.
	StorageFailures = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "opsrecall",
		Name:      "storage_failures_total",
		Help:      "Number of storage errors converted to empty results.",
	})
)

// Gather returns the current metric families from the engine registry.
func Gather() ([]*dto.MetricFamily, error) {
	return registry.Gather()
}
