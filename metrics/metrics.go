// Package metrics provides Prometheus metrics for the costing service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysesTotal counts analyses served, by operation and entity kind
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "costing",
			Subsystem: "analysis",
			Name:      "requests_total",
			Help:      "Total number of cost analyses served",
		},
		[]string{"operation", "kind"},
	)

	// AnalysisDuration tracks time spent computing an analysis
	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "costing",
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Duration of cost analyses in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"operation"},
	)

	// SnapshotLoads counts bulk loads by result
	SnapshotLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "costing",
			Subsystem: "snapshot",
			Name:      "loads_total",
			Help:      "Total number of snapshot loads by status",
		},
		[]string{"status"},
	)

	// SnapshotLoadDuration tracks bulk load duration
	SnapshotLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "costing",
			Subsystem: "snapshot",
			Name:      "load_duration_seconds",
			Help:      "Duration of snapshot loads in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// SnapshotReuse counts analyses served from an already loaded snapshot
	SnapshotReuse = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "costing",
			Subsystem: "snapshot",
			Name:      "reused_total",
			Help:      "Total number of analyses served by a live snapshot",
		},
	)

	// UnresolvedRefs counts references that resolved to nothing, by type
	UnresolvedRefs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "costing",
			Subsystem: "snapshot",
			Name:      "unresolved_references_total",
			Help:      "References found pointing at unknown entities while building snapshots",
		},
		[]string{"type"},
	)

	// CacheRequests counts result cache lookups
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "costing",
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Result cache lookups by outcome",
		},
		[]string{"result"},
	)
)

// CacheObserver feeds result cache hits and misses into CacheRequests.
type CacheObserver struct{}

func (CacheObserver) CacheHit()  { CacheRequests.WithLabelValues("hit").Inc() }
func (CacheObserver) CacheMiss() { CacheRequests.WithLabelValues("miss").Inc() }

// RecordLoad records the outcome of one snapshot load.
func RecordLoad(seconds float64, err error) {
	SnapshotLoadDuration.Observe(seconds)
	if err != nil {
		SnapshotLoads.WithLabelValues("error").Inc()
		return
	}
	SnapshotLoads.WithLabelValues("ok").Inc()
}

// RecordUnresolved adds the counts of one freshly built snapshot.
func RecordUnresolved(ingredientLinks, componentRefs, usageRefs, fuzzyUsageRefs, pricePoints int) {
	UnresolvedRefs.WithLabelValues("ingredient_link").Add(float64(ingredientLinks))
	UnresolvedRefs.WithLabelValues("component_ref").Add(float64(componentRefs))
	UnresolvedRefs.WithLabelValues("usage_ref").Add(float64(usageRefs))
	UnresolvedRefs.WithLabelValues("fuzzy_usage_ref").Add(float64(fuzzyUsageRefs))
	UnresolvedRefs.WithLabelValues("price_point").Add(float64(pricePoints))
}
