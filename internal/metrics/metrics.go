// Package metrics implements the Stats sink over
// prometheus/client_golang: the counters and histograms a concrete
// DataLayer's Stats() method returns, observed by the replica planner
// and the fetch coordinator as they run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Sink is a prometheus-backed implementation of the root package's
// Stats interface. A single Sink should be registered once per
// process and shared across every PartitionedDataLayer.
type Sink struct {
	counters   *prometheus.CounterVec
	histograms *prometheus.HistogramVec
}

// New builds a Sink and registers its collectors with reg. Passing
// prometheus.DefaultRegisterer matches the package-global registration
// style most callers expect; tests should pass a fresh
// prometheus.NewRegistry() instead to avoid collisions between runs.
func New(reg prometheus.Registerer) *Sink {
	s := &Sink{
		counters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bulkreader",
			Name:      "events_total",
			Help:      "Count of bulk-reader events by name and label set.",
		}, []string{"name", "label_key", "label_value"}),
		histograms: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bulkreader",
			Name:      "duration_seconds",
			Help:      "Observed durations by name and label set.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"name", "label_key", "label_value"}),
	}
	reg.MustRegister(s.counters, s.histograms)
	return s
}

// IncCounter increments the named counter, tagged by the first label
// pair present in labels (Prometheus needs a fixed label schema; the
// bulk reader's call sites only ever pass zero or one pair, so this
// keeps the cardinality predictable instead of exploding a vector per
// caller-supplied key).
func (s *Sink) IncCounter(name string, labels map[string]string) {
	k, v := firstLabel(labels)
	s.counters.WithLabelValues(name, k, v).Inc()
}

// ObserveDuration records d against the named histogram.
func (s *Sink) ObserveDuration(name string, labels map[string]string, d time.Duration) {
	k, v := firstLabel(labels)
	s.histograms.WithLabelValues(name, k, v).Observe(d.Seconds())
}

func firstLabel(labels map[string]string) (key, value string) {
	for k, v := range labels {
		return k, v
	}
	return "", ""
}

// Named counters and histograms the replica planner and fetch
// coordinator observe, so call sites share one spelling instead of
// hand-typing strings.
const (
	PlannerFailures    = "planner_failures"
	FetchAttempts      = "fetch_attempts"
	FetchFailures      = "fetch_failures"
	FailoverCount      = "failover_count"
	CoordinatorSuccess = "coordinator_success"
	FetchLatency       = "fetch_latency"
	PlanLatency        = "plan_latency"
)
