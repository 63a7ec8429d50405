package bulkreader

import "time"

// Stats is the observability sink a data layer exposes for counters
// and timers. The concrete prometheus-backed implementation lives in
// internal/metrics; this package only depends on the interface so the
// core never imports a metrics backend directly.
type Stats interface {
	IncCounter(name string, labels map[string]string)
	ObserveDuration(name string, labels map[string]string, d time.Duration)
}

// NoopStats discards every observation. It is the zero-configuration
// default a DataLayer may return when no backend is wired up.
type NoopStats struct{}

func (NoopStats) IncCounter(string, map[string]string)                 {}
func (NoopStats) ObserveDuration(string, map[string]string, time.Duration) {}
