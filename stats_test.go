package bulkreader

import (
	"testing"
	"time"
)

func TestNoopStats_DiscardsEverything(t *testing.T) {
	var s NoopStats
	// Neither call should panic, block, or otherwise have an observable
	// effect; this test exists to pin the zero-value contract down.
	s.IncCounter("reads", map[string]string{"dc": "dc1"})
	s.ObserveDuration("fetch_latency", nil, 5*time.Millisecond)
}

func TestNoopStats_SatisfiesStats(t *testing.T) {
	var _ Stats = NoopStats{}
}
