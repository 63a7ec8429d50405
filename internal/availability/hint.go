// Package availability provides out-of-band health hints the replica
// planner uses only to order attempts, never to reject a replica
// outright.
package availability

import "github.com/nethalo/bulkreader/internal/ring"

// Hint is an availability guess. The ordinal values are assigned
// explicitly (rather than left to declaration order) so that sorting
// a slice of Hints always yields the "try available first" order the
// planner depends on, even if the type is later extended.
type Hint int

const (
	Up      Hint = 0
	Unknown Hint = 1
	Down    Hint = 2
)

func (h Hint) String() string {
	switch h {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	default:
		return "UNKNOWN"
	}
}

// Oracle hints at an instance's health. Implementations are free to be
// stale or simply wrong; the planner treats the result as advisory.
type Oracle interface {
	GetAvailability(instance ring.Instance) Hint
}

// AlwaysUnknown is the default oracle the data-layer contract
// specifies: every instance is reported UNKNOWN absent better
// information.
type AlwaysUnknown struct{}

func (AlwaysUnknown) GetAvailability(ring.Instance) Hint { return Unknown }

// Static is a test/demo oracle backed by a fixed map, defaulting to
// Unknown for any instance not present in the map.
type Static map[string]Hint

func (s Static) GetAvailability(instance ring.Instance) Hint {
	if h, ok := s[instance.NodeName]; ok {
		return h
	}
	return Unknown
}
