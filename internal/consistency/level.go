// Package consistency models Cassandra consistency levels and the
// blockFor computation the replica planner uses to determine how many
// replicas must answer a read.
package consistency

import (
	"fmt"

	"github.com/nethalo/bulkreader/internal/bulkerr"
	"github.com/nethalo/bulkreader/internal/ring"
)

// Level is a closed enum of consistency levels. Parse accepts every
// level; SERIAL/LOCAL_SERIAL (InvalidConsistency) and EACH_QUORUM
// (NotImplemented) are recognized but always rejected by BlockFor and
// at planning time: this bulk reader never implements them.
type Level string

const (
	Any         Level = "ANY"
	One         Level = "ONE"
	Two         Level = "TWO"
	Three       Level = "THREE"
	Quorum      Level = "QUORUM"
	All         Level = "ALL"
	LocalQuorum Level = "LOCAL_QUORUM"
	EachQuorum  Level = "EACH_QUORUM"
	LocalOne    Level = "LOCAL_ONE"
	Serial      Level = "SERIAL"
	LocalSerial Level = "LOCAL_SERIAL"
)

var allLevels = map[Level]bool{
	Any: true, One: true, Two: true, Three: true, Quorum: true, All: true,
	LocalQuorum: true, EachQuorum: true, LocalOne: true, Serial: true, LocalSerial: true,
}

// Parse validates a string against the closed enum.
func Parse(s string) (Level, error) {
	l := Level(s)
	if !allLevels[l] {
		return "", fmt.Errorf("unknown consistency level %q", s)
	}
	return l, nil
}

// IsDCLocal reports whether a level's quorum must be satisfied within
// a single datacenter.
func (l Level) IsDCLocal() bool {
	switch l {
	case LocalQuorum, LocalOne, LocalSerial:
		return true
	default:
		return false
	}
}

// BlockFor computes the minimum replica count required to satisfy l,
// given a replication factor and (for DC-local levels) a datacenter.
// dc is ignored by non-DC-local levels.
func (l Level) BlockFor(rf ring.ReplicationFactor, dc string) (int, error) {
	switch l {
	case Any, One, LocalOne:
		return 1, nil
	case Two:
		return 2, nil
	case Three:
		return 3, nil
	case Quorum:
		return rf.Total()/2 + 1, nil
	case All:
		return rf.Total(), nil
	case LocalQuorum:
		return rf.DCFactor(dc)/2 + 1, nil
	case Serial, LocalSerial:
		return 0, &bulkerr.InvalidConsistency{Level: string(l), Reason: "serial consistency is not supported for bulk reads"}
	case EachQuorum:
		return 0, &bulkerr.NotImplemented{Level: string(l)}
	default:
		return 0, fmt.Errorf("unknown consistency level %q", l)
	}
}
