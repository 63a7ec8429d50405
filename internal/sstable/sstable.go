// Package sstable models the immutable on-disk sorted-string-table
// handle a replica's fetch returns: the physical file plus the repair
// metadata the coordinator needs to apply the repaired/unrepaired
// segregation rule.
package sstable

import "github.com/nethalo/bulkreader/internal/ring"

// RepairState flags whether a table's contents have been through
// incremental repair, are known not to have been, or that state is
// unknown to the replica serving it.
type RepairState int

const (
	Unknown RepairState = iota
	Repaired
	Unrepaired
)

func (s RepairState) String() string {
	switch s {
	case Repaired:
		return "repaired"
	case Unrepaired:
		return "unrepaired"
	default:
		return "unknown"
	}
}

// Handle is one sorted-string-table on a specific replica, overlapping
// a requested token range.
type Handle struct {
	Instance ring.Instance
	Range    ring.Range
	Repair   RepairState
	Path     string
}

// IsRepaired reports whether the table's repair state is definitively
// Repaired.
func (h Handle) IsRepaired() bool { return h.Repair == Repaired }
