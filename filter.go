package bulkreader

import (
	"bytes"

	"github.com/nethalo/bulkreader/internal/ring"
)

// CustomFilter is the engine-supplied filter contract: can it rule
// out a whole range, a partition, or a specific key. The overlaps
// check is spelled OverlapsRange, so that any CustomFilter already
// satisfies internal/replica.KeyFilter structurally; the planner
// never needs to know about this package's filter types.
//
// Filtering is key-level only (FilterKey): row-reader filtering
// operates on decoded rows, which belong to the compute-engine
// bindings this module does not implement.
type CustomFilter interface {
	OverlapsRange(rng ring.Range) bool
	SkipPartition(key []byte, token ring.Token) bool
	CanFilterByKey() bool
	FilterKey(key []byte) bool
	IsSpecificRange() bool
}

// SparkRangeFilter is the automatic per-partition range filter
// FiltersInRange always appends.
type SparkRangeFilter struct {
	Range ring.Range
}

func (f SparkRangeFilter) OverlapsRange(rng ring.Range) bool { return f.Range.Overlaps(rng) }

func (f SparkRangeFilter) SkipPartition(_ []byte, token ring.Token) bool {
	return !f.Range.Contains(token)
}

func (f SparkRangeFilter) CanFilterByKey() bool { return false }

func (f SparkRangeFilter) FilterKey([]byte) bool { return true }

func (f SparkRangeFilter) IsSpecificRange() bool { return true }

// KeyEqualsFilter matches an explicit set of partition keys.
type KeyEqualsFilter struct {
	Partitioner ring.Partitioner
	Keys        [][]byte
}

func (f KeyEqualsFilter) OverlapsRange(rng ring.Range) bool {
	for _, k := range f.Keys {
		if rng.Contains(f.Partitioner.Hash(k)) {
			return true
		}
	}
	return false
}

func (f KeyEqualsFilter) SkipPartition(key []byte, _ ring.Token) bool {
	return !f.FilterKey(key)
}

func (f KeyEqualsFilter) CanFilterByKey() bool { return true }

func (f KeyEqualsFilter) FilterKey(key []byte) bool {
	for _, k := range f.Keys {
		if bytes.Equal(k, key) {
			return true
		}
	}
	return false
}

func (f KeyEqualsFilter) IsSpecificRange() bool { return false }
