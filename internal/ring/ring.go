package ring

import (
	"fmt"
	"sort"
)

// SubRange pairs a token range with the ordered replica list that owns
// it. The order matters: it is the natural replica placement order the
// partitioner produced, before any availability-based reordering.
type SubRange struct {
	Range    Range
	Replicas []Instance
}

// Ring is an immutable mapping from contiguous token sub-ranges to
// ordered replica lists, plus the Partitioner and ReplicationFactor
// that produced it. The sub-range keys must cover the full ring
// exactly once, and every replica list must have length equal to
// ReplicationFactor.Total().
type Ring struct {
	partitioner Partitioner
	rf          ReplicationFactor
	subRanges   []SubRange // sorted by Range.Lower
}

// New builds a Ring from pre-computed sub-ranges, validating the
// coverage and replica-count invariants up front so that later callers
// never have to re-check them.
func New(partitioner Partitioner, rf ReplicationFactor, subRanges []SubRange) (*Ring, error) {
	if len(subRanges) == 0 {
		return nil, fmt.Errorf("ring must have at least one sub-range")
	}

	sorted := append([]SubRange(nil), subRanges...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Range.Lower.Less(sorted[j].Range.Lower)
	})

	total := rf.Total()
	if total <= 0 {
		return nil, fmt.Errorf("replication factor must be positive, got %d", total)
	}

	prevUpper := partitioner.MinToken()
	for idx, sr := range sorted {
		if len(sr.Replicas) != total {
			return nil, fmt.Errorf("sub-range %s has %d replicas, want %d (replication factor)", sr.Range, len(sr.Replicas), total)
		}
		if idx == 0 {
			if !sr.Range.Lower.Equal(partitioner.MinToken()) {
				return nil, fmt.Errorf("ring coverage gap: first sub-range starts at %s, want %s", sr.Range.Lower, partitioner.MinToken())
			}
		} else if !sr.Range.Lower.Equal(prevUpper) {
			return nil, fmt.Errorf("ring coverage gap or overlap between %s and %s", prevUpper, sr.Range.Lower)
		}
		prevUpper = sr.Range.Upper
	}
	if !prevUpper.Equal(partitioner.MaxToken()) {
		return nil, fmt.Errorf("ring coverage gap: last sub-range ends at %s, want %s", prevUpper, partitioner.MaxToken())
	}

	return &Ring{partitioner: partitioner, rf: rf, subRanges: sorted}, nil
}

// Partitioner returns the ring's partitioner.
func (r *Ring) Partitioner() Partitioner { return r.partitioner }

// ReplicationFactor returns the ring's replication factor.
func (r *Ring) ReplicationFactor() ReplicationFactor { return r.rf }

// SubRanges returns every sub-range, in ascending token order. The
// slice is a defensive copy; callers may not mutate the ring.
func (r *Ring) SubRanges() []SubRange {
	return append([]SubRange(nil), r.subRanges...)
}

// SubRangesIn restricts the ring's sub-ranges to those overlapping
// rng, clipping each to the intersection. This is the "ask ring for
// the sub-range map restricted to engineRange" step the planner uses.
func (r *Ring) SubRangesIn(rng Range) []SubRange {
	var out []SubRange
	for _, sr := range r.subRanges {
		if clipped, ok := sr.Range.Intersect(rng); ok {
			out = append(out, SubRange{Range: clipped, Replicas: sr.Replicas})
		}
	}
	return out
}

// AllInstances returns the de-duplicated set of every instance that
// owns at least one sub-range, in first-seen order.
func (r *Ring) AllInstances() []Instance {
	seen := make(map[string]bool)
	var out []Instance
	for _, sr := range r.subRanges {
		for _, inst := range sr.Replicas {
			if !seen[inst.NodeName] {
				seen[inst.NodeName] = true
				out = append(out, inst)
			}
		}
	}
	return out
}
