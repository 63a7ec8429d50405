// Package replica implements the replica planner: given a ring,
// replication factor, consistency level, datacenter, and availability
// hints, it produces a ReplicaSet of primary/backup replicas
// sufficient to satisfy the requested consistency level for every
// retained sub-range of an engine partition.
package replica

import (
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/nethalo/bulkreader/internal/availability"
	"github.com/nethalo/bulkreader/internal/bulkerr"
	"github.com/nethalo/bulkreader/internal/consistency"
	"github.com/nethalo/bulkreader/internal/metrics"
	"github.com/nethalo/bulkreader/internal/ring"
)

// Stats is the subset of the observability sink contract the planner
// needs: incrementing named counters and observing named durations.
// The root package's concrete Stats implementation satisfies this
// structurally, so replica never imports it.
type Stats interface {
	IncCounter(name string, labels map[string]string)
	ObserveDuration(name string, labels map[string]string, d time.Duration)
}

type nopStats struct{}

func (nopStats) IncCounter(string, map[string]string)                     {}
func (nopStats) ObserveDuration(string, map[string]string, time.Duration) {}

// KeyFilter is the subset of the engine-facing CustomFilter contract
// the planner needs: whether a filter could possibly match a key
// within a token range. The root package's concrete filter types
// satisfy this structurally, so replica never imports it.
type KeyFilter interface {
	OverlapsRange(rng ring.Range) bool
}

// PlanInput gathers everything the planner needs for one engine
// partition.
type PlanInput struct {
	ConsistencyLevel consistency.Level
	DC               string // "" means unset
	Ring             *ring.Ring
	RF               ring.ReplicationFactor
	EngineRange      ring.Range
	Filters          []KeyFilter
	Availability     availability.Oracle
	PartitionID      int
	Stats            Stats // nil uses a no-op sink
}

// ReplicaSet is the planner's output: disjoint primary and backup
// instance sets, the designated repair-primary (if any), and the
// minimum replica count the plan was built to satisfy.
type ReplicaSet struct {
	Primary       []ring.Instance
	Backup        []ring.Instance
	RepairPrimary *ring.Instance
	MinReplicas   int
	PartitionID   int
}

// Planner builds ReplicaSets. It holds no mutable state and is safe
// for concurrent use across partitions.
type Planner struct{}

// NewPlanner returns a Planner.
func NewPlanner() *Planner { return &Planner{} }

// Plan runs pre-validation, sub-range intersection, candidate
// flattening, primary/backup split, and per-sub-range consistency
// validation. Every call, successful or not, observes PlanLatency;
// a non-nil error also increments PlannerFailures.
func (p *Planner) Plan(in PlanInput) (result *ReplicaSet, err error) {
	stats := in.Stats
	if stats == nil {
		stats = nopStats{}
	}
	start := time.Now()
	defer func() {
		stats.ObserveDuration(metrics.PlanLatency, nil, time.Since(start))
		if err != nil {
			stats.IncCounter(metrics.PlannerFailures, map[string]string{"partition": strconv.Itoa(in.PartitionID)})
		}
	}()

	if err := validatePreconditions(in); err != nil {
		return nil, err
	}

	minReplicas, err := in.ConsistencyLevel.BlockFor(in.RF, in.DC)
	if err != nil {
		return nil, err
	}

	retained := retainedSubRanges(in)
	candidates := candidateInstances(retained, in)

	oracle := in.Availability
	if oracle == nil {
		oracle = availability.AlwaysUnknown{}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return oracle.GetAvailability(candidates[i]) < oracle.GetAvailability(candidates[j])
	})

	primary, backup := splitPrimaryBackup(candidates, minReplicas)

	if len(primary) < minReplicas {
		return nil, &bulkerr.NotEnoughReplicas{
			Range: in.EngineRange.String(),
			Want:  minReplicas,
			Got:   len(primary),
			DC:    in.DC,
		}
	}

	var repairPrimary *ring.Instance
	if len(retained) == 1 && len(primary) > 0 {
		repairPrimary = &primary[0]
	}

	// Per-sub-range consistency validation (not in aggregate): a
	// globally sufficient primary pool can still fail a specific
	// sub-range when the engine partition spans several disjoint
	// replica sets. In that case a warning is logged and planning
	// fails with NotEnoughReplicas for the short sub-range.
	for _, sr := range retained {
		got := countMembers(sr.Replicas, primary)
		if got < minReplicas {
			if len(retained) > 1 {
				log.Printf("replica planner: partition %d sub-range %s has %d of %d required replicas in a globally sufficient primary pool; disabling repair-primary", in.PartitionID, sr.Range, got, minReplicas)
				repairPrimary = nil
			}
			return nil, &bulkerr.NotEnoughReplicas{
				Range: sr.Range.String(),
				Want:  minReplicas,
				Got:   got,
				DC:    in.DC,
			}
		}
	}

	return &ReplicaSet{
		Primary:       primary,
		Backup:        backup,
		RepairPrimary: repairPrimary,
		MinReplicas:   minReplicas,
		PartitionID:   in.PartitionID,
	}, nil
}

// validatePreconditions checks that the consistency level is usable
// for the requested dc before any candidate gathering runs.
func validatePreconditions(in PlanInput) error {
	switch in.ConsistencyLevel {
	case consistency.Serial, consistency.LocalSerial:
		return &bulkerr.InvalidConsistency{Level: string(in.ConsistencyLevel), Reason: "serial consistency is not supported for bulk reads"}
	case consistency.EachQuorum:
		return &bulkerr.NotImplemented{Level: string(in.ConsistencyLevel)}
	}

	if in.RF.Strategy != ring.NetworkTopologyStrategy {
		return nil
	}

	dcs := in.RF.DCs()
	if in.DC == "" {
		if len(dcs) == 1 {
			return nil
		}
		if in.ConsistencyLevel.IsDCLocal() {
			return &bulkerr.InvalidConsistency{Level: string(in.ConsistencyLevel), Reason: "datacenter required for a DC-local consistency level but none was supplied"}
		}
		return nil
	}
	if in.RF.DCFactor(in.DC) <= 0 {
		return &bulkerr.InvalidConsistency{Level: string(in.ConsistencyLevel), Reason: "datacenter " + in.DC + " has no positive replication factor entry"}
	}
	return nil
}

// retainedSubRanges implements "sub-range intersection": restrict to
// the engine range, then further restrict to sub-ranges any key
// filter overlaps, if at least one filter is present.
func retainedSubRanges(in PlanInput) []ring.SubRange {
	all := in.Ring.SubRangesIn(in.EngineRange)
	if len(in.Filters) == 0 {
		return all
	}

	var retained []ring.SubRange
	for _, sr := range all {
		for _, f := range in.Filters {
			if f.OverlapsRange(sr.Range) {
				retained = append(retained, sr)
				break
			}
		}
	}
	return retained
}

// candidateInstances flattens and de-duplicates the retained
// sub-ranges' replica lists (first-seen order), then applies DC-local
// filtering.
func candidateInstances(retained []ring.SubRange, in PlanInput) []ring.Instance {
	seen := make(map[string]bool)
	var out []ring.Instance
	for _, sr := range retained {
		for _, inst := range sr.Replicas {
			if seen[inst.NodeName] {
				continue
			}
			if in.ConsistencyLevel.IsDCLocal() && in.DC != "" && !inst.InSameDC(in.DC) {
				continue
			}
			seen[inst.NodeName] = true
			out = append(out, inst)
		}
	}
	return out
}

// splitPrimaryBackup fills primary up to minReplicas from the
// availability-sorted candidate list; the remainder becomes backup.
func splitPrimaryBackup(candidates []ring.Instance, minReplicas int) (primary, backup []ring.Instance) {
	if len(candidates) <= minReplicas {
		return append([]ring.Instance(nil), candidates...), nil
	}
	return append([]ring.Instance(nil), candidates[:minReplicas]...), append([]ring.Instance(nil), candidates[minReplicas:]...)
}

// countMembers counts how many of replicas also appear in set, by
// Instance.Equal (node-name identity).
func countMembers(replicas, set []ring.Instance) int {
	count := 0
	for _, r := range replicas {
		for _, s := range set {
			if r.Equal(s) {
				count++
				break
			}
		}
	}
	return count
}
