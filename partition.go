package bulkreader

import (
	"context"
	"fmt"

	"github.com/nethalo/bulkreader/internal/bulkerr"
	"github.com/nethalo/bulkreader/internal/consistency"
	"github.com/nethalo/bulkreader/internal/fetch"
	"github.com/nethalo/bulkreader/internal/replica"
	"github.com/nethalo/bulkreader/internal/ring"
	"github.com/nethalo/bulkreader/internal/schema"
	"github.com/nethalo/bulkreader/internal/sstable"
)

// SSTablesSupplier hands the compute engine the sstable handles
// gathered for one partition.
type SSTablesSupplier interface {
	SSTables() []sstable.Handle
}

type sliceSupplier []sstable.Handle

func (s sliceSupplier) SSTables() []sstable.Handle { return s }

// PartitionedDataLayer binds one engine partition's coordinates
// (consistency level, datacenter, partition id) to a DataLayer and a
// built schema, and implements the engine-facing operations: sstables,
// filtersInRange, isInPartition, partitionCount.
type PartitionedDataLayer struct {
	Data             DataLayer
	Schema           *schema.Schema
	ConsistencyLevel consistency.Level
	DC               string
	PartitionID      int
}

// NewPartitionedDataLayer builds the engine-facing handle for one
// partition of data.
func NewPartitionedDataLayer(data DataLayer, sch *schema.Schema, cl consistency.Level, dc string, partitionID int) (*PartitionedDataLayer, error) {
	tp := data.TokenPartitioner()
	if partitionID < 0 || partitionID >= tp.PartitionCount() {
		return nil, fmt.Errorf("partition id %d out of range [0, %d)", partitionID, tp.PartitionCount())
	}
	return &PartitionedDataLayer{
		Data:             data,
		Schema:           sch,
		ConsistencyLevel: cl,
		DC:               dc,
		PartitionID:      partitionID,
	}, nil
}

// PartitionCount returns the token partitioner's partition count.
func (p *PartitionedDataLayer) PartitionCount() int {
	return p.Data.TokenPartitioner().PartitionCount()
}

// IsInPartition reports whether token falls within this partition's
// token range. key is accepted for interface symmetry with the
// source's signature but unused: membership is entirely determined by
// the token, since the token is what places a key on the ring.
func (p *PartitionedDataLayer) IsInPartition(token ring.Token, key []byte) bool {
	id, err := p.Data.TokenPartitioner().PartitionFor(token)
	if err != nil {
		return false
	}
	return id == p.PartitionID
}

// FiltersInRange augments the caller-supplied filters with an
// automatic SparkRangeFilter for this partition's token range, and
// raises NoMatchFound if the caller supplied filters but none of them
// overlap the partition.
func (p *PartitionedDataLayer) FiltersInRange(filters []CustomFilter) ([]CustomFilter, error) {
	rng, err := p.Data.TokenPartitioner().RangeFor(p.PartitionID)
	if err != nil {
		return nil, err
	}

	if len(filters) > 0 {
		matched := false
		for _, f := range filters {
			if f.OverlapsRange(rng) {
				matched = true
				break
			}
		}
		if !matched {
			return nil, &bulkerr.NoMatchFound{PartitionID: p.PartitionID}
		}
	}

	out := append([]CustomFilter(nil), filters...)
	return append(out, SparkRangeFilter{Range: rng}), nil
}

// SSTables plans replicas for this partition, fetches them through the
// multi-replica coordinator, and returns the combined (and, if the
// data layer asks for it, range-filtered) table set.
func (p *PartitionedDataLayer) SSTables(ctx context.Context, filters []CustomFilter) (SSTablesSupplier, error) {
	effective, err := p.FiltersInRange(filters)
	if err != nil {
		return nil, err
	}
	rng, err := p.Data.TokenPartitioner().RangeFor(p.PartitionID)
	if err != nil {
		return nil, err
	}

	var keyFilters []replica.KeyFilter
	for _, f := range effective {
		if f.CanFilterByKey() {
			keyFilters = append(keyFilters, f)
		}
	}

	stats := p.Data.Stats()

	planner := replica.NewPlanner()
	set, err := planner.Plan(replica.PlanInput{
		ConsistencyLevel: p.ConsistencyLevel,
		DC:               p.DC,
		Ring:             p.Data.Ring(),
		RF:               p.Schema.ReplicationFactor,
		EngineRange:      rng,
		Filters:          keyFilters,
		Availability:     p.Data,
		PartitionID:      p.PartitionID,
		Stats:            stats,
	})
	if err != nil {
		return nil, err
	}

	coordinator := fetch.NewCoordinator(p.Data, p.Data.ExecutorService(), stats)
	handles, err := coordinator.Fetch(ctx, set, rng)
	if err != nil {
		return nil, err
	}

	if p.Data.FilterNonIntersectingSSTables() {
		filtered := handles[:0]
		for _, h := range handles {
			if h.Range.Overlaps(rng) {
				filtered = append(filtered, h)
			}
		}
		handles = filtered
	}
	return sliceSupplier(handles), nil
}

// Equal compares every field that affects read semantics: dc,
// consistency level, ring identity (the ring is immutable and freely
// shared per job, so pointer identity is the right notion of "same
// ring"), and partition id. Comparing dc alone would let two
// partitions with the same dc but a different consistency level or
// ring collide as cache keys.
func (p *PartitionedDataLayer) Equal(other *PartitionedDataLayer) bool {
	if other == nil {
		return false
	}
	return p.DC == other.DC &&
		p.ConsistencyLevel == other.ConsistencyLevel &&
		p.Data.Ring() == other.Data.Ring() &&
		p.PartitionID == other.PartitionID
}
