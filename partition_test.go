package bulkreader

import (
	"context"
	"errors"
	"testing"

	"github.com/nethalo/bulkreader/internal/availability"
	"github.com/nethalo/bulkreader/internal/bulkerr"
	"github.com/nethalo/bulkreader/internal/consistency"
	"github.com/nethalo/bulkreader/internal/enginepart"
	"github.com/nethalo/bulkreader/internal/executor"
	"github.com/nethalo/bulkreader/internal/ring"
	"github.com/nethalo/bulkreader/internal/schema"
	"github.com/nethalo/bulkreader/internal/sstable"
)

// fakeDataLayer is a two-instance, two-partition test double covering
// every DataLayer method the core needs.
type fakeDataLayer struct {
	r              *ring.Ring
	tp             *enginepart.Partitioner
	exec           *executor.Executor
	byInstance     map[string][]sstable.Handle
	filterNonIntersecting bool
}

func newFakeDataLayer(t *testing.T) (*fakeDataLayer, ring.Instance, ring.Instance) {
	t.Helper()
	part := ring.Murmur3Partitioner{}
	rf, err := ring.NewSimpleStrategy(1)
	if err != nil {
		t.Fatalf("NewSimpleStrategy: %v", err)
	}

	i1 := ring.NewInstance("node-1", ring.NewToken(0), "dc1")
	i2 := ring.NewInstance("node-2", ring.NewToken(1), "dc1")

	lowHalf, err := ring.NewRange(part.MinToken(), ring.NewToken(0))
	if err != nil {
		t.Fatalf("NewRange: %v", err)
	}
	highHalf, err := ring.NewRange(ring.NewToken(0), part.MaxToken())
	if err != nil {
		t.Fatalf("NewRange: %v", err)
	}

	r, err := ring.New(part, rf, []ring.SubRange{
		{Range: lowHalf, Replicas: []ring.Instance{i1}},
		{Range: highHalf, Replicas: []ring.Instance{i2}},
	})
	if err != nil {
		t.Fatalf("ring.New: %v", err)
	}

	tp, err := enginepart.New(part, 2)
	if err != nil {
		t.Fatalf("enginepart.New: %v", err)
	}

	return &fakeDataLayer{
		r:          r,
		tp:         tp,
		exec:       executor.New(4),
		byInstance: map[string][]sstable.Handle{},
	}, i1, i2
}

func (f *fakeDataLayer) Ring() *ring.Ring                       { return f.r }
func (f *fakeDataLayer) TokenPartitioner() *enginepart.Partitioner { return f.tp }
func (f *fakeDataLayer) ExecutorService() *executor.Executor    { return f.exec }
func (f *fakeDataLayer) GetAvailability(ring.Instance) availability.Hint { return availability.Up }
func (f *fakeDataLayer) FilterNonIntersectingSSTables() bool    { return f.filterNonIntersecting }
func (f *fakeDataLayer) Stats() Stats                           { return NoopStats{} }

func (f *fakeDataLayer) ListInstance(ctx context.Context, partitionID int, rng ring.Range, instance ring.Instance) ([]sstable.Handle, error) {
	handles, ok := f.byInstance[instance.NodeName]
	if !ok {
		return nil, errors.New("no handles scripted for " + instance.NodeName)
	}
	return handles, nil
}

func testSchema(rf ring.ReplicationFactor) *schema.Schema {
	return &schema.Schema{Keyspace: "ks", Table: "t", ReplicationFactor: rf}
}

func TestNewPartitionedDataLayer_RejectsOutOfRangePartitionID(t *testing.T) {
	data, _, _ := newFakeDataLayer(t)
	rf, _ := ring.NewSimpleStrategy(1)

	if _, err := NewPartitionedDataLayer(data, testSchema(rf), consistency.One, "", 2); err == nil {
		t.Fatalf("expected error for out-of-range partition id")
	}
	if _, err := NewPartitionedDataLayer(data, testSchema(rf), consistency.One, "", -1); err == nil {
		t.Fatalf("expected error for negative partition id")
	}
}

func TestPartitionedDataLayer_IsInPartition(t *testing.T) {
	data, _, _ := newFakeDataLayer(t)
	rf, _ := ring.NewSimpleStrategy(1)

	p0, err := NewPartitionedDataLayer(data, testSchema(rf), consistency.One, "", 0)
	if err != nil {
		t.Fatalf("NewPartitionedDataLayer: %v", err)
	}

	if !p0.IsInPartition(ring.MinToken, nil) {
		t.Errorf("expected min token to belong to partition 0")
	}
	if p0.IsInPartition(ring.MaxToken, nil) {
		t.Errorf("expected max token not to belong to partition 0")
	}
}

func TestPartitionedDataLayer_FiltersInRange_NoMatchFound(t *testing.T) {
	data, _, _ := newFakeDataLayer(t)
	rf, _ := ring.NewSimpleStrategy(1)

	p0, err := NewPartitionedDataLayer(data, testSchema(rf), consistency.One, "", 0)
	if err != nil {
		t.Fatalf("NewPartitionedDataLayer: %v", err)
	}

	highRange, err := ring.NewRange(ring.NewToken(0), ring.MaxToken)
	if err != nil {
		t.Fatalf("NewRange: %v", err)
	}
	nonOverlapping := SparkRangeFilter{Range: highRange}

	_, err = p0.FiltersInRange([]CustomFilter{nonOverlapping})
	var noMatch *bulkerr.NoMatchFound
	if !errors.As(err, &noMatch) {
		t.Fatalf("expected *bulkerr.NoMatchFound, got %T: %v", err, err)
	}
}

func TestPartitionedDataLayer_FiltersInRange_AppendsRangeFilter(t *testing.T) {
	data, _, _ := newFakeDataLayer(t)
	rf, _ := ring.NewSimpleStrategy(1)

	p0, err := NewPartitionedDataLayer(data, testSchema(rf), consistency.One, "", 0)
	if err != nil {
		t.Fatalf("NewPartitionedDataLayer: %v", err)
	}

	out, err := p0.FiltersInRange(nil)
	if err != nil {
		t.Fatalf("FiltersInRange: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected exactly the automatic range filter, got %d filters", len(out))
	}
	if !out[0].IsSpecificRange() {
		t.Errorf("expected the appended filter to be a range filter")
	}
}

func TestPartitionedDataLayer_SSTables_FetchesFromOwningReplica(t *testing.T) {
	data, i1, _ := newFakeDataLayer(t)
	data.byInstance[i1.NodeName] = []sstable.Handle{
		{Instance: i1, Path: "sstable-1", Repair: sstable.Unrepaired},
	}

	rf, _ := ring.NewSimpleStrategy(1)
	p0, err := NewPartitionedDataLayer(data, testSchema(rf), consistency.One, "", 0)
	if err != nil {
		t.Fatalf("NewPartitionedDataLayer: %v", err)
	}

	supplier, err := p0.SSTables(context.Background(), nil)
	if err != nil {
		t.Fatalf("SSTables: %v", err)
	}
	handles := supplier.SSTables()
	if len(handles) != 1 || handles[0].Path != "sstable-1" {
		t.Fatalf("expected [sstable-1], got %v", handles)
	}
}

func TestPartitionedDataLayer_SSTables_FiltersNonIntersecting(t *testing.T) {
	data, i1, _ := newFakeDataLayer(t)
	data.filterNonIntersecting = true

	outOfRange, err := ring.NewRange(ring.NewToken(0), ring.MaxToken)
	if err != nil {
		t.Fatalf("NewRange: %v", err)
	}
	data.byInstance[i1.NodeName] = []sstable.Handle{
		{Instance: i1, Path: "irrelevant", Repair: sstable.Unrepaired, Range: outOfRange},
	}

	rf, _ := ring.NewSimpleStrategy(1)
	p0, err := NewPartitionedDataLayer(data, testSchema(rf), consistency.One, "", 0)
	if err != nil {
		t.Fatalf("NewPartitionedDataLayer: %v", err)
	}

	supplier, err := p0.SSTables(context.Background(), nil)
	if err != nil {
		t.Fatalf("SSTables: %v", err)
	}
	if handles := supplier.SSTables(); len(handles) != 0 {
		t.Fatalf("expected the out-of-range handle to be filtered out, got %v", handles)
	}
}

func TestPartitionedDataLayer_Equal(t *testing.T) {
	data, _, _ := newFakeDataLayer(t)
	rf, _ := ring.NewSimpleStrategy(1)
	sch := testSchema(rf)

	a, err := NewPartitionedDataLayer(data, sch, consistency.One, "dc1", 0)
	if err != nil {
		t.Fatalf("NewPartitionedDataLayer: %v", err)
	}
	b, err := NewPartitionedDataLayer(data, sch, consistency.One, "dc1", 0)
	if err != nil {
		t.Fatalf("NewPartitionedDataLayer: %v", err)
	}
	if !a.Equal(b) {
		t.Errorf("expected equal partitioned data layers to compare equal")
	}

	diffCL, err := NewPartitionedDataLayer(data, sch, consistency.Quorum, "dc1", 0)
	if err != nil {
		t.Fatalf("NewPartitionedDataLayer: %v", err)
	}
	if a.Equal(diffCL) {
		t.Errorf("expected different consistency levels to compare unequal")
	}

	diffPartition, err := NewPartitionedDataLayer(data, sch, consistency.One, "dc1", 1)
	if err != nil {
		t.Fatalf("NewPartitionedDataLayer: %v", err)
	}
	if a.Equal(diffPartition) {
		t.Errorf("expected different partition ids to compare unequal")
	}

	if a.Equal(nil) {
		t.Errorf("expected comparison against nil to be false")
	}
}
