package fetch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nethalo/bulkreader/internal/bulkerr"
	"github.com/nethalo/bulkreader/internal/executor"
	"github.com/nethalo/bulkreader/internal/replica"
	"github.com/nethalo/bulkreader/internal/ring"
	"github.com/nethalo/bulkreader/internal/sstable"
)

type scriptedFetcher struct {
	byNode map[string]func() ([]sstable.Handle, error)
}

func (f scriptedFetcher) ListInstance(ctx context.Context, partitionID int, rng ring.Range, instance ring.Instance) ([]sstable.Handle, error) {
	fn, ok := f.byNode[instance.NodeName]
	if !ok {
		return nil, errors.New("no script for " + instance.NodeName)
	}
	return fn()
}

func testRange() ring.Range {
	r, err := ring.NewRange(ring.MinToken, ring.MaxToken)
	if err != nil {
		panic(err)
	}
	return r
}

func TestCoordinator_FailoverScenario(t *testing.T) {
	// 3 primaries, 1 backup; primary #2 fails. Backup is promoted and
	// fetched; overall success; ReadFailure is not raised.
	p1 := ring.NewInstance("p1", ring.NewToken(1), "dc1")
	p2 := ring.NewInstance("p2", ring.NewToken(2), "dc1")
	p3 := ring.NewInstance("p3", ring.NewToken(3), "dc1")
	b1 := ring.NewInstance("b1", ring.NewToken(4), "dc1")

	fetcher := scriptedFetcher{byNode: map[string]func() ([]sstable.Handle, error){
		"p1": func() ([]sstable.Handle, error) {
			return []sstable.Handle{{Instance: p1, Path: "p1-unrepaired", Repair: sstable.Unrepaired}}, nil
		},
		"p2": func() ([]sstable.Handle, error) {
			return nil, errors.New("p2 unreachable")
		},
		"p3": func() ([]sstable.Handle, error) {
			return []sstable.Handle{{Instance: p3, Path: "p3-unrepaired", Repair: sstable.Unrepaired}}, nil
		},
		"b1": func() ([]sstable.Handle, error) {
			return []sstable.Handle{{Instance: b1, Path: "b1-unrepaired", Repair: sstable.Unrepaired}}, nil
		},
	}}

	c := NewCoordinator(fetcher, executor.New(4), nil)
	set := &replica.ReplicaSet{
		Primary:     []ring.Instance{p1, p2, p3},
		Backup:      []ring.Instance{b1},
		MinReplicas: 3,
		PartitionID: 7,
	}

	handles, err := c.Fetch(context.Background(), set, testRange())
	if err != nil {
		t.Fatalf("expected success via failover, got error: %v", err)
	}
	paths := map[string]bool{}
	for _, h := range handles {
		paths[h.Path] = true
	}
	for _, want := range []string{"p1-unrepaired", "p3-unrepaired", "b1-unrepaired"} {
		if !paths[want] {
			t.Errorf("expected handle %q in result, got %v", want, handles)
		}
	}
	if paths["p2-unrepaired"] {
		t.Errorf("did not expect a handle from the failed primary p2")
	}
}

func TestCoordinator_TerminalFailureWhenBackupsExhausted(t *testing.T) {
	p1 := ring.NewInstance("p1", ring.NewToken(1), "dc1")

	fetcher := scriptedFetcher{byNode: map[string]func() ([]sstable.Handle, error){
		"p1": func() ([]sstable.Handle, error) { return nil, errors.New("p1 down") },
	}}

	c := NewCoordinator(fetcher, executor.New(2), nil)
	set := &replica.ReplicaSet{Primary: []ring.Instance{p1}, PartitionID: 3}

	_, err := c.Fetch(context.Background(), set, testRange())
	var rf *bulkerr.ReadFailure
	if !errors.As(err, &rf) {
		t.Fatalf("expected *bulkerr.ReadFailure, got %T: %v", err, err)
	}
	if rf.PartitionID != 3 {
		t.Errorf("expected PartitionID=3, got %d", rf.PartitionID)
	}
}

func TestCoordinator_RepairPrimaryIncludesRepairedTables(t *testing.T) {
	p1 := ring.NewInstance("p1", ring.NewToken(1), "dc1")
	p2 := ring.NewInstance("p2", ring.NewToken(2), "dc1")

	fetcher := scriptedFetcher{byNode: map[string]func() ([]sstable.Handle, error){
		"p1": func() ([]sstable.Handle, error) {
			return []sstable.Handle{
				{Instance: p1, Path: "p1-repaired", Repair: sstable.Repaired},
				{Instance: p1, Path: "p1-unrepaired", Repair: sstable.Unrepaired},
			}, nil
		},
		"p2": func() ([]sstable.Handle, error) {
			return []sstable.Handle{
				{Instance: p2, Path: "p2-repaired", Repair: sstable.Repaired},
				{Instance: p2, Path: "p2-unrepaired", Repair: sstable.Unrepaired},
			}, nil
		},
	}}

	c := NewCoordinator(fetcher, executor.New(4), nil)
	set := &replica.ReplicaSet{
		Primary:       []ring.Instance{p1, p2},
		RepairPrimary: &p1,
		PartitionID:   1,
	}

	handles, err := c.Fetch(context.Background(), set, testRange())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	paths := map[string]bool{}
	for _, h := range handles {
		paths[h.Path] = true
	}
	if !paths["p1-repaired"] || !paths["p1-unrepaired"] {
		t.Errorf("expected repair-primary's repaired and unrepaired tables, got %v", handles)
	}
	if paths["p2-repaired"] {
		t.Errorf("did not expect non-repair-primary's repaired table, got %v", handles)
	}
	if !paths["p2-unrepaired"] {
		t.Errorf("expected non-repair-primary's unrepaired table, got %v", handles)
	}
}

func TestCoordinator_CancellationDropsPartialResults(t *testing.T) {
	p1 := ring.NewInstance("p1", ring.NewToken(1), "dc1")
	var started int32

	block := make(chan struct{})
	fetcher := scriptedFetcher{byNode: map[string]func() ([]sstable.Handle, error){
		"p1": func() ([]sstable.Handle, error) {
			atomic.AddInt32(&started, 1)
			<-block
			return []sstable.Handle{{Instance: p1, Path: "late", Repair: sstable.Unrepaired}}, nil
		},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	c := NewCoordinator(fetcher, executor.New(2), nil)
	set := &replica.ReplicaSet{Primary: []ring.Instance{p1}, PartitionID: 9}

	done := make(chan error, 1)
	go func() {
		_, err := c.Fetch(ctx, set, testRange())
		done <- err
	}()

	// Give the fetch goroutine time to start before cancelling.
	for atomic.LoadInt32(&started) == 0 {
		time.Sleep(time.Millisecond)
	}
	cancel()

	err := <-done
	var cancelled *bulkerr.Cancelled
	if !errors.As(err, &cancelled) {
		t.Fatalf("expected *bulkerr.Cancelled, got %T: %v", err, err)
	}
	close(block)
}
