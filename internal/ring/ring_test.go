package ring

import "testing"

func threeDCInstances() []Instance {
	return []Instance{
		NewInstance("node-1", NewToken(10), "DC1"),
		NewInstance("node-2", NewToken(20), "DC1"),
		NewInstance("node-3", NewToken(30), "DC1"),
	}
}

func TestNew_ValidatesCoverage(t *testing.T) {
	rf, _ := NewSimpleStrategy(3)
	p := Murmur3Partitioner{}
	instances := threeDCInstances()

	subRanges := []SubRange{
		{Range: Range{Lower: p.MinToken(), Upper: NewToken(0)}, Replicas: instances},
		{Range: Range{Lower: NewToken(0), Upper: p.MaxToken()}, Replicas: instances},
	}

	r, err := New(p, rf, subRanges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.SubRanges()) != 2 {
		t.Fatalf("expected 2 sub-ranges, got %d", len(r.SubRanges()))
	}
}

func TestNew_RejectsGap(t *testing.T) {
	rf, _ := NewSimpleStrategy(3)
	p := Murmur3Partitioner{}
	instances := threeDCInstances()

	subRanges := []SubRange{
		{Range: Range{Lower: p.MinToken(), Upper: NewToken(0)}, Replicas: instances},
		{Range: Range{Lower: NewToken(10), Upper: p.MaxToken()}, Replicas: instances}, // gap between 0 and 10
	}

	if _, err := New(p, rf, subRanges); err == nil {
		t.Fatalf("expected error for ring coverage gap")
	}
}

func TestNew_RejectsWrongReplicaCount(t *testing.T) {
	rf, _ := NewSimpleStrategy(3)
	p := Murmur3Partitioner{}

	subRanges := []SubRange{
		{Range: Range{Lower: p.MinToken(), Upper: p.MaxToken()}, Replicas: threeDCInstances()[:2]},
	}

	if _, err := New(p, rf, subRanges); err == nil {
		t.Fatalf("expected error for replica count mismatch")
	}
}

func TestRing_SubRangesIn(t *testing.T) {
	rf, _ := NewSimpleStrategy(3)
	p := Murmur3Partitioner{}
	instances := threeDCInstances()

	subRanges := []SubRange{
		{Range: Range{Lower: p.MinToken(), Upper: NewToken(0)}, Replicas: instances},
		{Range: Range{Lower: NewToken(0), Upper: NewToken(100)}, Replicas: instances},
		{Range: Range{Lower: NewToken(100), Upper: p.MaxToken()}, Replicas: instances},
	}
	r, err := New(p, rf, subRanges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	query := Range{Lower: NewToken(-10), Upper: NewToken(50)}
	got := r.SubRangesIn(query)
	if len(got) != 2 {
		t.Fatalf("expected 2 overlapping sub-ranges, got %d", len(got))
	}
}
