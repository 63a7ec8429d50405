package consistency

import (
	"errors"
	"testing"

	"github.com/nethalo/bulkreader/internal/bulkerr"
	"github.com/nethalo/bulkreader/internal/ring"
)

func TestBlockFor(t *testing.T) {
	simple, _ := ring.NewSimpleStrategy(5)
	nts, _ := ring.NewNetworkTopologyStrategy(map[string]int{"DC1": 3, "DC2": 2})

	tests := []struct {
		name string
		l    Level
		rf   ring.ReplicationFactor
		dc   string
		want int
	}{
		{"ANY", Any, simple, "", 1},
		{"ONE", One, simple, "", 1},
		{"LOCAL_ONE", LocalOne, simple, "", 1},
		{"TWO", Two, simple, "", 2},
		{"THREE", Three, simple, "", 3},
		{"QUORUM odd total", Quorum, simple, "", 3},
		{"ALL", All, simple, "", 5},
		{"LOCAL_QUORUM", LocalQuorum, nts, "DC1", 2},
		{"LOCAL_QUORUM other dc", LocalQuorum, nts, "DC2", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.l.BlockFor(tt.rf, tt.dc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("BlockFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBlockFor_SerialRejected(t *testing.T) {
	rf, _ := ring.NewSimpleStrategy(3)
	for _, l := range []Level{Serial, LocalSerial} {
		_, err := l.BlockFor(rf, "")
		var ic *bulkerr.InvalidConsistency
		if !errors.As(err, &ic) {
			t.Errorf("BlockFor(%s) error = %v, want *bulkerr.InvalidConsistency", l, err)
		}
	}
}

func TestBlockFor_EachQuorumNotImplemented(t *testing.T) {
	rf, _ := ring.NewSimpleStrategy(3)
	_, err := EachQuorum.BlockFor(rf, "")
	var ni *bulkerr.NotImplemented
	if !errors.As(err, &ni) {
		t.Errorf("BlockFor(EACH_QUORUM) error = %v, want *bulkerr.NotImplemented", err)
	}
}

func TestIsDCLocal(t *testing.T) {
	for _, l := range []Level{LocalQuorum, LocalOne, LocalSerial} {
		if !l.IsDCLocal() {
			t.Errorf("%s should be DC-local", l)
		}
	}
	for _, l := range []Level{Any, One, Two, Three, Quorum, All, EachQuorum, Serial} {
		if l.IsDCLocal() {
			t.Errorf("%s should not be DC-local", l)
		}
	}
}

func TestParse(t *testing.T) {
	if _, err := Parse("QUORUM"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := Parse("NOT_A_LEVEL"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}
