package sstable

import "testing"

func TestRepairState_String(t *testing.T) {
	cases := map[RepairState]string{
		Repaired:   "repaired",
		Unrepaired: "unrepaired",
		Unknown:    "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}

func TestHandle_IsRepaired(t *testing.T) {
	if (Handle{Repair: Unrepaired}).IsRepaired() {
		t.Errorf("unrepaired handle reported repaired")
	}
	if !(Handle{Repair: Repaired}).IsRepaired() {
		t.Errorf("repaired handle reported not repaired")
	}
}
