package ring

import "testing"

func TestReplicationFactor_RoundTrip_Simple(t *testing.T) {
	rf, err := NewSimpleStrategy(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := rf.ToMap("org.apache.cassandra.spark.shaded.fourzero.cassandra.")
	got, err := ReplicationFactorFromMap(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Strategy != SimpleStrategy || got.Total() != 3 {
		t.Fatalf("round-trip mismatch: got %+v", got)
	}
}

func TestReplicationFactor_RoundTrip_NetworkTopology(t *testing.T) {
	rf, err := NewNetworkTopologyStrategy(map[string]int{"DC1": 3, "DC2": 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := rf.ToMap("org.apache.cassandra.spark.shaded.fourzero.cassandra.")
	got, err := ReplicationFactorFromMap(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Strategy != NetworkTopologyStrategy {
		t.Fatalf("expected NetworkTopologyStrategy, got %v", got.Strategy)
	}
	if got.DCFactor("DC1") != 3 || got.DCFactor("dc2") != 2 {
		t.Fatalf("DC factors mismatch: %+v", got.Options)
	}
	if got.Total() != 5 {
		t.Fatalf("Total() = %d, want 5", got.Total())
	}
}

func TestReplicationFactor_RejectsNonPositive(t *testing.T) {
	if _, err := NewSimpleStrategy(0); err == nil {
		t.Fatalf("expected error for zero replication factor")
	}
	if _, err := NewNetworkTopologyStrategy(map[string]int{"DC1": -1}); err == nil {
		t.Fatalf("expected error for negative DC replication factor")
	}
	if _, err := NewNetworkTopologyStrategy(nil); err == nil {
		t.Fatalf("expected error for empty DC map")
	}
}

func TestReplicationFactorFromMap_UnknownClass(t *testing.T) {
	_, err := ReplicationFactorFromMap(map[string]string{"class": "org.apache.cassandra.locator.OldNetworkTopologyStrategy"})
	if err == nil {
		t.Fatalf("expected error for unrecognized strategy class")
	}
}
