package ring

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Strategy is the Cassandra replication strategy class.
type Strategy string

const (
	SimpleStrategy           Strategy = "SimpleStrategy"
	NetworkTopologyStrategy  Strategy = "NetworkTopologyStrategy"
	simpleStrategyOptionsKey          = "replication_factor"
)

// ReplicationFactor parses and represents a keyspace's replication
// strategy: SimpleStrategy has a single synthetic "replication_factor"
// option; NetworkTopologyStrategy has one positive count per DC.
type ReplicationFactor struct {
	Strategy Strategy
	Options  map[string]int
}

// NewSimpleStrategy builds a SimpleStrategy ReplicationFactor.
func NewSimpleStrategy(factor int) (ReplicationFactor, error) {
	if factor <= 0 {
		return ReplicationFactor{}, fmt.Errorf("replication_factor must be positive, got %d", factor)
	}
	return ReplicationFactor{
		Strategy: SimpleStrategy,
		Options:  map[string]int{simpleStrategyOptionsKey: factor},
	}, nil
}

// NewNetworkTopologyStrategy builds a NetworkTopologyStrategy
// ReplicationFactor from per-DC counts.
func NewNetworkTopologyStrategy(dcCounts map[string]int) (ReplicationFactor, error) {
	if len(dcCounts) == 0 {
		return ReplicationFactor{}, fmt.Errorf("NetworkTopologyStrategy requires at least one datacenter")
	}
	options := make(map[string]int, len(dcCounts))
	for dc, count := range dcCounts {
		if count <= 0 {
			return ReplicationFactor{}, fmt.Errorf("datacenter %q replication factor must be positive, got %d", dc, count)
		}
		options[dc] = count
	}
	return ReplicationFactor{Strategy: NetworkTopologyStrategy, Options: options}, nil
}

// Total returns the sum of all per-DC counts (or the single simple
// count), i.e. the full replication factor across the whole ring.
func (rf ReplicationFactor) Total() int {
	total := 0
	for _, v := range rf.Options {
		total += v
	}
	return total
}

// DCFactor returns the replication count for dc, or 0 if dc is not
// present in a NetworkTopologyStrategy (or the strategy is Simple).
func (rf ReplicationFactor) DCFactor(dc string) int {
	if rf.Strategy != NetworkTopologyStrategy {
		return 0
	}
	for k, v := range rf.Options {
		if strings.EqualFold(k, dc) {
			return v
		}
	}
	return 0
}

// DCs returns the sorted list of datacenter names for a
// NetworkTopologyStrategy (empty for SimpleStrategy).
func (rf ReplicationFactor) DCs() []string {
	if rf.Strategy != NetworkTopologyStrategy {
		return nil
	}
	dcs := make([]string, 0, len(rf.Options))
	for dc := range rf.Options {
		dcs = append(dcs, dc)
	}
	sort.Strings(dcs)
	return dcs
}

// ToMap serializes a ReplicationFactor the way CREATE KEYSPACE would:
// {class: "<shaded>.locator.<Strategy>", ...options}. shadedPrefix is
// the fully-shaded package prefix the schema builder uses elsewhere.
func (rf ReplicationFactor) ToMap(shadedPrefix string) map[string]string {
	out := make(map[string]string, len(rf.Options)+1)
	out["class"] = shadedPrefix + "locator." + string(rf.Strategy)
	switch rf.Strategy {
	case SimpleStrategy:
		out[simpleStrategyOptionsKey] = strconv.Itoa(rf.Options[simpleStrategyOptionsKey])
	case NetworkTopologyStrategy:
		for dc, count := range rf.Options {
			out[dc] = strconv.Itoa(count)
		}
	}
	return out
}

// ReplicationFactorFromMap is the inverse of ToMap, used to round-trip
// a replication map parsed out of a CREATE KEYSPACE statement.
func ReplicationFactorFromMap(m map[string]string) (ReplicationFactor, error) {
	class, ok := m["class"]
	if !ok {
		return ReplicationFactor{}, fmt.Errorf("replication map missing \"class\"")
	}
	var strategy Strategy
	switch {
	case strings.HasSuffix(class, string(SimpleStrategy)):
		strategy = SimpleStrategy
	case strings.HasSuffix(class, string(NetworkTopologyStrategy)):
		strategy = NetworkTopologyStrategy
	default:
		return ReplicationFactor{}, fmt.Errorf("unrecognized replication strategy class %q", class)
	}

	options := make(map[string]int)
	for k, v := range m {
		if k == "class" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return ReplicationFactor{}, fmt.Errorf("replication option %q has non-integer value %q: %w", k, v, err)
		}
		options[k] = n
	}

	if strategy == SimpleStrategy {
		return NewSimpleStrategy(options[simpleStrategyOptionsKey])
	}
	return NewNetworkTopologyStrategy(options)
}
