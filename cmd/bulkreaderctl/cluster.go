package main

import (
	"fmt"
	"math/big"

	"github.com/nethalo/bulkreader/internal/ring"
	"github.com/nethalo/bulkreader/internal/schema"
)

// demoInstances places four instances across two datacenters, the
// last one pinned to the partitioner's max token so the sub-ranges
// below need no wrap-around handling.
func demoInstances(part ring.Partitioner) []ring.Instance {
	min := part.MinToken().BigInt()
	max := part.MaxToken().BigInt()
	quarter := new(big.Int).Quo(new(big.Int).Sub(max, min), big.NewInt(4))

	tok := func(n int64) ring.Token {
		offset := new(big.Int).Mul(quarter, big.NewInt(n))
		return ring.NewTokenFromBigInt(new(big.Int).Add(min, offset))
	}

	return []ring.Instance{
		ring.NewInstance("dc1-node-1", tok(1), "dc1"),
		ring.NewInstance("dc2-node-1", tok(2), "dc2"),
		ring.NewInstance("dc1-node-2", tok(3), "dc1"),
		ring.NewInstance("dc2-node-2", part.MaxToken(), "dc2"),
	}
}

// buildDemoCluster assembles a four-node, two-datacenter ring with
// replication factor 2, and a matching single-table schema, so
// bulkreaderctl's plan/fetch commands have a realistic (if small)
// cluster to route reads against.
func buildDemoCluster() (*ring.Ring, *schema.Schema, error) {
	part := ring.Murmur3Partitioner{}
	instances := demoInstances(part)

	rf, err := ring.NewSimpleStrategy(2)
	if err != nil {
		return nil, nil, fmt.Errorf("building replication factor: %w", err)
	}

	subRanges := make([]ring.SubRange, len(instances))
	lower := part.MinToken()
	for i, inst := range instances {
		upper := inst.Token
		rng, err := ring.NewRange(lower, upper)
		if err != nil {
			return nil, nil, fmt.Errorf("building sub-range for %s: %w", inst.NodeName, err)
		}
		subRanges[i] = ring.SubRange{
			Range: rng,
			Replicas: []ring.Instance{
				instances[i],
				instances[(i+1)%len(instances)],
			},
		}
		lower = upper
	}

	r, err := ring.New(part, rf, subRanges)
	if err != nil {
		return nil, nil, fmt.Errorf("building demo ring: %w", err)
	}

	sch := &schema.Schema{
		Keyspace:          "demo",
		Table:             "events",
		ReplicationFactor: rf,
	}
	return r, sch, nil
}
