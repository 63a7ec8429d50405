// Package fetch implements the replica fetcher and multi-replica
// coordinator: launching one concurrent fetch per primary replica,
// promoting backups on failure, merging completed table sets under
// the repaired/unrepaired segregation rule, and surfacing terminal
// failure or cancellation.
package fetch

import (
	"context"
	"time"

	"github.com/nethalo/bulkreader/internal/bulkerr"
	"github.com/nethalo/bulkreader/internal/executor"
	"github.com/nethalo/bulkreader/internal/metrics"
	"github.com/nethalo/bulkreader/internal/replica"
	"github.com/nethalo/bulkreader/internal/ring"
	"github.com/nethalo/bulkreader/internal/sstable"
)

// Stats is the subset of the observability sink contract the
// coordinator needs: incrementing named counters and observing named
// durations. The root package's concrete Stats implementation
// satisfies this structurally, so fetch never imports it.
type Stats interface {
	IncCounter(name string, labels map[string]string)
	ObserveDuration(name string, labels map[string]string, d time.Duration)
}

type nopStats struct{}

func (nopStats) IncCounter(string, map[string]string)                     {}
func (nopStats) ObserveDuration(string, map[string]string, time.Duration) {}

// SingleReplica is the per-replica fetch collaborator: list the
// sstable handles on instance that overlap rng. Implementations must
// observe ctx and return promptly on cancellation.
type SingleReplica interface {
	ListInstance(ctx context.Context, partitionID int, rng ring.Range, instance ring.Instance) ([]sstable.Handle, error)
}

// Coordinator runs the multi-replica fetch-with-failover protocol for
// a single engine partition.
type Coordinator struct {
	fetcher SingleReplica
	exec    *executor.Executor
	stats   Stats
}

// NewCoordinator builds a Coordinator that fetches via fetcher,
// scheduling each attempt on exec. A nil stats uses a no-op sink.
func NewCoordinator(fetcher SingleReplica, exec *executor.Executor, stats Stats) *Coordinator {
	if stats == nil {
		stats = nopStats{}
	}
	return &Coordinator{fetcher: fetcher, exec: exec, stats: stats}
}

type fetchResult struct {
	slot     int
	instance ring.Instance
	handles  []sstable.Handle
	err      error
}

// Fetch runs the coordinator protocol for one engine partition: launch
// a fetch per primary, promote backups on failure, merge successes,
// and return either the combined table set, a *bulkerr.ReadFailure, or
// a *bulkerr.Cancelled if ctx is done before every slot resolves.
func (c *Coordinator) Fetch(ctx context.Context, set *replica.ReplicaSet, rng ring.Range) ([]sstable.Handle, error) {
	backups := append([]ring.Instance(nil), set.Backup...)
	results := make(chan fetchResult, len(set.Primary)+len(backups))

	active := make(map[int]ring.Instance, len(set.Primary))
	var attempted []string
	var causes []error

	launch := func(slot int, instance ring.Instance) {
		active[slot] = instance
		attempted = append(attempted, instance.NodeName)
		c.stats.IncCounter(metrics.FetchAttempts, map[string]string{"instance": instance.NodeName})
		c.exec.Submit(ctx, func(ctx context.Context) error {
			start := time.Now()
			handles, err := c.fetcher.ListInstance(ctx, set.PartitionID, rng, instance)
			c.stats.ObserveDuration(metrics.FetchLatency, map[string]string{"instance": instance.NodeName}, time.Since(start))
			results <- fetchResult{slot: slot, instance: instance, handles: handles, err: err}
			return err
		})
	}

	for i, inst := range set.Primary {
		launch(i, inst)
	}

	combined := make(map[string]sstable.Handle)
	failed := false

	for len(active) > 0 {
		select {
		case <-ctx.Done():
			return nil, &bulkerr.Cancelled{PartitionID: set.PartitionID}
		case res := <-results:
			if cur, ok := active[res.slot]; !ok || cur.NodeName != res.instance.NodeName {
				// Stale result from a slot that was already retired; ignore.
				continue
			}
			delete(active, res.slot)

			if res.err != nil {
				c.stats.IncCounter(metrics.FetchFailures, map[string]string{"instance": res.instance.NodeName})
				if len(backups) > 0 {
					next := backups[0]
					backups = backups[1:]
					c.stats.IncCounter(metrics.FailoverCount, map[string]string{"instance": res.instance.NodeName})
					launch(res.slot, next)
				} else {
					failed = true
					causes = append(causes, res.err)
				}
				continue
			}

			isRepairPrimary := set.RepairPrimary != nil && set.RepairPrimary.Equal(res.instance)
			for _, h := range res.handles {
				if h.IsRepaired() && !isRepairPrimary {
					continue
				}
				combined[h.Path] = h
			}
		}
	}

	if failed {
		return nil, &bulkerr.ReadFailure{
			PartitionID: set.PartitionID,
			Range:       rng.String(),
			Attempted:   attempted,
			Causes:      causes,
		}
	}

	c.stats.IncCounter(metrics.CoordinatorSuccess, nil)
	out := make([]sstable.Handle, 0, len(combined))
	for _, h := range combined {
		out = append(out, h)
	}
	return out, nil
}
