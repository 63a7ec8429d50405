// Package bulkreader is the engine-facing surface of the bulk reader:
// the DataLayer contract a concrete storage-aware implementation
// supplies, and the PartitionedDataLayer that turns one engine
// partition's worth of that contract into a fetched sstable set.
package bulkreader

import (
	"context"

	"github.com/nethalo/bulkreader/internal/availability"
	"github.com/nethalo/bulkreader/internal/enginepart"
	"github.com/nethalo/bulkreader/internal/executor"
	"github.com/nethalo/bulkreader/internal/ring"
	"github.com/nethalo/bulkreader/internal/sstable"
)

// DataLayer is the data-layer supplier contract: everything the core
// needs from whatever concretely owns the cluster connection,
// executor, and availability information. Its ListInstance method
// matches internal/fetch.SingleReplica's signature exactly and its
// GetAvailability method matches internal/availability.Oracle's,
// so any DataLayer already satisfies both collaborator interfaces
// without an adapter.
type DataLayer interface {
	Ring() *ring.Ring
	TokenPartitioner() *enginepart.Partitioner
	ExecutorService() *executor.Executor
	ListInstance(ctx context.Context, partitionID int, rng ring.Range, instance ring.Instance) ([]sstable.Handle, error)
	GetAvailability(instance ring.Instance) availability.Hint
	FilterNonIntersectingSSTables() bool
	Stats() Stats
}
