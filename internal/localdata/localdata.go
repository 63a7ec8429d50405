// Package localdata is a filesystem-backed demo DataLayer: every
// instance owns a directory of fake sstable files, named to encode
// the token range and repair state they cover, so bulkreaderctl can
// exercise the whole planning and fetch pipeline without a real
// cluster.
package localdata

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/nethalo/bulkreader"
	"github.com/nethalo/bulkreader/internal/availability"
	"github.com/nethalo/bulkreader/internal/enginepart"
	"github.com/nethalo/bulkreader/internal/executor"
	"github.com/nethalo/bulkreader/internal/ring"
	"github.com/nethalo/bulkreader/internal/sstable"
)

// Layer reads sstable files from disk: one subdirectory per instance,
// named after ring.Instance.NodeName, containing files named
// "<lowerToken>_<upperToken>_<repaired|unrepaired|unknown>[_<suffix>].sst",
// with a negative token's leading "-" written as "m".
type Layer struct {
	Dir              string
	Cluster          *ring.Ring
	Partitioner      *enginepart.Partitioner
	Exec             *executor.Executor
	Availability     availability.Oracle
	FilterNonOverlap bool
	StatsSink        bulkreader.Stats
}

// New builds a Layer rooted at dir, deriving an engine partitioner
// with partitionCount partitions from cluster's own token
// partitioner.
func New(dir string, cluster *ring.Ring, partitionCount int, exec *executor.Executor, oracle availability.Oracle, stats bulkreader.Stats) (*Layer, error) {
	tp, err := enginepart.New(cluster.Partitioner(), partitionCount)
	if err != nil {
		return nil, fmt.Errorf("building engine partitioner: %w", err)
	}
	if oracle == nil {
		oracle = availability.AlwaysUnknown{}
	}
	if stats == nil {
		stats = bulkreader.NoopStats{}
	}
	return &Layer{
		Dir:          dir,
		Cluster:      cluster,
		Partitioner:  tp,
		Exec:         exec,
		Availability: oracle,
		StatsSink:    stats,
	}, nil
}

func (l *Layer) Ring() *ring.Ring                          { return l.Cluster }
func (l *Layer) TokenPartitioner() *enginepart.Partitioner { return l.Partitioner }
func (l *Layer) ExecutorService() *executor.Executor       { return l.Exec }
func (l *Layer) FilterNonIntersectingSSTables() bool       { return l.FilterNonOverlap }
func (l *Layer) Stats() bulkreader.Stats                   { return l.StatsSink }
func (l *Layer) GetAvailability(i ring.Instance) availability.Hint {
	return l.Availability.GetAvailability(i)
}

// ListInstance reads instance's directory and returns every sstable
// whose encoded range overlaps rng. A missing directory is treated as
// an empty node rather than an error, since an instance with no data
// files yet is a normal state for a freshly provisioned demo node.
func (l *Layer) ListInstance(ctx context.Context, partitionID int, rng ring.Range, instance ring.Instance) ([]sstable.Handle, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	dir := filepath.Join(l.Dir, instance.NodeName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading data dir for %s: %w", instance.NodeName, err)
	}

	var handles []sstable.Handle
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		h, ok, err := parseSSTableFile(instance, dir, e.Name())
		if err != nil {
			return nil, fmt.Errorf("parsing sstable file %s: %w", e.Name(), err)
		}
		if !ok || !h.Range.Overlaps(rng) {
			continue
		}
		handles = append(handles, h)
	}

	l.StatsSink.IncCounter("localdata_list_instance", map[string]string{"instance": instance.NodeName})
	return handles, nil
}

// SSTableFileName builds the filename Layer.ListInstance expects for
// an sstable covering rng with the given repair state. Exposed so
// demo-data generators and tests share one format.
func SSTableFileName(rng ring.Range, repair sstable.RepairState, suffix string) string {
	return fmt.Sprintf("%s_%s_%s_%s.sst", tokenString(rng.Lower), tokenString(rng.Upper), repairFileToken(repair), suffix)
}

func parseSSTableFile(instance ring.Instance, dir, name string) (sstable.Handle, bool, error) {
	if !strings.HasSuffix(name, ".sst") {
		return sstable.Handle{}, false, nil
	}
	trimmed := strings.TrimSuffix(name, ".sst")
	parts := strings.SplitN(trimmed, "_", 4)
	if len(parts) < 3 {
		return sstable.Handle{}, false, fmt.Errorf("unrecognized sstable filename %q, want lower_upper_repairstate[_suffix].sst", name)
	}

	lower, ok := parseToken(parts[0])
	if !ok {
		return sstable.Handle{}, false, fmt.Errorf("invalid lower token in %q", name)
	}
	upper, ok := parseToken(parts[1])
	if !ok {
		return sstable.Handle{}, false, fmt.Errorf("invalid upper token in %q", name)
	}
	rng, err := ring.NewRange(lower, upper)
	if err != nil {
		return sstable.Handle{}, false, err
	}

	repair, err := repairFromFileToken(parts[2])
	if err != nil {
		return sstable.Handle{}, false, err
	}

	return sstable.Handle{
		Instance: instance,
		Range:    rng,
		Repair:   repair,
		Path:     filepath.Join(dir, name),
	}, true, nil
}

func tokenString(t ring.Token) string {
	return strings.ReplaceAll(t.String(), "-", "m")
}

func parseToken(s string) (ring.Token, bool) {
	neg := strings.HasPrefix(s, "m")
	if neg {
		s = "-" + s[1:]
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return ring.Token{}, false
	}
	return ring.NewTokenFromBigInt(v), true
}

func repairFileToken(r sstable.RepairState) string {
	switch r {
	case sstable.Repaired:
		return "repaired"
	case sstable.Unrepaired:
		return "unrepaired"
	default:
		return "unknown"
	}
}

func repairFromFileToken(s string) (sstable.RepairState, error) {
	switch s {
	case "repaired":
		return sstable.Repaired, nil
	case "unrepaired":
		return sstable.Unrepaired, nil
	case "unknown":
		return sstable.Unknown, nil
	default:
		return sstable.Unknown, fmt.Errorf("unrecognized repair state %q", s)
	}
}
