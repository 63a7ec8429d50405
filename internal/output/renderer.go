// Package output renders replica plans and fetch results for
// bulkreaderctl: one Renderer interface, one concrete type per
// --format value.
package output

import (
	"io"

	"github.com/nethalo/bulkreader/internal/replica"
	"github.com/nethalo/bulkreader/internal/ring"
	"github.com/nethalo/bulkreader/internal/sstable"
)

// PlanView is what RenderPlan needs: the replica set a partition was
// planned against, plus the coordinates that produced it.
type PlanView struct {
	PartitionID int
	Range       ring.Range
	DC          string
	Set         *replica.ReplicaSet
}

// FetchView is what RenderFetch needs: the sstable handles a
// coordinator fetch returned for one partition, or the error it
// failed with.
type FetchView struct {
	PartitionID int
	Handles     []sstable.Handle
	Err         error
}

// Renderer defines the output interface bulkreaderctl drives.
type Renderer interface {
	RenderPlan(v PlanView)
	RenderFetch(v FetchView)
}

func instanceNames(instances []ring.Instance) []string {
	if len(instances) == 0 {
		return nil
	}
	names := make([]string, len(instances))
	for i, inst := range instances {
		names[i] = inst.String()
	}
	return names
}

// NewRenderer creates a renderer for the given --format value,
// defaulting to TextRenderer when format is empty or unrecognized.
func NewRenderer(format string, w io.Writer) Renderer {
	switch format {
	case "json":
		return &JSONRenderer{w: w}
	case "plain":
		return &PlainRenderer{w: w}
	default:
		return &TextRenderer{w: w}
	}
}
