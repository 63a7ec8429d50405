package output

import (
	"fmt"
	"io"
)

// PlainRenderer produces unformatted text output safe for piping.
type PlainRenderer struct {
	w io.Writer
}

func (r *PlainRenderer) RenderPlan(v PlanView) {
	fmt.Fprintf(r.w, "=== partition %d plan ===\n", v.PartitionID)
	fmt.Fprintf(r.w, "Range:         %s\n", v.Range.String())
	fmt.Fprintf(r.w, "DC:            %s\n", orDash(v.DC))
	fmt.Fprintf(r.w, "Min replicas:  %d\n", v.Set.MinReplicas)
	fmt.Fprintf(r.w, "Primary:       %s\n", joinInstances(v.Set.Primary))
	fmt.Fprintf(r.w, "Backup:        %s\n", joinInstances(v.Set.Backup))
	if v.Set.RepairPrimary != nil {
		fmt.Fprintf(r.w, "Repair primary: %s\n", v.Set.RepairPrimary.String())
	} else {
		fmt.Fprintf(r.w, "Repair primary: none\n")
	}
	fmt.Fprintln(r.w)
}

func (r *PlainRenderer) RenderFetch(v FetchView) {
	if v.Err != nil {
		fmt.Fprintf(r.w, "partition %d: FETCH FAILED: %v\n", v.PartitionID, v.Err)
		return
	}
	fmt.Fprintf(r.w, "partition %d: %d sstables\n", v.PartitionID, len(v.Handles))
	for _, h := range v.Handles {
		fmt.Fprintf(r.w, "  %s\t%s\t%s\n", h.Instance.String(), h.Repair, h.Path)
	}
}
