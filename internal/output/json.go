package output

import (
	"encoding/json"
	"io"
)

// JSONRenderer produces machine-readable JSON output.
type JSONRenderer struct {
	w io.Writer
}

type jsonPlan struct {
	PartitionID   int      `json:"partition_id"`
	Range         string   `json:"range"`
	DC            string   `json:"dc,omitempty"`
	MinReplicas   int      `json:"min_replicas"`
	Primary       []string `json:"primary"`
	Backup        []string `json:"backup,omitempty"`
	RepairPrimary string   `json:"repair_primary,omitempty"`
}

func (r *JSONRenderer) RenderPlan(v PlanView) {
	out := jsonPlan{
		PartitionID: v.PartitionID,
		Range:       v.Range.String(),
		DC:          v.DC,
		MinReplicas: v.Set.MinReplicas,
		Primary:     instanceNames(v.Set.Primary),
		Backup:      instanceNames(v.Set.Backup),
	}
	if v.Set.RepairPrimary != nil {
		out.RepairPrimary = v.Set.RepairPrimary.String()
	}
	r.encode(out)
}

type jsonSSTable struct {
	Instance string `json:"instance"`
	Repair   string `json:"repair_state"`
	Path     string `json:"path"`
}

type jsonFetch struct {
	PartitionID int           `json:"partition_id"`
	Error       string        `json:"error,omitempty"`
	SSTables    []jsonSSTable `json:"sstables,omitempty"`
}

func (r *JSONRenderer) RenderFetch(v FetchView) {
	out := jsonFetch{PartitionID: v.PartitionID}
	if v.Err != nil {
		out.Error = v.Err.Error()
		r.encode(out)
		return
	}
	for _, h := range v.Handles {
		out.SSTables = append(out.SSTables, jsonSSTable{
			Instance: h.Instance.String(),
			Repair:   h.Repair.String(),
			Path:     h.Path,
		})
	}
	r.encode(out)
}

func (r *JSONRenderer) encode(v any) {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
