package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/nethalo/bulkreader/internal/ring"
)

// TextRenderer produces Lip Gloss styled terminal output.
type TextRenderer struct {
	w io.Writer
}

func (r *TextRenderer) RenderPlan(v PlanView) {
	width := 60
	header := TitleStyle.Render(fmt.Sprintf("bulkreader — partition %d plan", v.PartitionID))
	fmt.Fprintln(r.w)

	lines := []string{
		r.labelValue("Range:", v.Range.String()),
		r.labelValue("DC:", orDash(v.DC)),
		r.labelValue("Min replicas:", fmt.Sprintf("%d", v.Set.MinReplicas)),
		r.labelValue("Primary:", joinInstances(v.Set.Primary)),
		r.labelValue("Backup:", joinInstances(v.Set.Backup)),
	}
	if v.Set.RepairPrimary != nil {
		lines = append(lines, r.labelValue("Repair primary:", v.Set.RepairPrimary.String()))
	} else {
		lines = append(lines, r.labelValue("Repair primary:", "none (multiple sub-ranges)"))
	}

	box := BoxStyle.Width(width).Render(header + "\n" + strings.Join(lines, "\n"))
	fmt.Fprintln(r.w, box)
	fmt.Fprintln(r.w)
}

func (r *TextRenderer) RenderFetch(v FetchView) {
	if v.Err != nil {
		box := DangerBoxStyle.Width(60).Render(
			DangerText.Render(IconDanger+" Fetch failed") + "\n" + v.Err.Error(),
		)
		fmt.Fprintln(r.w, box)
		return
	}

	header := TitleStyle.Render(fmt.Sprintf("partition %d: %d sstables", v.PartitionID, len(v.Handles)))
	var lines []string
	for _, h := range v.Handles {
		lines = append(lines, fmt.Sprintf("%-20s %-10s %s", h.Instance.String(), h.Repair, h.Path))
	}
	body := header
	if len(lines) > 0 {
		body += "\n" + strings.Join(lines, "\n")
	}
	box := BoxStyle.Width(60).Render(body)
	fmt.Fprintln(r.w, box)
	fmt.Fprintln(r.w, SafeText.Render(IconSafe+" fetch complete"))
}

func (r *TextRenderer) labelValue(label, value string) string {
	return LabelStyle.Render(label) + value
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func joinInstances(instances []ring.Instance) string {
	if len(instances) == 0 {
		return "none"
	}
	names := make([]string, len(instances))
	for i, inst := range instances {
		names[i] = inst.String()
	}
	return strings.Join(names, ", ")
}
