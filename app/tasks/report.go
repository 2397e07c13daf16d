package tasks

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// SweepReport accumulates per-entity outcomes for one maintenance sweep.
// A single entity failure bumps Failed and the sweep moves on; only a store
// persist failure aborts a sweep.
type SweepReport struct {
	Created int
	Updated int
	Removed int
	Skipped int
	Failed  int
}

func (r SweepReport) Total() int {
	return r.Created + r.Updated + r.Removed + r.Skipped + r.Failed
}

// Changed reports whether the sweep mutated the store at all.
func (r SweepReport) Changed() bool {
	return r.Created > 0 || r.Updated > 0 || r.Removed > 0
}

// RenderTable formats the report for one-shot CLI runs.
func (r SweepReport) RenderTable(taskType TaskType) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Job", "Created", "Updated", "Removed", "Skipped", "Failed"})
	tw.AppendRow(table.Row{
		string(taskType),
		strconv.Itoa(r.Created),
		strconv.Itoa(r.Updated),
		strconv.Itoa(r.Removed),
		strconv.Itoa(r.Skipped),
		strconv.Itoa(r.Failed),
	})

	configs := make([]table.ColumnConfig, 0, 6)
	configs = append(configs, table.ColumnConfig{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft})
	for i := 2; i <= 6; i++ {
		configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
