package stats

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// CounterTable renders the non-zero counters of every module.
func CounterTable(entries []Entry) string {
	t := table.NewWriter()
	t.SetTitle("Counters")
	t.AppendHeader(table.Row{"Module", "Counter", "Value"})

	for _, e := range entries {
		for k := CounterKind(0); k < NumCounterKinds; k++ {
			if v := e.Counters.Get(k); v != 0 {
				t.AppendRow(table.Row{e.Name, k.String(), v})
			}
		}
	}

	return t.Render()
}

// EnergyTable renders the energy breakdown of a cost model.
func EnergyTable(m *CostModel) string {
	t := table.NewWriter()
	t.SetTitle("Energy")
	t.AppendHeader(table.Row{"Category", "Events", "Weight", "Energy"})

	for cat := Category(0); cat < NumCategories; cat++ {
		t.AppendRow(table.Row{
			cat.String(), m.Counted(cat), m.Weights[cat], m.CategoryEnergy(cat),
		})
	}

	t.AppendFooter(table.Row{"Total", "", "", m.Energy()})

	return t.Render()
}
