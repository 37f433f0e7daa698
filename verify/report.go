package verify

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// DiffTable renders at most limit mismatches. A limit of zero renders all
// of them.
func DiffTable(diff []Mismatch, limit int) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("Output mismatches (%d)", len(diff)))
	t.AppendHeader(table.Row{"X", "Y", "C", "Got", "Want", "Delta"})

	shown := diff
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	for _, m := range shown {
		t.AppendRow(table.Row{m.X, m.Y, m.C, m.Got, m.Want, m.Got - m.Want})
	}

	if len(shown) < len(diff) {
		t.AppendFooter(table.Row{"", "", "", "", "",
			fmt.Sprintf("%d more", len(diff)-len(shown))})
	}

	return t.Render()
}
