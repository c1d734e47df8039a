package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"cooldown-planner/fight"
	"cooldown-planner/optimizer"
)

// WriteTable renders one row per assignment, attacks without any as a
// row with empty cast columns.
func WriteTable(w io.Writer, p *optimizer.Plan, m *fight.Model) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Time", "Attack", "Need", "Character", "Spell", "Cast"})
	for _, d := range Details(p, m) {
		a := d.Attack
		need := ""
		if a.Need.Category != "" {
			need = string(a.Need.Category)
		}
		if len(d.Casts) == 0 {
			tw.AppendRow(table.Row{a.Time, attackTitle(a), need, "", "", ""})
			continue
		}
		for _, c := range d.Casts {
			tw.AppendRow(table.Row{a.Time, attackTitle(a), need, c.Character, c.Spell, c.At})
		}
	}
	tw.AppendFooter(table.Row{"", "", "", "", "Score", p.Score})
	tw.Render()
}
