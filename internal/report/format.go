// Package report renders plans for people and persists them for callers.
package report

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"cooldown-planner/assign"
	"cooldown-planner/fight"
	"cooldown-planner/optimizer"
)

// AttackDetail holds the per-attack breakdown used by every renderer.
type AttackDetail struct {
	Attack  *fight.Attack
	Matched int // assignments answering the need
	Casts   []CastDetail
}

// CastDetail is one assignment resolved against the model.
type CastDetail struct {
	Assignment assign.Assignment
	Character  string
	Spell      string
	At         fight.Time
}

// Details resolves a plan's assignments attack by attack in timeline
// order. Attacks with no assignment are included.
func Details(p *optimizer.Plan, m *fight.Model) []AttackDetail {
	attacks := m.Attacks()
	out := make([]AttackDetail, len(attacks))
	for i := range attacks {
		out[i].Attack = &attacks[i]
	}
	for _, a := range p.Assignments {
		ai := m.AttackIndex(a.Attack)
		if ai < 0 {
			continue
		}
		d := &out[ai]
		cd := CastDetail{Assignment: a, Character: string(a.Character), Spell: fmt.Sprintf("#%d", a.Spell), At: a.CastAt(d.Attack.Time)}
		if c, ok := m.Character(a.Character); ok && c.Name != "" {
			cd.Character = c.Name
		}
		if s, ok := m.Spell(a.Spell); ok {
			if s.Name != "" {
				cd.Spell = s.Name
			}
			if d.Attack.Matches(s) {
				d.Matched++
			}
		}
		d.Casts = append(d.Casts, cd)
	}
	return out
}

func attackTitle(a *fight.Attack) string {
	if a.Name != "" {
		return a.Name
	}
	return string(a.ID)
}

// FormatPlan produces the plain-text plan: one block per attack, then
// the score and its breakdown.
func FormatPlan(p *optimizer.Plan, m *fight.Model) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s [%s]\n", m.Name(), p.FightID)
	for i, d := range Details(p, m) {
		b.WriteString("-------------------\n")
		a := d.Attack
		need := "-"
		if a.Need.Category != "" {
			need = fmt.Sprintf("%s x%d", a.Need.Category, a.Need.Count)
		}
		fmt.Fprintf(&b, "Attack %d: %s @ %s need %s -> %d/%d", i+1, attackTitle(a), a.Time, need, d.Matched, a.Need.Count)
		if !a.Tag.IsZero() {
			fmt.Fprintf(&b, " %s", a.Tag)
		}
		b.WriteByte('\n')
		for _, c := range d.Casts {
			fmt.Fprintf(&b, "  %s: %s", c.Character, c.Spell)
			if c.Assignment.Lead > 0 {
				fmt.Fprintf(&b, " (cast %s)", c.At)
			}
			b.WriteByte('\n')
		}
	}
	b.WriteString("===================\n")
	fmt.Fprintf(&b, "Score: %.4f  (%s, %d assignments, %d steps", p.Score, p.Strategy, len(p.Assignments), p.Iterations)
	if p.Exhausted {
		b.WriteString(", budget exhausted")
	}
	b.WriteString(")\n")
	for _, name := range slices.Sorted(maps.Keys(p.Breakdown)) {
		fmt.Fprintf(&b, "  %s: %.4f\n", name, p.Breakdown[name])
	}
	return b.String()
}
