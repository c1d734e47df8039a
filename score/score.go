// Package score rates valid assignment sets. Every function is pure and
// total: the empty set yields the function's baseline.
package score

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"cooldown-planner/assign"
	"cooldown-planner/fight"
)

// Func rates a set of valid assignments against a fight. Higher is better.
type Func func(m *fight.Model, valid []assign.Assignment) float64

const (
	NameCoverage = "coverage"
	NameOverlap  = "overlap"
	NameIdle     = "idle"
	NameDemand   = "demand"
)

// Builtin lists the score functions available to Compile by name.
var Builtin = map[string]Func{
	NameCoverage: Coverage,
	NameOverlap:  Overlap,
	NameIdle:     Idle,
	NameDemand:   Demand,
}

// ── Matching ────────────────────────────────────────────────────────

// matchCounts returns, per attack index, how many assignments answer it.
// Assignments with dangling references are ignored.
func matchCounts(m *fight.Model, valid []assign.Assignment) []int {
	counts := make([]int, len(m.Attacks()))
	attacks := m.Attacks()
	for i := range valid {
		ai := m.AttackIndex(valid[i].Attack)
		if ai < 0 {
			continue
		}
		spell, ok := m.Spell(valid[i].Spell)
		if !ok {
			continue
		}
		if attacks[ai].Matches(spell) {
			counts[ai]++
		}
	}
	return counts
}

func needingAttacks(m *fight.Model) int {
	n := 0
	for i := range m.Attacks() {
		if m.Attacks()[i].Need.Category != "" {
			n++
		}
	}
	return n
}

// ── Built-ins ───────────────────────────────────────────────────────

// Coverage is the fraction of attacks with a need that at least one
// matching assignment answers.
func Coverage(m *fight.Model, valid []assign.Assignment) float64 {
	total := needingAttacks(m)
	if total == 0 {
		return 0
	}
	covered := 0
	for _, c := range matchCounts(m, valid) {
		if c > 0 {
			covered++
		}
	}
	return float64(covered) / float64(total)
}

// Overlap is minus the number of attacks answered by more matching
// assignments than they need.
func Overlap(m *fight.Model, valid []assign.Assignment) float64 {
	over := 0
	attacks := m.Attacks()
	for i, c := range matchCounts(m, valid) {
		if c > attacks[i].Need.Count {
			over++
		}
	}
	return float64(-over)
}

// Idle is minus the share of roster spell value left entirely unused.
// Only capabilities whose spell has a positive Value count.
func Idle(m *fight.Model, valid []assign.Assignment) float64 {
	used := make(map[fight.Capability]bool, len(valid))
	for _, a := range valid {
		used[a.Key()] = true
	}
	var total, idle float64
	for _, capa := range m.Capabilities() {
		spell, _ := m.Spell(capa.Spell)
		if spell.Value <= 0 {
			continue
		}
		total += spell.Value
		if !used[capa] {
			idle += spell.Value
		}
	}
	if idle == 0 {
		return 0
	}
	return -idle / total
}

// Demand is the mean fulfilled share of each attack's required count.
func Demand(m *fight.Model, valid []assign.Assignment) float64 {
	total := needingAttacks(m)
	if total == 0 {
		return 0
	}
	attacks := m.Attacks()
	var sum float64
	for i, c := range matchCounts(m, valid) {
		need := attacks[i].Need.Count
		if attacks[i].Need.Category == "" || need <= 0 {
			continue
		}
		sum += float64(min(c, need)) / float64(need)
	}
	return sum / float64(total)
}

// ── Weighted objective ──────────────────────────────────────────────

// Weights maps a score function name to its weight in the objective.
type Weights map[string]float64

// DefaultWeights rewards coverage and lightly discourages stacking.
func DefaultWeights() Weights {
	return Weights{NameCoverage: 1, NameOverlap: 0.1}
}

// ErrUnknownFunc is returned by Compile for names missing from Builtin.
var ErrUnknownFunc = errors.New("unknown score function")

type term struct {
	name   string
	weight float64
	fn     Func
}

// Objective is a compiled weighted sum of score functions.
type Objective struct {
	terms []term
}

// Compile resolves weights against Builtin. Zero weights are dropped;
// terms are evaluated in name order so sums are reproducible.
func Compile(w Weights) (Objective, error) {
	var o Objective
	for _, name := range slices.Sorted(maps.Keys(w)) {
		fn, ok := Builtin[name]
		if !ok {
			return Objective{}, fmt.Errorf("%w: %q", ErrUnknownFunc, name)
		}
		if w[name] == 0 {
			continue
		}
		o.terms = append(o.terms, term{name: name, weight: w[name], fn: fn})
	}
	return o, nil
}

// Score evaluates the weighted sum.
func (o Objective) Score(m *fight.Model, valid []assign.Assignment) float64 {
	var s float64
	for _, t := range o.terms {
		s += t.weight * t.fn(m, valid)
	}
	return s
}

// Baseline is the score of the empty set.
func (o Objective) Baseline(m *fight.Model) float64 {
	return o.Score(m, nil)
}

// Breakdown returns each weighted term's contribution.
func (o Objective) Breakdown(m *fight.Model, valid []assign.Assignment) map[string]float64 {
	out := make(map[string]float64, len(o.terms))
	for _, t := range o.terms {
		out[t.name] = t.weight * t.fn(m, valid)
	}
	return out
}

// Names lists the active terms.
func (o Objective) Names() []string {
	names := make([]string, len(o.terms))
	for i, t := range o.terms {
		names[i] = t.name
	}
	return names
}
