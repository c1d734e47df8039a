package optimizer

import (
	"cmp"
	"slices"
	"time"

	"cooldown-planner/assign"
	"cooldown-planner/checker"
	"cooldown-planner/fight"
	"cooldown-planner/score"
)

// Plan is the result of one optimization: a fully valid assignment set
// and its score. A Plan is never modified after Optimize returns it.
type Plan struct {
	FightID     string              `json:"fight_id" yaml:"fight_id"`
	Strategy    Strategy            `json:"strategy" yaml:"strategy"`
	Assignments []assign.Assignment `json:"assignments" yaml:"assignments"`
	Score       float64             `json:"score" yaml:"score"`
	Breakdown   map[string]float64  `json:"breakdown,omitempty" yaml:"breakdown,omitempty"`
	Iterations  int                 `json:"iterations" yaml:"iterations"`
	Exhausted   bool                `json:"exhausted" yaml:"exhausted"`
	Elapsed     time.Duration       `json:"elapsed" yaml:"elapsed"`

	fight *fight.Model
}

// Fight returns the model the plan was computed against, or nil for a
// plan decoded from storage.
func (p *Plan) Fight() *fight.Model { return p.fight }

// Revalidate returns the ids of assignments that are not valid under m,
// in plan order. An empty result means the plan still holds.
func (p *Plan) Revalidate(m *fight.Model) []string {
	var bad []string
	for i, s := range checker.States(m, p.Assignments) {
		if !s.IsValid() {
			bad = append(bad, p.Assignments[i].ID)
		}
	}
	return bad
}

// ForAttack returns the plan's assignments bound to one attack.
func (p *Plan) ForAttack(id fight.AttackID) []assign.Assignment {
	var out []assign.Assignment
	for _, a := range p.Assignments {
		if a.Attack == id {
			out = append(out, a)
		}
	}
	return out
}

type runStats struct {
	strategy  Strategy
	steps     int
	exhausted bool
	elapsed   time.Duration
}

// assemble re-validates the chosen set, drops anything invalid, orders the
// rest by attack then roster position, and scores it.
func assemble(m *fight.Model, obj score.Objective, set []assign.Assignment, st runStats) *Plan {
	kept := checker.ValidSubset(m, set)
	slices.SortStableFunc(kept, func(a, b assign.Assignment) int {
		if c := cmp.Compare(m.AttackIndex(a.Attack), m.AttackIndex(b.Attack)); c != 0 {
			return c
		}
		if c := cmp.Compare(m.CharacterIndex(a.Character), m.CharacterIndex(b.Character)); c != 0 {
			return c
		}
		return cmp.Compare(a.Spell, b.Spell)
	})
	return &Plan{
		FightID:     m.ID(),
		Strategy:    st.strategy,
		Assignments: kept,
		Score:       obj.Score(m, kept),
		Breakdown:   obj.Breakdown(m, kept),
		Iterations:  st.steps,
		Exhausted:   st.exhausted,
		Elapsed:     st.elapsed,
		fight:       m,
	}
}
