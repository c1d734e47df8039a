// Package checker decides which assignments of a candidate set respect
// capability, window and cooldown/charge rules.
package checker

import (
	"slices"

	"cooldown-planner/assign"
	"cooldown-planner/fight"
)

// ── Charge queue ────────────────────────────────────────────────────

// chargeQueue is a fixed-capacity FIFO of recovery timestamps, one slot
// per charge. Uses are fed in non-decreasing cast order, so recoveries
// leave the queue in the order they entered.
type chargeQueue struct {
	slots    []fight.Time
	head, n  int
	cooldown fight.Time
}

func newChargeQueue(charges int, cooldown fight.Time) *chargeQueue {
	return &chargeQueue{slots: make([]fight.Time, charges), cooldown: cooldown}
}

func (q *chargeQueue) reset() { q.head, q.n = 0, 0 }

// use consumes a charge at t if one is free. A charge whose recovery
// time equals t is available again.
func (q *chargeQueue) use(t fight.Time) bool {
	for q.n > 0 && q.slots[q.head] <= t {
		q.head = (q.head + 1) % len(q.slots)
		q.n--
	}
	if q.n == len(q.slots) {
		return false
	}
	q.slots[(q.head+q.n)%len(q.slots)] = t + q.cooldown
	q.n++
	return true
}

// outstanding is the number of charges still recovering at t.
func (q *chargeQueue) outstanding(t fight.Time) int {
	c := 0
	for i := 0; i < q.n; i++ {
		if q.slots[(q.head+i)%len(q.slots)] > t {
			c++
		}
	}
	return c
}

// ── Validation ──────────────────────────────────────────────────────

type use struct {
	idx  int
	cast fight.Time
}

// States returns the state of each assignment, aligned with the input.
func States(m *fight.Model, as []assign.Assignment) []assign.State {
	states := make([]assign.State, len(as))
	groups := make(map[fight.Capability][]use)
	var order []fight.Capability

	for i := range as {
		a := &as[i]
		attack, ok := m.Attack(a.Attack)
		if !ok {
			states[i] = assign.InvalidState(assign.ReasonDanglingReference)
			continue
		}
		if !m.HasCapability(a.Character, a.Spell) {
			states[i] = assign.InvalidState(assign.ReasonCapabilityMismatch)
			continue
		}
		spell, _ := m.Spell(a.Spell)
		if a.Lead < 0 || a.Lead > spell.Duration {
			states[i] = assign.InvalidState(assign.ReasonOutOfWindow)
			continue
		}
		k := a.Key()
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], use{idx: i, cast: a.CastAt(attack.Time)})
	}

	for _, k := range order {
		uses := groups[k]
		slices.SortStableFunc(uses, func(x, y use) int {
			switch {
			case x.cast < y.cast:
				return -1
			case x.cast > y.cast:
				return 1
			}
			return 0
		})
		spell, _ := m.Spell(k.Spell)
		q := newChargeQueue(spell.Charges, spell.Cooldown)
		for _, u := range uses {
			if q.use(u.cast) {
				states[u.idx] = assign.StateValid
			} else {
				states[u.idx] = assign.InvalidState(assign.ReasonNoCharge)
			}
		}
	}
	return states
}

// Validate maps each assignment id to its state within the set. When ids
// repeat, the first occurrence's state is kept, so input whose ids are not
// known to be unique should go through States instead.
func Validate(m *fight.Model, as []assign.Assignment) map[string]assign.State {
	states := States(m, as)
	out := make(map[string]assign.State, len(as))
	for i, a := range as {
		if _, dup := out[a.ID]; dup {
			continue
		}
		out[a.ID] = states[i]
	}
	return out
}

// ValidSubset keeps the valid assignments in input order.
func ValidSubset(m *fight.Model, as []assign.Assignment) []assign.Assignment {
	states := States(m, as)
	out := make([]assign.Assignment, 0, len(as))
	for i, a := range as {
		if states[i].IsValid() {
			out = append(out, a)
		}
	}
	return out
}

// AllValid reports whether every assignment in the set is valid.
func AllValid(m *fight.Model, as []assign.Assignment) bool {
	for _, s := range States(m, as) {
		if !s.IsValid() {
			return false
		}
	}
	return true
}
