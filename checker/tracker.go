package checker

import (
	"slices"

	"cooldown-planner/assign"
	"cooldown-planner/fight"
)

// Tracker is an incremental ledger of cast times per (character, spell)
// for one search's working set. It only ever holds sets in which every
// use is valid. Not safe for concurrent use; each search owns its own.
type Tracker struct {
	m    *fight.Model
	uses map[fight.Capability][]fight.Time
	q    map[fight.Capability]*chargeQueue
}

func NewTracker(m *fight.Model) *Tracker {
	return &Tracker{
		m:    m,
		uses: make(map[fight.Capability][]fight.Time),
		q:    make(map[fight.Capability]*chargeQueue),
	}
}

func (t *Tracker) cast(a assign.Assignment) (fight.Time, *fight.Spell, bool) {
	attack, ok := t.m.Attack(a.Attack)
	if !ok || !t.m.HasCapability(a.Character, a.Spell) {
		return 0, nil, false
	}
	spell, _ := t.m.Spell(a.Spell)
	if a.Lead < 0 || a.Lead > spell.Duration {
		return 0, nil, false
	}
	return a.CastAt(attack.Time), spell, true
}

func (t *Tracker) queue(k fight.Capability, s *fight.Spell) *chargeQueue {
	q, ok := t.q[k]
	if !ok {
		q = newChargeQueue(s.Charges, s.Cooldown)
		t.q[k] = q
	}
	q.reset()
	return q
}

// Fits reports whether adding a keeps every use of its pair valid.
func (t *Tracker) Fits(a assign.Assignment) bool {
	at, spell, ok := t.cast(a)
	if !ok {
		return false
	}
	k := a.Key()
	times := t.uses[k]
	if len(times) < spell.Charges {
		return true
	}
	q := t.queue(k, spell)
	inserted := false
	for _, ct := range times {
		if !inserted && at < ct {
			if !q.use(at) {
				return false
			}
			inserted = true
		}
		if !q.use(ct) {
			return false
		}
	}
	return inserted || q.use(at)
}

// Add records a. Callers check Fits first; Add reports false and
// records nothing when a references something the model lacks.
func (t *Tracker) Add(a assign.Assignment) bool {
	at, _, ok := t.cast(a)
	if !ok {
		return false
	}
	k := a.Key()
	times := t.uses[k]
	i, _ := slices.BinarySearch(times, at)
	for i < len(times) && times[i] == at {
		i++
	}
	t.uses[k] = slices.Insert(times, i, at)
	return true
}

// Remove forgets one use matching a.
func (t *Tracker) Remove(a assign.Assignment) {
	at, _, ok := t.cast(a)
	if !ok {
		return
	}
	k := a.Key()
	times := t.uses[k]
	if i, found := slices.BinarySearch(times, at); found {
		t.uses[k] = slices.Delete(times, i, i+1)
	}
}

// times returns the recorded cast times for a pair in order.
func (t *Tracker) times(k fight.Capability) []fight.Time {
	return slices.Clone(t.uses[k])
}

// outstanding counts charges of k still recovering at at.
func (t *Tracker) outstanding(k fight.Capability, at fight.Time) int {
	spell, ok := t.m.Spell(k.Spell)
	if !ok {
		return 0
	}
	q := t.queue(k, spell)
	for _, ct := range t.uses[k] {
		if ct > at {
			break
		}
		q.use(ct)
	}
	return q.outstanding(at)
}
