package checker

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cooldown-planner/assign"
	"cooldown-planner/fight"
)

func newModel(t *testing.T, spells []fight.Spell, roster []fight.Character, times ...fight.Time) *fight.Model {
	t.Helper()
	attacks := make([]fight.Attack, len(times))
	for i, at := range times {
		attacks[i] = fight.Attack{ID: attackID(i), Time: at, Need: fight.Need{Category: "X"}}
	}
	m, err := fight.New("test", "", spells, roster, attacks)
	require.NoError(t, err)
	return m
}

func attackID(i int) fight.AttackID { return fight.AttackID(fmt.Sprintf("a%d", i)) }

func singleSpell(cooldown fight.Time, charges int) ([]fight.Spell, []fight.Character) {
	return []fight.Spell{{ID: 1, Cooldown: cooldown, Charges: charges, Duration: 5, Category: "X"}},
		[]fight.Character{{ID: "c", Spells: []fight.SpellID{1}}}
}

func TestSingleChargeCooldown(t *testing.T) {
	spells, roster := singleSpell(30, 1)
	m := newModel(t, spells, roster, 10, 20, 40)
	at := m.Attacks()
	as := []assign.Assignment{
		assign.New("c", 1, at[0].ID, 0),
		assign.New("c", 1, at[1].ID, 0),
		assign.New("c", 1, at[2].ID, 0),
	}
	states := Validate(m, as)
	assert.Equal(t, assign.StateValid, states[as[0].ID])
	assert.Equal(t, assign.InvalidState(assign.ReasonNoCharge), states[as[1].ID])
	assert.Equal(t, assign.StateValid, states[as[2].ID], "charge recovered exactly at 40")
}

func TestTwoChargesRecover(t *testing.T) {
	spells, roster := singleSpell(20, 2)
	m := newModel(t, spells, roster, 0, 5, 50)
	var as []assign.Assignment
	for _, a := range m.Attacks() {
		as = append(as, assign.New("c", 1, a.ID, 0))
	}
	assert.True(t, AllValid(m, as))

	m2 := newModel(t, spells, roster, 0, 5, 10)
	var as2 []assign.Assignment
	for _, a := range m2.Attacks() {
		as2 = append(as2, assign.New("c", 1, a.ID, 0))
	}
	states := States(m2, as2)
	assert.True(t, states[0].IsValid())
	assert.True(t, states[1].IsValid())
	assert.Equal(t, assign.ReasonNoCharge, states[2].Reason)
}

func TestInputOrderIndependentOfTime(t *testing.T) {
	spells, roster := singleSpell(30, 1)
	m := newModel(t, spells, roster, 10, 20)
	at := m.Attacks()
	late := assign.New("c", 1, at[1].ID, 0)
	early := assign.New("c", 1, at[0].ID, 0)
	states := Validate(m, []assign.Assignment{late, early})
	assert.True(t, states[early.ID].IsValid(), "walk follows attack time, not input order")
	assert.False(t, states[late.ID].IsValid())
}

func TestSameInstantTieBreak(t *testing.T) {
	spells, roster := singleSpell(30, 1)
	m := newModel(t, spells, roster, 10, 10)
	at := m.Attacks()
	first := assign.New("c", 1, at[1].ID, 0)
	second := assign.New("c", 1, at[0].ID, 0)
	states := Validate(m, []assign.Assignment{first, second})
	assert.True(t, states[first.ID].IsValid(), "earlier input order wins")
	assert.Equal(t, assign.InvalidState(assign.ReasonNoCharge), states[second.ID])
}

func TestStructuralInvalidity(t *testing.T) {
	spells := []fight.Spell{
		{ID: 1, Cooldown: 30, Charges: 1, Duration: 5, Category: "X"},
		{ID: 2, Cooldown: 30, Charges: 1, Category: "X"},
	}
	roster := []fight.Character{{ID: "c", Spells: []fight.SpellID{1}}, {ID: "d", Spells: []fight.SpellID{2}}}
	m := newModel(t, spells, roster, 10)
	a := m.Attacks()[0].ID

	mismatch := assign.New("c", 2, a, 0)
	dangling := assign.New("c", 1, "ghost", 0)
	unknownChar := assign.New("zz", 1, a, 0)
	early := assign.New("c", 1, a, 6)
	negative := assign.New("c", 1, a, -1)
	ok := assign.New("c", 1, a, 5)

	states := Validate(m, []assign.Assignment{mismatch, dangling, unknownChar, early, negative, ok})
	assert.Equal(t, assign.InvalidState(assign.ReasonCapabilityMismatch), states[mismatch.ID])
	assert.Equal(t, assign.InvalidState(assign.ReasonDanglingReference), states[dangling.ID])
	assert.Equal(t, assign.InvalidState(assign.ReasonCapabilityMismatch), states[unknownChar.ID])
	assert.Equal(t, assign.InvalidState(assign.ReasonOutOfWindow), states[early.ID])
	assert.Equal(t, assign.InvalidState(assign.ReasonOutOfWindow), states[negative.ID])
	assert.True(t, states[ok.ID].IsValid(), "lead up to the spell duration is allowed")
}

func TestLeadMovesCastTime(t *testing.T) {
	spells := []fight.Spell{{ID: 1, Cooldown: 30, Charges: 1, Duration: 10, Category: "X"}}
	roster := []fight.Character{{ID: "c", Spells: []fight.SpellID{1}}}
	m := newModel(t, spells, roster, 0, 38)
	at := m.Attacks()
	// pre-casting the second attack pulls it toward the first recovery at 30
	as := []assign.Assignment{assign.New("c", 1, at[0].ID, 0), assign.New("c", 1, at[1].ID, 8)}
	assert.True(t, AllValid(m, as), "cast at 30 sees the charge recovered at 30")
	as[1] = assign.New("c", 1, at[1].ID, 9)
	assert.False(t, AllValid(m, as))
}

func TestValidateIdempotent(t *testing.T) {
	m, as := randomSet(t, rand.New(rand.NewPCG(7, 7)))
	first := Validate(m, as)
	second := Validate(m, as)
	assert.Equal(t, first, second)
	assert.Len(t, ValidSubset(m, as), countValid(first))
}

func TestChargesNeverExceeded(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	for iter := 0; iter < 50; iter++ {
		m, as := randomSet(t, rng)
		valid := ValidSubset(m, as)
		require.True(t, AllValid(m, valid), "valid subset stays valid on its own")

		tr := NewTracker(m)
		for _, a := range valid {
			require.True(t, tr.Add(a))
		}
		for _, capa := range m.Capabilities() {
			spell, _ := m.Spell(capa.Spell)
			uses := tr.times(capa)
			for _, at := range uses {
				inFlight := 0
				for _, ct := range uses {
					if ct <= at && at < ct+spell.Cooldown {
						inFlight++
					}
				}
				assert.LessOrEqual(t, inFlight, spell.Charges, "pair %v at %v", capa, at)
				assert.Equal(t, inFlight, tr.outstanding(capa, at))
			}
		}
	}
}

func randomSet(t *testing.T, rng *rand.Rand) (*fight.Model, []assign.Assignment) {
	t.Helper()
	spells := []fight.Spell{
		{ID: 1, Cooldown: fight.Time(10 + rng.IntN(40)), Charges: 1 + rng.IntN(3), Duration: 5, Category: "X"},
		{ID: 2, Cooldown: fight.Time(10 + rng.IntN(40)), Charges: 1 + rng.IntN(3), Duration: 5, Category: "X"},
	}
	roster := []fight.Character{
		{ID: "c", Spells: []fight.SpellID{1, 2}},
		{ID: "d", Spells: []fight.SpellID{2}},
	}
	n := 5 + rng.IntN(15)
	times := make([]fight.Time, n)
	var cur fight.Time
	for i := range times {
		cur += fight.Time(rng.IntN(12))
		times[i] = cur
	}
	m := newModel(t, spells, roster, times...)
	var as []assign.Assignment
	for _, a := range m.Attacks() {
		for _, capa := range m.Capabilities() {
			if rng.IntN(2) == 0 {
				as = append(as, assign.New(capa.Character, capa.Spell, a.ID, 0))
			}
		}
	}
	rng.Shuffle(len(as), func(i, j int) { as[i], as[j] = as[j], as[i] })
	return m, as
}

func countValid(states map[string]assign.State) int {
	n := 0
	for _, s := range states {
		if s.IsValid() {
			n++
		}
	}
	return n
}
