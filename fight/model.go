package fight

import (
	"errors"
	"fmt"
)

// ErrMalformed marks a fight model rejected at construction.
var ErrMalformed = errors.New("malformed fight model")

// Model is the immutable optimizer input: the ordered attack timeline,
// the roster and the spell catalog. Safe for concurrent readers; slices
// returned by accessors are shared and must not be modified.
type Model struct {
	id      string
	name    string
	attacks []Attack
	roster  []Character
	spells  []Spell

	attackIdx map[AttackID]int
	charIdx   map[CharacterID]int
	spellIdx  map[SpellID]int
	capSet    map[Capability]struct{}
	caps      []Capability
}

// New validates the inputs and builds the lookup indices. Attacks must
// already be in non-decreasing time order; equal timestamps keep input order.
func New(id, name string, spells []Spell, roster []Character, attacks []Attack) (*Model, error) {
	if len(roster) == 0 {
		return nil, fmt.Errorf("%w: empty roster", ErrMalformed)
	}

	m := &Model{
		id:        id,
		name:      name,
		spells:    append([]Spell(nil), spells...),
		attacks:   append([]Attack(nil), attacks...),
		roster:    make([]Character, len(roster)),
		attackIdx: make(map[AttackID]int, len(attacks)),
		charIdx:   make(map[CharacterID]int, len(roster)),
		spellIdx:  make(map[SpellID]int, len(spells)),
		capSet:    make(map[Capability]struct{}),
	}

	for i := range m.spells {
		s := &m.spells[i]
		if _, dup := m.spellIdx[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate spell %d", ErrMalformed, s.ID)
		}
		if s.Charges < 1 {
			return nil, fmt.Errorf("%w: spell %d has %d charges", ErrMalformed, s.ID, s.Charges)
		}
		if s.Cooldown < 0 || s.Duration < 0 {
			return nil, fmt.Errorf("%w: spell %d has negative cooldown or duration", ErrMalformed, s.ID)
		}
		m.spellIdx[s.ID] = i
	}

	for i, c := range roster {
		if c.ID == "" {
			return nil, fmt.Errorf("%w: character %d has no id", ErrMalformed, i)
		}
		if _, dup := m.charIdx[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate character %q", ErrMalformed, c.ID)
		}
		c.Spells = append([]SpellID(nil), c.Spells...)
		for _, sid := range c.Spells {
			if _, ok := m.spellIdx[sid]; !ok {
				return nil, fmt.Errorf("%w: character %q references unknown spell %d", ErrMalformed, c.ID, sid)
			}
			capa := Capability{Character: c.ID, Spell: sid}
			if _, dup := m.capSet[capa]; dup {
				continue
			}
			m.capSet[capa] = struct{}{}
			m.caps = append(m.caps, capa)
		}
		m.roster[i] = c
		m.charIdx[c.ID] = i
	}

	var prev Time
	for i := range m.attacks {
		a := &m.attacks[i]
		if a.ID == "" {
			return nil, fmt.Errorf("%w: attack %d has no id", ErrMalformed, i)
		}
		if _, dup := m.attackIdx[a.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate attack %q", ErrMalformed, a.ID)
		}
		if a.Time < 0 {
			return nil, fmt.Errorf("%w: attack %q at negative time %d", ErrMalformed, a.ID, a.Time)
		}
		if i > 0 && a.Time < prev {
			return nil, fmt.Errorf("%w: attack %q at %v precedes previous attack at %v", ErrMalformed, a.ID, a.Time, prev)
		}
		if a.Need.Count < 0 {
			return nil, fmt.Errorf("%w: attack %q needs %d assignments", ErrMalformed, a.ID, a.Need.Count)
		}
		if a.Need.Count == 0 {
			a.Need.Count = 1
		}
		prev = a.Time
		m.attackIdx[a.ID] = i
	}
	return m, nil
}

func (m *Model) ID() string   { return m.id }
func (m *Model) Name() string { return m.name }

// Attacks returns the timeline in stored order.
func (m *Model) Attacks() []Attack { return m.attacks }

func (m *Model) Roster() []Character { return m.roster }

func (m *Model) Spells() []Spell { return m.spells }

// Capabilities lists every (character, spell) pair in roster order.
func (m *Model) Capabilities() []Capability { return m.caps }

// AttackIndex returns the attack's position in the timeline, or -1.
func (m *Model) AttackIndex(id AttackID) int {
	if i, ok := m.attackIdx[id]; ok {
		return i
	}
	return -1
}

func (m *Model) Attack(id AttackID) (*Attack, bool) {
	i, ok := m.attackIdx[id]
	if !ok {
		return nil, false
	}
	return &m.attacks[i], true
}

func (m *Model) Character(id CharacterID) (*Character, bool) {
	i, ok := m.charIdx[id]
	if !ok {
		return nil, false
	}
	return &m.roster[i], true
}

// CharacterIndex returns the roster position, or -1.
func (m *Model) CharacterIndex(id CharacterID) int {
	if i, ok := m.charIdx[id]; ok {
		return i
	}
	return -1
}

func (m *Model) Spell(id SpellID) (*Spell, bool) {
	i, ok := m.spellIdx[id]
	if !ok {
		return nil, false
	}
	return &m.spells[i], true
}

// HasCapability reports whether the character can cast the spell.
func (m *Model) HasCapability(c CharacterID, s SpellID) bool {
	_, ok := m.capSet[Capability{Character: c, Spell: s}]
	return ok
}
