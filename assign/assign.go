// Package assign holds the binding of one character's spell to one attack
// and the validity states the constraint checker derives for it.
package assign

import (
	"strconv"

	"github.com/google/uuid"

	"cooldown-planner/fight"
)

// namespace scopes assignment ids derived from their binding.
var namespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("cooldown-planner/assignment"))

// Assignment binds a character's spell to an attack. Lead is how long
// before the attack the spell is activated; zero means same instant.
type Assignment struct {
	ID        string            `json:"id" yaml:"id"`
	Character fight.CharacterID `json:"character" yaml:"character"`
	Spell     fight.SpellID     `json:"spell" yaml:"spell"`
	Attack    fight.AttackID    `json:"attack" yaml:"attack"`
	Lead      fight.Time        `json:"lead,omitempty" yaml:"lead,omitempty"`
}

// New builds an assignment whose id is derived from the binding, so the
// same binding always yields the same id.
func New(c fight.CharacterID, s fight.SpellID, a fight.AttackID, lead fight.Time) Assignment {
	name := string(c) + "|" + strconv.Itoa(int(s)) + "|" + string(a) + "|" + strconv.FormatInt(int64(lead), 10)
	return Assignment{
		ID:        uuid.NewSHA1(namespace, []byte(name)).String(),
		Character: c,
		Spell:     s,
		Attack:    a,
		Lead:      lead,
	}
}

// Key returns the (character, spell) pair whose charges this assignment consumes.
func (a Assignment) Key() fight.Capability {
	return fight.Capability{Character: a.Character, Spell: a.Spell}
}

// CastAt is the activation time for an attack occurring at t.
func (a Assignment) CastAt(t fight.Time) fight.Time { return t - a.Lead }

// Clone copies a slice of assignments.
func Clone(as []Assignment) []Assignment {
	if as == nil {
		return nil
	}
	return append([]Assignment(nil), as...)
}

// ── State ───────────────────────────────────────────────────────────

type Status int

const (
	Proposed Status = iota
	Valid
	Invalid
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	}
	return "proposed"
}

// Reason explains an Invalid state.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNoCharge
	ReasonCapabilityMismatch
	ReasonDanglingReference
	ReasonOutOfWindow
)

func (r Reason) String() string {
	switch r {
	case ReasonNoCharge:
		return "no-charge-available"
	case ReasonCapabilityMismatch:
		return "capability-mismatch"
	case ReasonDanglingReference:
		return "dangling-reference"
	case ReasonOutOfWindow:
		return "out-of-window"
	}
	return ""
}

// State is the validity of an assignment within one candidate set.
// The zero value is Proposed.
type State struct {
	Status Status
	Reason Reason
}

var StateValid = State{Status: Valid}

func InvalidState(r Reason) State { return State{Status: Invalid, Reason: r} }

func (s State) IsValid() bool { return s.Status == Valid }

func (s State) String() string {
	if s.Status == Invalid {
		return "invalid(" + s.Reason.String() + ")"
	}
	return s.Status.String()
}
