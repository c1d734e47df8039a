package fight

import (
	"fmt"
	"strconv"
	"strings"
)

// Time is an encounter-relative timestamp in milliseconds.
type Time int64

// Second is one second of encounter time.
const Second Time = 1000

func (t Time) String() string {
	sign := ""
	if t < 0 {
		sign = "-"
		t = -t
	}
	mins := t / (60 * Second)
	rest := t % (60 * Second)
	return fmt.Sprintf("%s%d:%02d.%03d", sign, mins, rest/Second, rest%Second)
}

// ParseTime accepts milliseconds ("90000") or clock notation ("1:30", "1:30.250").
func ParseTime(s string) (Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time")
	}
	if !strings.Contains(s, ":") {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("time %q: %w", s, err)
		}
		return Time(ms), nil
	}
	minPart, secPart, _ := strings.Cut(s, ":")
	mins, err := strconv.ParseInt(minPart, 10, 64)
	if err != nil || !digits(minPart) {
		return 0, fmt.Errorf("time %q: bad minutes", s)
	}
	secPart, fracPart, hasFrac := strings.Cut(secPart, ".")
	sec, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil || !digits(secPart) || sec >= 60 {
		return 0, fmt.Errorf("time %q: bad seconds", s)
	}
	var ms int64
	if hasFrac {
		if len(fracPart) == 0 || len(fracPart) > 3 || !digits(fracPart) {
			return 0, fmt.Errorf("time %q: bad fraction", s)
		}
		frac := fracPart + strings.Repeat("0", 3-len(fracPart))
		ms, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("time %q: bad fraction", s)
		}
	}
	return Time(mins)*60*Second + Time(sec)*Second + Time(ms), nil
}

// digits reports whether s is non-empty and only ASCII digits.
func digits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// SpellID is the game's numeric spell id.
type SpellID int

// CharacterID identifies a roster member.
type CharacterID string

// AttackID identifies one timeline event.
type AttackID string

// Category classifies what a spell answers and what an attack needs.
type Category string

// RaidMarker is one of the eight in-game target markers.
type RaidMarker int

const (
	MarkerNone RaidMarker = iota
	MarkerStar
	MarkerCircle
	MarkerDiamond
	MarkerTriangle
	MarkerMoon
	MarkerSquare
	MarkerCross
	MarkerSkull
)

var markerNames = [...]string{"", "star", "circle", "diamond", "triangle", "moon", "square", "cross", "skull"}

func (m RaidMarker) String() string {
	if m < 0 || int(m) >= len(markerNames) {
		return "marker(" + strconv.Itoa(int(m)) + ")"
	}
	return markerNames[m]
}

func parseRaidMarker(s string) RaidMarker {
	switch strings.ToLower(s) {
	case "star", "{star}", "rt1":
		return MarkerStar
	case "circle", "{circle}", "rt2":
		return MarkerCircle
	case "diamond", "{diamond}", "rt3":
		return MarkerDiamond
	case "triangle", "{triangle}", "rt4":
		return MarkerTriangle
	case "moon", "{moon}", "rt5":
		return MarkerMoon
	case "square", "{square}", "rt6":
		return MarkerSquare
	case "cross", "x", "{cross}", "rt7":
		return MarkerCross
	case "skull", "{skull}", "rt8":
		return MarkerSkull
	}
	return MarkerNone
}

// ParseRaidMarker decodes a marker name or its {rtN} chat alias.
func ParseRaidMarker(s string) (RaidMarker, error) {
	m := parseRaidMarker(s)
	if m == MarkerNone {
		return MarkerNone, fmt.Errorf("unknown raid marker %q", s)
	}
	return m, nil
}

// Spell is an ability definition. Immutable once loaded.
type Spell struct {
	ID       SpellID    `json:"id" yaml:"id"`
	Name     string     `json:"name" yaml:"name"`
	Cooldown Time       `json:"cooldown" yaml:"cooldown"`
	Charges  int        `json:"charges" yaml:"charges"`
	Duration Time       `json:"duration" yaml:"duration"`
	Category Category   `json:"category" yaml:"category"`
	Value    float64    `json:"value,omitempty" yaml:"value,omitempty"`
	Icon     Identifier `json:"icon" yaml:"icon"`
}

// Character is one roster member and the spells it can contribute.
type Character struct {
	ID     CharacterID `json:"id" yaml:"id"`
	Name   string      `json:"name" yaml:"name"`
	Realm  string      `json:"realm" yaml:"realm"`
	Spells []SpellID   `json:"spells" yaml:"spells"`
}

// Need describes the response an attack asks for.
type Need struct {
	Category Category `json:"category" yaml:"category"`
	Count    int      `json:"count" yaml:"count"` // minimum matching assignments
}

// Attack is a single timed event on the encounter timeline.
type Attack struct {
	ID   AttackID   `json:"id" yaml:"id"`
	Name string     `json:"name" yaml:"name"`
	Time Time       `json:"time" yaml:"time"`
	Tag  Identifier `json:"tag" yaml:"tag"`
	Need Need       `json:"need" yaml:"need"`
}

// Matches reports whether a spell answers the attack's need.
func (a *Attack) Matches(s *Spell) bool {
	return a.Need.Category != "" && s.Category == a.Need.Category
}

// Capability is one (character, spell) pair a roster member can use.
type Capability struct {
	Character CharacterID
	Spell     SpellID
}
