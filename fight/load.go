package fight

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// Load reads a fight document from disk.
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	m, err := Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a fight document and builds the model.
func Parse(data string) (*Model, error) {
	if !gjson.Valid(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	doc := gjson.Parse(data)

	spells, err := parseSpells(doc.Get("spells"))
	if err != nil {
		return nil, err
	}
	roster := parseRoster(doc.Get("characters"))
	attacks, err := parseAttacks(doc.Get("attacks"))
	if err != nil {
		return nil, err
	}
	return New(doc.Get("id").String(), doc.Get("name").String(), spells, roster, attacks)
}

func parseSpells(v gjson.Result) ([]Spell, error) {
	var out []Spell
	var err error
	v.ForEach(func(_, s gjson.Result) bool {
		sp := Spell{
			ID:       SpellID(s.Get("id").Int()),
			Name:     s.Get("name").String(),
			Charges:  1,
			Category: Category(s.Get("category").String()),
			Value:    s.Get("value").Float(),
		}
		if c := s.Get("charges"); c.Exists() {
			sp.Charges = int(c.Int())
		}
		if sp.Cooldown, err = readTime(s.Get("cooldown")); err != nil {
			err = fmt.Errorf("%w: spell %d cooldown: %v", ErrMalformed, sp.ID, err)
			return false
		}
		if sp.Duration, err = readTime(s.Get("duration")); err != nil {
			err = fmt.Errorf("%w: spell %d duration: %v", ErrMalformed, sp.ID, err)
			return false
		}
		if icon := s.Get("icon"); icon.Exists() && icon.String() != "" {
			sp.Icon = IconIdentifier(icon.String(), sp.ID)
		} else {
			sp.Icon = SpellIdentifier(sp.ID)
		}
		out = append(out, sp)
		return true
	})
	return out, err
}

func parseRoster(v gjson.Result) []Character {
	var out []Character
	v.ForEach(func(_, c gjson.Result) bool {
		ch := Character{
			ID:    CharacterID(c.Get("id").String()),
			Name:  c.Get("name").String(),
			Realm: c.Get("realm").String(),
		}
		if ch.Name == "" {
			ch.Name = string(ch.ID)
		}
		c.Get("spells").ForEach(func(_, s gjson.Result) bool {
			ch.Spells = append(ch.Spells, SpellID(s.Int()))
			return true
		})
		out = append(out, ch)
		return true
	})
	return out
}

func parseAttacks(v gjson.Result) ([]Attack, error) {
	var out []Attack
	var err error
	v.ForEach(func(_, a gjson.Result) bool {
		at := Attack{
			ID:   AttackID(a.Get("id").String()),
			Name: a.Get("name").String(),
			Need: Need{
				Category: Category(a.Get("need.category").String()),
				Count:    int(a.Get("need.count").Int()),
			},
		}
		if at.Time, err = readTime(a.Get("time")); err != nil {
			err = fmt.Errorf("%w: attack %q time: %v", ErrMalformed, at.ID, err)
			return false
		}
		if at.Tag, err = readTag(a); err != nil {
			err = fmt.Errorf("%w: attack %q: %v", ErrMalformed, at.ID, err)
			return false
		}
		out = append(out, at)
		return true
	})
	return out, err
}

func readTag(a gjson.Result) (Identifier, error) {
	if mk := a.Get("marker"); mk.Exists() {
		m, err := ParseRaidMarker(mk.String())
		if err != nil {
			return Identifier{}, err
		}
		return MarkerIdentifier(m), nil
	}
	if sp := a.Get("spell"); sp.Exists() {
		return SpellIdentifier(SpellID(sp.Int())), nil
	}
	if icon := a.Get("icon"); icon.Exists() {
		return IconIdentifier(icon.Get("path").String(), SpellID(icon.Get("spell").Int())), nil
	}
	if txt := a.Get("text"); txt.Exists() {
		return TextIdentifier(txt.String()), nil
	}
	return Identifier{}, nil
}

func readTime(v gjson.Result) (Time, error) {
	switch v.Type {
	case gjson.Null:
		return 0, nil
	case gjson.Number:
		return Time(v.Int()), nil
	case gjson.String:
		return ParseTime(v.String())
	}
	return 0, fmt.Errorf("unexpected %s", v.Type)
}
