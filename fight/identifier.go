package fight

import (
	"cmp"
	"fmt"
	"strings"
)

// IdentifierKind tags which variant an Identifier holds.
type IdentifierKind int

const (
	IDNone IdentifierKind = iota
	IDSpell
	IDIcon
	IDMarker
	IDText
)

func (k IdentifierKind) String() string {
	switch k {
	case IDSpell:
		return "spell"
	case IDIcon:
		return "icon"
	case IDMarker:
		return "marker"
	case IDText:
		return "text"
	}
	return "none"
}

func parseIdentifierKind(s string) IdentifierKind {
	switch s {
	case "spell":
		return IDSpell
	case "icon":
		return IDIcon
	case "marker":
		return IDMarker
	case "text":
		return IDText
	}
	return IDNone
}

func (k IdentifierKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *IdentifierKind) UnmarshalText(b []byte) error {
	*k = parseIdentifierKind(string(b))
	if *k == IDNone && len(b) > 0 && string(b) != "none" {
		return fmt.Errorf("unknown identifier kind %q", b)
	}
	return nil
}

// Identifier labels an ability or timeline marker. Only one variant's
// fields are set; the zero value means "no identifier".
type Identifier struct {
	Kind   IdentifierKind `json:"kind" yaml:"kind"`
	Spell  SpellID        `json:"spell,omitempty" yaml:"spell,omitempty"`
	Icon   string         `json:"icon,omitempty" yaml:"icon,omitempty"`
	Marker RaidMarker     `json:"marker,omitempty" yaml:"marker,omitempty"`
	Text   string         `json:"text,omitempty" yaml:"text,omitempty"`
}

func SpellIdentifier(id SpellID) Identifier {
	return Identifier{Kind: IDSpell, Spell: id}
}

// IconIdentifier pairs an icon path with the spell it depicts.
func IconIdentifier(path string, id SpellID) Identifier {
	return Identifier{Kind: IDIcon, Icon: path, Spell: id}
}

func MarkerIdentifier(m RaidMarker) Identifier {
	return Identifier{Kind: IDMarker, Marker: m}
}

func TextIdentifier(s string) Identifier {
	return Identifier{Kind: IDText, Text: s}
}

// IsZero reports whether no variant is set.
func (id Identifier) IsZero() bool { return id.Kind == IDNone }

// Compare orders identifiers by kind, then by the variant's fields.
func (id Identifier) Compare(o Identifier) int {
	if c := cmp.Compare(id.Kind, o.Kind); c != 0 {
		return c
	}
	switch id.Kind {
	case IDSpell:
		return cmp.Compare(id.Spell, o.Spell)
	case IDIcon:
		if c := strings.Compare(id.Icon, o.Icon); c != 0 {
			return c
		}
		return cmp.Compare(id.Spell, o.Spell)
	case IDMarker:
		return cmp.Compare(id.Marker, o.Marker)
	case IDText:
		return strings.Compare(id.Text, o.Text)
	}
	return 0
}

func (id Identifier) String() string {
	switch id.Kind {
	case IDSpell:
		return fmt.Sprintf("spell:%d", id.Spell)
	case IDIcon:
		return fmt.Sprintf("icon:%s#%d", id.Icon, id.Spell)
	case IDMarker:
		return "{" + id.Marker.String() + "}"
	case IDText:
		return id.Text
	}
	return ""
}
