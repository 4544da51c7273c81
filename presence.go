package mantle

import "strings"

// Presence is the bit flag recorded for each property during Decode.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Every key path of the property appeared in the input.
	PresenceWasNull                             // At least one key path held null.
	PresenceDefaultApplied                      // Default value was applied.
)

func (p Presence) Has(flag Presence) bool { return p&flag != 0 }

func (p Presence) String() string {
	if p == 0 {
		return "none"
	}
	var parts []string
	if p.Has(PresenceSeen) {
		parts = append(parts, "seen")
	}
	if p.Has(PresenceWasNull) {
		parts = append(parts, "null")
	}
	if p.Has(PresenceDefaultApplied) {
		parts = append(parts, "default")
	}
	return strings.Join(parts, "|")
}

// PresenceMap maps property names to Presence flags.
type PresenceMap map[string]Presence

// Decoded carries a deserialized model along with the non-fatal issues and
// presence metadata collected while building it.
type Decoded struct {
	Model    *Model
	Warnings Issues
	Presence PresenceMap
}
