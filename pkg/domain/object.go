package domain

import "strconv"

// ObjectID identifies an addressable object in a world.
// The zero value is never issued by a world and means "no object".
type ObjectID uint64

// String renders the id as obj#<n>.
func (id ObjectID) String() string {
	return "obj#" + strconv.FormatUint(uint64(id), 10)
}

// ParseObjectID parses both the bare numeric form and the obj#<n> form.
func ParseObjectID(s string) (ObjectID, error) {
	if len(s) > 4 && s[:4] == "obj#" {
		s = s[4:]
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ObjectID(n), nil
}

// Interaction is the interaction state the host reports for an object.
type Interaction string

const (
	InteractionNone    Interaction = "none"
	InteractionHovered Interaction = "hovered"
	InteractionPressed Interaction = "pressed"
)

// ParseInteraction maps a string to a known Interaction.
func ParseInteraction(s string) (Interaction, bool) {
	switch Interaction(s) {
	case InteractionNone, InteractionHovered, InteractionPressed:
		return Interaction(s), true
	}
	return "", false
}
