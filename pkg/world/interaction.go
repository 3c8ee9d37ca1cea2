package world

import "github.com/aretw0/onclick/pkg/domain"

// Disabled is the suppression marker. An object carrying it is skipped by the
// click dispatch pass regardless of its interaction state.
type Disabled struct{}

// SetInteraction records the host-reported interaction state of id. Only a
// change is written: re-reporting the current state is not a transition and
// does not trigger anything.
func (w *World) SetInteraction(id domain.ObjectID, state domain.Interaction) error {
	if cur, ok := w.InteractionOf(id); ok && cur == state {
		return nil
	}
	return Insert(w, id, &state)
}

// Press reports one complete click on id. An object still Pressed from an
// earlier click is treated as released in between, so every call is a fresh
// transition into Pressed.
func (w *World) Press(id domain.ObjectID) error {
	state := domain.InteractionPressed
	return Insert(w, id, &state)
}

// InteractionOf returns the current interaction state of id.
func (w *World) InteractionOf(id domain.ObjectID) (domain.Interaction, bool) {
	v, ok := Get[domain.Interaction](w, id)
	if !ok {
		return domain.InteractionNone, false
	}
	return *v, true
}

// Disable attaches the suppression marker to id.
func (w *World) Disable(id domain.ObjectID) error {
	return Insert(w, id, &Disabled{})
}

// Enable removes the suppression marker from id.
func (w *World) Enable(id domain.ObjectID) {
	Remove[Disabled](w, id)
}

// IsDisabled reports whether id carries the suppression marker.
func (w *World) IsDisabled(id domain.ObjectID) bool {
	return Has[Disabled](w, id)
}
