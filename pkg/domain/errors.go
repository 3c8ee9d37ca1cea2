package domain

import (
	"errors"
	"fmt"
)

// ErrObjectNotFound is returned when an object id does not resolve in the world.
var ErrObjectNotFound = errors.New("object not found")

// ErrNoInterpreter is returned when a delegated command runs without an interpreter.
var ErrNoInterpreter = errors.New("no command interpreter configured")

// ErrUnknownCommand is returned by interpreters that do not recognise a command.
var ErrUnknownCommand = errors.New("unknown command")

// ErrQueueShared is returned when an action queue is attached to a second
// object while the first still holds it.
var ErrQueueShared = errors.New("action queue already attached to another object")

// ErrScheduleCycle is returned when set ordering constraints form a cycle.
var ErrScheduleCycle = errors.New("schedule ordering cycle")

// ErrWorldNotFound is returned when a session manager has no world for an id.
var ErrWorldNotFound = errors.New("world not found")

// ErrSnapshotNotFound is returned by snapshot stores for unknown keys.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SlotError reports a slot that failed during a dispatch pass.
// The remaining slots of that object's queue did not run for this pass.
type SlotError struct {
	Object ObjectID
	Index  int
	Kind   SlotKind
	Phase  SlotPhase
	Err    error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("slot %d (%s) of %s failed during %s: %v", e.Index, e.Kind, e.Object, e.Phase, e.Err)
}

func (e *SlotError) Unwrap() error {
	return e.Err
}
