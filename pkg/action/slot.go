package action

import (
	"context"
	"fmt"

	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/world"
)

// Slot is one deferred unit of work in a queue. Exactly one of system, entity
// or command is set, selected by kind.
type Slot struct {
	kind        domain.SlotKind
	initialized bool
	system      System
	entity      EntitySystem
	command     string
}

// Kind returns the slot variant.
func (s *Slot) Kind() domain.SlotKind { return s.kind }

// Initialized reports whether the slot's setup has completed.
func (s *Slot) Initialized() bool { return s.initialized }

// Command returns the delegated command string, empty for other kinds.
func (s *Slot) Command() string { return s.command }

// Invoke runs the slot once on behalf of id.
//
// On the first invocation the callable is initialized against w; the initialized
// flag flips only after setup succeeds, so a failed setup is retried on the next
// trigger. Writes the callable staged in its Commands are applied before Invoke
// returns. A failed run leaves the slot reusable; world mutations made before the
// failure are kept.
func (s *Slot) Invoke(ctx context.Context, id domain.ObjectID, w *world.World, interp Interpreter) error {
	var cmds world.Commands

	switch s.kind {
	case domain.SlotSystem:
		if !s.initialized {
			if err := s.system.Initialize(w); err != nil {
				return s.fail(id, domain.PhaseInitialize, err)
			}
			s.initialized = true
		}
		if err := s.system.Run(w, &cmds); err != nil {
			return s.fail(id, domain.PhaseRun, err)
		}
	case domain.SlotEntitySystem:
		if !s.initialized {
			if err := s.entity.Initialize(w); err != nil {
				return s.fail(id, domain.PhaseInitialize, err)
			}
			s.initialized = true
		}
		if err := s.entity.Run(id, w, &cmds); err != nil {
			return s.fail(id, domain.PhaseRun, err)
		}
	case domain.SlotDelegated:
		if interp == nil {
			return s.fail(id, domain.PhaseRun, domain.ErrNoInterpreter)
		}
		if err := interp.Execute(ctx, s.command, id, w, &cmds); err != nil {
			return s.fail(id, domain.PhaseRun, err)
		}
	default:
		return fmt.Errorf("unknown slot kind %q", s.kind)
	}

	cmds.Apply(w)
	return nil
}

func (s *Slot) fail(id domain.ObjectID, phase domain.SlotPhase, err error) error {
	return &domain.SlotError{Object: id, Kind: s.kind, Phase: phase, Err: err}
}
