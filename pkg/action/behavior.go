package action

import (
	"context"

	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/world"
)

// System is an action that does not need to know which object triggered it.
type System interface {
	// Initialize runs once, before the first Run.
	Initialize(w *world.World) error
	Run(w *world.World, cmds *world.Commands) error
}

// EntitySystem is an action that receives the id of the triggering object.
type EntitySystem interface {
	// Initialize runs once, before the first Run.
	Initialize(w *world.World) error
	Run(id domain.ObjectID, w *world.World, cmds *world.Commands) error
}

// Interpreter executes delegated command strings. The engine treats the command
// as opaque and performs no validation on it.
type Interpreter interface {
	Execute(ctx context.Context, command string, id domain.ObjectID, w *world.World, cmds *world.Commands) error
}

// RunFunc is the callable form of System.Run.
type RunFunc func(w *world.World, cmds *world.Commands) error

// EntityRunFunc is the callable form of EntitySystem.Run.
type EntityRunFunc func(id domain.ObjectID, w *world.World, cmds *world.Commands) error

// SetupFunc is the callable form of Initialize.
type SetupFunc func(w *world.World) error

type funcSystem struct {
	setup SetupFunc
	run   RunFunc
}

func (f *funcSystem) Initialize(w *world.World) error {
	if f.setup == nil {
		return nil
	}
	return f.setup(w)
}

func (f *funcSystem) Run(w *world.World, cmds *world.Commands) error {
	return f.run(w, cmds)
}

type funcEntitySystem struct {
	setup SetupFunc
	run   EntityRunFunc
}

func (f *funcEntitySystem) Initialize(w *world.World) error {
	if f.setup == nil {
		return nil
	}
	return f.setup(w)
}

func (f *funcEntitySystem) Run(id domain.ObjectID, w *world.World, cmds *world.Commands) error {
	return f.run(id, w, cmds)
}

// Func adapts a plain function to a System with no setup.
func Func(run RunFunc) System {
	return &funcSystem{run: run}
}

// WithSetup adapts a setup and a run function to a System.
func WithSetup(setup SetupFunc, run RunFunc) System {
	return &funcSystem{setup: setup, run: run}
}

// EntityFunc adapts a plain function to an EntitySystem with no setup.
func EntityFunc(run EntityRunFunc) EntitySystem {
	return &funcEntitySystem{run: run}
}

// EntityWithSetup adapts a setup and a run function to an EntitySystem.
func EntityWithSetup(setup SetupFunc, run EntityRunFunc) EntitySystem {
	return &funcEntitySystem{setup: setup, run: run}
}
