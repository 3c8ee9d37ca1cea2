package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/world"
)

// Call carries one parsed command invocation.
type Call struct {
	Name     string
	Args     []string
	Object   domain.ObjectID
	World    *world.World
	Commands *world.Commands
}

// CommandFunc defines the signature for a named command implementation.
type CommandFunc func(ctx context.Context, call Call) error

// Registry maps command names to handlers. It implements action.Interpreter:
// a command string is split on whitespace, the first field selects the handler
// and the rest are passed as arguments.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]CommandFunc
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]CommandFunc),
	}
}

// Register adds a command to the registry.
// If a command with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn CommandFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[name] = fn
}

// Names lists the registered command names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute looks up the command named by the first field and runs it.
// Returns domain.ErrUnknownCommand if no handler is registered.
func (r *Registry) Execute(ctx context.Context, command string, id domain.ObjectID, w *world.World, cmds *world.Commands) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty command", domain.ErrUnknownCommand)
	}

	r.mu.RLock()
	fn, ok := r.commands[fields[0]]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownCommand, fields[0])
	}

	return fn(ctx, Call{
		Name:     fields[0],
		Args:     fields[1:],
		Object:   id,
		World:    w,
		Commands: cmds,
	})
}
