package runtime

import (
	"log/slog"

	"github.com/aretw0/onclick/internal/logging"
	"github.com/aretw0/onclick/pkg/action"
	"github.com/aretw0/onclick/pkg/domain"
)

// Engine is the click dispatch pass. It runs once per host tick and is not
// reentrant within a pass.
type Engine struct {
	interpreter action.Interpreter
	hooks       domain.LifecycleHooks
	logger      *slog.Logger

	// lastCheck is the world change tick observed at the start of the previous
	// pass. Interaction writes stamped after it are fresh.
	lastCheck uint64
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithInterpreter sets the strategy that runs delegated command slots.
// Without one, delegated slots are skipped.
func WithInterpreter(interp action.Interpreter) EngineOption {
	return func(e *Engine) {
		e.interpreter = interp
	}
}

// NewEngine creates a dispatch engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
