package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/onclick"
	httpAdapter "github.com/aretw0/onclick/internal/adapters/http"
	"github.com/aretw0/onclick/internal/logging"
	"github.com/aretw0/onclick/pkg/action"
	"github.com/aretw0/onclick/pkg/adapters/lua"
	"github.com/aretw0/onclick/pkg/adapters/process"
	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/observability"
	"github.com/aretw0/onclick/pkg/registry"
	"github.com/aretw0/onclick/pkg/scenario"
)

// Interpreter names accepted by --interpreter and the scenario field.
const (
	InterpreterNone     = "none"
	InterpreterRegistry = "registry"
	InterpreterLua      = "lua"
	InterpreterProcess  = "process"
)

// LogOptions configures the CLI logger.
type LogOptions struct {
	Level  string
	Format string
	Debug  bool
}

// createLogger configures the application logger. Logs go to stderr so they
// never mix with reports on stdout. Without --debug or an explicit level the
// logger is silent.
func createLogger(opts LogOptions, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	if opts.Debug {
		return logging.NewWithWriter(w, slog.LevelDebug, logging.Format(opts.Format)), nil
	}
	if opts.Level == "" {
		return logging.NewNop(), nil
	}
	level, err := logging.ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(w, level, logging.Format(opts.Format)), nil
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatchEnd: func(ctx context.Context, e *domain.DispatchEvent) {
			logger.Debug("Dispatch Pass", "collected", len(e.Collected), "executed", e.Executed, "duration", e.Duration)
		},
		OnSlotCall: func(ctx context.Context, e *domain.SlotEvent) {
			logger.Debug("Slot Call", "object", e.Object, "index", e.Index, "kind", e.Kind, "command", e.Command)
		},
		OnSlotReturn: func(ctx context.Context, e *domain.SlotEvent) {
			if e.IsError {
				logger.Debug("Slot Return (Error)", "object", e.Object, "index", e.Index)
			} else {
				logger.Debug("Slot Return (Success)", "object", e.Object, "index", e.Index)
			}
		},
		OnWritebackSkipped: func(ctx context.Context, e *domain.WritebackEvent) {
			logger.Debug("Writeback Skipped", "object", e.Object, "reason", e.Reason)
		},
	}
}

// resolveInterpreter picks the interpreter for a scenario: the flag wins,
// then the scenario field, then registry when commands are used.
func resolveInterpreter(flag string, s *scenario.Scenario) string {
	switch {
	case flag != "":
		return flag
	case s != nil && s.Interpreter != "":
		return s.Interpreter
	case s != nil && s.HasCommands():
		return InterpreterRegistry
	}
	return InterpreterNone
}

// newInterpreter builds the named interpreter. The returned closer releases
// its resources and is never nil.
func newInterpreter(kind, commandsPath string, logger *slog.Logger) (action.Interpreter, func(), error) {
	nop := func() {}
	switch kind {
	case InterpreterNone:
		return nil, nop, nil
	case InterpreterRegistry:
		reg := registry.NewRegistry()
		registry.RegisterBuiltins(reg)
		return reg, nop, nil
	case InterpreterLua:
		interp := lua.New(lua.WithLogger(logger.With("component", "lua")))
		return interp, interp.Close, nil
	case InterpreterProcess:
		commands, err := process.LoadCommands(commandsPath)
		if err != nil {
			return nil, nop, err
		}
		return process.NewRunner(process.WithRegistry(commands)), nop, nil
	}
	return nil, nop, fmt.Errorf("unknown interpreter %q", kind)
}

// newApp creates an App configured for s.
func newApp(s *scenario.Scenario, interpreter, commandsPath string, logger *slog.Logger, opts ...onclick.Option) (*onclick.App, func(), error) {
	interp, closer, err := newInterpreter(resolveInterpreter(interpreter, s), commandsPath, logger)
	if err != nil {
		return nil, closer, err
	}

	appOpts := []onclick.Option{
		onclick.WithLogger(logger),
		onclick.WithLifecycleHooks(createDebugHooks(logger)),
	}
	if interp != nil {
		appOpts = append(appOpts, onclick.WithInterpreter(interp))
	}
	app, err := onclick.New(append(appOpts, opts...)...)
	if err != nil {
		closer()
		return nil, func() {}, fmt.Errorf("error initializing app: %w", err)
	}
	return app, closer, nil
}

func withHooks(metrics *observability.Metrics, events *httpAdapter.Events) []onclick.Option {
	return []onclick.Option{
		onclick.WithMetrics(metrics),
		onclick.WithLifecycleHooks(events.Hooks()),
	}
}
