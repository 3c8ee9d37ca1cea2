package onclick

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/onclick/internal/logging"
	"github.com/aretw0/onclick/internal/runtime"
	"github.com/aretw0/onclick/pkg/action"
	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/observability"
	"github.com/aretw0/onclick/pkg/schedule"
	"github.com/aretw0/onclick/pkg/world"
)

// Version is the library version reported by the CLI and the HTTP server.
const Version = "0.3.0"

// App is the high-level entry point of the library. It owns a world and a
// schedule in which the click dispatch pass is registered.
type App struct {
	world       *world.World
	schedule    *schedule.Schedule
	engine      *runtime.Engine
	interpreter action.Interpreter
	hooks       domain.LifecycleHooks
	metrics     *observability.Metrics
	plugins     []Plugin
	logger      *slog.Logger
	frame       uint64
}

// Option defines a functional option for configuring the App.
type Option func(*App)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks on the dispatch pass.
// Calling it more than once merges the hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *App) {
		a.hooks = a.hooks.Merge(hooks)
	}
}

// WithInterpreter sets the strategy that executes delegated command slots.
func WithInterpreter(interp action.Interpreter) Option {
	return func(a *App) {
		a.interpreter = interp
	}
}

// WithMetrics records dispatch activity into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *App) {
		a.metrics = m
	}
}

// WithWorld runs the app against an existing world instead of a fresh one.
func WithWorld(w *world.World) Option {
	return func(a *App) {
		a.world = w
	}
}

// WithPlugins adds plugins built after the click dispatch plugin.
func WithPlugins(plugins ...Plugin) Option {
	return func(a *App) {
		a.plugins = append(a.plugins, plugins...)
	}
}

// New creates an App with the click dispatch pass registered in
// domain.ClickHandlerSet.
func New(opts ...Option) (*App, error) {
	a := &App{}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	if a.world == nil {
		a.world = world.New()
	}
	if a.metrics != nil {
		a.hooks = a.hooks.Merge(a.metrics.Hooks())
	}
	a.schedule = schedule.New()

	engineOpts := []runtime.EngineOption{
		runtime.WithLogger(a.logger.With("component", "dispatch")),
		runtime.WithLifecycleHooks(a.hooks),
	}
	if a.interpreter != nil {
		engineOpts = append(engineOpts, runtime.WithInterpreter(a.interpreter))
	}
	a.engine = runtime.NewEngine(engineOpts...)

	plugins := append([]Plugin{ClickPlugin{}}, a.plugins...)
	for _, p := range plugins {
		if err := p.Build(a); err != nil {
			return nil, fmt.Errorf("failed to build plugin %T: %w", p, err)
		}
	}
	return a, nil
}

// World returns the world the app dispatches against.
func (a *App) World() *world.World {
	return a.world
}

// Schedule returns the app's schedule so hosts can add their own passes
// and order them relative to domain.ClickHandlerSet.
func (a *App) Schedule() *schedule.Schedule {
	return a.schedule
}

// Logger returns the app logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Frame returns the number of completed ticks.
func (a *App) Frame() uint64 {
	return a.frame
}

// Tick runs every scheduled pass once.
func (a *App) Tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.schedule.Run(ctx, a.world); err != nil {
		return fmt.Errorf("tick %d: %w", a.frame+1, err)
	}
	a.frame++
	return nil
}

// Spawn creates an object carrying q. A nil q spawns a bare object.
// Each queue belongs to one object: Spawn panics if q is still attached to
// another live object. Use Attach to get the error instead.
func (a *App) Spawn(q *action.OnClick) domain.ObjectID {
	id := a.world.Spawn()
	if q != nil {
		if err := a.Attach(id, q); err != nil {
			a.world.Despawn(id)
			panic(err)
		}
	}
	return id
}

// Attach installs q as the action queue of id, replacing any previous one.
// It fails with domain.ErrQueueShared if another live object holds q.
func (a *App) Attach(id domain.ObjectID, q *action.OnClick) error {
	if err := action.Attach(a.world, id, q); err != nil {
		return fmt.Errorf("attach to %s: %w", id, err)
	}
	return nil
}

// Press reports a click on id. Its queue runs on the next Tick, even if id was
// left Pressed by an earlier click.
func (a *App) Press(id domain.ObjectID) error {
	return a.world.Press(id)
}

// Hover marks id as hovered. Hovering never triggers the queue.
func (a *App) Hover(id domain.ObjectID) error {
	return a.world.SetInteraction(id, domain.InteractionHovered)
}

// Release resets the interaction of id.
func (a *App) Release(id domain.ObjectID) error {
	return a.world.SetInteraction(id, domain.InteractionNone)
}
