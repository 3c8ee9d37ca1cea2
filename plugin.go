package onclick

import (
	"github.com/aretw0/onclick/pkg/domain"
)

// Plugin extends an App while it is being built.
type Plugin interface {
	Build(a *App) error
}

// PluginFunc adapts a function to Plugin.
type PluginFunc func(a *App) error

func (f PluginFunc) Build(a *App) error {
	return f(a)
}

// ClickPlugin registers the click dispatch pass in domain.ClickHandlerSet.
// New always installs it first.
type ClickPlugin struct{}

func (ClickPlugin) Build(a *App) error {
	a.schedule.Add(domain.ClickHandlerSet, a.engine)
	return nil
}
