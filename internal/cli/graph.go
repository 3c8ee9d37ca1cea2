package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/onclick"
	"github.com/aretw0/onclick/internal/presentation/graph"
	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/scenario"
)

// GraphOptions configures the graph command.
type GraphOptions struct {
	Path        string
	Interpreter string
	// Play runs the scenario ticks first and highlights the objects that fired.
	Play        bool
}

// Graph writes a Mermaid diagram of the scenario's objects.
func Graph(ctx context.Context, opts GraphOptions, out io.Writer) error {
	s, err := scenario.Load(opts.Path)
	if err != nil {
		return err
	}

	var fired []domain.ObjectID
	hooks := domain.LifecycleHooks{
		OnDispatchEnd: func(_ context.Context, e *domain.DispatchEvent) {
			fired = append(fired, e.Collected...)
		},
	}
	logger, _ := createLogger(LogOptions{}, nil)
	app, closer, err := newApp(s, opts.Interpreter, "", logger, onclick.WithLifecycleHooks(hooks))
	if err != nil {
		return err
	}
	defer closer()

	ids := make(map[string]domain.ObjectID)
	if opts.Play {
		report, err := s.Run(ctx, app)
		if err != nil {
			return err
		}
		for _, o := range report.Objects {
			ids[o.Name] = o.ID
		}
	} else {
		if ids, err = s.Build(app); err != nil {
			return err
		}
	}

	labels := make(map[domain.ObjectID]string, len(ids))
	for name, id := range ids {
		labels[id] = name
	}
	_, err = fmt.Fprint(out, graph.GenerateMermaid(app.World(), &graph.Overlay{Labels: labels, Fired: fired}))
	return err
}
