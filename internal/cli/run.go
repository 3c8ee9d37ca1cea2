package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/onclick/internal/presentation/tui"
	"github.com/aretw0/onclick/pkg/scenario"
)

// ErrScenarioFailed is returned when at least one scenario did not pass.
var ErrScenarioFailed = errors.New("scenario failed")

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Paths        []string
	Interpreter  string
	CommandsPath string
	Plain        bool
	Log          LogOptions
}

// Run loads and plays every scenario, printing one report each.
func Run(ctx context.Context, opts RunOptions, out, logOut io.Writer) error {
	logger, err := createLogger(opts.Log, logOut)
	if err != nil {
		return err
	}

	var render func(string) (string, error)
	if !opts.Plain {
		render = tui.NewRenderer()
	}

	failed := 0
	for _, path := range opts.Paths {
		s, err := scenario.Load(path)
		if err != nil {
			return err
		}

		report, err := runOne(ctx, s, opts, logger)
		if err != nil {
			return err
		}
		if err := tui.PrintReport(out, report, render); err != nil {
			return err
		}
		if !report.Passed() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrScenarioFailed, failed, len(opts.Paths))
	}
	return nil
}

func runOne(ctx context.Context, s *scenario.Scenario, opts RunOptions, logger *slog.Logger) (*scenario.Report, error) {
	app, closer, err := newApp(s, opts.Interpreter, opts.CommandsPath, logger.With("scenario", s.Name))
	if err != nil {
		return nil, err
	}
	defer closer()

	logger.Info("Scenario Started", "scenario", s.Name, "objects", len(s.Objects()))
	report, err := s.Run(ctx, app)
	if err != nil {
		return nil, err
	}
	logger.Info("Scenario Finished", "scenario", s.Name, "ticks", report.Ticks, "passed", report.Passed())
	return report, nil
}
