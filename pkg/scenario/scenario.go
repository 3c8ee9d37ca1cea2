package scenario

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/aretw0/onclick"
	"github.com/aretw0/onclick/internal/dto"
	"github.com/aretw0/onclick/pkg/action"
	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/schema"
	"github.com/aretw0/onclick/pkg/world"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid scenario")

// Scenario is a validated scenario document.
type Scenario struct {
	Name        string
	Interpreter string

	file   dto.ScenarioFile
	schema schema.Schema
}

// Description returns the free-form description of the scenario.
func (s *Scenario) Description() string {
	return s.file.Description
}

// Objects returns the declared object names in declaration order.
func (s *Scenario) Objects() []string {
	names := make([]string, len(s.file.Objects))
	for i, o := range s.file.Objects {
		names[i] = o.Name
	}
	return names
}

// HasCommands reports whether any object uses a delegated command.
func (s *Scenario) HasCommands() bool {
	for _, o := range s.file.Objects {
		for _, a := range o.Actions {
			if a.Command != "" {
				return true
			}
		}
	}
	return false
}

func (s *Scenario) validate() error {
	known := make(map[string]bool, len(s.file.Objects))
	for i, o := range s.file.Objects {
		if o.Name == "" {
			return fmt.Errorf("%w: object %d has no name", ErrInvalid, i)
		}
		if known[o.Name] {
			return fmt.Errorf("%w: duplicate object %q", ErrInvalid, o.Name)
		}
		known[o.Name] = true
		for j, a := range o.Actions {
			if n := actionFields(a); n != 1 {
				return fmt.Errorf("%w: object %q action %d sets %d kinds, want exactly 1", ErrInvalid, o.Name, j, n)
			}
		}
	}

	check := func(where string, names []string) error {
		for _, n := range names {
			if !known[n] {
				return fmt.Errorf("%w: %s references unknown object %q", ErrInvalid, where, n)
			}
		}
		return nil
	}
	for i, t := range s.file.Ticks {
		where := fmt.Sprintf("tick %d", i+1)
		for _, names := range [][]string{t.Press, t.Hover, t.Release, t.Disable, t.Enable} {
			if err := check(where, names); err != nil {
				return err
			}
		}
	}
	if err := check("expect.despawned", s.file.Expect.Despawned); err != nil {
		return err
	}
	for name := range s.file.Expect.QueueLen {
		if !known[name] {
			return fmt.Errorf("%w: expect.queue_len references unknown object %q", ErrInvalid, name)
		}
	}
	if len(s.file.Schema) > 0 {
		sch, err := schema.Parse(s.file.Schema)
		if err != nil {
			return fmt.Errorf("%w: schema: %v", ErrInvalid, err)
		}
		s.schema = sch
	}
	return nil
}

func actionFields(a dto.ActionSpec) int {
	n := 0
	if a.Command != "" {
		n++
	}
	if a.Count != "" {
		n++
	}
	if a.Clear {
		n++
	}
	if a.Despawn {
		n++
	}
	return n
}

// Build spawns the declared objects into app and seeds the initial vars.
// Command strings may reference objects as ${name}; references are expanded
// to object ids once every object exists.
func (s *Scenario) Build(app *onclick.App) (map[string]domain.ObjectID, error) {
	w := app.World()
	ids := make(map[string]domain.ObjectID, len(s.file.Objects))
	for _, o := range s.file.Objects {
		ids[o.Name] = app.Spawn(nil)
	}

	expand := func(cmd string) string {
		return os.Expand(cmd, func(name string) string {
			if id, ok := ids[name]; ok {
				return id.String()
			}
			return "${" + name + "}"
		})
	}

	for _, o := range s.file.Objects {
		q := action.New()
		for _, a := range o.Actions {
			switch {
			case a.Command != "":
				q.Command(expand(a.Command))
			case a.Count != "":
				key := a.Count
				q.Func(func(w *world.World, cmds *world.Commands) error {
					world.VarsOf(w).Add(key, 1)
					return nil
				})
			case a.Clear:
				q.EntityFunc(clearSelf)
			case a.Despawn:
				q.EntityFunc(despawnSelf)
			}
		}
		id := ids[o.Name]
		if err := app.Attach(id, q); err != nil {
			return nil, err
		}
		if o.Disabled {
			if err := w.Disable(id); err != nil {
				return nil, err
			}
		}
	}

	if len(s.file.Vars) > 0 {
		vars := world.VarsOf(w)
		merged := vars.Snapshot()
		for k, v := range s.file.Vars {
			merged[k] = v
		}
		vars.Restore(merged)
	}
	return ids, nil
}

func clearSelf(id domain.ObjectID, w *world.World, cmds *world.Commands) error {
	if q, ok := world.Get[action.OnClick](w, id); ok {
		q.Clear()
	}
	return nil
}

func despawnSelf(id domain.ObjectID, w *world.World, cmds *world.Commands) error {
	cmds.Despawn(id)
	return nil
}

// Run builds the scenario into app, plays every tick and checks the
// expectations. Expectation mismatches and unexpected tick errors are
// reported in the Report; the returned error is reserved for setup failures.
func (s *Scenario) Run(ctx context.Context, app *onclick.App) (*Report, error) {
	ids, err := s.Build(app)
	if err != nil {
		return nil, fmt.Errorf("failed to build scenario %s: %w", s.Name, err)
	}
	w := app.World()
	report := &Report{Name: s.Name, Description: s.file.Description}

	for i, t := range s.file.Ticks {
		if err := applyInput(w, ids, t); err != nil {
			return nil, fmt.Errorf("tick %d input: %w", i+1, err)
		}
		err := app.Tick(ctx)
		report.Ticks++
		switch {
		case err != nil && t.ExpectError:
			report.Errors = append(report.Errors, err.Error())
		case err != nil:
			report.Errors = append(report.Errors, err.Error())
			report.fail("tick %d: unexpected error: %v", i+1, err)
		case t.ExpectError:
			report.fail("tick %d: expected an error", i+1)
		}
		if err != nil && !t.ExpectError {
			break
		}
	}

	report.Vars = world.VarsOf(w).Snapshot()
	for _, o := range s.file.Objects {
		id := ids[o.Name]
		or := ObjectReport{Name: o.Name, ID: id, Alive: w.Exists(id), Disabled: w.IsDisabled(id)}
		if q, ok := world.Get[action.OnClick](w, id); ok {
			or.QueueLen = q.Len()
		}
		report.Objects = append(report.Objects, or)
	}
	s.check(report, w, ids)
	return report, nil
}

func applyInput(w *world.World, ids map[string]domain.ObjectID, t dto.TickSpec) error {
	for _, n := range t.Enable {
		w.Enable(ids[n])
	}
	for _, n := range t.Disable {
		if err := w.Disable(ids[n]); err != nil {
			return fmt.Errorf("disable %s: %w", n, err)
		}
	}
	steps := []struct {
		names []string
		state domain.Interaction
	}{
		{t.Release, domain.InteractionNone},
		{t.Hover, domain.InteractionHovered},
		{t.Press, domain.InteractionPressed},
	}
	for _, step := range steps {
		for _, n := range step.names {
			var err error
			if step.state == domain.InteractionPressed {
				err = w.Press(ids[n])
			} else {
				err = w.SetInteraction(ids[n], step.state)
			}
			if err != nil {
				return fmt.Errorf("%s %s: %w", step.state, n, err)
			}
		}
	}
	return nil
}

func (s *Scenario) check(r *Report, w *world.World, ids map[string]domain.ObjectID) {
	exp := s.file.Expect

	keys := make([]string, 0, len(exp.Vars))
	for k := range exp.Vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		want := exp.Vars[k]
		got, ok := r.Vars[k]
		if !ok {
			r.fail("var %s: missing, want %v", k, want)
			continue
		}
		// Weak comparison: YAML ints and stored int64 render the same.
		if fmt.Sprint(got) != fmt.Sprint(want) {
			r.fail("var %s: got %v, want %v", k, got, want)
		}
	}

	for _, n := range exp.Despawned {
		if w.Exists(ids[n]) {
			r.fail("object %s: still alive", n)
		}
	}

	names := make([]string, 0, len(exp.QueueLen))
	for n := range exp.QueueLen {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		got := 0
		if q, ok := world.Get[action.OnClick](w, ids[n]); ok {
			got = q.Len()
		}
		if want := exp.QueueLen[n]; got != want {
			r.fail("object %s: queue length %d, want %d", n, got, want)
		}
	}

	var agg *schema.AggregateError
	if errors.As(schema.Validate(s.schema, r.Vars), &agg) {
		for _, e := range agg.Errors {
			r.fail("schema: %s", e)
		}
	}
}
