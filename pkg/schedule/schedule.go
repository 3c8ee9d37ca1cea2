// Package schedule orders the passes a host runs every tick.
//
// Passes are grouped into sets named by domain.SetLabel. Sets are ordered with
// Before/After constraints; sets without a constraint between them keep their
// registration order. The click dispatch pass lives in domain.ClickHandlerSet.
package schedule

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/world"
)

// Pass is one unit of per-tick work.
type Pass interface {
	Run(ctx context.Context, w *world.World) error
}

// PassFunc adapts a function to a Pass.
type PassFunc func(ctx context.Context, w *world.World) error

// Run calls f.
func (f PassFunc) Run(ctx context.Context, w *world.World) error {
	return f(ctx, w)
}

// Schedule holds sets of passes and the ordering constraints between them.
// It is not safe for concurrent use.
type Schedule struct {
	labels []domain.SetLabel
	passes map[domain.SetLabel][]Pass
	// edges[a] lists the sets that must run after a.
	edges  map[domain.SetLabel][]domain.SetLabel
}

// New creates an empty schedule.
func New() *Schedule {
	return &Schedule{
		passes: make(map[domain.SetLabel][]Pass),
		edges:  make(map[domain.SetLabel][]domain.SetLabel),
	}
}

func (s *Schedule) ensure(label domain.SetLabel) {
	if _, ok := s.passes[label]; ok {
		return
	}
	s.passes[label] = nil
	s.labels = append(s.labels, label)
}

// Add registers pass in the given set. Passes in one set run in the order they were added.
func (s *Schedule) Add(label domain.SetLabel, pass Pass) *Schedule {
	s.ensure(label)
	s.passes[label] = append(s.passes[label], pass)
	return s
}

// Configure returns a handle for declaring the order of label relative to other sets.
func (s *Schedule) Configure(label domain.SetLabel) *SetConfig {
	s.ensure(label)
	return &SetConfig{schedule: s, label: label}
}

// SetConfig declares ordering constraints for one set.
type SetConfig struct {
	schedule *Schedule
	label    domain.SetLabel
}

// Before makes the configured set run before every set in others.
func (c *SetConfig) Before(others ...domain.SetLabel) *SetConfig {
	for _, o := range others {
		c.schedule.ensure(o)
		c.schedule.edge(c.label, o)
	}
	return c
}

// After makes the configured set run after every set in others.
func (c *SetConfig) After(others ...domain.SetLabel) *SetConfig {
	for _, o := range others {
		c.schedule.ensure(o)
		c.schedule.edge(o, c.label)
	}
	return c
}

func (s *Schedule) edge(from, to domain.SetLabel) {
	if !slices.Contains(s.edges[from], to) {
		s.edges[from] = append(s.edges[from], to)
	}
}

// Sets returns the sets in execution order.
// It returns domain.ErrScheduleCycle if the constraints cannot be satisfied.
func (s *Schedule) Sets() ([]domain.SetLabel, error) {
	indegree := make(map[domain.SetLabel]int, len(s.labels))
	for _, targets := range s.edges {
		for _, to := range targets {
			indegree[to]++
		}
	}

	order := make([]domain.SetLabel, 0, len(s.labels))
	done := make(map[domain.SetLabel]bool, len(s.labels))
	for len(order) < len(s.labels) {
		// Pick the earliest registered set that is ready, so unrelated sets keep
		// their registration order.
		picked := false
		for _, label := range s.labels {
			if done[label] || indegree[label] > 0 {
				continue
			}
			done[label] = true
			order = append(order, label)
			for _, to := range s.edges[label] {
				indegree[to]--
			}
			picked = true
			break
		}
		if !picked {
			var stuck []domain.SetLabel
			for _, label := range s.labels {
				if !done[label] {
					stuck = append(stuck, label)
				}
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrScheduleCycle, stuck)
		}
	}
	return order, nil
}

// Run executes every pass once, set by set, stopping at the first error.
func (s *Schedule) Run(ctx context.Context, w *world.World) error {
	order, err := s.Sets()
	if err != nil {
		return err
	}
	for _, label := range order {
		for _, pass := range s.passes[label] {
			if err := pass.Run(ctx, w); err != nil {
				return fmt.Errorf("pass in set %q failed: %w", label, err)
			}
		}
	}
	return nil
}
