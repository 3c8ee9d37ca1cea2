package scenario

import (
	"fmt"

	"github.com/aretw0/onclick/pkg/domain"
)

// Report is the outcome of one scenario run.
type Report struct {
	Name        string
	Description string
	Ticks       int
	Vars        map[string]any
	Objects     []ObjectReport
	Errors      []string
	Failures    []string
}

// ObjectReport is the final state of one declared object.
type ObjectReport struct {
	Name     string
	ID       domain.ObjectID
	Alive    bool
	Disabled bool
	QueueLen int
}

// Passed reports whether every expectation held.
func (r *Report) Passed() bool {
	return len(r.Failures) == 0
}

func (r *Report) fail(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}
