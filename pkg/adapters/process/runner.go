// Package process runs delegated click commands as allow-listed local processes.
package process

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/world"
)

// Runner implements action.Interpreter by executing local processes.
// It follows a Strict Registry pattern for security (Allow-Listing): the first
// field of a command names a registered process, and the remaining fields are
// passed as environment variables, never as flags.
//
// The process receives:
//
//	ONCLICK_OBJECT   id of the triggering object
//	ONCLICK_ARGC     number of extra fields
//	ONCLICK_ARG_<n>  each extra field, 1-based
//	ONCLICK_VARS     the world blackboard as JSON
//
// If the process prints a JSON object on stdout, its keys are merged into the
// blackboard once the command returns.
type Runner struct {
	registry map[string]RegisteredProcess
	baseDir  string
}

// RegisteredProcess defines an allowed command execution.
type RegisteredProcess struct {
	Command string
	Args    []string
	Env     map[string]string
	Timeout time.Duration
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithRegistry populates the allow-list from a loaded config.
func WithRegistry(commands map[string]ProcessConfig) RunnerOption {
	return func(r *Runner) {
		for name, c := range commands {
			r.registry[name] = RegisteredProcess{
				Command: c.Command,
				Args:    c.Args,
				Env:     c.Environment,
				Timeout: c.Timeout,
			}
		}
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// NewRunner creates a new Process Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: make(map[string]RegisteredProcess),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a trusted script/command to the allow-list.
func (r *Runner) Register(name string, command string, args ...string) {
	r.registry[name] = RegisteredProcess{
		Command: command,
		Args:    args,
	}
}

// Execute runs the process named by the first field of command.
func (r *Runner) Execute(ctx context.Context, command string, id domain.ObjectID, w *world.World, cmds *world.Commands) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty command", domain.ErrUnknownCommand)
	}

	proc, ok := r.registry[fields[0]]
	if !ok {
		return fmt.Errorf("%w: process not registered: %s", domain.ErrUnknownCommand, fields[0])
	}

	vars, err := json.Marshal(world.VarsOf(w).Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode vars: %w", err)
	}

	if proc.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, proc.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, proc.Command, proc.Args...)
	cmd.Dir = r.baseDir

	env := []string{
		fmt.Sprintf("ONCLICK_OBJECT=%d", uint64(id)),
		fmt.Sprintf("ONCLICK_ARGC=%d", len(fields)-1),
		"ONCLICK_VARS=" + string(vars),
	}
	for i, arg := range fields[1:] {
		env = append(env, fmt.Sprintf("ONCLICK_ARG_%d=%s", i+1, arg))
	}
	for k, v := range proc.Env {
		env = append(env, k+"="+v)
	}
	cmd.Env = append(cmd.Environ(), env...)

	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("process %s failed: %w (stderr: %s)", fields[0], err, strings.TrimSpace(stderr.String()))
	}

	trimmed := strings.TrimSpace(stdout.String())
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return nil
	}

	var updates map[string]any
	if err := json.Unmarshal([]byte(trimmed), &updates); err != nil {
		return fmt.Errorf("process %s printed invalid JSON: %w", fields[0], err)
	}
	cmds.Push(func(w *world.World) {
		vars := world.VarsOf(w)
		merged := vars.Snapshot()
		for k, v := range updates {
			merged[k] = v
		}
		vars.Restore(merged)
	})
	return nil
}
