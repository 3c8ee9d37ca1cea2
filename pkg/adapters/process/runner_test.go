package process

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("process runner tests use sh")
	}
}

func TestRunner_Execute(t *testing.T) {
	requireShell(t)
	ctx := context.Background()

	runner := NewRunner()
	runner.Register("echo_env", "sh", "-c", `printf '{"object": %s, "arg": "%s", "argc": %s}' "$ONCLICK_OBJECT" "$ONCLICK_ARG_1" "$ONCLICK_ARGC"`)
	runner.Register("fail", "sh", "-c", "echo broken >&2; exit 3")
	runner.Register("plain", "echo", "not json")

	w := world.New()
	id := w.Spawn()

	t.Run("Merges JSON output into vars after apply", func(t *testing.T) {
		var cmds world.Commands
		require.NoError(t, runner.Execute(ctx, "echo_env hello", id, w, &cmds))

		_, ok := world.VarsOf(w).Get("arg")
		assert.False(t, ok, "output is applied through the command buffer")

		cmds.Apply(w)
		vars := world.VarsOf(w)
		assert.Equal(t, int64(id), vars.Int("object"))
		assert.Equal(t, int64(1), vars.Int("argc"))
		arg, _ := vars.Get("arg")
		assert.Equal(t, "hello", arg)
	})

	t.Run("Ignores non JSON output", func(t *testing.T) {
		var cmds world.Commands
		require.NoError(t, runner.Execute(ctx, "plain", id, w, &cmds))
		assert.Zero(t, cmds.Len())
	})

	t.Run("Reports failures with stderr", func(t *testing.T) {
		var cmds world.Commands
		err := runner.Execute(ctx, "fail", id, w, &cmds)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken")
	})

	t.Run("Rejects unregistered commands", func(t *testing.T) {
		var cmds world.Commands
		err := runner.Execute(ctx, "rm -rf /", id, w, &cmds)
		assert.ErrorIs(t, err, domain.ErrUnknownCommand)
	})
}

func TestLoadCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commands.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
commands:
  - name: notify
    command: sh
    args: ["-c", "echo ok"]
    env:
      MODE: test
      LEVEL: 3
    timeout: 2s
`), 0o644))

	commands, err := LoadCommands(path)
	require.NoError(t, err)
	require.Len(t, commands, 1)
	assert.Equal(t, "sh", commands["notify"].Command)
	assert.Equal(t, "test", commands["notify"].Environment["MODE"])
	assert.Equal(t, "3", commands["notify"].Environment["LEVEL"])
	assert.Equal(t, 2*time.Second, commands["notify"].Timeout)

	missing, err := LoadCommands(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, missing)

	runner := NewRunner(WithRegistry(commands), WithBaseDir(dir))
	assert.Contains(t, runner.registry, "notify")
	assert.Equal(t, dir, runner.baseDir)
}

func TestParseCommands_Rejects(t *testing.T) {
	tests := map[string]string{
		"missing name":     `commands: [{command: sh}]`,
		"missing command":  `commands: [{name: a}]`,
		"multi-word name":  `commands: [{name: "a b", command: sh}]`,
		"duplicate":        `commands: [{name: a, command: sh}, {name: a, command: sh}]`,
		"unknown key":      `commands: [{name: a, command: sh, shell: true}]`,
		"bad timeout":      `commands: [{name: a, command: sh, timeout: soon}]`,
		"negative timeout": `commands: [{name: a, command: sh, timeout: -1s}]`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCommands([]byte(doc), false)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	commands, err := ParseCommands([]byte(`{"commands": [{"name": "a", "command": "sh"}]}`), true)
	require.NoError(t, err)
	assert.Contains(t, commands, "a")
}

func TestRunner_Timeout(t *testing.T) {
	requireShell(t)
	commands, err := ParseCommands([]byte(`commands: [{name: slow, command: sh, args: ["-c", "exec sleep 5"], timeout: 50ms}]`), false)
	require.NoError(t, err)
	runner := NewRunner(WithRegistry(commands))

	w := world.New()
	id := w.Spawn()
	var cmds world.Commands
	start := time.Now()
	err = runner.Execute(context.Background(), "slow", id, w, &cmds)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)
}
