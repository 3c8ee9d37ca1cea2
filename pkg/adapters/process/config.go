package process

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every commands file validation error.
var ErrInvalidConfig = errors.New("invalid commands config")

// ProcessConfig describes one allow-listed external command.
type ProcessConfig struct {
	Name        string            `mapstructure:"name"`
	Command     string            `mapstructure:"command"`
	Args        []string          `mapstructure:"args"`
	Environment map[string]string `mapstructure:"env"`
	Timeout     time.Duration     `mapstructure:"timeout"`
	Description string            `mapstructure:"description"`
}

// ConfigFile is the shape of commands.yaml (or .json).
type ConfigFile struct {
	Commands []ProcessConfig `mapstructure:"commands"`
}

// LoadCommands reads a commands file and returns its entries keyed by name.
// A missing file yields an empty allow-list.
func LoadCommands(path string) (map[string]ProcessConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]ProcessConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read commands config: %w", err)
	}

	commands, err := ParseCommands(data, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return commands, nil
}

// ParseCommands decodes a commands document. Unknown keys, unnamed or
// command-less entries and duplicate names are rejected. Timeouts use Go
// duration syntax ("2s").
func ParseCommands(data []byte, isJSON bool) (map[string]ProcessConfig, error) {
	raw := make(map[string]any)
	unmarshal := yaml.Unmarshal
	if isJSON {
		unmarshal = json.Unmarshal
	}
	if err := unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var file ConfigFile
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &file,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	commands := make(map[string]ProcessConfig, len(file.Commands))
	for i, c := range file.Commands {
		switch {
		case c.Name == "":
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidConfig, i+1)
		case len(strings.Fields(c.Name)) != 1:
			return nil, fmt.Errorf("%w: name %q must be a single word", ErrInvalidConfig, c.Name)
		case c.Command == "":
			return nil, fmt.Errorf("%w: %s has no command", ErrInvalidConfig, c.Name)
		case c.Timeout < 0:
			return nil, fmt.Errorf("%w: %s has a negative timeout", ErrInvalidConfig, c.Name)
		}
		if _, dup := commands[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate command %q", ErrInvalidConfig, c.Name)
		}
		commands[c.Name] = c
	}
	return commands, nil
}
