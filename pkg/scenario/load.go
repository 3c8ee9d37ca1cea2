// Package scenario loads scripted click sessions from YAML or JSON and runs
// them against an App, checking the resulting world.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/onclick/internal/dto"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Load reads and validates a scenario file. The format is picked from the
// extension: .json is JSON, anything else is YAML.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	s, err := Parse(data, strings.ToLower(filepath.Ext(path)) == ".json")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes a scenario document. Scalars are weakly typed, so
// `disabled: "true"` and `queue_len: {a: "2"}` are accepted.
func Parse(data []byte, isJSON bool) (*Scenario, error) {
	raw := make(map[string]any)
	if isJSON {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
	}

	var file dto.ScenarioFile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &file,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	s := &Scenario{file: file, Name: file.Name, Interpreter: file.Interpreter}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}
