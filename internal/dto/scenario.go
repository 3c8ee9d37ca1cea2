package dto

// ScenarioFile is the raw shape of a scenario document.
// It uses "mapstructure" tags so YAML and JSON inputs decode the same way.
// Schema maps Vars keys to type names checked after the last tick.
type ScenarioFile struct {
	Name        string            `json:"name" mapstructure:"name"`
	Description string            `json:"description" mapstructure:"description"`
	Interpreter string            `json:"interpreter" mapstructure:"interpreter"`
	Vars        map[string]any    `json:"vars" mapstructure:"vars"`
	Schema      map[string]string `json:"schema" mapstructure:"schema"`
	Objects     []ObjectSpec      `json:"objects" mapstructure:"objects"`
	Ticks       []TickSpec        `json:"ticks" mapstructure:"ticks"`
	Expect      ExpectSpec        `json:"expect" mapstructure:"expect"`
}

// ObjectSpec declares one object and its action queue.
type ObjectSpec struct {
	Name     string       `json:"name" mapstructure:"name"`
	Disabled bool         `json:"disabled" mapstructure:"disabled"`
	Actions  []ActionSpec `json:"actions" mapstructure:"actions"`
}

// ActionSpec is one slot. Exactly one field should be set.
type ActionSpec struct {
	Command string `json:"command" mapstructure:"command"`
	Count   string `json:"count" mapstructure:"count"`
	Clear   bool   `json:"clear" mapstructure:"clear"`
	Despawn bool   `json:"despawn" mapstructure:"despawn"`
}

// TickSpec lists the input applied before one frame.
type TickSpec struct {
	Press       []string `json:"press" mapstructure:"press"`
	Hover       []string `json:"hover" mapstructure:"hover"`
	Release     []string `json:"release" mapstructure:"release"`
	Disable     []string `json:"disable" mapstructure:"disable"`
	Enable      []string `json:"enable" mapstructure:"enable"`
	ExpectError bool     `json:"expect_error" mapstructure:"expect_error"`
}

// ExpectSpec holds the assertions checked after the last tick.
type ExpectSpec struct {
	Vars      map[string]any `json:"vars" mapstructure:"vars"`
	Despawned []string       `json:"despawned" mapstructure:"despawned"`
	QueueLen  map[string]int `json:"queue_len" mapstructure:"queue_len"`
}
