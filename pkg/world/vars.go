package world

import (
	"encoding/json"
	"maps"
	"math"
	"slices"
)

// Vars is a string-keyed blackboard resource. Delegated commands, scenarios and
// snapshot stores read and write world data through it.
type Vars struct {
	values map[string]any
}

// NewVars creates an empty blackboard.
func NewVars() *Vars {
	return &Vars{values: make(map[string]any)}
}

// VarsOf returns the world's blackboard, installing an empty one if needed.
func VarsOf(w *World) *Vars {
	return ResourceOrInit(w, NewVars)
}

// Get returns the raw value stored under key.
func (v *Vars) Get(key string) (any, bool) {
	val, ok := v.values[key]
	return val, ok
}

// Set stores val under key.
func (v *Vars) Set(key string, val any) {
	v.values[key] = val
}

// Delete removes key.
func (v *Vars) Delete(key string) {
	delete(v.values, key)
}

// Int returns the value under key as an integer. Missing or non-numeric
// values read as zero.
func (v *Vars) Int(key string) int64 {
	n, _ := toInt(v.values[key])
	return n
}

// Add increments the integer under key by delta and returns the new value.
func (v *Vars) Add(key string, delta int64) int64 {
	n := v.Int(key) + delta
	v.values[key] = n
	return n
}

// Keys returns the stored keys in sorted order.
func (v *Vars) Keys() []string {
	return slices.Sorted(maps.Keys(v.values))
}

// Snapshot returns a shallow copy of the blackboard.
func (v *Vars) Snapshot() map[string]any {
	return maps.Clone(v.values)
}

// Restore replaces the blackboard contents with data.
func (v *Vars) Restore(data map[string]any) {
	v.values = make(map[string]any, len(data))
	for k, val := range data {
		v.values[k] = normalize(val)
	}
}

// normalize folds decoded numbers back to int64 when they are integral,
// so values survive a JSON round trip unchanged.
func normalize(val any) any {
	switch n := val.(type) {
	case int:
		return int64(n)
	case float64:
		if n == math.Trunc(n) {
			return int64(n)
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return val
}

func toInt(val any) (int64, bool) {
	switch n := val.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}
