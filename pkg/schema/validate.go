package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Schema maps Vars keys to their expected types.
type Schema map[string]Type

// ValidationError is one key that failed validation.
type ValidationError struct {
	Key    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("var %q: %s", e.Key, e.Reason)
}

// AggregateError collects every ValidationError found by Validate.
type AggregateError struct {
	Errors []*ValidationError
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	parts := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("%d validation errors: %s", len(e.Errors), strings.Join(parts, "; "))
}

// Keys returns the declared keys, sorted.
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks vars against s. Keys not declared in s are ignored.
// It returns nil or an *AggregateError.
func Validate(s Schema, vars map[string]any) error {
	var errs []*ValidationError
	for _, key := range s.Keys() {
		value, ok := vars[key]
		if !ok {
			errs = append(errs, &ValidationError{Key: key, Reason: "required"})
			continue
		}
		if err := s[key].Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: key, Reason: err.Error()})
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
