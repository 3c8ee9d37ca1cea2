package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Type validates one Vars value.
type Type interface {
	// Name returns the type name as written in a schema ("int", "[string]").
	Name() string
	Validate(value any) error
}

type basicType struct {
	name  string
	check func(reflect.Value) bool
}

func (t basicType) Name() string { return t.name }

func (t basicType) Validate(value any) error {
	if value == nil || !t.check(reflect.ValueOf(value)) {
		return fmt.Errorf("expected %s, got %T", t.name, value)
	}
	return nil
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		return f == float64(int64(f))
	}
	return false
}

func isFloat(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return true
	}
	return isInt(v)
}

var (
	stringType = basicType{"string", func(v reflect.Value) bool { return v.Kind() == reflect.String }}
	intType    = basicType{"int", isInt}
	floatType  = basicType{"float", isFloat}
	boolType   = basicType{"bool", func(v reflect.Value) bool { return v.Kind() == reflect.Bool }}
	anyType    = basicType{"any", func(reflect.Value) bool { return true }}
)

// String, Int, Float, Bool and Any return the built-in types.
func String() Type { return stringType }
func Int() Type    { return intType }
func Float() Type  { return floatType }
func Bool() Type   { return boolType }
func Any() Type    { return anyType }

type sliceType struct {
	elem Type
}

// Slice validates slices whose elements all satisfy elem.
func Slice(elem Type) Type { return sliceType{elem: elem} }

func (t sliceType) Name() string { return "[" + t.elem.Name() + "]" }

func (t sliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return fmt.Errorf("expected %s, got %T", t.Name(), value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := t.elem.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

type customType struct {
	name     string
	validate func(any) error
}

// Custom wraps a user validation function.
func Custom(name string, validate func(any) error) Type {
	return customType{name: name, validate: validate}
}

func (t customType) Name() string             { return t.name }
func (t customType) Validate(value any) error { return t.validate(value) }

// ParseType converts a type name to a Type. A trailing "?" is not supported;
// every declared key is required.
func ParseType(name string) (Type, error) {
	name = strings.TrimSpace(name)
	if len(name) > 2 && strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]") {
		elem, err := ParseType(name[1 : len(name)-1])
		if err != nil {
			return nil, err
		}
		return Slice(elem), nil
	}
	for _, t := range []Type{stringType, intType, floatType, boolType, anyType} {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("unsupported type: %q", name)
}

// Parse converts a map of key to type name into a Schema.
func Parse(types map[string]string) (Schema, error) {
	s := make(Schema, len(types))
	for key, name := range types {
		t, err := ParseType(name)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", key, err)
		}
		s[key] = t
	}
	return s, nil
}
