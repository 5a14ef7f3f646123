package registry

import (
	"fmt"
	"math"

	apperrors "github.com/louisbranch/uuidforge/internal/platform/errors"
)

// FieldKind enumerates the value kinds a schema field accepts.
type FieldKind string

const (
	// FieldString accepts JSON strings, optionally restricted to an enum.
	FieldString FieldKind = "string"
	// FieldInteger accepts whole JSON numbers, optionally range-bounded.
	FieldInteger FieldKind = "integer"
)

// Field declares one named input of a tool.
type Field struct {
	Name        string
	Kind        FieldKind
	Description string
	Required    bool
	// Default fills the argument when the caller omits it. Ignored for
	// required fields.
	Default any
	// Enum restricts string fields to the listed values.
	Enum []string
	// Min and Max are inclusive bounds for integer fields.
	Min *int
	Max *int
}

// Schema declares a tool's input object. It is pure data: serialization to
// the wire format and argument validation are separate operations over it.
type Schema struct {
	Fields []Field
}

// JSONSchema translates the declaration into the JSON Schema object clients
// receive in tools/list.
func (s Schema) JSONSchema() map[string]any {
	properties := make(map[string]any, len(s.Fields))
	var required []string
	for _, field := range s.Fields {
		property := map[string]any{"type": string(field.Kind)}
		if field.Description != "" {
			property["description"] = field.Description
		}
		if len(field.Enum) > 0 {
			values := make([]any, len(field.Enum))
			for i, value := range field.Enum {
				values[i] = value
			}
			property["enum"] = values
		}
		if field.Default != nil {
			property["default"] = field.Default
		}
		if field.Min != nil {
			property["minimum"] = *field.Min
		}
		if field.Max != nil {
			property["maximum"] = *field.Max
		}
		properties[field.Name] = property
		if field.Required {
			required = append(required, field.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Apply validates raw arguments against the declaration and returns the
// coerced map: defaults filled in, numbers narrowed to int. Fields not
// declared in the schema are dropped. Violations fail with INVALID_PARAMS.
func (s Schema) Apply(args map[string]any) (Args, error) {
	out := make(Args, len(s.Fields))
	for _, field := range s.Fields {
		raw, ok := args[field.Name]
		if !ok || raw == nil {
			if field.Required {
				return nil, apperrors.WithMetadata(apperrors.CodeInvalidParams,
					fmt.Sprintf("missing required argument %q", field.Name),
					map[string]string{"argument": field.Name})
			}
			if field.Default != nil {
				out[field.Name] = field.Default
			}
			continue
		}
		value, err := coerceField(field, raw)
		if err != nil {
			return nil, err
		}
		out[field.Name] = value
	}
	return out, nil
}

func coerceField(field Field, raw any) (any, error) {
	switch field.Kind {
	case FieldString:
		value, ok := raw.(string)
		if !ok {
			return nil, invalidArgument(field.Name, "must be a string")
		}
		if len(field.Enum) > 0 && !containsString(field.Enum, value) {
			return nil, invalidArgument(field.Name, fmt.Sprintf("must be one of %v", field.Enum))
		}
		return value, nil
	case FieldInteger:
		number, ok := rawNumber(raw)
		if !ok {
			return nil, invalidArgument(field.Name, "must be an integer")
		}
		if number != math.Trunc(number) {
			return nil, invalidArgument(field.Name, "must be a whole number")
		}
		value := int(number)
		if field.Min != nil && value < *field.Min {
			return nil, invalidArgument(field.Name, fmt.Sprintf("must be at least %d", *field.Min))
		}
		if field.Max != nil && value > *field.Max {
			return nil, invalidArgument(field.Name, fmt.Sprintf("must be at most %d", *field.Max))
		}
		return value, nil
	default:
		return nil, apperrors.New(apperrors.CodeInternal, fmt.Sprintf("field %q declares unknown kind %q", field.Name, field.Kind))
	}
}

// rawNumber accepts the float64 produced by JSON decoding plus the int form
// used by in-process callers.
func rawNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func containsString(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}

func invalidArgument(name, problem string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidParams,
		fmt.Sprintf("argument %q %s", name, problem),
		map[string]string{"argument": name})
}
