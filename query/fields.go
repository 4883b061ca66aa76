package query

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/nasdf/capyql/fault"
	"github.com/nasdf/capyql/schema"
	"github.com/nasdf/capyql/value"
	"gopkg.in/yaml.v3"
)

// Fields selects the fields of returned records.
//
// The zero Fields selects every field. The identifier is always selected.
type Fields struct {
	names []string
	flags map[string]bool
}

// Names selects exactly the named fields.
func Names(names ...string) Fields {
	return Fields{names: append([]string{}, names...)}
}

// Flags selects fields from a map of names to flags.
//
// If any flag is true only the true fields are selected. Otherwise every
// field except the false ones is selected.
func Flags(flags map[string]bool) Fields {
	return Fields{flags: maps.Clone(flags)}
}

// FieldsFrom converts a decoded fields descriptor into Fields.
//
// Accepted forms are a single name, a list of names, and a map of names to booleans.
func FieldsFrom(v any) (Fields, error) {
	switch t := v.(type) {
	case nil:
		return Fields{}, nil
	case Fields:
		return t, nil
	case string:
		return Names(t), nil
	case []string:
		return Names(t...), nil
	case []any:
		names := make([]string, len(t))
		for i, e := range t {
			s, ok := e.(string)
			if !ok {
				return Fields{}, fmt.Errorf("field name must be a string: %v", e)
			}
			names[i] = s
		}
		return Names(names...), nil
	case map[string]bool:
		return Flags(t), nil
	case map[string]any:
		flags := make(map[string]bool, len(t))
		for k, e := range t {
			b, ok := e.(bool)
			if !ok {
				return Fields{}, fmt.Errorf("field flag %s must be a boolean: %v", k, e)
			}
			flags[k] = b
		}
		return Flags(flags), nil
	default:
		return Fields{}, fmt.Errorf("invalid fields descriptor %T", v)
	}
}

// IsZero returns true if every field is selected.
func (f Fields) IsZero() bool {
	return f.names == nil && f.flags == nil
}

// Resolve returns the declared fields selected for the given schema in declaration order.
//
// The identifier is implied and never part of the result.
func (f Fields) Resolve(s *schema.Schema) ([]string, error) {
	for _, n := range f.requested() {
		if n == value.IDField {
			continue
		}
		if _, ok := s.Field(n); !ok {
			return nil, &fault.InvalidQueryError{
				Collection: s.Name,
				Clause:     "fields",
				Field:      n,
				Reason:     "unknown field",
			}
		}
	}
	var include func(name string) bool
	switch {
	case f.names != nil:
		include = func(name string) bool { return slices.Contains(f.names, name) }
	case f.flags != nil && slices.Contains(slices.Collect(maps.Values(f.flags)), true):
		include = func(name string) bool { return f.flags[name] }
	case f.flags != nil:
		include = func(name string) bool {
			_, excluded := f.flags[name]
			return !excluded
		}
	default:
		include = func(string) bool { return true }
	}
	out := []string{}
	for _, n := range s.Names() {
		if include(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f Fields) requested() []string {
	if f.names != nil {
		return f.names
	}
	return slices.Sorted(maps.Keys(f.flags))
}

func (f Fields) MarshalJSON() ([]byte, error) {
	switch {
	case f.names != nil:
		return json.Marshal(f.names)
	case f.flags != nil:
		return json.Marshal(f.flags)
	default:
		return []byte("null"), nil
	}
}

func (f *Fields) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	out, err := FieldsFrom(v)
	if err != nil {
		return err
	}
	*f = out
	return nil
}

func (f *Fields) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	out, err := FieldsFrom(v)
	if err != nil {
		return err
	}
	*f = out
	return nil
}
