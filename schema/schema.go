// Package schema declares the collections and fields of a database.
package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nasdf/capyql/fault"
	"github.com/nasdf/capyql/value"
)

// Field is a declared field of a collection.
type Field struct {
	Name string
	Type value.Type
	// Indexed fields keep an equality index.
	Indexed bool
	// Sortable fields may be used in an order clause.
	Sortable bool
	// Required fields must be set on create.
	Required bool
}

// Schema is the ordered set of fields of one collection.
type Schema struct {
	Name   string
	Key    value.KeyKind
	Fields []Field
}

// New returns a validated schema with the given name and fields.
func New(name string, key value.KeyKind, fields ...Field) (*Schema, error) {
	s := &Schema{Name: name, Key: key, Fields: fields}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate returns an error wrapping fault.ErrSchema if the schema is invalid.
func (s *Schema) Validate() error {
	if !isName(s.Name) {
		return fault.Schemaf("invalid collection name %q", s.Name)
	}
	if slices.Contains(reservedNames, s.Name) {
		return fault.Schemaf("collection name %q is reserved", s.Name)
	}
	if s.Key != value.KeySequence && s.Key != value.KeyUUID {
		return fault.Schemaf("%s: unknown key kind %d", s.Name, s.Key)
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == value.IDField {
			return fault.Schemaf("%s: field %q is implicit and cannot be declared", s.Name, value.IDField)
		}
		if !isName(f.Name) {
			return fault.Schemaf("%s: invalid field name %q", s.Name, f.Name)
		}
		if slices.Contains(reservedFieldNames, f.Name) {
			return fault.Schemaf("%s: field name %q is reserved", s.Name, f.Name)
		}
		if _, ok := seen[f.Name]; ok {
			return fault.Schemaf("%s: field %q is declared more than once", s.Name, f.Name)
		}
		if f.Type < value.TypeString || f.Type > value.TypeBoolean {
			return fault.Schemaf("%s.%s: unknown field type", s.Name, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// Field returns the declared field with the given name.
func (s *Schema) Field(name string) (Field, bool) {
	i := slices.IndexFunc(s.Fields, func(f Field) bool { return f.Name == name })
	if i < 0 {
		return Field{}, false
	}
	return s.Fields[i], true
}

// Names returns the names of all declared fields in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// IsSortable returns true if the named field may be used in an order clause.
//
// The identifier is always sortable.
func (s *Schema) IsSortable(name string) bool {
	if name == value.IDField {
		return true
	}
	f, ok := s.Field(name)
	return ok && f.Sortable
}

// String returns the SDL declaration of the schema.
func (s *Schema) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "type %s", s.Name)
	if s.Key != value.KeySequence {
		fmt.Fprintf(&b, " @key(kind: %s)", s.Key)
	}
	b.WriteString(" {\n")
	for _, f := range s.Fields {
		fmt.Fprintf(&b, "  %s: %s", f.Name, f.Type)
		if f.Required {
			b.WriteString("!")
		}
		if f.Indexed {
			b.WriteString(" @index")
		}
		if f.Sortable {
			b.WriteString(" @sort")
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// Set is an ordered set of collection schemas.
type Set struct {
	schemas []*Schema
}

// NewSet returns a set containing the given schemas.
func NewSet(schemas ...*Schema) (*Set, error) {
	seen := make(map[string]struct{}, len(schemas))
	for _, s := range schemas {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[s.Name]; ok {
			return nil, fault.Schemaf("collection %q is declared more than once", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return &Set{schemas: schemas}, nil
}

// Schemas returns the schemas in declaration order.
func (s *Set) Schemas() []*Schema {
	return s.schemas
}

// Get returns the schema of the named collection.
func (s *Set) Get(name string) (*Schema, bool) {
	i := slices.IndexFunc(s.schemas, func(c *Schema) bool { return c.Name == name })
	if i < 0 {
		return nil, false
	}
	return s.schemas[i], true
}

// String returns the SDL declaration of all schemas.
func (s *Set) String() string {
	parts := make([]string, len(s.schemas))
	for i, c := range s.schemas {
		parts[i] = c.String()
	}
	return strings.Join(parts, "\n")
}

// reservedNames cannot be used as collection names.
var reservedNames = []string{"Query", "Mutation", "Subscription"}

// reservedFieldNames are the logical operators of a where clause.
var reservedFieldNames = []string{"and", "or", "not"}

func isName(s string) bool {
	if s == "" || strings.HasPrefix(s, "__") {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
