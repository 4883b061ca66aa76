package schema

import (
	_ "embed"
	"fmt"
	"slices"

	"github.com/nasdf/capyql/fault"
	"github.com/nasdf/capyql/value"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed directives.graphql
var directivesSource string

const (
	keyDirective   = "key"
	indexDirective = "index"
	sortDirective  = "sort"
)

// Parse returns the collection schemas declared in the given GraphQL SDL.
//
// Every object type is a collection. Fields are annotated with @index and
// @sort, and types may select their identifier kind with @key(kind: UUID).
func Parse(source string) (*Set, error) {
	doc, err := gqlparser.LoadSchema(
		&ast.Source{Name: "directives.graphql", Input: directivesSource, BuiltIn: true},
		&ast.Source{Name: "schema.graphql", Input: source},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrSchema, err)
	}
	var defs []*ast.Definition
	for _, d := range doc.Types {
		if !d.BuiltIn {
			defs = append(defs, d)
		}
	}
	slices.SortFunc(defs, func(a, b *ast.Definition) int {
		return a.Position.Start - b.Position.Start
	})
	schemas := make([]*Schema, 0, len(defs))
	for _, d := range defs {
		s, err := parseDefinition(d)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return NewSet(schemas...)
}

func parseDefinition(d *ast.Definition) (*Schema, error) {
	if d.Kind != ast.Object {
		return nil, fault.Schemaf("%s: unsupported %s definition", d.Name, d.Kind)
	}
	s := &Schema{Name: d.Name, Key: value.KeySequence}
	if dir := d.Directives.ForName(keyDirective); dir != nil {
		if arg := dir.Arguments.ForName("kind"); arg != nil {
			kind, ok := value.ParseKeyKind(arg.Value.Raw)
			if !ok {
				return nil, fault.Schemaf("%s: unknown key kind %s", d.Name, arg.Value.Raw)
			}
			s.Key = kind
		}
	}
	for _, f := range d.Fields {
		field, err := parseField(d.Name, f)
		if err != nil {
			return nil, err
		}
		s.Fields = append(s.Fields, field)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func parseField(collection string, f *ast.FieldDefinition) (Field, error) {
	if f.Type.Elem != nil {
		return Field{}, fault.Schemaf("%s.%s: list fields are not supported", collection, f.Name)
	}
	if len(f.Arguments) > 0 {
		return Field{}, fault.Schemaf("%s.%s: fields cannot have arguments", collection, f.Name)
	}
	typ, ok := value.ParseType(f.Type.NamedType)
	if !ok {
		return Field{}, fault.Schemaf("%s.%s: unsupported type %s", collection, f.Name, f.Type.NamedType)
	}
	return Field{
		Name:     f.Name,
		Type:     typ,
		Indexed:  f.Directives.ForName(indexDirective) != nil,
		Sortable: f.Directives.ForName(sortDirective) != nil,
		Required: f.Type.NonNull,
	}, nil
}
