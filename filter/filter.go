// Package filter evaluates where clauses against records.
package filter

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/nasdf/capyql/fault"
	"github.com/nasdf/capyql/object"
	"github.com/nasdf/capyql/schema"
	"github.com/nasdf/capyql/value"
)

const (
	equalFilter          = "eq"
	notEqualFilter       = "neq"
	greaterFilter        = "gt"
	greaterOrEqualFilter = "gte"
	lessFilter           = "lt"
	lessOrEqualFilter    = "lte"
	inFilter             = "in"
	notInFilter          = "nin"
	betweenFilter        = "between"
	likeFilter           = "like"
	notLikeFilter        = "nlike"
	andFilter            = "and"
	orFilter             = "or"
	notFilter            = "not"
)

// Operators contains the names of all field operators.
var Operators = []string{
	equalFilter,
	notEqualFilter,
	greaterFilter,
	greaterOrEqualFilter,
	lessFilter,
	lessOrEqualFilter,
	inFilter,
	notInFilter,
	betweenFilter,
	likeFilter,
	notLikeFilter,
}

// Supports returns true if the field operator can be applied to fields of type t.
func Supports(op string, t value.Type) bool {
	switch op {
	case likeFilter, notLikeFilter:
		return t == value.TypeString
	default:
		return slices.Contains(Operators, op)
	}
}

// Filter is a parsed where clause.
//
// A nil Filter matches every record.
type Filter struct {
	root       matcher
	equalities map[string]value.Value
}

// Parse validates the where clause against the schema and returns its Filter.
//
// Keys of the clause are field names or one of the logical operators and, or
// and not. A field maps to either a literal, meaning equality, or to an object
// of operators. Every error is an *fault.InvalidQueryError.
func Parse(s *schema.Schema, where map[string]any) (*Filter, error) {
	if len(where) == 0 {
		return nil, nil
	}
	p := parser{schema: s}
	root, err := p.parseClause(where)
	if err != nil {
		return nil, err
	}
	f := &Filter{root: root, equalities: make(map[string]value.Value)}
	for _, m := range root {
		c, ok := m.(*compareMatcher)
		if ok && c.op == equalFilter && c.valid && !c.literal.IsNull() {
			f.equalities[c.field] = c.literal
		}
	}
	return f, nil
}

// Match returns true if the record satisfies every constraint of the filter.
func (f *Filter) Match(rec object.Record) bool {
	if f == nil {
		return true
	}
	return f.root.match(rec)
}

// Equality returns the canonical literal of a top-level equality constraint on the named field.
//
// Records that do not hold this value never match the filter.
func (f *Filter) Equality(field string) (value.Value, bool) {
	if f == nil {
		return value.Absent, false
	}
	v, ok := f.equalities[field]
	return v, ok
}

type parser struct {
	schema *schema.Schema
}

func (p parser) errorf(field string, format string, args ...any) error {
	return &fault.InvalidQueryError{
		Collection: p.schema.Name,
		Clause:     "where",
		Field:      field,
		Reason:     fmt.Sprintf(format, args...),
	}
}

// parseClause returns the conjunction of every entry of the where clause.
func (p parser) parseClause(where map[string]any) (allMatcher, error) {
	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var out allMatcher
	for _, key := range keys {
		val := where[key]
		switch key {
		case andFilter, orFilter:
			list, ok := asList(val)
			if !ok {
				return nil, p.errorf("", "%s requires a list of clauses", key)
			}
			var group []matcher
			for _, item := range list {
				clause, ok := asMap(item)
				if !ok {
					return nil, p.errorf("", "%s requires a list of clauses", key)
				}
				m, err := p.parseClause(clause)
				if err != nil {
					return nil, err
				}
				group = append(group, m)
			}
			if key == andFilter {
				out = append(out, allMatcher(group))
			} else {
				out = append(out, anyMatcher(group))
			}
		case notFilter:
			clause, ok := asMap(val)
			if !ok {
				return nil, p.errorf("", "not requires a clause")
			}
			m, err := p.parseClause(clause)
			if err != nil {
				return nil, err
			}
			out = append(out, notMatcher{m})
		default:
			m, err := p.parseField(key, val)
			if err != nil {
				return nil, err
			}
			out = append(out, m...)
		}
	}
	return out, nil
}

func (p parser) parseField(name string, val any) ([]matcher, error) {
	f, err := p.field(name)
	if err != nil {
		return nil, err
	}
	ops, ok := asMap(val)
	if !ok {
		if _, isList := asList(val); isList {
			return nil, p.errorf(name, "list literals require the in operator")
		}
		return []matcher{f.compare(equalFilter, val)}, nil
	}
	if len(ops) == 0 {
		return nil, p.errorf(name, "empty operator object")
	}
	keys := make([]string, 0, len(ops))
	for k := range ops {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]matcher, 0, len(ops))
	for _, op := range keys {
		m, err := p.parseOperator(f, op, ops[op])
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (p parser) parseOperator(f field, op string, operand any) (matcher, error) {
	switch op {
	case equalFilter, notEqualFilter:
		if _, ok := asMap(operand); ok {
			return nil, p.errorf(f.name, "%s requires a literal", op)
		}
		if _, ok := asList(operand); ok {
			return nil, p.errorf(f.name, "%s requires a literal", op)
		}
		return f.compare(op, operand), nil

	case greaterFilter, greaterOrEqualFilter, lessFilter, lessOrEqualFilter:
		if operand == nil {
			return nil, p.errorf(f.name, "%s requires a non-null literal", op)
		}
		if _, ok := asMap(operand); ok {
			return nil, p.errorf(f.name, "%s requires a literal", op)
		}
		if _, ok := asList(operand); ok {
			return nil, p.errorf(f.name, "%s requires a literal", op)
		}
		return f.compare(op, operand), nil

	case inFilter, notInFilter:
		list, ok := asList(operand)
		if !ok {
			return nil, p.errorf(f.name, "%s requires a list", op)
		}
		set := &setMatcher{field: f.name, negate: op == notInFilter}
		for _, item := range list {
			if lit, ok := f.literal(item); ok {
				set.literals = append(set.literals, lit)
			}
		}
		return set, nil

	case betweenFilter:
		list, ok := asList(operand)
		if !ok || len(list) != 2 || list[0] == nil || list[1] == nil {
			return nil, p.errorf(f.name, "between requires a list of two literals")
		}
		return allMatcher{
			f.compare(greaterOrEqualFilter, list[0]),
			f.compare(lessOrEqualFilter, list[1]),
		}, nil

	case likeFilter, notLikeFilter:
		if !Supports(op, f.typ) {
			return nil, p.errorf(f.name, "%s requires a String field", op)
		}
		pattern, ok := operand.(string)
		if !ok {
			return nil, p.errorf(f.name, "%s requires a string pattern", op)
		}
		re, err := compileLike(pattern)
		if err != nil {
			return nil, p.errorf(f.name, "invalid pattern %q: %v", pattern, err)
		}
		return &likeMatcher{field: f.name, re: re, negate: op == notLikeFilter}, nil

	default:
		return nil, p.errorf(f.name, "unknown operator %q", op)
	}
}

// field describes how literals are converted for one field.
type field struct {
	name string
	typ  value.Type
	key  *value.KeyKind
}

func (p parser) field(name string) (field, error) {
	if name == value.IDField {
		kind := p.schema.Key
		typ := value.TypeInt
		if kind == value.KeyUUID {
			typ = value.TypeString
		}
		return field{name: name, typ: typ, key: &kind}, nil
	}
	f, ok := p.schema.Field(name)
	if !ok {
		return field{}, p.errorf(name, "unknown field")
	}
	return field{name: name, typ: f.Type}, nil
}

// literal converts a query literal into the canonical value of the field.
func (f field) literal(v any) (value.Value, bool) {
	if v == nil {
		return value.Null, true
	}
	if f.key != nil {
		return value.CanonicalID(*f.key, v)
	}
	return value.Literal(v, f.typ)
}

func (f field) compare(op string, operand any) *compareMatcher {
	lit, ok := f.literal(operand)
	return &compareMatcher{field: f.name, op: op, literal: lit, valid: ok}
}

// asList returns the elements of any slice or array except byte slices.
func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case nil, []byte, string:
		return nil, false
	case []any:
		return t, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	for iter := rv.MapRange(); iter.Next(); {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
