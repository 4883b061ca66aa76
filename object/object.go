// Package object defines the records held by a collection.
package object

import (
	"maps"
	"slices"

	"github.com/nasdf/capyql/value"
)

// Record is an immutable mapping of field names to values.
//
// Fields that are not present on a record are absent, never null-filled.
// The identifier is stored separately and is always present.
type Record struct {
	id     value.Value
	fields map[string]value.Value
}

// New returns a record with the given identifier and fields.
//
// Absent values are dropped and the fields map is copied.
func New(id value.Value, fields map[string]value.Value) Record {
	out := make(map[string]value.Value, len(fields))
	for k, v := range fields {
		if v.IsAbsent() || k == value.IDField {
			continue
		}
		out[k] = v
	}
	return Record{id: id, fields: out}
}

// ID returns the record identifier.
func (r Record) ID() value.Value {
	return r.id
}

// IsZero returns true for the zero Record.
func (r Record) IsZero() bool {
	return r.id.IsAbsent() && len(r.fields) == 0
}

// Get returns the value of the named field or value.Absent.
func (r Record) Get(name string) value.Value {
	if name == value.IDField {
		return r.id
	}
	return r.fields[name]
}

// Has returns true if the named field is present.
func (r Record) Has(name string) bool {
	return !r.Get(name).IsAbsent()
}

// Len returns the number of present fields including the identifier.
func (r Record) Len() int {
	return len(r.fields) + 1
}

// Names returns the sorted names of the present fields excluding the identifier.
func (r Record) Names() []string {
	return slices.Sorted(maps.Keys(r.fields))
}

// Project returns a record containing only the named fields.
//
// Names that are not present on the record are skipped.
func (r Record) Project(names []string) Record {
	out := make(map[string]value.Value, len(names))
	for _, n := range names {
		if v, ok := r.fields[n]; ok {
			out[n] = v
		}
	}
	return Record{id: r.id, fields: out}
}

// Map returns the record as a map of plain Go values including the identifier.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.fields)+1)
	out[value.IDField] = r.id.Interface()
	for k, v := range r.fields {
		out[k] = v.Interface()
	}
	return out
}

// Fields returns a copy of the present fields excluding the identifier.
func (r Record) Fields() map[string]value.Value {
	return maps.Clone(r.fields)
}
