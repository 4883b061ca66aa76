package query

import (
	"github.com/nasdf/capyql/fault"
	"github.com/nasdf/capyql/filter"
	"github.com/nasdf/capyql/object"
	"github.com/nasdf/capyql/schema"
	"github.com/nasdf/capyql/value"
)

// Iterator yields records in default order.
type Iterator interface {
	Done() bool
	Next() object.Record
}

// Plan is a validated descriptor ready to be evaluated.
type Plan struct {
	Schema *schema.Schema
	Filter *filter.Filter
	Order  Order
	Limit  int
	Skip   int
	// Fields contains the selected fields or nil if every field is selected.
	Fields []string
}

// Compile validates every option of the descriptor and returns its Plan.
//
// Nothing is evaluated if any option is invalid.
func Compile(s *schema.Schema, d Descriptor) (*Plan, error) {
	if d.Limit < 0 {
		return nil, &fault.InvalidQueryError{Collection: s.Name, Clause: "limit", Reason: "must not be negative"}
	}
	if d.Skip < 0 {
		return nil, &fault.InvalidQueryError{Collection: s.Name, Clause: "skip", Reason: "must not be negative"}
	}
	f, err := filter.Parse(s, d.Where)
	if err != nil {
		return nil, err
	}
	order, err := ParseOrder(s, d.Order...)
	if err != nil {
		return nil, err
	}
	p := &Plan{
		Schema: s,
		Filter: f,
		Order:  order,
		Limit:  d.Limit,
		Skip:   d.Skip,
	}
	if !d.Fields.IsZero() {
		p.Fields, err = d.Fields.Resolve(s)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

// IndexKey returns the identifier or the first indexed field that the filter
// constrains to a single value.
//
// Records that do not hold the returned value never match the plan.
func (p *Plan) IndexKey() (string, value.Value, bool) {
	if v, ok := p.Filter.Equality(value.IDField); ok {
		return value.IDField, v, true
	}
	for _, f := range p.Schema.Fields {
		if !f.Indexed {
			continue
		}
		if v, ok := p.Filter.Equality(f.Name); ok {
			return f.Name, v, true
		}
	}
	return "", value.Absent, false
}

// Match returns every record from the iterator that satisfies the filter.
func (p *Plan) Match(it Iterator) []object.Record {
	out := []object.Record{}
	for !it.Done() {
		rec := it.Next()
		if p.Filter.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Count returns the number of records from the iterator that satisfy the filter.
func (p *Plan) Count(it Iterator) int {
	n := 0
	for !it.Done() {
		if p.Filter.Match(it.Next()) {
			n++
		}
	}
	return n
}

// Run evaluates the plan over the records of the iterator.
//
// The stages always run in the same order: filter, sort, skip, limit and
// project. The result is never nil.
func (p *Plan) Run(it Iterator) []object.Record {
	records := p.Match(it)
	p.Order.Sort(records)

	if p.Skip >= len(records) {
		return []object.Record{}
	}
	records = records[p.Skip:]
	if p.Limit > 0 && p.Limit < len(records) {
		records = records[:p.Limit]
	}
	if p.Fields == nil {
		return records
	}
	out := make([]object.Record, len(records))
	for i, rec := range records {
		out[i] = rec.Project(p.Fields)
	}
	return out
}
