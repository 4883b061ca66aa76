package capyql

import (
	"fmt"
	"log/slog"

	"github.com/nasdf/capyql/core"
	"github.com/nasdf/capyql/fault"
	"github.com/nasdf/capyql/filter"
	"github.com/nasdf/capyql/object"
	"github.com/nasdf/capyql/query"
	"github.com/nasdf/capyql/schema"
)

// Collection answers queries over the records of one schema.
type Collection struct {
	store  *core.Store
	logger *slog.Logger
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.store.Schema().Name
}

// Schema returns the collection schema.
func (c *Collection) Schema() *schema.Schema {
	return c.store.Schema()
}

// Create stores a new record with the given fields and returns it with its assigned identifier.
func (c *Collection) Create(fields map[string]any) (object.Record, error) {
	return c.store.Create(fields)
}

// FindByID returns the record with the given identifier or an error wrapping fault.ErrNotFound.
func (c *Collection) FindByID(id any) (object.Record, error) {
	rec, ok := c.store.Get(id)
	if !ok {
		return object.Record{}, fmt.Errorf("%s %v: %w", c.Name(), id, fault.ErrNotFound)
	}
	return rec, nil
}

// Exists returns true if a record with the given identifier exists.
func (c *Collection) Exists(id any) bool {
	_, ok := c.store.Get(id)
	return ok
}

// Find returns the records selected by the descriptor.
//
// The result is never nil. An invalid descriptor returns an error wrapping
// fault.ErrInvalidQuery and nothing is evaluated.
func (c *Collection) Find(d query.Descriptor) ([]object.Record, error) {
	p, err := query.Compile(c.Schema(), d)
	if err != nil {
		return nil, err
	}
	return p.Run(c.candidates(p)), nil
}

// FindOne returns the first record selected by the descriptor.
//
// The descriptor limit is replaced by one. An error wrapping fault.ErrNotFound
// is returned if nothing matches.
func (c *Collection) FindOne(d query.Descriptor) (object.Record, error) {
	d.Limit = 1
	records, err := c.Find(d)
	if err != nil {
		return object.Record{}, err
	}
	if len(records) == 0 {
		return object.Record{}, fmt.Errorf("%s: %w", c.Name(), fault.ErrNotFound)
	}
	return records[0], nil
}

// Count returns the number of records matching the where clause.
func (c *Collection) Count(where map[string]any) (int, error) {
	if len(where) == 0 {
		return c.store.Count(), nil
	}
	p, err := query.Compile(c.Schema(), query.Descriptor{Where: where})
	if err != nil {
		return 0, err
	}
	return p.Count(c.candidates(p)), nil
}

// DestroyAll deletes every record matching the where clause and returns the number deleted.
//
// The clause is validated before anything is deleted. The match set is
// evaluated and deleted under a single store lock.
func (c *Collection) DestroyAll(where map[string]any) (int, error) {
	f, err := filter.Parse(c.Schema(), where)
	if err != nil {
		return 0, err
	}
	n := c.store.DeleteFunc(f.Match)
	c.logger.Debug("destroyed records", "count", n)
	return n, nil
}

// candidates returns the records that may match the plan in default order.
func (c *Collection) candidates(p *query.Plan) query.Iterator {
	if field, v, ok := p.IndexKey(); ok {
		if it, ok := c.store.Lookup(field, v); ok {
			return it
		}
	}
	return c.store.Scan()
}
