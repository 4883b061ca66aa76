// Package capyql is a schema typed in-memory record store with a structured query engine.
package capyql

import (
	"fmt"
	"log/slog"

	"github.com/nasdf/capyql/core"
	"github.com/nasdf/capyql/fault"
	"github.com/nasdf/capyql/schema"
)

// DB contains one collection per declared schema.
type DB struct {
	schemas     *schema.Set
	collections map[string]*Collection
	logger      *slog.Logger
}

// Open parses the GraphQL SDL schema source and returns a DB with empty collections.
func Open(source string, opts ...Option) (*DB, error) {
	set, err := schema.Parse(source)
	if err != nil {
		return nil, err
	}
	return New(set, opts...), nil
}

// New returns a DB with an empty collection for every schema in the set.
func New(set *schema.Set, opts ...Option) *DB {
	o := newOptions(opts)
	db := &DB{
		schemas:     set,
		collections: make(map[string]*Collection, len(set.Schemas())),
		logger:      o.logger,
	}
	for _, s := range set.Schemas() {
		db.collections[s.Name] = &Collection{
			store:  core.NewStore(s, o.logger),
			logger: o.logger.With("collection", s.Name),
		}
		db.logger.Debug("registered collection", "collection", s.Name, "key", s.Key, "fields", len(s.Fields))
	}
	return db
}

// Schema returns the schemas of every collection.
func (db *DB) Schema() *schema.Set {
	return db.schemas
}

// Collection returns the collection with the given name.
func (db *DB) Collection(name string) (*Collection, error) {
	c, ok := db.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", fault.ErrCollectionNotFound, name)
	}
	return c, nil
}

// Collections returns every collection in declaration order.
func (db *DB) Collections() []*Collection {
	out := make([]*Collection, 0, len(db.collections))
	for _, s := range db.schemas.Schemas() {
		out = append(out, db.collections[s.Name])
	}
	return out
}
