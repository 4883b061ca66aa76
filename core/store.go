// Package core contains the in-memory record store of a collection.
package core

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/nasdf/capyql/fault"
	"github.com/nasdf/capyql/object"
	"github.com/nasdf/capyql/schema"
	"github.com/nasdf/capyql/value"
)

var (
	errAssignedID    = errors.New("identifier is assigned by the store")
	errRequiredField = errors.New("field is required")
	errDuplicateID   = errors.New("duplicate identifier")
)

// Store holds every record of one collection keyed by identifier.
//
// Records are immutable. Readers copy the records they need while holding the
// read lock, so a snapshot is never affected by later writes.
type Store struct {
	schema *schema.Schema
	logger *slog.Logger

	mu      sync.RWMutex
	records map[string]object.Record
	// ids contains the identifiers of all records in default order.
	ids     []value.Value
	next    int64
	indexes map[string]*index
}

// NewStore returns an empty store for the given schema.
func NewStore(s *schema.Schema, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	indexes := make(map[string]*index)
	for _, f := range s.Fields {
		if f.Indexed {
			indexes[f.Name] = newIndex()
		}
	}
	return &Store{
		schema:  s,
		logger:  logger.With("collection", s.Name),
		records: make(map[string]object.Record),
		next:    1,
		indexes: indexes,
	}
}

// Schema returns the schema of the collection.
func (s *Store) Schema() *schema.Schema {
	return s.schema
}

// Create validates the fields, assigns a fresh identifier and stores the record.
//
// Every error is a *fault.ValidationError and leaves the store unchanged.
func (s *Store) Create(fields map[string]any) (object.Record, error) {
	values, err := s.validate(fields)
	if err != nil {
		return object.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.allocate()
	if err != nil {
		return object.Record{}, err
	}
	rec := object.New(id, values)
	s.insert(rec)

	s.logger.Debug("created record", "id", id)
	return rec, nil
}

func (s *Store) validate(fields map[string]any) (map[string]value.Value, error) {
	values := make(map[string]value.Value, len(fields))
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		input := fields[name]
		if name == value.IDField {
			return nil, s.validationError(name, input, errAssignedID)
		}
		f, ok := s.schema.Field(name)
		if !ok {
			s.logger.Debug("dropping undeclared field", "field", name)
			continue
		}
		v, err := value.Coerce(input, f.Type)
		if err != nil {
			return nil, s.validationError(name, input, err)
		}
		values[name] = v
	}
	for _, f := range s.schema.Fields {
		if !f.Required {
			continue
		}
		if v := values[f.Name]; v.IsAbsent() || v.IsNull() {
			return nil, s.validationError(f.Name, nil, errRequiredField)
		}
	}
	return values, nil
}

func (s *Store) validationError(field string, input any, err error) error {
	return &fault.ValidationError{
		Collection: s.schema.Name,
		Field:      field,
		Value:      input,
		Err:        err,
	}
}

// allocate returns a fresh identifier. Must be called with the write lock held.
func (s *Store) allocate() (value.Value, error) {
	if s.schema.Key == value.KeyUUID {
		for {
			id, err := value.NewUUID()
			if err != nil {
				return value.Absent, fmt.Errorf("failed to generate identifier: %w", err)
			}
			if _, ok := s.records[id.Key()]; !ok {
				return id, nil
			}
		}
	}
	id := value.Int(s.next)
	s.next++
	return id, nil
}

// insert adds the record. Must be called with the write lock held.
func (s *Store) insert(rec object.Record) {
	id := rec.ID()
	s.records[id.Key()] = rec
	i, _ := slices.BinarySearchFunc(s.ids, id, value.Compare)
	s.ids = slices.Insert(s.ids, i, id)
	for name, idx := range s.indexes {
		idx.add(rec.Get(name), id)
	}
}

// remove deletes the record. Must be called with the write lock held.
func (s *Store) remove(rec object.Record) {
	id := rec.ID()
	delete(s.records, id.Key())
	if i, ok := slices.BinarySearchFunc(s.ids, id, value.Compare); ok {
		s.ids = slices.Delete(s.ids, i, i+1)
	}
	for name, idx := range s.indexes {
		idx.remove(rec.Get(name), id)
	}
}

// Get returns the record with the given identifier.
//
// The identifier may be given in any representation accepted by value.CanonicalID.
func (s *Store) Get(id any) (object.Record, bool) {
	key, ok := value.CanonicalID(s.schema.Key, id)
	if !ok {
		return object.Record{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[key.Key()]
	return rec, ok
}

// Scan returns an iterator over a snapshot of every record in default order.
func (s *Store) Scan() *RecordIterator {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]object.Record, len(s.ids))
	for i, id := range s.ids {
		records[i] = s.records[id.Key()]
	}
	return &RecordIterator{records: records}
}

// Lookup returns an iterator over a snapshot of the records whose field equals the value.
//
// The second return value is false if the field has no index. The identifier
// is always indexed.
func (s *Store) Lookup(field string, v value.Value) (*RecordIterator, bool) {
	if field == value.IDField {
		rec, ok := s.Get(v)
		if !ok {
			return &RecordIterator{}, true
		}
		return &RecordIterator{records: []object.Record{rec}}, true
	}
	idx, ok := s.indexes[field]
	if !ok {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := idx.get(v)
	slices.SortFunc(ids, value.Compare)

	records := make([]object.Record, len(ids))
	for i, id := range ids {
		records[i] = s.records[id.Key()]
	}
	return &RecordIterator{records: records}, true
}

// Delete removes the record with the given identifier and returns true if it existed.
func (s *Store) Delete(id any) bool {
	key, ok := value.CanonicalID(s.schema.Key, id)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key.Key()]
	if !ok {
		return false
	}
	s.remove(rec)
	s.logger.Debug("deleted record", "id", key)
	return true
}

// DeleteFunc removes every record matching the predicate and returns the number removed.
//
// The predicate is evaluated against the records present when the write lock
// is acquired.
func (s *Store) DeleteFunc(match func(object.Record) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []object.Record
	for _, id := range s.ids {
		rec := s.records[id.Key()]
		if match(rec) {
			matched = append(matched, rec)
		}
	}
	for _, rec := range matched {
		s.remove(rec)
	}
	s.logger.Debug("deleted records", "count", len(matched))
	return len(matched)
}

// Count returns the number of records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// Sequence returns the next sequence identifier that will be assigned.
func (s *Store) Sequence() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.next
}

// Restore inserts records with existing identifiers, such as records read from a snapshot.
//
// Field values are coerced to their declared types and undeclared fields are
// dropped, as they are on create. The sequence counter
// advances past every restored identifier and is never lowered below next.
// Nothing is inserted if any record is invalid.
func (s *Store) Restore(records []object.Record, next int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	valid := make([]object.Record, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		id, ok := value.CanonicalID(s.schema.Key, rec.ID())
		if !ok {
			return s.validationError(value.IDField, rec.ID().Interface(), fmt.Errorf("invalid %s identifier", s.schema.Key))
		}
		_, exists := s.records[id.Key()]
		if _, dup := seen[id.Key()]; exists || dup {
			return s.validationError(value.IDField, id.Interface(), errDuplicateID)
		}
		seen[id.Key()] = struct{}{}

		fields := rec.Fields()
		for name, v := range fields {
			f, ok := s.schema.Field(name)
			if !ok {
				delete(fields, name)
				continue
			}
			c, err := value.Coerce(v, f.Type)
			if err != nil {
				return s.validationError(name, v.Interface(), err)
			}
			fields[name] = c
		}
		valid = append(valid, object.New(id, fields))
	}
	for _, rec := range valid {
		s.insert(rec)
		if i, ok := rec.ID().AsInt(); ok && i >= s.next {
			s.next = i + 1
		}
	}
	if next > s.next {
		s.next = next
	}
	s.logger.Debug("restored records", "count", len(valid), "next", s.next)
	return nil
}
