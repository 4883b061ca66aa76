package core

import (
	"github.com/nasdf/capyql/object"
)

// RecordIterator iterates over a snapshot of records.
type RecordIterator struct {
	records []object.Record
}

// Done returns true if the iterator has no items left.
func (i *RecordIterator) Done() bool {
	return len(i.records) == 0
}

// Next returns the next record from the iterator.
func (i *RecordIterator) Next() object.Record {
	rec := i.records[0]
	i.records = i.records[1:]
	return rec
}

// Len returns the number of records left.
func (i *RecordIterator) Len() int {
	return len(i.records)
}
