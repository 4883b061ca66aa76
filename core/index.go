package core

import (
	"github.com/nasdf/capyql/value"
)

// index maps the canonical key of a field value to the identifiers holding it.
type index struct {
	entries map[string]map[string]value.Value
}

func newIndex() *index {
	return &index{entries: make(map[string]map[string]value.Value)}
}

func (i *index) add(v, id value.Value) {
	if v.IsAbsent() {
		return
	}
	ids, ok := i.entries[v.Key()]
	if !ok {
		ids = make(map[string]value.Value)
		i.entries[v.Key()] = ids
	}
	ids[id.Key()] = id
}

func (i *index) remove(v, id value.Value) {
	ids, ok := i.entries[v.Key()]
	if !ok {
		return
	}
	delete(ids, id.Key())
	if len(ids) == 0 {
		delete(i.entries, v.Key())
	}
}

// get returns the identifiers of the records holding v in no particular order.
func (i *index) get(v value.Value) []value.Value {
	ids := i.entries[v.Key()]
	out := make([]value.Value, 0, len(ids))
	for _, id := range ids {
		out = append(out, id)
	}
	return out
}
