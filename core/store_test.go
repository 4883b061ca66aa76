package core

import (
	"fmt"
	"sync"
	"testing"

	"github.com/nasdf/capyql/fault"
	"github.com/nasdf/capyql/object"
	"github.com/nasdf/capyql/schema"
	"github.com/nasdf/capyql/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, key value.KeyKind) *Store {
	s, err := schema.New("User", key,
		schema.Field{Name: "name", Type: value.TypeString, Sortable: true},
		schema.Field{Name: "role", Type: value.TypeString, Indexed: true},
		schema.Field{Name: "order", Type: value.TypeInt, Indexed: true, Sortable: true},
	)
	require.NoError(t, err)
	return NewStore(s, nil)
}

func collect(it *RecordIterator) []object.Record {
	var out []object.Record
	for !it.Done() {
		out = append(out, it.Next())
	}
	return out
}

func TestCreateAssignsSequence(t *testing.T) {
	store := newTestStore(t, value.KeySequence)

	a, err := store.Create(map[string]any{"name": "John Lennon", "order": "2"})
	require.NoError(t, err)
	b, err := store.Create(nil)
	require.NoError(t, err)

	assert.Equal(t, value.Int(1), a.ID())
	assert.Equal(t, value.Int(2), b.ID())
	assert.Equal(t, value.Int(2), a.Get("order"))
	assert.True(t, a.Get("role").IsAbsent())
	assert.Equal(t, 2, store.Count())
}

func TestSequenceNeverReused(t *testing.T) {
	store := newTestStore(t, value.KeySequence)

	a, err := store.Create(nil)
	require.NoError(t, err)
	require.True(t, store.Delete(a.ID()))

	b, err := store.Create(nil)
	require.NoError(t, err)
	assert.Equal(t, value.Int(2), b.ID())
	assert.Equal(t, int64(3), store.Sequence())
}

func TestCreateAssignsUUID(t *testing.T) {
	store := newTestStore(t, value.KeyUUID)

	rec, err := store.Create(map[string]any{"name": "Ringo Starr"})
	require.NoError(t, err)

	id, ok := rec.ID().AsString()
	require.True(t, ok)
	assert.Len(t, id, 36)

	found, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, rec, found)
}

func TestCreateValidation(t *testing.T) {
	store := newTestStore(t, value.KeySequence)
	inputs := map[string]map[string]any{
		"assigned id": {"id": 7},
		"uncoercible": {"order": "first"},
	}
	for name, input := range inputs {
		_, err := store.Create(input)
		assert.ErrorIs(t, err, fault.ErrValidation, name)

		var verr *fault.ValidationError
		require.ErrorAs(t, err, &verr, name)
		assert.Equal(t, "User", verr.Collection, name)
	}
	assert.Equal(t, 0, store.Count())
	assert.Equal(t, int64(1), store.Sequence())
}

func TestCreateDropsUndeclaredFields(t *testing.T) {
	store := newTestStore(t, value.KeySequence)

	rec, err := store.Create(map[string]any{"name": "John Lennon", "mail": "john@b3atl3s.co.uk"})
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, rec.Names())
	assert.False(t, rec.Has("mail"))

	found, ok := store.Get(rec.ID())
	require.True(t, ok)
	assert.Equal(t, rec, found)
	assert.Equal(t, 1, store.Count())
}

func TestCreateRequiredField(t *testing.T) {
	s, err := schema.New("Account", value.KeySequence,
		schema.Field{Name: "email", Type: value.TypeString, Required: true},
	)
	require.NoError(t, err)
	store := NewStore(s, nil)

	_, err = store.Create(map[string]any{"email": nil})
	assert.ErrorIs(t, err, fault.ErrValidation)

	_, err = store.Create(map[string]any{"email": "paul@b3atl3s.co.uk"})
	assert.NoError(t, err)
}

func TestGetCanonicalizesID(t *testing.T) {
	store := newTestStore(t, value.KeySequence)
	rec, err := store.Create(map[string]any{"name": "Pete Best"})
	require.NoError(t, err)

	for _, id := range []any{1, int64(1), "1", 1.0, value.Int(1)} {
		found, ok := store.Get(id)
		require.True(t, ok, "id %#v", id)
		assert.Equal(t, rec, found)
	}
	_, ok := store.Get(42)
	assert.False(t, ok)
	_, ok = store.Get("one")
	assert.False(t, ok)
}

func TestScanIsSnapshot(t *testing.T) {
	store := newTestStore(t, value.KeySequence)
	for i := range 3 {
		_, err := store.Create(map[string]any{"order": i})
		require.NoError(t, err)
	}

	it := store.Scan()
	_, err := store.Create(map[string]any{"order": 9})
	require.NoError(t, err)
	store.Delete(1)

	assert.Equal(t, 3, it.Len())
	records := collect(it)
	assert.Equal(t, value.Int(1), records[0].ID())
	assert.Equal(t, value.Int(3), records[2].ID())

	assert.Len(t, collect(store.Scan()), 3)
}

func TestScanUsesIdentifierOrder(t *testing.T) {
	store := newTestStore(t, value.KeyUUID)
	for range 20 {
		_, err := store.Create(nil)
		require.NoError(t, err)
	}
	records := collect(store.Scan())
	for i := 1; i < len(records); i++ {
		assert.Negative(t, value.Compare(records[i-1].ID(), records[i].ID()))
	}
}

func TestLookup(t *testing.T) {
	store := newTestStore(t, value.KeySequence)
	for _, role := range []any{"lead", "drums", "lead", nil} {
		_, err := store.Create(map[string]any{"role": role})
		require.NoError(t, err)
	}

	it, ok := store.Lookup("role", value.String("lead"))
	require.True(t, ok)
	records := collect(it)
	require.Len(t, records, 2)
	assert.Equal(t, value.Int(1), records[0].ID())
	assert.Equal(t, value.Int(3), records[1].ID())

	store.Delete(3)
	records = collect(must(store.Lookup("role", value.String("lead"))))
	assert.Len(t, records, 1)

	records = collect(must(store.Lookup("id", value.Int(2))))
	require.Len(t, records, 1)
	assert.Equal(t, value.String("drums"), records[0].Get("role"))

	_, ok = store.Lookup("name", value.String("x"))
	assert.False(t, ok)
}

func TestDeleteFunc(t *testing.T) {
	store := newTestStore(t, value.KeySequence)
	for i := range 6 {
		_, err := store.Create(map[string]any{"order": i})
		require.NoError(t, err)
	}
	n := store.DeleteFunc(func(rec object.Record) bool {
		o, _ := rec.Get("order").AsInt()
		return o%2 == 0
	})
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, store.Count())

	it, ok := store.Lookup("order", value.Int(2))
	require.True(t, ok)
	assert.True(t, it.Done())
}

func TestRestore(t *testing.T) {
	store := newTestStore(t, value.KeySequence)
	err := store.Restore([]object.Record{
		object.New(value.Int(4), map[string]value.Value{"role": value.String("lead")}),
		object.New(value.Int(2), map[string]value.Value{"order": value.Float(3)}),
	}, 6)
	require.NoError(t, err)

	assert.Equal(t, int64(6), store.Sequence())
	rec, ok := store.Get(2)
	require.True(t, ok)
	assert.Equal(t, value.Int(3), rec.Get("order"))

	records := collect(must(store.Lookup("role", value.String("lead"))))
	require.Len(t, records, 1)

	created, err := store.Create(nil)
	require.NoError(t, err)
	assert.Equal(t, value.Int(6), created.ID())
}

func TestRestoreErrors(t *testing.T) {
	store := newTestStore(t, value.KeySequence)
	_, err := store.Create(nil)
	require.NoError(t, err)

	batches := map[string][]object.Record{
		"existing id":  {object.New(value.Int(1), nil)},
		"duplicate id": {object.New(value.Int(5), nil), object.New(value.Int(5), nil)},
		"invalid id":   {object.New(value.String("x"), nil)},
		"uncoercible":  {object.New(value.Int(7), map[string]value.Value{"order": value.String("x")})},
	}
	for name, records := range batches {
		err := store.Restore(records, 0)
		assert.ErrorIs(t, err, fault.ErrValidation, name)
	}
	assert.Equal(t, 1, store.Count())
}

func TestRestoreDropsUndeclaredFields(t *testing.T) {
	store := newTestStore(t, value.KeySequence)

	err := store.Restore([]object.Record{
		object.New(value.Int(3), map[string]value.Value{"name": value.String("Paul McCartney"), "mail": value.String("paul@b3atl3s.co.uk")}),
	}, 0)
	require.NoError(t, err)

	rec, ok := store.Get(3)
	require.True(t, ok)
	assert.Equal(t, []string{"name"}, rec.Names())
}

func TestConcurrentCreate(t *testing.T) {
	store := newTestStore(t, value.KeySequence)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Create(map[string]any{"name": fmt.Sprintf("user %d", i)})
			assert.NoError(t, err)
			store.Scan()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, store.Count())
	assert.Equal(t, int64(51), store.Sequence())
}

func must(it *RecordIterator, ok bool) *RecordIterator {
	if !ok {
		panic("field is not indexed")
	}
	return it
}
