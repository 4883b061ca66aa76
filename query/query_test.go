package query

import (
	"testing"

	"github.com/nasdf/capyql/object"
	"github.com/nasdf/capyql/schema"
	"github.com/nasdf/capyql/value"
	"github.com/stretchr/testify/require"
)

func userSchema(t *testing.T) *schema.Schema {
	s, err := schema.New("User", value.KeySequence,
		schema.Field{Name: "name", Type: value.TypeString, Sortable: true},
		schema.Field{Name: "email", Type: value.TypeString, Indexed: true},
		schema.Field{Name: "role", Type: value.TypeString, Indexed: true},
		schema.Field{Name: "order", Type: value.TypeInt, Indexed: true, Sortable: true},
	)
	require.NoError(t, err)
	return s
}

// beatles returns the seed records in identifier order.
func beatles() []object.Record {
	seed := []map[string]value.Value{
		{"name": value.String("John Lennon"), "email": value.String("john@b3atl3s.co.uk"), "role": value.String("lead"), "order": value.Int(2)},
		{"name": value.String("Paul McCartney"), "email": value.String("paul@b3atl3s.co.uk"), "role": value.String("lead"), "order": value.Int(1)},
		{"name": value.String("George Harrison"), "order": value.Int(5)},
		{"name": value.String("Ringo Starr"), "order": value.Int(6)},
		{"name": value.String("Pete Best"), "order": value.Int(4)},
		{"name": value.String("Stuart Sutcliffe"), "order": value.Int(3)},
	}
	out := make([]object.Record, len(seed))
	for i, fields := range seed {
		out[i] = object.New(value.Int(int64(i+1)), fields)
	}
	return out
}

func run(t *testing.T, d Descriptor) []object.Record {
	p, err := Compile(userSchema(t), d)
	require.NoError(t, err)
	return p.Run(newSliceIterator(beatles()))
}

func names(records []object.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i], _ = r.Get("name").AsString()
	}
	return out
}

func orders(records []object.Record) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i], _ = r.Get("order").AsInt()
	}
	return out
}

type sliceIterator struct {
	records []object.Record
}

func newSliceIterator(records []object.Record) *sliceIterator {
	return &sliceIterator{records: records}
}

func (i *sliceIterator) Done() bool {
	return len(i.records) == 0
}

func (i *sliceIterator) Next() object.Record {
	rec := i.records[0]
	i.records = i.records[1:]
	return rec
}
