package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nasdf/capyql/fault"
	"github.com/nasdf/capyql/object"
	"github.com/nasdf/capyql/schema"
	"github.com/nasdf/capyql/value"
)

const (
	ascending  = "ASC"
	descending = "DESC"
)

// Key is a single sort key.
type Key struct {
	Field string
	Desc  bool
}

func (k Key) String() string {
	if k.Desc {
		return k.Field + " " + descending
	}
	return k.Field + " " + ascending
}

// Order is an ordered list of sort keys.
//
// The empty Order keeps the input order.
type Order []Key

// ParseOrder parses the order clauses into an Order.
//
// Every clause may contain several comma separated keys. A key is a field
// name optionally followed by ASC or DESC. Only the identifier and fields
// declared sortable can be ordered by.
func ParseOrder(s *schema.Schema, clauses ...string) (Order, error) {
	var out Order
	for _, clause := range clauses {
		for _, part := range strings.Split(clause, ",") {
			tokens := strings.Fields(part)
			if len(tokens) == 0 {
				continue
			}
			key, err := parseKey(s, tokens)
			if err != nil {
				return nil, err
			}
			out = append(out, key)
		}
	}
	return out, nil
}

func parseKey(s *schema.Schema, tokens []string) (Key, error) {
	errorf := func(field, format string, args ...any) error {
		return &fault.InvalidQueryError{
			Collection: s.Name,
			Clause:     "order",
			Field:      field,
			Reason:     fmt.Sprintf(format, args...),
		}
	}
	key := Key{Field: tokens[0]}
	if len(tokens) > 2 {
		return Key{}, errorf(key.Field, "unexpected %q", strings.Join(tokens[2:], " "))
	}
	if len(tokens) == 2 {
		switch strings.ToUpper(tokens[1]) {
		case ascending:
		case descending:
			key.Desc = true
		default:
			return Key{}, errorf(key.Field, "unknown direction %q", tokens[1])
		}
	}
	if key.Field != value.IDField {
		if _, ok := s.Field(key.Field); !ok {
			return Key{}, errorf(key.Field, "unknown field")
		}
	}
	if !s.IsSortable(key.Field) {
		return Key{}, errorf(key.Field, "field is not sortable")
	}
	return key, nil
}

// Compare compares two records by every key in turn.
//
// A descending key reverses the whole comparison including the placement of
// null and absent values.
func (o Order) Compare(a, b object.Record) int {
	for _, k := range o {
		c := value.Compare(a.Get(k.Field), b.Get(k.Field))
		if k.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// Sort sorts the records in place. Records with equal keys keep their relative order.
func (o Order) Sort(records []object.Record) {
	if len(o) == 0 {
		return
	}
	slices.SortStableFunc(records, o.Compare)
}
