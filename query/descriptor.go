// Package query compiles query descriptors into evaluation plans.
package query

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Descriptor contains the options of a find operation.
//
// The zero Descriptor selects every record in default order with all fields.
type Descriptor struct {
	// Where is the filter clause. See the filter package for its format.
	Where map[string]any `json:"where,omitempty" yaml:"where,omitempty"`
	// Order is a list of sort keys written as "field", "field ASC" or "field DESC".
	// A single entry may contain several keys separated by commas.
	Order OrderBy `json:"order,omitempty" yaml:"order,omitempty"`
	// Limit is the maximum number of records returned. Zero means no limit.
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty"`
	// Skip is the number of matching records skipped before the limit applies.
	Skip int `json:"skip,omitempty" yaml:"skip,omitempty"`
	// Fields selects the fields of the returned records.
	Fields Fields `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// OrderBy is a list of order clauses.
//
// It decodes from either a single string or a list of strings.
type OrderBy []string

func (o *OrderBy) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return o.set(v)
}

func (o *OrderBy) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return o.set(v)
}

func (o *OrderBy) set(v any) error {
	switch t := v.(type) {
	case nil:
		*o = nil
	case string:
		*o = OrderBy{t}
	case []any:
		out := make(OrderBy, len(t))
		for i, e := range t {
			s, ok := e.(string)
			if !ok {
				return fmt.Errorf("order clause must be a string: %v", e)
			}
			out[i] = s
		}
		*o = out
	default:
		return fmt.Errorf("order must be a string or a list of strings: %v", v)
	}
	return nil
}
