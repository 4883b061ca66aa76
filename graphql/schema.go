package graphql

import (
	"bytes"
	_ "embed"
	"errors"
	"slices"
	"text/template"

	"github.com/nasdf/capyql/filter"
	"github.com/nasdf/capyql/schema"
	"github.com/nasdf/capyql/value"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphql
var schemaTemplateSource string

var schemaTemplate = template.Must(template.New("schema.graphql").
	Funcs(template.FuncMap{"operand": operandType}).
	Parse(schemaTemplateSource))

// filterInput is a generated input type holding the operators of one scalar.
type filterInput struct {
	Name      string
	Scalar    string
	Operators []string
}

// schemaData is the data rendered by the schema template.
type schemaData struct {
	Filters []filterInput
	Schemas []*schema.Schema
}

func filterInputs() []filterInput {
	operators := func(t value.Type) []string {
		return slices.DeleteFunc(slices.Clone(filter.Operators), func(op string) bool {
			return !filter.Supports(op, t)
		})
	}
	// identifiers are compared as Int or String depending on the key kind
	inputs := []filterInput{{Name: "IDFilter", Scalar: "ID", Operators: operators(value.TypeInt)}}
	for _, t := range []value.Type{value.TypeString, value.TypeInt, value.TypeFloat, value.TypeBoolean} {
		inputs = append(inputs, filterInput{
			Name:      t.String() + "Filter",
			Scalar:    t.String(),
			Operators: operators(t),
		})
	}
	return inputs
}

// operandType returns the GraphQL type of an operator operand.
func operandType(op, scalar string) string {
	switch op {
	case "in", "nin":
		return "[" + scalar + "]"
	case "between":
		return "[" + scalar + "!]"
	default:
		return scalar
	}
}

const (
	findOperationPrefix   = "find"
	listOperationPrefix   = "list"
	firstOperationPrefix  = "first"
	countOperationPrefix  = "count"
	existsOperationPrefix = "exists"
	createOperationPrefix = "create"
	deleteOperationPrefix = "delete"
)

// operation is a root field bound to a collection.
type operation struct {
	prefix     string
	collection string
}

// GenerateSchema creates the GraphQL schema exposing every collection in the set.
func GenerateSchema(set *schema.Set) (*ast.Schema, error) {
	if len(set.Schemas()) == 0 {
		return nil, errors.New("schema does not declare any collections")
	}
	var out bytes.Buffer
	data := schemaData{
		Filters: filterInputs(),
		Schemas: set.Schemas(),
	}
	if err := schemaTemplate.Execute(&out, data); err != nil {
		return nil, err
	}
	s, err := gqlparser.LoadSchema(&ast.Source{
		Name:  "schema.graphql",
		Input: out.String(),
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// rootOperations maps the names of root fields to their operations.
func rootOperations(set *schema.Set) map[string]operation {
	prefixes := []string{
		findOperationPrefix,
		listOperationPrefix,
		firstOperationPrefix,
		countOperationPrefix,
		existsOperationPrefix,
		createOperationPrefix,
		deleteOperationPrefix,
	}
	ops := make(map[string]operation)
	for _, s := range set.Schemas() {
		for _, p := range prefixes {
			ops[p+s.Name] = operation{prefix: p, collection: s.Name}
		}
	}
	return ops
}
