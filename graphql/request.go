package graphql

import (
	"context"

	"github.com/nasdf/capyql"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
)

// request is a single validated operation.
type request struct {
	db         *capyql.DB
	schema     *ast.Schema
	operations map[string]operation
	query      *ast.QueryDocument
	operation  *ast.OperationDefinition
	rawQuery   string
	variables  map[string]any
}

func (e *Executor) newRequest(params QueryParams) (*request, error) {
	query, errs := gqlparser.LoadQuery(e.schema, params.Query)
	if len(errs) > 0 {
		return nil, errs
	}
	var operation *ast.OperationDefinition
	if params.OperationName != "" {
		operation = query.Operations.ForName(params.OperationName)
	} else if len(query.Operations) == 1 {
		operation = query.Operations[0]
	}
	if operation == nil {
		return nil, gqlerror.Errorf("operation is not defined")
	}
	variables, err := validator.VariableValues(e.schema, operation, params.Variables)
	if err != nil {
		return nil, err
	}
	return &request{
		db:         e.db,
		schema:     e.schema,
		operations: e.operations,
		query:      query,
		operation:  operation,
		rawQuery:   params.Query,
		variables:  variables,
	}, nil
}

func (r *request) execute(ctx context.Context) (map[string]any, error) {
	switch r.operation.Operation {
	case ast.Query:
		return r.executeQuery(ctx, r.operation.SelectionSet)
	case ast.Mutation:
		return r.executeMutation(ctx, r.operation.SelectionSet)
	default:
		return nil, gqlerror.Errorf("unsupported operation %s", r.operation.Operation)
	}
}

func (r *request) collectFields(sel ast.SelectionSet, satisfies ...string) []graphql.CollectedField {
	reqCtx := &graphql.OperationContext{
		RawQuery:  r.rawQuery,
		Variables: r.variables,
		Doc:       r.query,
	}
	return graphql.CollectFields(reqCtx, sel, satisfies)
}

// resolveObject builds the result map of an object selection.
//
// The __typename meta field is answered with typeName and every other
// field is answered by resolve.
func (r *request) resolveObject(sel ast.SelectionSet, typeName string, resolve func(field graphql.CollectedField) (any, error)) (map[string]any, error) {
	fields := r.collectFields(sel, typeName)
	result := make(map[string]any, len(fields))
	for _, field := range fields {
		if field.Name == "__typename" {
			result[field.Alias] = typeName
			continue
		}
		res, err := resolve(field)
		if err != nil {
			return nil, err
		}
		result[field.Alias] = res
	}
	return result, nil
}

func (r *request) arguments(field graphql.CollectedField) map[string]any {
	return field.ArgumentMap(r.variables)
}
