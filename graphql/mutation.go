package graphql

import (
	"context"
	"fmt"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// executeMutation runs the root fields of a mutation in order.
//
// Execution stops at the first failing field. Changes made by earlier
// fields are kept.
func (r *request) executeMutation(ctx context.Context, sel ast.SelectionSet) (map[string]any, error) {
	return r.resolveObject(sel, "Mutation", func(field graphql.CollectedField) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := r.mutationRoot(field)
		if err != nil {
			return nil, gqlerror.List{fieldError(ast.Path{ast.PathName(field.Alias)}, err)}
		}
		return res, nil
	})
}

func (r *request) mutationRoot(field graphql.CollectedField) (any, error) {
	op, ok := r.operations[field.Name]
	if !ok {
		return nil, fmt.Errorf("unsupported mutation %s", field.Name)
	}
	col, err := r.db.Collection(op.collection)
	if err != nil {
		return nil, err
	}
	args := r.arguments(field)
	switch op.prefix {
	case createOperationPrefix:
		data, _ := args["data"].(map[string]any)
		rec, err := col.Create(data)
		if err != nil {
			return nil, err
		}
		return r.resolveRecord(col.Name(), rec, field.SelectionSet)
	case deleteOperationPrefix:
		return col.DestroyAll(whereArgument(args))
	default:
		return nil, fmt.Errorf("unsupported mutation %s", field.Name)
	}
}
