package graphql

import (
	"context"
	"errors"
	"fmt"

	"github.com/nasdf/capyql"
	"github.com/nasdf/capyql/fault"
	"github.com/nasdf/capyql/object"
	"github.com/nasdf/capyql/query"
	"github.com/nasdf/capyql/value"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

func (r *request) executeQuery(ctx context.Context, sel ast.SelectionSet) (map[string]any, error) {
	return r.resolveObject(sel, "Query", func(field graphql.CollectedField) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			res any
			err error
		)
		switch field.Name {
		case "__schema":
			res, err = r.introspectQuerySchema(field)
		case "__type":
			res, err = r.introspectQueryType(field)
		default:
			res, err = r.queryRoot(field)
		}
		if err != nil {
			return nil, gqlerror.List{fieldError(ast.Path{ast.PathName(field.Alias)}, err)}
		}
		return res, nil
	})
}

func (r *request) queryRoot(field graphql.CollectedField) (any, error) {
	op, ok := r.operations[field.Name]
	if !ok {
		return nil, fmt.Errorf("unsupported query %s", field.Name)
	}
	col, err := r.db.Collection(op.collection)
	if err != nil {
		return nil, err
	}
	args := r.arguments(field)
	switch op.prefix {
	case findOperationPrefix:
		return r.queryFind(col, args, field)
	case listOperationPrefix:
		return r.queryList(col, args, field)
	case firstOperationPrefix:
		return r.queryFirst(col, args, field)
	case countOperationPrefix:
		return col.Count(whereArgument(args))
	case existsOperationPrefix:
		return col.Exists(args["id"]), nil
	default:
		return nil, fmt.Errorf("unsupported query %s", field.Name)
	}
}

func (r *request) queryFind(col *capyql.Collection, args map[string]any, field graphql.CollectedField) (any, error) {
	rec, err := col.FindByID(args["id"])
	if errors.Is(err, fault.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.resolveRecord(col.Name(), rec, field.SelectionSet)
}

func (r *request) queryList(col *capyql.Collection, args map[string]any, field graphql.CollectedField) (any, error) {
	d, err := r.descriptor(col.Name(), args, field.SelectionSet)
	if err != nil {
		return nil, err
	}
	records, err := col.Find(d)
	if err != nil {
		return nil, err
	}
	result := make([]any, len(records))
	for i, rec := range records {
		res, err := r.resolveRecord(col.Name(), rec, field.SelectionSet)
		if err != nil {
			return nil, err
		}
		result[i] = res
	}
	return result, nil
}

func (r *request) queryFirst(col *capyql.Collection, args map[string]any, field graphql.CollectedField) (any, error) {
	d, err := r.descriptor(col.Name(), args, field.SelectionSet)
	if err != nil {
		return nil, err
	}
	rec, err := col.FindOne(d)
	if errors.Is(err, fault.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.resolveRecord(col.Name(), rec, field.SelectionSet)
}

// descriptor converts the arguments of a list field into a query descriptor.
//
// Only the fields in the selection set are fetched.
func (r *request) descriptor(typeName string, args map[string]any, sel ast.SelectionSet) (query.Descriptor, error) {
	limit, err := intArgument(args, "limit")
	if err != nil {
		return query.Descriptor{}, err
	}
	skip, err := intArgument(args, "skip")
	if err != nil {
		return query.Descriptor{}, err
	}
	return query.Descriptor{
		Where:  whereArgument(args),
		Order:  orderArgument(args),
		Limit:  limit,
		Skip:   skip,
		Fields: query.Names(r.selectedFields(typeName, sel)...),
	}, nil
}

func (r *request) selectedFields(typeName string, sel ast.SelectionSet) []string {
	var names []string
	for _, field := range r.collectFields(sel, typeName) {
		if field.Name == "__typename" || field.Name == value.IDField {
			continue
		}
		names = append(names, field.Name)
	}
	return names
}

// resolveRecord returns the selected fields of a record.
//
// Identifiers are returned in their string form and absent fields are null.
func (r *request) resolveRecord(typeName string, rec object.Record, sel ast.SelectionSet) (map[string]any, error) {
	return r.resolveObject(sel, typeName, func(field graphql.CollectedField) (any, error) {
		if field.Name == value.IDField {
			return rec.ID().String(), nil
		}
		return rec.Get(field.Name).Interface(), nil
	})
}

func whereArgument(args map[string]any) map[string]any {
	where, _ := args["where"].(map[string]any)
	return where
}

func orderArgument(args map[string]any) query.OrderBy {
	switch t := args["order"].(type) {
	case string:
		return query.OrderBy{t}
	case []any:
		out := make(query.OrderBy, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func intArgument(args map[string]any, name string) (int, error) {
	arg, ok := args[name]
	if !ok || arg == nil {
		return 0, nil
	}
	v, err := value.Coerce(arg, value.TypeInt)
	if err != nil {
		return 0, fmt.Errorf("argument %s: %w", name, err)
	}
	i, _ := v.AsInt()
	return int(i), nil
}
