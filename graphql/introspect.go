package graphql

import (
	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/introspection"
	"github.com/vektah/gqlparser/v2/ast"
)

func (r *request) introspectQuerySchema(field graphql.CollectedField) (any, error) {
	return r.introspectSchema(introspection.WrapSchema(r.schema), field.SelectionSet)
}

func (r *request) introspectQueryType(field graphql.CollectedField) (any, error) {
	name, _ := r.arguments(field)["name"].(string)
	def, ok := r.schema.Types[name]
	if !ok {
		return nil, nil
	}
	return r.introspectType(introspection.WrapTypeFromDef(r.schema, def), field.SelectionSet)
}

func (r *request) introspectSchema(obj *introspection.Schema, sel ast.SelectionSet) (any, error) {
	return r.resolveObject(sel, "__Schema", func(field graphql.CollectedField) (any, error) {
		switch field.Name {
		case "description":
			return obj.Description(), nil
		case "types":
			types := obj.Types()
			return introspectList(types, func(i int) (any, error) {
				return r.introspectType(&types[i], field.SelectionSet)
			})
		case "queryType":
			return r.introspectType(obj.QueryType(), field.SelectionSet)
		case "mutationType":
			return r.introspectType(obj.MutationType(), field.SelectionSet)
		case "subscriptionType":
			return r.introspectType(obj.SubscriptionType(), field.SelectionSet)
		case "directives":
			directives := obj.Directives()
			return introspectList(directives, func(i int) (any, error) {
				return r.introspectDirective(directives[i], field.SelectionSet)
			})
		default:
			return nil, nil
		}
	})
}

func (r *request) introspectType(obj *introspection.Type, sel ast.SelectionSet) (any, error) {
	if obj == nil {
		return nil, nil
	}
	return r.resolveObject(sel, "__Type", func(field graphql.CollectedField) (any, error) {
		switch field.Name {
		case "kind":
			return obj.Kind(), nil
		case "name":
			return obj.Name(), nil
		case "description":
			return obj.Description(), nil
		case "specifiedByURL":
			return obj.SpecifiedByURL(), nil
		case "fields":
			deprecated, _ := r.arguments(field)["includeDeprecated"].(bool)
			fields := obj.Fields(deprecated)
			if fields == nil {
				return nil, nil
			}
			return introspectList(fields, func(i int) (any, error) {
				return r.introspectField(&fields[i], field.SelectionSet)
			})
		case "interfaces":
			return r.introspectTypes(obj.Interfaces(), field.SelectionSet)
		case "possibleTypes":
			return r.introspectTypes(obj.PossibleTypes(), field.SelectionSet)
		case "enumValues":
			deprecated, _ := r.arguments(field)["includeDeprecated"].(bool)
			values := obj.EnumValues(deprecated)
			if values == nil {
				return nil, nil
			}
			return introspectList(values, func(i int) (any, error) {
				return r.introspectEnumValue(values[i], field.SelectionSet)
			})
		case "inputFields":
			inputs := obj.InputFields()
			if inputs == nil {
				return nil, nil
			}
			return r.introspectInputValues(inputs, field.SelectionSet)
		case "ofType":
			return r.introspectType(obj.OfType(), field.SelectionSet)
		default:
			return nil, nil
		}
	})
}

func (r *request) introspectTypes(obj []introspection.Type, sel ast.SelectionSet) (any, error) {
	if obj == nil {
		return nil, nil
	}
	return introspectList(obj, func(i int) (any, error) {
		return r.introspectType(&obj[i], sel)
	})
}

func (r *request) introspectField(obj *introspection.Field, sel ast.SelectionSet) (any, error) {
	return r.resolveObject(sel, "__Field", func(field graphql.CollectedField) (any, error) {
		switch field.Name {
		case "name":
			return obj.Name, nil
		case "description":
			return obj.Description(), nil
		case "args":
			return r.introspectInputValues(obj.Args, field.SelectionSet)
		case "type":
			return r.introspectType(obj.Type, field.SelectionSet)
		case "isDeprecated":
			return obj.IsDeprecated(), nil
		case "deprecationReason":
			return obj.DeprecationReason(), nil
		default:
			return nil, nil
		}
	})
}

func (r *request) introspectInputValues(obj []introspection.InputValue, sel ast.SelectionSet) (any, error) {
	return introspectList(obj, func(i int) (any, error) {
		return r.resolveObject(sel, "__InputValue", func(field graphql.CollectedField) (any, error) {
			switch field.Name {
			case "name":
				return obj[i].Name, nil
			case "description":
				return obj[i].Description(), nil
			case "type":
				return r.introspectType(obj[i].Type, field.SelectionSet)
			case "defaultValue":
				return obj[i].DefaultValue, nil
			default:
				return nil, nil
			}
		})
	})
}

func (r *request) introspectEnumValue(obj introspection.EnumValue, sel ast.SelectionSet) (any, error) {
	return r.resolveObject(sel, "__EnumValue", func(field graphql.CollectedField) (any, error) {
		switch field.Name {
		case "name":
			return obj.Name, nil
		case "description":
			return obj.Description(), nil
		case "isDeprecated":
			return obj.IsDeprecated(), nil
		case "deprecationReason":
			return obj.DeprecationReason(), nil
		default:
			return nil, nil
		}
	})
}

func (r *request) introspectDirective(obj introspection.Directive, sel ast.SelectionSet) (any, error) {
	return r.resolveObject(sel, "__Directive", func(field graphql.CollectedField) (any, error) {
		switch field.Name {
		case "name":
			return obj.Name, nil
		case "description":
			return obj.Description(), nil
		case "locations":
			return obj.Locations, nil
		case "args":
			return r.introspectInputValues(obj.Args, field.SelectionSet)
		case "isRepeatable":
			return obj.IsRepeatable, nil
		default:
			return nil, nil
		}
	})
}

func introspectList[T any](list []T, resolve func(i int) (any, error)) ([]any, error) {
	result := make([]any, len(list))
	for i := range list {
		res, err := resolve(i)
		if err != nil {
			return nil, err
		}
		result[i] = res
	}
	return result, nil
}
