// Package graphql executes GraphQL operations against a capyql.DB.
package graphql

import (
	"errors"

	"github.com/nasdf/capyql/fault"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// QueryParams contains all of the parameters for a query.
type QueryParams struct {
	Query         string         `json:"query" yaml:"query"`
	OperationName string         `json:"operationName,omitempty" yaml:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// QueryResponse contains all of the fields for a response.
type QueryResponse struct {
	Data       any            `json:"data,omitempty"`
	Errors     gqlerror.List  `json:"errors,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// NewQueryResponse returns a new GraphQL compliant response.
func NewQueryResponse(data any, err error) QueryResponse {
	response := QueryResponse{
		Data: data,
	}
	var list gqlerror.List
	var gerr *gqlerror.Error
	switch {
	case err == nil:
	case errors.As(err, &list):
		response.Errors = list
	case errors.As(err, &gerr):
		response.Errors = gqlerror.List{gerr}
	default:
		response.Errors = gqlerror.List{gqlerror.Wrap(err)}
	}
	return response
}

// fieldError returns an error located at the given response path.
//
// Errors from the query engine carry an extension code so clients can
// distinguish invalid queries from rejected writes.
func fieldError(path ast.Path, err error) *gqlerror.Error {
	gerr := gqlerror.WrapPath(path, err)
	if code := errorCode(err); code != "" {
		gerr.Extensions = map[string]any{"code": code}
	}
	return gerr
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, fault.ErrInvalidQuery):
		return "INVALID_QUERY"
	case errors.Is(err, fault.ErrValidation):
		return "VALIDATION_FAILED"
	case errors.Is(err, fault.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, fault.ErrCollectionNotFound):
		return "COLLECTION_NOT_FOUND"
	default:
		return ""
	}
}
