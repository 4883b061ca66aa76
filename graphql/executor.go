package graphql

import (
	"context"
	"log/slog"

	"github.com/nasdf/capyql"
	"github.com/vektah/gqlparser/v2/ast"
)

// Executor runs GraphQL operations against a DB.
type Executor struct {
	db         *capyql.DB
	schema     *ast.Schema
	operations map[string]operation
	logger     *slog.Logger
}

// NewExecutor generates the GraphQL schema of the DB and returns an Executor for it.
func NewExecutor(db *capyql.DB, logger *slog.Logger) (*Executor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s, err := GenerateSchema(db.Schema())
	if err != nil {
		return nil, err
	}
	return &Executor{
		db:         db,
		schema:     s,
		operations: rootOperations(db.Schema()),
		logger:     logger,
	}, nil
}

// Schema returns the generated GraphQL schema.
func (e *Executor) Schema() *ast.Schema {
	return e.schema
}

// Execute runs the operation described by the params and returns its response.
func (e *Executor) Execute(ctx context.Context, params QueryParams) QueryResponse {
	req, err := e.newRequest(params)
	if err != nil {
		return NewQueryResponse(nil, err)
	}
	e.logger.Debug("executing operation", "operation", req.operation.Operation, "name", req.operation.Name)

	data, err := req.execute(ctx)
	if err != nil {
		return NewQueryResponse(nil, err)
	}
	return NewQueryResponse(data, nil)
}
