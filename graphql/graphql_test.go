package graphql

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/nasdf/capyql"
	"github.com/nasdf/capyql/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/cases
var casesFS embed.FS

type testCase struct {
	// Description is a simple description for the test case.
	Description string
	// Schema is the GraphQL SDL used to open the DB.
	Schema string
	// Data contains records created before any operation runs.
	Data map[string][]map[string]any
	// Operations is a list of all GraphQL operations to run in this test case.
	Operations []testCaseOperation
}

type testCaseOperation struct {
	// Params contains the GraphQL parameters for this operation.
	Params QueryParams
	// Response contains the expected JSON response.
	Response string
}

func (tc testCase) run(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := capyql.Open(tc.Schema)
	require.NoError(t, err, "failed to open db")

	for name, records := range tc.Data {
		col, err := db.Collection(name)
		require.NoError(t, err)
		for _, rec := range records {
			_, err := col.Create(rec)
			require.NoError(t, err)
		}
	}

	exe, err := NewExecutor(db, nil)
	require.NoError(t, err)

	for _, op := range tc.Operations {
		actual, err := json.Marshal(exe.Execute(ctx, op.Params))
		require.NoError(t, err)
		assert.JSONEq(t, op.Response, string(actual), op.Params.Query)
	}
}

func TestCases(t *testing.T) {
	var paths []string
	err := fs.WalkDir(casesFS, "testdata/cases", func(path string, d fs.DirEntry, err error) error {
		if filepath.Ext(path) == ".yaml" {
			paths = append(paths, path)
		}
		return err
	})
	require.NoError(t, err, "failed to walk test cases dir")
	require.NotEmpty(t, paths)

	for _, path := range paths {
		data, err := fs.ReadFile(casesFS, path)
		require.NoError(t, err, "failed to read test case")

		var tc testCase
		err = yaml.Unmarshal(data, &tc)
		require.NoError(t, err, "failed to parse test case")

		t.Run(path, tc.run)
	}
}

const usersSchema = `
type User {
  name: String @sort
  email: String @index
}

type Session @key(kind: UUID) {
  token: String!
}
`

func newExecutor(t *testing.T) *Executor {
	db, err := capyql.Open(usersSchema)
	require.NoError(t, err)
	exe, err := NewExecutor(db, nil)
	require.NoError(t, err)
	return exe
}

func TestExecuteInvalidQueryCode(t *testing.T) {
	exe := newExecutor(t)

	res := exe.Execute(context.Background(), QueryParams{
		Query: `{ listUser(order: ["email"]) { id } }`,
	})
	assert.Nil(t, res.Data)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, ast.Path{ast.PathName("listUser")}, res.Errors[0].Path)
	assert.Equal(t, "INVALID_QUERY", res.Errors[0].Extensions["code"])

	res = exe.Execute(context.Background(), QueryParams{
		Query: `{ listUser(where: {name: {like: "J%"}}, limit: -1) { id } }`,
	})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "INVALID_QUERY", res.Errors[0].Extensions["code"])
}

func TestExecuteInvalidDocument(t *testing.T) {
	exe := newExecutor(t)

	res := exe.Execute(context.Background(), QueryParams{Query: `{ listPost { id } }`})
	assert.Nil(t, res.Data)
	assert.NotEmpty(t, res.Errors)

	res = exe.Execute(context.Background(), QueryParams{Query: `query A { countUser } query B { countSession }`})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "operation is not defined", res.Errors[0].Message)

	res = exe.Execute(context.Background(), QueryParams{
		Query:         `query A { countUser } query B { countSession }`,
		OperationName: "B",
	})
	assert.Empty(t, res.Errors)
	assert.Equal(t, map[string]any{"countSession": 0}, res.Data)
}

func TestExecuteMissingVariable(t *testing.T) {
	exe := newExecutor(t)

	res := exe.Execute(context.Background(), QueryParams{
		Query: `query Find($id: ID!) { findUser(id: $id) { id } }`,
	})
	assert.Nil(t, res.Data)
	assert.NotEmpty(t, res.Errors)
}

func TestExecuteUUIDKeys(t *testing.T) {
	exe := newExecutor(t)
	ctx := context.Background()

	res := exe.Execute(ctx, QueryParams{
		Query: `mutation { createSession(data: {token: "abc"}) { id token } }`,
	})
	require.Empty(t, res.Errors)

	session := res.Data.(map[string]any)["createSession"].(map[string]any)
	id := session["id"].(string)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, "abc", session["token"])

	res = exe.Execute(ctx, QueryParams{
		Query:     `query Find($id: ID!) { findSession(id: $id) { token } existsSession(id: $id) }`,
		Variables: map[string]any{"id": id},
	})
	require.Empty(t, res.Errors)
	assert.Equal(t, map[string]any{
		"findSession":   map[string]any{"token": "abc"},
		"existsSession": true,
	}, res.Data)
}

func TestExecuteCanceled(t *testing.T) {
	exe := newExecutor(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := exe.Execute(ctx, QueryParams{Query: `{ countUser }`})
	assert.Nil(t, res.Data)
	require.Len(t, res.Errors, 1)
	assert.ErrorIs(t, res.Errors[0], context.Canceled)
	assert.Nil(t, res.Errors[0].Extensions)
}

func TestErrorCode(t *testing.T) {
	cases := map[string]error{
		"INVALID_QUERY":        &fault.InvalidQueryError{Collection: "User", Clause: "order", Field: "email", Reason: "field is not sortable"},
		"VALIDATION_FAILED":    &fault.ValidationError{Collection: "User", Field: "name", Err: errors.New("bad")},
		"NOT_FOUND":            fmt.Errorf("User 1: %w", fault.ErrNotFound),
		"COLLECTION_NOT_FOUND": fmt.Errorf("%w: Post", fault.ErrCollectionNotFound),
		"":                     errors.New("boom"),
	}
	for code, err := range cases {
		assert.Equal(t, code, errorCode(err), err.Error())
	}
}

func TestNewQueryResponse(t *testing.T) {
	res := NewQueryResponse(map[string]any{"countUser": 1}, nil)
	assert.Empty(t, res.Errors)

	res = NewQueryResponse(nil, errors.New("boom"))
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "boom", res.Errors[0].Message)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"errors": [{"message": "boom"}]}`, string(data))
}
