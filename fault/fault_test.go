package fault

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorIs(t *testing.T) {
	cause := &strconv.NumError{Func: "ParseInt", Num: "abc", Err: strconv.ErrSyntax}
	err := error(&ValidationError{Collection: "User", Field: "order", Value: "abc", Err: cause})

	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, strconv.ErrSyntax)
	assert.NotErrorIs(t, err, ErrInvalidQuery)
	assert.Contains(t, err.Error(), "User.order")
}

func TestInvalidQueryErrorIs(t *testing.T) {
	err := error(&InvalidQueryError{Collection: "User", Clause: "order", Field: "email", Reason: "field is not sortable"})

	var target *InvalidQueryError
	assert.True(t, errors.As(err, &target))
	assert.ErrorIs(t, err, ErrInvalidQuery)
	assert.Equal(t, `User: invalid order on field "email": field is not sortable`, err.Error())
}

func TestSchemaf(t *testing.T) {
	err := Schemaf("duplicate field %s", "name")
	assert.ErrorIs(t, err, ErrSchema)
	assert.Equal(t, "invalid schema: duplicate field name", err.Error())
}
