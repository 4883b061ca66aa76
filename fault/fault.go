// Package fault contains the errors returned by capyql.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by single record lookups that match nothing.
	ErrNotFound = errors.New("record not found")

	// ErrCollectionNotFound is returned when a collection name is not part of the schema.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrSchema indicates that a schema declaration is invalid.
	ErrSchema = errors.New("invalid schema")

	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidQuery matches every *InvalidQueryError.
	ErrInvalidQuery = errors.New("invalid query")
)

// ValidationError is returned when a value cannot be written to a field.
type ValidationError struct {
	Collection string
	Field      string
	Value      any
	Err        error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: cannot store %v: %v", e.Collection, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s.%s: cannot store %v", e.Collection, e.Field, e.Value)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// InvalidQueryError is returned when a query descriptor is malformed.
type InvalidQueryError struct {
	Collection string
	// Clause is the descriptor option that failed: where, order, fields, limit or skip.
	Clause string
	Field  string
	Reason string
}

func (e *InvalidQueryError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: invalid %s on field %q: %s", e.Collection, e.Clause, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: invalid %s: %s", e.Collection, e.Clause, e.Reason)
}

func (e *InvalidQueryError) Is(target error) bool {
	return target == ErrInvalidQuery
}

// Schemaf returns an error wrapping ErrSchema.
func Schemaf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSchema, fmt.Sprintf(format, args...))
}
