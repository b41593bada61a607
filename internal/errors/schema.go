package errors

import (
	"errors"
	"fmt"
)

// SchemaError reports a required column that is absent from an upload
// after alias resolution. Its message is meant to be shown to the user
// as is.
type SchemaError struct {
	Column    string
	Available []string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing column: %s", e.Column)
}

// NewSchemaError creates a missing-column error
func NewSchemaError(column string, available []string) *SchemaError {
	return &SchemaError{
		Column:    column,
		Available: append([]string(nil), available...),
	}
}

// IsSchemaError reports whether err wraps a SchemaError
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// MissingColumn returns the column named by a wrapped SchemaError
func MissingColumn(err error) (string, bool) {
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return schemaErr.Column, true
	}
	return "", false
}
