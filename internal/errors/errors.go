package errors

import (
	"errors"
	"fmt"
)

// Error method implementation for ValidationError
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Error method implementation for SchemaConflictError
func (e *SchemaConflictError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("schema conflict on %s.%s: %v", e.Table, e.Column, e.Reason)
	}
	return fmt.Sprintf("schema conflict on %s: %v", e.Table, e.Reason)
}

func (e *SchemaConflictError) Unwrap() error {
	return e.Reason
}

// Error method implementation for ConstraintViolationError
func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("%s constraint violated: %v", e.Constraint, e.Cause)
}

func (e *ConstraintViolationError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewSchemaConflict creates a new SchemaConflictError
func NewSchemaConflict(table, column string, reason error) *SchemaConflictError {
	return &SchemaConflictError{
		Table:  table,
		Column: column,
		Reason: reason,
	}
}

// NewConstraintViolation creates a new ConstraintViolationError
func NewConstraintViolation(constraint string, cause error) *ConstraintViolationError {
	return &ConstraintViolationError{
		Constraint: constraint,
		Cause:      cause,
	}
}

// IsConstraint reports whether err is a constraint violation of the given kind.
// An empty kind matches any constraint violation.
func IsConstraint(err error, kind string) bool {
	var cv *ConstraintViolationError
	if !errors.As(err, &cv) {
		return false
	}
	return kind == "" || cv.Constraint == kind
}

// IsSchemaConflict reports whether err is a schema conflict
func IsSchemaConflict(err error) bool {
	var sc *SchemaConflictError
	return errors.As(err, &sc)
}
