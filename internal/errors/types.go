package errors

import "errors"

// Schema conflict reasons. SchemaConflictError unwraps to one of these.
var (
	ErrTableNotFound  = errors.New("table does not exist")
	ErrTableExists    = errors.New("table already exists")
	ErrColumnExists   = errors.New("column already exists")
	ErrColumnNotFound = errors.New("column does not exist")
)

// Constraint kinds reported by ConstraintViolationError
const (
	ConstraintUnique     = "unique"
	ConstraintForeignKey = "foreign_key"
	ConstraintNotNull    = "not_null"
)

// ValidationError represents a validation error with a field and message
type ValidationError struct {
	Field   string
	Message string
}

// SchemaConflictError reports a schema change that does not match the live schema
type SchemaConflictError struct {
	Table  string
	Column string
	Reason error
}

// ConstraintViolationError reports a write rejected by a schema constraint
type ConstraintViolationError struct {
	Constraint string
	Cause      error
}
