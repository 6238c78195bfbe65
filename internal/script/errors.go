package script

import (
	"fmt"

	errors "gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrInvalidOperation is returned for malformed compact operations.
	ErrInvalidOperation = errors.NewKind("invalid operation %q: %s")

	// ErrUnsupportedFormat is returned when a script file extension is not
	// one of .yaml, .yml, .json or .jsonc.
	ErrUnsupportedFormat = errors.NewKind("unsupported script format %q (valid: .yaml, .yml, .json, .jsonc)")
)

// ValidationError represents a specific problem found in a script.
type ValidationError struct {
	// Field is the path of the offending field, e.g. "operations[2].right".
	Field string

	// Message describes what's wrong with the field value.
	Message string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("script validation error: %s: %s", e.Field, e.Message)
}
