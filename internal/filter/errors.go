package filter

import (
	"errors"
	"fmt"
)

// ParseError reports a failure of the query-string scanner itself.
// It does not occur for ordinary input; callers treat it as a server error.
type ParseError struct {
	Query string
	cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("scan query string %q: %v", e.Query, e.cause)
}

// Unwrap returns the underlying failure.
func (e *ParseError) Unwrap() error {
	return e.cause
}

// TransformError reports a filter value rejected by its field transform.
type TransformError struct {
	Field string
	Value string
	cause error
}

// Error implements the error interface.
func (e *TransformError) Error() string {
	return fmt.Sprintf("invalid value %q for filter %q: %v", e.Value, e.Field, e.cause)
}

// Unwrap returns the transform's error.
func (e *TransformError) Unwrap() error {
	return e.cause
}

// IsParseError reports whether err is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsTransformError reports whether err is a TransformError.
func IsTransformError(err error) bool {
	var te *TransformError
	return errors.As(err, &te)
}
