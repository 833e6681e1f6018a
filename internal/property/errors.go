package property

import (
	"errors"
	"fmt"
	"reflect"
)

// FieldNotFoundError is returned by GetValue when a field cannot be resolved.
type FieldNotFoundError struct {
	// Field is the requested logical field name.
	Field string

	// Record describes the record type; empty for plain maps.
	Record string

	cause error
}

// Error implements the error interface.
func (e *FieldNotFoundError) Error() string {
	if e.Record == "" {
		return fmt.Sprintf("cannot get a value of %q field", e.Field)
	}
	return fmt.Sprintf("cannot get a value of %q field from %q record", e.Field, e.Record)
}

// Unwrap returns the load error that prevented resolution, if any.
func (e *FieldNotFoundError) Unwrap() error {
	return e.cause
}

// IsFieldNotFound reports whether err is a FieldNotFoundError.
// Uses errors.As to handle wrapped errors.
func IsFieldNotFound(err error) bool {
	var fe *FieldNotFoundError
	return errors.As(err, &fe)
}

// describeRecord names the record type for error messages.
func describeRecord(record any) string {
	switch record.(type) {
	case nil, map[string]any:
		return ""
	}
	return reflect.TypeOf(record).String()
}
