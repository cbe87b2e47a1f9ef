// Package domainerr carries the error taxonomy shared by every core
// component. Validation, NotFound and PreconditionFailed errors propagate
// unchanged through all layers; only store failures get re-wrapped with
// operation context on the way up.
package domainerr

import (
	"errors"
	"fmt"
)

// Class identifies how a caller should treat an error.
type Class string

const (
	ClassValidation         Class = "VALIDATION"
	ClassNotFound           Class = "NOT_FOUND"
	ClassPreconditionFailed Class = "PRECONDITION_FAILED"
	ClassStoreFailure       Class = "STORE_FAILURE"
)

// Error is a classified domain error. Cause is only set for store failures.
type Error struct {
	Class   Class
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Validation(format string, args ...any) *Error {
	return &Error{Class: ClassValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(typeName, id string) *Error {
	return &Error{Class: ClassNotFound, Message: fmt.Sprintf("%s %q not found", typeName, id)}
}

// Precondition reports an operation blocked by an unmet threshold or an
// unsupported capability. The message must name the specific condition.
func Precondition(format string, args ...any) *Error {
	return &Error{Class: ClassPreconditionFailed, Message: fmt.Sprintf(format, args...)}
}

// Store wraps an unexpected failure from the graph store with a stable
// "<op> <type>" prefix so logs identify the failing operation.
func Store(op, typeName string, cause error) *Error {
	return &Error{
		Class:   ClassStoreFailure,
		Message: fmt.Sprintf("%s %s", op, typeName),
		Cause:   cause,
	}
}

// ClassOf returns the class of err, or ClassStoreFailure for errors that
// did not originate in this taxonomy.
func ClassOf(err error) Class {
	var de *Error
	if errors.As(err, &de) {
		return de.Class
	}
	return ClassStoreFailure
}

func Is(err error, class Class) bool {
	return ClassOf(err) == class
}
