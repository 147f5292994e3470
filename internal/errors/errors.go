// Package errors defines the structured errors returned by board edits.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents an edit error code.
type ErrorCode string

const (
	ErrPrecondition      ErrorCode = "PRECONDITION"       // caller asked for something the board cannot do
	ErrNotFound          ErrorCode = "NOT_FOUND"          // referenced item does not exist
	ErrMalformedSnapshot ErrorCode = "MALFORMED_SNAPSHOT" // clipboard content is inconsistent
	ErrInvalidState      ErrorCode = "INVALID_STATE"      // illegal command lifecycle transition
	ErrInternal          ErrorCode = "INTERNAL"
)

// EditError represents a structured error with code and details.
type EditError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *EditError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewPrecondition creates an error for a violated precondition.
func NewPrecondition(format string, args ...any) *EditError {
	return &EditError{
		Code:    ErrPrecondition,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewNotFound creates an error for a missing board item.
func NewNotFound(kind, id string) *EditError {
	return &EditError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", kind, id),
		Details: map[string]any{"kind": kind, "id": id},
	}
}

// NewMalformedSnapshot creates an error for inconsistent clipboard content.
func NewMalformedSnapshot(format string, args ...any) *EditError {
	return &EditError{
		Code:    ErrMalformedSnapshot,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewInvalidState creates an error for an operation that is illegal in the
// current state, e.g. undoing a command that was never executed.
func NewInvalidState(op, state string) *EditError {
	return &EditError{
		Code:    ErrInvalidState,
		Message: fmt.Sprintf("cannot %s in state %s", op, state),
		Details: map[string]any{"op": op, "state": state},
	}
}

// NewInternal creates an error for unexpected internal failures.
func NewInternal(err error) *EditError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &EditError{
		Code:    ErrInternal,
		Message: msg,
	}
}

// Is checks if err, or any error it wraps, is an EditError with the given code.
func Is(err error, code ErrorCode) bool {
	var eErr *EditError
	if stderrors.As(err, &eErr) {
		return eErr.Code == code
	}
	return false
}
