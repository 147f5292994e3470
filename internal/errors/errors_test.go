package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestEditError_Error(t *testing.T) {
	err := &EditError{
		Code:    ErrNotFound,
		Message: "via not found: 42",
	}

	expected := "NOT_FOUND: via not found: 42"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("device", "abc")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Details["kind"] != "device" {
		t.Errorf("Details[kind] = %v, want %q", err.Details["kind"], "device")
	}
	if err.Details["id"] != "abc" {
		t.Errorf("Details[id] = %v, want %q", err.Details["id"], "abc")
	}
}

func TestNewInvalidState(t *testing.T) {
	err := NewInvalidState("undo", "new")

	if err.Code != ErrInvalidState {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidState)
	}
	if err.Message != "cannot undo in state new" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewPrecondition(t *testing.T) {
	err := NewPrecondition("trace %d has no segment", 7)

	if err.Code != ErrPrecondition {
		t.Errorf("Code = %q, want %q", err.Code, ErrPrecondition)
	}
	if err.Message != "trace 7 has no segment" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewInternal(t *testing.T) {
	if got := NewInternal(nil).Message; got != "internal error" {
		t.Errorf("Message = %q, want %q", got, "internal error")
	}
	if got := NewInternal(fmt.Errorf("boom")).Message; got != "boom" {
		t.Errorf("Message = %q, want %q", got, "boom")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"direct match", NewMalformedSnapshot("x"), ErrMalformedSnapshot, true},
		{"direct mismatch", NewMalformedSnapshot("x"), ErrNotFound, false},
		{"wrapped", fmt.Errorf("paste: %w", NewMalformedSnapshot("x")), ErrMalformedSnapshot, true},
		{"joined", stderrors.Join(fmt.Errorf("other"), NewPrecondition("y")), ErrPrecondition, true},
		{"plain error", fmt.Errorf("plain"), ErrInternal, false},
		{"nil", nil, ErrInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}
