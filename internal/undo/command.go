// Package undo provides reversible commands, command groups with scoped
// rollback, and a linear undo history.
package undo

import (
	"pcb-editor/internal/errors"
)

// Command is a reversible board edit. Implementations provide the
// Perform* methods; callers drive them through a Tracked wrapper, a Group
// or a Stack, which enforce the lifecycle.
type Command interface {
	// Text describes the edit for the undo history, e.g. "Remove Items".
	Text() string
	// PerformExecute applies the edit for the first time and reports
	// whether anything changed. On error the command must have no effect.
	PerformExecute() (bool, error)
	// PerformUndo reverts the last execute or redo.
	PerformUndo() error
	// PerformRedo re-applies the edit, reproducing the exact state of the
	// first execution.
	PerformRedo() error
}

// State is the lifecycle state of a tracked command.
type State int

const (
	StateNew State = iota
	StateExecuted
	StateUndone
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateExecuted:
		return "executed"
	case StateUndone:
		return "undone"
	default:
		return "unknown"
	}
}

// Tracked wraps a command and enforces new -> executed <-> undone.
type Tracked struct {
	cmd      Command
	state    State
	modified bool
}

// Track wraps cmd in its initial state.
func Track(cmd Command) *Tracked {
	return &Tracked{cmd: cmd}
}

// Command returns the wrapped command.
func (t *Tracked) Command() Command { return t.cmd }

// State returns the current lifecycle state.
func (t *Tracked) State() State { return t.state }

// Text returns the text of the wrapped command.
func (t *Tracked) Text() string { return t.cmd.Text() }

// Modified reports whether the execution changed anything.
func (t *Tracked) Modified() bool { return t.modified }

// Execute runs the command for the first time. A failed execution leaves
// the command in the new state.
func (t *Tracked) Execute() (bool, error) {
	if t.state != StateNew {
		return false, errors.NewInvalidState("execute "+t.cmd.Text(), t.state.String())
	}
	modified, err := t.cmd.PerformExecute()
	if err != nil {
		return false, err
	}
	t.state = StateExecuted
	t.modified = modified
	return modified, nil
}

// Undo reverts an executed command.
func (t *Tracked) Undo() error {
	if t.state != StateExecuted {
		return errors.NewInvalidState("undo "+t.cmd.Text(), t.state.String())
	}
	if err := t.cmd.PerformUndo(); err != nil {
		return err
	}
	t.state = StateUndone
	return nil
}

// Redo re-applies an undone command.
func (t *Tracked) Redo() error {
	if t.state != StateUndone {
		return errors.NewInvalidState("redo "+t.cmd.Text(), t.state.String())
	}
	if err := t.cmd.PerformRedo(); err != nil {
		return err
	}
	t.state = StateExecuted
	return nil
}
