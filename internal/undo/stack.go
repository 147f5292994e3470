package undo

import (
	"go.uber.org/zap"

	"pcb-editor/internal/errors"
)

// DefaultLimit is the number of history entries kept when none is configured.
const DefaultLimit = 100

// Stack is the linear undo history of one open board. Commands before the
// current position are executed, commands after it are undone. Executing a
// new command drops the undone tail.
type Stack struct {
	log      *zap.Logger
	limit    int
	commands []*Tracked
	current  int
	clean    int // position of the clean state, -1 if unreachable

	active    *Group
	listeners []func()
}

// NewStack creates an empty history keeping at most limit entries
// (limit <= 0 means DefaultLimit). A nil logger disables logging.
func NewStack(log *zap.Logger, limit int) *Stack {
	if log == nil {
		log = zap.NewNop()
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{log: log, limit: limit}
}

// OnChange registers a callback invoked after every history change.
func (s *Stack) OnChange(fn func()) {
	s.listeners = append(s.listeners, fn)
}

func (s *Stack) changed() {
	for _, fn := range s.listeners {
		fn()
	}
}

// Exec executes cmd and pushes it onto the history. A command reporting no
// change is discarded and false is returned.
func (s *Stack) Exec(cmd Command) (bool, error) {
	if s.active != nil {
		return false, errors.NewInvalidState("execute "+cmd.Text(), "group "+s.active.Text()+" open")
	}
	t := Track(cmd)
	modified, err := t.Execute()
	if err != nil {
		s.log.Debug("command failed", zap.String("command", cmd.Text()), zap.Error(err))
		return false, err
	}
	if !modified {
		s.log.Debug("command discarded, nothing changed", zap.String("command", cmd.Text()))
		return false, nil
	}
	s.push(t)
	s.log.Debug("command executed", zap.String("command", cmd.Text()), zap.Int("position", s.current))
	s.changed()
	return true, nil
}

func (s *Stack) push(t *Tracked) {
	s.commands = append(s.commands[:s.current], t)
	if s.clean > s.current {
		s.clean = -1
	}
	s.current++
	for len(s.commands) > s.limit {
		s.commands = s.commands[1:]
		s.current--
		s.clean--
	}
	if s.clean < -1 {
		s.clean = -1
	}
}

// CanUndo reports whether there is a command to undo.
func (s *Stack) CanUndo() bool {
	return s.active == nil && s.current > 0
}

// CanRedo reports whether there is a command to redo.
func (s *Stack) CanRedo() bool {
	return s.active == nil && s.current < len(s.commands)
}

// UndoText returns the text of the command Undo would revert.
func (s *Stack) UndoText() string {
	if s.current == 0 {
		return ""
	}
	return s.commands[s.current-1].Text()
}

// RedoText returns the text of the command Redo would re-apply.
func (s *Stack) RedoText() string {
	if s.current >= len(s.commands) {
		return ""
	}
	return s.commands[s.current].Text()
}

// Undo reverts the last executed command.
func (s *Stack) Undo() error {
	if s.active != nil {
		return errors.NewInvalidState("undo", "group "+s.active.Text()+" open")
	}
	if s.current == 0 {
		return errors.NewInvalidState("undo", "empty history")
	}
	t := s.commands[s.current-1]
	if err := t.Undo(); err != nil {
		s.log.Warn("undo failed", zap.String("command", t.Text()), zap.Error(err))
		return err
	}
	s.current--
	s.log.Debug("command undone", zap.String("command", t.Text()))
	s.changed()
	return nil
}

// Redo re-applies the last undone command.
func (s *Stack) Redo() error {
	if s.active != nil {
		return errors.NewInvalidState("redo", "group "+s.active.Text()+" open")
	}
	if s.current >= len(s.commands) {
		return errors.NewInvalidState("redo", "nothing undone")
	}
	t := s.commands[s.current]
	if err := t.Redo(); err != nil {
		s.log.Warn("redo failed", zap.String("command", t.Text()), zap.Error(err))
		return err
	}
	s.current++
	s.log.Debug("command redone", zap.String("command", t.Text()))
	s.changed()
	return nil
}

// BeginGroup opens a command group. Until it is committed or aborted,
// commands are appended with AppendToGroup and Exec, Undo and Redo fail.
func (s *Stack) BeginGroup(text string) error {
	if s.active != nil {
		return errors.NewInvalidState("begin group "+text, "group "+s.active.Text()+" open")
	}
	s.active = NewGroup(text)
	s.log.Debug("group opened", zap.String("group", text))
	return nil
}

// IsGroupActive reports whether a command group is open.
func (s *Stack) IsGroupActive() bool {
	return s.active != nil
}

// AppendToGroup executes cmd as a child of the open group.
func (s *Stack) AppendToGroup(cmd Command) (bool, error) {
	if s.active == nil {
		return false, errors.NewInvalidState("append "+cmd.Text(), "no group open")
	}
	return s.active.ExecChild(cmd)
}

// CommitGroup closes the open group and pushes it onto the history. An
// empty group is discarded and false is returned.
func (s *Stack) CommitGroup() (bool, error) {
	g := s.active
	if g == nil {
		return false, errors.NewInvalidState("commit group", "no group open")
	}
	s.active = nil
	if g.ChildCount() == 0 {
		s.log.Debug("group discarded, nothing changed", zap.String("group", g.Text()))
		return false, nil
	}
	s.push(&Tracked{cmd: g, state: StateExecuted, modified: true})
	s.log.Debug("group committed", zap.String("group", g.Text()), zap.Int("children", g.ChildCount()))
	s.changed()
	return true, nil
}

// AbortGroup closes the open group and reverts all of its children.
func (s *Stack) AbortGroup() error {
	g := s.active
	if g == nil {
		return errors.NewInvalidState("abort group", "no group open")
	}
	s.active = nil
	err := g.PerformUndo()
	s.log.Debug("group aborted", zap.String("group", g.Text()), zap.Error(err))
	return err
}

// Len returns the number of history entries.
func (s *Stack) Len() int {
	return len(s.commands)
}

// SetClean marks the current position as the saved state.
func (s *Stack) SetClean() {
	s.clean = s.current
	s.changed()
}

// IsClean reports whether the board is at the saved state.
func (s *Stack) IsClean() bool {
	return s.active == nil && s.clean == s.current
}

// Clear drops the whole history. An open group is aborted first. The clean
// state survives only if the board was clean.
func (s *Stack) Clear() error {
	var err error
	if s.active != nil {
		err = s.AbortGroup()
	}
	wasClean := s.IsClean()
	s.commands = nil
	s.current = 0
	s.clean = 0
	if !wasClean {
		s.clean = -1
	}
	s.changed()
	return err
}
