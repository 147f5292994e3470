// Package app provides the editor session: the open project, its undo
// history and change events.
package app

import (
	"sync"

	"go.uber.org/zap"

	"pcb-editor/internal/board"
	"pcb-editor/internal/clipboard"
	"pcb-editor/internal/config"
	"pcb-editor/internal/edit"
	"pcb-editor/internal/errors"
	"pcb-editor/internal/project"
	"pcb-editor/internal/undo"
	"pcb-editor/pkg/geometry"
)

// EventType identifies different editor events.
type EventType int

const (
	EventProjectLoaded EventType = iota
	EventProjectSaved
	EventProjectClosed
	EventModified
	EventBoardChanged
	EventSelectionChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Editor holds one open project and the undo history of its board. The
// history lives exactly as long as the project is open.
type Editor struct {
	mu sync.RWMutex

	cfg *config.Config
	log *zap.Logger

	// Project
	ProjectPath string
	project     *project.File
	stack       *undo.Stack

	// Event listeners
	listeners map[EventType][]EventListener
}

// NewEditor creates an editor without an open project. A nil logger
// disables logging.
func NewEditor(cfg *config.Config, log *zap.Logger) *Editor {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Editor{
		cfg:       cfg,
		log:       log,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (e *Editor) On(event EventType, listener EventListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (e *Editor) Emit(event EventType, data interface{}) {
	e.mu.RLock()
	listeners := e.listeners[event]
	e.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// New opens a new project with an empty board.
func (e *Editor) New(name string) {
	e.open(project.New(name), "")
	e.log.Info("project created", zap.String("name", name))
	e.Emit(EventProjectLoaded, name)
}

// Open loads a project from path, closing any open one.
func (e *Editor) Open(path string) error {
	proj, err := project.Load(path)
	if err != nil {
		return err
	}
	e.open(proj, path)
	e.log.Info("project opened", zap.String("path", path), zap.Stringer("board", proj.Board))
	e.Emit(EventProjectLoaded, path)
	return nil
}

func (e *Editor) open(proj *project.File, path string) {
	if e.project != nil {
		e.Close()
	}
	e.project = proj
	e.ProjectPath = path
	e.stack = undo.NewStack(e.log.Named("undo"), e.cfg.UndoLimit)
	e.stack.OnChange(func() { e.Emit(EventModified, !e.stack.IsClean()) })
}

// Save writes the project to path, or to the path it was opened from if
// path is empty, and marks the history clean.
func (e *Editor) Save(path string) error {
	if e.project == nil {
		return errors.NewInvalidState("save", "no project open")
	}
	if path == "" {
		path = e.ProjectPath
	}
	if path == "" {
		return errors.NewPrecondition("project has no path")
	}
	if err := e.project.Save(path); err != nil {
		return err
	}
	e.ProjectPath = path
	e.stack.SetClean()
	e.log.Info("project saved", zap.String("path", path))
	e.Emit(EventProjectSaved, path)
	return nil
}

// Close discards the open project and its undo history.
func (e *Editor) Close() {
	if e.project == nil {
		return
	}
	modified := !e.stack.IsClean()
	if err := e.stack.Clear(); err != nil {
		e.log.Warn("aborting open group failed", zap.Error(err))
	}
	e.log.Info("project closed", zap.String("path", e.ProjectPath), zap.Bool("modified", modified))
	e.project = nil
	e.stack = nil
	e.ProjectPath = ""
	e.Emit(EventProjectClosed, nil)
}

// Project returns the open project, or nil.
func (e *Editor) Project() *project.File {
	return e.project
}

// Board returns the board of the open project, or nil.
func (e *Editor) Board() *board.Board {
	if e.project == nil {
		return nil
	}
	return e.project.Board
}

// Stack returns the undo history of the open project, or nil.
func (e *Editor) Stack() *undo.Stack {
	return e.stack
}

// IsModified reports whether the board changed since it was last saved.
func (e *Editor) IsModified() bool {
	return e.stack != nil && !e.stack.IsClean()
}

// Exec executes cmd on the open board and records it in the history.
func (e *Editor) Exec(cmd undo.Command) (bool, error) {
	if e.project == nil {
		return false, errors.NewInvalidState("execute "+cmd.Text(), "no project open")
	}
	modified, err := e.stack.Exec(cmd)
	if err != nil {
		return false, err
	}
	if modified {
		e.Emit(EventBoardChanged, cmd.Text())
	}
	return modified, nil
}

// Undo reverts the last command.
func (e *Editor) Undo() error {
	if e.project == nil {
		return errors.NewInvalidState("undo", "no project open")
	}
	text := e.stack.UndoText()
	if err := e.stack.Undo(); err != nil {
		return err
	}
	e.Emit(EventBoardChanged, text)
	return nil
}

// Redo re-applies the last undone command.
func (e *Editor) Redo() error {
	if e.project == nil {
		return errors.NewInvalidState("redo", "no project open")
	}
	text := e.stack.RedoText()
	if err := e.stack.Redo(); err != nil {
		return err
	}
	e.Emit(EventBoardChanged, text)
	return nil
}

// Remove removes the selected items.
func (e *Editor) Remove(sel board.Selection, keepDeviceTraces bool) (bool, error) {
	b := e.Board()
	if b == nil {
		return false, errors.NewInvalidState("remove", "no project open")
	}
	return e.Exec(edit.NewRemoveItems(b, sel, edit.RemoveOptions{KeepDeviceTraces: keepDeviceTraces}))
}

// RemoveSelected removes the items selected on the board.
func (e *Editor) RemoveSelected(keepDeviceTraces bool) (bool, error) {
	b := e.Board()
	if b == nil {
		return false, errors.NewInvalidState("remove", "no project open")
	}
	return e.Remove(b.SelectedItems(), keepDeviceTraces)
}

// Copy captures the selected items; cursor becomes the snapshot's
// reference point.
func (e *Editor) Copy(sel board.Selection, cursor geometry.Point) (*clipboard.Snapshot, error) {
	b := e.Board()
	if b == nil {
		return nil, errors.NewInvalidState("copy", "no project open")
	}
	return clipboard.NewBuilder(b).Build(sel, cursor)
}

// Paste re-creates snap so that its reference point lands on pos. Pasted
// items become the selection.
func (e *Editor) Paste(snap *clipboard.Snapshot, pos geometry.Point) (bool, error) {
	b := e.Board()
	if b == nil {
		return false, errors.NewInvalidState("paste", "no project open")
	}
	opts := edit.PasteOptions{DefaultNetClass: e.cfg.DefaultNetClass}
	modified, err := e.Exec(edit.NewPasteItems(b, snap, pos.Sub(snap.Cursor), opts))
	if modified {
		e.Emit(EventSelectionChanged, b.SelectedItems())
	}
	return modified, err
}
