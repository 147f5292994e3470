package edit

import (
	"strings"

	"github.com/google/uuid"

	"pcb-editor/internal/board"
	"pcb-editor/internal/netlist"
	"pcb-editor/internal/undo"
)

// NewAddNetClass returns a command adding a net class to the circuit.
func NewAddNetClass(b *board.Board, n *netlist.NetClass) undo.Command {
	return &addCmd[*netlist.NetClass]{
		text:   "Add Net Class",
		item:   n,
		insert: b.Circuit.InsertNetClass,
		remove: func() (*netlist.NetClass, int, error) { return b.Circuit.RemoveNetClass(n.ID) },
	}
}

// NewAddNetSignal returns a command adding a net signal to the circuit.
func NewAddNetSignal(b *board.Board, n *netlist.NetSignal) undo.Command {
	return &addCmd[*netlist.NetSignal]{
		text:   "Add Net",
		item:   n,
		insert: b.Circuit.InsertNetSignal,
		remove: func() (*netlist.NetSignal, int, error) { return b.Circuit.RemoveNetSignal(n.ID) },
	}
}

// netResolver finds net signals by name and creates missing ones, together
// with the net class they need, as children of a group.
type netResolver struct {
	board        *board.Board
	group        *undo.Group
	defaultClass string
	newID        func() uuid.UUID
}

// resolve returns the id of the net signal named name. An empty name means
// "no net" and resolves to uuid.Nil.
func (r *netResolver) resolve(name string) (uuid.UUID, error) {
	if name == "" {
		return uuid.Nil, nil
	}
	if n := r.board.Circuit.NetSignalByName(name); n != nil {
		return n.ID, nil
	}
	className := r.defaultClass
	if className == "" {
		className = netlist.DefaultNetClassName
	}
	class := r.board.Circuit.NetClassByName(className)
	if class == nil {
		class = &netlist.NetClass{ID: r.newID(), Name: className}
		if _, err := r.group.ExecChild(NewAddNetClass(r.board, class)); err != nil {
			return uuid.Nil, err
		}
	}
	signal := &netlist.NetSignal{ID: r.newID(), Name: strings.TrimSpace(name), NetClass: class.ID}
	if _, err := r.group.ExecChild(NewAddNetSignal(r.board, signal)); err != nil {
		return uuid.Nil, err
	}
	return signal.ID, nil
}
