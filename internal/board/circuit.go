package board

import (
	"github.com/google/uuid"

	"pcb-editor/internal/component"
	"pcb-editor/internal/errors"
	"pcb-editor/internal/netlist"
)

// Circuit holds the logical design shared by the board: component
// instances, net classes and net signals.
type Circuit struct {
	Components *component.List      `json:"components"`
	NetClasses []*netlist.NetClass  `json:"net_classes,omitempty"`
	NetSignals []*netlist.NetSignal `json:"net_signals,omitempty"`
}

// NewCircuit creates an empty circuit.
func NewCircuit() *Circuit {
	return &Circuit{Components: component.NewList()}
}

// NetClass returns the net class with the given id, or nil.
func (c *Circuit) NetClass(id uuid.UUID) *netlist.NetClass {
	return findByID(c.NetClasses, id, func(n *netlist.NetClass) uuid.UUID { return n.ID })
}

// NetClassByName returns the net class with the given name, or nil.
func (c *Circuit) NetClassByName(name string) *netlist.NetClass {
	for _, n := range c.NetClasses {
		if netlist.SameName(n.Name, name) {
			return n
		}
	}
	return nil
}

// InsertNetClass inserts a net class at index (-1 appends).
func (c *Circuit) InsertNetClass(index int, n *netlist.NetClass) error {
	if c.NetClass(n.ID) != nil || c.NetClassByName(n.Name) != nil {
		return errors.NewPrecondition("net class %q already exists", n.Name)
	}
	c.NetClasses = insertAt(c.NetClasses, index, n)
	return nil
}

// RemoveNetClass removes a net class and returns its index. Classes still
// used by a net signal cannot be removed.
func (c *Circuit) RemoveNetClass(id uuid.UUID) (*netlist.NetClass, int, error) {
	for _, s := range c.NetSignals {
		if s.NetClass == id {
			return nil, -1, errors.NewPrecondition("net class %s is used by net %q", id, s.Name)
		}
	}
	var n *netlist.NetClass
	var idx int
	c.NetClasses, n, idx = removeByID(c.NetClasses, id, func(n *netlist.NetClass) uuid.UUID { return n.ID })
	if idx < 0 {
		return nil, -1, errors.NewNotFound("net class", id.String())
	}
	return n, idx, nil
}

// NetSignal returns the net signal with the given id, or nil.
func (c *Circuit) NetSignal(id uuid.UUID) *netlist.NetSignal {
	return findByID(c.NetSignals, id, func(n *netlist.NetSignal) uuid.UUID { return n.ID })
}

// NetSignalByName returns the net signal with the given name, or nil.
func (c *Circuit) NetSignalByName(name string) *netlist.NetSignal {
	for _, n := range c.NetSignals {
		if netlist.SameName(n.Name, name) {
			return n
		}
	}
	return nil
}

// InsertNetSignal inserts a net signal at index (-1 appends).
func (c *Circuit) InsertNetSignal(index int, n *netlist.NetSignal) error {
	if c.NetSignal(n.ID) != nil || c.NetSignalByName(n.Name) != nil {
		return errors.NewPrecondition("net signal %q already exists", n.Name)
	}
	if c.NetClass(n.NetClass) == nil {
		return errors.NewNotFound("net class", n.NetClass.String())
	}
	c.NetSignals = insertAt(c.NetSignals, index, n)
	return nil
}

// RemoveNetSignal removes a net signal and returns its index.
func (c *Circuit) RemoveNetSignal(id uuid.UUID) (*netlist.NetSignal, int, error) {
	var n *netlist.NetSignal
	var idx int
	c.NetSignals, n, idx = removeByID(c.NetSignals, id, func(n *netlist.NetSignal) uuid.UUID { return n.ID })
	if idx < 0 {
		return nil, -1, errors.NewNotFound("net signal", id.String())
	}
	return n, idx, nil
}
