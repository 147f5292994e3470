// Package component provides circuit component instances and the project
// library of device and package definitions.
package component

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Component is a component instance of the circuit, e.g. "U1". A board
// places at most one device per component.
type Component struct {
	ID    uuid.UUID `json:"id" yaml:"id"`
	Name  string    `json:"name" yaml:"name"`                       // Designator, e.g., "U1", "C5"
	Value string    `json:"value,omitempty" yaml:"value,omitempty"` // e.g., "74LS244", "100n"
}

// NewComponent creates a new Component with a fresh id.
func NewComponent(name string) *Component {
	return &Component{
		ID:   uuid.New(),
		Name: name,
	}
}

// List manages an ordered collection of components.
type List struct {
	Components []*Component `json:"components,omitempty"`
}

// NewList creates a new component list.
func NewList() *List {
	return &List{}
}

// Add appends a component to the list.
func (l *List) Add(c *Component) {
	l.Components = append(l.Components, c)
}

// Insert inserts a component at index, clamped to the list bounds.
func (l *List) Insert(index int, c *Component) {
	index = max(0, min(index, len(l.Components)))
	l.Components = slices.Insert(l.Components, index, c)
}

// Remove removes a component by ID and returns its former index, or -1.
func (l *List) Remove(id uuid.UUID) int {
	for i, c := range l.Components {
		if c.ID == id {
			l.Components = slices.Delete(l.Components, i, i+1)
			return i
		}
	}
	return -1
}

// Get returns a component by ID.
func (l *List) Get(id uuid.UUID) *Component {
	for _, c := range l.Components {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// GetByName returns a component by designator.
func (l *List) GetByName(name string) *Component {
	for _, c := range l.Components {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// GenerateName returns the next unused designator with the given prefix
// (e.g., "U" for ICs).
func (l *List) GenerateName(prefix string) string {
	highest := 0
	for _, c := range l.Components {
		rest, ok := strings.CutPrefix(c.Name, prefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%d", prefix, highest+1)
}

// Count returns the number of components.
func (l *List) Count() int {
	return len(l.Components)
}
