// Package netlist holds the copper items of a net (vias, junctions, traces),
// the electrical net identities they belong to, and the splitter that regroups
// a net segment into connected parts after an edit.
package netlist

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultNetClassName is the net class created when a pasted net needs one.
const DefaultNetClassName = "default"

// NetClass groups net signals sharing design rules.
type NetClass struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NetSignal identifies an electrical net. Several disjoint net segments may
// carry the same signal.
type NetSignal struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	NetClass uuid.UUID `json:"net_class"`
}

// NewNetSignal creates a net signal with a fresh identity.
func NewNetSignal(name string, netClass uuid.UUID) *NetSignal {
	return &NetSignal{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(name),
		NetClass: netClass,
	}
}

// NewNetClass creates a net class with a fresh identity.
func NewNetClass(name string) *NetClass {
	return &NetClass{
		ID:   uuid.New(),
		Name: strings.TrimSpace(name),
	}
}

// SameName compares net names the way signal lookup does: surrounding
// whitespace is ignored, case is significant.
func SameName(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}
