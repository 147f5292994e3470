package netlist

import (
	"github.com/google/uuid"

	"pcb-editor/internal/anchor"
	"pcb-editor/pkg/geometry"
)

// ViaShape identifies the copper shape of a via.
type ViaShape int

const (
	ViaRound ViaShape = iota
	ViaSquare
	ViaOctagon
)

func (s ViaShape) String() string {
	switch s {
	case ViaRound:
		return "Round"
	case ViaSquare:
		return "Square"
	case ViaOctagon:
		return "Octagon"
	default:
		return "Unknown"
	}
}

// Via is a plated hole. It is both a trace anchor and a drawable item, and
// belongs to exactly one net segment.
type Via struct {
	ID       uuid.UUID       `json:"id" yaml:"id"`
	Position geometry.Point  `json:"position" yaml:"position"`
	Shape    ViaShape        `json:"shape" yaml:"shape"`
	Size     geometry.Length `json:"size" yaml:"size"`
	Drill    geometry.Length `json:"drill" yaml:"drill"`
}

// Anchor returns the trace anchor referencing this via.
func (v Via) Anchor() anchor.Anchor {
	return anchor.Via(v.ID)
}

// Junction is a bare connection point between traces.
type Junction struct {
	ID       uuid.UUID      `json:"id" yaml:"id"`
	Position geometry.Point `json:"position" yaml:"position"`
}

// Anchor returns the trace anchor referencing this junction.
func (j Junction) Anchor() anchor.Anchor {
	return anchor.Junction(j.ID)
}

// Trace is a copper line between two anchors on one layer.
type Trace struct {
	ID    uuid.UUID       `json:"id" yaml:"id"`
	Layer string          `json:"layer" yaml:"layer"`
	Width geometry.Length `json:"width" yaml:"width"`
	Start anchor.Anchor   `json:"start" yaml:"start"`
	End   anchor.Anchor   `json:"end" yaml:"end"`
}

// OtherEnd returns the anchor at the opposite end of a.
func (t Trace) OtherEnd(a anchor.Anchor) (anchor.Anchor, bool) {
	switch a {
	case t.Start:
		return t.End, true
	case t.End:
		return t.Start, true
	}
	return anchor.Anchor{}, false
}

// Touches returns true if the trace starts or ends at a.
func (t Trace) Touches(a anchor.Anchor) bool {
	return t.Start == a || t.End == a
}

// Segment is a set of vias, junctions and traces describing one connected
// net segment. The splitter emits one Segment per connected component.
type Segment struct {
	Vias      []Via      `json:"vias,omitempty" yaml:"vias,omitempty"`
	Junctions []Junction `json:"junctions,omitempty" yaml:"junctions,omitempty"`
	Traces    []Trace    `json:"traces,omitempty" yaml:"traces,omitempty"`
}

// IsEmpty returns true if the segment has no items.
func (s Segment) IsEmpty() bool {
	return len(s.Vias) == 0 && len(s.Junctions) == 0 && len(s.Traces) == 0
}

// ItemCount returns the total number of vias, junctions and traces.
func (s Segment) ItemCount() int {
	return len(s.Vias) + len(s.Junctions) + len(s.Traces)
}
