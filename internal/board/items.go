package board

import (
	"github.com/google/uuid"

	"pcb-editor/internal/netlist"
	"pcb-editor/pkg/geometry"
)

// StrokeText is a text drawn with strokes, either free on the board or
// attached to a device footprint.
type StrokeText struct {
	ID       uuid.UUID       `json:"id" yaml:"id"`
	Layer    string          `json:"layer" yaml:"layer"`
	Text     string          `json:"text" yaml:"text"`
	Position geometry.Point  `json:"position" yaml:"position"`
	Rotation geometry.Angle  `json:"rotation" yaml:"rotation"`
	Height   geometry.Length `json:"height" yaml:"height"`
	Mirrored bool            `json:"mirrored,omitempty" yaml:"mirrored,omitempty"`
}

// Translated returns a copy moved by offset.
func (t StrokeText) Translated(offset geometry.Point) StrokeText {
	t.Position = t.Position.Add(offset)
	return t
}

// ConnectStyle defines how pads connect to a plane.
type ConnectStyle int

const (
	ConnectNone ConnectStyle = iota
	ConnectSolid
	ConnectThermal
)

func (c ConnectStyle) String() string {
	switch c {
	case ConnectNone:
		return "None"
	case ConnectSolid:
		return "Solid"
	case ConnectThermal:
		return "Thermal"
	default:
		return "Unknown"
	}
}

// Plane is a filled copper region bound to a net signal.
type Plane struct {
	ID           uuid.UUID       `json:"id" yaml:"id"`
	NetSignal    uuid.UUID       `json:"net_signal" yaml:"net_signal"`
	Layer        string          `json:"layer" yaml:"layer"`
	Outline      geometry.Path   `json:"outline" yaml:"outline"`
	MinWidth     geometry.Length `json:"min_width" yaml:"min_width"`
	MinClearance geometry.Length `json:"min_clearance" yaml:"min_clearance"`
	KeepOrphans  bool            `json:"keep_orphans" yaml:"keep_orphans"`
	Priority     int             `json:"priority" yaml:"priority"`
	ConnectStyle ConnectStyle    `json:"connect_style" yaml:"connect_style"`
}

// Polygon is a free drawing on a board layer.
type Polygon struct {
	ID        uuid.UUID       `json:"id" yaml:"id"`
	Layer     string          `json:"layer" yaml:"layer"`
	LineWidth geometry.Length `json:"line_width" yaml:"line_width"`
	Filled    bool            `json:"filled" yaml:"filled"`
	Outline   geometry.Path   `json:"outline" yaml:"outline"`
}

// Hole is a non-plated mounting hole.
type Hole struct {
	ID       uuid.UUID       `json:"id" yaml:"id"`
	Position geometry.Point  `json:"position" yaml:"position"`
	Diameter geometry.Length `json:"diameter" yaml:"diameter"`
}

// Device is a placed footprint of a circuit component. A device is
// identified by its component: a board holds at most one device per
// component.
type Device struct {
	Component    uuid.UUID      `json:"component" yaml:"component"`
	LibDevice    uuid.UUID      `json:"lib_device" yaml:"lib_device"`
	LibPackage   uuid.UUID      `json:"lib_package" yaml:"lib_package"`
	LibFootprint uuid.UUID      `json:"lib_footprint" yaml:"lib_footprint"`
	Position     geometry.Point `json:"position" yaml:"position"`
	Rotation     geometry.Angle `json:"rotation" yaml:"rotation"`
	Mirrored     bool           `json:"mirrored" yaml:"mirrored"`
	StrokeTexts  []StrokeText   `json:"stroke_texts,omitempty" yaml:"stroke_texts,omitempty"`
}

// Transform maps a footprint-local point to board coordinates.
func (d *Device) Transform(local geometry.Point) geometry.Point {
	if d.Mirrored {
		local = local.MirroredX()
	}
	return d.Position.Add(local.Rotated(d.Rotation))
}

// NetSegment is a board-owned, connected set of vias, junctions and traces
// of one net signal. A zero NetSignal means the segment has no net.
type NetSegment struct {
	ID        uuid.UUID `json:"id"`
	NetSignal uuid.UUID `json:"net_signal"`
	netlist.Segment
}

// Via returns the via with the given id, or nil.
func (s *NetSegment) Via(id uuid.UUID) *netlist.Via {
	for i := range s.Vias {
		if s.Vias[i].ID == id {
			return &s.Vias[i]
		}
	}
	return nil
}

// Junction returns the junction with the given id, or nil.
func (s *NetSegment) Junction(id uuid.UUID) *netlist.Junction {
	for i := range s.Junctions {
		if s.Junctions[i].ID == id {
			return &s.Junctions[i]
		}
	}
	return nil
}

// Trace returns the trace with the given id, or nil.
func (s *NetSegment) Trace(id uuid.UUID) *netlist.Trace {
	for i := range s.Traces {
		if s.Traces[i].ID == id {
			return &s.Traces[i]
		}
	}
	return nil
}

// Contains returns true if the segment owns an item with the given id.
func (s *NetSegment) Contains(id uuid.UUID) bool {
	return s.Via(id) != nil || s.Junction(id) != nil || s.Trace(id) != nil
}
