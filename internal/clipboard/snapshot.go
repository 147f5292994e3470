// Package clipboard captures board items into portable snapshots, encodes
// them as YAML and keeps them in a local store that stands in for the
// system clipboard.
package clipboard

import (
	"github.com/google/uuid"

	"pcb-editor/internal/anchor"
	"pcb-editor/internal/board"
	"pcb-editor/internal/component"
	"pcb-editor/internal/errors"
	"pcb-editor/internal/netlist"
	"pcb-editor/pkg/geometry"
)

// Snapshot is a portable capture of selected board items. Items keep their
// original ids for bookkeeping; pasting assigns new ones.
type Snapshot struct {
	Board        uuid.UUID           `yaml:"board"`
	Cursor       geometry.Point      `yaml:"cursor"`
	LibDevices   []component.Device  `yaml:"lib_devices,omitempty"`
	LibPackages  []component.Package `yaml:"lib_packages,omitempty"`
	Devices      []board.Device      `yaml:"devices,omitempty"`
	NetSegments  []NetSegment        `yaml:"net_segments,omitempty"`
	PadPositions []PadPosition       `yaml:"pad_positions,omitempty"`
	Planes       []Plane             `yaml:"planes,omitempty"`
	Polygons     []board.Polygon     `yaml:"polygons,omitempty"`
	StrokeTexts  []board.StrokeText  `yaml:"stroke_texts,omitempty"`
	Holes        []board.Hole        `yaml:"holes,omitempty"`
}

// NetSegment is a captured net segment. The net is carried by name since
// signal ids do not survive a transfer to another board.
type NetSegment struct {
	NetName         string `yaml:"net_name,omitempty"`
	netlist.Segment `yaml:",inline"`
}

// PadPosition records where a captured trace's pad was at copy time.
type PadPosition struct {
	Device   uuid.UUID      `yaml:"device"`
	Pad      uuid.UUID      `yaml:"pad"`
	Position geometry.Point `yaml:"position"`
}

// Plane is a captured plane with its net carried by name.
type Plane struct {
	NetName     string `yaml:"net_name,omitempty"`
	board.Plane `yaml:",inline"`
}

// IsEmpty returns true if the snapshot holds no board items.
func (s *Snapshot) IsEmpty() bool {
	return len(s.Devices) == 0 && len(s.NetSegments) == 0 && len(s.Planes) == 0 &&
		len(s.Polygons) == 0 && len(s.StrokeTexts) == 0 && len(s.Holes) == 0
}

// PadPositionMap returns the captured pad positions keyed by pad.
func (s *Snapshot) PadPositionMap() map[anchor.PadRef]geometry.Point {
	m := make(map[anchor.PadRef]geometry.Point, len(s.PadPositions))
	for _, p := range s.PadPositions {
		m[anchor.PadRef{Device: p.Device, Pad: p.Pad}] = p.Position
	}
	return m
}

// LibDevice returns the captured library device with the given id.
func (s *Snapshot) LibDevice(id uuid.UUID) *component.Device {
	for i := range s.LibDevices {
		if s.LibDevices[i].ID == id {
			return &s.LibDevices[i]
		}
	}
	return nil
}

// LibPackage returns the captured library package with the given id.
func (s *Snapshot) LibPackage(id uuid.UUID) *component.Package {
	for i := range s.LibPackages {
		if s.LibPackages[i].ID == id {
			return &s.LibPackages[i]
		}
	}
	return nil
}

// Validate checks the internal consistency of the snapshot: every trace
// ends on a via or junction of its own segment or on a pad with a captured
// position, and every device has its library definitions.
func (s *Snapshot) Validate() error {
	pads := s.PadPositionMap()
	for i, seg := range s.NetSegments {
		local := make(map[anchor.Anchor]bool, len(seg.Vias)+len(seg.Junctions))
		for _, v := range seg.Vias {
			local[v.Anchor()] = true
		}
		for _, j := range seg.Junctions {
			local[j.Anchor()] = true
		}
		for _, t := range seg.Traces {
			for _, a := range []anchor.Anchor{t.Start, t.End} {
				switch a.Kind() {
				case anchor.KindPad:
					ref, _ := a.TryPad()
					if _, ok := pads[ref]; !ok {
						return errors.NewMalformedSnapshot("net segment %d: trace %s ends on pad %s without captured position", i, t.ID, ref)
					}
				case anchor.KindVia, anchor.KindJunction:
					if !local[a] {
						return errors.NewMalformedSnapshot("net segment %d: trace %s ends on %s outside its segment", i, t.ID, a)
					}
				default:
					return errors.NewMalformedSnapshot("net segment %d: trace %s has an empty anchor", i, t.ID)
				}
			}
		}
	}
	for _, d := range s.Devices {
		lib := s.LibDevice(d.LibDevice)
		if lib == nil {
			return errors.NewMalformedSnapshot("device %s: library device %s not captured", d.Component, d.LibDevice)
		}
		pkg := s.LibPackage(d.LibPackage)
		if pkg == nil {
			return errors.NewMalformedSnapshot("device %s: library package %s not captured", d.Component, d.LibPackage)
		}
		if pkg.Footprint(d.LibFootprint) == nil {
			return errors.NewMalformedSnapshot("device %s: footprint %s not in package %s", d.Component, d.LibFootprint, pkg.Name)
		}
	}
	return nil
}
