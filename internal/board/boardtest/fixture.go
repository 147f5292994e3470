// Package boardtest provides board fixtures for tests.
package boardtest

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"pcb-editor/internal/anchor"
	"pcb-editor/internal/board"
	"pcb-editor/internal/component"
	"pcb-editor/internal/netlist"
	"pcb-editor/pkg/geometry"
)

// Fixture is a board with a two-pad resistor package in its library.
type Fixture struct {
	T         testing.TB
	Board     *board.Board
	Package   *component.Package
	Footprint uuid.UUID
	Pads      []uuid.UUID
	LibDevice *component.Device
	NetClass  *netlist.NetClass
}

// New creates a fixture board named "test".
func New(t testing.TB) *Fixture {
	t.Helper()
	pads := []uuid.UUID{uuid.New(), uuid.New()}
	fp := component.Footprint{
		ID:   uuid.New(),
		Name: "default",
		Pads: []component.Pad{
			{ID: pads[0], Name: "1", Offset: geometry.Point{X: -geometry.Millimetre}},
			{ID: pads[1], Name: "2", Offset: geometry.Point{X: geometry.Millimetre}},
		},
	}
	pkg := &component.Package{ID: uuid.New(), Name: "R0805", Footprints: []component.Footprint{fp}}
	dev := &component.Device{ID: uuid.New(), Name: "Resistor", Package: pkg.ID}

	b := board.New("test")
	b.Library.AddPackage(pkg)
	b.Library.AddDevice(dev)
	class := netlist.NewNetClass(netlist.DefaultNetClassName)
	if err := b.Circuit.InsertNetClass(-1, class); err != nil {
		t.Fatalf("insert net class: %v", err)
	}
	return &Fixture{
		T:         t,
		Board:     b,
		Package:   pkg,
		Footprint: fp.ID,
		Pads:      pads,
		LibDevice: dev,
		NetClass:  class,
	}
}

// AddComponent adds a circuit component without placing it.
func (f *Fixture) AddComponent(name string) *component.Component {
	c := component.NewComponent(name)
	f.Board.Circuit.Components.Add(c)
	return c
}

// Place adds a component and places its device at pos.
func (f *Fixture) Place(name string, pos geometry.Point) *board.Device {
	f.T.Helper()
	c := f.AddComponent(name)
	d := &board.Device{
		Component:    c.ID,
		LibDevice:    f.LibDevice.ID,
		LibPackage:   f.Package.ID,
		LibFootprint: f.Footprint,
		Position:     pos,
		StrokeTexts: []board.StrokeText{
			{ID: uuid.New(), Layer: "top_names", Text: "{{NAME}}", Position: pos, Height: geometry.Millimetre},
		},
	}
	if err := f.Board.InsertDevice(-1, d); err != nil {
		f.T.Fatalf("place %s: %v", name, err)
	}
	return d
}

// Pad returns the anchor of pad n (0 or 1) of a device.
func (f *Fixture) Pad(d *board.Device, n int) anchor.Anchor {
	return anchor.Pad(d.Component, f.Pads[n])
}

// Net returns the net signal with the given name, creating it if needed.
func (f *Fixture) Net(name string) *netlist.NetSignal {
	f.T.Helper()
	if n := f.Board.Circuit.NetSignalByName(name); n != nil {
		return n
	}
	n := netlist.NewNetSignal(name, f.NetClass.ID)
	if err := f.Board.Circuit.InsertNetSignal(-1, n); err != nil {
		f.T.Fatalf("insert net %s: %v", name, err)
	}
	return n
}

// Segment adds a net segment holding seg.
func (f *Fixture) Segment(net *netlist.NetSignal, seg netlist.Segment) *board.NetSegment {
	f.T.Helper()
	s := &board.NetSegment{ID: uuid.New(), Segment: seg}
	if net != nil {
		s.NetSignal = net.ID
	}
	if err := f.Board.InsertSegment(-1, s); err != nil {
		f.T.Fatalf("insert segment: %v", err)
	}
	return s
}

// Via creates a via at (x, y) millimetres.
func Via(x, y float64) netlist.Via {
	return netlist.Via{
		ID:       uuid.New(),
		Position: geometry.Point{X: geometry.Mm(x), Y: geometry.Mm(y)},
		Size:     geometry.Mm(0.6),
		Drill:    geometry.Mm(0.3),
	}
}

// Junction creates a junction at (x, y) millimetres.
func Junction(x, y float64) netlist.Junction {
	return netlist.Junction{ID: uuid.New(), Position: geometry.Point{X: geometry.Mm(x), Y: geometry.Mm(y)}}
}

// Trace creates a top layer trace between two anchors.
func Trace(a, b anchor.Anchor) netlist.Trace {
	return netlist.Trace{ID: uuid.New(), Layer: "top_cu", Width: geometry.Mm(0.25), Start: a, End: b}
}

// State serializes the persistent board state for equality checks.
func State(t testing.TB, b *board.Board) string {
	t.Helper()
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal board: %v", err)
	}
	return string(data)
}
