// Package board provides the board model edited by commands: the circuit,
// the project library, placed devices, net segments and the remaining
// drawable items.
//
// The board exclusively owns its ordered item collections. Every remove
// method returns the former index of the item, and the matching insert
// method accepts that index, so undoing a removal restores the exact
// previous order.
package board

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"pcb-editor/internal/anchor"
	"pcb-editor/internal/component"
	"pcb-editor/internal/errors"
	"pcb-editor/pkg/geometry"
)

// Board is a printed circuit board and the design data it depends on.
type Board struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Circuit     *Circuit           `json:"circuit"`
	Library     *component.Library `json:"library"`
	Devices     []*Device          `json:"devices,omitempty"`
	Segments    []*NetSegment      `json:"net_segments,omitempty"`
	Planes      []*Plane           `json:"planes,omitempty"`
	Polygons    []*Polygon         `json:"polygons,omitempty"`
	StrokeTexts []*StrokeText      `json:"stroke_texts,omitempty"`
	Holes       []*Hole            `json:"holes,omitempty"`

	selected map[uuid.UUID]bool
}

// New creates an empty board with an empty circuit and library.
func New(name string) *Board {
	return &Board{
		ID:       uuid.New(),
		Name:     name,
		Circuit:  NewCircuit(),
		Library:  component.NewLibrary(),
		selected: make(map[uuid.UUID]bool),
	}
}

// Init fills nil collections of a decoded board.
func (b *Board) Init() {
	if b.Circuit == nil {
		b.Circuit = NewCircuit()
	}
	if b.Circuit.Components == nil {
		b.Circuit.Components = component.NewList()
	}
	if b.Library == nil {
		b.Library = component.NewLibrary()
	}
	if b.selected == nil {
		b.selected = make(map[uuid.UUID]bool)
	}
}

func insertAt[T any](s []T, index int, v T) []T {
	if index < 0 || index > len(s) {
		index = len(s)
	}
	return slices.Insert(s, index, v)
}

func removeByID[T any](s []T, id uuid.UUID, idOf func(T) uuid.UUID) ([]T, T, int) {
	for i, v := range s {
		if idOf(v) == id {
			return slices.Delete(s, i, i+1), v, i
		}
	}
	var zero T
	return s, zero, -1
}

func findByID[T any](s []T, id uuid.UUID, idOf func(T) uuid.UUID) T {
	for _, v := range s {
		if idOf(v) == id {
			return v
		}
	}
	var zero T
	return zero
}

// Device returns the device placed for a component, or nil.
func (b *Board) Device(componentID uuid.UUID) *Device {
	return findByID(b.Devices, componentID, func(d *Device) uuid.UUID { return d.Component })
}

// InsertDevice inserts a device at index (-1 appends).
func (b *Board) InsertDevice(index int, d *Device) error {
	if b.Device(d.Component) != nil {
		return errors.NewPrecondition("component %s is already placed", d.Component)
	}
	b.Devices = insertAt(b.Devices, index, d)
	return nil
}

// RemoveDevice removes the device of a component and returns its index.
func (b *Board) RemoveDevice(componentID uuid.UUID) (*Device, int, error) {
	var d *Device
	var idx int
	b.Devices, d, idx = removeByID(b.Devices, componentID, func(d *Device) uuid.UUID { return d.Component })
	if idx < 0 {
		return nil, -1, errors.NewNotFound("device", componentID.String())
	}
	return d, idx, nil
}

// Segment returns the net segment with the given id, or nil.
func (b *Board) Segment(id uuid.UUID) *NetSegment {
	return findByID(b.Segments, id, func(s *NetSegment) uuid.UUID { return s.ID })
}

// InsertSegment inserts a net segment at index (-1 appends).
func (b *Board) InsertSegment(index int, s *NetSegment) error {
	if b.Segment(s.ID) != nil {
		return errors.NewPrecondition("net segment %s already exists", s.ID)
	}
	b.Segments = insertAt(b.Segments, index, s)
	return nil
}

// RemoveSegment removes a net segment and returns its index.
func (b *Board) RemoveSegment(id uuid.UUID) (*NetSegment, int, error) {
	var s *NetSegment
	var idx int
	b.Segments, s, idx = removeByID(b.Segments, id, func(s *NetSegment) uuid.UUID { return s.ID })
	if idx < 0 {
		return nil, -1, errors.NewNotFound("net segment", id.String())
	}
	return s, idx, nil
}

// Plane returns the plane with the given id, or nil.
func (b *Board) Plane(id uuid.UUID) *Plane {
	return findByID(b.Planes, id, func(p *Plane) uuid.UUID { return p.ID })
}

// InsertPlane inserts a plane at index (-1 appends).
func (b *Board) InsertPlane(index int, p *Plane) error {
	if b.Plane(p.ID) != nil {
		return errors.NewPrecondition("plane %s already exists", p.ID)
	}
	b.Planes = insertAt(b.Planes, index, p)
	return nil
}

// RemovePlane removes a plane and returns its index.
func (b *Board) RemovePlane(id uuid.UUID) (*Plane, int, error) {
	var p *Plane
	var idx int
	b.Planes, p, idx = removeByID(b.Planes, id, func(p *Plane) uuid.UUID { return p.ID })
	if idx < 0 {
		return nil, -1, errors.NewNotFound("plane", id.String())
	}
	return p, idx, nil
}

// Polygon returns the polygon with the given id, or nil.
func (b *Board) Polygon(id uuid.UUID) *Polygon {
	return findByID(b.Polygons, id, func(p *Polygon) uuid.UUID { return p.ID })
}

// InsertPolygon inserts a polygon at index (-1 appends).
func (b *Board) InsertPolygon(index int, p *Polygon) error {
	if b.Polygon(p.ID) != nil {
		return errors.NewPrecondition("polygon %s already exists", p.ID)
	}
	b.Polygons = insertAt(b.Polygons, index, p)
	return nil
}

// RemovePolygon removes a polygon and returns its index.
func (b *Board) RemovePolygon(id uuid.UUID) (*Polygon, int, error) {
	var p *Polygon
	var idx int
	b.Polygons, p, idx = removeByID(b.Polygons, id, func(p *Polygon) uuid.UUID { return p.ID })
	if idx < 0 {
		return nil, -1, errors.NewNotFound("polygon", id.String())
	}
	return p, idx, nil
}

// StrokeText returns the free stroke text with the given id, or nil.
func (b *Board) StrokeText(id uuid.UUID) *StrokeText {
	return findByID(b.StrokeTexts, id, func(t *StrokeText) uuid.UUID { return t.ID })
}

// InsertStrokeText inserts a free stroke text at index (-1 appends).
func (b *Board) InsertStrokeText(index int, t *StrokeText) error {
	if b.StrokeText(t.ID) != nil {
		return errors.NewPrecondition("stroke text %s already exists", t.ID)
	}
	b.StrokeTexts = insertAt(b.StrokeTexts, index, t)
	return nil
}

// RemoveStrokeText removes a free stroke text and returns its index.
func (b *Board) RemoveStrokeText(id uuid.UUID) (*StrokeText, int, error) {
	var t *StrokeText
	var idx int
	b.StrokeTexts, t, idx = removeByID(b.StrokeTexts, id, func(t *StrokeText) uuid.UUID { return t.ID })
	if idx < 0 {
		return nil, -1, errors.NewNotFound("stroke text", id.String())
	}
	return t, idx, nil
}

// Hole returns the hole with the given id, or nil.
func (b *Board) Hole(id uuid.UUID) *Hole {
	return findByID(b.Holes, id, func(h *Hole) uuid.UUID { return h.ID })
}

// InsertHole inserts a hole at index (-1 appends).
func (b *Board) InsertHole(index int, h *Hole) error {
	if b.Hole(h.ID) != nil {
		return errors.NewPrecondition("hole %s already exists", h.ID)
	}
	b.Holes = insertAt(b.Holes, index, h)
	return nil
}

// RemoveHole removes a hole and returns its index.
func (b *Board) RemoveHole(id uuid.UUID) (*Hole, int, error) {
	var h *Hole
	var idx int
	b.Holes, h, idx = removeByID(b.Holes, id, func(h *Hole) uuid.UUID { return h.ID })
	if idx < 0 {
		return nil, -1, errors.NewNotFound("hole", id.String())
	}
	return h, idx, nil
}

// FootprintText returns the device owning a footprint stroke text and the
// text itself.
func (b *Board) FootprintText(id uuid.UUID) (*Device, *StrokeText) {
	for _, d := range b.Devices {
		for i := range d.StrokeTexts {
			if d.StrokeTexts[i].ID == id {
				return d, &d.StrokeTexts[i]
			}
		}
	}
	return nil, nil
}

// SegmentOf returns the net segment owning a via, junction or trace.
func (b *Board) SegmentOf(itemID uuid.UUID) *NetSegment {
	for _, s := range b.Segments {
		if s.Contains(itemID) {
			return s
		}
	}
	return nil
}

// footprintPad resolves the library pad of a placed device.
func (b *Board) footprintPad(componentID, padID uuid.UUID) (*Device, *component.Pad) {
	d := b.Device(componentID)
	if d == nil {
		return nil, nil
	}
	pkg := b.Library.Package(d.LibPackage)
	if pkg == nil {
		return d, nil
	}
	fp := pkg.Footprint(d.LibFootprint)
	if fp == nil {
		return d, nil
	}
	return d, fp.Pad(padID)
}

// HasPad reports whether the device of a component has the given pad.
func (b *Board) HasPad(componentID, padID uuid.UUID) bool {
	_, pad := b.footprintPad(componentID, padID)
	return pad != nil
}

// PadPosition returns the board position of a device pad.
func (b *Board) PadPosition(componentID, padID uuid.UUID) (geometry.Point, bool) {
	d, pad := b.footprintPad(componentID, padID)
	if pad == nil {
		return geometry.Point{}, false
	}
	return d.Transform(pad.Offset), true
}

// DevicePads returns the pad references of a placed device in footprint order.
func (b *Board) DevicePads(componentID uuid.UUID) []anchor.PadRef {
	d := b.Device(componentID)
	if d == nil {
		return nil
	}
	pkg := b.Library.Package(d.LibPackage)
	if pkg == nil {
		return nil
	}
	fp := pkg.Footprint(d.LibFootprint)
	if fp == nil {
		return nil
	}
	refs := make([]anchor.PadRef, len(fp.Pads))
	for i, p := range fp.Pads {
		refs[i] = anchor.PadRef{Device: componentID, Pad: p.ID}
	}
	return refs
}

// TracesAtDevice returns the ids of all traces ending on a pad of the device.
func (b *Board) TracesAtDevice(componentID uuid.UUID) []uuid.UUID {
	var ids []uuid.UUID
	for _, s := range b.Segments {
		for _, t := range s.Traces {
			if endsOnDevice(t.Start, componentID) || endsOnDevice(t.End, componentID) {
				ids = append(ids, t.ID)
			}
		}
	}
	return ids
}

func endsOnDevice(a anchor.Anchor, componentID uuid.UUID) bool {
	ref, ok := a.TryPad()
	return ok && ref.Device == componentID
}

// Contains reports whether any board item has the given id. Devices are
// looked up by component id.
func (b *Board) Contains(id uuid.UUID) bool {
	if b.Device(id) != nil || b.SegmentOf(id) != nil || b.Segment(id) != nil {
		return true
	}
	if b.Plane(id) != nil || b.Polygon(id) != nil || b.StrokeText(id) != nil || b.Hole(id) != nil {
		return true
	}
	_, text := b.FootprintText(id)
	return text != nil
}

// String returns a one-line summary of the board.
func (b *Board) String() string {
	return fmt.Sprintf("%s: %d devices, %d net segments, %d planes, %d polygons, %d texts, %d holes",
		b.Name, len(b.Devices), len(b.Segments), len(b.Planes), len(b.Polygons), len(b.StrokeTexts), len(b.Holes))
}
