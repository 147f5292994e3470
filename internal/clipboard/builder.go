package clipboard

import (
	"slices"

	"github.com/google/uuid"

	"pcb-editor/internal/anchor"
	"pcb-editor/internal/board"
	"pcb-editor/internal/errors"
	"pcb-editor/internal/netlist"
	"pcb-editor/pkg/geometry"
)

// Builder captures board items into snapshots.
type Builder struct {
	board *board.Board
}

// NewBuilder creates a builder reading from b.
func NewBuilder(b *board.Board) *Builder {
	return &Builder{board: b}
}

// Build captures the selected items. Selected traces pull in the vias and
// junctions they end on; the position of every pad a captured trace ends
// on is recorded. Positions stay absolute; cursor is stored so the paster
// can compute its offset.
func (bld *Builder) Build(sel board.Selection, cursor geometry.Point) (*Snapshot, error) {
	b := bld.board
	sel = sel.Unique()
	snap := &Snapshot{Board: b.ID, Cursor: cursor}

	for _, id := range sel.Devices {
		d := b.Device(id)
		if d == nil {
			return nil, errors.NewNotFound("device", id.String())
		}
		snap.Devices = append(snap.Devices, cloneDevice(d))
		if err := bld.captureLibrary(snap, d); err != nil {
			return nil, err
		}
	}

	picked := make(map[uuid.UUID]bool)
	for _, id := range slices.Concat(sel.Vias, sel.Junctions, sel.Traces) {
		if b.SegmentOf(id) == nil {
			return nil, errors.NewNotFound("net segment item", id.String())
		}
		picked[id] = true
	}
	for _, s := range b.Segments {
		seg, ok := captureSegment(s, picked)
		if !ok {
			continue
		}
		ns := NetSegment{Segment: seg}
		if n := b.Circuit.NetSignal(s.NetSignal); n != nil {
			ns.NetName = n.Name
		}
		snap.NetSegments = append(snap.NetSegments, ns)
	}
	if err := bld.capturePads(snap); err != nil {
		return nil, err
	}

	for _, id := range sel.Planes {
		p := b.Plane(id)
		if p == nil {
			return nil, errors.NewNotFound("plane", id.String())
		}
		cp := Plane{Plane: *p}
		cp.Outline = slices.Clone(p.Outline)
		if n := b.Circuit.NetSignal(p.NetSignal); n != nil {
			cp.NetName = n.Name
		}
		snap.Planes = append(snap.Planes, cp)
	}
	for _, id := range sel.Polygons {
		p := b.Polygon(id)
		if p == nil {
			return nil, errors.NewNotFound("polygon", id.String())
		}
		cp := *p
		cp.Outline = slices.Clone(p.Outline)
		snap.Polygons = append(snap.Polygons, cp)
	}
	for _, id := range sel.StrokeTexts {
		if t := b.StrokeText(id); t != nil {
			snap.StrokeTexts = append(snap.StrokeTexts, *t)
			continue
		}
		// Footprint texts travel with their device.
		if d, _ := b.FootprintText(id); d == nil {
			return nil, errors.NewNotFound("stroke text", id.String())
		}
	}
	for _, id := range sel.Holes {
		h := b.Hole(id)
		if h == nil {
			return nil, errors.NewNotFound("hole", id.String())
		}
		snap.Holes = append(snap.Holes, *h)
	}
	return snap, nil
}

// captureSegment returns the picked items of s plus the vias and junctions
// that picked traces end on, in segment order.
func captureSegment(s *board.NetSegment, picked map[uuid.UUID]bool) (netlist.Segment, bool) {
	var seg netlist.Segment
	ends := make(map[anchor.Anchor]bool)
	for _, t := range s.Traces {
		if picked[t.ID] {
			seg.Traces = append(seg.Traces, t)
			ends[t.Start] = true
			ends[t.End] = true
		}
	}
	for _, v := range s.Vias {
		if picked[v.ID] || ends[v.Anchor()] {
			seg.Vias = append(seg.Vias, v)
		}
	}
	for _, j := range s.Junctions {
		if picked[j.ID] || ends[j.Anchor()] {
			seg.Junctions = append(seg.Junctions, j)
		}
	}
	return seg, !seg.IsEmpty()
}

func (bld *Builder) captureLibrary(snap *Snapshot, d *board.Device) error {
	lib := bld.board.Library
	if snap.LibDevice(d.LibDevice) == nil {
		dev := lib.Device(d.LibDevice)
		if dev == nil {
			return errors.NewNotFound("library device", d.LibDevice.String())
		}
		snap.LibDevices = append(snap.LibDevices, *dev)
	}
	if snap.LibPackage(d.LibPackage) == nil {
		pkg := lib.Package(d.LibPackage)
		if pkg == nil {
			return errors.NewNotFound("library package", d.LibPackage.String())
		}
		cp := *pkg
		cp.Footprints = slices.Clone(pkg.Footprints)
		for i := range cp.Footprints {
			cp.Footprints[i].Pads = slices.Clone(cp.Footprints[i].Pads)
		}
		snap.LibPackages = append(snap.LibPackages, cp)
	}
	return nil
}

func (bld *Builder) capturePads(snap *Snapshot) error {
	seen := make(map[anchor.PadRef]bool)
	for _, s := range snap.NetSegments {
		for _, t := range s.Traces {
			for _, a := range []anchor.Anchor{t.Start, t.End} {
				ref, ok := a.TryPad()
				if !ok || seen[ref] {
					continue
				}
				seen[ref] = true
				pos, ok := bld.board.PadPosition(ref.Device, ref.Pad)
				if !ok {
					return errors.NewNotFound("pad", ref.String())
				}
				snap.PadPositions = append(snap.PadPositions, PadPosition{Device: ref.Device, Pad: ref.Pad, Position: pos})
			}
		}
	}
	return nil
}

func cloneDevice(d *board.Device) board.Device {
	cp := *d
	cp.StrokeTexts = slices.Clone(d.StrokeTexts)
	return cp
}
