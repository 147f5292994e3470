package edit

import (
	"github.com/google/uuid"

	"pcb-editor/internal/anchor"
	"pcb-editor/internal/board"
	"pcb-editor/internal/errors"
	"pcb-editor/internal/netlist"
	"pcb-editor/internal/undo"
	"pcb-editor/pkg/geometry"
)

// RemoveOptions tunes RemoveItems.
type RemoveOptions struct {
	// KeepDeviceTraces keeps the traces of removed devices. Their pad ends
	// are re-anchored to new junctions at the pad positions instead of the
	// traces being removed along with the device.
	KeepDeviceTraces bool
	// IDSource generates ids of re-created items. Defaults to uuid.New.
	IDSource func() uuid.UUID
}

// RemoveItems removes a selection of board items as one undoable step.
// Net segments that lose items are split into their remaining connected
// parts, each re-created as a new segment of the same net signal.
type RemoveItems struct {
	undo.Group
	board *board.Board
	sel   board.Selection
	opts  RemoveOptions
}

// NewRemoveItems creates the command. The selection is not validated
// until execution.
func NewRemoveItems(b *board.Board, sel board.Selection, opts RemoveOptions) *RemoveItems {
	if opts.IDSource == nil {
		opts.IDSource = uuid.New
	}
	c := &RemoveItems{board: b, sel: sel.Unique(), opts: opts}
	c.SetText("Remove Items")
	return c
}

// segmentRemoval collects what is removed from, or re-anchored in, one
// net segment.
type segmentRemoval struct {
	removed map[uuid.UUID]bool
	pads    map[anchor.PadRef]geometry.Point
}

// PerformExecute implements undo.Command.
func (c *RemoveItems) PerformExecute() (modified bool, err error) {
	tx := c.Begin()
	defer tx.Finish(&err)

	if err := c.validate(); err != nil {
		return false, err
	}

	devices := make(map[uuid.UUID]bool, len(c.sel.Devices))
	for _, id := range c.sel.Devices {
		devices[id] = true
	}

	removals := make(map[uuid.UUID]*segmentRemoval)
	removalOf := func(s *board.NetSegment) *segmentRemoval {
		r, ok := removals[s.ID]
		if !ok {
			r = &segmentRemoval{removed: make(map[uuid.UUID]bool), pads: make(map[anchor.PadRef]geometry.Point)}
			removals[s.ID] = r
		}
		return r
	}

	for _, id := range c.sel.Traces {
		removalOf(c.board.SegmentOf(id)).removed[id] = true
	}
	for _, id := range c.sel.Junctions {
		removalOf(c.board.SegmentOf(id)).removed[id] = true
	}
	// Vias are never removed while traces still reference them.
	for _, id := range c.sel.Vias {
		s := c.board.SegmentOf(id)
		r := removalOf(s)
		r.removed[id] = true
		for _, t := range s.Traces {
			if t.Touches(anchor.Via(id)) {
				r.removed[t.ID] = true
			}
		}
	}
	for _, s := range c.board.Segments {
		for _, t := range s.Traces {
			for _, a := range []anchor.Anchor{t.Start, t.End} {
				ref, ok := a.TryPad()
				if !ok || !devices[ref.Device] {
					continue
				}
				r := removalOf(s)
				if !c.opts.KeepDeviceTraces {
					r.removed[t.ID] = true
					continue
				}
				pos, ok := c.board.PadPosition(ref.Device, ref.Pad)
				if !ok {
					return false, errors.NewPrecondition("pad %s has no position", ref)
				}
				r.pads[ref] = pos
			}
		}
	}

	// Snapshot the affected segments in board order before editing them.
	var affected []*board.NetSegment
	for _, s := range c.board.Segments {
		if _, ok := removals[s.ID]; ok {
			affected = append(affected, s)
		}
	}
	for _, s := range affected {
		if err := c.removeFromSegment(s, removals[s.ID]); err != nil {
			return false, err
		}
	}

	for _, id := range c.sel.Devices {
		if _, err := c.ExecChild(NewRemoveDevice(c.board, id)); err != nil {
			return false, err
		}
	}
	for _, id := range c.sel.Planes {
		if _, err := c.ExecChild(NewRemovePlane(c.board, id)); err != nil {
			return false, err
		}
	}
	for _, id := range c.sel.Polygons {
		if _, err := c.ExecChild(NewRemovePolygon(c.board, id)); err != nil {
			return false, err
		}
	}
	for _, id := range c.sel.StrokeTexts {
		var cmd undo.Command
		if c.board.StrokeText(id) != nil {
			cmd = NewRemoveStrokeText(c.board, id)
		} else if d, _ := c.board.FootprintText(id); d != nil && !devices[d.Component] {
			cmd = NewRemoveFootprintStrokeText(c.board, id)
		} else {
			continue // goes away with its device
		}
		if _, err := c.ExecChild(cmd); err != nil {
			return false, err
		}
	}
	for _, id := range c.sel.Holes {
		if _, err := c.ExecChild(NewRemoveHole(c.board, id)); err != nil {
			return false, err
		}
	}

	if c.ChildCount() > 0 {
		if _, err := c.ExecChild(NewRemoveUnusedLibraryElements(c.board)); err != nil {
			return false, err
		}
	}

	tx.Commit()
	return c.ChildCount() > 0, nil
}

// removeFromSegment removes a whole segment, or splits off its removed
// items and re-creates each remaining connected part as a new segment.
func (c *RemoveItems) removeFromSegment(s *board.NetSegment, r *segmentRemoval) error {
	if len(r.pads) == 0 && allRemoved(s, r.removed) {
		_, err := c.ExecChild(NewRemoveNetSegment(c.board, s.ID))
		return err
	}

	splitter := netlist.NewSplitter().WithIDSource(c.opts.IDSource)
	for ref, pos := range r.pads {
		splitter.ReplacePadByJunction(ref, pos)
	}
	splitter.AddSegment(s.Segment)
	for id := range r.removed {
		splitter.Remove(id)
	}
	for _, desc := range splitter.Split() {
		if _, err := addSegment(&c.Group, c.board, s.NetSignal, desc, geometry.Point{}, c.opts.IDSource); err != nil {
			return err
		}
	}
	_, err := c.ExecChild(NewRemoveNetSegment(c.board, s.ID))
	return err
}

func allRemoved(s *board.NetSegment, removed map[uuid.UUID]bool) bool {
	for _, v := range s.Vias {
		if !removed[v.ID] {
			return false
		}
	}
	for _, t := range s.Traces {
		if !removed[t.ID] {
			return false
		}
	}
	return true
}

// validate checks that every selected item exists on the board.
func (c *RemoveItems) validate() error {
	missing := func(kind string, id uuid.UUID) error {
		return errors.NewPrecondition("selected %s %s is not on the board", kind, id)
	}
	for _, id := range c.sel.Devices {
		if c.board.Device(id) == nil {
			return missing("device", id)
		}
	}
	for _, id := range c.sel.Vias {
		if s := c.board.SegmentOf(id); s == nil || s.Via(id) == nil {
			return missing("via", id)
		}
	}
	for _, id := range c.sel.Junctions {
		if s := c.board.SegmentOf(id); s == nil || s.Junction(id) == nil {
			return missing("junction", id)
		}
	}
	for _, id := range c.sel.Traces {
		if s := c.board.SegmentOf(id); s == nil || s.Trace(id) == nil {
			return missing("trace", id)
		}
	}
	for _, id := range c.sel.Planes {
		if c.board.Plane(id) == nil {
			return missing("plane", id)
		}
	}
	for _, id := range c.sel.Polygons {
		if c.board.Polygon(id) == nil {
			return missing("polygon", id)
		}
	}
	for _, id := range c.sel.StrokeTexts {
		if _, fp := c.board.FootprintText(id); c.board.StrokeText(id) == nil && fp == nil {
			return missing("stroke text", id)
		}
	}
	for _, id := range c.sel.Holes {
		if c.board.Hole(id) == nil {
			return missing("hole", id)
		}
	}
	return nil
}
