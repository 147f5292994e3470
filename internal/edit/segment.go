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

// NewAddNetSegment returns a command adding a net segment to the board.
func NewAddNetSegment(b *board.Board, s *board.NetSegment) undo.Command {
	return &addCmd[*board.NetSegment]{
		text:   "Add Net Segment",
		item:   s,
		insert: b.InsertSegment,
		remove: func() (*board.NetSegment, int, error) { return b.RemoveSegment(s.ID) },
	}
}

// NewRemoveNetSegment returns a command removing a whole net segment.
func NewRemoveNetSegment(b *board.Board, id uuid.UUID) undo.Command {
	return &removeCmd[*board.NetSegment]{
		text:   "Remove Net Segment",
		insert: b.InsertSegment,
		remove: func() (*board.NetSegment, int, error) { return b.RemoveSegment(id) },
	}
}

// AddNetSegmentElements appends vias, junctions and traces to an existing
// net segment.
type AddNetSegmentElements struct {
	board    *board.Board
	segment  uuid.UUID
	elements netlist.Segment
}

// NewAddNetSegmentElements creates the command.
func NewAddNetSegmentElements(b *board.Board, segment uuid.UUID, elements netlist.Segment) *AddNetSegmentElements {
	return &AddNetSegmentElements{board: b, segment: segment, elements: elements}
}

// Text implements undo.Command.
func (c *AddNetSegmentElements) Text() string { return "Add Net Segment Elements" }

// PerformExecute implements undo.Command. Every trace must end on a pad of
// the board or on a via or junction of the resulting segment.
func (c *AddNetSegmentElements) PerformExecute() (bool, error) {
	if c.elements.IsEmpty() {
		return false, nil
	}
	s := c.board.Segment(c.segment)
	if s == nil {
		return false, errors.NewNotFound("net segment", c.segment.String())
	}
	for _, t := range c.elements.Traces {
		for _, a := range []anchor.Anchor{t.Start, t.End} {
			if !c.anchorExists(s, a) {
				return false, errors.NewPrecondition("trace %s ends on unknown anchor %s", t.ID, a)
			}
		}
	}
	return true, c.PerformRedo()
}

func (c *AddNetSegmentElements) anchorExists(s *board.NetSegment, a anchor.Anchor) bool {
	switch a.Kind() {
	case anchor.KindPad:
		ref, _ := a.TryPad()
		return c.board.HasPad(ref.Device, ref.Pad)
	case anchor.KindVia:
		id, _ := a.TryVia()
		if s.Via(id) != nil {
			return true
		}
		for _, v := range c.elements.Vias {
			if v.ID == id {
				return true
			}
		}
	case anchor.KindJunction:
		id, _ := a.TryJunction()
		if s.Junction(id) != nil {
			return true
		}
		for _, j := range c.elements.Junctions {
			if j.ID == id {
				return true
			}
		}
	}
	return false
}

// PerformUndo implements undo.Command.
func (c *AddNetSegmentElements) PerformUndo() error {
	s := c.board.Segment(c.segment)
	if s == nil {
		return errors.NewNotFound("net segment", c.segment.String())
	}
	s.Vias = s.Vias[:len(s.Vias)-len(c.elements.Vias)]
	s.Junctions = s.Junctions[:len(s.Junctions)-len(c.elements.Junctions)]
	s.Traces = s.Traces[:len(s.Traces)-len(c.elements.Traces)]
	return nil
}

// PerformRedo implements undo.Command.
func (c *AddNetSegmentElements) PerformRedo() error {
	s := c.board.Segment(c.segment)
	if s == nil {
		return errors.NewNotFound("net segment", c.segment.String())
	}
	s.Vias = append(s.Vias, c.elements.Vias...)
	s.Junctions = append(s.Junctions, c.elements.Junctions...)
	s.Traces = append(s.Traces, c.elements.Traces...)
	return nil
}

// materialize copies a segment descriptor with a fresh id for every via,
// junction and trace, translated by offset. Trace endpoints are rewritten
// to the new ids; pad anchors are kept.
func materialize(desc netlist.Segment, offset geometry.Point, newID func() uuid.UUID) (netlist.Segment, error) {
	remap := make(map[anchor.Anchor]anchor.Anchor, len(desc.Vias)+len(desc.Junctions))
	var out netlist.Segment
	for _, v := range desc.Vias {
		nv := v
		nv.ID = newID()
		nv.Position = v.Position.Add(offset)
		remap[v.Anchor()] = nv.Anchor()
		out.Vias = append(out.Vias, nv)
	}
	for _, j := range desc.Junctions {
		nj := netlist.Junction{ID: newID(), Position: j.Position.Add(offset)}
		remap[j.Anchor()] = nj.Anchor()
		out.Junctions = append(out.Junctions, nj)
	}
	mapAnchor := func(a anchor.Anchor) (anchor.Anchor, error) {
		switch a.Kind() {
		case anchor.KindPad:
			return a, nil
		case anchor.KindVia, anchor.KindJunction:
			if r, ok := remap[a]; ok {
				return r, nil
			}
		}
		return anchor.Anchor{}, errors.NewMalformedSnapshot("trace ends on %s which is not part of its segment", a)
	}
	for _, t := range desc.Traces {
		nt := t
		nt.ID = newID()
		var err error
		if nt.Start, err = mapAnchor(t.Start); err != nil {
			return netlist.Segment{}, err
		}
		if nt.End, err = mapAnchor(t.End); err != nil {
			return netlist.Segment{}, err
		}
		out.Traces = append(out.Traces, nt)
	}
	return out, nil
}

// addSegment materializes desc as a new net segment of signal inside g and
// returns it.
func addSegment(g *undo.Group, b *board.Board, signal uuid.UUID, desc netlist.Segment, offset geometry.Point, newID func() uuid.UUID) (*board.NetSegment, error) {
	elements, err := materialize(desc, offset, newID)
	if err != nil {
		return nil, err
	}
	seg := &board.NetSegment{ID: newID(), NetSignal: signal}
	if _, err := g.ExecChild(NewAddNetSegment(b, seg)); err != nil {
		return nil, err
	}
	if _, err := g.ExecChild(NewAddNetSegmentElements(b, seg.ID, elements)); err != nil {
		return nil, err
	}
	return seg, nil
}
