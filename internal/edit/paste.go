package edit

import (
	"github.com/google/uuid"

	"pcb-editor/internal/anchor"
	"pcb-editor/internal/board"
	"pcb-editor/internal/clipboard"
	"pcb-editor/internal/component"
	"pcb-editor/internal/netlist"
	"pcb-editor/internal/undo"
	"pcb-editor/pkg/geometry"
)

// PasteOptions tunes PasteItems.
type PasteOptions struct {
	// DefaultNetClass names the net class given to net signals created
	// while pasting. Defaults to netlist.DefaultNetClassName.
	DefaultNetClass string
	// IDSource generates ids of pasted items. Defaults to uuid.New.
	IDSource func() uuid.UUID
}

// PasteItems re-creates a clipboard snapshot on a board, moved by an
// offset, as one undoable step. Pasted items become selected.
type PasteItems struct {
	undo.Group
	board  *board.Board
	snap   *clipboard.Snapshot
	offset geometry.Point
	opts   PasteOptions
}

// NewPasteItems creates the command.
func NewPasteItems(b *board.Board, snap *clipboard.Snapshot, offset geometry.Point, opts PasteOptions) *PasteItems {
	if opts.IDSource == nil {
		opts.IDSource = uuid.New
	}
	if opts.DefaultNetClass == "" {
		opts.DefaultNetClass = netlist.DefaultNetClassName
	}
	c := &PasteItems{board: b, snap: snap, offset: offset, opts: opts}
	c.SetText("Paste")
	return c
}

// PerformExecute implements undo.Command.
func (c *PasteItems) PerformExecute() (modified bool, err error) {
	tx := c.Begin()
	defer tx.Finish(&err)

	if err := c.snap.Validate(); err != nil {
		return false, err
	}
	nets := &netResolver{
		board:        c.board,
		group:        &c.Group,
		defaultClass: c.opts.DefaultNetClass,
		newID:        c.opts.IDSource,
	}
	var selected []uuid.UUID

	pasted := make(map[uuid.UUID]bool)
	for i := range c.snap.Devices {
		d := &c.snap.Devices[i]
		if c.board.Circuit.Components.Get(d.Component) == nil || c.board.Device(d.Component) != nil {
			continue
		}
		if err := c.copyLibrary(d); err != nil {
			return false, err
		}
		nd := &board.Device{
			Component:    d.Component,
			LibDevice:    d.LibDevice,
			LibPackage:   d.LibPackage,
			LibFootprint: d.LibFootprint,
			Position:     d.Position.Add(c.offset),
			Rotation:     d.Rotation,
			Mirrored:     d.Mirrored,
		}
		for _, t := range d.StrokeTexts {
			nt := t.Translated(c.offset)
			nt.ID = c.opts.IDSource()
			nd.StrokeTexts = append(nd.StrokeTexts, nt)
			selected = append(selected, nt.ID)
		}
		if _, err := c.ExecChild(NewAddDevice(c.board, nd)); err != nil {
			return false, err
		}
		pasted[d.Component] = true
		selected = append(selected, nd.Component)
	}

	pads := c.snap.PadPositionMap()
	for _, s := range c.snap.NetSegments {
		splitter := netlist.NewSplitter().WithIDSource(c.opts.IDSource)
		for _, ref := range referencedPads(s.Segment) {
			if !pasted[ref.Device] {
				splitter.ReplacePadByJunction(ref, pads[ref])
			}
		}
		splitter.AddSegment(s.Segment)
		descs := splitter.Split()
		if len(descs) == 0 {
			continue
		}
		signal, err := nets.resolve(s.NetName)
		if err != nil {
			return false, err
		}
		for _, desc := range descs {
			seg, err := addSegment(&c.Group, c.board, signal, desc, c.offset, c.opts.IDSource)
			if err != nil {
				return false, err
			}
			selected = append(selected, segmentItemIDs(seg.Segment)...)
		}
	}

	for _, p := range c.snap.Planes {
		signal, err := nets.resolve(p.NetName)
		if err != nil {
			return false, err
		}
		np := p.Plane
		np.ID = c.opts.IDSource()
		np.NetSignal = signal
		np.Outline = p.Outline.Translated(c.offset)
		if _, err := c.ExecChild(NewAddPlane(c.board, &np)); err != nil {
			return false, err
		}
		selected = append(selected, np.ID)
	}
	for _, p := range c.snap.Polygons {
		np := p
		np.ID = c.opts.IDSource()
		np.Outline = p.Outline.Translated(c.offset)
		if _, err := c.ExecChild(NewAddPolygon(c.board, &np)); err != nil {
			return false, err
		}
		selected = append(selected, np.ID)
	}
	for _, t := range c.snap.StrokeTexts {
		nt := t.Translated(c.offset)
		nt.ID = c.opts.IDSource()
		if _, err := c.ExecChild(NewAddStrokeText(c.board, &nt)); err != nil {
			return false, err
		}
		selected = append(selected, nt.ID)
	}
	for _, h := range c.snap.Holes {
		nh := h
		nh.ID = c.opts.IDSource()
		nh.Position = h.Position.Add(c.offset)
		if _, err := c.ExecChild(NewAddHole(c.board, &nh)); err != nil {
			return false, err
		}
		selected = append(selected, nh.ID)
	}

	tx.Commit()
	if c.ChildCount() == 0 {
		return false, nil
	}
	c.board.ClearSelection()
	c.board.Select(selected...)
	return true, nil
}

// copyLibrary adds the library device and package of d to the board
// library unless they are already there.
func (c *PasteItems) copyLibrary(d *board.Device) error {
	if c.board.Library.Package(d.LibPackage) == nil {
		pkg := clonePackage(c.snap.LibPackage(d.LibPackage))
		if _, err := c.ExecChild(NewAddLibraryPackage(c.board, pkg)); err != nil {
			return err
		}
	}
	if c.board.Library.Device(d.LibDevice) == nil {
		dev := *c.snap.LibDevice(d.LibDevice)
		if _, err := c.ExecChild(NewAddLibraryDevice(c.board, &dev)); err != nil {
			return err
		}
	}
	return nil
}

func clonePackage(p *component.Package) *component.Package {
	out := &component.Package{ID: p.ID, Name: p.Name}
	for _, fp := range p.Footprints {
		fp.Pads = append([]component.Pad(nil), fp.Pads...)
		out.Footprints = append(out.Footprints, fp)
	}
	return out
}

// referencedPads returns the pads the traces of seg end on, in trace order.
func referencedPads(seg netlist.Segment) []anchor.PadRef {
	seen := make(map[anchor.PadRef]bool)
	var refs []anchor.PadRef
	for _, t := range seg.Traces {
		for _, a := range []anchor.Anchor{t.Start, t.End} {
			if ref, ok := a.TryPad(); ok && !seen[ref] {
				seen[ref] = true
				refs = append(refs, ref)
			}
		}
	}
	return refs
}

func segmentItemIDs(seg netlist.Segment) []uuid.UUID {
	ids := make([]uuid.UUID, 0, seg.ItemCount())
	for _, v := range seg.Vias {
		ids = append(ids, v.ID)
	}
	for _, j := range seg.Junctions {
		ids = append(ids, j.ID)
	}
	for _, t := range seg.Traces {
		ids = append(ids, t.ID)
	}
	return ids
}
