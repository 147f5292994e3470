package edit

import (
	"slices"

	"github.com/google/uuid"

	"pcb-editor/internal/board"
	"pcb-editor/internal/errors"
	"pcb-editor/internal/undo"
)

// NewAddDevice returns a command placing d on the board.
func NewAddDevice(b *board.Board, d *board.Device) undo.Command {
	return &addCmd[*board.Device]{
		text:   "Add Device",
		item:   d,
		insert: b.InsertDevice,
		remove: func() (*board.Device, int, error) { return b.RemoveDevice(d.Component) },
	}
}

// NewRemoveDevice returns a command removing the device of a component. It
// fails while traces still end on one of the device's pads.
func NewRemoveDevice(b *board.Board, componentID uuid.UUID) undo.Command {
	return &removeCmd[*board.Device]{
		text:   "Remove Device",
		insert: b.InsertDevice,
		remove: func() (*board.Device, int, error) {
			if traces := b.TracesAtDevice(componentID); len(traces) > 0 {
				return nil, -1, errors.NewPrecondition("device %s still has %d connected traces", componentID, len(traces))
			}
			return b.RemoveDevice(componentID)
		},
	}
}

// NewAddPlane returns a command adding a plane.
func NewAddPlane(b *board.Board, p *board.Plane) undo.Command {
	return &addCmd[*board.Plane]{
		text:   "Add Plane",
		item:   p,
		insert: b.InsertPlane,
		remove: func() (*board.Plane, int, error) { return b.RemovePlane(p.ID) },
	}
}

// NewRemovePlane returns a command removing a plane.
func NewRemovePlane(b *board.Board, id uuid.UUID) undo.Command {
	return &removeCmd[*board.Plane]{
		text:   "Remove Plane",
		insert: b.InsertPlane,
		remove: func() (*board.Plane, int, error) { return b.RemovePlane(id) },
	}
}

// NewAddPolygon returns a command adding a polygon.
func NewAddPolygon(b *board.Board, p *board.Polygon) undo.Command {
	return &addCmd[*board.Polygon]{
		text:   "Add Polygon",
		item:   p,
		insert: b.InsertPolygon,
		remove: func() (*board.Polygon, int, error) { return b.RemovePolygon(p.ID) },
	}
}

// NewRemovePolygon returns a command removing a polygon.
func NewRemovePolygon(b *board.Board, id uuid.UUID) undo.Command {
	return &removeCmd[*board.Polygon]{
		text:   "Remove Polygon",
		insert: b.InsertPolygon,
		remove: func() (*board.Polygon, int, error) { return b.RemovePolygon(id) },
	}
}

// NewAddStrokeText returns a command adding a free stroke text.
func NewAddStrokeText(b *board.Board, t *board.StrokeText) undo.Command {
	return &addCmd[*board.StrokeText]{
		text:   "Add Text",
		item:   t,
		insert: b.InsertStrokeText,
		remove: func() (*board.StrokeText, int, error) { return b.RemoveStrokeText(t.ID) },
	}
}

// NewRemoveStrokeText returns a command removing a free stroke text.
func NewRemoveStrokeText(b *board.Board, id uuid.UUID) undo.Command {
	return &removeCmd[*board.StrokeText]{
		text:   "Remove Text",
		insert: b.InsertStrokeText,
		remove: func() (*board.StrokeText, int, error) { return b.RemoveStrokeText(id) },
	}
}

// NewAddHole returns a command adding a hole.
func NewAddHole(b *board.Board, h *board.Hole) undo.Command {
	return &addCmd[*board.Hole]{
		text:   "Add Hole",
		item:   h,
		insert: b.InsertHole,
		remove: func() (*board.Hole, int, error) { return b.RemoveHole(h.ID) },
	}
}

// NewRemoveHole returns a command removing a hole.
func NewRemoveHole(b *board.Board, id uuid.UUID) undo.Command {
	return &removeCmd[*board.Hole]{
		text:   "Remove Hole",
		insert: b.InsertHole,
		remove: func() (*board.Hole, int, error) { return b.RemoveHole(id) },
	}
}

// NewRemoveFootprintStrokeText returns a command removing a stroke text
// from the footprint of the device it belongs to.
func NewRemoveFootprintStrokeText(b *board.Board, id uuid.UUID) undo.Command {
	var device uuid.UUID
	return &removeCmd[board.StrokeText]{
		text: "Remove Footprint Text",
		insert: func(index int, t board.StrokeText) error {
			d := b.Device(device)
			if d == nil {
				return errors.NewNotFound("device", device.String())
			}
			index = max(0, min(index, len(d.StrokeTexts)))
			d.StrokeTexts = slices.Insert(d.StrokeTexts, index, t)
			return nil
		},
		remove: func() (board.StrokeText, int, error) {
			d, text := b.FootprintText(id)
			if text == nil {
				return board.StrokeText{}, -1, errors.NewNotFound("footprint text", id.String())
			}
			device = d.Component
			for i := range d.StrokeTexts {
				if d.StrokeTexts[i].ID == id {
					t := d.StrokeTexts[i]
					d.StrokeTexts = slices.Delete(d.StrokeTexts, i, i+1)
					return t, i, nil
				}
			}
			return board.StrokeText{}, -1, errors.NewNotFound("footprint text", id.String())
		},
	}
}
