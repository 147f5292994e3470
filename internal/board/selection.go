package board

import (
	"slices"

	"github.com/google/uuid"

	"pcb-editor/internal/errors"
)

// Selection lists board items by kind. Devices are addressed by component
// id. StrokeTexts may name free texts as well as footprint texts.
type Selection struct {
	Devices     []uuid.UUID `json:"devices,omitempty" yaml:"devices,omitempty"`
	Vias        []uuid.UUID `json:"vias,omitempty" yaml:"vias,omitempty"`
	Junctions   []uuid.UUID `json:"junctions,omitempty" yaml:"junctions,omitempty"`
	Traces      []uuid.UUID `json:"traces,omitempty" yaml:"traces,omitempty"`
	Planes      []uuid.UUID `json:"planes,omitempty" yaml:"planes,omitempty"`
	Polygons    []uuid.UUID `json:"polygons,omitempty" yaml:"polygons,omitempty"`
	StrokeTexts []uuid.UUID `json:"stroke_texts,omitempty" yaml:"stroke_texts,omitempty"`
	Holes       []uuid.UUID `json:"holes,omitempty" yaml:"holes,omitempty"`
}

// IDs returns every id of the selection.
func (s Selection) IDs() []uuid.UUID {
	return slices.Concat(s.Devices, s.Vias, s.Junctions, s.Traces, s.Planes, s.Polygons, s.StrokeTexts, s.Holes)
}

// IsEmpty returns true if nothing is selected.
func (s Selection) IsEmpty() bool {
	return len(s.IDs()) == 0
}

// Unique returns a copy without duplicate ids, keeping first occurrences.
func (s Selection) Unique() Selection {
	seen := make(map[uuid.UUID]bool)
	unique := func(ids []uuid.UUID) []uuid.UUID {
		var out []uuid.UUID
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
		return out
	}
	return Selection{
		Devices:     unique(s.Devices),
		Vias:        unique(s.Vias),
		Junctions:   unique(s.Junctions),
		Traces:      unique(s.Traces),
		Planes:      unique(s.Planes),
		Polygons:    unique(s.Polygons),
		StrokeTexts: unique(s.StrokeTexts),
		Holes:       unique(s.Holes),
	}
}

// Select marks items as selected.
func (b *Board) Select(ids ...uuid.UUID) {
	b.Init()
	for _, id := range ids {
		b.selected[id] = true
	}
}

// Deselect clears the selection mark of items.
func (b *Board) Deselect(ids ...uuid.UUID) {
	for _, id := range ids {
		delete(b.selected, id)
	}
}

// ClearSelection deselects everything.
func (b *Board) ClearSelection() {
	clear(b.selected)
}

// IsSelected reports whether an item is selected.
func (b *Board) IsSelected(id uuid.UUID) bool {
	return b.selected[id]
}

// SelectAll selects every item of the board.
func (b *Board) SelectAll() {
	b.Select(b.All().IDs()...)
}

// All returns every item of the board in board order.
func (b *Board) All() Selection {
	return b.collect(func(uuid.UUID) bool { return true })
}

// SelectedItems returns the selected items that still exist, in board order.
func (b *Board) SelectedItems() Selection {
	return b.collect(b.IsSelected)
}

func (b *Board) collect(keep func(uuid.UUID) bool) Selection {
	var sel Selection
	for _, d := range b.Devices {
		if keep(d.Component) {
			sel.Devices = append(sel.Devices, d.Component)
		}
		for _, t := range d.StrokeTexts {
			if keep(t.ID) {
				sel.StrokeTexts = append(sel.StrokeTexts, t.ID)
			}
		}
	}
	for _, s := range b.Segments {
		for _, v := range s.Vias {
			if keep(v.ID) {
				sel.Vias = append(sel.Vias, v.ID)
			}
		}
		for _, j := range s.Junctions {
			if keep(j.ID) {
				sel.Junctions = append(sel.Junctions, j.ID)
			}
		}
		for _, t := range s.Traces {
			if keep(t.ID) {
				sel.Traces = append(sel.Traces, t.ID)
			}
		}
	}
	for _, p := range b.Planes {
		if keep(p.ID) {
			sel.Planes = append(sel.Planes, p.ID)
		}
	}
	for _, p := range b.Polygons {
		if keep(p.ID) {
			sel.Polygons = append(sel.Polygons, p.ID)
		}
	}
	for _, t := range b.StrokeTexts {
		if keep(t.ID) {
			sel.StrokeTexts = append(sel.StrokeTexts, t.ID)
		}
	}
	for _, h := range b.Holes {
		if keep(h.ID) {
			sel.Holes = append(sel.Holes, h.ID)
		}
	}
	return sel
}

// Classify sorts ids into a selection by item kind, in board order. Device
// ids are component ids. Unknown ids are reported as NOT_FOUND.
func (b *Board) Classify(ids []uuid.UUID) (Selection, error) {
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	sel := b.collect(func(id uuid.UUID) bool { return want[id] })
	for _, id := range sel.IDs() {
		delete(want, id)
	}
	for _, id := range ids {
		if want[id] {
			return Selection{}, errors.NewNotFound("board item", id.String())
		}
	}
	return sel, nil
}
