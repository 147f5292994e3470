package netlist

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"

	"pcb-editor/internal/anchor"
	"pcb-editor/pkg/geometry"
)

// Splitter partitions the items of a net segment into connected segments.
//
// Feed it the items of one segment, optionally mark some of them as removed
// and register pads whose device will not exist afterwards, then call Split.
// Pads are graph leaves: two traces ending on the same pad stay connected.
type Splitter struct {
	newID func() uuid.UUID

	vias         []Via
	viaToJunc    map[uuid.UUID]bool
	junctions    []Junction
	traces       []Trace
	removed      map[uuid.UUID]bool
	padPositions map[anchor.PadRef]geometry.Point
}

// NewSplitter creates an empty splitter.
func NewSplitter() *Splitter {
	return &Splitter{
		newID:        uuid.New,
		viaToJunc:    make(map[uuid.UUID]bool),
		removed:      make(map[uuid.UUID]bool),
		padPositions: make(map[anchor.PadRef]geometry.Point),
	}
}

// WithIDSource sets the generator for ids of junctions created by pad
// replacement.
func (s *Splitter) WithIDSource(fn func() uuid.UUID) *Splitter {
	s.newID = fn
	return s
}

// ReplacePadByJunction makes every trace ending on pad end on a new junction
// at pos instead. Use it for pads whose device is going away while their
// traces stay.
func (s *Splitter) ReplacePadByJunction(pad anchor.PadRef, pos geometry.Point) {
	s.padPositions[pad] = pos
}

// AddVia adds a via. If replaceByJunction is set, the via is converted into
// a junction with the same id and position.
func (s *Splitter) AddVia(v Via, replaceByJunction bool) {
	s.vias = append(s.vias, v)
	if replaceByJunction {
		s.viaToJunc[v.ID] = true
	}
}

// AddJunction adds a junction.
func (s *Splitter) AddJunction(j Junction) {
	s.junctions = append(s.junctions, j)
}

// AddTrace adds a trace.
func (s *Splitter) AddTrace(t Trace) {
	s.traces = append(s.traces, t)
}

// AddSegment adds all items of seg.
func (s *Splitter) AddSegment(seg Segment) {
	for _, v := range seg.Vias {
		s.AddVia(v, false)
	}
	for _, j := range seg.Junctions {
		s.AddJunction(j)
	}
	for _, t := range seg.Traces {
		s.AddTrace(t)
	}
}

// Remove marks vias, junctions or traces as removed.
func (s *Splitter) Remove(ids ...uuid.UUID) {
	for _, id := range ids {
		s.removed[id] = true
	}
}

// Split returns one Segment per connected component of the surviving items,
// in discovery order. Discovery starts from trace start anchors in input
// order, then from remaining vias, then from remaining junctions. Items keep
// their input order within each Segment. Net identity is left to the caller.
func (s *Splitter) Split() []Segment {
	vias, junctions, traces := s.survivors()
	junctions, traces = s.replaceAnchors(vias, junctions, traces)
	vias = s.keptVias(vias)

	g := simple.NewUndirectedGraph()
	nodes := make(map[anchor.Anchor]int64)
	node := func(a anchor.Anchor) simple.Node {
		id, ok := nodes[a]
		if !ok {
			id = int64(len(nodes))
			nodes[a] = id
			g.AddNode(simple.Node(id))
		}
		return simple.Node(id)
	}
	for _, v := range vias {
		node(v.Anchor())
	}
	for _, j := range junctions {
		node(j.Anchor())
	}
	for _, t := range traces {
		from, to := node(t.Start), node(t.End)
		if from != to {
			g.SetEdge(g.NewEdge(from, to))
		}
	}

	var starts []anchor.Anchor
	for _, t := range traces {
		starts = append(starts, t.Start)
	}
	for _, v := range vias {
		starts = append(starts, v.Anchor())
	}
	for _, j := range junctions {
		starts = append(starts, j.Anchor())
	}

	component := make(map[int64]int, len(nodes))
	current := 0
	bf := traverse.BreadthFirst{
		Visit: func(n graph.Node) { component[n.ID()] = current },
	}
	count := 0
	for _, a := range starts {
		start := simple.Node(nodes[a])
		if bf.Visited(start) {
			continue
		}
		current = count
		count++
		bf.Walk(g, start, nil)
	}

	segments := make([]Segment, count)
	for _, v := range vias {
		c := component[nodes[v.Anchor()]]
		segments[c].Vias = append(segments[c].Vias, v)
	}
	for _, j := range junctions {
		c := component[nodes[j.Anchor()]]
		segments[c].Junctions = append(segments[c].Junctions, j)
	}
	for _, t := range traces {
		c := component[nodes[t.Start]]
		segments[c].Traces = append(segments[c].Traces, t)
	}
	return segments
}

// survivors drops removed items and every trace whose via or junction
// anchor does not survive. Pads are owned elsewhere and always count as
// present.
func (s *Splitter) survivors() ([]Via, []Junction, []Trace) {
	present := make(map[anchor.Anchor]bool)
	var vias []Via
	for _, v := range s.vias {
		if s.removed[v.ID] {
			continue
		}
		vias = append(vias, v)
		present[v.Anchor()] = true
	}
	var junctions []Junction
	for _, j := range s.junctions {
		if s.removed[j.ID] {
			continue
		}
		junctions = append(junctions, j)
		present[j.Anchor()] = true
	}
	exists := func(a anchor.Anchor) bool {
		switch a.Kind() {
		case anchor.KindPad:
			return true
		case anchor.KindVia, anchor.KindJunction:
			return present[a]
		default:
			return false
		}
	}
	var traces []Trace
	for _, t := range s.traces {
		if s.removed[t.ID] || !exists(t.Start) || !exists(t.End) {
			continue
		}
		traces = append(traces, t)
	}
	return vias, junctions, traces
}

// replaceAnchors converts flagged vias and registered pads into junctions
// and rewrites trace endpoints accordingly. Pad junctions are only created
// for pads that a surviving trace still ends on.
func (s *Splitter) replaceAnchors(vias []Via, junctions []Junction, traces []Trace) ([]Junction, []Trace) {
	replaced := make(map[anchor.Anchor]anchor.Anchor)
	for _, v := range vias {
		if s.viaToJunc[v.ID] {
			j := Junction{ID: v.ID, Position: v.Position}
			junctions = append(junctions, j)
			replaced[v.Anchor()] = j.Anchor()
		}
	}
	mapAnchor := func(a anchor.Anchor) anchor.Anchor {
		if r, ok := replaced[a]; ok {
			return r
		}
		switch a.Kind() {
		case anchor.KindPad:
			ref, _ := a.TryPad()
			pos, ok := s.padPositions[ref]
			if !ok {
				return a
			}
			j := Junction{ID: s.newID(), Position: pos}
			junctions = append(junctions, j)
			replaced[a] = j.Anchor()
			return j.Anchor()
		case anchor.KindVia, anchor.KindJunction:
			return a
		default:
			return a
		}
	}
	out := make([]Trace, len(traces))
	for i, t := range traces {
		t.Start = mapAnchor(t.Start)
		t.End = mapAnchor(t.End)
		out[i] = t
	}
	return junctions, out
}

// keptVias drops vias that were converted into junctions.
func (s *Splitter) keptVias(vias []Via) []Via {
	var kept []Via
	for _, v := range vias {
		if !s.viaToJunc[v.ID] {
			kept = append(kept, v)
		}
	}
	return kept
}

// IsConnected reports whether the items of seg form at most one connected
// component (pads counted as leaves).
func IsConnected(seg Segment) bool {
	s := NewSplitter()
	s.AddSegment(seg)
	return len(s.Split()) <= 1
}
