package edit_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pcb-editor/internal/anchor"
	"pcb-editor/internal/board"
	"pcb-editor/internal/board/boardtest"
	"pcb-editor/internal/netlist"
	"pcb-editor/internal/undo"
	"pcb-editor/pkg/geometry"
)

// chain is a board with R1 at the origin and R2 at 10mm, connected on net
// N1 by R1.2 -tA- J1 -tB- J2 -tC- R2.1.
type chain struct {
	*boardtest.Fixture
	r1, r2     *board.Device
	j1, j2     netlist.Junction
	tA, tB, tC netlist.Trace
	net        *netlist.NetSignal
	segment    *board.NetSegment
}

func newChain(t testing.TB) *chain {
	f := boardtest.New(t)
	c := &chain{Fixture: f}
	c.r1 = f.Place("R1", geometry.Point{})
	c.r2 = f.Place("R2", pt(10, 0))
	c.j1 = boardtest.Junction(4, 0)
	c.j2 = boardtest.Junction(6, 0)
	c.tA = boardtest.Trace(f.Pad(c.r1, 1), c.j1.Anchor())
	c.tB = boardtest.Trace(c.j1.Anchor(), c.j2.Anchor())
	c.tC = boardtest.Trace(c.j2.Anchor(), f.Pad(c.r2, 0))
	c.net = f.Net("N1")
	c.segment = f.Segment(c.net, netlist.Segment{
		Junctions: []netlist.Junction{c.j1, c.j2},
		Traces:    []netlist.Trace{c.tA, c.tB, c.tC},
	})
	return c
}

func pt(x, y float64) geometry.Point {
	return geometry.Point{X: geometry.Mm(x), Y: geometry.Mm(y)}
}

func newStack() *undo.Stack {
	return undo.NewStack(zap.NewNop(), undo.DefaultLimit)
}

func junctionPositions(s *board.NetSegment) []geometry.Point {
	var out []geometry.Point
	for _, j := range s.Junctions {
		out = append(out, j.Position)
	}
	return out
}

func hasPadAnchor(s *board.NetSegment) bool {
	for _, t := range s.Traces {
		if t.Start.Kind() == anchor.KindPad || t.End.Kind() == anchor.KindPad {
			return true
		}
	}
	return false
}

func segmentIDs(s *board.NetSegment) []uuid.UUID {
	ids := []uuid.UUID{s.ID}
	for _, v := range s.Vias {
		ids = append(ids, v.ID)
	}
	for _, j := range s.Junctions {
		ids = append(ids, j.ID)
	}
	for _, t := range s.Traces {
		ids = append(ids, t.ID)
	}
	return ids
}

// panicAfter returns an id source that panics on call n.
func panicAfter(n int) func() uuid.UUID {
	calls := 0
	return func() uuid.UUID {
		if calls == n {
			panic("id source exhausted")
		}
		calls++
		return uuid.New()
	}
}

// execRecover executes cmd and reports whether it panicked.
func execRecover(t *testing.T, cmd undo.Command) (panicked bool) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			panicked = true
		}
	}()
	_, err := undo.Track(cmd).Execute()
	require.NoError(t, err)
	return false
}
