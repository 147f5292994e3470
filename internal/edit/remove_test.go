package edit_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"pcb-editor/internal/anchor"
	"pcb-editor/internal/board"
	"pcb-editor/internal/board/boardtest"
	"pcb-editor/internal/edit"
	"pcb-editor/internal/errors"
	"pcb-editor/internal/netlist"
	"pcb-editor/pkg/geometry"
)

func TestRemoveWholeSegment(t *testing.T) {
	c := newChain(t)
	stack := newStack()

	sel := board.Selection{Traces: []uuid.UUID{c.tA.ID, c.tB.ID, c.tC.ID}}
	ok, err := stack.Exec(edit.NewRemoveItems(c.Board, sel, edit.RemoveOptions{}))
	require.NoError(t, err)
	require.True(t, ok)

	require.Empty(t, c.Board.Segments)
	require.Len(t, c.Board.Devices, 2)
}

// Removing the middle trace of the chain leaves two segments of the same
// net, each with fresh ids.
func TestRemoveSplitsSegment(t *testing.T) {
	c := newChain(t)
	stack := newStack()

	_, err := stack.Exec(edit.NewRemoveItems(c.Board, board.Selection{Traces: []uuid.UUID{c.tB.ID}}, edit.RemoveOptions{}))
	require.NoError(t, err)

	require.Len(t, c.Board.Segments, 2)
	require.Nil(t, c.Board.Segment(c.segment.ID))
	for _, s := range c.Board.Segments {
		require.Equal(t, c.net.ID, s.NetSignal)
		require.True(t, netlist.IsConnected(s.Segment))
		require.Len(t, s.Junctions, 1)
		require.Len(t, s.Traces, 1)
		require.False(t, c.Board.Contains(c.tB.ID))
	}
	require.Equal(t, pt(4, 0), c.Board.Segments[0].Junctions[0].Position)
	require.Equal(t, pt(6, 0), c.Board.Segments[1].Junctions[0].Position)
	require.Equal(t, c.Pad(c.r1, 1), c.Board.Segments[0].Traces[0].Start)
	require.Equal(t, c.Pad(c.r2, 0), c.Board.Segments[1].Traces[0].End)
}

func TestRemoveViaTakesItsTraces(t *testing.T) {
	c := newChain(t)
	v := boardtest.Via(-5, 0)
	j := boardtest.Junction(-5, 5)
	tD := boardtest.Trace(c.Pad(c.r1, 0), v.Anchor())
	tE := boardtest.Trace(v.Anchor(), j.Anchor())
	c.Segment(c.Net("N2"), netlist.Segment{
		Vias:      []netlist.Via{v},
		Junctions: []netlist.Junction{j},
		Traces:    []netlist.Trace{tD, tE},
	})

	_, err := newStack().Exec(edit.NewRemoveItems(c.Board, board.Selection{Vias: []uuid.UUID{v.ID}}, edit.RemoveOptions{}))
	require.NoError(t, err)

	// Without vias and traces the segment goes away with its junction.
	require.False(t, c.Board.Contains(tD.ID))
	require.False(t, c.Board.Contains(tE.ID))
	require.False(t, c.Board.Contains(j.ID))
	require.Len(t, c.Board.Segments, 1)
	require.Equal(t, c.segment.ID, c.Board.Segments[0].ID)
}

func TestRemoveDeviceRemovesTraces(t *testing.T) {
	c := newChain(t)

	_, err := newStack().Exec(edit.NewRemoveItems(c.Board, board.Selection{Devices: []uuid.UUID{c.r2.Component}}, edit.RemoveOptions{}))
	require.NoError(t, err)

	require.Nil(t, c.Board.Device(c.r2.Component))
	require.Len(t, c.Board.Segments, 1)
	s := c.Board.Segments[0]
	require.Len(t, s.Traces, 2)
	require.Len(t, s.Junctions, 2)
	require.Empty(t, c.Board.TracesAtDevice(c.r2.Component))
	// R1 still uses the library device.
	require.NotNil(t, c.Board.Library.Device(c.LibDevice.ID))
}

// With KeepDeviceTraces the trace to the removed device stays and ends on
// a new junction where the pad was.
func TestRemoveDeviceKeepTraces(t *testing.T) {
	c := newChain(t)

	opts := edit.RemoveOptions{KeepDeviceTraces: true}
	_, err := newStack().Exec(edit.NewRemoveItems(c.Board, board.Selection{Devices: []uuid.UUID{c.r2.Component}}, opts))
	require.NoError(t, err)

	require.Nil(t, c.Board.Device(c.r2.Component))
	require.Len(t, c.Board.Segments, 1)
	s := c.Board.Segments[0]
	require.Len(t, s.Traces, 3)
	require.Equal(t, []geometry.Point{pt(4, 0), pt(6, 0), pt(9, 0)}, junctionPositions(s))
	require.True(t, netlist.IsConnected(s.Segment))
	require.Empty(t, c.Board.TracesAtDevice(c.r2.Component))

	last := s.Traces[2]
	id, ok := last.End.TryJunction()
	require.True(t, ok)
	require.Equal(t, pt(9, 0), s.Junction(id).Position)
}

func TestRemoveEverythingCleansLibrary(t *testing.T) {
	c := newChain(t)
	stack := newStack()
	before := boardtest.State(t, c.Board)

	_, err := stack.Exec(edit.NewRemoveItems(c.Board, c.Board.All(), edit.RemoveOptions{}))
	require.NoError(t, err)

	require.Empty(t, c.Board.Devices)
	require.Empty(t, c.Board.Segments)
	require.Empty(t, c.Board.Library.Devices)
	require.Empty(t, c.Board.Library.Packages)
	after := boardtest.State(t, c.Board)

	require.NoError(t, stack.Undo())
	require.Equal(t, before, boardtest.State(t, c.Board))
	require.NoError(t, stack.Redo())
	require.Equal(t, after, boardtest.State(t, c.Board))
}

func TestRemoveFootprintText(t *testing.T) {
	c := newChain(t)
	stack := newStack()
	text := c.r1.StrokeTexts[0].ID

	_, err := stack.Exec(edit.NewRemoveItems(c.Board, board.Selection{StrokeTexts: []uuid.UUID{text}}, edit.RemoveOptions{}))
	require.NoError(t, err)
	require.Empty(t, c.Board.Device(c.r1.Component).StrokeTexts)

	require.NoError(t, stack.Undo())
	require.Len(t, c.Board.Device(c.r1.Component).StrokeTexts, 1)
	require.Equal(t, text, c.Board.Device(c.r1.Component).StrokeTexts[0].ID)
}

func TestRemoveDeviceWithItsText(t *testing.T) {
	c := newChain(t)
	sel := board.Selection{
		Devices:     []uuid.UUID{c.r2.Component},
		StrokeTexts: []uuid.UUID{c.r2.StrokeTexts[0].ID},
	}

	_, err := newStack().Exec(edit.NewRemoveItems(c.Board, sel, edit.RemoveOptions{}))
	require.NoError(t, err)
	require.Nil(t, c.Board.Device(c.r2.Component))
}

func TestRemoveMissingItem(t *testing.T) {
	tests := []struct {
		name string
		sel  func(c *chain) board.Selection
	}{
		{"device", func(*chain) board.Selection { return board.Selection{Devices: []uuid.UUID{uuid.New()}} }},
		{"trace", func(*chain) board.Selection { return board.Selection{Traces: []uuid.UUID{uuid.New()}} }},
		{"junction as via", func(c *chain) board.Selection { return board.Selection{Vias: []uuid.UUID{c.j1.ID}} }},
		{"hole", func(*chain) board.Selection { return board.Selection{Holes: []uuid.UUID{uuid.New()}} }},
		{"valid then missing", func(c *chain) board.Selection {
			return board.Selection{Traces: []uuid.UUID{c.tA.ID}, Planes: []uuid.UUID{uuid.New()}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newChain(t)
			stack := newStack()
			before := boardtest.State(t, c.Board)

			_, err := stack.Exec(edit.NewRemoveItems(c.Board, tt.sel(c), edit.RemoveOptions{}))
			require.True(t, errors.Is(err, errors.ErrPrecondition), "got %v", err)
			require.Equal(t, before, boardtest.State(t, c.Board))
			require.Zero(t, stack.Len())
		})
	}
}

func TestRemoveNothing(t *testing.T) {
	c := newChain(t)
	stack := newStack()

	ok, err := stack.Exec(edit.NewRemoveItems(c.Board, board.Selection{}, edit.RemoveOptions{}))
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, stack.Len())
}

func TestRemoveDuplicateSelection(t *testing.T) {
	c := newChain(t)
	sel := board.Selection{Traces: []uuid.UUID{c.tB.ID, c.tB.ID}}

	_, err := newStack().Exec(edit.NewRemoveItems(c.Board, sel, edit.RemoveOptions{}))
	require.NoError(t, err)
	require.Len(t, c.Board.Segments, 2)
}

func TestRemoveUndoRedo(t *testing.T) {
	c := newChain(t)
	stack := newStack()
	before := boardtest.State(t, c.Board)

	sel := board.Selection{Traces: []uuid.UUID{c.tB.ID}, Devices: []uuid.UUID{c.r1.Component}}
	_, err := stack.Exec(edit.NewRemoveItems(c.Board, sel, edit.RemoveOptions{KeepDeviceTraces: true}))
	require.NoError(t, err)
	after := boardtest.State(t, c.Board)
	require.NotEqual(t, before, after)

	for range 3 {
		require.NoError(t, stack.Undo())
		require.Equal(t, before, boardtest.State(t, c.Board))
		require.NoError(t, stack.Redo())
		require.Equal(t, after, boardtest.State(t, c.Board))
	}
}

// A fault after any number of child commands leaves the board untouched.
func TestRemoveRollback(t *testing.T) {
	faults := 0
	for n := 0; ; n++ {
		c := newChain(t)
		before := boardtest.State(t, c.Board)
		sel := board.Selection{Traces: []uuid.UUID{c.tB.ID}, Devices: []uuid.UUID{c.r2.Component}}
		cmd := edit.NewRemoveItems(c.Board, sel, edit.RemoveOptions{KeepDeviceTraces: true, IDSource: panicAfter(n)})

		if !execRecover(t, cmd) {
			require.Nil(t, c.Board.Device(c.r2.Component))
			break
		}
		faults++
		require.Equal(t, before, boardtest.State(t, c.Board), "fault after %d ids", n)
		require.Zero(t, cmd.ChildCount())
	}
	require.Greater(t, faults, 1)
}

func TestRemovePadAnchorsReplacedOnlyForRemovedDevices(t *testing.T) {
	c := newChain(t)

	_, err := newStack().Exec(edit.NewRemoveItems(c.Board, board.Selection{Devices: []uuid.UUID{c.r1.Component}}, edit.RemoveOptions{KeepDeviceTraces: true}))
	require.NoError(t, err)

	s := c.Board.Segments[0]
	require.Equal(t, c.Pad(c.r2, 0), s.Traces[2].End)
	require.NotEqual(t, anchor.KindPad, s.Traces[0].Start.Kind())
}
