package undo

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"pcb-editor/internal/errors"
)

// model is a trivial board: an ordered list of values plus a journal of
// performed operations.
type model struct {
	values  []int
	journal []string
}

type appendCmd struct {
	m         *model
	value     int
	failExec  bool
	failUndo  bool
	failRedo  bool
	unchanged bool
}

func (c *appendCmd) Text() string { return fmt.Sprintf("append %d", c.value) }

func (c *appendCmd) PerformExecute() (bool, error) {
	if c.failExec {
		return false, errors.NewPrecondition("cannot append %d", c.value)
	}
	if c.unchanged {
		return false, nil
	}
	c.m.values = append(c.m.values, c.value)
	c.m.journal = append(c.m.journal, "exec "+fmt.Sprint(c.value))
	return true, nil
}

func (c *appendCmd) PerformUndo() error {
	if c.failUndo {
		return fmt.Errorf("undo %d failed", c.value)
	}
	c.m.values = c.m.values[:len(c.m.values)-1]
	c.m.journal = append(c.m.journal, "undo "+fmt.Sprint(c.value))
	return nil
}

func (c *appendCmd) PerformRedo() error {
	if c.failRedo {
		return fmt.Errorf("redo %d failed", c.value)
	}
	c.m.values = append(c.m.values, c.value)
	c.m.journal = append(c.m.journal, "redo "+fmt.Sprint(c.value))
	return nil
}

// composite builds its children incrementally and fails at child failAt.
type composite struct {
	Group
	m      *model
	count  int
	failAt int
	panics bool
}

func newComposite(m *model, count, failAt int) *composite {
	c := &composite{m: m, count: count, failAt: failAt}
	c.SetText("composite")
	return c
}

func (c *composite) PerformExecute() (modified bool, err error) {
	tx := c.Begin()
	defer tx.Finish(&err)
	for i := 0; i < c.count; i++ {
		if i == c.failAt && c.panics {
			panic("boom")
		}
		if _, err := c.ExecChild(&appendCmd{m: c.m, value: i, failExec: i == c.failAt}); err != nil {
			return false, err
		}
	}
	tx.Commit()
	return c.ChildCount() > 0, nil
}

func TestTracked_Lifecycle(t *testing.T) {
	m := &model{}
	tr := Track(&appendCmd{m: m, value: 1})

	require.True(t, errors.Is(tr.Undo(), errors.ErrInvalidState))
	require.True(t, errors.Is(tr.Redo(), errors.ErrInvalidState))

	modified, err := tr.Execute()
	require.NoError(t, err)
	require.True(t, modified)
	require.Equal(t, StateExecuted, tr.State())

	_, err = tr.Execute()
	require.True(t, errors.Is(err, errors.ErrInvalidState))
	require.True(t, errors.Is(tr.Redo(), errors.ErrInvalidState))

	require.NoError(t, tr.Undo())
	require.Equal(t, StateUndone, tr.State())
	require.True(t, errors.Is(tr.Undo(), errors.ErrInvalidState))
	require.NoError(t, tr.Redo())
	require.Equal(t, []int{1}, m.values)
}

func TestTracked_FailedExecuteStaysNew(t *testing.T) {
	tr := Track(&appendCmd{m: &model{}, failExec: true})
	_, err := tr.Execute()
	require.True(t, errors.Is(err, errors.ErrPrecondition))
	require.Equal(t, StateNew, tr.State())
}

func TestGroup_Ordering(t *testing.T) {
	m := &model{}
	g := NewGroup("three", &appendCmd{m: m, value: 1}, &appendCmd{m: m, value: 2}, &appendCmd{m: m, value: 3})

	modified, err := g.PerformExecute()
	require.NoError(t, err)
	require.True(t, modified)
	require.NoError(t, g.PerformUndo())
	require.NoError(t, g.PerformRedo())

	require.Equal(t, []string{
		"exec 1", "exec 2", "exec 3",
		"undo 3", "undo 2", "undo 1",
		"redo 1", "redo 2", "redo 3",
	}, m.journal)
	require.Equal(t, []int{1, 2, 3}, m.values)
}

func TestGroup_DiscardsUnchangedChildren(t *testing.T) {
	m := &model{}
	g := NewGroup("mixed", &appendCmd{m: m, value: 1, unchanged: true}, &appendCmd{m: m, value: 2})

	modified, err := g.PerformExecute()
	require.NoError(t, err)
	require.True(t, modified)
	require.Equal(t, 1, g.ChildCount())

	empty := NewGroup("empty", &appendCmd{m: m, unchanged: true})
	modified, err = empty.PerformExecute()
	require.NoError(t, err)
	require.False(t, modified)
}

func TestGroup_RollbackAtomicity(t *testing.T) {
	const total = 6
	for failAt := 0; failAt < total; failAt++ {
		t.Run(fmt.Sprintf("fault after %d of %d", failAt, total), func(t *testing.T) {
			m := &model{values: []int{42}}
			before := slices.Clone(m.values)

			c := newComposite(m, total, failAt)
			_, err := Track(c).Execute()

			require.Error(t, err)
			require.True(t, errors.Is(err, errors.ErrPrecondition))
			require.Equal(t, before, m.values)
			require.Zero(t, c.ChildCount())
		})
	}
}

func TestGroup_RollbackOnPanic(t *testing.T) {
	m := &model{}
	c := newComposite(m, 4, 2)
	c.panics = true

	require.PanicsWithValue(t, "boom", func() { _, _ = c.PerformExecute() })
	require.Empty(t, m.values)
	require.Zero(t, c.ChildCount())
}

func TestTransaction_UncommittedFinishIsAnError(t *testing.T) {
	m := &model{}
	g := NewGroup("forgetful")
	run := func() (err error) {
		tx := g.Begin()
		defer tx.Finish(&err)
		_, err = g.ExecChild(&appendCmd{m: m, value: 7})
		return err
	}

	err := run()
	require.True(t, errors.Is(err, errors.ErrInvalidState))
	require.Empty(t, m.values)
}

func TestTransaction_JoinsRollbackErrors(t *testing.T) {
	m := &model{}
	g := NewGroup("stubborn")
	run := func() (err error) {
		tx := g.Begin()
		defer tx.Finish(&err)
		if _, err := g.ExecChild(&appendCmd{m: m, value: 1, failUndo: true}); err != nil {
			return err
		}
		_, err = g.ExecChild(&appendCmd{m: m, value: 2, failExec: true})
		return err
	}

	err := run()
	require.True(t, errors.Is(err, errors.ErrPrecondition))
	require.ErrorContains(t, err, "rollback append 1")
	require.ErrorContains(t, err, "undo 1 failed")
}

func TestTransaction_NestedMarks(t *testing.T) {
	m := &model{}
	g := NewGroup("nested")
	_, err := g.ExecChild(&appendCmd{m: m, value: 1})
	require.NoError(t, err)

	inner := func() (err error) {
		tx := g.Begin()
		defer tx.Finish(&err)
		if _, err := g.ExecChild(&appendCmd{m: m, value: 2}); err != nil {
			return err
		}
		return fmt.Errorf("give up")
	}
	require.EqualError(t, inner(), "give up")
	require.Equal(t, []int{1}, m.values)
	require.Equal(t, 1, g.ChildCount())
}

func TestGroup_UndoFailureRestoresGroup(t *testing.T) {
	m := &model{}
	g := NewGroup("g", &appendCmd{m: m, value: 1, failUndo: true}, &appendCmd{m: m, value: 2}, &appendCmd{m: m, value: 3})
	_, err := g.PerformExecute()
	require.NoError(t, err)

	require.ErrorContains(t, g.PerformUndo(), "undo 1 failed")
	require.Equal(t, []int{1, 2, 3}, m.values)
}

func TestGroup_RedoFailureRestoresGroup(t *testing.T) {
	m := &model{}
	g := NewGroup("g", &appendCmd{m: m, value: 1}, &appendCmd{m: m, value: 2}, &appendCmd{m: m, value: 3, failRedo: true})
	_, err := g.PerformExecute()
	require.NoError(t, err)
	require.NoError(t, g.PerformUndo())

	require.ErrorContains(t, g.PerformRedo(), "redo 3 failed")
	require.Empty(t, m.values)
}

func TestStack_ExecUndoRedo(t *testing.T) {
	m := &model{}
	s := NewStack(nil, 0)
	changes := 0
	s.OnChange(func() { changes++ })

	require.False(t, s.CanUndo())
	require.True(t, s.IsClean())

	_, err := s.Exec(&appendCmd{m: m, value: 1})
	require.NoError(t, err)
	_, err = s.Exec(&appendCmd{m: m, value: 2})
	require.NoError(t, err)
	require.Equal(t, "append 2", s.UndoText())
	require.False(t, s.IsClean())

	require.NoError(t, s.Undo())
	require.Equal(t, "append 2", s.RedoText())
	require.Equal(t, []int{1}, m.values)
	require.NoError(t, s.Redo())
	require.Equal(t, []int{1, 2}, m.values)

	require.NoError(t, s.Undo())
	_, err = s.Exec(&appendCmd{m: m, value: 3})
	require.NoError(t, err)
	require.False(t, s.CanRedo(), "redo tail dropped")
	require.Equal(t, 2, s.Len())
	require.Equal(t, []int{1, 3}, m.values)
	require.Equal(t, 6, changes)

	require.True(t, errors.Is(s.Redo(), errors.ErrInvalidState))
}

func TestStack_DiscardsNoOp(t *testing.T) {
	s := NewStack(nil, 0)
	modified, err := s.Exec(&appendCmd{m: &model{}, unchanged: true})
	require.NoError(t, err)
	require.False(t, modified)
	require.Zero(t, s.Len())
}

func TestStack_FailedExecLeavesHistory(t *testing.T) {
	m := &model{}
	s := NewStack(nil, 0)
	_, err := s.Exec(newComposite(m, 3, 1))
	require.True(t, errors.Is(err, errors.ErrPrecondition))
	require.Zero(t, s.Len())
	require.Empty(t, m.values)
}

func TestStack_Limit(t *testing.T) {
	m := &model{}
	s := NewStack(nil, 2)
	s.SetClean()
	for i := 1; i <= 3; i++ {
		_, err := s.Exec(&appendCmd{m: m, value: i})
		require.NoError(t, err)
	}
	require.Equal(t, 2, s.Len())
	require.NoError(t, s.Undo())
	require.NoError(t, s.Undo())
	require.False(t, s.CanUndo())
	require.Equal(t, []int{1}, m.values)
	require.False(t, s.IsClean(), "clean state was dropped with the oldest entry")
}

func TestStack_CleanState(t *testing.T) {
	m := &model{}
	s := NewStack(nil, 0)
	_, err := s.Exec(&appendCmd{m: m, value: 1})
	require.NoError(t, err)
	s.SetClean()
	require.True(t, s.IsClean())

	require.NoError(t, s.Undo())
	require.False(t, s.IsClean())
	require.NoError(t, s.Redo())
	require.True(t, s.IsClean())

	require.NoError(t, s.Undo())
	_, err = s.Exec(&appendCmd{m: m, value: 2})
	require.NoError(t, err)
	require.False(t, s.IsClean())
	require.NoError(t, s.Undo())
	require.False(t, s.IsClean(), "clean position was in the dropped tail")
}

func TestStack_Groups(t *testing.T) {
	m := &model{}
	s := NewStack(nil, 0)

	require.NoError(t, s.BeginGroup("drag"))
	require.True(t, errors.Is(s.BeginGroup("again"), errors.ErrInvalidState))
	_, err := s.Exec(&appendCmd{m: m, value: 9})
	require.True(t, errors.Is(err, errors.ErrInvalidState))
	require.True(t, errors.Is(s.Undo(), errors.ErrInvalidState))

	_, err = s.AppendToGroup(&appendCmd{m: m, value: 1})
	require.NoError(t, err)
	_, err = s.AppendToGroup(&appendCmd{m: m, value: 2})
	require.NoError(t, err)
	require.False(t, s.IsClean())

	committed, err := s.CommitGroup()
	require.NoError(t, err)
	require.True(t, committed)
	require.Equal(t, "drag", s.UndoText())

	require.NoError(t, s.Undo())
	require.Empty(t, m.values)
	require.NoError(t, s.Redo())
	require.Equal(t, []int{1, 2}, m.values)

	require.NoError(t, s.BeginGroup("aborted"))
	_, err = s.AppendToGroup(&appendCmd{m: m, value: 3})
	require.NoError(t, err)
	require.NoError(t, s.AbortGroup())
	require.Equal(t, []int{1, 2}, m.values)
	require.Equal(t, 1, s.Len())

	require.NoError(t, s.BeginGroup("empty"))
	committed, err = s.CommitGroup()
	require.NoError(t, err)
	require.False(t, committed)

	_, err = s.CommitGroup()
	require.True(t, errors.Is(err, errors.ErrInvalidState))
	_, err = s.AppendToGroup(&appendCmd{m: m})
	require.True(t, errors.Is(err, errors.ErrInvalidState))
}

func TestStack_Clear(t *testing.T) {
	m := &model{}
	s := NewStack(nil, 0)
	_, err := s.Exec(&appendCmd{m: m, value: 1})
	require.NoError(t, err)
	require.NoError(t, s.BeginGroup("open"))
	_, err = s.AppendToGroup(&appendCmd{m: m, value: 2})
	require.NoError(t, err)

	require.NoError(t, s.Clear())
	require.Zero(t, s.Len())
	require.False(t, s.IsGroupActive())
	require.Equal(t, []int{1}, m.values)
	require.False(t, s.IsClean())
}

func TestStack_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewStack(zap.New(core), 0)
	m := &model{}

	_, err := s.Exec(&appendCmd{m: m, value: 1})
	require.NoError(t, err)
	require.NoError(t, s.Undo())

	entries := logs.FilterField(zap.String("command", "append 1")).All()
	require.Len(t, entries, 2)
	require.Equal(t, "command executed", entries[0].Message)
	require.Equal(t, "command undone", entries[1].Message)
}
