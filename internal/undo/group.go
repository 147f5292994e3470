package undo

import (
	stderrors "errors"
	"fmt"
)

// Group is an ordered composite of child commands executed, undone and
// redone as one unit. It owns its children.
//
// A plain group executes the children passed to NewGroup. Composite
// commands embed a Group and build their children incrementally inside
// their own PerformExecute with ExecChild, guarded by a Transaction:
//
//	func (c *MyCmd) PerformExecute() (modified bool, err error) {
//		tx := c.Begin()
//		defer tx.Finish(&err)
//		if _, err := c.ExecChild(step1); err != nil {
//			return false, err
//		}
//		tx.Commit()
//		return c.ChildCount() > 0, nil
//	}
type Group struct {
	text     string
	pending  []Command
	children []*Tracked
}

// NewGroup creates a group that executes cmds in order.
func NewGroup(text string, cmds ...Command) *Group {
	return &Group{text: text, pending: cmds}
}

// Text implements Command.
func (g *Group) Text() string { return g.text }

// SetText changes the history text of the group.
func (g *Group) SetText(text string) { g.text = text }

// ChildCount returns the number of executed children kept by the group.
func (g *Group) ChildCount() int { return len(g.children) }

// Children returns the children kept by the group in insertion order.
func (g *Group) Children() []Command {
	cmds := make([]Command, len(g.children))
	for i, c := range g.children {
		cmds[i] = c.cmd
	}
	return cmds
}

// ExecChild executes cmd and appends it to the group. A child reporting
// no change is discarded. On error nothing is appended.
func (g *Group) ExecChild(cmd Command) (bool, error) {
	t := Track(cmd)
	modified, err := t.Execute()
	if err != nil {
		return false, fmt.Errorf("%s: %w", cmd.Text(), err)
	}
	if !modified {
		return false, nil
	}
	g.children = append(g.children, t)
	return true, nil
}

// PerformExecute executes the commands given to NewGroup. If one fails,
// the ones already executed are rolled back.
func (g *Group) PerformExecute() (modified bool, err error) {
	tx := g.Begin()
	defer tx.Finish(&err)
	for _, cmd := range g.pending {
		if _, err := g.ExecChild(cmd); err != nil {
			return false, err
		}
	}
	g.pending = nil
	tx.Commit()
	return len(g.children) > 0, nil
}

// PerformUndo undoes the children in reverse order. If a child fails, the
// children already undone are redone and the error is returned.
func (g *Group) PerformUndo() error {
	for i := len(g.children) - 1; i >= 0; i-- {
		if err := g.children[i].Undo(); err != nil {
			var errs []error
			for _, c := range g.children[i+1:] {
				if rerr := c.Redo(); rerr != nil {
					errs = append(errs, rerr)
				}
			}
			return joinRecovery(err, errs)
		}
	}
	return nil
}

// PerformRedo redoes the children in order. If a child fails, the children
// already redone are undone again and the error is returned.
func (g *Group) PerformRedo() error {
	for i, c := range g.children {
		if err := c.Redo(); err != nil {
			var errs []error
			for j := i - 1; j >= 0; j-- {
				if uerr := g.children[j].Undo(); uerr != nil {
					errs = append(errs, uerr)
				}
			}
			return joinRecovery(err, errs)
		}
	}
	return nil
}

func joinRecovery(err error, recoveryErrs []error) error {
	if len(recoveryErrs) == 0 {
		return err
	}
	return stderrors.Join(err, fmt.Errorf("recovery failed: %w", stderrors.Join(recoveryErrs...)))
}
