package undo

import (
	stderrors "errors"
	"fmt"

	"pcb-editor/internal/errors"
)

// Transaction guards the children a group executes after Begin. Unless
// Commit is called, Finish undoes them in reverse order and drops them
// from the group.
type Transaction struct {
	group     *Group
	mark      int
	committed bool
}

// Begin starts a transaction over the children executed from now on.
func (g *Group) Begin() *Transaction {
	return &Transaction{group: g, mark: len(g.children)}
}

// Commit disarms the rollback.
func (tx *Transaction) Commit() {
	tx.committed = true
}

// Finish must be deferred right after Begin. It rolls back if the
// transaction was not committed, including when the caller panics. Rollback
// failures are joined onto *errp. Finishing without commit and without an
// error is itself reported as an error.
func (tx *Transaction) Finish(errp *error) {
	if tx.committed {
		return
	}
	if r := recover(); r != nil {
		tx.rollback()
		panic(r)
	}
	if *errp == nil {
		*errp = errors.NewInvalidState("finish transaction of "+tx.group.text, "uncommitted")
	}
	if err := tx.rollback(); err != nil {
		*errp = stderrors.Join(*errp, err)
	}
}

// rollback undoes every child executed since Begin.
func (tx *Transaction) rollback() error {
	g := tx.group
	var errs []error
	for i := len(g.children) - 1; i >= tx.mark; i-- {
		if err := g.children[i].Undo(); err != nil {
			errs = append(errs, fmt.Errorf("rollback %s: %w", g.children[i].Text(), err))
		}
	}
	g.children = g.children[:tx.mark]
	return stderrors.Join(errs...)
}
