// Package edit provides the board editing commands: primitive add/remove
// commands for every board item and the composite Remove-Items and
// Paste-Items commands built from them.
//
// Every command stores what it created or removed, so redo restores the
// exact state of the first execution without generating new ids.
package edit

// addCmd inserts an item on execute and removes it again on undo.
type addCmd[T any] struct {
	text   string
	item   T
	index  int
	insert func(index int, item T) error
	remove func() (T, int, error)
}

func (c *addCmd[T]) Text() string { return c.text }

func (c *addCmd[T]) PerformExecute() (bool, error) {
	if err := c.insert(-1, c.item); err != nil {
		return false, err
	}
	return true, nil
}

func (c *addCmd[T]) PerformUndo() error {
	_, idx, err := c.remove()
	if err != nil {
		return err
	}
	c.index = idx
	return nil
}

func (c *addCmd[T]) PerformRedo() error {
	return c.insert(c.index, c.item)
}

// removeCmd removes an item on execute and re-inserts it at its former
// index on undo.
type removeCmd[T any] struct {
	text   string
	item   T
	index  int
	insert func(index int, item T) error
	remove func() (T, int, error)
}

func (c *removeCmd[T]) Text() string { return c.text }

func (c *removeCmd[T]) PerformExecute() (bool, error) {
	item, idx, err := c.remove()
	if err != nil {
		return false, err
	}
	c.item, c.index = item, idx
	return true, nil
}

func (c *removeCmd[T]) PerformUndo() error {
	return c.insert(c.index, c.item)
}

func (c *removeCmd[T]) PerformRedo() error {
	_, _, err := c.remove()
	return err
}
