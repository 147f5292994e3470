package edit

import (
	"github.com/google/uuid"

	"pcb-editor/internal/board"
	"pcb-editor/internal/component"
	"pcb-editor/internal/errors"
	"pcb-editor/internal/undo"
)

// NewAddLibraryDevice returns a command copying a device definition into
// the project library.
func NewAddLibraryDevice(b *board.Board, d *component.Device) undo.Command {
	return &addCmd[*component.Device]{
		text: "Add Library Device",
		item: d,
		insert: func(_ int, d *component.Device) error {
			if b.Library.Device(d.ID) != nil {
				return errors.NewPrecondition("library device %s already exists", d.ID)
			}
			b.Library.AddDevice(d)
			return nil
		},
		remove: func() (*component.Device, int, error) { return removeLibraryDevice(b, d.ID) },
	}
}

// NewAddLibraryPackage returns a command copying a package definition into
// the project library.
func NewAddLibraryPackage(b *board.Board, p *component.Package) undo.Command {
	return &addCmd[*component.Package]{
		text: "Add Library Package",
		item: p,
		insert: func(_ int, p *component.Package) error {
			if b.Library.Package(p.ID) != nil {
				return errors.NewPrecondition("library package %s already exists", p.ID)
			}
			b.Library.AddPackage(p)
			return nil
		},
		remove: func() (*component.Package, int, error) { return removeLibraryPackage(b, p.ID) },
	}
}

// The library keeps its lists sorted, so re-adding restores the position
// and the index is not needed.
func removeLibraryDevice(b *board.Board, id uuid.UUID) (*component.Device, int, error) {
	d := b.Library.Device(id)
	if d == nil || !b.Library.RemoveDevice(id) {
		return nil, -1, errors.NewNotFound("library device", id.String())
	}
	return d, 0, nil
}

func removeLibraryPackage(b *board.Board, id uuid.UUID) (*component.Package, int, error) {
	p := b.Library.Package(id)
	if p == nil || !b.Library.RemovePackage(id) {
		return nil, -1, errors.NewNotFound("library package", id.String())
	}
	return p, 0, nil
}

func newRemoveLibraryDevice(b *board.Board, id uuid.UUID) undo.Command {
	return &removeCmd[*component.Device]{
		text:   "Remove Library Device",
		insert: func(_ int, d *component.Device) error { b.Library.AddDevice(d); return nil },
		remove: func() (*component.Device, int, error) { return removeLibraryDevice(b, id) },
	}
}

func newRemoveLibraryPackage(b *board.Board, id uuid.UUID) undo.Command {
	return &removeCmd[*component.Package]{
		text:   "Remove Library Package",
		insert: func(_ int, p *component.Package) error { b.Library.AddPackage(p); return nil },
		remove: func() (*component.Package, int, error) { return removeLibraryPackage(b, id) },
	}
}

// RemoveUnusedLibraryElements drops library devices no placed device uses,
// then packages neither a remaining library device nor a placed device
// uses.
type RemoveUnusedLibraryElements struct {
	undo.Group
	board *board.Board
}

// NewRemoveUnusedLibraryElements creates the cleanup command.
func NewRemoveUnusedLibraryElements(b *board.Board) *RemoveUnusedLibraryElements {
	c := &RemoveUnusedLibraryElements{board: b}
	c.SetText("Remove Unused Library Elements")
	return c
}

// PerformExecute implements undo.Command.
func (c *RemoveUnusedLibraryElements) PerformExecute() (modified bool, err error) {
	tx := c.Begin()
	defer tx.Finish(&err)

	lib := c.board.Library
	usedDevices := make(map[uuid.UUID]bool)
	usedPackages := make(map[uuid.UUID]bool)
	for _, d := range c.board.Devices {
		usedDevices[d.LibDevice] = true
		usedPackages[d.LibPackage] = true
	}

	var unusedDevices []uuid.UUID
	for _, d := range lib.Devices {
		if usedDevices[d.ID] {
			usedPackages[d.Package] = true
		} else {
			unusedDevices = append(unusedDevices, d.ID)
		}
	}
	var unusedPackages []uuid.UUID
	for _, p := range lib.Packages {
		if !usedPackages[p.ID] {
			unusedPackages = append(unusedPackages, p.ID)
		}
	}

	for _, id := range unusedDevices {
		if _, err := c.ExecChild(newRemoveLibraryDevice(c.board, id)); err != nil {
			return false, err
		}
	}
	for _, id := range unusedPackages {
		if _, err := c.ExecChild(newRemoveLibraryPackage(c.board, id)); err != nil {
			return false, err
		}
	}

	tx.Commit()
	return c.ChildCount() > 0, nil
}
