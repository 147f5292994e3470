package component

import (
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"

	"pcb-editor/pkg/geometry"
)

// Pad defines a single footprint pad.
type Pad struct {
	ID     uuid.UUID      `json:"id" yaml:"id"`
	Name   string         `json:"name" yaml:"name"`
	Offset geometry.Point `json:"offset" yaml:"offset"` // Position relative to the footprint origin
}

// Footprint is one land pattern variant of a package.
type Footprint struct {
	ID   uuid.UUID `json:"id" yaml:"id"`
	Name string    `json:"name" yaml:"name"`
	Pads []Pad     `json:"pads" yaml:"pads"`
}

// Pad returns the pad with the given id, or nil.
func (f *Footprint) Pad(id uuid.UUID) *Pad {
	for i := range f.Pads {
		if f.Pads[i].ID == id {
			return &f.Pads[i]
		}
	}
	return nil
}

// Package defines a physical package (e.g., DIP-20) and its footprints.
type Package struct {
	ID         uuid.UUID   `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Footprints []Footprint `json:"footprints" yaml:"footprints"`
}

// Footprint returns the footprint with the given id, or nil.
func (p *Package) Footprint(id uuid.UUID) *Footprint {
	for i := range p.Footprints {
		if p.Footprints[i].ID == id {
			return &p.Footprints[i]
		}
	}
	return nil
}

// Device defines a library device: a part bound to a package.
type Device struct {
	ID      uuid.UUID `json:"id" yaml:"id"`
	Name    string    `json:"name" yaml:"name"` // e.g., "74LS244"
	Package uuid.UUID `json:"package" yaml:"package"`
}

// Library stores the device and package definitions used by a project.
// Both lists are kept sorted by name, so removing and re-adding an element
// restores the previous order.
type Library struct {
	Devices  []*Device  `json:"devices,omitempty"`
	Packages []*Package `json:"packages,omitempty"`
}

// NewLibrary creates a new empty library.
func NewLibrary() *Library {
	return &Library{}
}

// AddDevice adds or replaces a device definition.
func (lib *Library) AddDevice(d *Device) {
	for i, existing := range lib.Devices {
		if existing.ID == d.ID {
			lib.Devices[i] = d
			lib.Sort()
			return
		}
	}
	lib.Devices = append(lib.Devices, d)
	lib.Sort()
}

// RemoveDevice removes a device definition by id. It reports whether the
// device existed.
func (lib *Library) RemoveDevice(id uuid.UUID) bool {
	for i, d := range lib.Devices {
		if d.ID == id {
			lib.Devices = slices.Delete(lib.Devices, i, i+1)
			return true
		}
	}
	return false
}

// Device returns a device definition by id, or nil if not found.
func (lib *Library) Device(id uuid.UUID) *Device {
	if lib == nil {
		return nil
	}
	for _, d := range lib.Devices {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// AddPackage adds or replaces a package definition.
func (lib *Library) AddPackage(p *Package) {
	for i, existing := range lib.Packages {
		if existing.ID == p.ID {
			lib.Packages[i] = p
			lib.Sort()
			return
		}
	}
	lib.Packages = append(lib.Packages, p)
	lib.Sort()
}

// RemovePackage removes a package definition by id. It reports whether the
// package existed.
func (lib *Library) RemovePackage(id uuid.UUID) bool {
	for i, p := range lib.Packages {
		if p.ID == id {
			lib.Packages = slices.Delete(lib.Packages, i, i+1)
			return true
		}
	}
	return false
}

// Package returns a package definition by id, or nil if not found.
func (lib *Library) Package(id uuid.UUID) *Package {
	if lib == nil {
		return nil
	}
	for _, p := range lib.Packages {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FindDeviceByName looks up a device definition by name (case-insensitive).
func (lib *Library) FindDeviceByName(name string) *Device {
	name = strings.TrimSpace(name)
	for _, d := range lib.Devices {
		if strings.EqualFold(d.Name, name) {
			return d
		}
	}
	return nil
}

// Sort sorts devices and packages by name (case-insensitive), then by id.
func (lib *Library) Sort() {
	sort.Slice(lib.Devices, func(i, j int) bool {
		return less(lib.Devices[i].Name, lib.Devices[i].ID, lib.Devices[j].Name, lib.Devices[j].ID)
	})
	sort.Slice(lib.Packages, func(i, j int) bool {
		return less(lib.Packages[i].Name, lib.Packages[i].ID, lib.Packages[j].Name, lib.Packages[j].ID)
	})
}

func less(nameA string, idA uuid.UUID, nameB string, idB uuid.UUID) bool {
	a, b := strings.ToLower(nameA), strings.ToLower(nameB)
	if a != b {
		return a < b
	}
	return idA.String() < idB.String()
}
