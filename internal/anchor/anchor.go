// Package anchor defines the connection points a trace can end on.
//
// An Anchor is a closed variant: a footprint pad (owned by its device), a via
// or a free junction (both owned by their net segment). Anchors are plain
// comparable values, so they can be used directly as map keys when building
// connectivity graphs.
package anchor

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind identifies the variant of an Anchor.
type Kind int

const (
	KindJunction Kind = iota
	KindVia
	KindPad
)

func (k Kind) String() string {
	switch k {
	case KindJunction:
		return "Junction"
	case KindVia:
		return "Via"
	case KindPad:
		return "Pad"
	default:
		return "Unknown"
	}
}

// PadRef addresses a footprint pad by owning device and pad id.
type PadRef struct {
	Device uuid.UUID `json:"device" yaml:"device"`
	Pad    uuid.UUID `json:"pad" yaml:"pad"`
}

func (r PadRef) String() string {
	return fmt.Sprintf("%s/%s", r.Device, r.Pad)
}

// Anchor is one end of a trace.
type Anchor struct {
	kind Kind
	id   uuid.UUID // via or junction id
	pad  PadRef
}

// Junction returns an anchor referencing a junction.
func Junction(id uuid.UUID) Anchor {
	return Anchor{kind: KindJunction, id: id}
}

// Via returns an anchor referencing a via.
func Via(id uuid.UUID) Anchor {
	return Anchor{kind: KindVia, id: id}
}

// Pad returns an anchor referencing a pad of a device.
func Pad(device, pad uuid.UUID) Anchor {
	return Anchor{kind: KindPad, pad: PadRef{Device: device, Pad: pad}}
}

// Kind returns the variant of the anchor.
func (a Anchor) Kind() Kind {
	return a.kind
}

// TryJunction returns the junction id if the anchor is a junction.
func (a Anchor) TryJunction() (uuid.UUID, bool) {
	if a.kind != KindJunction {
		return uuid.Nil, false
	}
	return a.id, true
}

// TryVia returns the via id if the anchor is a via.
func (a Anchor) TryVia() (uuid.UUID, bool) {
	if a.kind != KindVia {
		return uuid.Nil, false
	}
	return a.id, true
}

// TryPad returns the pad reference if the anchor is a pad.
func (a Anchor) TryPad() (PadRef, bool) {
	if a.kind != KindPad {
		return PadRef{}, false
	}
	return a.pad, true
}

// IsZero reports whether the anchor references nothing.
func (a Anchor) IsZero() bool {
	return a == Anchor{}
}

func (a Anchor) String() string {
	switch a.kind {
	case KindJunction:
		return "junction:" + a.id.String()
	case KindVia:
		return "via:" + a.id.String()
	case KindPad:
		return "pad:" + a.pad.String()
	default:
		return "unknown"
	}
}

// Equal reports whether both anchors reference the same connection point.
func (a Anchor) Equal(other Anchor) bool {
	return a == other
}
