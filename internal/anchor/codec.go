package anchor

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// wireAnchor is the serialized form: exactly one of {junction}, {via} or
// {device, pad} is set.
type wireAnchor struct {
	Junction *uuid.UUID `json:"junction,omitempty" yaml:"junction,omitempty"`
	Via      *uuid.UUID `json:"via,omitempty" yaml:"via,omitempty"`
	Device   *uuid.UUID `json:"device,omitempty" yaml:"device,omitempty"`
	Pad      *uuid.UUID `json:"pad,omitempty" yaml:"pad,omitempty"`
}

func (a Anchor) toWire() wireAnchor {
	switch a.kind {
	case KindJunction:
		id := a.id
		return wireAnchor{Junction: &id}
	case KindVia:
		id := a.id
		return wireAnchor{Via: &id}
	case KindPad:
		dev, pad := a.pad.Device, a.pad.Pad
		return wireAnchor{Device: &dev, Pad: &pad}
	default:
		return wireAnchor{}
	}
}

func (w wireAnchor) toAnchor() (Anchor, error) {
	switch {
	case w.Junction != nil && w.Via == nil && w.Device == nil && w.Pad == nil:
		return Junction(*w.Junction), nil
	case w.Via != nil && w.Junction == nil && w.Device == nil && w.Pad == nil:
		return Via(*w.Via), nil
	case w.Device != nil && w.Pad != nil && w.Junction == nil && w.Via == nil:
		return Pad(*w.Device, *w.Pad), nil
	default:
		return Anchor{}, fmt.Errorf("anchor: need exactly one of junction, via or device+pad")
	}
}

// MarshalJSON implements json.Marshaler.
func (a Anchor) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.toWire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Anchor) UnmarshalJSON(data []byte) error {
	var w wireAnchor
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	parsed, err := w.toAnchor()
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a Anchor) MarshalYAML() (interface{}, error) {
	return a.toWire(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Anchor) UnmarshalYAML(value *yaml.Node) error {
	var w wireAnchor
	if err := value.Decode(&w); err != nil {
		return err
	}
	parsed, err := w.toAnchor()
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
