package board

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"pcb-editor/pkg/geometry"
)

// Layers used by form factor templates.
const (
	OutlineLayer = "board_outline"
	ContactLayer = "top_cu"
)

const inch = 25_400 * geometry.Micrometre

func inches(v float64) geometry.Length {
	return geometry.Length(v * float64(inch))
}

// Edge specifies which edge of the board carries the edge contacts.
type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
)

// ContactSpec defines a row of edge connector fingers.
type ContactSpec struct {
	Edge   Edge
	Count  int             // per side
	Pitch  geometry.Length // center-to-center
	Width  geometry.Length
	Height geometry.Length // length into the board
	Margin geometry.Length // board edge to first contact center
}

// HoleSpec defines a mounting or ejector hole, measured from the top left
// corner of the board.
type HoleSpec struct {
	Name     string
	X, Y     geometry.Length
	Diameter geometry.Length
}

// FormFactor is a standard card outline a new board can start from.
type FormFactor struct {
	Key      string
	Name     string
	Width    geometry.Length
	Height   geometry.Length
	Contacts *ContactSpec
	Holes    []HoleSpec
}

// Validate checks the dimensions and the contact row.
func (f *FormFactor) Validate() error {
	if f.Key == "" {
		return fmt.Errorf("form factor key is required")
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("form factor %s: dimensions must be positive", f.Key)
	}
	if c := f.Contacts; c != nil {
		if c.Count <= 0 || c.Pitch <= 0 {
			return fmt.Errorf("form factor %s: contact count and pitch must be positive", f.Key)
		}
		if c.Margin+geometry.Length(c.Count-1)*c.Pitch+c.Width/2 > f.Width {
			return fmt.Errorf("form factor %s: contacts exceed board width", f.Key)
		}
	}
	return nil
}

// Apply adds the board outline, the edge contact fingers and the holes to
// b. The origin is the bottom left corner.
func (f *FormFactor) Apply(b *Board) {
	w, h := f.Width, f.Height
	b.Polygons = append(b.Polygons, &Polygon{
		ID:        uuid.New(),
		Layer:     OutlineLayer,
		LineWidth: geometry.Mm(0.2),
		Outline: geometry.NewPath(
			geometry.Point{}, geometry.Point{X: w}, geometry.Point{X: w, Y: h},
			geometry.Point{Y: h}, geometry.Point{},
		),
	})
	if c := f.Contacts; c != nil {
		y0 := geometry.Length(0)
		if c.Edge == EdgeTop {
			y0 = h - c.Height
		}
		for i := 0; i < c.Count; i++ {
			x0 := c.Margin + geometry.Length(i)*c.Pitch - c.Width/2
			b.Polygons = append(b.Polygons, &Polygon{
				ID:     uuid.New(),
				Layer:  ContactLayer,
				Filled: true,
				Outline: geometry.NewPath(
					geometry.Point{X: x0, Y: y0}, geometry.Point{X: x0 + c.Width, Y: y0},
					geometry.Point{X: x0 + c.Width, Y: y0 + c.Height}, geometry.Point{X: x0, Y: y0 + c.Height},
					geometry.Point{X: x0, Y: y0},
				),
			})
		}
	}
	for _, hs := range f.Holes {
		b.Holes = append(b.Holes, &Hole{
			ID:       uuid.New(),
			Position: geometry.Point{X: hs.X, Y: h - hs.Y},
			Diameter: hs.Diameter,
		})
	}
}

var formFactors = make(map[string]*FormFactor)

// RegisterFormFactor adds a form factor to the registry.
func RegisterFormFactor(f *FormFactor) {
	formFactors[strings.ToLower(f.Key)] = f
}

// LookupFormFactor returns the form factor registered under key, or nil.
func LookupFormFactor(key string) *FormFactor {
	return formFactors[strings.ToLower(key)]
}

// FormFactorKeys returns the registered keys in sorted order.
func FormFactorKeys() []string {
	keys := make([]string, 0, len(formFactors))
	for k := range formFactors {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Edge cards on a 0.1" pitch with 0.05" fingers.
func edgeCard(key, name string, w, h float64, count int, margin float64) *FormFactor {
	return &FormFactor{
		Key:    key,
		Name:   name,
		Width:  inches(w),
		Height: inches(h),
		Contacts: &ContactSpec{
			Edge:   EdgeBottom,
			Count:  count,
			Pitch:  inches(0.1),
			Width:  inches(0.05),
			Height: inches(0.3),
			Margin: inches(margin),
		},
	}
}

// S100 returns the S-100 (IEEE 696) card: 10" x 5 7/16", 50 contacts per
// side on a 1/8" pitch and two ejector holes.
func S100() *FormFactor {
	const w = 10.0
	return &FormFactor{
		Key:    "s100",
		Name:   "S-100 (IEEE 696)",
		Width:  inches(w),
		Height: inches(5.4375),
		Contacts: &ContactSpec{
			Edge:   EdgeTop,
			Count:  50,
			Pitch:  inches(0.125),
			Width:  inches(0.0625),
			Height: inches(0.3),
			Margin: inches(2.125),
		},
		Holes: []HoleSpec{
			{Name: "top_left_ejector", X: inches(0.25), Y: inches(0.25), Diameter: inches(0.105)},
			{Name: "top_right_ejector", X: inches(w - 0.25), Y: inches(0.25), Diameter: inches(0.105)},
		},
	}
}

func init() {
	RegisterFormFactor(S100())
	RegisterFormFactor(edgeCard("isa8", "8-bit ISA", 13.15, 4.2, 31, 0.8))
	RegisterFormFactor(edgeCard("isa16", "16-bit ISA", 13.15, 4.2, 49, 0.8))
	RegisterFormFactor(edgeCard("multibus", "Multibus I (P1)", 12.0, 6.75, 43, 0.9))
	RegisterFormFactor(edgeCard("multibus-p2", "Multibus I (P1+P2)", 12.0, 6.75, 73, 0.9))
	RegisterFormFactor(edgeCard("ecb", "ECB (Europe Card Bus)", 6.3, 3.94, 32, 0.6))
	RegisterFormFactor(edgeCard("std", "STD Bus", 6.5, 4.5, 28, 0.7))
}
