// Package geometry provides the exact integer geometry used throughout the editor.
package geometry

import (
	"fmt"
	"math"
)

// Length is a board distance in nanometres.
type Length int64

// Common length units.
const (
	Nanometre  Length = 1
	Micrometre Length = 1000
	Millimetre Length = 1000 * Micrometre
)

// Mm converts millimetres to a Length, rounding to the nearest nanometre.
func Mm(mm float64) Length {
	return Length(math.Round(mm * float64(Millimetre)))
}

// ToMm returns the length in millimetres.
func (l Length) ToMm() float64 {
	return float64(l) / float64(Millimetre)
}

// String formats the length in millimetres.
func (l Length) String() string {
	return fmt.Sprintf("%gmm", l.ToMm())
}

// Angle is a rotation in microdegrees, counter-clockwise.
type Angle int64

// Common angles.
const (
	Deg0   Angle = 0
	Deg90  Angle = 90_000_000
	Deg180 Angle = 180_000_000
	Deg270 Angle = 270_000_000
	Deg360 Angle = 360_000_000
)

// Deg converts degrees to an Angle.
func Deg(deg float64) Angle {
	return Angle(math.Round(deg * 1e6))
}

// Normalized maps the angle into [0°, 360°).
func (a Angle) Normalized() Angle {
	a %= Deg360
	if a < 0 {
		a += Deg360
	}
	return a
}

// Point is a board position with exact integer coordinates.
type Point struct {
	X Length `json:"x" yaml:"x"`
	Y Length `json:"y" yaml:"y"`
}

// NewPoint creates a new Point.
func NewPoint(x, y Length) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// MirroredX mirrors the point at the Y axis.
func (p Point) MirroredX() Point {
	return Point{X: -p.X, Y: p.Y}
}

// Rotated rotates the point around the origin. Multiples of 90° are exact,
// other angles are rounded to the nearest nanometre.
func (p Point) Rotated(a Angle) Point {
	switch a.Normalized() {
	case Deg0:
		return p
	case Deg90:
		return Point{X: -p.Y, Y: p.X}
	case Deg180:
		return Point{X: -p.X, Y: -p.Y}
	case Deg270:
		return Point{X: p.Y, Y: -p.X}
	}
	rad := float64(a) / 1e6 * math.Pi / 180
	sin, cos := math.Sincos(rad)
	x, y := float64(p.X), float64(p.Y)
	return Point{
		X: Length(math.Round(x*cos - y*sin)),
		Y: Length(math.Round(x*sin + y*cos)),
	}
}

// String formats the point in millimetres.
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X.ToMm(), p.Y.ToMm())
}

// Rect represents an axis-aligned rectangle.
type Rect struct {
	Min Point `json:"min" yaml:"min"`
	Max Point `json:"max" yaml:"max"`
}

// Contains returns true if the point is inside the rectangle (edges included).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
// The second return value is false for an empty input.
func BoundingBox(points []Point) (Rect, bool) {
	if len(points) == 0 {
		return Rect{}, false
	}
	r := Rect{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.X > r.Max.X {
			r.Max.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.Y > r.Max.Y {
			r.Max.Y = p.Y
		}
	}
	return r, true
}
