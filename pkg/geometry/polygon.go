package geometry

// Vertex is a path point with an optional arc angle to the next vertex.
type Vertex struct {
	Pos   Point `json:"pos" yaml:"pos"`
	Angle Angle `json:"angle,omitempty" yaml:"angle,omitempty"`
}

// Path is an ordered list of vertices, e.g. a polygon outline.
type Path []Vertex

// NewPath builds a straight-segment path through the given points.
func NewPath(points ...Point) Path {
	path := make(Path, len(points))
	for i, p := range points {
		path[i] = Vertex{Pos: p}
	}
	return path
}

// Translated returns a copy of the path moved by offset.
func (p Path) Translated(offset Point) Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	for i, v := range p {
		out[i] = Vertex{Pos: v.Pos.Add(offset), Angle: v.Angle}
	}
	return out
}

// Points returns the vertex positions.
func (p Path) Points() []Point {
	pts := make([]Point, len(p))
	for i, v := range p {
		pts[i] = v.Pos
	}
	return pts
}

// IsClosed returns true if the last vertex coincides with the first one.
func (p Path) IsClosed() bool {
	return len(p) > 2 && p[0].Pos == p[len(p)-1].Pos
}

// PointInPolygon tests whether p lies inside the closed outline using ray
// casting. Straight edges only; arc angles are ignored.
func PointInPolygon(p Point, outline Path) bool {
	n := len(outline)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		a, b := outline[i].Pos, outline[j].Pos
		if (a.Y > p.Y) != (b.Y > p.Y) {
			// p.X < a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y), rearranged to stay integral
			lhs := (p.X - a.X) * (b.Y - a.Y)
			rhs := (p.Y - a.Y) * (b.X - a.X)
			if b.Y-a.Y > 0 {
				if lhs < rhs {
					inside = !inside
				}
			} else if lhs > rhs {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
