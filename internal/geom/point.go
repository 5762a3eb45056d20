// Package geom implements the fixed-point 2D geometry kernel used by the
// nesting engine. All coordinates are integer Units (1e-6 inch) so that
// collision and containment predicates are exact and runs are reproducible.
package geom

// Unit is the internal fixed-point coordinate type. One Unit is one
// micro-inch; see model.UnitsPerInch for the scale factor.
type Unit = int64

// Point is a 2D coordinate in Units.
type Point struct {
	X Unit `json:"x"`
	Y Unit `json:"y"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Neg returns the point reflected through the origin.
func (p Point) Neg() Point {
	return Point{X: -p.X, Y: -p.Y}
}

// Cross returns the 2D cross product p × q.
func (p Point) Cross(q Point) int64 {
	return p.X*q.Y - p.Y*q.X
}

// Dot returns the dot product p · q.
func (p Point) Dot(q Point) int64 {
	return p.X*q.X + p.Y*q.Y
}

// cross3 returns the cross product of (b-a) and (c-a): positive when c is
// left of the directed line a→b, negative when right, zero when collinear.
func cross3(a, b, c Point) int64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// onSegment reports whether q lies on the closed segment a-b.
func onSegment(a, b, q Point) bool {
	if cross3(a, b, q) != 0 {
		return false
	}
	return minUnit(a.X, b.X) <= q.X && q.X <= maxUnit(a.X, b.X) &&
		minUnit(a.Y, b.Y) <= q.Y && q.Y <= maxUnit(a.Y, b.Y)
}

func minUnit(a, b Unit) Unit {
	if a < b {
		return a
	}
	return b
}

func maxUnit(a, b Unit) Unit {
	if a > b {
		return a
	}
	return b
}

func sign(v int64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
