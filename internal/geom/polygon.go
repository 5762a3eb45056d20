package geom

import (
	"fmt"
	"math"
	"sort"
)

// Polygon is a closed polygon as an ordered vertex sequence. The outline is
// implicitly closed: the last vertex connects back to the first. The kernel
// assumes counter-clockwise winding; use EnsureCCW after construction.
type Polygon []Point

// Clone returns a copy of the polygon.
func (p Polygon) Clone() Polygon {
	out := make(Polygon, len(p))
	copy(out, p)
	return out
}

// SignedArea2 returns twice the signed area via the shoelace formula.
// Positive for counter-clockwise winding. Exact in integer arithmetic.
func (p Polygon) SignedArea2() int64 {
	n := len(p)
	if n < 3 {
		return 0
	}
	var area int64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return area
}

// Area returns the unsigned area in square Units.
func (p Polygon) Area() float64 {
	a := p.SignedArea2()
	if a < 0 {
		a = -a
	}
	return float64(a) / 2
}

// IsCCW reports whether the winding is counter-clockwise.
func (p Polygon) IsCCW() bool {
	return p.SignedArea2() > 0
}

// Reverse returns the polygon with the vertex order reversed.
func (p Polygon) Reverse() Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// EnsureCCW returns the polygon in counter-clockwise winding.
func (p Polygon) EnsureCCW() Polygon {
	if p.SignedArea2() < 0 {
		return p.Reverse()
	}
	return p
}

// BoundingBox returns the min and max corners of the polygon.
func (p Polygon) BoundingBox() (min, max Point) {
	if len(p) == 0 {
		return Point{}, Point{}
	}
	min, max = p[0], p[0]
	for _, v := range p[1:] {
		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
	}
	return min, max
}

// Translate shifts all vertices by the given vector.
func (p Polygon) Translate(d Point) Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = v.Add(d)
	}
	return out
}

// Rotate rotates the polygon about the origin by the given angle in degrees,
// counter-clockwise. Multiples of 90 degrees are computed exactly in integer
// arithmetic so repeated rotate-and-measure calls stay deterministic; other
// angles round each coordinate to the nearest Unit.
func (p Polygon) Rotate(deg float64) Polygon {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d == 0 {
		return p.Clone()
	}
	out := make(Polygon, len(p))
	switch d {
	case 90:
		for i, v := range p {
			out[i] = Point{X: -v.Y, Y: v.X}
		}
	case 180:
		for i, v := range p {
			out[i] = Point{X: -v.X, Y: -v.Y}
		}
	case 270:
		for i, v := range p {
			out[i] = Point{X: v.Y, Y: -v.X}
		}
	default:
		rad := d * math.Pi / 180
		sin, cos := math.Sincos(rad)
		for i, v := range p {
			x := float64(v.X)*cos - float64(v.Y)*sin
			y := float64(v.X)*sin + float64(v.Y)*cos
			out[i] = Point{X: Unit(math.Round(x)), Y: Unit(math.Round(y))}
		}
	}
	return out
}

// Centroid returns the area centroid of the polygon, rounded to Units.
func (p Polygon) Centroid() Point {
	n := len(p)
	if n == 0 {
		return Point{}
	}
	var cx, cy, a float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cr := float64(p[i].X*p[j].Y - p[j].X*p[i].Y)
		cx += float64(p[i].X+p[j].X) * cr
		cy += float64(p[i].Y+p[j].Y) * cr
		a += cr
	}
	if a == 0 {
		// Degenerate: fall back to the vertex average.
		var sx, sy int64
		for _, v := range p {
			sx += v.X
			sy += v.Y
		}
		return Point{X: sx / int64(n), Y: sy / int64(n)}
	}
	return Point{
		X: Unit(math.Round(cx / (3 * a))),
		Y: Unit(math.Round(cy / (3 * a))),
	}
}

// IsConvex reports whether the polygon is convex (collinear vertices
// allowed). Assumes CCW winding.
func (p Polygon) IsConvex() bool {
	n := len(p)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		if cross3(p[i], p[(i+1)%n], p[(i+2)%n]) < 0 {
			return false
		}
	}
	return true
}

// ConvexHull returns the convex hull of the vertices in counter-clockwise
// winding, via Andrew's monotone chain. Collinear points are dropped.
func (p Polygon) ConvexHull() Polygon {
	pts := p.Clone()
	n := len(pts)
	if n < 3 {
		return pts
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	hull := make(Polygon, 0, 2*n)
	for _, v := range pts {
		for len(hull) >= 2 && cross3(hull[len(hull)-2], hull[len(hull)-1], v) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, v)
	}
	lower := len(hull) + 1
	for i := n - 2; i >= 0; i-- {
		v := pts[i]
		for len(hull) >= lower && cross3(hull[len(hull)-2], hull[len(hull)-1], v) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, v)
	}
	return hull[:len(hull)-1]
}

// Perimeter returns the outline length in Units.
func (p Polygon) Perimeter() float64 {
	n := len(p)
	if n < 2 {
		return 0
	}
	var total float64
	for i := 0; i < n; i++ {
		e := p[(i+1)%n].Sub(p[i])
		total += math.Hypot(float64(e.X), float64(e.Y))
	}
	return total
}

// Validate checks that the polygon is a usable simple outline: at least
// three distinct vertices, non-zero area, no duplicate consecutive vertices
// and no self-intersection. Returns a descriptive error on the first
// violation found.
func (p Polygon) Validate() error {
	if len(p) < 3 {
		return fmt.Errorf("polygon has %d vertices, need at least 3", len(p))
	}
	n := len(p)
	for i := 0; i < n; i++ {
		if p[i] == p[(i+1)%n] {
			return fmt.Errorf("duplicate consecutive vertex at index %d", i)
		}
	}
	if p.SignedArea2() == 0 {
		return fmt.Errorf("polygon has zero area")
	}
	// Pairwise edge check. Adjacent edges share exactly one endpoint; any
	// other contact between edges means the outline self-intersects.
	for i := 0; i < n; i++ {
		a1, a2 := p[i], p[(i+1)%n]
		for j := i + 1; j < n; j++ {
			b1, b2 := p[j], p[(j+1)%n]
			adjacent := j == i+1 || (i == 0 && j == n-1)
			if adjacent {
				// The shared endpoint is allowed; the far endpoints must
				// not lie on the other edge (that would fold the outline).
				shared, farA, farB := sharedEndpoint(a1, a2, b1, b2)
				if onSegment(b1, b2, farA) && farA != shared {
					return fmt.Errorf("edges %d and %d overlap", i, j)
				}
				if onSegment(a1, a2, farB) && farB != shared {
					return fmt.Errorf("edges %d and %d overlap", i, j)
				}
				continue
			}
			if segmentsTouch(a1, a2, b1, b2) {
				return fmt.Errorf("self-intersection between edges %d and %d", i, j)
			}
		}
	}
	return nil
}

// sharedEndpoint returns the endpoint two adjacent edges have in common and
// the far endpoint of each edge.
func sharedEndpoint(a1, a2, b1, b2 Point) (shared, farA, farB Point) {
	switch {
	case a2 == b1:
		return a2, a1, b2
	case a1 == b1:
		return a1, a2, b2
	case a2 == b2:
		return a2, a1, b1
	default:
		return a1, a2, b2
	}
}
