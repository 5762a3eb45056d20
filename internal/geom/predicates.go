package geom

import "math"

// Location classifies a point relative to a polygon.
type Location int

const (
	Outside Location = iota
	OnBoundary
	Inside
)

// Locate classifies q relative to the polygon using exact integer ray
// casting. Points on the outline are reported as OnBoundary, never Inside.
func (p Polygon) Locate(q Point) Location {
	n := len(p)
	inside := false
	for i := 0; i < n; i++ {
		a, b := p[i], p[(i+1)%n]
		if onSegment(a, b, q) {
			return OnBoundary
		}
		if (a.Y > q.Y) != (b.Y > q.Y) {
			det := cross3(a, b, q)
			if b.Y > a.Y {
				if det > 0 {
					inside = !inside
				}
			} else {
				if det < 0 {
					inside = !inside
				}
			}
		}
	}
	if inside {
		return Inside
	}
	return Outside
}

// segmentsProperlyCross reports whether the open segments a1-a2 and b1-b2
// cross at a single interior point. Endpoint contact and collinear overlap
// do not count.
func segmentsProperlyCross(a1, a2, b1, b2 Point) bool {
	d1 := sign(cross3(a1, a2, b1))
	d2 := sign(cross3(a1, a2, b2))
	d3 := sign(cross3(b1, b2, a1))
	d4 := sign(cross3(b1, b2, a2))
	return d1*d2 < 0 && d3*d4 < 0
}

// segmentsTouch reports whether the closed segments a1-a2 and b1-b2 have any
// point in common: a proper crossing, an endpoint on the other segment, or a
// collinear overlap.
func segmentsTouch(a1, a2, b1, b2 Point) bool {
	if segmentsProperlyCross(a1, a2, b1, b2) {
		return true
	}
	return onSegment(a1, a2, b1) || onSegment(a1, a2, b2) ||
		onSegment(b1, b2, a1) || onSegment(b1, b2, a2)
}

// Overlaps reports whether the interiors of two simple polygons intersect.
// Touching edges or vertices do not count as overlap; a polygon fully
// containing the other, or coinciding with it, does.
func (p Polygon) Overlaps(q Polygon) bool {
	pMin, pMax := p.BoundingBox()
	qMin, qMax := q.BoundingBox()
	if pMax.X <= qMin.X || qMax.X <= pMin.X || pMax.Y <= qMin.Y || qMax.Y <= pMin.Y {
		return false
	}

	np, nq := len(p), len(q)
	for i := 0; i < np; i++ {
		a1, a2 := p[i], p[(i+1)%np]
		for j := 0; j < nq; j++ {
			if segmentsProperlyCross(a1, a2, q[j], q[(j+1)%nq]) {
				return true
			}
		}
	}
	for _, v := range p {
		if q.Locate(v) == Inside {
			return true
		}
	}
	for _, v := range q {
		if p.Locate(v) == Inside {
			return true
		}
	}
	// All vertices may sit on the other outline (identical or grid-aligned
	// containment); probe an interior point of each polygon.
	if ip, ok := p.InteriorPoint(); ok && q.Locate(ip) == Inside {
		return true
	}
	if iq, ok := q.InteriorPoint(); ok && p.Locate(iq) == Inside {
		return true
	}
	return false
}

// FitsInRect reports whether the polygon's bounding box lies fully inside
// the axis-aligned rectangle spanning (0,0) to (w,h). Touching the boundary
// counts as inside.
func (p Polygon) FitsInRect(w, h Unit) bool {
	min, max := p.BoundingBox()
	return min.X >= 0 && min.Y >= 0 && max.X <= w && max.Y <= h
}

// SegmentIntersections returns the contact points of two closed segments:
// the single interior crossing point when they properly cross (rounded to
// Units), or the endpoints of one segment that lie on the other for
// touching and collinear-overlap cases. An empty result means no contact.
func SegmentIntersections(a1, a2, b1, b2 Point) []Point {
	if segmentsProperlyCross(a1, a2, b1, b2) {
		x1, y1 := float64(a1.X), float64(a1.Y)
		x2, y2 := float64(a2.X), float64(a2.Y)
		x3, y3 := float64(b1.X), float64(b1.Y)
		x4, y4 := float64(b2.X), float64(b2.Y)
		den := (x2-x1)*(y4-y3) - (y2-y1)*(x4-x3)
		t := ((x3-x1)*(y4-y3) - (y3-y1)*(x4-x3)) / den
		return []Point{{
			X: Unit(math.Round(x1 + t*(x2-x1))),
			Y: Unit(math.Round(y1 + t*(y2-y1))),
		}}
	}
	var pts []Point
	for _, q := range []Point{b1, b2} {
		if onSegment(a1, a2, q) {
			pts = append(pts, q)
		}
	}
	for _, q := range []Point{a1, a2} {
		if onSegment(b1, b2, q) {
			pts = append(pts, q)
		}
	}
	return pts
}

// InteriorPoint returns a point strictly inside the polygon. It probes the
// centroids of a fan of ear triangles; for a valid simple polygon at least
// one centroid lands in the interior unless the shape is thinner than one
// Unit everywhere.
func (p Polygon) InteriorPoint() (Point, bool) {
	ccw := p.EnsureCCW()
	tris := ccw.Triangulate()
	for _, t := range tris {
		c := Point{
			X: (t[0].X + t[1].X + t[2].X) / 3,
			Y: (t[0].Y + t[1].Y + t[2].Y) / 3,
		}
		if ccw.Locate(c) == Inside {
			return c, true
		}
	}
	c := ccw.Centroid()
	if ccw.Locate(c) == Inside {
		return c, true
	}
	return Point{}, false
}
