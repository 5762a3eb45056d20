package geom

import "math"

// Offset grows the polygon outward by d Units using mitered joins. The
// result is exact for convex outlines; at reflex vertices the miter is a
// conservative over-approximation, which keeps the clearance guarantee but
// may waste a little space in concavities. Sharp spikes are capped with a
// single bevel point. When the mitered outline folds over itself (a
// concavity narrower than 2d closes up), the result falls back to the
// offset convex hull, which is always simple and still contains the grown
// shape. d = 0 returns an unchanged copy.
func (p Polygon) Offset(d Unit) Polygon {
	if d == 0 || len(p) < 3 {
		return p.Clone()
	}
	out := p.mitered(d)
	if out.Validate() != nil {
		out = p.ConvexHull().mitered(d)
	}
	return out
}

func (p Polygon) mitered(d Unit) Polygon {
	poly := p.EnsureCCW()
	n := len(poly)
	df := float64(d)
	out := make(Polygon, n)

	for i := 0; i < n; i++ {
		prev := poly[(i-1+n)%n]
		cur := poly[i]
		next := poly[(i+1)%n]

		n1x, n1y := outwardNormal(prev, cur)
		n2x, n2y := outwardNormal(cur, next)

		// Intersect the two adjacent edges, each shifted outward by d.
		x1, y1 := float64(prev.X)+df*n1x, float64(prev.Y)+df*n1y
		x2, y2 := float64(cur.X)+df*n1x, float64(cur.Y)+df*n1y
		x3, y3 := float64(cur.X)+df*n2x, float64(cur.Y)+df*n2y
		x4, y4 := float64(next.X)+df*n2x, float64(next.Y)+df*n2y

		den := (x2-x1)*(y4-y3) - (y2-y1)*(x4-x3)
		var mx, my float64
		if math.Abs(den) < 1e-9 {
			// Parallel edges: both normals agree, shift straight out.
			mx, my = x2, y2
		} else {
			t := ((x3-x1)*(y4-y3) - (y3-y1)*(x4-x3)) / den
			mx = x1 + t*(x2-x1)
			my = y1 + t*(y2-y1)
		}

		// Miter limit: cap near-degenerate spikes with a bevel point.
		dx, dy := mx-float64(cur.X), my-float64(cur.Y)
		if limit := 4 * df; dx*dx+dy*dy > limit*limit {
			bx, by := n1x+n2x, n1y+n2y
			bl := math.Hypot(bx, by)
			if bl > 1e-12 {
				mx = float64(cur.X) + df*bx/bl
				my = float64(cur.Y) + df*by/bl
			} else {
				mx, my = x2, y2
			}
		}

		out[i] = Point{X: Unit(math.Round(mx)), Y: Unit(math.Round(my))}
	}
	return out
}

// outwardNormal returns the unit normal of edge a→b pointing away from the
// interior of a CCW polygon.
func outwardNormal(a, b Point) (float64, float64) {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	l := math.Hypot(dx, dy)
	if l == 0 {
		return 0, 0
	}
	return dy / l, -dx / l
}
