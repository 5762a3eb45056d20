package nfp

import "github.com/piwi3910/nestpack/internal/geom"

// minkowskiSum returns the Minkowski sum of two convex CCW polygons using
// the standard edge-merge convolution. Pure integer arithmetic: edge vectors
// are merged by angle with cross-product comparisons, so the result is exact
// and identical on every invocation.
func minkowskiSum(a, b geom.Polygon) geom.Polygon {
	ra := rotateToBottom(a)
	rb := rotateToBottom(b)
	n, m := len(ra), len(rb)

	res := make(geom.Polygon, 0, n+m)
	i, j := 0, 0
	for i < n || j < m {
		res = append(res, ra[i%n].Add(rb[j%m]))
		var cr int64
		switch {
		case i >= n:
			cr = -1
		case j >= m:
			cr = 1
		default:
			ea := ra[(i+1)%n].Sub(ra[i%n])
			eb := rb[(j+1)%m].Sub(rb[j%m])
			cr = ea.Cross(eb)
		}
		if cr >= 0 {
			i++
		}
		if cr <= 0 {
			j++
		}
	}
	return dedupe(res)
}

// rotateToBottom reorders the vertex cycle so that the bottom-most (then
// left-most) vertex comes first. The convolution requires both inputs to
// start at their extreme point in the same direction.
func rotateToBottom(p geom.Polygon) geom.Polygon {
	best := 0
	for i, v := range p {
		if v.Y < p[best].Y || (v.Y == p[best].Y && v.X < p[best].X) {
			best = i
		}
	}
	out := make(geom.Polygon, 0, len(p))
	out = append(out, p[best:]...)
	out = append(out, p[:best]...)
	return out
}

// dedupe drops consecutive duplicate vertices (the convolution emits one
// per merged edge pair, which repeats a vertex when edges are parallel).
func dedupe(p geom.Polygon) geom.Polygon {
	if len(p) == 0 {
		return p
	}
	out := make(geom.Polygon, 0, len(p))
	for i, v := range p {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// convexNoFit builds the no-fit polygon of a convex orbiter around a convex
// stationary polygon: the locus of the orbiter's origin while the shapes
// touch without overlapping. This is the Minkowski sum of the stationary
// polygon with the orbiter reflected through its origin.
func convexNoFit(stationary, orbiter geom.Polygon) geom.Polygon {
	reflected := make(geom.Polygon, len(orbiter))
	for i, v := range orbiter {
		reflected[i] = v.Neg()
	}
	// Point reflection preserves winding, so the reflected orbiter is
	// still CCW.
	return minkowskiSum(stationary, reflected)
}
