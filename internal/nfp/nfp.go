// Package nfp builds no-fit polygons: the loci of translations at which an
// orbiting polygon touches a stationary one without overlap. The placement
// engine samples these loops for legal candidate positions.
package nfp

import (
	"fmt"

	"github.com/piwi3910/nestpack/internal/geom"
)

// NoFit computes the no-fit polygon loops of the orbiter around the
// stationary polygon. Positions are translation vectors of the orbiter's
// origin.
//
// Convex pairs are solved exactly with a single Minkowski-difference loop.
// Non-convex inputs are decomposed into triangles and every triangle pair
// contributes one convex loop; the loops jointly cover the true NFP
// boundary (including positions inside concavities), and may overlap each
// other. Callers must re-verify sampled candidates with exact overlap
// predicates, which the placement engine does.
//
// The construction is fully deterministic: triangulation order is fixed and
// all comparisons are integer.
func NoFit(stationary, orbiter geom.Polygon) ([]geom.Polygon, error) {
	if len(stationary) < 3 || len(orbiter) < 3 {
		return nil, fmt.Errorf("nfp: polygons need at least 3 vertices, got %d and %d",
			len(stationary), len(orbiter))
	}

	s := stationary.EnsureCCW()
	o := orbiter.EnsureCCW()

	if s.IsConvex() && o.IsConvex() {
		loop := convexNoFit(s, o)
		if len(loop) < 3 {
			return nil, fmt.Errorf("nfp: degenerate convex loop with %d vertices", len(loop))
		}
		return []geom.Polygon{loop}, nil
	}

	sParts := convexParts(s)
	oParts := convexParts(o)
	if len(sParts) == 0 || len(oParts) == 0 {
		return nil, fmt.Errorf("nfp: triangulation failed (self-intersecting outline?)")
	}

	loops := make([]geom.Polygon, 0, len(sParts)*len(oParts))
	for _, sp := range sParts {
		for _, op := range oParts {
			loop := convexNoFit(sp, op)
			if len(loop) >= 3 {
				loops = append(loops, loop)
			}
		}
	}
	if len(loops) == 0 {
		return nil, fmt.Errorf("nfp: no loops produced for %d x %d convex parts",
			len(sParts), len(oParts))
	}
	return loops, nil
}

// convexParts returns the polygon itself when convex, otherwise its ear
// triangulation.
func convexParts(p geom.Polygon) []geom.Polygon {
	if p.IsConvex() {
		return []geom.Polygon{p}
	}
	return p.Triangulate()
}

// InnerFit returns the inclusive translation range for which the shape lies
// fully inside the sheet rectangle spanning (0,0) to (w,h). ok is false
// when the shape's bounding box exceeds the sheet in some axis.
func InnerFit(w, h geom.Unit, shape geom.Polygon) (lo, hi geom.Point, ok bool) {
	min, max := shape.BoundingBox()
	lo = geom.Point{X: -min.X, Y: -min.Y}
	hi = geom.Point{X: w - max.X, Y: h - max.Y}
	if hi.X < lo.X || hi.Y < lo.Y {
		return geom.Point{}, geom.Point{}, false
	}
	return lo, hi, true
}
