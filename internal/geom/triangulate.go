package geom

// Triangulate decomposes the polygon into triangles by ear clipping.
// Each returned polygon has exactly three vertices in CCW order. The
// clipping order is fixed (lowest remaining index first) so the output is
// identical across runs for identical input. Degenerate collinear vertices
// are dropped without emitting a triangle.
func (p Polygon) Triangulate() []Polygon {
	poly := p.EnsureCCW()
	n := len(poly)
	if n < 3 {
		return nil
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	var tris []Polygon
	for len(idx) > 3 {
		clipped := false
		m := len(idx)
		for k := 0; k < m; k++ {
			i0 := idx[(k-1+m)%m]
			i1 := idx[k]
			i2 := idx[(k+1)%m]
			a, b, c := poly[i0], poly[i1], poly[i2]

			cr := cross3(a, b, c)
			if cr < 0 {
				continue // reflex vertex
			}
			if cr == 0 {
				// Collinear vertex contributes no area; just remove it.
				idx = append(idx[:k], idx[k+1:]...)
				clipped = true
				break
			}

			ear := true
			for _, j := range idx {
				if j == i0 || j == i1 || j == i2 {
					continue
				}
				if triangleContains(a, b, c, poly[j]) {
					ear = false
					break
				}
			}
			if !ear {
				continue
			}

			tris = append(tris, Polygon{a, b, c})
			idx = append(idx[:k], idx[k+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// No ear found: the outline is not simple. Return what we have
			// rather than spin; Validate catches this upstream.
			break
		}
	}

	if len(idx) == 3 {
		a, b, c := poly[idx[0]], poly[idx[1]], poly[idx[2]]
		if cross3(a, b, c) > 0 {
			tris = append(tris, Polygon{a, b, c})
		}
	}
	return tris
}

// triangleContains reports whether q lies inside or on the CCW triangle abc.
func triangleContains(a, b, c, q Point) bool {
	return cross3(a, b, q) >= 0 && cross3(b, c, q) >= 0 && cross3(c, a, q) >= 0
}
