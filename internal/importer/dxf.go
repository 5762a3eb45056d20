package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/nestpack/internal/geom"
	"github.com/piwi3910/nestpack/internal/model"
)

// fpoint is a 2D point in fractional inches, used while assembling outlines
// before conversion to fixed-point Units.
type fpoint struct {
	X, Y float64
}

// segment represents a line segment between two points, used for chaining
// disconnected LINE entities into closed outlines.
type segment struct {
	start fpoint
	end   fpoint
}

// ImportDXF imports stickers from a DXF file. Each closed shape
// (LWPOLYLINE, CIRCLE, or chain of connected LINEs/ARCs) becomes one
// sticker with its outline normalized to start at the origin. Coordinates
// are interpreted as inches.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines [][]fpoint
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			outline := lwPolylineToOutline(e)
			if len(outline) >= 3 {
				outlines = append(outlines, outline)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			outlines = append(outlines, circleToOutline(e, 64))

		case *entity.Arc:
			pts := arcToPoints(e, 32)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: fpoint{X: e.Start[0], Y: e.Start[1]},
				end:   fpoint{X: e.End[0], Y: e.End[1]},
			})

		default:
			// Unsupported entity types are silently skipped.
		}
	}

	for _, co := range chainSegments(segments, 0.01) {
		if len(co) >= 3 {
			outlines = append(outlines, co)
		}
	}

	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for i, outline := range outlines {
		poly := toPolygon(normalizeOutline(outline))
		min, max := boundsOf(outline)
		if max.X-min.X < 0.01 || max.Y-min.Y < 0.01 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f in)", max.X-min.X, max.Y-min.Y))
			continue
		}
		id := fmt.Sprintf("dxf%d", i+1)
		result.Items = append(result.Items, model.NewItem(id, poly, len(result.Items)))
	}

	return result
}

// toPolygon converts an inch-space outline to a fixed-point polygon,
// dropping consecutive vertices that collapse onto the same Unit grid
// point.
func toPolygon(outline []fpoint) geom.Polygon {
	poly := make(geom.Polygon, 0, len(outline))
	for _, p := range outline {
		q := geom.Point{X: model.ToUnits(p.X), Y: model.ToUnits(p.Y)}
		if len(poly) > 0 && poly[len(poly)-1] == q {
			continue
		}
		poly = append(poly, q)
	}
	if len(poly) > 1 && poly[0] == poly[len(poly)-1] {
		poly = poly[:len(poly)-1]
	}
	return poly
}

// lwPolylineToOutline converts a DXF LWPOLYLINE entity to an outline.
// Bulge values on vertices produce interpolated arc segments.
func lwPolylineToOutline(lw *entity.LwPolyline) []fpoint {
	var outline []fpoint

	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := fpoint{X: v[0], Y: v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			nextIdx := (i + 1) % len(lw.Vertices)
			next := fpoint{X: lw.Vertices[nextIdx][0], Y: lw.Vertices[nextIdx][1]}
			arcPts := bulgeArcPoints(current, next, bulge, 32)
			// All but the last point; the next vertex follows naturally.
			outline = append(outline, arcPts[:len(arcPts)-1]...)
		} else {
			outline = append(outline, current)
		}
	}

	return outline
}

// bulgeArcPoints generates points along an arc defined by two endpoints and
// a DXF bulge factor (the tangent of 1/4 the included angle).
func bulgeArcPoints(p1, p2 fpoint, bulge float64, numSegments int) []fpoint {
	mx := (p1.X + p2.X) / 2
	my := (p1.Y + p2.Y) / 2
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	chordLen := math.Sqrt(dx*dx + dy*dy)
	if chordLen < 1e-9 {
		return []fpoint{p1, p2}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	perpX := -dy / chordLen
	perpY := dx / chordLen
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	startAngle := math.Atan2(p1.Y-cy, p1.X-cx)
	endAngle := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else {
		if endAngle < startAngle {
			endAngle += 2 * math.Pi
		}
	}

	pts := make([]fpoint, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, fpoint{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		})
	}
	return pts
}

// circleToOutline approximates a circle as a regular polygon.
func circleToOutline(c *entity.Circle, numSegments int) []fpoint {
	outline := make([]fpoint, numSegments)
	cx, cy, r := c.Center[0], c.Center[1], c.Radius
	for i := 0; i < numSegments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numSegments)
		outline[i] = fpoint{
			X: cx + r*math.Cos(angle),
			Y: cy + r*math.Sin(angle),
		}
	}
	return outline
}

// arcToPoints converts a DXF ARC entity to a series of line points.
func arcToPoints(a *entity.Arc, numSegments int) []fpoint {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius
	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]fpoint, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = fpoint{
			X: cx + r*math.Cos(angle),
			Y: cy + r*math.Sin(angle),
		}
	}
	return pts
}

// pointsToSegments converts a point sequence to connected segments.
func pointsToSegments(pts []fpoint) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum endpoint distance to consider them connected.
func chainSegments(segs []segment, tolerance float64) [][]fpoint {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines [][]fpoint

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []fpoint{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 3 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			chain = chain[:len(chain)-1]
		}

		if len(chain) >= 3 {
			outlines = append(outlines, chain)
		}
	}

	// Largest outline first for consistent sticker numbering.
	sort.SliceStable(outlines, func(i, j int) bool {
		return outlineArea(outlines[i]) > outlineArea(outlines[j])
	})

	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b fpoint, tolerance float64) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx+dy*dy) <= tolerance
}

// outlineArea computes the absolute polygon area via the shoelace formula.
func outlineArea(o []fpoint) float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X*o[j].Y - o[j].X*o[i].Y
	}
	return math.Abs(area) / 2
}

// boundsOf returns the bounding box of an outline.
func boundsOf(o []fpoint) (fpoint, fpoint) {
	min := o[0]
	max := o[0]
	for _, p := range o[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// normalizeOutline translates the outline so its bounding box starts at
// (0, 0).
func normalizeOutline(o []fpoint) []fpoint {
	if len(o) == 0 {
		return o
	}
	min, _ := boundsOf(o)
	out := make([]fpoint, len(o))
	for i, p := range o {
		out[i] = fpoint{X: p.X - min.X, Y: p.Y - min.Y}
	}
	return out
}
