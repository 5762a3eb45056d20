package engine

import (
	"math"

	"github.com/piwi3910/nestpack/internal/geom"
	"github.com/piwi3910/nestpack/internal/model"
	"github.com/piwi3910/nestpack/internal/nfp"
)

// variant is one rotated rendition of an item, pre-inflated by half the
// spacing so candidate positions already respect the clearance margin.
// Both outlines live in a frame where the inflated bounding box has its min
// corner at the origin; a candidate position is the absolute location of
// that corner.
type variant struct {
	rotation  int
	shape     geom.Polygon // Uninflated outline
	inflated  geom.Polygon // Outline grown by half the spacing
	w, h      geom.Unit    // Inflated bounding-box dimensions
	reportOff geom.Point   // Uninflated bbox min within the variant frame
}

// buildVariants renders the item at every configured rotation. Rotation is
// always applied to the source outline about the origin, never cumulatively,
// so rotate-and-measure is order independent.
func buildVariants(it *model.Item, rotations []int, halfSpacing geom.Unit) []variant {
	out := make([]variant, 0, len(rotations))
	for _, deg := range rotations {
		rot := normalizeDeg(deg)
		shape := it.Shape.Rotate(float64(rot))
		inflated := shape.Offset(halfSpacing)
		iMin, iMax := inflated.BoundingBox()
		shift := iMin.Neg()
		shape = shape.Translate(shift)
		inflated = inflated.Translate(shift)
		sMin, _ := shape.BoundingBox()
		out = append(out, variant{
			rotation:  rot,
			shape:     shape,
			inflated:  inflated,
			w:         iMax.X - iMin.X,
			h:         iMax.Y - iMin.Y,
			reportOff: sMin,
		})
	}
	return out
}

func normalizeDeg(deg int) int {
	d := deg % 360
	if d < 0 {
		d += 360
	}
	return d
}

// bin is one sheet with its committed placements. Only the orchestrator
// mutates bin state, and only after the placer has picked a candidate.
type bin struct {
	id     int
	placed []geom.Polygon // Inflated outlines at absolute positions (NFP mode)
	occMin geom.Point     // Occupied bounding box over placed outlines
	occMax geom.Point
	packer *maxRectsPacker // Bounding-box mode state
}

// placement is the placer's pick for one item on one bin.
type placement struct {
	pos     geom.Point // Variant-frame origin position, absolute
	variant variant
}

// placer runs the candidate search for one sheet geometry.
type placer struct {
	sheetW   geom.Unit
	sheetH   geom.Unit
	align    model.Alignment
	anchor   geom.Point // Tie-break target: sheet origin or center
	accuracy float64
}

// place evaluates all rotation variants against the bin and returns the
// best-scoring legal candidate. Candidates from all rotations are pooled
// before scoring; no rotation is preferred except through the score and the
// final candidate-index tie-break.
func (p *placer) place(variants []variant, b *bin) (placement, bool, error) {
	type scored struct {
		cand placement
		area int64   // Resulting occupied bbox area (primary, minimized)
		dist float64 // Squared distance of shape center to anchor (secondary)
		seq  int     // Generation sequence (final tie-break)
	}

	var best *scored
	seq := 0

	for _, v := range variants {
		cands, err := p.candidates(v, b)
		if err != nil {
			return placement{}, false, err
		}
		for _, t := range cands {
			s := scored{cand: placement{pos: t, variant: v}, seq: seq}
			seq++

			newMin, newMax := t, geom.Point{X: t.X + v.w, Y: t.Y + v.h}
			if len(b.placed) > 0 {
				if b.occMin.X < newMin.X {
					newMin.X = b.occMin.X
				}
				if b.occMin.Y < newMin.Y {
					newMin.Y = b.occMin.Y
				}
				if b.occMax.X > newMax.X {
					newMax.X = b.occMax.X
				}
				if b.occMax.Y > newMax.Y {
					newMax.Y = b.occMax.Y
				}
			}
			s.area = int64(newMax.X-newMin.X) * int64(newMax.Y-newMin.Y)

			cx := float64(t.X) + float64(v.w)/2 - float64(p.anchor.X)
			cy := float64(t.Y) + float64(v.h)/2 - float64(p.anchor.Y)
			s.dist = cx*cx + cy*cy

			if best == nil ||
				s.area < best.area ||
				(s.area == best.area && s.dist < best.dist) ||
				(s.area == best.area && s.dist == best.dist && s.seq < best.seq) {
				sc := s
				best = &sc
			}
		}
	}
	if best == nil {
		return placement{}, false, nil
	}
	return best.cand, true, nil
}

// candidates enumerates legal positions for one variant on one bin: NFP
// loop vertices and edge samples, loop/loop and loop/sheet intersections,
// and the sheet anchor corners, all filtered through the exact overlap and
// containment predicates.
func (p *placer) candidates(v variant, b *bin) ([]geom.Point, error) {
	lo, hi, ok := nfp.InnerFit(p.sheetW, p.sheetH, v.inflated)
	if !ok {
		return nil, nil
	}

	if len(b.placed) == 0 {
		// Empty sheet: a single anchored candidate.
		t := lo
		if p.align == model.AlignCenter {
			t = geom.Point{X: lo.X + (hi.X-lo.X)/2, Y: lo.Y + (hi.Y-lo.Y)/2}
		}
		return []geom.Point{t}, nil
	}

	var loops []geom.Polygon
	for _, placed := range b.placed {
		ls, err := nfp.NoFit(placed, v.inflated)
		if err != nil {
			return nil, err
		}
		loops = append(loops, ls...)
	}

	var raw []geom.Point
	for _, loop := range loops {
		raw = append(raw, p.sampleLoop(loop)...)
	}

	ifrEdges := rectEdges(lo, hi)
	for i := 0; i < len(loops); i++ {
		for j := i + 1; j < len(loops); j++ {
			raw = append(raw, loopIntersections(loops[i], loops[j])...)
		}
		for e := 0; e < len(loops[i]); e++ {
			a1 := loops[i][e]
			a2 := loops[i][(e+1)%len(loops[i])]
			for _, edge := range ifrEdges {
				raw = append(raw, geom.SegmentIntersections(a1, a2, edge[0], edge[1])...)
			}
		}
	}
	raw = append(raw, lo, geom.Point{X: hi.X, Y: lo.Y}, hi, geom.Point{X: lo.X, Y: hi.Y})

	// Dedupe preserving first-seen order, then filter against the sheet and
	// every committed placement.
	seen := make(map[geom.Point]struct{}, len(raw))
	var out []geom.Point
	for _, t := range raw {
		if t.X < lo.X || t.X > hi.X || t.Y < lo.Y || t.Y > hi.Y {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		moved := v.inflated.Translate(t)
		legal := true
		for _, placed := range b.placed {
			if moved.Overlaps(placed) {
				legal = false
				break
			}
		}
		if legal {
			out = append(out, t)
		}
	}
	return out, nil
}

// sampleLoop returns the loop vertices plus interior edge samples at the
// resolution implied by the accuracy setting.
func (p *placer) sampleLoop(loop geom.Polygon) []geom.Point {
	splits := int(math.Ceil(p.accuracy * 4)) // 1..4 segments per edge
	if splits < 1 {
		splits = 1
	}
	out := make([]geom.Point, 0, len(loop)*splits)
	n := len(loop)
	for i := 0; i < n; i++ {
		a := loop[i]
		b := loop[(i+1)%n]
		out = append(out, a)
		for k := 1; k < splits; k++ {
			out = append(out, geom.Point{
				X: a.X + geom.Unit(int64(b.X-a.X)*int64(k)/int64(splits)),
				Y: a.Y + geom.Unit(int64(b.Y-a.Y)*int64(k)/int64(splits)),
			})
		}
	}
	return out
}

// loopIntersections returns all contact points between the edges of two
// loops.
func loopIntersections(a, b geom.Polygon) []geom.Point {
	var out []geom.Point
	na, nb := len(a), len(b)
	for i := 0; i < na; i++ {
		for j := 0; j < nb; j++ {
			out = append(out, geom.SegmentIntersections(
				a[i], a[(i+1)%na],
				b[j], b[(j+1)%nb],
			)...)
		}
	}
	return out
}

// rectEdges returns the four boundary segments of the translation rectangle
// from lo to hi. Degenerate (zero-extent) rectangles still yield usable
// segments.
func rectEdges(lo, hi geom.Point) [4][2]geom.Point {
	bl := lo
	br := geom.Point{X: hi.X, Y: lo.Y}
	tr := hi
	tl := geom.Point{X: lo.X, Y: hi.Y}
	return [4][2]geom.Point{{bl, br}, {br, tr}, {tr, tl}, {tl, bl}}
}
