package engine

import "github.com/piwi3910/nestpack/internal/geom"

// maxRectsPacker packs axis-aligned bounding boxes into one sheet using the
// maximal-rectangles best-area-fit heuristic. It backs the reduced-fidelity
// bounding-box placement mode and the genetic strategy's fitness decoder,
// where running the full NFP search per chromosome would be far too slow.
// All arithmetic is integer Units, so packing is exact and reproducible.
type maxRectsPacker struct {
	freeRects []urect
	spacing   geom.Unit
}

type urect struct {
	x, y, w, h geom.Unit
}

func newMaxRectsPacker(width, height, spacing geom.Unit) *maxRectsPacker {
	return &maxRectsPacker{
		freeRects: []urect{{0, 0, width, height}},
		spacing:   spacing,
	}
}

// insert places a w x h box and returns its min corner. The spacing margin
// is reserved to the right and above each placement, keeping neighbouring
// boxes at least one spacing apart.
func (mp *maxRectsPacker) insert(w, h geom.Unit) (geom.Point, bool) {
	bestIdx := -1
	var bestWaste int64 = -1
	wk := w + mp.spacing
	hk := h + mp.spacing

	for i, r := range mp.freeRects {
		if !fitsFree(r, w, h, mp.spacing) {
			continue
		}
		waste := int64(r.w)*int64(r.h) - int64(w)*int64(h)
		if bestIdx < 0 || waste < bestWaste {
			bestIdx = i
			bestWaste = waste
		}
	}
	if bestIdx < 0 {
		return geom.Point{}, false
	}

	chosen := mp.freeRects[bestIdx]
	placed := urect{x: chosen.x, y: chosen.y, w: wk, h: hk}
	mp.splitAroundPlacement(placed)
	return geom.Point{X: chosen.x, Y: chosen.y}, true
}

// bestFit returns the waste of the tightest free rectangle that can hold a
// w x h box without modifying the packer, or -1 when nothing fits.
func (mp *maxRectsPacker) bestFit(w, h geom.Unit) int64 {
	var best int64 = -1
	for _, r := range mp.freeRects {
		if !fitsFree(r, w, h, mp.spacing) {
			continue
		}
		waste := int64(r.w)*int64(r.h) - int64(w)*int64(h)
		if best < 0 || waste < best {
			best = waste
		}
	}
	return best
}

// fitsFree reports whether a w x h box plus its spacing margin fits into
// the free rect.
func fitsFree(r urect, w, h, spacing geom.Unit) bool {
	return w+spacing <= r.w && h+spacing <= r.h
}

// splitAroundPlacement removes every free rect overlapping the placed box
// and replaces it with up to four maximal strips, then prunes rects fully
// contained in another. Maximal rectangles keep strips spanning previous
// splits available, which lets later boxes rotate into them.
func (mp *maxRectsPacker) splitAroundPlacement(placed urect) {
	var next []urect
	for _, r := range mp.freeRects {
		if !urectsOverlap(r, placed) {
			next = append(next, r)
			continue
		}
		// Left strip, full height.
		if placed.x > r.x {
			next = append(next, urect{x: r.x, y: r.y, w: placed.x - r.x, h: r.h})
		}
		// Right strip, full height.
		if placed.x+placed.w < r.x+r.w {
			next = append(next, urect{x: placed.x + placed.w, y: r.y, w: r.x + r.w - placed.x - placed.w, h: r.h})
		}
		// Bottom strip, full width.
		if placed.y > r.y {
			next = append(next, urect{x: r.x, y: r.y, w: r.w, h: placed.y - r.y})
		}
		// Top strip, full width.
		if placed.y+placed.h < r.y+r.h {
			next = append(next, urect{x: r.x, y: placed.y + placed.h, w: r.w, h: r.y + r.h - placed.y - placed.h})
		}
	}
	mp.freeRects = pruneContained(next)
}

// urectsOverlap reports whether two rects overlap with positive area.
func urectsOverlap(a, b urect) bool {
	return a.x < b.x+b.w && a.x+a.w > b.x &&
		a.y < b.y+b.h && a.y+a.h > b.y
}

// pruneContained removes any rect fully contained within another.
func pruneContained(rects []urect) []urect {
	if len(rects) <= 1 {
		return rects
	}
	kept := make([]urect, 0, len(rects))
	for i, a := range rects {
		contained := false
		for j, b := range rects {
			if i != j && containsURect(b, a) {
				// Identical rects keep only the first occurrence.
				if a != b || j < i {
					contained = true
					break
				}
			}
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}

func containsURect(outer, inner urect) bool {
	return outer.x <= inner.x && outer.y <= inner.y &&
		outer.x+outer.w >= inner.x+inner.w &&
		outer.y+outer.h >= inner.y+inner.h
}
