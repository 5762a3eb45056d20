package engine

import (
	"math"
	"sort"

	"github.com/maruel/natural"

	"github.com/piwi3910/nestpack/internal/model"
)

// OrderFunc produces the processing order for a nesting run. Implementations
// must define a total, deterministic order: identical input always yields an
// identical sequence.
type OrderFunc func(items []*model.Item) []*model.Item

// orderFor resolves the configured ordering policy. The genetic policy is
// handled separately by the orchestrator because it needs the full config.
func orderFor(policy model.OrderPolicy) OrderFunc {
	switch policy {
	case model.OrderPerimeter:
		return orderByPerimeter
	case model.OrderDiagonal:
		return orderByDiagonal
	case model.OrderID:
		return orderByID
	default:
		return orderByArea
	}
}

// orderByArea sorts largest outline area first. Ties keep the original
// input order, which pins the output for identical inputs.
func orderByArea(items []*model.Item) []*model.Item {
	out := cloneOrder(items)
	sort.SliceStable(out, func(i, j int) bool {
		ai := absArea2(out[i])
		aj := absArea2(out[j])
		if ai != aj {
			return ai > aj
		}
		return out[i].Index < out[j].Index
	})
	return out
}

// orderByPerimeter sorts longest outline first.
func orderByPerimeter(items []*model.Item) []*model.Item {
	out := cloneOrder(items)
	sort.SliceStable(out, func(i, j int) bool {
		pi := out[i].Shape.Perimeter()
		pj := out[j].Shape.Perimeter()
		if pi != pj {
			return pi > pj
		}
		return out[i].Index < out[j].Index
	})
	return out
}

// orderByDiagonal sorts largest bounding-box diagonal first.
func orderByDiagonal(items []*model.Item) []*model.Item {
	out := cloneOrder(items)
	diag := func(it *model.Item) float64 {
		min, max := it.Shape.BoundingBox()
		dx := float64(max.X - min.X)
		dy := float64(max.Y - min.Y)
		return math.Hypot(dx, dy)
	}
	sort.SliceStable(out, func(i, j int) bool {
		di := diag(out[i])
		dj := diag(out[j])
		if di != dj {
			return di > dj
		}
		return out[i].Index < out[j].Index
	})
	return out
}

// orderByID sorts by natural order of the sticker ids, so "sticker2" comes
// before "sticker10".
func orderByID(items []*model.Item) []*model.Item {
	out := cloneOrder(items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return natural.Less(out[i].ID, out[j].ID)
		}
		return out[i].Index < out[j].Index
	})
	return out
}

func cloneOrder(items []*model.Item) []*model.Item {
	out := make([]*model.Item, len(items))
	copy(out, items)
	return out
}

// absArea2 returns twice the unsigned outline area as an exact integer, so
// area ordering never depends on float rounding.
func absArea2(it *model.Item) int64 {
	a := it.Shape.SignedArea2()
	if a < 0 {
		a = -a
	}
	return a
}
