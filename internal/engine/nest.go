// Package engine implements the nesting engine: item ordering, candidate
// placement search over no-fit polygons, scoring, and multi-sheet
// orchestration. A run is a single greedy pass; earlier commitments are
// never revisited.
package engine

import (
	"io"
	"log"
	"time"

	"github.com/piwi3910/nestpack/internal/geom"
	"github.com/piwi3910/nestpack/internal/model"
)

// Nester drives one nesting run. It owns the item and bin collections for
// the duration of the run; runs share no mutable state and may execute
// concurrently on separate Nester values.
type Nester struct {
	cfg  model.NestConfig
	log  *log.Logger
	half geom.Unit // Per-item inflation: half the spacing, rounded up
}

// New validates the configuration and builds a Nester. A nil logger
// silences engine telemetry.
func New(cfg model.NestConfig, logger *log.Logger) (*Nester, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Nester{
		cfg:  cfg,
		log:  logger,
		half: (cfg.Spacing + 1) / 2,
	}, nil
}

// Run places the items onto as few sheets as it can and reports the
// outcome. Rejected items (bad geometry) and unplaceable items are recorded
// in the result, never dropped. The only fatal failures are configuration
// and internal-invariant errors.
func (n *Nester) Run(items []*model.Item) (*model.NestResult, error) {
	start := time.Now()
	res := &model.NestResult{TotalCount: len(items)}

	var pending []*model.Item
	for _, it := range items {
		if it.State == model.StateRejected {
			n.log.Printf("sticker %q excluded: %v", it.ID, it.Err)
			res.Rejected = append(res.Rejected, model.RejectedItem{ID: it.ID, Reason: it.Err.Error()})
			continue
		}
		pending = append(pending, it)
	}

	var ordered []*model.Item
	if n.cfg.Order == model.OrderGenetic {
		ordered = geneticOrder(pending, n.cfg)
	} else {
		ordered = orderFor(n.cfg.Order)(pending)
	}
	n.log.Printf("processing %d stickers in %s order", len(ordered), n.cfg.Order)

	var deadline time.Time
	if n.cfg.Timeout > 0 {
		deadline = start.Add(n.cfg.Timeout)
	}

	anchor := geom.Point{}
	if n.cfg.Alignment == model.AlignCenter {
		anchor = geom.Point{X: n.cfg.SheetWidth / 2, Y: n.cfg.SheetHeight / 2}
	}
	pl := &placer{
		sheetW:   n.cfg.SheetWidth,
		sheetH:   n.cfg.SheetHeight,
		align:    n.cfg.Alignment,
		anchor:   anchor,
		accuracy: n.cfg.Accuracy,
	}

	var bins []*bin
	packStart := time.Now()

	for _, it := range ordered {
		if !deadline.IsZero() && time.Now().After(deadline) {
			it.State = model.StateUnplaceable
			n.log.Printf("time budget exhausted, sticker %q left unplaced", it.ID)
			continue
		}
		it.State = model.StateEvaluating
		variants := buildVariants(it, n.cfg.Rotations, n.half)

		placed := false
		for _, b := range bins {
			ok, err := n.tryBin(it, variants, b, pl)
			if err != nil {
				return nil, &model.InternalError{Msg: err.Error()}
			}
			if ok {
				placed = true
				break
			}
		}
		if !placed {
			nb := n.newBin(len(bins))
			ok, err := n.tryBin(it, variants, nb, pl)
			if err != nil {
				return nil, &model.InternalError{Msg: err.Error()}
			}
			if ok {
				bins = append(bins, nb)
				n.log.Printf("opened sheet %d", nb.id)
				placed = true
			}
		}
		if !placed {
			it.State = model.StateUnplaceable
			n.log.Printf("sticker %q does not fit an empty sheet at any rotation", it.ID)
			continue
		}
		res.Placements = append(res.Placements, model.Placement{
			ID:       it.ID,
			Position: it.Position,
			Rotation: it.Rotation,
			BinID:    it.BinID,
		})
	}

	res.PackingTime = time.Since(packStart)
	res.BinCount = len(bins)
	res.PlacedCount = len(res.Placements)
	if res.BinCount > 0 {
		var used float64
		for _, it := range ordered {
			if it.State == model.StatePlaced {
				used += it.Area()
			}
		}
		sheetArea := float64(n.cfg.SheetWidth) * float64(n.cfg.SheetHeight)
		res.Utilization = 100 * used / (float64(res.BinCount) * sheetArea)
	}

	n.log.Printf("placed %d/%d stickers on %d sheet(s), utilization %.2f%%, packing took %v",
		res.PlacedCount, res.TotalCount, res.BinCount, res.Utilization, res.PackingTime)
	return res, nil
}

func (n *Nester) newBin(id int) *bin {
	b := &bin{id: id}
	if n.cfg.Mode == model.ModeBoundingBox {
		b.packer = newMaxRectsPacker(n.cfg.SheetWidth, n.cfg.SheetHeight, n.cfg.Spacing)
	}
	return b
}

// tryBin attempts to place the item on one bin, committing the placement on
// success. Errors indicate an engine defect (failed NFP construction) and
// abort the run.
func (n *Nester) tryBin(it *model.Item, variants []variant, b *bin, pl *placer) (bool, error) {
	if n.cfg.Mode == model.ModeBoundingBox {
		return n.tryBinBBox(it, variants, b), nil
	}
	plc, ok, err := pl.place(variants, b)
	if err != nil || !ok {
		return false, err
	}
	n.commit(it, b, plc)
	return true, nil
}

// commit writes the single placement mutation for an item and updates the
// bin's collision state.
func (n *Nester) commit(it *model.Item, b *bin, plc placement) {
	v := plc.variant
	t := plc.pos

	moved := v.inflated.Translate(t)
	if len(b.placed) == 0 {
		b.occMin = t
		b.occMax = geom.Point{X: t.X + v.w, Y: t.Y + v.h}
	} else {
		if t.X < b.occMin.X {
			b.occMin.X = t.X
		}
		if t.Y < b.occMin.Y {
			b.occMin.Y = t.Y
		}
		if t.X+v.w > b.occMax.X {
			b.occMax.X = t.X + v.w
		}
		if t.Y+v.h > b.occMax.Y {
			b.occMax.Y = t.Y + v.h
		}
	}
	b.placed = append(b.placed, moved)

	it.Transformed = v.shape.Translate(t)
	it.Position = t.Add(v.reportOff)
	it.Rotation = v.rotation
	it.BinID = b.id
	it.State = model.StatePlaced
}

// tryBinBBox places via the maximal-rects packer on the outline's bounding
// box, comparing all rotations and keeping the tightest fit. Rotation ties
// keep the earlier rotation in the configured set.
func (n *Nester) tryBinBBox(it *model.Item, variants []variant, b *bin) bool {
	bestIdx := -1
	var bestWaste int64 = -1
	for i, v := range variants {
		min, max := v.shape.BoundingBox()
		waste := b.packer.bestFit(max.X-min.X, max.Y-min.Y)
		if waste >= 0 && (bestIdx < 0 || waste < bestWaste) {
			bestIdx = i
			bestWaste = waste
		}
	}
	if bestIdx < 0 {
		return false
	}

	v := variants[bestIdx]
	min, max := v.shape.BoundingBox()
	pos, ok := b.packer.insert(max.X-min.X, max.Y-min.Y)
	if !ok {
		return false
	}

	it.Transformed = v.shape.Translate(pos.Sub(min))
	it.Position = pos
	it.Rotation = v.rotation
	it.BinID = b.id
	it.State = model.StatePlaced
	return true
}
