// Package export renders a completed nesting run to various file formats:
// a PDF layout report, QR-coded sticker labels, DXF cut outlines, an XLSX
// placement schedule and PNG sheet previews.
package export

import (
	"github.com/piwi3910/nestpack/internal/geom"
	"github.com/piwi3910/nestpack/internal/model"
)

// Layout is the exporters' view of a completed run: the aggregate result
// plus the items carrying their transformed outlines.
type Layout struct {
	SheetWidth  geom.Unit
	SheetHeight geom.Unit
	Result      *model.NestResult
	Items       []*model.Item
}

// Bins groups the placed items by bin, ordered by bin id and placement
// order within each bin.
func (l *Layout) Bins() [][]*model.Item {
	if l.Result.BinCount == 0 {
		return nil
	}
	bins := make([][]*model.Item, l.Result.BinCount)
	for _, it := range l.Items {
		if it.State == model.StatePlaced && it.BinID >= 0 && it.BinID < len(bins) {
			bins[it.BinID] = append(bins[it.BinID], it)
		}
	}
	return bins
}

// SheetWidthIn and SheetHeightIn report the sheet dimensions in inches.
func (l *Layout) SheetWidthIn() float64  { return model.ToInches(l.SheetWidth) }
func (l *Layout) SheetHeightIn() float64 { return model.ToInches(l.SheetHeight) }
