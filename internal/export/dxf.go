package export

import (
	"fmt"

	"github.com/yofu/dxf"
	dxfcolor "github.com/yofu/dxf/color"
	"github.com/yofu/dxf/table"

	"github.com/piwi3910/nestpack/internal/model"
)

// sheetGapIn is the horizontal gap between sheet outlines in the DXF output.
const sheetGapIn = 2.0

// ExportDXF writes the nested layout as a DXF drawing in inches: one closed
// LWPOLYLINE per placed sticker on a CUT layer, plus sheet boundary
// rectangles on a SHEET layer. Sheets are laid out side by side.
func ExportDXF(path string, layout *Layout) error {
	bins := layout.Bins()
	if len(bins) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	sw := layout.SheetWidthIn()
	sh := layout.SheetHeightIn()

	d := dxf.NewDrawing()
	d.AddLayer("SHEET", dxf.DefaultColor, table.LT_CONTINUOUS, true)
	d.AddLayer("CUT", dxfcolor.Red, table.LT_CONTINUOUS, false)

	for binID, items := range bins {
		offX := float64(binID) * (sw + sheetGapIn)

		d.ChangeLayer("SHEET")
		d.LwPolyline(true,
			[]float64{offX, 0},
			[]float64{offX + sw, 0},
			[]float64{offX + sw, sh},
			[]float64{offX, sh},
		)

		d.ChangeLayer("CUT")
		for _, it := range items {
			verts := make([][]float64, 0, len(it.Transformed))
			for _, p := range it.Transformed {
				verts = append(verts, []float64{
					offX + model.ToInches(p.X),
					model.ToInches(p.Y),
				})
			}
			d.LwPolyline(true, verts...)
		}
	}

	return d.SaveAs(path)
}
