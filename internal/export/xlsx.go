package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/nestpack/internal/model"
)

// ExportXLSX writes the placement schedule as an Excel workbook: one
// "Placements" sheet listing every placed sticker, and a "Summary" sheet
// with run statistics.
func ExportXLSX(path string, layout *Layout) error {
	res := layout.Result
	if res.PlacedCount == 0 {
		return fmt.Errorf("no placements to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	const placements = "Placements"
	f.SetSheetName("Sheet1", placements)

	headers := []string{"Sticker", "Sheet", "X (in)", "Y (in)", "Rotation", "Width (in)", "Height (in)"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(placements, cell, h)
	}

	row := 2
	for _, it := range layout.Items {
		if it.State != model.StatePlaced {
			continue
		}
		min, max := it.Transformed.BoundingBox()
		values := []interface{}{
			it.ID,
			it.BinID + 1,
			model.ToInches(it.Position.X),
			model.ToInches(it.Position.Y),
			it.Rotation,
			model.ToInches(max.X - min.X),
			model.ToInches(max.Y - min.Y),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(placements, cell, v)
		}
		row++
	}

	const summary = "Summary"
	if _, err := f.NewSheet(summary); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}

	stats := [][]interface{}{
		{"Sheet size (in)", fmt.Sprintf("%.2f x %.2f", layout.SheetWidthIn(), layout.SheetHeightIn())},
		{"Sheets used", res.BinCount},
		{"Stickers placed", res.PlacedCount},
		{"Stickers total", res.TotalCount},
		{"Utilization (%)", res.Utilization},
		{"Packing time", res.PackingTime.String()},
	}
	for i, pair := range stats {
		for j, v := range pair {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			f.SetCellValue(summary, cell, v)
		}
	}

	rejRow := len(stats) + 2
	for _, r := range res.Rejected {
		c1, _ := excelize.CoordinatesToCellName(1, rejRow)
		c2, _ := excelize.CoordinatesToCellName(2, rejRow)
		f.SetCellValue(summary, c1, "Excluded: "+r.ID)
		f.SetCellValue(summary, c2, r.Reason)
		rejRow++
	}

	return f.SaveAs(path)
}
