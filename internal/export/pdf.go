package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/nestpack/internal/model"
)

// stickerColor represents an RGB color for a placed sticker.
type stickerColor struct {
	R, G, B int
}

var stickerColors = []stickerColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF renders the nesting layout as a PDF: one page per sheet with the
// placed outlines drawn to scale, followed by a summary page.
func ExportPDF(path string, layout *Layout) error {
	bins := layout.Bins()
	if len(bins) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, items := range bins {
		pdf.AddPage()
		renderSheetPage(pdf, layout, items, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, layout)

	return pdf.OutputFileAndClose(path)
}

// renderSheetPage draws one sheet and its placed stickers on the current page.
func renderSheetPage(pdf *fpdf.Fpdf, layout *Layout, items []*model.Item, sheetNum int) {
	sw := layout.SheetWidthIn()
	sh := layout.SheetHeightIn()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Sheet %d (%.2f x %.2f in)", sheetNum, sw, sh)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	perSqIn := float64(model.UnitsPerInch) * float64(model.UnitsPerInch)
	var used float64
	for _, it := range items {
		used += it.Area() / perSqIn
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Stickers: %d | Used area: %.2f in² | Sheet area: %.2f in²",
		len(items), used, sw*sh)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scale := math.Min(drawWidth/sw, drawHeight/sh)
	canvasW := sw * scale
	canvasH := sh * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Sheet background.
	pdf.SetFillColor(250, 250, 245)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, it := range items {
		col := stickerColors[i%len(stickerColors)]
		pts := make([]fpdf.PointType, 0, len(it.Transformed))
		for _, p := range it.Transformed {
			pts = append(pts, fpdf.PointType{
				X: offsetX + model.ToInches(p.X)*scale,
				Y: offsetY + model.ToInches(p.Y)*scale,
			})
		}
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Polygon(pts, "FD")

		min, max := it.Transformed.BoundingBox()
		bw := model.ToInches(max.X-min.X) * scale
		bh := model.ToInches(max.Y-min.Y) * scale
		if bw > 12 && bh > 6 {
			pdf.SetFont("Helvetica", "", labelFontSize(bw, bh))
			pdf.SetTextColor(0, 0, 0)
			labelW := pdf.GetStringWidth(it.ID)
			if labelW < bw-2 {
				cx := offsetX + model.ToInches(min.X+max.X)/2*scale
				cy := offsetY + model.ToInches(min.Y+max.Y)/2*scale
				pdf.SetXY(cx-labelW/2, cy-2)
				pdf.CellFormat(labelW, 4, it.ID, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, sw, sh, offsetX, offsetY, canvasW, canvasH)
	drawStickerLegend(pdf, items, offsetY+canvasH+5)
}

// drawDimensionAnnotations adds width and height labels outside the sheet
// rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, sw, sh, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.2f in", sw)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.2f in", sh)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawStickerLegend renders a compact legend of placed stickers below the
// sheet drawing.
func drawStickerLegend(pdf *fpdf.Fpdf, items []*model.Item, startY float64) {
	if len(items) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, it := range items {
		col := stickerColors[i%len(stickerColors)]
		label := it.ID
		if it.Rotation != 0 {
			label += fmt.Sprintf(" @%d\xb0", it.Rotation)
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final page with run statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, layout *Layout) {
	res := layout.Result

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Nesting Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	summaryItems := []struct {
		label string
		value string
	}{
		{"Sheets Used", fmt.Sprintf("%d", res.BinCount)},
		{"Stickers Placed", fmt.Sprintf("%d / %d", res.PlacedCount, res.TotalCount)},
		{"Utilization", fmt.Sprintf("%.2f%%", res.Utilization)},
		{"Packing Time", res.PackingTime.String()},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	if len(res.Rejected) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "Excluded Stickers", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, r := range res.Rejected {
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, fmt.Sprintf("- %s: %s", r.ID, r.Reason), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by nestpack", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size for the available space.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
