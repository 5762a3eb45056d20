package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/nestpack/internal/model"
)

// LabelInfo holds the data encoded into each sticker label's QR code.
type LabelInfo struct {
	StickerID string  `json:"id"`
	Width     float64 `json:"width_in"`
	Height    float64 `json:"height_in"`
	Sheet     int     `json:"sheet"`
	Rotation  int     `json:"rotation"`
	X         float64 `json:"x_in"`
	Y         float64 `json:"y_in"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10
// rows per page on US Letter).
const (
	labelPageWidth  = 215.9
	labelPageHeight = 279.4
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// ExportLabels generates a PDF of QR-coded labels for all placed stickers.
// Each label carries the sticker id, its dimensions and a QR code encoding
// placement metadata as JSON.
func ExportLabels(path string, layout *Layout) error {
	labels := CollectLabelInfos(layout)
	if len(labels) == 0 {
		return fmt.Errorf("no stickers placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, i, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.StickerID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, seq int, info LabelInfo) error {
	// Light border as a cutting guide.
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d", info.StickerID, seq)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	id := info.StickerID
	if pdf.GetStringWidth(id) > textW {
		for len(id) > 0 && pdf.GetStringWidth(id+"...") > textW {
			id = id[:len(id)-1]
		}
		id += "..."
	}
	pdf.CellFormat(textW, 4.5, id, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.2f x %.2f in", info.Width, info.Height)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	sheetInfo := fmt.Sprintf("Sheet %d @ (%.2f, %.2f)", info.Sheet+1, info.X, info.Y)
	pdf.CellFormat(textW, 3, sheetInfo, "", 1, "L", false, 0, "")

	if info.Rotation != 0 {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, fmt.Sprintf("Rotated %d\xb0", info.Rotation), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos extracts label information from a layout, in placement
// order.
func CollectLabelInfos(layout *Layout) []LabelInfo {
	var labels []LabelInfo
	for _, it := range layout.Items {
		if it.State != model.StatePlaced {
			continue
		}
		min, max := it.Transformed.BoundingBox()
		labels = append(labels, LabelInfo{
			StickerID: it.ID,
			Width:     model.ToInches(max.X - min.X),
			Height:    model.ToInches(max.Y - min.Y),
			Sheet:     it.BinID,
			Rotation:  it.Rotation,
			X:         model.ToInches(it.Position.X),
			Y:         model.ToInches(it.Position.Y),
		})
	}
	return labels
}
