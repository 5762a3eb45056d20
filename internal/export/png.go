package export

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/piwi3910/nestpack/internal/model"
)

// pngPixelsPerInch controls the raster resolution of sheet previews.
const pngPixelsPerInch = 32

var pngColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 255},
	{R: 33, G: 150, B: 243, A: 255},
	{R: 255, G: 152, B: 0, A: 255},
	{R: 156, G: 39, B: 176, A: 255},
	{R: 0, G: 188, B: 212, A: 255},
	{R: 244, G: 67, B: 54, A: 255},
	{R: 255, G: 235, B: 59, A: 255},
	{R: 121, G: 85, B: 72, A: 255},
}

// ExportPNG renders one preview image per sheet. With multiple sheets the
// bin index is appended to the file name before the extension.
func ExportPNG(path string, layout *Layout) error {
	bins := layout.Bins()
	if len(bins) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	for binID, items := range bins {
		img := renderSheetImage(layout, items)
		out := path
		if len(bins) > 1 {
			ext := filepath.Ext(path)
			out = strings.TrimSuffix(path, ext) + fmt.Sprintf("-%d", binID+1) + ext
		}
		file, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		err = imaging.Encode(file, img, imaging.PNG)
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
	}
	return nil
}

// renderSheetImage rasterizes one sheet: white background, filled sticker
// outlines via even-odd scanline fill.
func renderSheetImage(layout *Layout, items []*model.Item) image.Image {
	w := int(layout.SheetWidthIn()*pngPixelsPerInch + 0.5)
	h := int(layout.SheetHeightIn()*pngPixelsPerInch + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	img := imaging.New(w, h, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	for i, it := range items {
		col := pngColors[i%len(pngColors)]
		fillPolygon(img, it, col)
	}
	return img
}

// fillPolygon paints the transformed outline using horizontal scanlines and
// even-odd crossing counts, in image coordinates (y down).
func fillPolygon(img *image.NRGBA, it *model.Item, col color.NRGBA) {
	poly := it.Transformed
	n := len(poly)
	if n < 3 {
		return
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	minY, maxY := 1e18, -1e18
	for i, p := range poly {
		xs[i] = model.ToInches(p.X) * pngPixelsPerInch
		ys[i] = model.ToInches(p.Y) * pngPixelsPerInch
		if ys[i] < minY {
			minY = ys[i]
		}
		if ys[i] > maxY {
			maxY = ys[i]
		}
	}

	bounds := img.Bounds()
	y0 := int(minY)
	y1 := int(maxY) + 1
	if y0 < bounds.Min.Y {
		y0 = bounds.Min.Y
	}
	if y1 > bounds.Max.Y {
		y1 = bounds.Max.Y
	}

	for y := y0; y < y1; y++ {
		cy := float64(y) + 0.5
		var crossings []float64
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			if (ys[i] <= cy) == (ys[j] <= cy) {
				continue
			}
			t := (cy - ys[i]) / (ys[j] - ys[i])
			crossings = append(crossings, xs[i]+t*(xs[j]-xs[i]))
		}
		sort.Float64s(crossings)
		for a := 0; a+1 < len(crossings); a += 2 {
			x0 := int(crossings[a] + 0.5)
			x1 := int(crossings[a+1] + 0.5)
			if x0 < bounds.Min.X {
				x0 = bounds.Min.X
			}
			if x1 > bounds.Max.X {
				x1 = bounds.Max.X
			}
			for x := x0; x < x1; x++ {
				img.SetNRGBA(x, y, col)
			}
		}
	}
}
