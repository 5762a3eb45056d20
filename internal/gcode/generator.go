// Package gcode turns a nested sheet layout into cutter toolpaths. The
// generated program follows each placed sticker outline at the configured
// feed rates, one file per sheet.
package gcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/nestpack/internal/model"
)

// Settings holds the machine parameters for toolpath generation. Lengths
// are inches, feeds are inches per minute.
type Settings struct {
	FeedRate      float64
	PlungeRate    float64
	SafeZ         float64
	CutDepth      float64
	PassDepth     float64
	DecimalPlaces int
}

// DefaultSettings returns parameters suited to a drag-knife vinyl cutter:
// a single shallow pass at moderate feed.
func DefaultSettings() Settings {
	return Settings{
		FeedRate:      40,
		PlungeRate:    10,
		SafeZ:         0.25,
		CutDepth:      0.02,
		PassDepth:     0.02,
		DecimalPlaces: 4,
	}
}

// Generator produces cutter programs from a nested layout.
type Generator struct {
	Settings Settings
}

func New(settings Settings) *Generator {
	return &Generator{Settings: settings}
}

// GenerateSheet produces the program for one sheet's placed stickers.
func (g *Generator) GenerateSheet(items []*model.Item, sheetWidth, sheetHeight float64, sheetNum int) string {
	var b strings.Builder

	g.writeHeader(&b, items, sheetWidth, sheetHeight, sheetNum)

	for i, it := range items {
		g.writeSticker(&b, it, i+1)
	}

	g.writeFooter(&b)
	return b.String()
}

// GenerateAll produces one program per sheet, indexed by bin id.
func (g *Generator) GenerateAll(bins [][]*model.Item, sheetWidth, sheetHeight float64) []string {
	codes := make([]string, 0, len(bins))
	for i, items := range bins {
		codes = append(codes, g.GenerateSheet(items, sheetWidth, sheetHeight, i+1))
	}
	return codes
}

func (g *Generator) writeHeader(b *strings.Builder, items []*model.Item, sheetWidth, sheetHeight float64, sheetNum int) {
	b.WriteString(fmt.Sprintf("; nestpack toolpath - Sheet %d\n", sheetNum))
	b.WriteString(fmt.Sprintf("; Sheet: %.2f x %.2f in\n", sheetWidth, sheetHeight))
	b.WriteString(fmt.Sprintf("; Stickers: %d\n", len(items)))
	b.WriteString(fmt.Sprintf("; Feed: %.0f in/min, Plunge: %.0f in/min\n", g.Settings.FeedRate, g.Settings.PlungeRate))
	b.WriteString(fmt.Sprintf("; Depth: %.3f in in %.3f in passes\n", g.Settings.CutDepth, g.Settings.PassDepth))
	b.WriteString("\n")
	b.WriteString("G90 ; absolute positioning\n")
	b.WriteString("G20 ; inches\n")
	b.WriteString(fmt.Sprintf("G0 X%s Y%s\n", g.format(0), g.format(0)))
	b.WriteString(fmt.Sprintf("G0 Z%s\n", g.format(g.Settings.SafeZ)))
	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder) {
	b.WriteString("\n; === Job complete ===\n")
	b.WriteString(fmt.Sprintf("G0 Z%s\n", g.format(g.Settings.SafeZ)))
	b.WriteString("G0 X0 Y0\n")
	b.WriteString("M2\n")
}

// writeSticker emits the cut moves for one placed outline, repeated for
// each depth pass.
func (g *Generator) writeSticker(b *strings.Builder, it *model.Item, num int) {
	outline := it.Transformed
	if len(outline) < 3 {
		b.WriteString(fmt.Sprintf("; WARNING: sticker %q outline has fewer than 3 points, skipping\n", it.ID))
		return
	}

	min, max := outline.BoundingBox()
	b.WriteString(fmt.Sprintf("; --- Sticker %d: %s (%.2f x %.2f in)%s ---\n",
		num, it.ID,
		model.ToInches(max.X-min.X), model.ToInches(max.Y-min.Y),
		rotationStr(it.Rotation)))

	pts := make([][2]float64, len(outline))
	for i, p := range outline {
		pts[i] = [2]float64{model.ToInches(p.X), model.ToInches(p.Y)}
	}

	numPasses := int(math.Ceil(g.Settings.CutDepth / g.Settings.PassDepth))
	if numPasses < 1 {
		numPasses = 1
	}

	for pass := 1; pass <= numPasses; pass++ {
		depth := float64(pass) * g.Settings.PassDepth
		if depth > g.Settings.CutDepth {
			depth = g.Settings.CutDepth
		}

		b.WriteString(fmt.Sprintf("; Pass %d/%d, depth=%.3f in\n", pass, numPasses, depth))

		b.WriteString(fmt.Sprintf("G0 X%s Y%s\n", g.format(pts[0][0]), g.format(pts[0][1])))
		b.WriteString(fmt.Sprintf("G1 Z%s F%s\n", g.format(-depth), g.format(g.Settings.PlungeRate)))

		for i := 1; i < len(pts); i++ {
			b.WriteString(fmt.Sprintf("G1 X%s Y%s F%s\n",
				g.format(pts[i][0]), g.format(pts[i][1]), g.format(g.Settings.FeedRate)))
		}
		// Close the loop back to the first point.
		b.WriteString(fmt.Sprintf("G1 X%s Y%s F%s\n",
			g.format(pts[0][0]), g.format(pts[0][1]), g.format(g.Settings.FeedRate)))

		b.WriteString(fmt.Sprintf("G0 Z%s\n", g.format(g.Settings.SafeZ)))
	}

	b.WriteString("\n")
}

// format formats a coordinate at the configured precision.
func (g *Generator) format(v float64) string {
	return fmt.Sprintf(fmt.Sprintf("%%.%df", g.Settings.DecimalPlaces), v)
}

func rotationStr(deg int) string {
	if deg == 0 {
		return ""
	}
	return fmt.Sprintf(" [rotated %d\xb0]", deg)
}
