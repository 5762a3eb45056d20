package gcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/nestpack/internal/geom"
	"github.com/piwi3910/nestpack/internal/model"
)

func placedSquare(id string, sizeIn, xIn, yIn float64) *model.Item {
	s := model.ToUnits(sizeIn)
	it := model.NewItem(id, geom.Polygon{
		{X: 0, Y: 0},
		{X: s, Y: 0},
		{X: s, Y: s},
		{X: 0, Y: s},
	}, 0)
	it.State = model.StatePlaced
	it.Transformed = it.Shape.Translate(geom.Point{X: model.ToUnits(xIn), Y: model.ToUnits(yIn)})
	it.Position = geom.Point{X: model.ToUnits(xIn), Y: model.ToUnits(yIn)}
	return it
}

func TestGenerateSheet_ContainsProgramStructure(t *testing.T) {
	gen := New(DefaultSettings())
	items := []*model.Item{placedSquare("s1", 2, 1, 1)}

	code := gen.GenerateSheet(items, 12, 12, 1)

	assert.Contains(t, code, "G90")
	assert.Contains(t, code, "G20")
	assert.Contains(t, code, "M2")
	assert.Contains(t, code, "Sheet 1")
	assert.Contains(t, code, "s1")
}

func TestGenerateSheet_FollowsOutline(t *testing.T) {
	gen := New(DefaultSettings())
	items := []*model.Item{placedSquare("s1", 2, 1, 1)}

	code := gen.GenerateSheet(items, 12, 12, 1)

	// Rapid to the first outline vertex, then feed moves around the square
	// and back to the start.
	assert.Contains(t, code, "G0 X1.0000 Y1.0000")
	assert.Contains(t, code, "G1 X3.0000 Y1.0000")
	assert.Contains(t, code, "G1 X3.0000 Y3.0000")
	assert.Contains(t, code, "G1 X1.0000 Y3.0000")

	closing := strings.Count(code, "G1 X1.0000 Y1.0000")
	assert.GreaterOrEqual(t, closing, 1, "path must close back to the start")
}

func TestGenerateSheet_MultiplePasses(t *testing.T) {
	s := DefaultSettings()
	s.CutDepth = 0.05
	s.PassDepth = 0.02
	gen := New(s)
	items := []*model.Item{placedSquare("s1", 2, 0, 0)}

	code := gen.GenerateSheet(items, 12, 12, 1)
	assert.Contains(t, code, "Pass 1/3")
	assert.Contains(t, code, "Pass 3/3")
	// The final pass stops at the configured cut depth.
	assert.Contains(t, code, "Z-0.0500")
}

func TestGenerateSheet_SkipsDegenerateOutline(t *testing.T) {
	gen := New(DefaultSettings())
	it := placedSquare("tiny", 2, 0, 0)
	it.Transformed = it.Transformed[:2]

	code := gen.GenerateSheet([]*model.Item{it}, 12, 12, 1)
	assert.Contains(t, code, "WARNING")
	assert.NotContains(t, code, "Pass 1/")
}

func TestGenerateAll_OneProgramPerSheet(t *testing.T) {
	gen := New(DefaultSettings())
	bins := [][]*model.Item{
		{placedSquare("a", 2, 0, 0)},
		{placedSquare("b", 3, 0, 0)},
	}

	codes := gen.GenerateAll(bins, 12, 12)
	require.Len(t, codes, 2)
	assert.Contains(t, codes[0], "Sheet 1")
	assert.Contains(t, codes[1], "Sheet 2")
	assert.Contains(t, codes[0], "a")
	assert.Contains(t, codes[1], "b")
}
