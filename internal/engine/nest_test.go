package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/nestpack/internal/geom"
	"github.com/piwi3910/nestpack/internal/model"
)

func testConfig(widthIn, heightIn float64) model.NestConfig {
	cfg := model.DefaultNestConfig()
	cfg.SheetWidth = model.ToUnits(widthIn)
	cfg.SheetHeight = model.ToUnits(heightIn)
	cfg.Spacing = 0
	cfg.Rotations = []int{0}
	return cfg
}

func squareItem(id string, sizeIn float64, index int) *model.Item {
	s := model.ToUnits(sizeIn)
	return model.NewItem(id, geom.Polygon{
		{X: 0, Y: 0},
		{X: s, Y: 0},
		{X: s, Y: s},
		{X: 0, Y: s},
	}, index)
}

func rectItem(id string, wIn, hIn float64, index int) *model.Item {
	w := model.ToUnits(wIn)
	h := model.ToUnits(hIn)
	return model.NewItem(id, geom.Polygon{
		{X: 0, Y: 0},
		{X: w, Y: 0},
		{X: w, Y: h},
		{X: 0, Y: h},
	}, index)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(12, 12)
	cfg.SheetWidth = 0
	_, err := New(cfg, nil)
	require.Error(t, err)

	var ce *model.ConfigError
	assert.True(t, errors.As(err, &ce))
}

func TestRun_SingleUnitSquare(t *testing.T) {
	n, err := New(testConfig(12, 12), nil)
	require.NoError(t, err)

	items := []*model.Item{squareItem("s1", 1, 0)}
	res, err := n.Run(items)
	require.NoError(t, err)

	assert.Equal(t, 1, res.BinCount)
	assert.Equal(t, 1, res.PlacedCount)
	assert.Equal(t, 1, res.TotalCount)
	require.Len(t, res.Placements, 1)

	p := res.Placements[0]
	assert.Equal(t, "s1", p.ID)
	assert.Equal(t, geom.Point{X: 0, Y: 0}, p.Position)
	assert.Equal(t, 0, p.Rotation)
	assert.Equal(t, 0, p.BinID)
	assert.InDelta(t, 100.0/144.0, res.Utilization, 0.001)
}

func TestRun_OversizedItemIsUnplaceable(t *testing.T) {
	cfg := testConfig(12, 12)
	cfg.Rotations = []int{0, 90, 180, 270}
	n, err := New(cfg, nil)
	require.NoError(t, err)

	items := []*model.Item{squareItem("big", 13, 0)}
	res, err := n.Run(items)
	require.NoError(t, err, "an unplaceable item is not a run failure")

	assert.Equal(t, 0, res.PlacedCount)
	assert.Equal(t, 1, res.TotalCount)
	assert.Equal(t, 0, res.BinCount)
	assert.Equal(t, model.StateUnplaceable, items[0].State)
}

func TestRun_TwoSixInchSquares(t *testing.T) {
	n, err := New(testConfig(12, 12), nil)
	require.NoError(t, err)

	items := []*model.Item{
		squareItem("a", 6, 0),
		squareItem("b", 6, 1),
	}
	res, err := n.Run(items)
	require.NoError(t, err)

	assert.Equal(t, 1, res.BinCount)
	assert.Equal(t, 2, res.PlacedCount)
	assert.InDelta(t, 50.0, res.Utilization, 0.001)

	assert.False(t, items[0].Transformed.Overlaps(items[1].Transformed))
}

func TestRun_MalformedItemAmongValid(t *testing.T) {
	n, err := New(testConfig(12, 12), nil)
	require.NoError(t, err)

	bad := model.NewItem("bad", geom.Polygon{{X: 0, Y: 0}, {X: 1, Y: 1}}, 1)
	items := []*model.Item{
		squareItem("a", 2, 0),
		bad,
		squareItem("b", 2, 2),
	}
	res, err := n.Run(items)
	require.NoError(t, err, "rejected geometry must not fail the run")

	assert.Equal(t, 2, res.PlacedCount)
	assert.Equal(t, 3, res.TotalCount)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, "bad", res.Rejected[0].ID)
	assert.NotEmpty(t, res.Rejected[0].Reason)
	assert.Equal(t, model.StateRejected, bad.State)
}

func TestRun_Deterministic(t *testing.T) {
	runOnce := func() []model.Placement {
		n, err := New(testConfig(12, 12), nil)
		require.NoError(t, err)
		items := []*model.Item{
			squareItem("a", 6, 0),
			squareItem("b", 4, 1),
			squareItem("c", 4, 2),
			rectItem("d", 2, 5, 3),
		}
		res, err := n.Run(items)
		require.NoError(t, err)
		return res.Placements
	}

	first := runOnce()
	second := runOnce()
	assert.Equal(t, first, second, "identical input must produce identical output")
}

func TestRun_RotationRequiredToFit(t *testing.T) {
	// A 6x2 rectangle on a 3x8 sheet fits only after a quarter turn.
	cfg := testConfig(3, 8)
	cfg.Rotations = []int{0, 90, 180, 270}
	n, err := New(cfg, nil)
	require.NoError(t, err)

	items := []*model.Item{rectItem("r", 6, 2, 0)}
	res, err := n.Run(items)
	require.NoError(t, err)

	require.Equal(t, 1, res.PlacedCount)
	rot := res.Placements[0].Rotation
	assert.True(t, rot == 90 || rot == 270, "expected a quarter turn, got %d", rot)
	assert.GreaterOrEqual(t, rot, 0)
	assert.Less(t, rot, 360)
}

func TestRun_RotationDisabledLeavesOversizedUnplaced(t *testing.T) {
	n, err := New(testConfig(3, 8), nil)
	require.NoError(t, err)

	items := []*model.Item{rectItem("r", 6, 2, 0)}
	res, err := n.Run(items)
	require.NoError(t, err)
	assert.Equal(t, 0, res.PlacedCount)
	assert.Equal(t, model.StateUnplaceable, items[0].State)
}

func TestRun_SpacingKeepsClearance(t *testing.T) {
	cfg := testConfig(12, 12)
	cfg.Spacing = model.ToUnits(1)
	n, err := New(cfg, nil)
	require.NoError(t, err)

	items := []*model.Item{
		squareItem("a", 4, 0),
		squareItem("b", 4, 1),
	}
	res, err := n.Run(items)
	require.NoError(t, err)

	require.Equal(t, 2, res.PlacedCount)
	assert.Equal(t, 1, res.BinCount)

	aMin, aMax := items[0].Transformed.BoundingBox()
	bMin, bMax := items[1].Transformed.BoundingBox()
	gapX := maxUnitGap(aMin.X, aMax.X, bMin.X, bMax.X)
	gapY := maxUnitGap(aMin.Y, aMax.Y, bMin.Y, bMax.Y)
	gap := gapX
	if gapY > gap {
		gap = gapY
	}
	assert.GreaterOrEqual(t, int64(gap), int64(cfg.Spacing),
		"placed squares must keep at least the configured spacing apart")
}

// maxUnitGap returns the separation between two intervals, zero when they
// overlap.
func maxUnitGap(aLo, aHi, bLo, bHi geom.Unit) geom.Unit {
	if bLo > aHi {
		return bLo - aHi
	}
	if aLo > bHi {
		return aLo - bHi
	}
	return 0
}

func TestRun_OpensBinsLazily(t *testing.T) {
	n, err := New(testConfig(12, 12), nil)
	require.NoError(t, err)

	// Three 8x8 squares: no two share a 12x12 sheet.
	items := []*model.Item{
		squareItem("a", 8, 0),
		squareItem("b", 8, 1),
		squareItem("c", 8, 2),
	}
	res, err := n.Run(items)
	require.NoError(t, err)

	assert.Equal(t, 3, res.BinCount)
	assert.Equal(t, 3, res.PlacedCount)
	binIDs := make([]int, 0, 3)
	for _, p := range res.Placements {
		binIDs = append(binIDs, p.BinID)
	}
	assert.Equal(t, []int{0, 1, 2}, binIDs, "bins are numbered in creation order")
}

func TestRun_MixedFitFillsFirstBin(t *testing.T) {
	n, err := New(testConfig(12, 12), nil)
	require.NoError(t, err)

	// The 8x8 occupies bin 0; the two 4x4 still fit next to it.
	items := []*model.Item{
		squareItem("big", 8, 0),
		squareItem("s1", 4, 1),
		squareItem("s2", 4, 2),
	}
	res, err := n.Run(items)
	require.NoError(t, err)

	assert.Equal(t, 1, res.BinCount)
	assert.Equal(t, 3, res.PlacedCount)
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			assert.False(t, items[i].Transformed.Overlaps(items[j].Transformed),
				"%s and %s overlap", items[i].ID, items[j].ID)
		}
	}
}

func TestRun_CenterAlignmentAnchorsFirstItem(t *testing.T) {
	cfg := testConfig(12, 12)
	cfg.Alignment = model.AlignCenter
	n, err := New(cfg, nil)
	require.NoError(t, err)

	items := []*model.Item{squareItem("c", 4, 0)}
	res, err := n.Run(items)
	require.NoError(t, err)

	require.Equal(t, 1, res.PlacedCount)
	// A 4x4 square centered on a 12x12 sheet sits at (4,4).
	assert.Equal(t, geom.Point{X: model.ToUnits(4), Y: model.ToUnits(4)}, res.Placements[0].Position)
}

func TestRun_BoundingBoxMode(t *testing.T) {
	cfg := testConfig(12, 12)
	cfg.Mode = model.ModeBoundingBox
	n, err := New(cfg, nil)
	require.NoError(t, err)

	items := []*model.Item{
		squareItem("a", 6, 0),
		squareItem("b", 6, 1),
	}
	res, err := n.Run(items)
	require.NoError(t, err)

	assert.Equal(t, 1, res.BinCount)
	assert.Equal(t, 2, res.PlacedCount)
	assert.False(t, items[0].Transformed.Overlaps(items[1].Transformed))
}

func TestRun_TimeBudgetExhausted(t *testing.T) {
	cfg := testConfig(12, 12)
	cfg.Timeout = time.Nanosecond
	n, err := New(cfg, nil)
	require.NoError(t, err)

	items := []*model.Item{
		squareItem("a", 2, 0),
		squareItem("b", 2, 1),
	}
	res, err := n.Run(items)
	require.NoError(t, err, "running out of budget is not a failure")

	assert.Equal(t, 0, res.PlacedCount)
	assert.Equal(t, model.StateUnplaceable, items[0].State)
	assert.Equal(t, model.StateUnplaceable, items[1].State)
}

func TestRun_UtilizationBounds(t *testing.T) {
	n, err := New(testConfig(12, 12), nil)
	require.NoError(t, err)

	items := []*model.Item{
		squareItem("a", 6, 0),
		squareItem("b", 4, 1),
		squareItem("c", 3, 2),
	}
	res, err := n.Run(items)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.Utilization, 0.0)
	assert.LessOrEqual(t, res.Utilization, 100.0)

	// Utilization matches its definition exactly.
	want := 100.0 * (36 + 16 + 9) / (144.0 * float64(res.BinCount))
	assert.InDelta(t, want, res.Utilization, 0.001)
}
