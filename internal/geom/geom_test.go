package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(size Unit) Polygon {
	return Polygon{
		{X: 0, Y: 0},
		{X: size, Y: 0},
		{X: size, Y: size},
		{X: 0, Y: size},
	}
}

func lShape() Polygon {
	// Concave L: 4x4 with the top-right 2x2 corner removed.
	return Polygon{
		{X: 0, Y: 0},
		{X: 4, Y: 0},
		{X: 4, Y: 2},
		{X: 2, Y: 2},
		{X: 2, Y: 4},
		{X: 0, Y: 4},
	}
}

func TestSignedArea2_CCWPositive(t *testing.T) {
	sq := square(10)
	assert.Equal(t, int64(200), sq.SignedArea2())
	assert.True(t, sq.IsCCW())

	rev := sq.Reverse()
	assert.Equal(t, int64(-200), rev.SignedArea2())
	assert.False(t, rev.IsCCW())
}

func TestEnsureCCW_FixesOrientation(t *testing.T) {
	cw := square(10).Reverse()
	require.False(t, cw.IsCCW())
	fixed := cw.EnsureCCW()
	assert.True(t, fixed.IsCCW())
	// Already-CCW input is returned unchanged.
	assert.Equal(t, square(10), square(10).EnsureCCW())
}

func TestBoundingBox(t *testing.T) {
	p := Polygon{{X: -3, Y: 2}, {X: 5, Y: -1}, {X: 4, Y: 7}}
	min, max := p.BoundingBox()
	assert.Equal(t, Point{X: -3, Y: -1}, min)
	assert.Equal(t, Point{X: 5, Y: 7}, max)
}

func TestRotate_QuarterTurnsAreExact(t *testing.T) {
	p := Polygon{{X: 3, Y: 1}}

	assert.Equal(t, Point{X: 3, Y: 1}, p.Rotate(0)[0])
	assert.Equal(t, Point{X: -1, Y: 3}, p.Rotate(90)[0])
	assert.Equal(t, Point{X: -3, Y: -1}, p.Rotate(180)[0])
	assert.Equal(t, Point{X: 1, Y: -3}, p.Rotate(270)[0])
}

func TestRotate_SwapsRectangleDimensions(t *testing.T) {
	r := Polygon{{X: 0, Y: 0}, {X: 6, Y: 0}, {X: 6, Y: 2}, {X: 0, Y: 2}}
	min, max := r.Rotate(90).BoundingBox()
	assert.Equal(t, Unit(2), max.X-min.X)
	assert.Equal(t, Unit(6), max.Y-min.Y)
}

func TestRotate_PreservesArea(t *testing.T) {
	l := lShape()
	want := l.SignedArea2()
	for _, deg := range []float64{90, 180, 270} {
		got := l.Rotate(deg).SignedArea2()
		assert.Equal(t, want, got, "rotation by %.0f changed the area", deg)
	}
}

func TestTranslate(t *testing.T) {
	sq := square(2).Translate(Point{X: 5, Y: -3})
	min, max := sq.BoundingBox()
	assert.Equal(t, Point{X: 5, Y: -3}, min)
	assert.Equal(t, Point{X: 7, Y: -1}, max)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		poly    Polygon
		wantErr bool
	}{
		{"valid square", square(10), false},
		{"valid concave", lShape(), false},
		{"two points", Polygon{{X: 0, Y: 0}, {X: 1, Y: 1}}, true},
		{"duplicate consecutive", Polygon{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, true},
		{"zero area", Polygon{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}, true},
		{"self intersecting bowtie", Polygon{{X: 0, Y: 0}, {X: 4, Y: 4}, {X: 4, Y: 0}, {X: 0, Y: 4}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.poly.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLocate(t *testing.T) {
	sq := square(10)

	assert.Equal(t, Inside, sq.Locate(Point{X: 5, Y: 5}))
	assert.Equal(t, Outside, sq.Locate(Point{X: 15, Y: 5}))
	assert.Equal(t, Outside, sq.Locate(Point{X: -1, Y: -1}))
	assert.Equal(t, OnBoundary, sq.Locate(Point{X: 0, Y: 5}))
	assert.Equal(t, OnBoundary, sq.Locate(Point{X: 10, Y: 10}))

	l := lShape()
	assert.Equal(t, Inside, l.Locate(Point{X: 1, Y: 3}))
	// Point in the notch is outside despite being inside the bbox.
	assert.Equal(t, Outside, l.Locate(Point{X: 3, Y: 3}))
}

func TestOverlaps(t *testing.T) {
	a := square(10)

	crossing := square(10).Translate(Point{X: 5, Y: 5})
	assert.True(t, a.Overlaps(crossing))

	// Edge contact only is not an overlap.
	touching := square(10).Translate(Point{X: 10, Y: 0})
	assert.False(t, a.Overlaps(touching))

	corner := square(10).Translate(Point{X: 10, Y: 10})
	assert.False(t, a.Overlaps(corner))

	apart := square(10).Translate(Point{X: 30, Y: 0})
	assert.False(t, a.Overlaps(apart))

	contained := square(2).Translate(Point{X: 4, Y: 4})
	assert.True(t, a.Overlaps(contained))
	assert.True(t, contained.Overlaps(a))

	assert.True(t, a.Overlaps(square(10)))
}

func TestOverlaps_ConcaveNotch(t *testing.T) {
	// A small square sitting entirely inside the L's notch: bboxes overlap
	// but the polygons do not.
	l := lShape()
	notch := Polygon{{X: 3, Y: 3}, {X: 4, Y: 3}, {X: 4, Y: 4}, {X: 3, Y: 4}}
	assert.False(t, l.Overlaps(notch))
	assert.False(t, notch.Overlaps(l))
}

func TestFitsInRect(t *testing.T) {
	sq := square(10)
	assert.True(t, sq.FitsInRect(10, 10))
	assert.True(t, sq.FitsInRect(12, 11))
	assert.False(t, sq.FitsInRect(9, 10))
	assert.False(t, sq.Translate(Point{X: 1, Y: 0}).FitsInRect(10, 10))
	assert.True(t, square(8).Translate(Point{X: 1, Y: 1}).FitsInRect(10, 10))
}

func TestTriangulate_Square(t *testing.T) {
	tris := square(10).Triangulate()
	require.Len(t, tris, 2)

	var area2 int64
	for _, tri := range tris {
		require.Len(t, tri, 3)
		area2 += tri.SignedArea2()
	}
	assert.Equal(t, square(10).SignedArea2(), area2)
}

func TestTriangulate_Concave(t *testing.T) {
	l := lShape()
	tris := l.Triangulate()
	require.Len(t, tris, 4)

	var area2 int64
	for _, tri := range tris {
		assert.Positive(t, tri.SignedArea2())
		area2 += tri.SignedArea2()
	}
	assert.Equal(t, l.SignedArea2(), area2)
}

func TestOffset_GrowsSquare(t *testing.T) {
	grown := square(10).Offset(2)
	min, max := grown.BoundingBox()
	assert.Equal(t, Point{X: -2, Y: -2}, min)
	assert.Equal(t, Point{X: 12, Y: 12}, max)
	assert.True(t, grown.IsCCW())
}

func TestOffset_ZeroIsIdentity(t *testing.T) {
	sq := square(10)
	assert.Equal(t, sq, sq.Offset(0))
}

func TestOffset_ConcaveStaysSimple(t *testing.T) {
	grown := lShape().Offset(1)
	assert.NoError(t, grown.Validate())
	for _, v := range lShape() {
		assert.NotEqual(t, Outside, grown.Locate(v))
	}
}

func TestOffset_NarrowNotchFallsBackToHull(t *testing.T) {
	// A U whose 4-wide slot closes over itself at offset 5: the mitered
	// outline self-intersects, so the result must come from the hull path.
	u := Polygon{
		{X: 0, Y: 0},
		{X: 20, Y: 0},
		{X: 20, Y: 20},
		{X: 12, Y: 20},
		{X: 12, Y: 4},
		{X: 8, Y: 4},
		{X: 8, Y: 20},
		{X: 0, Y: 20},
	}
	grown := u.Offset(5)
	require.NoError(t, grown.Validate())
	assert.True(t, grown.IsConvex())

	min, max := grown.BoundingBox()
	assert.Equal(t, Point{X: -5, Y: -5}, min)
	assert.Equal(t, Point{X: 25, Y: 25}, max)
	for _, v := range u {
		assert.NotEqual(t, Outside, grown.Locate(v))
	}
}

func TestConvexHull(t *testing.T) {
	hull := lShape().ConvexHull()
	assert.Equal(t, Polygon{
		{X: 0, Y: 0},
		{X: 4, Y: 0},
		{X: 4, Y: 2},
		{X: 2, Y: 4},
		{X: 0, Y: 4},
	}, hull)
	assert.True(t, hull.IsCCW())
	assert.True(t, hull.IsConvex())

	// A convex outline is its own hull.
	assert.Equal(t, square(10), square(10).ConvexHull())
}

func TestInteriorPoint(t *testing.T) {
	for _, poly := range []Polygon{square(10), lShape()} {
		p, ok := poly.InteriorPoint()
		require.True(t, ok)
		assert.Equal(t, Inside, poly.Locate(p))
	}
}

func TestSegmentIntersections(t *testing.T) {
	// Proper crossing.
	pts := SegmentIntersections(
		Point{X: 0, Y: 0}, Point{X: 10, Y: 10},
		Point{X: 0, Y: 10}, Point{X: 10, Y: 0},
	)
	require.Len(t, pts, 1)
	assert.Equal(t, Point{X: 5, Y: 5}, pts[0])

	// Endpoint touching.
	pts = SegmentIntersections(
		Point{X: 0, Y: 0}, Point{X: 10, Y: 0},
		Point{X: 5, Y: 0}, Point{X: 5, Y: 8},
	)
	require.NotEmpty(t, pts)
	assert.Contains(t, pts, Point{X: 5, Y: 0})

	// Disjoint.
	pts = SegmentIntersections(
		Point{X: 0, Y: 0}, Point{X: 1, Y: 0},
		Point{X: 5, Y: 5}, Point{X: 6, Y: 5},
	)
	assert.Empty(t, pts)
}
