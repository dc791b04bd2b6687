package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointDistanceToLine(t *testing.T) {
	p1 := Point{0, 0}
	p2 := Point{100, 0}

	p := Point{50, 70}

	d := p.DistanceToLine(p1, p2)

	if d != 70.0 {
		t.Fatalf("Expected 70.0 and got %v", d)
	}
}

func TestClosestOnSegmentClamps(t *testing.T) {
	t.Parallel()

	a := Point{0, 0}
	b := Point{10, 0}

	closest, tt := Point{-5, 3}.ClosestOnSegment(a, b)
	assert.Equal(t, a, closest)
	assert.Equal(t, 0., tt)

	closest, tt = Point{25, -1}.ClosestOnSegment(a, b)
	assert.Equal(t, b, closest)
	assert.Equal(t, 1., tt)

	closest, tt = Point{4, 9}.ClosestOnSegment(a, b)
	assert.Equal(t, Point{4, 0}, closest)
	assert.InDelta(t, 0.4, tt, 1e-9)

	// degenerate segment
	closest, _ = Point{3, 4}.ClosestOnSegment(a, a)
	assert.Equal(t, a, closest)
	assert.Equal(t, 5., Point{3, 4}.DistanceToLine(a, a))
}

func TestSnapToGrid(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Point{120, 460}, Point{123, 457}.SnapToGrid(10))
	assert.Equal(t, Point{-10, 0}, Point{-7, 4.9}.SnapToGrid(10))
	assert.Equal(t, Point{1.5, 2.5}, Point{1.5, 2.5}.SnapToGrid(0))
}

func TestPointsCentroidAndClosest(t *testing.T) {
	t.Parallel()

	ps := Points{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	assert.Equal(t, Point{5, 5}, ps.Centroid())
	assert.Equal(t, 1, ps.Closest(Point{9, 1}))
	// equidistant from 0 and 1: lowest index wins
	assert.Equal(t, 0, ps.Closest(Point{5, 0}))
	assert.Equal(t, -1, Points{}.Closest(Point{}))
}

func TestPointsNearlyEquals(t *testing.T) {
	t.Parallel()

	a := Points{{0, 0}, {10, 10}}
	assert.True(t, a.NearlyEquals(Points{{0.4, -0.4}, {10, 10.5}}, 0.5))
	assert.False(t, a.NearlyEquals(Points{{0.6, 0}, {10, 10}}, 0.5))
	assert.False(t, a.NearlyEquals(Points{{0, 0}}, 0.5))
}
