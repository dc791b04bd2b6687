package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentIntersections(t *testing.T) {
	// mid intersection
	s1 := Segment{Point{0, 0}, Point{10, 10}}
	s2 := Segment{Point{0, 10}, Point{10, 0}}
	intersections := s1.Intersections(s2)
	assert.Equal(t, len(intersections), 1)
	assert.True(t, intersections[0].Equals(Point{5, 5}))

	// intersection at the end
	s3 := Segment{Point{10, 10}, Point{10, 0}}
	intersections = s1.Intersections(s3)
	assert.Equal(t, len(intersections), 1)
	assert.True(t, intersections[0].Equals(Point{10, 10}))

	// no intersection
	s5 := Segment{Point{3, 8}, Point{2, 15}}
	intersections = s1.Intersections(s5)
	assert.Equal(t, len(intersections), 0)
}

func TestPolygonClosestIntersection(t *testing.T) {
	t.Parallel()

	square := Polygon(BoxAround(Point{0, 0}, 20, 20).Corners())
	p, ok := square.ClosestIntersection(Segment{Start: Point{0, 0}, End: Point{50, 0}}, Point{50, 0})
	assert.True(t, ok)
	assert.Equal(t, Point{10, 0}, p)

	_, ok = square.ClosestIntersection(Segment{Start: Point{30, 30}, End: Point{50, 50}}, Point{50, 50})
	assert.False(t, ok)
}
