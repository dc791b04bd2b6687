package geo

import (
	"fmt"
	"math"
)

type Segment struct {
	Start Point
	End   Point
}

func (segment Segment) Length() float64 {
	return segment.Start.DistanceTo(segment.End)
}

func (segment Segment) Intersections(otherSegment Segment) []Point {
	point, ok := IntersectionPoint(segment.Start, segment.End, otherSegment.Start, otherSegment.End)
	if !ok {
		return nil
	}
	return []Point{point}
}

//nolint:unused
func (s Segment) ToString() string {
	return fmt.Sprintf("%v -> %v", s.Start.ToString(), s.End.ToString())
}

// get the point of intersection between line segments u and v
func IntersectionPoint(u0, u1, v0, v1 Point) (Point, bool) {
	// x = u0.X + s * (u1.X - u0.X)
	//   = v0.X + t * (v1.X - v0.X)
	// y = u0.Y + s * (u1.Y - u0.Y)
	//   = v0.Y + t * (v1.Y - v0.Y)
	udx := u1.X - u0.X
	vdx := v1.X - v0.X
	uvdx := v0.X - u0.X
	udy := u1.Y - u0.Y
	vdy := v1.Y - v0.Y
	uvdy := v0.Y - u0.Y

	denom := (udy*vdx - udx*vdy)
	if denom == 0 {
		// lines are parallel
		return Point{}, false
	}
	// Cramer's rule
	s := (vdx*uvdy - vdy*uvdx) / denom
	t := (udx*uvdy - udy*uvdx) / denom

	if s < 0 || s > 1 || t < 0 || t > 1 {
		return Point{}, false
	}

	return Point{
		X: u0.X + TruncateDecimals(s*udx),
		Y: u0.Y + TruncateDecimals(s*udy),
	}, true
}

// Polygon is a closed outline; the last point connects back to the first.
type Polygon []Point

func (poly Polygon) Segments() []Segment {
	if len(poly) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(poly))
	for i := range poly {
		segs = append(segs, Segment{Start: poly[i], End: poly[(i+1)%len(poly)]})
	}
	return segs
}

// ClosestIntersection returns the crossing of s with the outline nearest to
// near.
func (poly Polygon) ClosestIntersection(s Segment, near Point) (Point, bool) {
	found := false
	var best Point
	bestD := math.Inf(1)
	for _, edge := range poly.Segments() {
		for _, p := range edge.Intersections(s) {
			if d := p.DistanceTo(near); d < bestD {
				bestD = d
				best = p
				found = true
			}
		}
	}
	return best, found
}
