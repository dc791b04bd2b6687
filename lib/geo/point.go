package geo

import (
	"fmt"
	"math"
	"strings"
)

// Point is a diagram-space coordinate, not a screen pixel.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Equals(p2 Point) bool {
	return p.X == p2.X && p.Y == p2.Y
}

// NearlyEquals reports whether both coordinates differ by at most e.
func (p Point) NearlyEquals(p2 Point, e float64) bool {
	return math.Abs(p.X-p2.X) <= e && math.Abs(p.Y-p2.Y) <= e
}

func (p Point) Add(p2 Point) Point {
	return Point{X: p.X + p2.X, Y: p.Y + p2.Y}
}

func (p Point) Sub(p2 Point) Point {
	return Point{X: p.X - p2.X, Y: p.Y - p2.Y}
}

func (p Point) Translate(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Unit returns p scaled to length 1, or the zero point when p has no length.
func (p Point) Unit() Point {
	l := p.Length()
	if l == 0 {
		return Point{}
	}
	return p.Scale(1 / l)
}

func (p Point) DistanceTo(p2 Point) float64 {
	return EuclideanDistance(p.X, p.Y, p2.X, p2.Y)
}

// ClosestOnSegment returns the point of segment p1-p2 closest to p and its
// parameter t, clamped to [0, 1].
// https://stackoverflow.com/questions/849211/shortest-distance-between-a-point-and-a-line-segment
func (p Point) ClosestOnSegment(p1, p2 Point) (Point, float64) {
	c := p2.X - p1.X
	d := p2.Y - p1.Y
	lenSq := c*c + d*d
	if lenSq == 0 {
		return p1, 0
	}
	t := ((p.X-p1.X)*c + (p.Y-p1.Y)*d) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Point{X: p1.X + t*c, Y: p1.Y + t*d}, t
}

func (p Point) DistanceToLine(p1, p2 Point) float64 {
	closest, _ := p.ClosestOnSegment(p1, p2)
	return p.DistanceTo(closest)
}

// Interpolate returns the point t% of the way between a and b.
func (a Point) Interpolate(b Point, t float64) Point {
	return Point{
		X: a.X*(1.0-t) + b.X*t,
		Y: a.Y*(1.0-t) + b.Y*t,
	}
}

func (a Point) Midpoint(b Point) Point {
	return a.Interpolate(b, 0.5)
}

// SnapToGrid rounds both coordinates to the nearest multiple of size.
func (p Point) SnapToGrid(size float64) Point {
	return Point{X: SnapToGrid(p.X, size), Y: SnapToGrid(p.Y, size)}
}

func (p Point) ToString() string {
	return fmt.Sprintf("(%v, %v)", p.X, p.Y)
}

type Points []Point

func (ps Points) Copy() Points {
	if ps == nil {
		return nil
	}
	out := make(Points, len(ps))
	copy(out, ps)
	return out
}

// NearlyEquals reports whether both lists have the same length and every
// pair of points is within e.
func (ps Points) NearlyEquals(other Points, e float64) bool {
	if len(ps) != len(other) {
		return false
	}
	for i := range ps {
		if !ps[i].NearlyEquals(other[i], e) {
			return false
		}
	}
	return true
}

func (ps Points) Translate(dx, dy float64) Points {
	out := make(Points, len(ps))
	for i, p := range ps {
		out[i] = p.Translate(dx, dy)
	}
	return out
}

// Centroid is the arithmetic mean of the points.
func (ps Points) Centroid() Point {
	if len(ps) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, p := range ps {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(ps))
	return Point{X: sx / n, Y: sy / n}
}

// Closest returns the index of the point nearest to target, -1 when empty.
// Ties keep the lowest index.
func (ps Points) Closest(target Point) int {
	best := -1
	bestD := math.Inf(1)
	for i, p := range ps {
		d := p.DistanceTo(target)
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}

func (ps Points) ToString() string {
	strs := make([]string, 0, len(ps))
	for _, p := range ps {
		strs = append(strs, p.ToString())
	}
	return strings.Join(strs, ", ")
}
