package geo

import (
	"math"
)

// Route is a polyline from an edge's source to its target.
type Route []Point

// Interior returns every point except the two endpoints.
func (route Route) Interior() Points {
	if len(route) <= 2 {
		return nil
	}
	return Points(route[1 : len(route)-1]).Copy()
}

func (route Route) Centroid() Point {
	return Points(route).Centroid()
}

// ClosestSegment returns the index i of the segment route[i]->route[i+1]
// nearest to p and the distance to it. Ties keep the lowest index. A route
// with fewer than two points has no segments and returns -1.
func (route Route) ClosestSegment(p Point) (int, float64) {
	best := -1
	bestD := math.Inf(1)
	for i := 0; i < len(route)-1; i++ {
		d := p.DistanceToLine(route[i], route[i+1])
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best, bestD
}
