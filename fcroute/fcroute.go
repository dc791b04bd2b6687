// Package fcroute derives the polyline an edge renders as, its draggable
// handles and where its label sits.
package fcroute

import (
	"math"

	"oss.terrastruct.com/flowcanvas/fctarget"
	"oss.terrastruct.com/flowcanvas/lib/geo"
)

const (
	DEFAULT_INSERT_EPSILON        = 0.25
	DEFAULT_LABEL_VERTICAL_OFFSET = 12.
)

// Draft is the in-flight override of an edge being dragged. A non-nil Draft
// with no points still overrides the route.
type Draft struct {
	Points geo.Points
}

// GetEdgeRoute resolves the route of e between the resolved centers of its
// endpoints. A draft or an override yields [from, points..., to]. Otherwise
// the rendered polyline, then the automatic one, then the straight line is
// used, with its ends moved onto from and to.
func GetEdgeRoute(e *fctarget.EdgeData, from, to geo.Point, draft *Draft) geo.Route {
	if draft != nil {
		return withEnds(from, draft.Points, to)
	}
	if e.HasOverride() {
		return withEnds(from, e.OverridePoints, to)
	}
	for _, pts := range [][]geo.Point{e.RenderedPoints, e.AutoPoints} {
		if len(pts) >= 2 {
			return withEnds(from, geo.Route(pts).Interior(), to)
		}
	}
	return geo.Route{from, to}
}

func withEnds(from geo.Point, interior geo.Points, to geo.Point) geo.Route {
	route := make(geo.Route, 0, len(interior)+2)
	route = append(route, from)
	route = append(route, interior...)
	return append(route, to)
}

// AutoInterior is the interior of the automatic route of e.
func AutoInterior(e *fctarget.EdgeData) geo.Points {
	if len(e.AutoPoints) < 2 {
		return nil
	}
	return geo.Route(e.AutoPoints).Interior()
}

// DefaultHandle is the single handle of an edge without an override: the
// mean of the interior points closest to the route's centroid, or the
// midpoint of a straight route.
func DefaultHandle(route geo.Route) geo.Point {
	interior := route.Interior()
	if len(interior) == 0 {
		if len(route) == 0 {
			return geo.Point{}
		}
		return route[0].Midpoint(route[len(route)-1])
	}
	return closestToCentroid(interior, route.Centroid())
}

func closestToCentroid(points geo.Points, centroid geo.Point) geo.Point {
	bestD := math.Inf(1)
	var tied geo.Points
	for _, p := range points {
		d := p.DistanceTo(centroid)
		switch geo.PrecisionCompare(d, bestD, 1e-9) {
		case -1:
			bestD = d
			tied = geo.Points{p}
		case 0:
			tied = append(tied, p)
		}
	}
	return tied.Centroid()
}

// Handles returns the draggable points of an edge: one per override point,
// or the default handle at index -1.
func Handles(route geo.Route, points geo.Points) []fctarget.Handle {
	if len(points) == 0 {
		return []fctarget.Handle{{Index: -1, Point: DefaultHandle(route)}}
	}
	handles := make([]fctarget.Handle, len(points))
	for i, p := range points {
		handles[i] = fctarget.Handle{Index: i, Point: p}
	}
	return handles
}

// InsertControlPoint adds click to points, the interior of route, at the
// index of the route segment closest to it. It returns false when a point
// already lies within eps of click or the route has no segment.
func InsertControlPoint(route geo.Route, points geo.Points, click geo.Point, eps float64) (geo.Points, bool) {
	for _, p := range points {
		if p.DistanceTo(click) <= eps {
			return points, false
		}
	}
	i, _ := route.ClosestSegment(click)
	if i < 0 {
		return points, false
	}
	if i > len(points) {
		i = len(points)
	}
	out := make(geo.Points, 0, len(points)+1)
	out = append(out, points[:i]...)
	out = append(out, click)
	out = append(out, points[i:]...)
	return out, true
}

// RemoveControlPoint drops the point at index. Removing the last point
// leaves an empty list, which clears the override.
func RemoveControlPoint(points geo.Points, index int) (geo.Points, bool) {
	if index < 0 || index >= len(points) {
		return points, false
	}
	out := make(geo.Points, 0, len(points)-1)
	out = append(out, points[:index]...)
	return append(out, points[index+1:]...), true
}

// LabelAnchor is the center of an edge label. With override handles the label
// is pinned to the handle closest to the route's centroid; otherwise it sits
// on the interior point closest to the centroid, or verticalOffset above the
// centroid of a straight route.
func LabelAnchor(route geo.Route, handles geo.Points, verticalOffset float64) geo.Point {
	centroid := route.Centroid()
	if len(handles) > 0 {
		return handles[handles.Closest(centroid)]
	}
	interior := route.Interior()
	if len(interior) > 0 {
		return interior[interior.Closest(centroid)]
	}
	return centroid.Translate(0, -verticalOffset)
}
