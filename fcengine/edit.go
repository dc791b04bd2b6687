package fcengine

import (
	"cdr.dev/slog"

	"oss.terrastruct.com/flowcanvas/fcroute"
	"oss.terrastruct.com/flowcanvas/lib/geo"
	"oss.terrastruct.com/flowcanvas/lib/log"
)

// DoubleClickEdge inserts a control point at p into the segment of the edge
// closest to it. An edge without an override starts from its displayed
// route. Clicking within the insert epsilon of an existing point does
// nothing.
func (e *Engine) DoubleClickEdge(edgeID string, p geo.Point) {
	if e.drag != nil {
		return
	}
	edge := e.idx.Edge(edgeID)
	if edge == nil {
		log.Debug(e.ctx, "ignoring double click on missing edge", slog.F("id", edgeID))
		return
	}
	from, to, ok := e.endpoints(edge)
	if !ok {
		return
	}
	route := fcroute.GetEdgeRoute(edge, from, to, nil)
	points, ok := fcroute.InsertControlPoint(route, route.Interior(), p, e.opts.InsertEpsilon)
	if !ok {
		return
	}
	e.emitEdgeMove(edgeID, points)
}

// RemoveHandle drops one override point. Dropping the last one clears the
// override.
func (e *Engine) RemoveHandle(edgeID string, index int) {
	if e.drag != nil {
		return
	}
	edge := e.idx.Edge(edgeID)
	if edge == nil || !edge.HasOverride() {
		return
	}
	points, ok := fcroute.RemoveControlPoint(edge.OverridePoints, index)
	if !ok {
		return
	}
	if len(points) == 0 {
		e.emitEdgeMove(edgeID, nil)
		return
	}
	e.emitEdgeMove(edgeID, points)
}

// ResetNode clears the node's override so it returns to its automatic
// position.
func (e *Engine) ResetNode(id string) {
	if e.drag != nil {
		return
	}
	n := e.idx.Node(id)
	if n == nil || n.OverridePosition == nil {
		return
	}
	e.emitNodeMove(id, nil)
}

func (e *Engine) ResetEdge(id string) {
	if e.drag != nil {
		return
	}
	edge := e.idx.Edge(id)
	if edge == nil || !edge.HasOverride() {
		return
	}
	e.emitEdgeMove(id, nil)
}
