package fcengine

import (
	"cdr.dev/slog"

	"oss.terrastruct.com/flowcanvas/fcalign"
	"oss.terrastruct.com/flowcanvas/fcroute"
	"oss.terrastruct.com/flowcanvas/fcseparate"
	"oss.terrastruct.com/flowcanvas/fctarget"
	"oss.terrastruct.com/flowcanvas/lib/geo"
	"oss.terrastruct.com/flowcanvas/lib/log"
)

type DragKind int

const (
	Idle DragKind = iota
	DraggingNode
	DraggingEdgeHandle
	DraggingSubgraph
)

func (k DragKind) String() string {
	switch k {
	case DraggingNode:
		return "draggingNode"
	case DraggingEdgeHandle:
		return "draggingEdgeHandle"
	case DraggingSubgraph:
		return "draggingSubgraph"
	default:
		return "idle"
	}
}

// Target is what a pointer went down on.
type Target interface {
	isTarget()
}

type NodeTarget struct {
	ID string
}

// HandleTarget is a control point of an edge. Index is the position in the
// override list; a negative Index is the default handle.
type HandleTarget struct {
	EdgeID string
	Index  int
}

type SubgraphTarget struct {
	ID string
}

func (NodeTarget) isTarget()     {}
func (HandleTarget) isTarget()   {}
func (SubgraphTarget) isTarget() {}

type dragState struct {
	kind      DragKind
	pointerID int
	start     geo.Point
	moved     bool

	node     *nodeDrag
	handle   *handleDrag
	subgraph *subgraphDrag
}

type nodeDrag struct {
	id     string
	offset geo.Point
}

type handleDrag struct {
	edgeID string
	index  int
	// base is the override list at drag start, synthesized from the default
	// handle when the edge had none.
	base   geo.Points
	offset geo.Point
}

type subgraphDrag struct {
	id          string
	origin      geo.Box
	siblings    []geo.Box
	descendants []string
	// members maps each member node to its offset from origin's top-left.
	members map[string]geo.Point
	// edges holds the override points of edges touching a member.
	edges map[string]geo.Points
	delta geo.Point
}

// PointerDown starts a drag of t. It is ignored while another drag is in
// flight or when t no longer resolves.
func (e *Engine) PointerDown(t Target, p geo.Point, pointerID int) {
	if e.drag != nil {
		log.Debug(e.ctx, "ignoring pointer down during drag", slog.F("state", e.drag.kind.String()))
		return
	}

	var ds *dragState
	switch t := t.(type) {
	case NodeTarget:
		ds = e.startNodeDrag(t, p)
	case HandleTarget:
		ds = e.startHandleDrag(t, p)
	case SubgraphTarget:
		ds = e.startSubgraphDrag(t, p)
	}
	if ds == nil {
		log.Debug(e.ctx, "ignoring pointer down on unresolved target", slog.F("target", t))
		return
	}
	ds.pointerID = pointerID
	ds.start = p
	e.drag = ds

	e.capture(pointerID)
	e.setDragging(true)
}

func (e *Engine) startNodeDrag(t NodeTarget, p geo.Point) *dragState {
	pos := e.nodePosition(t.ID)
	if pos == nil {
		return nil
	}
	e.draftNodes[t.ID] = *pos
	e.selectNode(t.ID)
	return &dragState{
		kind: DraggingNode,
		node: &nodeDrag{
			id:     t.ID,
			offset: p.Sub(*pos),
		},
	}
}

func (e *Engine) startHandleDrag(t HandleTarget, p geo.Point) *dragState {
	edge := e.idx.Edge(t.EdgeID)
	if edge == nil {
		return nil
	}
	from, to, ok := e.endpoints(edge)
	if !ok {
		return nil
	}

	var base geo.Points
	index := t.Index
	if edge.HasOverride() {
		if index < 0 || index >= len(edge.OverridePoints) {
			return nil
		}
		base = geo.Points(edge.OverridePoints).Copy()
	} else {
		route := fcroute.GetEdgeRoute(edge, from, to, nil)
		base = geo.Points{fcroute.DefaultHandle(route)}
		index = 0
	}

	e.draftEdges[edge.ID] = base.Copy()
	e.selectEdge(edge.ID)
	return &dragState{
		kind: DraggingEdgeHandle,
		handle: &handleDrag{
			edgeID: edge.ID,
			index:  index,
			base:   base,
			offset: p.Sub(base[index]),
		},
	}
}

func (e *Engine) startSubgraphDrag(t SubgraphTarget, p geo.Point) *dragState {
	sg := e.idx.Subgraph(t.ID)
	if sg == nil {
		return nil
	}
	sd := &subgraphDrag{
		id:          sg.ID,
		origin:      sg.Box(),
		descendants: e.idx.Descendants(sg.ID),
		members:     make(map[string]geo.Point),
		edges:       make(map[string]geo.Points),
	}
	for _, sibID := range e.idx.Siblings(sg.ID) {
		sd.siblings = append(sd.siblings, e.idx.Subgraph(sibID).Box())
	}
	for _, id := range e.idx.Members(sg.ID) {
		pos := e.nodePosition(id)
		if pos == nil {
			continue
		}
		sd.members[id] = pos.Sub(sd.origin.TopLeft)
	}
	for _, edge := range e.diagram.Edges {
		_, fromIn := sd.members[edge.From]
		_, toIn := sd.members[edge.To]
		if (fromIn || toIn) && edge.HasOverride() {
			sd.edges[edge.ID] = geo.Points(edge.OverridePoints).Copy()
		}
	}

	e.draftSubgraphs[sd.id] = geo.Point{}
	for _, id := range sd.descendants {
		e.draftSubgraphs[id] = geo.Point{}
	}
	return &dragState{
		kind:     DraggingSubgraph,
		subgraph: sd,
	}
}

// PointerMove recomputes the dragged element at p.
func (e *Engine) PointerMove(p geo.Point) {
	ds := e.drag
	if ds == nil {
		return
	}
	if !p.Equals(ds.start) {
		ds.moved = true
	}

	switch ds.kind {
	case DraggingNode:
		e.moveNode(ds.node, p)
	case DraggingEdgeHandle:
		e.moveHandle(ds.handle, p)
	case DraggingSubgraph:
		e.moveSubgraph(ds.subgraph, p.Sub(ds.start))
	}
	e.refit()
}

func (e *Engine) moveNode(nd *nodeDrag, p geo.Point) {
	if e.idx.Node(nd.id) == nil {
		log.Debug(e.ctx, "dragged node is gone", slog.F("id", nd.id))
		return
	}
	w, h := e.nodeSize(nd.id)
	res := fcalign.ComputeNodeAlignment(nd.id, p.Sub(nd.offset), w, h, e.alignmentElements(), e.opts.align())
	e.draftNodes[nd.id] = res.Position
	e.guides = res.Guides
}

func (e *Engine) moveHandle(hd *handleDrag, p geo.Point) {
	edge := e.idx.Edge(hd.edgeID)
	if edge == nil {
		log.Debug(e.ctx, "dragged edge is gone", slog.F("id", hd.edgeID))
		return
	}
	from, to, ok := e.endpoints(edge)
	if !ok {
		return
	}
	res := fcalign.ComputeNodeAlignment(fcalign.HandleID(hd.edgeID, hd.index), p.Sub(hd.offset), 0, 0, e.alignmentElements(), e.opts.align())

	draft := hd.base.Copy()
	if res.Position.NearlyEquals(from, e.opts.ClearEpsilon) || res.Position.NearlyEquals(to, e.opts.ClearEpsilon) {
		draft, _ = fcroute.RemoveControlPoint(draft, hd.index)
	} else {
		draft[hd.index] = res.Position
	}
	e.draftEdges[hd.edgeID] = draft
	e.guides = res.Guides
}

func (e *Engine) moveSubgraph(sd *subgraphDrag, proposed geo.Point) {
	if e.idx.Subgraph(sd.id) == nil {
		log.Debug(e.ctx, "dragged subgraph is gone", slog.F("id", sd.id))
		return
	}
	sd.delta = fcseparate.ResolveDelta(sd.origin, sd.siblings, proposed, e.opts.separate())

	tl := sd.origin.TopLeft.Add(sd.delta)
	for id, offset := range sd.members {
		e.draftNodes[id] = tl.Add(offset)
	}
	e.draftSubgraphs[sd.id] = sd.delta
	for _, id := range sd.descendants {
		e.draftSubgraphs[id] = sd.delta
	}
	for id, points := range sd.edges {
		e.draftEdges[id] = points.Translate(sd.delta.X, sd.delta.Y)
	}
}

// PointerUp ends the drag and emits its result. A drag that never moved
// emits nothing.
func (e *Engine) PointerUp(p geo.Point) {
	ds := e.drag
	if ds == nil {
		return
	}
	if ds.moved || !p.Equals(ds.start) {
		e.PointerMove(p)
	}

	if ds.moved {
		switch ds.kind {
		case DraggingNode:
			e.commitNode(ds.node)
		case DraggingEdgeHandle:
			e.commitHandle(ds.handle)
		case DraggingSubgraph:
			e.commitSubgraph(ds.subgraph)
		}
	}
	e.endDrag()
}

// PointerCancel abandons the drag without emitting anything.
func (e *Engine) PointerCancel() {
	if e.drag == nil {
		return
	}
	log.Debug(e.ctx, "drag cancelled", slog.F("state", e.drag.kind.String()))
	e.endDrag()
}

func (e *Engine) endDrag() {
	pointerID := e.drag.pointerID
	e.drag = nil
	e.draftNodes = make(map[string]geo.Point)
	e.draftEdges = make(map[string]geo.Points)
	e.draftSubgraphs = make(map[string]geo.Point)
	e.guides = fctarget.Guides{}
	e.release(pointerID)
	e.setDragging(false)
	e.refit()
}

// resolveNode returns nil when p is back on the node's automatic position.
func (e *Engine) resolveNode(n *fctarget.NodeData, p geo.Point) *geo.Point {
	if n.AutoPosition != nil && p.NearlyEquals(*n.AutoPosition, e.opts.ClearEpsilon) {
		return nil
	}
	return &p
}

// resolveEdge returns nil when points are empty or back on the automatic
// route.
func (e *Engine) resolveEdge(edge *fctarget.EdgeData, points geo.Points) []geo.Point {
	if len(points) == 0 || points.NearlyEquals(fcroute.AutoInterior(edge), e.opts.ClearEpsilon) {
		return nil
	}
	return points.Copy()
}

func (e *Engine) commitNode(nd *nodeDrag) {
	n := e.idx.Node(nd.id)
	draft, ok := e.draftNodes[nd.id]
	if n == nil || !ok {
		return
	}
	e.emitNodeMove(nd.id, e.resolveNode(n, draft))
}

func (e *Engine) commitHandle(hd *handleDrag) {
	edge := e.idx.Edge(hd.edgeID)
	draft, ok := e.draftEdges[hd.edgeID]
	if edge == nil || !ok {
		return
	}
	e.emitEdgeMove(hd.edgeID, e.resolveEdge(edge, draft))
}

func (e *Engine) commitSubgraph(sd *subgraphDrag) {
	if sd.delta.NearlyEquals(geo.Point{}, 0) {
		return
	}
	u := fctarget.LayoutUpdate{
		Nodes:     make(map[string]*geo.Point),
		Edges:     make(map[string]fctarget.EdgeUpdate),
		Subgraphs: map[string]geo.Point{sd.id: sd.delta},
	}
	for _, id := range sd.descendants {
		u.Subgraphs[id] = sd.delta
	}
	for id := range sd.members {
		n := e.idx.Node(id)
		draft, ok := e.draftNodes[id]
		if n == nil || !ok {
			continue
		}
		u.Nodes[id] = e.resolveNode(n, draft)
	}
	for id := range sd.edges {
		edge := e.idx.Edge(id)
		draft, ok := e.draftEdges[id]
		if edge == nil || !ok {
			continue
		}
		u.Edges[id] = fctarget.EdgeUpdate{Points: e.resolveEdge(edge, draft)}
	}
	e.emitLayoutUpdate(u)
}
