// Package fcengine is the interactive canvas: it resolves where everything
// in a diagram snapshot is drawn and turns pointer and keyboard input into
// committed layout updates.
//
// The engine never mutates the snapshot it is given. While a drag is in
// flight it keeps drafts of the dragged values; when the drag ends it emits
// the result through Callbacks and forgets the drafts. The caller persists
// the update and hands back the next snapshot with SetDiagram.
//
// An Engine is not safe for concurrent use.
package fcengine

import (
	"context"

	"cdr.dev/slog"

	"oss.terrastruct.com/flowcanvas/fcalign"
	"oss.terrastruct.com/flowcanvas/fctarget"
	"oss.terrastruct.com/flowcanvas/fcviewport"
	"oss.terrastruct.com/flowcanvas/lib/geo"
	"oss.terrastruct.com/flowcanvas/lib/log"
)

// Callbacks receive committed changes. Any of them may be nil.
type Callbacks struct {
	// OnNodeMove receives nil to clear the override.
	OnNodeMove func(id string, pos *geo.Point)
	// OnEdgeMove receives interior control points, nil to clear the override.
	OnEdgeMove func(id string, points []geo.Point)
	// OnLayoutUpdate receives subgraph drags. When nil the update is fanned
	// out to OnNodeMove and OnEdgeMove.
	OnLayoutUpdate func(fctarget.LayoutUpdate)

	// OnSelectNode and OnSelectEdge receive "" when the selection is cleared.
	OnSelectNode      func(id string)
	OnSelectEdge      func(id string)
	OnDragStateChange func(dragging bool)
	OnDeleteNode      func(id string)
	OnDeleteEdge      func(id string)
}

// PointerCapturer routes every event of a pointer to the canvas while a drag
// holds it. Failing to capture does not stop the drag.
type PointerCapturer interface {
	SetPointerCapture(pointerID int) error
	ReleasePointerCapture(pointerID int) error
}

type Engine struct {
	ctx  context.Context
	opts Options
	cb   Callbacks
	pc   PointerCapturer

	diagram *fctarget.Diagram
	idx     *fctarget.Index
	sizes   map[string]geo.Point

	selectedNode string
	selectedEdge string

	drag           *dragState
	draftNodes     map[string]geo.Point
	draftEdges     map[string]geo.Points
	draftSubgraphs map[string]geo.Point
	guides         fctarget.Guides

	viewport *fcviewport.Animator
}

func New(ctx context.Context, opts *Options, cb Callbacks) *Engine {
	o := opts.withDefaults()
	e := &Engine{
		ctx:            log.Named(ctx, "fcengine"),
		opts:           o,
		cb:             cb,
		draftNodes:     make(map[string]geo.Point),
		draftEdges:     make(map[string]geo.Points),
		draftSubgraphs: make(map[string]geo.Point),
		viewport:       fcviewport.NewAnimator(o.ViewportSmoothing, o.ViewportEpsilon),
	}
	e.setDiagram(&fctarget.Diagram{})
	return e
}

func (e *Engine) Options() Options {
	return e.opts
}

func (e *Engine) Diagram() *fctarget.Diagram {
	return e.diagram
}

// SetDiagram replaces the snapshot. Drafts the snapshot has caught up with
// are dropped. The first snapshot is shown without easing the viewport.
func (e *Engine) SetDiagram(d *fctarget.Diagram) {
	e.setDiagram(d)
	e.refit()
	log.Debug(e.ctx, "diagram set",
		slog.F("nodes", len(e.diagram.Nodes)),
		slog.F("edges", len(e.diagram.Edges)),
		slog.F("subgraphs", len(e.diagram.Subgraphs)),
	)
}

func (e *Engine) setDiagram(d *fctarget.Diagram) {
	if d == nil {
		d = &fctarget.Diagram{}
	}
	e.diagram = d
	e.idx = fctarget.NewIndex(d)
	e.sizes = make(map[string]geo.Point, len(d.Nodes))
	for i := range d.Nodes {
		w, h := fctarget.NodeSize(&d.Nodes[i], e.opts.DefaultNodeWidth, e.opts.DefaultNodeHeight)
		e.sizes[d.Nodes[i].ID] = geo.Point{X: w, Y: h}
	}

	for id, draft := range e.draftNodes {
		persisted := fctarget.PersistedPosition(e.idx.Node(id))
		if persisted != nil && persisted.Equals(draft) {
			delete(e.draftNodes, id)
		}
	}
	for id, draft := range e.draftEdges {
		edge := e.idx.Edge(id)
		if edge != nil && edge.HasOverride() && geo.Points(edge.OverridePoints).NearlyEquals(draft, 0) {
			delete(e.draftEdges, id)
		}
	}
}

func (e *Engine) SetPointerCapturer(pc PointerCapturer) {
	e.pc = pc
}

// SetSelectedNode selects a node and clears the edge selection. "" clears
// the node selection.
func (e *Engine) SetSelectedNode(id string) {
	e.selectedNode = id
	if id != "" {
		e.selectedEdge = ""
	}
}

func (e *Engine) SetSelectedEdge(id string) {
	e.selectedEdge = id
	if id != "" {
		e.selectedNode = ""
	}
}

func (e *Engine) SelectedNode() string {
	return e.selectedNode
}

func (e *Engine) SelectedEdge() string {
	return e.selectedEdge
}

// State is the kind of drag in flight.
func (e *Engine) State() DragKind {
	if e.drag == nil {
		return Idle
	}
	return e.drag.kind
}

// Guides are the alignment guides of the drag in flight.
func (e *Engine) Guides() fctarget.Guides {
	return e.guides
}

// Tick advances the viewport animation by one frame. It returns the
// displayed viewport and whether another frame is needed.
func (e *Engine) Tick() (fcviewport.Viewport, bool) {
	return e.viewport.Tick()
}

func (e *Engine) Viewport() fcviewport.Viewport {
	return e.viewport.Current()
}

func (e *Engine) refit() {
	s := e.scene()
	e.viewport.SetTarget(fcviewport.Fit(s, e.opts.ViewportMargin, e.opts.DefaultNodeWidth, e.opts.DefaultNodeHeight))
}

// nodePosition resolves a node through its draft. nil when the node is gone
// or has no position.
func (e *Engine) nodePosition(id string) *geo.Point {
	n := e.idx.Node(id)
	if n == nil {
		return nil
	}
	var draft *geo.Point
	if p, ok := e.draftNodes[id]; ok {
		draft = &p
	}
	return fctarget.EffectivePosition(n, draft)
}

func (e *Engine) nodeSize(id string) (float64, float64) {
	s, ok := e.sizes[id]
	if !ok {
		return e.opts.DefaultNodeWidth, e.opts.DefaultNodeHeight
	}
	return s.X, s.Y
}

// endpoints resolves both ends of an edge, ok is false when either is
// missing and the edge is not drawn.
func (e *Engine) endpoints(edge *fctarget.EdgeData) (from, to geo.Point, ok bool) {
	f := e.nodePosition(edge.From)
	t := e.nodePosition(edge.To)
	if f == nil || t == nil {
		return geo.Point{}, geo.Point{}, false
	}
	return *f, *t, true
}

// alignmentElements lists every node and every explicit control point that
// a dragged element can snap to.
func (e *Engine) alignmentElements() []fcalign.Element {
	var els []fcalign.Element
	for _, n := range e.diagram.Nodes {
		pos := e.nodePosition(n.ID)
		if pos == nil {
			continue
		}
		w, h := e.nodeSize(n.ID)
		els = append(els, fcalign.Element{ID: n.ID, Center: *pos, Width: w, Height: h})
	}
	for _, edge := range e.diagram.Edges {
		if e.drag != nil && e.drag.handle != nil && e.drag.handle.edgeID == edge.ID {
			// Handles only snap to other edges.
			continue
		}
		points := geo.Points(edge.OverridePoints)
		if draft, ok := e.draftEdges[edge.ID]; ok {
			points = draft
		}
		for i, p := range points {
			els = append(els, fcalign.Element{ID: fcalign.HandleID(edge.ID, i), Center: p})
		}
	}
	return els
}

func (e *Engine) capture(pointerID int) {
	if e.pc == nil {
		return
	}
	if err := e.pc.SetPointerCapture(pointerID); err != nil {
		log.Warn(e.ctx, "failed to capture pointer", slog.F("pointer", pointerID), slog.Error(err))
	}
}

func (e *Engine) release(pointerID int) {
	if e.pc == nil {
		return
	}
	if err := e.pc.ReleasePointerCapture(pointerID); err != nil {
		log.Warn(e.ctx, "failed to release pointer", slog.F("pointer", pointerID), slog.Error(err))
	}
}

func (e *Engine) emitNodeMove(id string, p *geo.Point) {
	log.Debug(e.ctx, "node moved", slog.F("id", id), slog.F("position", p))
	if e.cb.OnNodeMove != nil {
		e.cb.OnNodeMove(id, p)
	}
}

func (e *Engine) emitEdgeMove(id string, points []geo.Point) {
	log.Debug(e.ctx, "edge moved", slog.F("id", id), slog.F("points", points))
	if e.cb.OnEdgeMove != nil {
		e.cb.OnEdgeMove(id, points)
	}
}

func (e *Engine) emitLayoutUpdate(u fctarget.LayoutUpdate) {
	log.Debug(e.ctx, "layout updated",
		slog.F("nodes", len(u.Nodes)),
		slog.F("edges", len(u.Edges)),
		slog.F("subgraphs", len(u.Subgraphs)),
	)
	if e.cb.OnLayoutUpdate != nil {
		e.cb.OnLayoutUpdate(u)
		return
	}
	for _, id := range u.NodeIDs() {
		if e.cb.OnNodeMove != nil {
			e.cb.OnNodeMove(id, u.Nodes[id])
		}
	}
	for _, id := range u.EdgeIDs() {
		if e.cb.OnEdgeMove != nil {
			e.cb.OnEdgeMove(id, u.Edges[id].Points)
		}
	}
}

// selectNode selects id, or nothing for "", and tells the caller that the
// edge selection is gone.
func (e *Engine) selectNode(id string) {
	e.selectedNode, e.selectedEdge = id, ""
	if e.cb.OnSelectNode != nil {
		e.cb.OnSelectNode(id)
	}
	if e.cb.OnSelectEdge != nil {
		e.cb.OnSelectEdge("")
	}
}

func (e *Engine) selectEdge(id string) {
	e.selectedNode, e.selectedEdge = "", id
	if e.cb.OnSelectEdge != nil {
		e.cb.OnSelectEdge(id)
	}
	if e.cb.OnSelectNode != nil {
		e.cb.OnSelectNode("")
	}
}

func (e *Engine) setDragging(dragging bool) {
	if e.cb.OnDragStateChange != nil {
		e.cb.OnDragStateChange(dragging)
	}
}
