package fcengine

import (
	"oss.terrastruct.com/flowcanvas/fcroute"
	"oss.terrastruct.com/flowcanvas/fctarget"
	"oss.terrastruct.com/flowcanvas/lib/geo"
)

// Render resolves the current frame: drafts over overrides over the
// snapshot, with the displayed viewport.
func (e *Engine) Render() *fctarget.Scene {
	s := e.scene()
	s.ViewBox = e.viewport.Current().Box()
	return s
}

func (e *Engine) scene() *fctarget.Scene {
	s := &fctarget.Scene{
		Nodes:     []fctarget.SceneNode{},
		Edges:     []fctarget.SceneEdge{},
		Subgraphs: []fctarget.SceneSubgraph{},
		Guides:    e.guides,
	}

	for _, sg := range e.idx.SortedSubgraphs() {
		delta, dragging := e.draftSubgraphs[sg.ID]
		s.Subgraphs = append(s.Subgraphs, fctarget.SceneSubgraph{
			ID:         sg.ID,
			Label:      sg.Label,
			Box:        sg.Box().Translate(delta.X, delta.Y),
			LabelPoint: sg.LabelPoint().Add(delta),
			Depth:      sg.Depth,
			Dragging:   dragging,
		})
	}

	for i := range e.diagram.Nodes {
		n := &e.diagram.Nodes[i]
		pos := e.nodePosition(n.ID)
		if pos == nil {
			continue
		}
		w, h := e.nodeSize(n.ID)
		_, dragging := e.draftNodes[n.ID]
		s.Nodes = append(s.Nodes, fctarget.SceneNode{
			ID:             n.ID,
			Shape:          n.Shape,
			Label:          n.Label,
			Box:            geo.BoxAround(*pos, w, h),
			FillColor:      n.FillColor,
			StrokeColor:    n.StrokeColor,
			TextColor:      n.TextColor,
			LabelFillColor: n.LabelFillColor,
			ImageFillColor: n.ImageFillColor,
			Image:          n.Image,
			Selected:       n.ID == e.selectedNode,
			Dragging:       dragging,
			Overridden:     n.OverridePosition != nil,
		})
	}

	sizer := e.opts.sizer()
	for i := range e.diagram.Edges {
		edge := &e.diagram.Edges[i]
		from, to, ok := e.endpoints(edge)
		if !ok {
			continue
		}

		var draft *fcroute.Draft
		points := geo.Points(edge.OverridePoints)
		if pts, ok := e.draftEdges[edge.ID]; ok {
			draft = &fcroute.Draft{Points: pts}
			points = pts
		}
		route := fcroute.GetEdgeRoute(edge, from, to, draft)

		se := fctarget.SceneEdge{
			ID:             edge.ID,
			From:           edge.From,
			To:             edge.To,
			Route:          route,
			Kind:           edge.GetKind(),
			ArrowDirection: edge.GetArrowDirection(),
			Color:          edge.Color,
			Label:          edge.Label,
			Selected:       edge.ID == e.selectedEdge,
			Dragging:       draft != nil,
			Overridden:     edge.HasOverride(),
		}
		if se.Selected || se.Dragging {
			se.Handles = fcroute.Handles(route, points)
		}
		if edge.Label != "" {
			box := sizer.BoxAt(fcroute.LabelAnchor(route, points, e.opts.LabelVerticalOffset), edge.Label)
			se.LabelBox = &box
		}
		s.Edges = append(s.Edges, se)
	}
	return s
}
