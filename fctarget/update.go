package fctarget

import (
	"sort"

	"oss.terrastruct.com/flowcanvas/lib/geo"
)

// EdgeUpdate carries interior control points. Nil or empty Points clears the
// override.
type EdgeUpdate struct {
	Points []geo.Point `json:"points"`
}

// LayoutUpdate is a batch of committed changes. A nil node position clears
// that node's override.
//
// Subgraphs maps each dragged subgraph, descendants included, to the delta
// it was moved by. Callers that recompute subgraph rectangles themselves may
// ignore it.
type LayoutUpdate struct {
	Nodes     map[string]*geo.Point `json:"nodes,omitempty"`
	Edges     map[string]EdgeUpdate `json:"edges,omitempty"`
	Subgraphs map[string]geo.Point  `json:"subgraphs,omitempty"`
}

func (u LayoutUpdate) Empty() bool {
	return len(u.Nodes) == 0 && len(u.Edges) == 0 && len(u.Subgraphs) == 0
}

// NodeIDs and EdgeIDs return the touched ids in lexicographic order.
func (u LayoutUpdate) NodeIDs() []string {
	ids := make([]string, 0, len(u.Nodes))
	for id := range u.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (u LayoutUpdate) EdgeIDs() []string {
	ids := make([]string, 0, len(u.Edges))
	for id := range u.Edges {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Apply returns the next snapshot with u applied, the way a persisting
// caller would. d is not modified. Unknown ids are skipped.
func (d *Diagram) Apply(u LayoutUpdate) *Diagram {
	next := d.Copy()
	for id, p := range u.Nodes {
		next.setNodeOverride(id, p)
	}
	for id, eu := range u.Edges {
		next.setEdgeOverride(id, eu.Points)
	}
	for i := range next.Subgraphs {
		sg := &next.Subgraphs[i]
		delta, ok := u.Subgraphs[sg.ID]
		if !ok {
			continue
		}
		sg.X += delta.X
		sg.Y += delta.Y
		sg.LabelX += delta.X
		sg.LabelY += delta.Y
	}
	return next
}

func (d *Diagram) ApplyNodeMove(id string, p *geo.Point) *Diagram {
	return d.Apply(LayoutUpdate{Nodes: map[string]*geo.Point{id: p}})
}

func (d *Diagram) ApplyEdgeMove(id string, points []geo.Point) *Diagram {
	return d.Apply(LayoutUpdate{Edges: map[string]EdgeUpdate{id: {Points: points}}})
}

func (d *Diagram) setNodeOverride(id string, p *geo.Point) {
	for i := range d.Nodes {
		if d.Nodes[i].ID != id {
			continue
		}
		d.Nodes[i].OverridePosition = copyPoint(p)
		if p != nil {
			d.Nodes[i].RenderedPosition = copyPoint(p)
		} else {
			d.Nodes[i].RenderedPosition = nil
		}
		return
	}
}

func (d *Diagram) setEdgeOverride(id string, points []geo.Point) {
	for i := range d.Edges {
		if d.Edges[i].ID != id {
			continue
		}
		if len(points) == 0 {
			d.Edges[i].OverridePoints = nil
		} else {
			d.Edges[i].OverridePoints = geo.Points(points).Copy()
		}
		d.Edges[i].RenderedPoints = nil
		return
	}
}

// RemoveNode returns the next snapshot without the node and every edge
// touching it.
func (d *Diagram) RemoveNode(id string) *Diagram {
	next := d.Copy()
	nodes := next.Nodes[:0]
	for _, n := range next.Nodes {
		if n.ID != id {
			nodes = append(nodes, n)
		}
	}
	next.Nodes = nodes
	edges := next.Edges[:0]
	for _, e := range next.Edges {
		if e.From != id && e.To != id {
			edges = append(edges, e)
		}
	}
	next.Edges = edges
	return next
}

func (d *Diagram) RemoveEdge(id string) *Diagram {
	next := d.Copy()
	edges := next.Edges[:0]
	for _, e := range next.Edges {
		if e.ID != id {
			edges = append(edges, e)
		}
	}
	next.Edges = edges
	return next
}
