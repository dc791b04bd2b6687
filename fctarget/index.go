package fctarget

import (
	"sort"

	"oss.terrastruct.com/flowcanvas/lib/geo"
)

// Index resolves ids of one snapshot. Lookups of ids that are not in the
// snapshot return nil.
type Index struct {
	Diagram *Diagram

	nodes     map[string]*NodeData
	edges     map[string]*EdgeData
	subgraphs map[string]*SubgraphData
	children  map[string][]string
}

func NewIndex(d *Diagram) *Index {
	if d == nil {
		d = &Diagram{}
	}
	idx := &Index{
		Diagram:   d,
		nodes:     make(map[string]*NodeData, len(d.Nodes)),
		edges:     make(map[string]*EdgeData, len(d.Edges)),
		subgraphs: make(map[string]*SubgraphData, len(d.Subgraphs)),
		children:  make(map[string][]string),
	}
	for i := range d.Nodes {
		idx.nodes[d.Nodes[i].ID] = &d.Nodes[i]
	}
	for i := range d.Edges {
		idx.edges[d.Edges[i].ID] = &d.Edges[i]
	}
	for i := range d.Subgraphs {
		sg := &d.Subgraphs[i]
		idx.subgraphs[sg.ID] = sg
		idx.children[sg.ParentID] = append(idx.children[sg.ParentID], sg.ID)
	}
	for _, ids := range idx.children {
		sort.Strings(ids)
	}
	return idx
}

func (idx *Index) Node(id string) *NodeData {
	return idx.nodes[id]
}

func (idx *Index) Edge(id string) *EdgeData {
	return idx.edges[id]
}

func (idx *Index) Subgraph(id string) *SubgraphData {
	return idx.subgraphs[id]
}

// NodeIDs returns every node id in lexicographic order.
func (idx *Index) NodeIDs() []string {
	ids := make([]string, 0, len(idx.nodes))
	for id := range idx.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Descendants returns every subgraph nested under id, at any depth, in
// breadth first order.
func (idx *Index) Descendants(id string) []string {
	var out []string
	queue := append([]string(nil), idx.children[id]...)
	seen := map[string]bool{id: true}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		out = append(out, next)
		queue = append(queue, idx.children[next]...)
	}
	return out
}

// Siblings returns the subgraphs sharing id's parent, excluding id and its
// descendants.
func (idx *Index) Siblings(id string) []string {
	sg := idx.subgraphs[id]
	if sg == nil {
		return nil
	}
	excluded := map[string]bool{id: true}
	for _, d := range idx.Descendants(id) {
		excluded[d] = true
	}
	var out []string
	for _, sib := range idx.children[sg.ParentID] {
		if !excluded[sib] {
			out = append(out, sib)
		}
	}
	return out
}

// Members returns the nodes belonging to subgraph id or to any subgraph
// nested under it, sorted by id.
func (idx *Index) Members(id string) []string {
	scope := map[string]bool{id: true}
	for _, d := range idx.Descendants(id) {
		scope[d] = true
	}
	var out []string
	for _, n := range idx.Diagram.Nodes {
		for _, sgID := range n.Membership {
			if scope[sgID] {
				out = append(out, n.ID)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// SortedSubgraphs returns the subgraphs in render order: depth, then order,
// then id.
func (idx *Index) SortedSubgraphs() []*SubgraphData {
	out := make([]*SubgraphData, 0, len(idx.Diagram.Subgraphs))
	for i := range idx.Diagram.Subgraphs {
		out = append(out, &idx.Diagram.Subgraphs[i])
	}
	SortSubgraphs(out)
	return out
}

func SortSubgraphs(sgs []*SubgraphData) {
	sort.SliceStable(sgs, func(i, j int) bool {
		a, b := sgs[i], sgs[j]
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
}

// NodeSize returns the declared size of n, the padded image size for image
// nodes without one, or the default size.
func NodeSize(n *NodeData, defaultWidth, defaultHeight float64) (float64, float64) {
	w, h := defaultWidth, defaultHeight
	if n.Image != nil && n.Image.Width > 0 && n.Image.Height > 0 {
		w = n.Image.Width + 2*n.Image.Padding
		h = n.Image.Height + 2*n.Image.Padding
	}
	if n.Width > 0 {
		w = n.Width
	}
	if n.Height > 0 {
		h = n.Height
	}
	return w, h
}

// EffectivePosition resolves draft, then override, then rendered, then auto.
// It returns nil when none is set.
func EffectivePosition(n *NodeData, draft *geo.Point) *geo.Point {
	if n == nil {
		return nil
	}
	for _, p := range []*geo.Point{draft, n.OverridePosition, n.RenderedPosition, n.AutoPosition} {
		if p != nil {
			cp := *p
			return &cp
		}
	}
	return nil
}

// PersistedPosition is the position the caller has stored, ignoring drafts.
func PersistedPosition(n *NodeData) *geo.Point {
	return EffectivePosition(n, nil)
}
