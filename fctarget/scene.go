package fctarget

import (
	"oss.terrastruct.com/flowcanvas/lib/geo"
	"oss.terrastruct.com/flowcanvas/lib/shape"
)

type GuideAxis string

const (
	// GuideVertical is a vertical line: the dragged element is aligned on x.
	GuideVertical   GuideAxis = "vertical"
	GuideHorizontal GuideAxis = "horizontal"
)

type GuideKind string

const (
	GuideEdge   GuideKind = "edge"
	GuideCenter GuideKind = "center"
)

// Guide is a transient line showing which two elements are snapped.
// Position is the x of a vertical guide or the y of a horizontal one; Start
// and End bound it along the other axis.
type Guide struct {
	Axis     GuideAxis `json:"axis"`
	Position float64   `json:"position"`
	Start    float64   `json:"start"`
	End      float64   `json:"end"`
	Kind     GuideKind `json:"kind"`
	SourceID string    `json:"sourceId"`
	TargetID string    `json:"targetId"`
}

// Segment is the guide as a line in diagram space.
func (g Guide) Segment() geo.Segment {
	if g.Axis == GuideVertical {
		return geo.Segment{
			Start: geo.Point{X: g.Position, Y: g.Start},
			End:   geo.Point{X: g.Position, Y: g.End},
		}
	}
	return geo.Segment{
		Start: geo.Point{X: g.Start, Y: g.Position},
		End:   geo.Point{X: g.End, Y: g.Position},
	}
}

type Guides struct {
	Vertical   *Guide `json:"vertical,omitempty"`
	Horizontal *Guide `json:"horizontal,omitempty"`
}

func (g Guides) Empty() bool {
	return g.Vertical == nil && g.Horizontal == nil
}

// Scene is one frame ready to be drawn.
type Scene struct {
	Nodes     []SceneNode     `json:"nodes"`
	Edges     []SceneEdge     `json:"edges"`
	Subgraphs []SceneSubgraph `json:"subgraphs"`
	Guides    Guides          `json:"guides"`
	// ViewBox is the displayed, smoothed viewport.
	ViewBox geo.Box `json:"viewBox"`
}

type SceneNode struct {
	ID    string     `json:"id"`
	Shape shape.Type `json:"shape"`
	Label string     `json:"label"`
	Box   geo.Box    `json:"box"`

	FillColor      string `json:"fillColor,omitempty"`
	StrokeColor    string `json:"strokeColor,omitempty"`
	TextColor      string `json:"textColor,omitempty"`
	LabelFillColor string `json:"labelFillColor,omitempty"`
	ImageFillColor string `json:"imageFillColor,omitempty"`
	Image          *Image `json:"image,omitempty"`

	Selected   bool `json:"selected,omitempty"`
	Dragging   bool `json:"dragging,omitempty"`
	Overridden bool `json:"overridden,omitempty"`
}

// Handle is a draggable control point. Index is the position in the
// override list, or -1 for the default handle of an edge without one.
type Handle struct {
	Index int       `json:"index"`
	Point geo.Point `json:"point"`
}

func (h Handle) IsDefault() bool {
	return h.Index < 0
}

type SceneEdge struct {
	ID             string         `json:"id"`
	From           string         `json:"from"`
	To             string         `json:"to"`
	Route          geo.Route      `json:"route"`
	Kind           EdgeKind       `json:"kind"`
	ArrowDirection ArrowDirection `json:"arrowDirection"`
	Color          string         `json:"color,omitempty"`

	Label    string   `json:"label,omitempty"`
	LabelBox *geo.Box `json:"labelBox,omitempty"`

	// Handles are only listed for the selected or dragged edge.
	Handles []Handle `json:"handles,omitempty"`

	Selected   bool `json:"selected,omitempty"`
	Dragging   bool `json:"dragging,omitempty"`
	Overridden bool `json:"overridden,omitempty"`
}

type SceneSubgraph struct {
	ID         string    `json:"id"`
	Label      string    `json:"label,omitempty"`
	Box        geo.Box   `json:"box"`
	LabelPoint geo.Point `json:"labelPoint"`
	Depth      int       `json:"depth"`
	Dragging   bool      `json:"dragging,omitempty"`
}

func (s *Scene) Node(id string) *SceneNode {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i]
		}
	}
	return nil
}

func (s *Scene) Edge(id string) *SceneEdge {
	for i := range s.Edges {
		if s.Edges[i].ID == id {
			return &s.Edges[i]
		}
	}
	return nil
}

func (s *Scene) Subgraph(id string) *SceneSubgraph {
	for i := range s.Subgraphs {
		if s.Subgraphs[i].ID == id {
			return &s.Subgraphs[i]
		}
	}
	return nil
}

// Bounds is the box around everything drawn in the scene: node boxes, edge
// routes, handles, label boxes, subgraph rectangles and their label points.
// ok is false when the scene is empty.
func (s *Scene) Bounds() (b geo.Box, ok bool) {
	bb := geo.NewBounds()
	for _, n := range s.Nodes {
		bb.AddBox(n.Box)
	}
	for _, e := range s.Edges {
		for _, p := range e.Route {
			bb.AddPoint(p)
		}
		for _, h := range e.Handles {
			bb.AddPoint(h.Point)
		}
		if e.LabelBox != nil {
			bb.AddBox(*e.LabelBox)
		}
	}
	for _, sg := range s.Subgraphs {
		bb.AddBox(sg.Box)
		bb.AddPoint(sg.LabelPoint)
	}
	if bb.Empty() {
		return geo.Box{}, false
	}
	return bb.Box(), true
}
