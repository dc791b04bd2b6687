package fctarget

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"oss.terrastruct.com/xdefer"

	"oss.terrastruct.com/flowcanvas/lib/geo"
	"oss.terrastruct.com/flowcanvas/lib/shape"
)

const (
	DEFAULT_NODE_WIDTH  = 140.
	DEFAULT_NODE_HEIGHT = 60.
)

// Diagram is the snapshot a caller hands to the engine. The engine only reads
// it; changes travel back as update events and the caller builds the next
// snapshot, see Apply.
type Diagram struct {
	Nodes     []NodeData     `json:"nodes"`
	Edges     []EdgeData     `json:"edges"`
	Subgraphs []SubgraphData `json:"subgraphs,omitempty"`
}

type Image struct {
	MimeType string  `json:"mimeType"`
	Data     string  `json:"data"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Padding  float64 `json:"padding,omitempty"`
}

// DataURL is the image as an inline href.
func (i Image) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MimeType, i.Data)
}

// NodeData positions are node centers.
type NodeData struct {
	ID    string     `json:"id"`
	Shape shape.Type `json:"shape"`
	Label string     `json:"label"`

	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	AutoPosition     *geo.Point `json:"autoPosition,omitempty"`
	OverridePosition *geo.Point `json:"overridePosition,omitempty"`
	RenderedPosition *geo.Point `json:"renderedPosition,omitempty"`

	FillColor      string `json:"fillColor,omitempty"`
	StrokeColor    string `json:"strokeColor,omitempty"`
	TextColor      string `json:"textColor,omitempty"`
	LabelFillColor string `json:"labelFillColor,omitempty"`
	ImageFillColor string `json:"imageFillColor,omitempty"`

	Image *Image `json:"image,omitempty"`

	Membership []string `json:"membership,omitempty"`
}

type EdgeKind string

const (
	EdgeSolid  EdgeKind = "solid"
	EdgeDashed EdgeKind = "dashed"
)

type ArrowDirection string

const (
	ArrowForward  ArrowDirection = "forward"
	ArrowBackward ArrowDirection = "backward"
	ArrowBoth     ArrowDirection = "both"
	ArrowNone     ArrowDirection = "none"
)

// EdgeData.OverridePoints holds interior control points only. RenderedPoints
// and AutoPoints are whole polylines, endpoints included.
type EdgeData struct {
	ID             string         `json:"id"`
	From           string         `json:"from"`
	To             string         `json:"to"`
	Label          string         `json:"label,omitempty"`
	Kind           EdgeKind       `json:"kind,omitempty"`
	ArrowDirection ArrowDirection `json:"arrowDirection,omitempty"`
	Color          string         `json:"color,omitempty"`

	OverridePoints []geo.Point `json:"overridePoints,omitempty"`
	RenderedPoints []geo.Point `json:"renderedPoints,omitempty"`
	AutoPoints     []geo.Point `json:"autoPoints,omitempty"`
}

func (e EdgeData) GetKind() EdgeKind {
	if e.Kind == EdgeDashed {
		return EdgeDashed
	}
	return EdgeSolid
}

func (e EdgeData) GetArrowDirection() ArrowDirection {
	switch e.ArrowDirection {
	case ArrowBackward, ArrowBoth, ArrowNone:
		return e.ArrowDirection
	default:
		return ArrowForward
	}
}

func (e EdgeData) HasOverride() bool {
	return len(e.OverridePoints) > 0
}

// SubgraphData is positioned by its top-left corner.
type SubgraphData struct {
	ID       string  `json:"id"`
	ParentID string  `json:"parentId,omitempty"`
	Depth    int     `json:"depth"`
	Order    int     `json:"order"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	LabelX   float64 `json:"labelX"`
	LabelY   float64 `json:"labelY"`
	Label    string  `json:"label,omitempty"`
}

func (sg SubgraphData) Box() geo.Box {
	return geo.Box{
		TopLeft: geo.Point{X: sg.X, Y: sg.Y},
		Width:   sg.Width,
		Height:  sg.Height,
	}
}

func (sg SubgraphData) LabelPoint() geo.Point {
	return geo.Point{X: sg.LabelX, Y: sg.LabelY}
}

func (d *Diagram) Validate() (err error) {
	defer xdefer.Errorf(&err, "invalid diagram")

	nodes := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node with empty id")
		}
		if _, ok := nodes[n.ID]; ok {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		nodes[n.ID] = struct{}{}
		if n.Width < 0 || n.Height < 0 {
			return fmt.Errorf("node %q has a negative size", n.ID)
		}
	}

	edges := make(map[string]struct{}, len(d.Edges))
	for _, e := range d.Edges {
		if e.ID == "" {
			return fmt.Errorf("edge with empty id")
		}
		if _, ok := edges[e.ID]; ok {
			return fmt.Errorf("duplicate edge id %q", e.ID)
		}
		edges[e.ID] = struct{}{}
	}

	parents := make(map[string]string, len(d.Subgraphs))
	for _, sg := range d.Subgraphs {
		if sg.ID == "" {
			return fmt.Errorf("subgraph with empty id")
		}
		if _, ok := parents[sg.ID]; ok {
			return fmt.Errorf("duplicate subgraph id %q", sg.ID)
		}
		parents[sg.ID] = sg.ParentID
	}
	for id, parent := range parents {
		if parent == "" {
			continue
		}
		if _, ok := parents[parent]; !ok {
			return fmt.Errorf("subgraph %q has unknown parent %q", id, parent)
		}
		seen := map[string]bool{id: true}
		for p := parent; p != ""; p = parents[p] {
			if seen[p] {
				return fmt.Errorf("subgraph %q is its own ancestor", id)
			}
			seen[p] = true
		}
	}
	return nil
}

func Read(r io.Reader) (_ *Diagram, err error) {
	defer xdefer.Errorf(&err, "failed to read diagram")

	var d Diagram
	dec := json.NewDecoder(r)
	if err := dec.Decode(&d); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func ReadFile(path string) (_ *Diagram, err error) {
	defer xdefer.Errorf(&err, "failed to read %s", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func (d *Diagram) Bytes() ([]byte, error) {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func (d *Diagram) WriteFile(path string) (err error) {
	defer xdefer.Errorf(&err, "failed to write %s", path)

	b, err := d.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Copy is a deep copy.
func (d *Diagram) Copy() *Diagram {
	if d == nil {
		return nil
	}
	out := &Diagram{
		Nodes:     make([]NodeData, len(d.Nodes)),
		Edges:     make([]EdgeData, len(d.Edges)),
		Subgraphs: append([]SubgraphData(nil), d.Subgraphs...),
	}
	for i, n := range d.Nodes {
		n.AutoPosition = copyPoint(n.AutoPosition)
		n.OverridePosition = copyPoint(n.OverridePosition)
		n.RenderedPosition = copyPoint(n.RenderedPosition)
		if n.Image != nil {
			img := *n.Image
			n.Image = &img
		}
		n.Membership = append([]string(nil), n.Membership...)
		out.Nodes[i] = n
	}
	for i, e := range d.Edges {
		e.OverridePoints = geo.Points(e.OverridePoints).Copy()
		e.RenderedPoints = geo.Points(e.RenderedPoints).Copy()
		e.AutoPoints = geo.Points(e.AutoPoints).Copy()
		out.Edges[i] = e
	}
	return out
}

func copyPoint(p *geo.Point) *geo.Point {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
