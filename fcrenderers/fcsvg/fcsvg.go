// fcsvg renders a flowcanvas scene to SVG.
// The input is fcengine's Render output.
package fcsvg

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"io"
	"sort"
	"strings"

	"oss.terrastruct.com/flowcanvas/fctarget"
	"oss.terrastruct.com/flowcanvas/lib/color"
	"oss.terrastruct.com/flowcanvas/lib/geo"
	"oss.terrastruct.com/flowcanvas/lib/label"
	"oss.terrastruct.com/flowcanvas/lib/shape"
	"oss.terrastruct.com/flowcanvas/lib/svg"
	"oss.terrastruct.com/flowcanvas/lib/version"
)

const (
	NODE_STROKE_WIDTH  = 2
	EDGE_STROKE_WIDTH  = 2
	GUIDE_STROKE_WIDTH = 1
	HANDLE_RADIUS      = 5
	FONT_SIZE          = 14
	ARROWHEAD_SIZE     = 10

	dashes = 5.
)

type RenderOpts struct {
	// ViewBox replaces the scene's viewport.
	ViewBox *geo.Box
	// HideGuides leaves alignment guides out, e.g. for static exports.
	HideGuides bool
}

// Render writes s as a standalone SVG document. Elements carry data-id and
// data-kind attributes so hosts can map pointer events back to targets.
func Render(s *fctarget.Scene, opts *RenderOpts) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("nil scene")
	}
	if opts == nil {
		opts = &RenderOpts{}
	}
	viewBox := s.ViewBox
	if opts.ViewBox != nil {
		viewBox = *opts.ViewBox
	}
	if viewBox.Width <= 0 || viewBox.Height <= 0 {
		return nil, fmt.Errorf("empty view box %s", viewBox.ToString())
	}

	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" data-flowcanvas-version="%s" viewBox="%s %s %s %s">`,
		version.Version,
		svg.FormatFloat(viewBox.TopLeft.X),
		svg.FormatFloat(viewBox.TopLeft.Y),
		svg.FormatFloat(viewBox.Width),
		svg.FormatFloat(viewBox.Height),
	)

	bg := svg.NewElement("rect")
	bg.X = viewBox.TopLeft.X
	bg.Y = viewBox.TopLeft.Y
	bg.Width = viewBox.Width
	bg.Height = viewBox.Height
	bg.Fill = color.CanvasFill
	bg.ClassName = "background"
	fmt.Fprint(buf, bg.Render())

	shapes := make(map[string]shape.Shape, len(s.Nodes))
	for _, n := range s.Nodes {
		shapes[n.ID] = shape.NewShape(n.Shape, n.Box)
	}

	writeDefs(buf, s, shapes)

	for _, sg := range s.Subgraphs {
		drawSubgraph(buf, sg)
	}
	for _, e := range s.Edges {
		drawEdge(buf, e, shapes)
	}
	for _, n := range s.Nodes {
		if err := drawNode(buf, n, shapes[n.ID]); err != nil {
			return nil, fmt.Errorf("failed to draw node %q: %w", n.ID, err)
		}
	}
	// Handles go over nodes so a point dragged onto a node stays reachable.
	for _, e := range s.Edges {
		drawHandles(buf, e)
	}
	if !opts.HideGuides {
		drawGuides(buf, s.Guides)
	}

	buf.WriteString(`</svg>`)
	return buf.Bytes(), nil
}

func writeDefs(w io.Writer, s *fctarget.Scene, shapes map[string]shape.Shape) {
	markers := make(map[string]string)
	for _, e := range s.Edges {
		stroke := edgeStroke(e)
		if e.ArrowDirection == fctarget.ArrowForward || e.ArrowDirection == fctarget.ArrowBoth {
			markers[arrowheadMarkerID(true, stroke)] = arrowheadMarker(true, stroke)
		}
		if e.ArrowDirection == fctarget.ArrowBackward || e.ArrowDirection == fctarget.ArrowBoth {
			markers[arrowheadMarkerID(false, stroke)] = arrowheadMarker(false, stroke)
		}
	}

	var clips []string
	for _, n := range s.Nodes {
		if n.Image != nil {
			clips = append(clips, n.ID)
		}
	}
	if len(markers) == 0 && len(clips) == 0 {
		return
	}

	fmt.Fprint(w, `<defs>`)
	ids := make([]string, 0, len(markers))
	for id := range markers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprint(w, markers[id])
	}
	for _, id := range clips {
		p := svg.NewElement("path")
		p.D = shapes[id].ClipPath()
		fmt.Fprintf(w, `<clipPath id="%s">%s</clipPath>`, clipPathID(id), p.Render())
	}
	fmt.Fprint(w, `</defs>`)
}

func arrowheadMarkerID(isTarget bool, stroke string) string {
	return fmt.Sprintf("mk-%s", hash(fmt.Sprintf("%t,%s", isTarget, stroke)))
}

func arrowheadMarker(isTarget bool, stroke string) string {
	const size = float64(ARROWHEAD_SIZE)
	polygon := svg.NewElement("polygon")
	polygon.Fill = stroke
	polygon.ClassName = "connection"
	var refX float64
	if isTarget {
		polygon.Attributes = fmt.Sprintf(`points="0,0 %s,%s 0,%s"`,
			svg.FormatFloat(size), svg.FormatFloat(size/2), svg.FormatFloat(size))
		refX = size
	} else {
		polygon.Attributes = fmt.Sprintf(`points="%s,0 0,%s %s,%s"`,
			svg.FormatFloat(size), svg.FormatFloat(size/2), svg.FormatFloat(size), svg.FormatFloat(size))
	}
	return fmt.Sprintf(`<marker id="%s" markerWidth="%s" markerHeight="%s" refX="%s" refY="%s" orient="auto" markerUnits="userSpaceOnUse">%s</marker>`,
		arrowheadMarkerID(isTarget, stroke),
		svg.FormatFloat(size),
		svg.FormatFloat(size),
		svg.FormatFloat(refX),
		svg.FormatFloat(size/2),
		polygon.Render(),
	)
}

func clipPathID(nodeID string) string {
	return fmt.Sprintf("clip-%s", hash(nodeID))
}

func drawSubgraph(w io.Writer, sg fctarget.SceneSubgraph) {
	fmt.Fprintf(w, `<g class="subgraph" data-kind="subgraph" data-id="%s">`, svg.EscapeText(sg.ID))

	rect := svg.NewElement("rect")
	rect.X = sg.Box.TopLeft.X
	rect.Y = sg.Box.TopLeft.Y
	rect.Width = sg.Box.Width
	rect.Height = sg.Box.Height
	rect.Fill = color.SubgraphFill
	rect.Stroke = color.SubgraphLine
	rect.Attributes = `stroke-width="1"`
	if sg.Dragging {
		rect.Stroke = color.SelectedLine
		rect.Attributes = `stroke-width="2"`
	}
	fmt.Fprint(w, rect.Render())

	if sg.Label != "" {
		fmt.Fprint(w, renderText(sg.Label, sg.LabelPoint, color.Text))
	}
	fmt.Fprint(w, `</g>`)
}

func edgeStroke(e fctarget.SceneEdge) string {
	return color.Or(e.Color, color.EdgeStroke)
}

// trimRoute moves both ends of the route from node centers to where the
// route leaves each node's outline.
func trimRoute(e fctarget.SceneEdge, shapes map[string]shape.Shape) geo.Route {
	route := make(geo.Route, len(e.Route))
	copy(route, e.Route)
	if len(route) < 2 {
		return route
	}
	if s, ok := shapes[e.From]; ok {
		route[0] = shape.TraceToShapeBorder(s, route[1])
	}
	if s, ok := shapes[e.To]; ok {
		last := len(route) - 1
		route[last] = shape.TraceToShapeBorder(s, route[last-1])
	}
	return route
}

func pathData(route geo.Route) string {
	var b strings.Builder
	for i, p := range route {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		fmt.Fprintf(&b, "%s %s", svg.FormatFloat(p.X), svg.FormatFloat(p.Y))
	}
	return b.String()
}

func drawEdge(w io.Writer, e fctarget.SceneEdge, shapes map[string]shape.Shape) {
	fmt.Fprintf(w, `<g class="connection" data-kind="edge" data-id="%s">`, svg.EscapeText(e.ID))

	stroke := edgeStroke(e)
	route := trimRoute(e, shapes)

	var attrs []string
	attrs = append(attrs, fmt.Sprintf(`stroke-width="%d"`, EDGE_STROKE_WIDTH))
	if e.Kind == fctarget.EdgeDashed {
		dash, gap := svg.StrokeDash(EDGE_STROKE_WIDTH, dashes)
		attrs = append(attrs, fmt.Sprintf(`stroke-dasharray="%s,%s"`, svg.FormatFloat(dash), svg.FormatFloat(gap)))
	}
	if e.ArrowDirection == fctarget.ArrowBackward || e.ArrowDirection == fctarget.ArrowBoth {
		attrs = append(attrs, fmt.Sprintf(`marker-start="url(#%s)"`, arrowheadMarkerID(false, stroke)))
	}
	if e.ArrowDirection == fctarget.ArrowForward || e.ArrowDirection == fctarget.ArrowBoth {
		attrs = append(attrs, fmt.Sprintf(`marker-end="url(#%s)"`, arrowheadMarkerID(true, stroke)))
	}

	path := svg.NewElement("path")
	path.D = pathData(route)
	path.Fill = color.None
	path.Stroke = stroke
	if e.Selected || e.Dragging {
		path.Stroke = color.SelectedLine
	}
	path.Attributes = strings.Join(attrs, " ")
	fmt.Fprint(w, path.Render())

	// A wide transparent twin gives the thin line a usable hit area.
	hit := svg.NewElement("path")
	hit.D = path.D
	hit.Fill = color.None
	hit.Stroke = "transparent"
	hit.ClassName = "hit"
	hit.Attributes = `stroke-width="12"`
	fmt.Fprint(w, hit.Render())

	if e.Label != "" && e.LabelBox != nil {
		rect := svg.NewElement("rect")
		rect.X = e.LabelBox.TopLeft.X
		rect.Y = e.LabelBox.TopLeft.Y
		rect.Width = e.LabelBox.Width
		rect.Height = e.LabelBox.Height
		rect.Rx = 3
		rect.Fill = color.LabelFill
		rect.ClassName = "label"
		fmt.Fprint(w, rect.Render())
		fmt.Fprint(w, renderText(e.Label, e.LabelBox.Center(), color.TextOn(color.LabelFill)))
	}
	fmt.Fprint(w, `</g>`)
}

func drawHandles(w io.Writer, e fctarget.SceneEdge) {
	for _, h := range e.Handles {
		c := svg.NewElement("circle")
		c.Cx = h.Point.X
		c.Cy = h.Point.Y
		c.Attributes = fmt.Sprintf(`r="%d" stroke-width="2"`, HANDLE_RADIUS)
		c.Stroke = color.Handle
		c.Fill = color.Handle
		if h.IsDefault() {
			c.Fill = color.CanvasFill
		}
		c.ClassName = "handle"
		c.Data = map[string]string{
			"kind":  "handle",
			"id":    e.ID,
			"index": fmt.Sprint(h.Index),
		}
		fmt.Fprint(w, c.Render())
	}
}

func drawNode(w io.Writer, n fctarget.SceneNode, s shape.Shape) error {
	fill := color.Or(n.FillColor, color.NodeFill)
	stroke := color.Or(n.StrokeColor, color.NodeStroke)
	if n.Selected || n.Dragging {
		stroke = color.SelectedLine
	} else if n.StrokeColor == "" && fill != color.NodeFill && fill != color.None {
		// A custom fill without a stroke gets a darker edge of the same hue.
		darker, err := color.Darken(fill)
		if err != nil {
			return err
		}
		stroke = darker
	}

	classes := []string{"shape", string(s.GetType())}
	if n.Overridden {
		classes = append(classes, "overridden")
	}
	fmt.Fprintf(w, `<g class="%s" data-kind="node" data-id="%s">`, strings.Join(classes, " "), svg.EscapeText(n.ID))

	body := svg.NewElement("path")
	body.D = s.FillPath()
	body.Fill = fill
	body.Stroke = stroke
	body.Attributes = fmt.Sprintf(`stroke-width="%d"`, NODE_STROKE_WIDTH)
	fmt.Fprint(w, body.Render())

	// The first outline is the fill path, already stroked above.
	for _, d := range s.OutlinePaths()[1:] {
		outline := svg.NewElement("path")
		outline.D = d
		outline.Fill = color.None
		outline.Stroke = stroke
		outline.Attributes = fmt.Sprintf(`stroke-width="%d"`, NODE_STROKE_WIDTH)
		fmt.Fprint(w, outline.Render())
	}

	textColor := color.Or(n.TextColor, color.TextOn(fill))
	labelCenter := n.Box.Center()
	if n.Image != nil {
		drawImage(w, n)
		if n.Label != "" {
			sizer := label.DefaultSizer()
			lw, lh := sizer.Size(n.Label)
			tl := label.OutsideBottomCenter.GetPointOnBox(n.Box, label.PADDING, lw, lh)
			labelCenter = tl.Translate(lw/2, lh/2)
			textColor = color.Or(n.TextColor, color.Text)
		}
	}
	if n.Label != "" {
		if n.LabelFillColor != "" {
			sizer := label.DefaultSizer()
			box := sizer.BoxAt(labelCenter, n.Label)
			rect := svg.NewElement("rect")
			rect.X = box.TopLeft.X
			rect.Y = box.TopLeft.Y
			rect.Width = box.Width
			rect.Height = box.Height
			rect.Fill = color.Or(n.LabelFillColor, color.LabelFill)
			fmt.Fprint(w, rect.Render())
			textColor = color.Or(n.TextColor, color.TextOn(rect.Fill))
		}
		fmt.Fprint(w, renderText(n.Label, labelCenter, textColor))
	}
	fmt.Fprint(w, `</g>`)
	return nil
}

// drawImage fits the image inside the node box less its padding, clipped to
// the shape's inner area.
func drawImage(w io.Writer, n fctarget.SceneNode) {
	img := n.Image
	inner := n.Box.Expand(-img.Padding)
	if inner.Width <= 0 || inner.Height <= 0 {
		inner = n.Box
	}

	if n.ImageFillColor != "" {
		bg := svg.NewElement("rect")
		bg.X = inner.TopLeft.X
		bg.Y = inner.TopLeft.Y
		bg.Width = inner.Width
		bg.Height = inner.Height
		bg.Fill = color.Or(n.ImageFillColor, color.CanvasFill)
		bg.SetClipPathURL(clipPathID(n.ID))
		fmt.Fprint(w, bg.Render())
	}

	el := svg.NewElement("image")
	el.Href = img.DataURL()
	el.X = inner.TopLeft.X
	el.Y = inner.TopLeft.Y
	el.Width = inner.Width
	el.Height = inner.Height
	el.Attributes = `preserveAspectRatio="xMidYMid meet"`
	el.SetClipPathURL(clipPathID(n.ID))
	fmt.Fprint(w, el.Render())
}

func drawGuides(w io.Writer, g fctarget.Guides) {
	for _, guide := range []*fctarget.Guide{g.Vertical, g.Horizontal} {
		if guide == nil {
			continue
		}
		seg := guide.Segment()
		line := svg.NewElement("line")
		line.X1 = seg.Start.X
		line.Y1 = seg.Start.Y
		line.X2 = seg.End.X
		line.Y2 = seg.End.Y
		line.Stroke = color.Guide
		line.ClassName = fmt.Sprintf("guide %s", guide.Kind)
		attrs := fmt.Sprintf(`stroke-width="%d"`, GUIDE_STROKE_WIDTH)
		if guide.Kind == fctarget.GuideCenter {
			dash, gap := svg.StrokeDash(GUIDE_STROKE_WIDTH, dashes)
			attrs += fmt.Sprintf(` stroke-dasharray="%s,%s"`, svg.FormatFloat(dash), svg.FormatFloat(gap))
		}
		line.Attributes = attrs
		fmt.Fprint(w, line.Render())
	}
}

func renderText(text string, center geo.Point, fill string) string {
	el := svg.NewElement("text")
	el.X = center.X
	el.Y = center.Y
	el.Fill = fill
	el.Style = fmt.Sprintf("text-anchor:middle;dominant-baseline:central;font-size:%dpx", FONT_SIZE)
	el.Content = svg.EscapeText(text)
	return el.Render()
}

func hash(s string) string {
	h := fnv.New32a()
	h.Write([]byte(s))
	return fmt.Sprint(h.Sum32())
}
