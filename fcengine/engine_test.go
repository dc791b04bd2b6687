package fcengine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/flowcanvas/fctarget"
	"oss.terrastruct.com/flowcanvas/lib/geo"
	"oss.terrastruct.com/flowcanvas/lib/log"
)

type nodeMove struct {
	id  string
	pos *geo.Point
}

type edgeMove struct {
	id     string
	points []geo.Point
}

type recorder struct {
	nodeMoves  []nodeMove
	edgeMoves  []edgeMove
	layouts    []fctarget.LayoutUpdate
	selNodes   []string
	selEdges   []string
	dragStates []bool
	delNodes   []string
	delEdges   []string
}

func (r *recorder) callbacks(batch bool) Callbacks {
	cb := Callbacks{
		OnNodeMove: func(id string, pos *geo.Point) {
			r.nodeMoves = append(r.nodeMoves, nodeMove{id, pos})
		},
		OnEdgeMove: func(id string, points []geo.Point) {
			r.edgeMoves = append(r.edgeMoves, edgeMove{id, points})
		},
		OnSelectNode:      func(id string) { r.selNodes = append(r.selNodes, id) },
		OnSelectEdge:      func(id string) { r.selEdges = append(r.selEdges, id) },
		OnDragStateChange: func(d bool) { r.dragStates = append(r.dragStates, d) },
		OnDeleteNode:      func(id string) { r.delNodes = append(r.delNodes, id) },
		OnDeleteEdge:      func(id string) { r.delEdges = append(r.delEdges, id) },
	}
	if batch {
		cb.OnLayoutUpdate = func(u fctarget.LayoutUpdate) {
			r.layouts = append(r.layouts, u)
		}
	}
	return cb
}

func (r *recorder) committed() int {
	return len(r.nodeMoves) + len(r.edgeMoves) + len(r.layouts)
}

func pt(x, y float64) *geo.Point {
	return &geo.Point{X: x, Y: y}
}

func newTestEngine(t *testing.T, d *fctarget.Diagram, batch bool) (*Engine, *recorder) {
	ctx := log.WithTB(context.Background(), t, nil)
	r := &recorder{}
	e := New(ctx, nil, r.callbacks(batch))
	e.SetDiagram(d)
	return e, r
}

func TestDragBackToAutoClearsOverride(t *testing.T) {
	t.Parallel()

	d := &fctarget.Diagram{Nodes: []fctarget.NodeData{
		{ID: "a", AutoPosition: pt(0.3, 0.2), OverridePosition: pt(200, 200)},
		{ID: "far", AutoPosition: pt(1000, 1000)},
	}}
	e, r := newTestEngine(t, d, false)

	e.PointerDown(NodeTarget{ID: "a"}, geo.Point{X: 200, Y: 200}, 1)
	assert.Equal(t, DraggingNode, e.State())
	e.PointerMove(geo.Point{X: 2, Y: 1})
	e.PointerUp(geo.Point{X: 2, Y: 1})

	require.Len(t, r.nodeMoves, 1)
	assert.Equal(t, "a", r.nodeMoves[0].id)
	assert.Nil(t, r.nodeMoves[0].pos)
	assert.Equal(t, Idle, e.State())
	assert.Equal(t, []bool{true, false}, r.dragStates)
	assert.Equal(t, []string{"a"}, r.selNodes)
	assert.Equal(t, []string{""}, r.selEdges)
}

func TestDragSnapsToGrid(t *testing.T) {
	t.Parallel()

	d := &fctarget.Diagram{Nodes: []fctarget.NodeData{
		{ID: "a", AutoPosition: pt(0, 0)},
		{ID: "far", AutoPosition: pt(-2000, -2000)},
	}}
	e, r := newTestEngine(t, d, false)

	e.PointerDown(NodeTarget{ID: "a"}, geo.Point{X: 0, Y: 0}, 1)
	e.PointerMove(geo.Point{X: 60, Y: 200})
	e.PointerUp(geo.Point{X: 123, Y: 457})

	require.Len(t, r.nodeMoves, 1)
	assert.Equal(t, pt(120, 460), r.nodeMoves[0].pos)
}

func TestDragAlignsEdges(t *testing.T) {
	t.Parallel()

	d := &fctarget.Diagram{Nodes: []fctarget.NodeData{
		{ID: "A", AutoPosition: pt(0, 0)},
		{ID: "B", AutoPosition: pt(8, 0)},
	}}
	e, r := newTestEngine(t, d, false)

	e.PointerDown(NodeTarget{ID: "B"}, geo.Point{X: 8, Y: 0}, 1)
	e.PointerMove(geo.Point{X: 3, Y: 0})

	g := e.Guides()
	require.NotNil(t, g.Vertical)
	assert.Equal(t, fctarget.GuideEdge, g.Vertical.Kind)
	assert.Equal(t, "B", g.Vertical.SourceID)
	assert.Equal(t, "A", g.Vertical.TargetID)
	assert.Equal(t, -70., g.Vertical.Position)

	s := e.Render()
	assert.Equal(t, s.Node("A").Box.Left(), s.Node("B").Box.Left())
	assert.True(t, s.Node("B").Dragging)
	assert.NotNil(t, s.Guides.Vertical)

	e.PointerUp(geo.Point{X: 3, Y: 0})
	require.Len(t, r.nodeMoves, 1)
	assert.Equal(t, pt(0, 0), r.nodeMoves[0].pos)
	assert.True(t, e.Guides().Empty())
}

func TestClickWithoutMoveCommitsNothing(t *testing.T) {
	t.Parallel()

	d := &fctarget.Diagram{Nodes: []fctarget.NodeData{{ID: "a", AutoPosition: pt(13, 17)}}}
	e, r := newTestEngine(t, d, false)

	e.PointerDown(NodeTarget{ID: "a"}, geo.Point{X: 13, Y: 17}, 1)
	e.PointerUp(geo.Point{X: 13, Y: 17})
	assert.Equal(t, 0, r.committed())
	assert.Equal(t, "a", e.SelectedNode())
}

func TestPointerCancel(t *testing.T) {
	t.Parallel()

	d := &fctarget.Diagram{Nodes: []fctarget.NodeData{{ID: "a", AutoPosition: pt(0, 0)}}}
	e, r := newTestEngine(t, d, false)

	e.PointerDown(NodeTarget{ID: "a"}, geo.Point{}, 1)
	e.PointerMove(geo.Point{X: 300, Y: 300})
	assert.Equal(t, geo.Point{X: 300, Y: 300}, e.Render().Node("a").Box.Center())

	e.PointerCancel()
	assert.Equal(t, 0, r.committed())
	assert.Equal(t, Idle, e.State())
	assert.Empty(t, e.draftNodes)
	assert.Equal(t, geo.Point{}, e.Render().Node("a").Box.Center())
	assert.Equal(t, []bool{true, false}, r.dragStates)

	// Moves and ups after the cancel are not part of any drag.
	e.PointerMove(geo.Point{X: 10, Y: 10})
	e.PointerUp(geo.Point{X: 10, Y: 10})
	assert.Equal(t, 0, r.committed())
}

func TestSecondPointerDownIgnored(t *testing.T) {
	t.Parallel()

	d := &fctarget.Diagram{Nodes: []fctarget.NodeData{
		{ID: "a", AutoPosition: pt(0, 0)},
		{ID: "b", AutoPosition: pt(500, 500)},
	}}
	e, r := newTestEngine(t, d, false)

	e.PointerDown(NodeTarget{ID: "a"}, geo.Point{}, 1)
	e.PointerDown(NodeTarget{ID: "b"}, geo.Point{X: 500, Y: 500}, 2)
	e.PointerUp(geo.Point{X: 200, Y: 200})

	require.Len(t, r.nodeMoves, 1)
	assert.Equal(t, "a", r.nodeMoves[0].id)
	assert.Equal(t, []bool{true, false}, r.dragStates)
}

func TestUnresolvedTargetsAreNoops(t *testing.T) {
	t.Parallel()

	d := &fctarget.Diagram{
		Nodes: []fctarget.NodeData{{ID: "a", AutoPosition: pt(0, 0)}},
		Edges: []fctarget.EdgeData{{ID: "dangling", From: "a", To: "gone"}},
	}
	e, r := newTestEngine(t, d, false)

	e.PointerDown(NodeTarget{ID: "missing"}, geo.Point{}, 1)
	assert.Equal(t, Idle, e.State())
	e.PointerDown(HandleTarget{EdgeID: "dangling", Index: -1}, geo.Point{}, 1)
	assert.Equal(t, Idle, e.State())
	e.PointerDown(SubgraphTarget{ID: "missing"}, geo.Point{}, 1)
	assert.Equal(t, Idle, e.State())
	e.DoubleClickEdge("dangling", geo.Point{})
	e.ResetNode("missing")
	e.RemoveHandle("missing", 0)
	assert.Equal(t, 0, r.committed())
	assert.Empty(t, r.dragStates)

	// A node deleted mid drag is skipped.
	e.PointerDown(NodeTarget{ID: "a"}, geo.Point{}, 1)
	e.SetDiagram(&fctarget.Diagram{})
	e.PointerMove(geo.Point{X: 50, Y: 50})
	e.PointerUp(geo.Point{X: 50, Y: 50})
	assert.Equal(t, 0, r.committed())
	assert.Equal(t, Idle, e.State())
}

type capturer struct {
	captured []int
	released []int
	err      error
}

func (c *capturer) SetPointerCapture(id int) error {
	c.captured = append(c.captured, id)
	return c.err
}

func (c *capturer) ReleasePointerCapture(id int) error {
	c.released = append(c.released, id)
	return c.err
}

func TestPointerCapture(t *testing.T) {
	t.Parallel()

	d := &fctarget.Diagram{Nodes: []fctarget.NodeData{{ID: "a", AutoPosition: pt(0, 0)}}}
	e, r := newTestEngine(t, d, false)

	c := &capturer{err: errors.New("capture refused")}
	e.SetPointerCapturer(c)
	e.PointerDown(NodeTarget{ID: "a"}, geo.Point{}, 7)
	assert.Equal(t, DraggingNode, e.State())
	e.PointerUp(geo.Point{X: 40, Y: 0})

	assert.Equal(t, []int{7}, c.captured)
	assert.Equal(t, []int{7}, c.released)
	require.Len(t, r.nodeMoves, 1)
	assert.Equal(t, pt(40, 0), r.nodeMoves[0].pos)
}

func TestSnapshotCatchesUpWithDraft(t *testing.T) {
	t.Parallel()

	d := &fctarget.Diagram{Nodes: []fctarget.NodeData{{ID: "a", AutoPosition: pt(0, 0)}}}
	e, _ := newTestEngine(t, d, false)

	e.PointerDown(NodeTarget{ID: "a"}, geo.Point{}, 1)
	e.PointerMove(geo.Point{X: 123, Y: 457})
	assert.Contains(t, e.draftNodes, "a")

	e.SetDiagram(d.ApplyNodeMove("a", pt(120, 460)))
	assert.NotContains(t, e.draftNodes, "a")
	assert.Equal(t, geo.Point{X: 120, Y: 460}, e.Render().Node("a").Box.Center())
}

func edgeDiagram() *fctarget.Diagram {
	return &fctarget.Diagram{
		Nodes: []fctarget.NodeData{
			{ID: "a", AutoPosition: pt(0, 0)},
			{ID: "b", AutoPosition: pt(400, 0)},
		},
		Edges: []fctarget.EdgeData{{ID: "a->b", From: "a", To: "b", Label: "go"}},
	}
}

func TestHandleDrag(t *testing.T) {
	t.Parallel()

	d := edgeDiagram()
	e, r := newTestEngine(t, d, false)

	// Without an override the default handle becomes the only point.
	e.PointerDown(HandleTarget{EdgeID: "a->b", Index: -1}, geo.Point{X: 200, Y: 0}, 1)
	assert.Equal(t, DraggingEdgeHandle, e.State())
	e.PointerMove(geo.Point{X: 203, Y: 148})

	s := e.Render()
	se := s.Edge("a->b")
	require.NotNil(t, se)
	assert.Equal(t, geo.Route{{X: 0, Y: 0}, {X: 200, Y: 150}, {X: 400, Y: 0}}, se.Route)
	assert.Equal(t, []fctarget.Handle{{Index: 0, Point: geo.Point{X: 200, Y: 150}}}, se.Handles)
	require.NotNil(t, se.LabelBox)
	assert.Equal(t, geo.Point{X: 200, Y: 150}, se.LabelBox.Center())

	e.PointerUp(geo.Point{X: 203, Y: 148})
	require.Len(t, r.edgeMoves, 1)
	assert.Equal(t, []geo.Point{{X: 200, Y: 150}}, r.edgeMoves[0].points)
	assert.Equal(t, []string{"a->b"}, r.selEdges)

	// Dragging the point onto an endpoint drops it and clears the override.
	e.SetDiagram(d.ApplyEdgeMove("a->b", r.edgeMoves[0].points))
	e.PointerDown(HandleTarget{EdgeID: "a->b", Index: 0}, geo.Point{X: 200, Y: 150}, 1)
	e.PointerMove(geo.Point{X: 3, Y: 2})
	assert.Equal(t, geo.Route{{X: 0, Y: 0}, {X: 400, Y: 0}}, e.Render().Edge("a->b").Route)
	e.PointerUp(geo.Point{X: 3, Y: 2})

	require.Len(t, r.edgeMoves, 2)
	assert.Nil(t, r.edgeMoves[1].points)
}

func TestHandleDragBackToAutoRoute(t *testing.T) {
	t.Parallel()

	d := edgeDiagram()
	d.Edges[0].AutoPoints = []geo.Point{{X: 0, Y: 0}, {X: 200, Y: 100}, {X: 400, Y: 0}}
	d.Edges[0].OverridePoints = []geo.Point{{X: 200, Y: 300}}
	e, r := newTestEngine(t, d, false)

	e.PointerDown(HandleTarget{EdgeID: "a->b", Index: 0}, geo.Point{X: 200, Y: 300}, 1)
	e.PointerUp(geo.Point{X: 200.2, Y: 99.7})
	require.Len(t, r.edgeMoves, 1)
	assert.Nil(t, r.edgeMoves[0].points)
}

func TestHandleIndexOutOfRange(t *testing.T) {
	t.Parallel()

	d := edgeDiagram()
	d.Edges[0].OverridePoints = []geo.Point{{X: 200, Y: 300}}
	e, _ := newTestEngine(t, d, false)

	e.PointerDown(HandleTarget{EdgeID: "a->b", Index: 3}, geo.Point{}, 1)
	assert.Equal(t, Idle, e.State())
}

func TestHandleSnapsToOtherEdges(t *testing.T) {
	t.Parallel()

	d := edgeDiagram()
	d.Edges[0].OverridePoints = []geo.Point{{X: 100, Y: 200}, {X: 300, Y: 203}}
	e, r := newTestEngine(t, d, false)

	// The edge's own second point is within reach but is not a candidate.
	e.PointerDown(HandleTarget{EdgeID: "a->b", Index: 0}, geo.Point{X: 100, Y: 200}, 1)
	e.PointerMove(geo.Point{X: 150, Y: 201})
	assert.True(t, e.Guides().Empty())
	e.PointerUp(geo.Point{X: 150, Y: 201})
	require.Len(t, r.edgeMoves, 1)
	assert.Equal(t, []geo.Point{{X: 150, Y: 200}, {X: 300, Y: 203}}, r.edgeMoves[0].points)

	d = d.Copy()
	d.Edges = append(d.Edges, fctarget.EdgeData{ID: "b->a", From: "b", To: "a", OverridePoints: []geo.Point{{X: 600, Y: 203}}})
	e.SetDiagram(d)
	e.PointerDown(HandleTarget{EdgeID: "a->b", Index: 0}, geo.Point{X: 100, Y: 200}, 1)
	e.PointerMove(geo.Point{X: 150, Y: 201})
	require.NotNil(t, e.Guides().Horizontal)
	e.PointerUp(geo.Point{X: 150, Y: 201})
	require.Len(t, r.edgeMoves, 2)
	assert.Equal(t, []geo.Point{{X: 150, Y: 203}, {X: 300, Y: 203}}, r.edgeMoves[1].points)
}

func subgraphDiagram() *fctarget.Diagram {
	return &fctarget.Diagram{
		Nodes: []fctarget.NodeData{
			{ID: "n", AutoPosition: pt(100, 50), Width: 60, Height: 40, Membership: []string{"g1"}},
			{ID: "m", AutoPosition: pt(800, 50), Width: 60, Height: 40, Membership: []string{"g2"}},
			{ID: "k", AutoPosition: pt(100, 50), Width: 20, Height: 20, Membership: []string{"inner"}},
		},
		Edges: []fctarget.EdgeData{
			{ID: "n->m", From: "n", To: "m", OverridePoints: []geo.Point{{X: 400, Y: 200}}},
			{ID: "m->m", From: "m", To: "m", OverridePoints: []geo.Point{{X: 900, Y: 200}}},
		},
		Subgraphs: []fctarget.SubgraphData{
			{ID: "g1", X: 0, Y: 0, Width: 200, Height: 100, LabelX: 100, LabelY: 10},
			{ID: "inner", ParentID: "g1", Depth: 1, X: 80, Y: 30, Width: 40, Height: 40},
			{ID: "g2", X: 700, Y: 0, Width: 200, Height: 100, Order: 1},
		},
	}
}

func TestSubgraphDrag(t *testing.T) {
	t.Parallel()

	e, r := newTestEngine(t, subgraphDiagram(), true)

	e.PointerDown(SubgraphTarget{ID: "g1"}, geo.Point{X: 50, Y: 50}, 1)
	assert.Equal(t, DraggingSubgraph, e.State())
	e.PointerMove(geo.Point{X: 450, Y: 60})

	s := e.Render()
	assert.Equal(t, geo.Point{X: 359.5, Y: 10}, s.Subgraph("g1").Box.TopLeft)
	assert.Equal(t, geo.Point{X: 439.5, Y: 40}, s.Subgraph("inner").Box.TopLeft)
	assert.Equal(t, geo.Point{X: 700, Y: 0}, s.Subgraph("g2").Box.TopLeft)
	assert.True(t, s.Guides.Empty())

	e.PointerUp(geo.Point{X: 450, Y: 60})
	require.Len(t, r.layouts, 1)
	u := r.layouts[0]
	assert.Equal(t, map[string]*geo.Point{
		"n": pt(459.5, 60),
		"k": pt(459.5, 60),
	}, u.Nodes)
	assert.Equal(t, map[string]fctarget.EdgeUpdate{
		"n->m": {Points: []geo.Point{{X: 759.5, Y: 210}}},
	}, u.Edges)
	assert.Equal(t, map[string]geo.Point{
		"g1":    {X: 359.5, Y: 10},
		"inner": {X: 359.5, Y: 10},
	}, u.Subgraphs)
	assert.Empty(t, r.nodeMoves)

	// The resolved rectangles keep the margin.
	next := fctarget.NewIndex(subgraphDiagram().Apply(u))
	assert.False(t, next.Subgraph("g1").Box().Overlaps(next.Subgraph("g2").Box().Expand(140)))
}

func TestSubgraphDragFansOut(t *testing.T) {
	t.Parallel()

	e, r := newTestEngine(t, subgraphDiagram(), false)

	e.PointerDown(SubgraphTarget{ID: "g1"}, geo.Point{X: 50, Y: 50}, 1)
	e.PointerUp(geo.Point{X: 50, Y: 250})

	assert.Empty(t, r.layouts)
	assert.Equal(t, []nodeMove{
		{"k", pt(100, 250)},
		{"n", pt(100, 250)},
	}, r.nodeMoves)
	assert.Equal(t, []edgeMove{
		{"n->m", []geo.Point{{X: 400, Y: 400}}},
	}, r.edgeMoves)
}

func TestDoubleClickInsertsOnce(t *testing.T) {
	t.Parallel()

	d := &fctarget.Diagram{
		Nodes: []fctarget.NodeData{
			{ID: "a", AutoPosition: pt(0, 0)},
			{ID: "b", AutoPosition: pt(200, 100)},
		},
		Edges: []fctarget.EdgeData{
			{ID: "e", From: "a", To: "b", OverridePoints: []geo.Point{{X: 100, Y: 0}, {X: 100, Y: 100}}},
		},
	}
	e, r := newTestEngine(t, d, false)

	e.DoubleClickEdge("e", geo.Point{X: 100, Y: 50})
	require.Len(t, r.edgeMoves, 1)
	assert.Equal(t, []geo.Point{{X: 100, Y: 0}, {X: 100, Y: 50}, {X: 100, Y: 100}}, r.edgeMoves[0].points)

	e.SetDiagram(d.ApplyEdgeMove("e", r.edgeMoves[0].points))
	e.DoubleClickEdge("e", geo.Point{X: 100, Y: 50.2})
	assert.Len(t, r.edgeMoves, 1)
}

func TestRemoveHandleAndReset(t *testing.T) {
	t.Parallel()

	d := &fctarget.Diagram{
		Nodes: []fctarget.NodeData{
			{ID: "a", AutoPosition: pt(0, 0), OverridePosition: pt(5, 5)},
			{ID: "b", AutoPosition: pt(200, 100)},
		},
		Edges: []fctarget.EdgeData{
			{ID: "e", From: "a", To: "b", OverridePoints: []geo.Point{{X: 100, Y: 0}, {X: 100, Y: 100}}},
			{ID: "single", From: "a", To: "b", OverridePoints: []geo.Point{{X: 50, Y: 50}}},
		},
	}
	e, r := newTestEngine(t, d, false)

	e.RemoveHandle("e", 0)
	e.RemoveHandle("single", 0)
	e.RemoveHandle("e", 9)
	e.ResetEdge("e")
	e.ResetNode("a")
	e.ResetNode("b")

	assert.Equal(t, []edgeMove{
		{"e", []geo.Point{{X: 100, Y: 100}}},
		{"single", nil},
		{"e", nil},
	}, r.edgeMoves)
	assert.Equal(t, []nodeMove{{"a", nil}}, r.nodeMoves)
}

func TestKeyboard(t *testing.T) {
	t.Parallel()

	d := &fctarget.Diagram{
		Nodes: []fctarget.NodeData{{ID: "a", AutoPosition: pt(0, 0)}},
		Edges: []fctarget.EdgeData{{ID: "e", From: "a", To: "a"}},
	}
	e, r := newTestEngine(t, d, false)

	e.KeyDown(KeyArrowRight, false)
	assert.Empty(t, r.nodeMoves)

	e.SetSelectedNode("a")
	e.KeyDown(KeyArrowRight, false)
	e.KeyDown(KeyArrowDown, true)
	e.KeyDown(KeyArrowLeft, false)
	e.KeyDown(KeyArrowUp, true)
	assert.Equal(t, []nodeMove{
		{"a", pt(1, 0)},
		{"a", pt(0, 10)},
		{"a", pt(-1, 0)},
		{"a", pt(0, -10)},
	}, r.nodeMoves)

	e.KeyDown(KeyDelete, false)
	assert.Equal(t, []string{"a"}, r.delNodes)

	e.SetSelectedEdge("e")
	assert.Equal(t, "", e.SelectedNode())
	e.KeyDown(KeyBackspace, false)
	assert.Equal(t, []string{"e"}, r.delEdges)

	e.KeyDown(KeyEscape, false)
	assert.Equal(t, "", e.SelectedEdge())
	assert.Equal(t, []string{""}, r.selNodes)
	assert.Equal(t, []string{""}, r.selEdges)

	// Keys are ignored mid drag.
	e.SetSelectedNode("a")
	e.PointerDown(NodeTarget{ID: "a"}, geo.Point{}, 1)
	e.KeyDown(KeyArrowRight, false)
	e.PointerCancel()
	assert.Len(t, r.nodeMoves, 4)
}

func TestRenderScene(t *testing.T) {
	t.Parallel()

	d := subgraphDiagram()
	d.Edges = append(d.Edges, fctarget.EdgeData{ID: "n->gone", From: "n", To: "gone"})
	d.Nodes = append(d.Nodes, fctarget.NodeData{ID: "unplaced"})
	e, _ := newTestEngine(t, d, false)

	s := e.Render()
	assert.Len(t, s.Nodes, 3)
	assert.Nil(t, s.Node("unplaced"))
	assert.Nil(t, s.Edge("n->gone"))
	assert.Len(t, s.Edges, 2)

	var order []string
	for _, sg := range s.Subgraphs {
		order = append(order, sg.ID)
	}
	assert.Equal(t, []string{"g1", "g2", "inner"}, order)

	assert.Empty(t, s.Edge("n->m").Handles)
	e.SetSelectedEdge("n->m")
	assert.Equal(t, []fctarget.Handle{{Index: 0, Point: geo.Point{X: 400, Y: 200}}}, e.Render().Edge("n->m").Handles)

	b, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, b.Expand(80), s.ViewBox)
}

func TestViewportEasesAfterChange(t *testing.T) {
	t.Parallel()

	d := &fctarget.Diagram{Nodes: []fctarget.NodeData{{ID: "a", AutoPosition: pt(0, 0)}}}
	e, _ := newTestEngine(t, d, false)

	v, more := e.Tick()
	assert.False(t, more)
	assert.Equal(t, 300., v.Width)

	e.SetDiagram(d.ApplyNodeMove("a", pt(1000, 0)))
	v, more = e.Tick()
	assert.True(t, more)
	assert.Greater(t, v.OffsetX, -150.)
	assert.Less(t, v.OffsetX, 850.)

	for i := 0; i < 200 && more; i++ {
		v, more = e.Tick()
	}
	assert.False(t, more)
	assert.Equal(t, 850., v.OffsetX)
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	e, r := newTestEngine(t, edgeDiagram(), false)

	events := []Event{
		{Type: EventSelect, Target: &EventTarget{Kind: "node", ID: "a"}},
		{Type: EventPointerDown, Target: &EventTarget{Kind: "node", ID: "b"}, X: 400, Y: 0, PointerID: 1},
		{Type: EventPointerMove, X: 420, Y: 77},
		{Type: EventPointerUp, X: 420, Y: 77},
		{Type: EventDoubleClick, Target: &EventTarget{Kind: "edge", ID: "a->b"}, X: 100, Y: 5},
	}
	for _, ev := range events {
		require.NoError(t, e.Dispatch(ev))
	}
	require.Len(t, r.nodeMoves, 1)
	assert.Equal(t, pt(420, 80), r.nodeMoves[0].pos)
	require.Len(t, r.edgeMoves, 1)
	assert.Equal(t, []geo.Point{{X: 100, Y: 5}}, r.edgeMoves[0].points)

	assert.Error(t, e.Dispatch(Event{Type: "wiggle"}))
	assert.Error(t, e.Dispatch(Event{Type: EventPointerDown}))
	assert.Error(t, e.Dispatch(Event{Type: EventPointerDown, Target: &EventTarget{Kind: "blob"}}))
}

func TestOptions(t *testing.T) {
	t.Parallel()

	o := (&Options{GridSize: 25}).withDefaults()
	assert.Equal(t, 25., o.GridSize)
	assert.Equal(t, 8., o.SnapThreshold)
	assert.Equal(t, 6, o.SeparationIterations)

	path := filepath.Join(t.TempDir(), "flowcanvas.toml")
	require.NoError(t, os.WriteFile(path, []byte("snap_threshold = 4\nsubgraph_margin = 60.5\n"), 0644))
	loaded, err := LoadOptionsFile(path, &Options{GridSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 4., loaded.SnapThreshold)
	assert.Equal(t, 60.5, loaded.SubgraphMargin)
	assert.Equal(t, 20., loaded.GridSize)

	require.NoError(t, os.WriteFile(path, []byte("snap = 4\n"), 0644))
	_, err = LoadOptionsFile(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys: snap")
}
