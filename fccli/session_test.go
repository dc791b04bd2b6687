package fccli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/flowcanvas/fcengine"
	"oss.terrastruct.com/flowcanvas/fctarget"
	"oss.terrastruct.com/flowcanvas/lib/geo"
	"oss.terrastruct.com/flowcanvas/lib/log"
)

func pt(x, y float64) *geo.Point {
	return &geo.Point{X: x, Y: y}
}

func edgeDiagram() *fctarget.Diagram {
	return &fctarget.Diagram{
		Nodes: []fctarget.NodeData{
			{ID: "a", AutoPosition: pt(0, 0)},
			{ID: "b", AutoPosition: pt(400, 0)},
		},
		Edges: []fctarget.EdgeData{{ID: "a->b", From: "a", To: "b"}},
	}
}

func newTestSession(t *testing.T, d *fctarget.Diagram) *session {
	return newSession(log.WithTB(context.Background(), t, nil), nil, d)
}

func TestSessionHandleDrag(t *testing.T) {
	t.Parallel()

	d := edgeDiagram()
	s := newTestSession(t, d)

	events := []fcengine.Event{
		{Type: fcengine.EventPointerDown, Target: &fcengine.EventTarget{Kind: "handle", EdgeID: "a->b", Index: -1}, X: 200, Y: 0, PointerID: 1},
		{Type: fcengine.EventPointerMove, X: 203, Y: 148},
		{Type: fcengine.EventPointerUp, X: 203, Y: 148},
	}
	var changes []change
	for _, ev := range events {
		cs, err := s.dispatch(ev)
		require.NoError(t, err)
		changes = append(changes, cs...)
	}

	require.Len(t, changes, 1)
	require.NotNil(t, changes[0].Update)
	assert.Equal(t, []geo.Point{{X: 200, Y: 150}}, changes[0].Update.Edges["a->b"].Points)
	assert.Equal(t, []geo.Point{{X: 200, Y: 150}}, s.diagram.Edges[0].OverridePoints)
	assert.Same(t, s.diagram, s.engine.Diagram())
	// The caller's snapshot is never modified.
	assert.Nil(t, d.Edges[0].OverridePoints)
}

func TestSessionDelete(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, edgeDiagram())

	_, err := s.dispatch(fcengine.Event{Type: fcengine.EventSelect, Target: &fcengine.EventTarget{Kind: "node", ID: "a"}})
	require.NoError(t, err)
	changes, err := s.dispatch(fcengine.Event{Type: fcengine.EventKeyDown, Key: fcengine.KeyDelete})
	require.NoError(t, err)

	assert.Equal(t, []change{{DeleteNode: "a"}}, changes)
	require.Len(t, s.diagram.Nodes, 1)
	assert.Equal(t, "b", s.diagram.Nodes[0].ID)
	assert.Empty(t, s.diagram.Edges)

	// The deleted node is gone for the engine too.
	changes, err = s.dispatch(fcengine.Event{Type: fcengine.EventResetNode, Target: &fcengine.EventTarget{Kind: "node", ID: "a"}})
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestSessionSubgraphDrag(t *testing.T) {
	t.Parallel()

	d := &fctarget.Diagram{
		Nodes: []fctarget.NodeData{
			{ID: "n", AutoPosition: pt(100, 50), Membership: []string{"g"}},
		},
		Subgraphs: []fctarget.SubgraphData{
			{ID: "g", X: 0, Y: 0, Width: 200, Height: 100, LabelX: 100, LabelY: 10},
		},
	}
	s := newTestSession(t, d)

	for _, ev := range []fcengine.Event{
		{Type: fcengine.EventPointerDown, Target: &fcengine.EventTarget{Kind: "subgraph", ID: "g"}, X: 10, Y: 10, PointerID: 1},
		{Type: fcengine.EventPointerMove, X: 507, Y: 312},
		{Type: fcengine.EventPointerUp, X: 507, Y: 312},
	} {
		_, err := s.dispatch(ev)
		require.NoError(t, err)
	}

	sg := s.diagram.Subgraphs[0]
	n := s.diagram.Nodes[0]
	require.NotNil(t, n.OverridePosition)
	// Members keep their offset inside the subgraph.
	assert.Equal(t, 100., n.OverridePosition.X-sg.X)
	assert.Equal(t, 50., n.OverridePosition.Y-sg.Y)
	assert.Equal(t, 100., sg.LabelX-sg.X)
	assert.NotEqual(t, 0., sg.X)
}

func TestSessionBadEvent(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, edgeDiagram())
	_, err := s.dispatch(fcengine.Event{Type: fcengine.EventPointerDown})
	assert.Error(t, err)
	_, err = s.dispatch(fcengine.Event{Type: fcengine.EventSelect, Target: &fcengine.EventTarget{Kind: "handle", ID: "a->b"}})
	assert.Error(t, err)
}
