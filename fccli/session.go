package fccli

import (
	"context"

	"oss.terrastruct.com/flowcanvas/fcengine"
	"oss.terrastruct.com/flowcanvas/fctarget"
	"oss.terrastruct.com/flowcanvas/lib/geo"
)

// change is one committed update as the engine reported it.
type change struct {
	Update     *fctarget.LayoutUpdate `json:"update,omitempty"`
	DeleteNode string                 `json:"deleteNode,omitempty"`
	DeleteEdge string                 `json:"deleteEdge,omitempty"`
}

// session plays the persisting caller around an engine. Changes committed
// while an event is dispatched are applied to its diagram afterwards and the
// result is handed back to the engine as the next snapshot.
type session struct {
	engine  *fcengine.Engine
	diagram *fctarget.Diagram
	pending []change
}

func newSession(ctx context.Context, opts *fcengine.Options, d *fctarget.Diagram) *session {
	s := &session{}
	s.engine = fcengine.New(ctx, opts, fcengine.Callbacks{
		OnNodeMove: func(id string, p *geo.Point) {
			s.queue(change{Update: &fctarget.LayoutUpdate{
				Nodes: map[string]*geo.Point{id: p},
			}})
		},
		OnEdgeMove: func(id string, points []geo.Point) {
			s.queue(change{Update: &fctarget.LayoutUpdate{
				Edges: map[string]fctarget.EdgeUpdate{id: {Points: points}},
			}})
		},
		OnLayoutUpdate: func(u fctarget.LayoutUpdate) {
			s.queue(change{Update: &u})
		},
		OnDeleteNode: func(id string) {
			s.queue(change{DeleteNode: id})
		},
		OnDeleteEdge: func(id string) {
			s.queue(change{DeleteEdge: id})
		},
	})
	s.reload(d)
	return s
}

func (s *session) queue(c change) {
	s.pending = append(s.pending, c)
}

// reload replaces the diagram, as after an external edit.
func (s *session) reload(d *fctarget.Diagram) {
	s.diagram = d
	s.engine.SetDiagram(d)
}

// dispatch feeds ev to the engine and applies what it committed.
func (s *session) dispatch(ev fcengine.Event) ([]change, error) {
	err := s.engine.Dispatch(ev)
	if err != nil {
		return nil, err
	}
	return s.flush(), nil
}

func (s *session) flush() []change {
	changes := s.pending
	s.pending = nil
	if len(changes) == 0 {
		return nil
	}

	d := s.diagram
	for _, c := range changes {
		switch {
		case c.Update != nil:
			d = d.Apply(*c.Update)
		case c.DeleteNode != "":
			d = d.RemoveNode(c.DeleteNode)
		case c.DeleteEdge != "":
			d = d.RemoveEdge(c.DeleteEdge)
		}
	}
	s.reload(d)
	return changes
}
