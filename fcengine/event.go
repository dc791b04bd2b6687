package fcengine

import (
	"fmt"

	"oss.terrastruct.com/flowcanvas/lib/geo"
)

// EventType names an input a host forwards to the engine.
type EventType string

const (
	EventPointerDown   EventType = "pointerdown"
	EventPointerMove   EventType = "pointermove"
	EventPointerUp     EventType = "pointerup"
	EventPointerCancel EventType = "pointercancel"
	EventKeyDown       EventType = "keydown"
	EventDoubleClick   EventType = "dblclick"
	EventSelect        EventType = "select"
	EventRemoveHandle  EventType = "removehandle"
	EventResetNode     EventType = "resetnode"
	EventResetEdge     EventType = "resetedge"
)

// EventTarget is the serialized form of a Target. Kind is one of "node",
// "handle", "subgraph" or "edge"; "edge" is only meaningful for select and
// the edge-scoped events.
type EventTarget struct {
	Kind   string `json:"kind"`
	ID     string `json:"id"`
	EdgeID string `json:"edgeId,omitempty"`
	Index  int    `json:"index,omitempty"`
}

// Event is one input as hosts serialize it, in diagram coordinates.
type Event struct {
	Type      EventType    `json:"type"`
	Target    *EventTarget `json:"target,omitempty"`
	X         float64      `json:"x"`
	Y         float64      `json:"y"`
	PointerID int          `json:"pointerId,omitempty"`
	Key       Key          `json:"key,omitempty"`
	Shift     bool         `json:"shift,omitempty"`
}

func (ev Event) Point() geo.Point {
	return geo.Point{X: ev.X, Y: ev.Y}
}

func (et *EventTarget) target() (Target, error) {
	if et == nil {
		return nil, fmt.Errorf("missing target")
	}
	switch et.Kind {
	case "node":
		return NodeTarget{ID: et.ID}, nil
	case "handle":
		edgeID := et.EdgeID
		if edgeID == "" {
			edgeID = et.ID
		}
		return HandleTarget{EdgeID: edgeID, Index: et.Index}, nil
	case "subgraph":
		return SubgraphTarget{ID: et.ID}, nil
	default:
		return nil, fmt.Errorf("unknown target kind %q", et.Kind)
	}
}

func (et *EventTarget) edgeID() (string, error) {
	if et == nil {
		return "", fmt.Errorf("missing target")
	}
	if et.EdgeID != "" {
		return et.EdgeID, nil
	}
	return et.ID, nil
}

// Dispatch feeds ev to the matching engine method. Malformed events are
// errors; events about ids that no longer exist are not.
func (e *Engine) Dispatch(ev Event) error {
	switch ev.Type {
	case EventPointerDown:
		t, err := ev.Target.target()
		if err != nil {
			return fmt.Errorf("%s: %w", ev.Type, err)
		}
		e.PointerDown(t, ev.Point(), ev.PointerID)
	case EventPointerMove:
		e.PointerMove(ev.Point())
	case EventPointerUp:
		e.PointerUp(ev.Point())
	case EventPointerCancel:
		e.PointerCancel()
	case EventKeyDown:
		e.KeyDown(ev.Key, ev.Shift)
	case EventDoubleClick:
		id, err := ev.Target.edgeID()
		if err != nil {
			return fmt.Errorf("%s: %w", ev.Type, err)
		}
		e.DoubleClickEdge(id, ev.Point())
	case EventSelect:
		switch {
		case ev.Target == nil:
			e.selectNode("")
		case ev.Target.Kind == "node":
			e.selectNode(ev.Target.ID)
		case ev.Target.Kind == "edge":
			e.selectEdge(ev.Target.ID)
		default:
			return fmt.Errorf("%s: cannot select %q", ev.Type, ev.Target.Kind)
		}
	case EventRemoveHandle:
		id, err := ev.Target.edgeID()
		if err != nil {
			return fmt.Errorf("%s: %w", ev.Type, err)
		}
		e.RemoveHandle(id, ev.Target.Index)
	case EventResetNode:
		if ev.Target == nil {
			return fmt.Errorf("%s: missing target", ev.Type)
		}
		e.ResetNode(ev.Target.ID)
	case EventResetEdge:
		id, err := ev.Target.edgeID()
		if err != nil {
			return fmt.Errorf("%s: %w", ev.Type, err)
		}
		e.ResetEdge(id)
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}
