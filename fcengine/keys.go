package fcengine

import (
	"cdr.dev/slog"

	"oss.terrastruct.com/flowcanvas/lib/log"
)

type Key string

const (
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
	KeyDelete     Key = "Delete"
	KeyBackspace  Key = "Backspace"
	KeyEscape     Key = "Escape"
)

// KeyDown handles keyboard input while idle. Arrows nudge the selected node
// by one unit, or by the grid size with shift, as a committed update.
// Delete and Backspace ask the caller to delete the selection. Escape clears
// it.
func (e *Engine) KeyDown(k Key, shift bool) {
	if e.drag != nil {
		log.Debug(e.ctx, "ignoring key during drag", slog.F("key", k))
		return
	}

	step := 1.
	if shift {
		step = e.opts.GridSize
	}
	switch k {
	case KeyArrowLeft:
		e.nudge(-step, 0)
	case KeyArrowRight:
		e.nudge(step, 0)
	case KeyArrowUp:
		e.nudge(0, -step)
	case KeyArrowDown:
		e.nudge(0, step)
	case KeyDelete, KeyBackspace:
		switch {
		case e.selectedNode != "" && e.idx.Node(e.selectedNode) != nil:
			if e.cb.OnDeleteNode != nil {
				e.cb.OnDeleteNode(e.selectedNode)
			}
		case e.selectedEdge != "" && e.idx.Edge(e.selectedEdge) != nil:
			if e.cb.OnDeleteEdge != nil {
				e.cb.OnDeleteEdge(e.selectedEdge)
			}
		}
	case KeyEscape:
		if e.selectedNode != "" || e.selectedEdge != "" {
			e.selectNode("")
		}
	}
}

func (e *Engine) nudge(dx, dy float64) {
	if e.selectedNode == "" {
		return
	}
	n := e.idx.Node(e.selectedNode)
	pos := e.nodePosition(e.selectedNode)
	if n == nil || pos == nil {
		return
	}
	e.emitNodeMove(n.ID, e.resolveNode(n, pos.Translate(dx, dy)))
}
