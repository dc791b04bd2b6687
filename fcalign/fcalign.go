// Package fcalign snaps a dragged element against every other positioned
// element and produces the guides to draw while it is held.
package fcalign

import (
	"fmt"
	"math"
	"sort"

	"oss.terrastruct.com/flowcanvas/fctarget"
	"oss.terrastruct.com/flowcanvas/lib/geo"
	"oss.terrastruct.com/flowcanvas/lib/go2"
)

const (
	DEFAULT_THRESHOLD = 8.
	DEFAULT_GRID_SIZE = 10.
)

// Element is a positioned participant. Edge handles are 0x0 so only their
// point takes part.
type Element struct {
	ID     string
	Center geo.Point
	Width  float64
	Height float64
}

func (e Element) Box() geo.Box {
	return geo.BoxAround(e.Center, e.Width, e.Height)
}

// HandleID names the pseudo element of control point index of an edge.
func HandleID(edgeID string, index int) string {
	return fmt.Sprintf("%s[%d]", edgeID, index)
}

type Options struct {
	Threshold float64
	GridSize  float64
}

type Result struct {
	Position geo.Point
	Guides   fctarget.Guides
	AppliedX bool
	AppliedY bool
}

type feature int

const (
	low feature = iota
	high
	mid
)

// pairs are tried in this order and the first of equally close matches wins.
var pairs = [5]struct {
	moving, other feature
	kind          fctarget.GuideKind
}{
	{low, low, fctarget.GuideEdge},
	{low, high, fctarget.GuideEdge},
	{high, low, fctarget.GuideEdge},
	{high, high, fctarget.GuideEdge},
	{mid, mid, fctarget.GuideCenter},
}

type axis int

const (
	axisX axis = iota
	axisY
)

func (f feature) on(b geo.Box, a axis) float64 {
	lo, size := b.Left(), b.Width
	if a == axisY {
		lo, size = b.Top(), b.Height
	}
	switch f {
	case low:
		return lo
	case high:
		return lo + size
	default:
		return lo + size/2
	}
}

type match struct {
	diff  float64
	other Element
	pair  int
}

// ComputeNodeAlignment returns where the element movingID of the given size
// lands when proposed as its center. Each axis snaps to the closest of five
// candidate alignments against every other element within the threshold,
// and to the grid when there is none. Elements are visited in id order.
func ComputeNodeAlignment(movingID string, proposed geo.Point, width, height float64, elements []Element, opts Options) Result {
	others := make([]Element, 0, len(elements))
	for _, el := range elements {
		if el.ID != movingID {
			others = append(others, el)
		}
	}
	sort.SliceStable(others, func(i, j int) bool {
		return others[i].ID < others[j].ID
	})

	moving := geo.BoxAround(proposed, width, height)
	mx := closest(moving, others, axisX, opts.Threshold)
	my := closest(moving, others, axisY, opts.Threshold)

	res := Result{Position: proposed}
	if mx != nil {
		res.Position.X += mx.diff
		res.AppliedX = true
	} else {
		res.Position.X = geo.SnapToGrid(proposed.X, opts.GridSize)
	}
	if my != nil {
		res.Position.Y += my.diff
		res.AppliedY = true
	} else {
		res.Position.Y = geo.SnapToGrid(proposed.Y, opts.GridSize)
	}

	final := geo.BoxAround(res.Position, width, height)
	if mx != nil {
		res.Guides.Vertical = guide(movingID, final, *mx, axisX)
	}
	if my != nil {
		res.Guides.Horizontal = guide(movingID, final, *my, axisY)
	}
	return res
}

func closest(moving geo.Box, others []Element, a axis, threshold float64) *match {
	var best *match
	bestAbs := math.Inf(1)
	for _, other := range others {
		ob := other.Box()
		for i, p := range pairs {
			diff := p.other.on(ob, a) - p.moving.on(moving, a)
			abs := math.Abs(diff)
			if abs > threshold || abs >= bestAbs {
				continue
			}
			bestAbs = abs
			best = &match{diff: diff, other: other, pair: i}
		}
	}
	return best
}

// guide spans both participants along the other axis, measured on the
// snapped box.
func guide(movingID string, final geo.Box, m match, a axis) *fctarget.Guide {
	ob := m.other.Box()
	g := &fctarget.Guide{
		Position: pairs[m.pair].other.on(ob, a),
		Kind:     pairs[m.pair].kind,
		SourceID: movingID,
		TargetID: m.other.ID,
	}
	if a == axisX {
		g.Axis = fctarget.GuideVertical
		g.Start = go2.Min(final.Top(), ob.Top())
		g.End = go2.Max(final.Bottom(), ob.Bottom())
	} else {
		g.Axis = fctarget.GuideHorizontal
		g.Start = go2.Min(final.Left(), ob.Left())
		g.End = go2.Max(final.Right(), ob.Right())
	}
	return g
}
