package geo

import (
	"fmt"
	"math"
)

// Box is an axis-aligned rectangle anchored at its top-left corner.
type Box struct {
	TopLeft Point
	Width   float64
	Height  float64
}

// BoxAround builds the box of the given size centered on c.
func BoxAround(c Point, width, height float64) Box {
	return Box{
		TopLeft: Point{X: c.X - width/2, Y: c.Y - height/2},
		Width:   width,
		Height:  height,
	}
}

func (b Box) Center() Point {
	return Point{X: b.TopLeft.X + b.Width/2, Y: b.TopLeft.Y + b.Height/2}
}

func (b Box) Left() float64   { return b.TopLeft.X }
func (b Box) Right() float64  { return b.TopLeft.X + b.Width }
func (b Box) Top() float64    { return b.TopLeft.Y }
func (b Box) Bottom() float64 { return b.TopLeft.Y + b.Height }

func (b Box) Translate(dx, dy float64) Box {
	b.TopLeft = b.TopLeft.Translate(dx, dy)
	return b
}

// Expand grows the box by margin on every side.
func (b Box) Expand(margin float64) Box {
	return Box{
		TopLeft: Point{X: b.TopLeft.X - margin, Y: b.TopLeft.Y - margin},
		Width:   b.Width + 2*margin,
		Height:  b.Height + 2*margin,
	}
}

// Overlaps reports a strictly positive-area intersection. Touching edges do
// not overlap.
func (b Box) Overlaps(o Box) bool {
	return b.Left() < o.Right() && b.Right() > o.Left() &&
		b.Top() < o.Bottom() && b.Bottom() > o.Top()
}

// Corners returns the box outline clockwise from the top-left corner.
func (b Box) Corners() Points {
	tl := b.TopLeft
	return Points{
		tl,
		{X: tl.X + b.Width, Y: tl.Y},
		{X: tl.X + b.Width, Y: tl.Y + b.Height},
		{X: tl.X, Y: tl.Y + b.Height},
	}
}

// Bounds accumulates the smallest box around everything added to it.
type Bounds struct {
	minX, minY, maxX, maxY float64
	empty                  bool
}

func NewBounds() *Bounds {
	return &Bounds{
		minX:  math.Inf(1),
		minY:  math.Inf(1),
		maxX:  math.Inf(-1),
		maxY:  math.Inf(-1),
		empty: true,
	}
}

func (bb *Bounds) AddPoint(p Point) {
	bb.minX = math.Min(bb.minX, p.X)
	bb.minY = math.Min(bb.minY, p.Y)
	bb.maxX = math.Max(bb.maxX, p.X)
	bb.maxY = math.Max(bb.maxY, p.Y)
	bb.empty = false
}

func (bb *Bounds) AddBox(b Box) {
	bb.AddPoint(b.TopLeft)
	bb.AddPoint(Point{X: b.Right(), Y: b.Bottom()})
}

func (bb *Bounds) Empty() bool {
	return bb.empty
}

// Box returns the accumulated rectangle. Calling it on empty bounds returns
// the zero box.
func (bb *Bounds) Box() Box {
	if bb.empty {
		return Box{}
	}
	return Box{
		TopLeft: Point{X: bb.minX, Y: bb.minY},
		Width:   bb.maxX - bb.minX,
		Height:  bb.maxY - bb.minY,
	}
}

func (b Box) ToString() string {
	return fmt.Sprintf("{TopLeft: %s, Width: %.0f, Height: %.0f}", b.TopLeft.ToString(), b.Width, b.Height)
}
