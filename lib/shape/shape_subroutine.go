package shape

import (
	"math"

	"oss.terrastruct.com/flowcanvas/lib/geo"
	"oss.terrastruct.com/flowcanvas/lib/svg"
)

const subroutineInset = 8.

type shapeSubroutine struct {
	baseShape
}

func NewSubroutine(box geo.Box) Shape {
	return shapeSubroutine{
		baseShape: baseShape{
			Type: SUBROUTINE_TYPE,
			Box:  box,
			path: boxPath,
		},
	}
}

func (s shapeSubroutine) inset() float64 {
	return math.Min(subroutineInset, s.Box.Width/4)
}

func (s shapeSubroutine) ClipPath() string {
	in := s.inset()
	inner := geo.Box{
		TopLeft: s.Box.TopLeft.Translate(in, 0),
		Width:   s.Box.Width - 2*in,
		Height:  s.Box.Height,
	}
	return boxPath(inner).PathData()
}

func (s shapeSubroutine) OutlinePaths() []string {
	in := s.inset()
	bars := svg.NewSVGPathContext(s.Box.TopLeft, 1, 1)
	bars.StartAt(bars.Absolute(in, 0))
	bars.V(true, s.Box.Height)
	leftBar := bars.PathData()

	bars = svg.NewSVGPathContext(s.Box.TopLeft, 1, 1)
	bars.StartAt(bars.Absolute(s.Box.Width-in, 0))
	bars.V(true, s.Box.Height)

	return []string{s.FillPath(), leftBar, bars.PathData()}
}
