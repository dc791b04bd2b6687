package shape

import (
	"math"

	"oss.terrastruct.com/flowcanvas/lib/geo"
	"oss.terrastruct.com/flowcanvas/lib/svg"
)

const doubleCircleGap = 5.

type shapeCircle struct {
	baseShape
}

func circlePath(box geo.Box) *svg.SvgPathContext {
	r := math.Min(box.Width, box.Height) / 2
	return ellipsePath(box.Center(), r, r)
}

func NewCircle(box geo.Box) Shape {
	return shapeCircle{
		baseShape: baseShape{
			Type: CIRCLE_TYPE,
			Box:  box,
			path: circlePath,
		},
	}
}

type shapeDoubleCircle struct {
	baseShape
}

func NewDoubleCircle(box geo.Box) Shape {
	return shapeDoubleCircle{
		baseShape: baseShape{
			Type: DOUBLE_CIRCLE_TYPE,
			Box:  box,
			path: circlePath,
		},
	}
}

func (s shapeDoubleCircle) innerPath() string {
	r := math.Max(math.Min(s.Box.Width, s.Box.Height)/2-doubleCircleGap, 0)
	return ellipsePath(s.Box.Center(), r, r).PathData()
}

func (s shapeDoubleCircle) ClipPath() string {
	return s.innerPath()
}

func (s shapeDoubleCircle) OutlinePaths() []string {
	return []string{s.FillPath(), s.innerPath()}
}
