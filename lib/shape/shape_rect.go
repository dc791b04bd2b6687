package shape

import (
	"oss.terrastruct.com/flowcanvas/lib/geo"
)

type shapeRect struct {
	baseShape
}

func NewRect(box geo.Box) Shape {
	return shapeRect{
		baseShape: baseShape{
			Type: RECT_TYPE,
			Box:  box,
			path: boxPath,
		},
	}
}
