package shape

import (
	"math"

	"oss.terrastruct.com/flowcanvas/lib/geo"
	"oss.terrastruct.com/flowcanvas/lib/svg"
)

type shapeStadium struct {
	baseShape
}

func NewStadium(box geo.Box) Shape {
	return shapeStadium{
		baseShape: baseShape{
			Type: STADIUM_TYPE,
			Box:  box,
			path: func(b geo.Box) *svg.SvgPathContext {
				return roundedPath(b, math.Min(b.Width, b.Height)/2)
			},
		},
	}
}
