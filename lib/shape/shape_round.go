package shape

import (
	"math"

	"oss.terrastruct.com/flowcanvas/lib/geo"
	"oss.terrastruct.com/flowcanvas/lib/svg"
)

const roundRadius = 8.

type shapeRound struct {
	baseShape
}

func NewRound(box geo.Box) Shape {
	return shapeRound{
		baseShape: baseShape{
			Type: ROUND_TYPE,
			Box:  box,
			path: func(b geo.Box) *svg.SvgPathContext {
				return roundedPath(b, math.Min(roundRadius, math.Min(b.Width, b.Height)/2))
			},
		},
	}
}

// roundedPath draws a rectangle whose corners are quarter ellipses of radius r.
func roundedPath(box geo.Box, r float64) *svg.SvgPathContext {
	k := r * (1 - kappa)
	w, h := box.Width, box.Height
	pc := svg.NewSVGPathContext(box.TopLeft, 1, 1)
	pc.StartAt(pc.Absolute(r, 0))
	pc.L(false, w-r, 0)
	pc.C(false, w-k, 0, w, k, w, r)
	pc.L(false, w, h-r)
	pc.C(false, w, h-k, w-k, h, w-r, h)
	pc.L(false, r, h)
	pc.C(false, k, h, 0, h-k, 0, h-r)
	pc.L(false, 0, r)
	pc.C(false, 0, k, k, 0, r, 0)
	pc.Z()
	return pc
}
