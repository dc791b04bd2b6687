package shape

import (
	"math"

	"oss.terrastruct.com/flowcanvas/lib/geo"
	"oss.terrastruct.com/flowcanvas/lib/svg"
)

type shapePolygon struct {
	baseShape
}

func newPolygon(t Type, box geo.Box, path func(geo.Box) *svg.SvgPathContext) Shape {
	return shapePolygon{
		baseShape: baseShape{
			Type: t,
			Box:  box,
			path: path,
		},
	}
}

// slant is the horizontal inset of leaning and trapezoid sides, as a
// fraction of the width.
func slant(box geo.Box) float64 {
	if box.Width == 0 {
		return 0
	}
	return math.Min(box.Height/3, box.Width/4) / box.Width
}

func NewDiamond(box geo.Box) Shape {
	return newPolygon(DIAMOND_TYPE, box, func(b geo.Box) *svg.SvgPathContext {
		return polygonPath(b,
			geo.Point{X: 0.5, Y: 0},
			geo.Point{X: 1, Y: 0.5},
			geo.Point{X: 0.5, Y: 1},
			geo.Point{X: 0, Y: 0.5},
		)
	})
}

func NewHexagon(box geo.Box) Shape {
	return newPolygon(HEXAGON_TYPE, box, func(b geo.Box) *svg.SvgPathContext {
		m := 0.25
		if b.Width > 0 {
			m = math.Min(b.Height/4, b.Width/4) / b.Width
		}
		return polygonPath(b,
			geo.Point{X: m, Y: 0},
			geo.Point{X: 1 - m, Y: 0},
			geo.Point{X: 1, Y: 0.5},
			geo.Point{X: 1 - m, Y: 1},
			geo.Point{X: m, Y: 1},
			geo.Point{X: 0, Y: 0.5},
		)
	})
}

// NewAsymmetric is a flag shape with a notch cut into its left side.
func NewAsymmetric(box geo.Box) Shape {
	return newPolygon(ASYMMETRIC_TYPE, box, func(b geo.Box) *svg.SvgPathContext {
		return polygonPath(b,
			geo.Point{X: 0, Y: 0},
			geo.Point{X: 1, Y: 0},
			geo.Point{X: 1, Y: 1},
			geo.Point{X: 0, Y: 1},
			geo.Point{X: slant(b), Y: 0.5},
		)
	})
}

func NewLeanRight(box geo.Box) Shape {
	return newPolygon(LEAN_RIGHT_TYPE, box, func(b geo.Box) *svg.SvgPathContext {
		m := slant(b)
		return polygonPath(b,
			geo.Point{X: m, Y: 0},
			geo.Point{X: 1, Y: 0},
			geo.Point{X: 1 - m, Y: 1},
			geo.Point{X: 0, Y: 1},
		)
	})
}

func NewLeanLeft(box geo.Box) Shape {
	return newPolygon(LEAN_LEFT_TYPE, box, func(b geo.Box) *svg.SvgPathContext {
		m := slant(b)
		return polygonPath(b,
			geo.Point{X: 0, Y: 0},
			geo.Point{X: 1 - m, Y: 0},
			geo.Point{X: 1, Y: 1},
			geo.Point{X: m, Y: 1},
		)
	})
}

func NewTrapezoid(box geo.Box) Shape {
	return newPolygon(TRAPEZOID_TYPE, box, func(b geo.Box) *svg.SvgPathContext {
		m := slant(b)
		return polygonPath(b,
			geo.Point{X: m, Y: 0},
			geo.Point{X: 1 - m, Y: 0},
			geo.Point{X: 1, Y: 1},
			geo.Point{X: 0, Y: 1},
		)
	})
}

func NewInvTrapezoid(box geo.Box) Shape {
	return newPolygon(INV_TRAPEZOID_TYPE, box, func(b geo.Box) *svg.SvgPathContext {
		m := slant(b)
		return polygonPath(b,
			geo.Point{X: 0, Y: 0},
			geo.Point{X: 1, Y: 0},
			geo.Point{X: 1 - m, Y: 1},
			geo.Point{X: m, Y: 1},
		)
	})
}
