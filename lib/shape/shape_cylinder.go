package shape

import (
	"math"

	"oss.terrastruct.com/flowcanvas/lib/geo"
	"oss.terrastruct.com/flowcanvas/lib/svg"
)

type shapeCylinder struct {
	baseShape
}

func NewCylinder(box geo.Box) Shape {
	return shapeCylinder{
		baseShape: baseShape{
			Type: CYLINDER_TYPE,
			Box:  box,
			path: cylinderOuterPath,
		},
	}
}

func cylinderArcDepth(box geo.Box) float64 {
	return math.Min(12, box.Height/4)
}

func cylinderOuterPath(box geo.Box) *svg.SvgPathContext {
	arcDepth := cylinderArcDepth(box)
	multiplier := 0.45
	pc := svg.NewSVGPathContext(box.TopLeft, 1, 1)
	pc.StartAt(pc.Absolute(0, arcDepth))
	pc.C(false, 0, 0, box.Width*multiplier, 0, box.Width/2, 0)
	pc.C(false, box.Width-box.Width*multiplier, 0, box.Width, 0, box.Width, arcDepth)
	pc.V(true, box.Height-arcDepth*2)
	pc.C(false, box.Width, box.Height, box.Width-box.Width*multiplier, box.Height, box.Width/2, box.Height)
	pc.C(false, box.Width*multiplier, box.Height, 0, box.Height, 0, box.Height-arcDepth)
	pc.V(true, -(box.Height - arcDepth*2))
	pc.Z()
	return pc
}

func cylinderInnerPath(box geo.Box) *svg.SvgPathContext {
	arcDepth := cylinderArcDepth(box)
	multiplier := 0.45
	pc := svg.NewSVGPathContext(box.TopLeft, 1, 1)
	pc.StartAt(pc.Absolute(0, arcDepth))
	pc.C(false, 0, arcDepth*2, box.Width*multiplier, arcDepth*2, box.Width/2, arcDepth*2)
	pc.C(false, box.Width-box.Width*multiplier, arcDepth*2, box.Width, arcDepth*2, box.Width, arcDepth)
	return pc
}

// ClipPath is the body below the top cap.
func (s shapeCylinder) ClipPath() string {
	arcDepth := cylinderArcDepth(s.Box)
	body := geo.Box{
		TopLeft: s.Box.TopLeft.Translate(0, 2*arcDepth),
		Width:   s.Box.Width,
		Height:  s.Box.Height - 3*arcDepth,
	}
	return boxPath(body).PathData()
}

func (s shapeCylinder) OutlinePaths() []string {
	return []string{
		s.FillPath(),
		cylinderInnerPath(s.Box).PathData(),
	}
}
