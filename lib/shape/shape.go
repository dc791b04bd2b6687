package shape

import (
	"strings"

	"oss.terrastruct.com/flowcanvas/lib/geo"
	"oss.terrastruct.com/flowcanvas/lib/svg"
)

// Type is the closed set of flowchart node shapes.
type Type string

const (
	RECT_TYPE          Type = "rect"
	ROUND_TYPE         Type = "round"
	STADIUM_TYPE       Type = "stadium"
	SUBROUTINE_TYPE    Type = "subroutine"
	CYLINDER_TYPE      Type = "cylinder"
	CIRCLE_TYPE        Type = "circle"
	DOUBLE_CIRCLE_TYPE Type = "doublecircle"
	ASYMMETRIC_TYPE    Type = "asymmetric"
	DIAMOND_TYPE       Type = "diamond"
	HEXAGON_TYPE       Type = "hexagon"
	LEAN_RIGHT_TYPE    Type = "lean_right"
	LEAN_LEFT_TYPE     Type = "lean_left"
	TRAPEZOID_TYPE     Type = "trapezoid"
	INV_TRAPEZOID_TYPE Type = "inv_trapezoid"
)

var Types = []Type{
	RECT_TYPE,
	ROUND_TYPE,
	STADIUM_TYPE,
	SUBROUTINE_TYPE,
	CYLINDER_TYPE,
	CIRCLE_TYPE,
	DOUBLE_CIRCLE_TYPE,
	ASYMMETRIC_TYPE,
	DIAMOND_TYPE,
	HEXAGON_TYPE,
	LEAN_RIGHT_TYPE,
	LEAN_LEFT_TYPE,
	TRAPEZOID_TYPE,
	INV_TRAPEZOID_TYPE,
}

// ParseType maps a shape name to its Type. Unknown names are rectangles.
func ParseType(s string) Type {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Types {
		if t == known {
			return t
		}
	}
	switch t {
	case "rectangle", "square":
		return RECT_TYPE
	case "rounded":
		return ROUND_TYPE
	case "database":
		return CYLINDER_TYPE
	case "rhombus":
		return DIAMOND_TYPE
	case "parallelogram":
		return LEAN_RIGHT_TYPE
	}
	return RECT_TYPE
}

// Shape renders one node outline inside its box.
type Shape interface {
	GetType() Type
	GetBox() geo.Box

	// FillPath is the area painted with the node's fill colour.
	FillPath() string
	// ClipPath is the area images and inner content are clipped to.
	ClipPath() string
	// OutlinePaths are stroked on top of the fill.
	OutlinePaths() []string
	// Perimeter is a polygonal approximation of the fill outline.
	Perimeter() geo.Polygon
}

type baseShape struct {
	Type Type
	Box  geo.Box
	// path draws the fill outline; every shape has one.
	path func(geo.Box) *svg.SvgPathContext
}

func (s baseShape) GetType() Type {
	return s.Type
}

func (s baseShape) GetBox() geo.Box {
	return s.Box
}

func (s baseShape) FillPath() string {
	return s.path(s.Box).PathData()
}

func (s baseShape) ClipPath() string {
	return s.FillPath()
}

func (s baseShape) OutlinePaths() []string {
	return []string{s.FillPath()}
}

func (s baseShape) Perimeter() geo.Polygon {
	return s.path(s.Box).Outline
}

func NewShape(shapeType Type, box geo.Box) Shape {
	switch shapeType {
	case ROUND_TYPE:
		return NewRound(box)
	case STADIUM_TYPE:
		return NewStadium(box)
	case SUBROUTINE_TYPE:
		return NewSubroutine(box)
	case CYLINDER_TYPE:
		return NewCylinder(box)
	case CIRCLE_TYPE:
		return NewCircle(box)
	case DOUBLE_CIRCLE_TYPE:
		return NewDoubleCircle(box)
	case ASYMMETRIC_TYPE:
		return NewAsymmetric(box)
	case DIAMOND_TYPE:
		return NewDiamond(box)
	case HEXAGON_TYPE:
		return NewHexagon(box)
	case LEAN_RIGHT_TYPE:
		return NewLeanRight(box)
	case LEAN_LEFT_TYPE:
		return NewLeanLeft(box)
	case TRAPEZOID_TYPE:
		return NewTrapezoid(box)
	case INV_TRAPEZOID_TYPE:
		return NewInvTrapezoid(box)
	default:
		return NewRect(box)
	}
}

// TraceToShapeBorder walks from the shape's center towards toward and
// returns where that line leaves the shape. When toward lies inside the
// shape the center is returned.
//
// .      toward
// .      │
// . ┌────┼─────────────┐
// . │    ▼ xxxxxxxx    │
// . │   xsxx      xx   │
// . │  xx     c    xx  │
// . │   xxxx     xxx   │
// . └──────xxxxxx──────┘
func TraceToShapeBorder(s Shape, toward geo.Point) geo.Point {
	center := s.GetBox().Center()
	p, ok := s.Perimeter().ClosestIntersection(geo.Segment{Start: center, End: toward}, toward)
	if !ok {
		return center
	}
	return p
}

func boxPath(box geo.Box) *svg.SvgPathContext {
	pc := svg.NewSVGPathContext(box.TopLeft, 1, 1)
	pc.StartAt(pc.Absolute(0, 0))
	pc.L(false, box.Width, 0)
	pc.L(false, box.Width, box.Height)
	pc.L(false, 0, box.Height)
	pc.Z()
	return pc
}

// polygonPath draws a closed polygon given in fractions of the box.
func polygonPath(box geo.Box, fractions ...geo.Point) *svg.SvgPathContext {
	pc := svg.NewSVGPathContext(box.TopLeft, box.Width, box.Height)
	for i, f := range fractions {
		if i == 0 {
			pc.StartAt(pc.Absolute(f.X, f.Y))
			continue
		}
		pc.L(false, f.X, f.Y)
	}
	pc.Z()
	return pc
}

// kappa places cubic control points so four curves approximate an ellipse.
const kappa = 0.5522847498

// ellipsePath draws an ellipse with radii rx, ry centered at c.
func ellipsePath(c geo.Point, rx, ry float64) *svg.SvgPathContext {
	pc := svg.NewSVGPathContext(geo.Point{X: c.X - rx, Y: c.Y - ry}, 1, 1)
	kx, ky := rx*kappa, ry*kappa
	pc.StartAt(pc.Absolute(rx, 0))
	pc.C(false, rx+kx, 0, 2*rx, ry-ky, 2*rx, ry)
	pc.C(false, 2*rx, ry+ky, rx+kx, 2*ry, rx, 2*ry)
	pc.C(false, rx-kx, 2*ry, 0, ry+ky, 0, ry)
	pc.C(false, 0, ry-ky, rx-kx, 0, rx, 0)
	pc.Z()
	return pc
}
