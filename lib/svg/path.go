package svg

import (
	"fmt"
	"math"
	"strings"

	"oss.terrastruct.com/flowcanvas/lib/geo"
)

// curveSamples is how many chords approximate one cubic curve in Outline.
const curveSamples = 8

// SvgPathContext builds path data in a unit space scaled onto a box, and
// keeps a polygonal approximation of everything drawn for hit testing.
type SvgPathContext struct {
	Outline  geo.Polygon
	Commands []string
	Start    geo.Point
	Current  geo.Point
	TopLeft  geo.Point
	ScaleX   float64
	ScaleY   float64
}

// TODO probably use math.Big
func chopPrecision(f float64) float64 {
	return math.Round(f*10000) / 10000
}

func NewSVGPathContext(tl geo.Point, sx, sy float64) *SvgPathContext {
	return &SvgPathContext{TopLeft: tl, ScaleX: sx, ScaleY: sy}
}

func (c *SvgPathContext) Relative(base geo.Point, dx, dy float64) geo.Point {
	return geo.Point{X: chopPrecision(base.X + c.ScaleX*dx), Y: chopPrecision(base.Y + c.ScaleY*dy)}
}

func (c *SvgPathContext) Absolute(x, y float64) geo.Point {
	return c.Relative(c.TopLeft, x, y)
}

func (c *SvgPathContext) StartAt(p geo.Point) {
	c.Start = p
	c.Commands = append(c.Commands, fmt.Sprintf("M %v %v", p.X, p.Y))
	c.Current = p
	c.Outline = append(c.Outline, p)
}

func (c *SvgPathContext) Z() {
	c.Commands = append(c.Commands, "Z")
	c.Current = c.Start
}

func (c *SvgPathContext) L(isLowerCase bool, x, y float64) {
	var endPoint geo.Point
	if isLowerCase {
		endPoint = c.Relative(c.Current, x, y)
	} else {
		endPoint = c.Absolute(x, y)
	}
	c.Commands = append(c.Commands, fmt.Sprintf("L %v %v", endPoint.X, endPoint.Y))
	c.lineTo(endPoint)
}

func (c *SvgPathContext) H(isLowerCase bool, x float64) {
	var endPoint geo.Point
	if isLowerCase {
		endPoint = c.Relative(c.Current, x, 0)
	} else {
		endPoint = c.Absolute(x, 0)
		endPoint.Y = c.Current.Y
	}
	c.Commands = append(c.Commands, fmt.Sprintf("H %v", endPoint.X))
	c.lineTo(endPoint)
}

func (c *SvgPathContext) V(isLowerCase bool, y float64) {
	var endPoint geo.Point
	if isLowerCase {
		endPoint = c.Relative(c.Current, 0, y)
	} else {
		endPoint = c.Absolute(0, y)
		endPoint.X = c.Current.X
	}
	c.Commands = append(c.Commands, fmt.Sprintf("V %v", endPoint.Y))
	c.lineTo(endPoint)
}

func (c *SvgPathContext) C(isLowerCase bool, x1, y1, x2, y2, x3, y3 float64) {
	p := func(x, y float64) geo.Point {
		if isLowerCase {
			return c.Relative(c.Current, x, y)
		}
		return c.Absolute(x, y)
	}
	p0, p1, p2, p3 := c.Current, p(x1, y1), p(x2, y2), p(x3, y3)
	c.Commands = append(c.Commands, fmt.Sprintf(
		"C %v %v %v %v %v %v",
		p1.X, p1.Y,
		p2.X, p2.Y,
		p3.X, p3.Y,
	))
	for i := 1; i <= curveSamples; i++ {
		c.Outline = append(c.Outline, cubicAt(p0, p1, p2, p3, float64(i)/curveSamples))
	}
	c.Current = p3
}

func (c *SvgPathContext) lineTo(p geo.Point) {
	c.Outline = append(c.Outline, p)
	c.Current = p
}

func cubicAt(p0, p1, p2, p3 geo.Point, t float64) geo.Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	cc := 3 * mt * t * t
	d := t * t * t
	return geo.Point{
		X: a*p0.X + b*p1.X + cc*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + cc*p2.Y + d*p3.Y,
	}
}

func (c *SvgPathContext) PathData() string {
	return strings.Join(c.Commands, " ")
}

// StrokeDash returns dash and gap lengths for a dashed stroke of the given
// width.
func StrokeDash(strokeWidth, dashes float64) (float64, float64) {
	strokeWidth = math.Min(math.Max(strokeWidth, 1), 15)
	scale := math.Log10(-0.6*strokeWidth+10.6)*0.5 + 0.5
	scaledDashSize := strokeWidth * dashes
	scaledGapSize := scale * scaledDashSize
	return scaledDashSize, scaledGapSize
}
