// Package fcviewport fits the viewport around a scene and eases the
// displayed viewport towards it frame by frame.
package fcviewport

import (
	"math"

	"oss.terrastruct.com/flowcanvas/fctarget"
	"oss.terrastruct.com/flowcanvas/lib/geo"
)

const (
	DEFAULT_MARGIN    = 80.
	DEFAULT_SMOOTHING = 0.18
	DEFAULT_EPSILON   = 0.5
)

// Viewport is an SVG viewBox in diagram space.
type Viewport struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

func FromBox(b geo.Box) Viewport {
	return Viewport{
		Width:   b.Width,
		Height:  b.Height,
		OffsetX: b.TopLeft.X,
		OffsetY: b.TopLeft.Y,
	}
}

func (v Viewport) Box() geo.Box {
	return geo.Box{
		TopLeft: geo.Point{X: v.OffsetX, Y: v.OffsetY},
		Width:   v.Width,
		Height:  v.Height,
	}
}

// NearlyEquals reports whether all four components are within eps.
func (v Viewport) NearlyEquals(o Viewport, eps float64) bool {
	return math.Abs(v.Width-o.Width) <= eps &&
		math.Abs(v.Height-o.Height) <= eps &&
		math.Abs(v.OffsetX-o.OffsetX) <= eps &&
		math.Abs(v.OffsetY-o.OffsetY) <= eps
}

// Fit returns the bounds of s padded by margin. An empty scene gets a box of
// emptyWidth x emptyHeight centered on the origin.
func Fit(s *fctarget.Scene, margin, emptyWidth, emptyHeight float64) Viewport {
	b, ok := s.Bounds()
	if !ok {
		b = geo.BoxAround(geo.Point{}, emptyWidth, emptyHeight)
	}
	return FromBox(b.Expand(margin))
}

// Smooth moves prev towards fit by factor of the remaining distance. Once
// every component is within eps it returns fit and true.
func Smooth(prev, fit Viewport, factor, eps float64) (Viewport, bool) {
	if prev.NearlyEquals(fit, eps) {
		return fit, true
	}
	step := func(a, b float64) float64 {
		return a + (b-a)*factor
	}
	return Viewport{
		Width:   step(prev.Width, fit.Width),
		Height:  step(prev.Height, fit.Height),
		OffsetX: step(prev.OffsetX, fit.OffsetX),
		OffsetY: step(prev.OffsetY, fit.OffsetY),
	}, false
}

// Animator holds the displayed viewport. The first target is shown as is;
// later ones are eased towards by Tick.
type Animator struct {
	Factor  float64
	Epsilon float64

	current Viewport
	target  Viewport
	started bool
}

func NewAnimator(factor, eps float64) *Animator {
	return &Animator{Factor: factor, Epsilon: eps}
}

func (a *Animator) SetTarget(v Viewport) {
	a.target = v
	if !a.started {
		a.current = v
		a.started = true
	}
}

func (a *Animator) Target() Viewport {
	return a.target
}

func (a *Animator) Current() Viewport {
	return a.current
}

// Settled reports whether the displayed viewport has reached the target.
func (a *Animator) Settled() bool {
	return a.current == a.target
}

// Tick advances one frame. It returns the displayed viewport and whether
// another frame is needed.
func (a *Animator) Tick() (Viewport, bool) {
	if a.Settled() {
		return a.current, false
	}
	next, settled := Smooth(a.current, a.target, a.Factor, a.Epsilon)
	a.current = next
	return next, !settled
}
