package label

import (
	"math"
	"unicode/utf8"

	"oss.terrastruct.com/flowcanvas/lib/geo"
)

// This is the space between a node border and its outside label
const PADDING = 5

const (
	DEFAULT_CHAR_WIDTH = 7.
	DEFAULT_HEIGHT     = 20.
	DEFAULT_MIN_WIDTH  = 24.
)

// Sizer estimates label boxes without measuring glyphs: every character is
// CharWidth wide and a label is never narrower than MinWidth.
type Sizer struct {
	CharWidth float64
	Height    float64
	MinWidth  float64
}

func DefaultSizer() Sizer {
	return Sizer{
		CharWidth: DEFAULT_CHAR_WIDTH,
		Height:    DEFAULT_HEIGHT,
		MinWidth:  DEFAULT_MIN_WIDTH,
	}
}

func (s Sizer) Size(text string) (width, height float64) {
	width = float64(utf8.RuneCountInString(text)) * s.CharWidth
	return math.Max(width, s.MinWidth), s.Height
}

// BoxAt returns the label box for text centered on anchor.
func (s Sizer) BoxAt(anchor geo.Point, text string) geo.Box {
	w, h := s.Size(text)
	return geo.BoxAround(anchor, w, h)
}

type Position int8

const (
	Unset Position = iota

	OutsideTopCenter
	InsideMiddleCenter
	OutsideBottomCenter
)

func (labelPosition Position) GetPointOnBox(box geo.Box, padding, width, height float64) geo.Point {
	p := box.TopLeft
	boxCenter := box.Center()

	switch labelPosition {
	case OutsideTopCenter:
		p.X = boxCenter.X - width/2
		p.Y -= padding + height
	case OutsideBottomCenter:
		p.X = boxCenter.X - width/2
		p.Y += box.Height + padding
	default:
		p.X = boxCenter.X - width/2
		p.Y = boxCenter.Y - height/2
	}

	return geo.Point{X: chopPrecision(p.X), Y: chopPrecision(p.Y)}
}

func chopPrecision(f float64) float64 {
	// bring down to float32 precision before rounding for consistency across architectures
	return math.Round(float64(float32(f*10000))) / 10000
}
