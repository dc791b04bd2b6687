package color

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

// Default palette of the canvas.
const (
	NodeFill     = "#ECECFF"
	NodeStroke   = "#9370DB"
	Text         = "#333333"
	TextOnDark   = "#FFFFFF"
	EdgeStroke   = "#333333"
	LabelFill    = "#E8E8E8"
	SubgraphFill = "#FFFFDE"
	SubgraphLine = "#AAAA33"
	Guide        = "#FF4785"
	Handle       = "#1E90FF"
	SelectedLine = "#1E90FF"
	CanvasFill   = "#FFFFFF"

	// Special
	Empty = ""
	None  = "none"
)

// Or returns colorString when it parses as a CSS colour and fallback
// otherwise.
func Or(colorString, fallback string) string {
	colorString = strings.TrimSpace(colorString)
	if colorString == Empty {
		return fallback
	}
	if colorString == None {
		return None
	}
	if _, err := csscolorparser.Parse(colorString); err != nil {
		return fallback
	}
	return colorString
}

func Darken(colorString string) (string, error) {
	c, err := csscolorparser.Parse(colorString)
	if err != nil {
		return "", err
	}
	h, s, l := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsl()
	// decrease luminance by 10%
	return colorful.Hsl(h, s, l-.1).Clamped().Hex(), nil
}

func LuminanceCategory(colorString string) (string, error) {
	l, err := Luminance(colorString)
	if err != nil {
		return "", err
	}

	switch {
	case l >= .88:
		return "bright", nil
	case l >= .55:
		return "normal", nil
	case l >= .30:
		return "dark", nil
	default:
		return "darker", nil
	}
}

func Luminance(colorString string) (float64, error) {
	c, err := csscolorparser.Parse(colorString)
	if err != nil {
		return 0, err
	}

	l := float64(
		float64(0.299)*float64(c.R) +
			float64(0.587)*float64(c.G) +
			float64(0.114)*float64(c.B),
	)
	return l, nil
}

// TextOn picks a readable text colour for labels drawn over fill.
func TextOn(fill string) string {
	cat, err := LuminanceCategory(fill)
	if err != nil {
		return Text
	}
	switch cat {
	case "dark", "darker":
		return TextOnDark
	default:
		return Text
	}
}
