package svg

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Element is a helper for writing XML elements.
// Numeric attributes left at math.MaxFloat64 are omitted.
type Element struct {
	tag string

	X      float64
	Y      float64
	X1     float64
	Y1     float64
	X2     float64
	Y2     float64
	Width  float64
	Height float64
	Rx     float64
	Ry     float64
	Cx     float64
	Cy     float64

	ID        string
	D         string
	Href      string
	Transform string
	ClipPath  string

	Fill   string
	Stroke string

	ClassName string
	Style     string
	// Attributes are written verbatim after the named ones.
	Attributes string
	// Data holds data-* attributes. Keys are written sorted.
	Data map[string]string

	Content string
}

func NewElement(tag string) *Element {
	return &Element{
		tag:    tag,
		X:      math.MaxFloat64,
		Y:      math.MaxFloat64,
		X1:     math.MaxFloat64,
		Y1:     math.MaxFloat64,
		X2:     math.MaxFloat64,
		Y2:     math.MaxFloat64,
		Width:  math.MaxFloat64,
		Height: math.MaxFloat64,
		Rx:     math.MaxFloat64,
		Ry:     math.MaxFloat64,
		Cx:     math.MaxFloat64,
		Cy:     math.MaxFloat64,
	}
}

func (el *Element) SetClipPathURL(id string) {
	el.ClipPath = fmt.Sprintf("url(#%s)", id)
}

func (el *Element) Render() string {
	var b strings.Builder
	b.WriteString("<" + el.tag)

	if el.ID != "" {
		fmt.Fprintf(&b, ` id="%s"`, EscapeText(el.ID))
	}
	if el.Href != "" {
		fmt.Fprintf(&b, ` href="%s"`, el.Href)
	}
	nums := []struct {
		name string
		v    float64
	}{
		{"x", el.X}, {"y", el.Y},
		{"x1", el.X1}, {"y1", el.Y1},
		{"x2", el.X2}, {"y2", el.Y2},
		{"width", el.Width}, {"height", el.Height},
		{"rx", el.Rx}, {"ry", el.Ry},
		{"cx", el.Cx}, {"cy", el.Cy},
	}
	for _, n := range nums {
		if n.v != math.MaxFloat64 {
			fmt.Fprintf(&b, ` %s="%s"`, n.name, FormatFloat(n.v))
		}
	}
	if el.D != "" {
		fmt.Fprintf(&b, ` d="%s"`, el.D)
	}
	if el.Transform != "" {
		fmt.Fprintf(&b, ` transform="%s"`, el.Transform)
	}
	if el.ClipPath != "" {
		fmt.Fprintf(&b, ` clip-path="%s"`, el.ClipPath)
	}
	if el.Fill != "" {
		fmt.Fprintf(&b, ` fill="%s"`, el.Fill)
	}
	if el.Stroke != "" {
		fmt.Fprintf(&b, ` stroke="%s"`, el.Stroke)
	}
	if el.ClassName != "" {
		fmt.Fprintf(&b, ` class="%s"`, el.ClassName)
	}
	if el.Style != "" {
		fmt.Fprintf(&b, ` style="%s"`, el.Style)
	}
	if el.Attributes != "" {
		b.WriteString(" " + el.Attributes)
	}
	if len(el.Data) > 0 {
		keys := make([]string, 0, len(el.Data))
		for k := range el.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, ` data-%s="%s"`, k, EscapeText(el.Data[k]))
		}
	}

	if el.Content != "" {
		fmt.Fprintf(&b, ">%s</%s>", el.Content, el.tag)
		return b.String()
	}
	b.WriteString(" />")
	return b.String()
}

// FormatFloat writes v with at most 3 decimals and no trailing zeros.
func FormatFloat(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
