package svg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/flowcanvas/lib/geo"
)

func TestElementRender(t *testing.T) {
	t.Parallel()

	el := NewElement("rect")
	el.X = 1.5
	el.Y = -0
	el.Width = 140
	el.Height = 60
	el.Fill = "#fff"
	el.Data = map[string]string{"node-id": "a<b", "kind": "node"}
	assert.Equal(t,
		`<rect x="1.5" y="0" width="140" height="60" fill="#fff" data-kind="node" data-node-id="a&lt;b" />`,
		el.Render(),
	)

	text := NewElement("text")
	text.Content = "hi"
	assert.Equal(t, `<text>hi</text>`, text.Render())
}

func TestFormatFloat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", FormatFloat(0.0001))
	assert.Equal(t, "12.35", FormatFloat(12.3456))
	assert.Equal(t, "-3", FormatFloat(-3))
}

func TestPathContextOutline(t *testing.T) {
	t.Parallel()

	pc := NewSVGPathContext(geo.Point{X: 10, Y: 10}, 2, 2)
	pc.StartAt(pc.Absolute(0, 0))
	pc.L(false, 5, 0)
	pc.V(true, 5)
	pc.Z()
	assert.Equal(t, "M 10 10 L 20 10 V 20 Z", pc.PathData())
	assert.Equal(t, geo.Polygon{{X: 10, Y: 10}, {X: 20, Y: 10}, {X: 20, Y: 20}}, pc.Outline)

	pc = NewSVGPathContext(geo.Point{}, 1, 1)
	pc.StartAt(pc.Absolute(0, 0))
	pc.C(false, 0, 10, 10, 10, 10, 0)
	assert.Len(t, pc.Outline, 1+curveSamples)
	assert.Equal(t, geo.Point{X: 10, Y: 0}, pc.Outline[len(pc.Outline)-1])
}
