package label

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/flowcanvas/lib/geo"
)

func TestSizer(t *testing.T) {
	t.Parallel()

	s := DefaultSizer()
	testCases := []struct {
		text string
		expW float64
	}{
		{"", 24},
		{"ok", 24},
		{"yes", 24},
		{"four", 28},
		{"héllo wörld", 77},
	}
	for _, tc := range testCases {
		w, h := s.Size(tc.text)
		assert.Equal(t, tc.expW, w, tc.text)
		assert.Equal(t, 20., h)
	}

	b := s.BoxAt(geo.Point{X: 100, Y: 50}, "four")
	assert.Equal(t, geo.Point{X: 86, Y: 40}, b.TopLeft)
}

func TestGetPointOnBox(t *testing.T) {
	t.Parallel()

	box := geo.Box{TopLeft: geo.Point{X: 0, Y: 0}, Width: 100, Height: 60}
	assert.Equal(t, geo.Point{X: 30, Y: 20}, InsideMiddleCenter.GetPointOnBox(box, PADDING, 40, 20))
	assert.Equal(t, geo.Point{X: 30, Y: 65}, OutsideBottomCenter.GetPointOnBox(box, PADDING, 40, 20))
	assert.Equal(t, geo.Point{X: 30, Y: -25}, OutsideTopCenter.GetPointOnBox(box, PADDING, 40, 20))
}
