package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoxOverlaps(t *testing.T) {
	t.Parallel()

	a := Box{TopLeft: Point{0, 0}, Width: 100, Height: 50}
	testCases := []struct {
		name string
		b    Box
		exp  bool
	}{
		{"inside", Box{TopLeft: Point{10, 10}, Width: 5, Height: 5}, true},
		{"partial", Box{TopLeft: Point{90, 40}, Width: 50, Height: 50}, true},
		{"touching", Box{TopLeft: Point{100, 0}, Width: 50, Height: 50}, false},
		{"apart", Box{TopLeft: Point{300, 300}, Width: 1, Height: 1}, false},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.exp, a.Overlaps(tc.b))
			assert.Equal(t, tc.exp, tc.b.Overlaps(a))
		})
	}
}

func TestBoxExpandAndAround(t *testing.T) {
	t.Parallel()

	b := BoxAround(Point{0, 0}, 140, 60)
	assert.Equal(t, Point{-70, -30}, b.TopLeft)
	assert.Equal(t, Point{0, 0}, b.Center())

	e := b.Expand(10)
	assert.Equal(t, -80., e.Left())
	assert.Equal(t, 80., e.Right())
	assert.Equal(t, -40., e.Top())
	assert.Equal(t, 40., e.Bottom())
}

func TestBounds(t *testing.T) {
	t.Parallel()

	bb := NewBounds()
	assert.True(t, bb.Empty())
	assert.Equal(t, Box{}, bb.Box())

	bb.AddPoint(Point{5, -5})
	bb.AddBox(Box{TopLeft: Point{-10, 0}, Width: 5, Height: 20})
	assert.False(t, bb.Empty())
	assert.Equal(t, Box{TopLeft: Point{-10, -5}, Width: 15, Height: 25}, bb.Box())
}
