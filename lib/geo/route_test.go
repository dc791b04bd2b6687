package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteClosestSegment(t *testing.T) {
	t.Parallel()

	route := Route{{0, 0}, {100, 0}, {100, 100}, {200, 100}}
	i, d := route.ClosestSegment(Point{100, 50})
	assert.Equal(t, 1, i)
	assert.Equal(t, 0., d)

	i, _ = route.ClosestSegment(Point{150, 110})
	assert.Equal(t, 2, i)

	i, _ = Route{{0, 0}}.ClosestSegment(Point{1, 1})
	assert.Equal(t, -1, i)
}

func TestRouteInterior(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Route{{0, 0}, {1, 1}}.Interior())
	route := Route{{0, 0}, {5, 5}, {1, 1}}
	interior := route.Interior()
	assert.Equal(t, Points{{5, 5}}, interior)
	interior[0].X = 99
	assert.Equal(t, 5., route[1].X)
}
