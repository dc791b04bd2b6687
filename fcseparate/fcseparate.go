// Package fcseparate keeps a dragged subgraph clear of its siblings.
package fcseparate

import (
	"math"

	"oss.terrastruct.com/flowcanvas/lib/geo"
)

const (
	DEFAULT_MARGIN     = 140.
	DEFAULT_EPSILON    = 0.5
	DEFAULT_ITERATIONS = 6
)

type Options struct {
	Margin     float64
	Epsilon    float64
	Iterations int
}

func DefaultOptions() Options {
	return Options{
		Margin:     DEFAULT_MARGIN,
		Epsilon:    DEFAULT_EPSILON,
		Iterations: DEFAULT_ITERATIONS,
	}
}

// ResolveDelta adjusts proposed, the displacement of origin, so the moved
// rectangle stays at least Margin away from every sibling. Each overlap is
// resolved by the smaller of the two single axis pushes away from the
// sibling, Epsilon past the boundary. Resolving one overlap may create
// another, so this repeats up to Iterations times and stops once a pass
// changes nothing.
func ResolveDelta(origin geo.Box, siblings []geo.Box, proposed geo.Point, opts Options) geo.Point {
	delta := proposed
	for i := 0; i < opts.Iterations; i++ {
		adjusted := false
		for _, sib := range siblings {
			rect := origin.Translate(delta.X, delta.Y)
			expanded := sib.Expand(opts.Margin)
			if !rect.Overlaps(expanded) {
				continue
			}
			dx, dy := push(rect, expanded, opts.Epsilon)
			if math.Abs(dx) <= math.Abs(dy) {
				delta.X += dx
			} else {
				delta.Y += dy
			}
			adjusted = true
		}
		if !adjusted {
			break
		}
	}
	return delta
}

// push returns the shifts along x and along y that move rect just outside
// obstacle, on the side of obstacle that rect's center is on.
func push(rect, obstacle geo.Box, eps float64) (dx, dy float64) {
	rc, oc := rect.Center(), obstacle.Center()
	if rc.X < oc.X {
		dx = obstacle.Left() - rect.Right() - eps
	} else {
		dx = obstacle.Right() - rect.Left() + eps
	}
	if rc.Y < oc.Y {
		dy = obstacle.Top() - rect.Bottom() - eps
	} else {
		dy = obstacle.Bottom() - rect.Top() + eps
	}
	return dx, dy
}

// Clear reports whether rect keeps at least margin from every sibling.
func Clear(rect geo.Box, siblings []geo.Box, margin float64) bool {
	for _, sib := range siblings {
		if rect.Overlaps(sib.Expand(margin)) {
			return false
		}
	}
	return true
}
