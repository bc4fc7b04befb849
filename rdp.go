// Package polysimp reduces 2D polylines with the Ramer-Douglas-Peucker and
// Visvalingam-Whyatt algorithms, and wraps them for crossing a C boundary as
// raw coordinate buffers (see pkg/ffiarray and capi).
package polysimp

import (
	"errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

var ErrInvalidTolerance = errors.New("tolerance must be non-negative")

// RDP simplifies ls with the Ramer-Douglas-Peucker algorithm. The result is a
// fresh LineString holding the retained points in input order; ls is never
// modified. The first and last points always survive, and a polyline of two
// or fewer points is returned unchanged. An interior point survives when its
// perpendicular distance to the line through its span's endpoints exceeds
// tolerance; at exactly tolerance it is dropped. A negative tolerance fails
// with ErrInvalidTolerance.
func RDP(ls orb.LineString, tolerance float64) (orb.LineString, error) {
	if tolerance < 0 {
		return nil, ErrInvalidTolerance
	}
	if len(ls) <= 2 {
		return append(make(orb.LineString, 0, len(ls)), ls...), nil
	}

	mask := make([]byte, len(ls))
	mask[0] = 1
	mask[len(ls)-1] = 1
	rdpMask(ls, tolerance, mask)

	out := make(orb.LineString, 0, len(ls))
	for i, keep := range mask {
		if keep == 1 {
			out = append(out, ls[i])
		}
	}
	return out, nil
}

// rdpMask marks retained indexes in mask. An explicit span stack replaces
// recursion, same as the usual mask-based Douglas-Peucker implementations.
func rdpMask(ls orb.LineString, tolerance float64, mask []byte) {
	stack := make([]int, 0, 64)
	stack = append(stack, 0, len(ls)-1)

	for len(stack) > 0 {
		start, end := stack[len(stack)-2], stack[len(stack)-1]
		stack = stack[:len(stack)-2]

		pivot, exceeds := maxDeviation(ls, start, end, tolerance)
		if !exceeds {
			continue
		}
		mask[pivot] = 1
		stack = append(stack, start, pivot, pivot, end)
	}
}

// maxDeviation finds the interior point of span [start,end] farthest from the
// line through the span's endpoints and reports whether that distance
// exceeds tolerance. Ties go to the lowest index. When the endpoints
// coincide the base line degenerates, so point-to-point distance is used
// instead of dividing by a zero-length base.
func maxDeviation(ls orb.LineString, start, end int, tolerance float64) (int, bool) {
	a, b := ls[start], ls[end]
	if a == b {
		pivot, best := 0, 0.0
		for i := start + 1; i < end; i++ {
			if d := planar.DistanceSquared(a, ls[i]); d > best {
				pivot, best = i, d
			}
		}
		return pivot, best > tolerance*tolerance
	}

	// |cross| is twice the triangle area over the base; dividing by the base
	// length gives the perpendicular distance. The division is deferred: the
	// base is constant within a span, so the max of |cross| is the max
	// distance, and the tolerance check compares squares.
	dx, dy := b[0]-a[0], b[1]-a[1]
	pivot, best := 0, 0.0
	for i := start + 1; i < end; i++ {
		c := dx*(a[1]-ls[i][1]) - (a[0]-ls[i][0])*dy
		if c < 0 {
			c = -c
		}
		if c > best {
			pivot, best = i, c
		}
	}
	return pivot, best*best > tolerance*tolerance*(dx*dx+dy*dy)
}
