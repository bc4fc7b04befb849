package polysimp

import (
	"github.com/paulmach/orb"

	"github.com/rawbytedev/polysimp/pkg/ffiarray"
)

// Coordinate buffers crossing the boundary are flat sequences of IEEE-754
// doubles in (x0, y0, x1, y1, ...) order, 16 bytes per point. The input
// handle is borrowed and never freed here; the output handle is freshly
// encoded through alloc and owned by the caller, who must Release it exactly
// once.

// SimplifyRDPCoords runs RDP over a borrowed coordinate buffer and encodes
// the result into a new handle. A byte length not divisible by 16 fails with
// ffiarray.ErrInvalidLength before any allocation.
func SimplifyRDPCoords(alloc ffiarray.Allocator, in ffiarray.Array, tolerance float64) (ffiarray.Array, error) {
	return simplifyCoords(alloc, in, tolerance, RDP)
}

// SimplifyVisvalingamCoords is SimplifyRDPCoords with the Visvalingam-Whyatt
// algorithm and an area threshold instead of a distance tolerance.
func SimplifyVisvalingamCoords(alloc ffiarray.Allocator, in ffiarray.Array, epsilon float64) (ffiarray.Array, error) {
	return simplifyCoords(alloc, in, epsilon, Visvalingam)
}

// SimplifyVisvalingamPreserveCoords is SimplifyVisvalingamCoords with
// topology preservation.
func SimplifyVisvalingamPreserveCoords(alloc ffiarray.Allocator, in ffiarray.Array, epsilon float64) (ffiarray.Array, error) {
	return simplifyCoords(alloc, in, epsilon, VisvalingamPreserve)
}

func simplifyCoords(alloc ffiarray.Allocator, in ffiarray.Array, tolerance float64, fn func(orb.LineString, float64) (orb.LineString, error)) (ffiarray.Array, error) {
	pts, err := ffiarray.Decode[orb.Point](in)
	if err != nil {
		return ffiarray.Array{}, err
	}
	out, err := fn(orb.LineString(pts), tolerance)
	if err != nil {
		return ffiarray.Array{}, err
	}
	return ffiarray.Encode(alloc, []orb.Point(out))
}
