// C entry points for the simplification library, built with
// `go build -buildmode=c-shared ./capi`. Input buffers are borrowed from the
// caller and never freed or retained here; every returned buffer is minted by
// the C allocator and must be handed back to drop_float_array exactly once,
// so allocation and release always happen on the same side of the boundary
// with the same allocator. Calls share no state and are safe to run
// concurrently as long as no handle is shared between calls.
package main

/*
#include <stdlib.h>
#include "polysimp.h"
*/
import "C"

import (
	"errors"
	"unsafe"

	"github.com/rawbytedev/polysimp"
	"github.com/rawbytedev/polysimp/pkg/ffiarray"
)

const (
	statusOK               = 0
	statusInvalidLength    = 1
	statusInvalidTolerance = 2
	statusAllocFailure     = 3
)

// cAllocator mints boundary buffers with the C allocator. calloc instead of
// malloc: cgo aborts the process when C.malloc returns NULL, which would make
// the allocation-failure status unreachable.
type cAllocator struct{}

func (cAllocator) Alloc(n int) (unsafe.Pointer, error) {
	p := C.calloc(1, C.size_t(n))
	if p == nil {
		return nil, errors.New("calloc returned NULL")
	}
	return p, nil
}

func (cAllocator) Free(p unsafe.Pointer) { C.free(p) }

var alloc cAllocator

func fromC(a C.polysimp_array) ffiarray.Array {
	return ffiarray.Array{Data: unsafe.Pointer(a.data), Len: uintptr(a.len)}
}

func toC(a ffiarray.Array) C.polysimp_array {
	return C.polysimp_array{data: a.Data, len: C.size_t(a.Len)}
}

// statusFor maps boundary errors onto the C status codes.
func statusFor(err error) int32 {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, ffiarray.ErrInvalidLength):
		return statusInvalidLength
	case errors.Is(err, polysimp.ErrInvalidTolerance):
		return statusInvalidTolerance
	default:
		return statusAllocFailure
	}
}

// result never carries a partial handle: on error the coords field stays
// {NULL, 0}.
func result(a ffiarray.Array, err error) C.polysimp_result {
	if err != nil {
		return C.polysimp_result{status: C.int32_t(statusFor(err))}
	}
	return C.polysimp_result{coords: toC(a), status: statusOK}
}

//export simplify_rdp_ffi
func simplify_rdp_ffi(coords C.polysimp_array, tolerance C.double) C.polysimp_result {
	return result(polysimp.SimplifyRDPCoords(alloc, fromC(coords), float64(tolerance)))
}

//export simplify_visvalingam_ffi
func simplify_visvalingam_ffi(coords C.polysimp_array, epsilon C.double) C.polysimp_result {
	return result(polysimp.SimplifyVisvalingamCoords(alloc, fromC(coords), float64(epsilon)))
}

//export simplify_visvalingamp_ffi
func simplify_visvalingamp_ffi(coords C.polysimp_array, epsilon C.double) C.polysimp_result {
	return result(polysimp.SimplifyVisvalingamPreserveCoords(alloc, fromC(coords), float64(epsilon)))
}

//export drop_float_array
func drop_float_array(coords C.polysimp_array) {
	ffiarray.Release(alloc, fromC(coords))
}

func main() {}
