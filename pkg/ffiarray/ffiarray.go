// Package ffiarray moves variable-length numeric arrays across a C-compatible
// boundary as a (pointer, byte length) handle with single-owner semantics.
// Encode and Release are the only sanctioned ways to create and destroy a
// boundary buffer, and both go through the same Allocator, so the allocator
// that mints a buffer is always the one that frees it.
package ffiarray

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/rawbytedev/polysimp/internal/common"
)

var (
	ErrInvalidLength     = errors.New("byte length is not a multiple of the element size")
	ErrAllocationFailure = errors.New("buffer allocation failed")
)

// Array is the boundary handle: a raw byte pointer and a byte length. Field
// order and widths match the C-side struct { void *data; size_t len; }.
// A nil Data with Len 0 is the empty array. Exactly one side of the boundary
// owns an Array at any time; ownership moves with the value, it is never
// shared.
type Array struct {
	Data unsafe.Pointer
	Len  uintptr
}

// Empty reports whether the handle carries no elements.
func (a Array) Empty() bool { return a.Len == 0 }

// Allocator pairs allocation and release of boundary buffers. A buffer must
// be freed by the Allocator that produced it.
type Allocator interface {
	Alloc(n int) (unsafe.Pointer, error)
	Free(p unsafe.Pointer)
}

// Encode copies src into a freshly allocated buffer of exactly
// len(src)*sizeof(E) bytes and returns the owning handle. An empty src yields
// the empty handle without allocating. The returned handle must eventually be
// passed to Release with the same Allocator.
func Encode[E any](alloc Allocator, src []E) (Array, error) {
	if len(src) == 0 {
		return Array{}, nil
	}
	n := len(src) * int(common.ElemSize[E]())
	p, err := alloc.Alloc(n)
	if err != nil {
		return Array{}, fmt.Errorf("%w: %d bytes: %v", ErrAllocationFailure, n, err)
	}
	copy(common.Bytes(p, n), common.SliceBytes(src))
	return Array{Data: p, Len: uintptr(n)}, nil
}

// Decode interprets the handle's bytes as consecutive values of E in input
// order and returns a copy. The handle is borrowed: the result never aliases
// it and the handle is not consumed. Fails with ErrInvalidLength when the
// byte length is not a multiple of sizeof(E), or when a non-empty handle
// carries a nil pointer. A zero-length handle decodes to an empty slice
// without touching the pointer.
func Decode[E any](a Array) ([]E, error) {
	if a.Len == 0 {
		return []E{}, nil
	}
	size := common.ElemSize[E]()
	if a.Len%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes, %d-byte elements", ErrInvalidLength, a.Len, size)
	}
	if a.Data == nil {
		return nil, fmt.Errorf("%w: nil data with %d-byte length", ErrInvalidLength, a.Len)
	}
	out := make([]E, a.Len/size)
	copy(common.SliceBytes(out), common.Bytes(a.Data, int(a.Len)))
	return out, nil
}

// Release returns the handle's buffer to the allocator that produced it.
// The handle is invalid afterwards. Releasing the empty handle is a no-op.
// Releasing a handle that did not come from Encode on the same allocator is
// undefined by contract.
func Release(alloc Allocator, a Array) {
	if a.Len == 0 || a.Data == nil {
		return
	}
	alloc.Free(a.Data)
}
