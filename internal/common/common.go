package common

import "unsafe"

// Bytes aliases n bytes of raw memory at p without copying. The caller
// guarantees p points at a validly allocated region of at least n bytes and
// that the view does not outlive the allocation.
func Bytes(p unsafe.Pointer, n int) []byte {
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}

// SliceBytes aliases the backing array of s as raw bytes without copying.
// Mutating the result mutates s.
func SliceBytes[E any](s []E) []byte {
	if len(s) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(s[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*size)
}

// ElemSize returns the in-memory byte width of E.
func ElemSize[E any]() uintptr {
	var zero E
	return unsafe.Sizeof(zero)
}
