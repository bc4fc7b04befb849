package ffiarray

import (
	"math"
	"testing"
	"testing/quick"
	"unsafe"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/polysimp/internal/common"
)

func TestRoundTripFloat64s(t *testing.T) {
	alloc := NewTracker(NewGoAllocator())
	condition := func(vals []float64) bool {
		a, err := Encode(alloc, vals)
		require.NoError(t, err)
		got, err := Decode[float64](a)
		require.NoError(t, err)
		Release(alloc, a)
		if len(vals) == 0 {
			return a.Empty() && len(got) == 0
		}
		return assert.ObjectsAreEqual(vals, got)
	}
	if err := quick.Check(condition, &quick.Config{}); err != nil {
		t.Errorf("Error: %v", err)
	}
	require.NoError(t, alloc.Err())
	require.Zero(t, alloc.LiveCount())
}

func TestRoundTripPoints(t *testing.T) {
	alloc := NewGoAllocator()
	pts := []orb.Point{{0, 0}, {5, 4}, {11, 5.5}}
	a, err := Encode(alloc, pts)
	require.NoError(t, err)
	require.EqualValues(t, 48, a.Len)

	// the same bytes read back as raw doubles are the interleaved coords
	flat, err := Decode[float64](a)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 5, 4, 11, 5.5}, flat)

	got, err := Decode[orb.Point](a)
	require.NoError(t, err)
	require.Equal(t, pts, got)
	Release(alloc, a)
	require.Zero(t, alloc.Live())
}

func FuzzRoundTrip(f *testing.F) {
	f.Add(0.0, 0.0, 27.8, 0.1)
	f.Fuzz(func(t *testing.T, a, b, c, d float64) {
		alloc := NewGoAllocator()
		vals := []float64{a, b, c, d}
		arr, err := Encode(alloc, vals)
		require.NoError(t, err)
		got, err := Decode[float64](arr)
		require.NoError(t, err)
		require.Len(t, got, len(vals))
		for i := range vals {
			// bit-level compare so NaN inputs round-trip too
			require.Equal(t, math.Float64bits(vals[i]), math.Float64bits(got[i]))
		}
		Release(alloc, arr)
		require.Zero(t, alloc.Live())
	})
}

func TestEncodeEmpty(t *testing.T) {
	alloc := NewGoAllocator()
	a, err := Encode(alloc, []float64{})
	require.NoError(t, err)
	assert.True(t, a.Empty())
	assert.Nil(t, a.Data)
	assert.Zero(t, alloc.Live())

	// releasing the empty handle is a safe no-op
	Release(alloc, a)
	assert.Zero(t, alloc.Live())
}

func TestDecodeEmptyNeverDereferences(t *testing.T) {
	got, err := Decode[float64](Array{})
	require.NoError(t, err)
	assert.Empty(t, got)

	// zero length wins even when a stale pointer is still set
	var stale byte
	got, err = Decode[float64](Array{Data: unsafe.Pointer(&stale), Len: 0})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeInvalidLength(t *testing.T) {
	alloc := NewGoAllocator()
	p, err := alloc.Alloc(24)
	require.NoError(t, err)
	defer alloc.Free(p)

	_, err = Decode[float64](Array{Data: p, Len: 17})
	require.ErrorIs(t, err, ErrInvalidLength)

	// valid for raw doubles but not for 16-byte points
	a := Array{Data: p, Len: 24}
	_, err = Decode[float64](a)
	require.NoError(t, err)
	_, err = Decode[orb.Point](a)
	require.ErrorIs(t, err, ErrInvalidLength)
}

func TestDecodeNilDataNonZeroLength(t *testing.T) {
	_, err := Decode[float64](Array{Data: nil, Len: 8})
	require.ErrorIs(t, err, ErrInvalidLength)
}

func TestDecodeCopiesBuffer(t *testing.T) {
	alloc := NewGoAllocator()
	a, err := Encode(alloc, []float64{1, 2, 3})
	require.NoError(t, err)
	got, err := Decode[float64](a)
	require.NoError(t, err)

	// scribble over the buffer; the decoded slice must not alias it
	raw := common.Bytes(a.Data, int(a.Len))
	for i := range raw {
		raw[i] = 0xff
	}
	require.Equal(t, []float64{1, 2, 3}, got)
	Release(alloc, a)
}

func TestTrackerDoubleRelease(t *testing.T) {
	alloc := NewTracker(NewGoAllocator())
	a, err := Encode(alloc, []float64{1, 2})
	require.NoError(t, err)

	Release(alloc, a)
	require.NoError(t, alloc.Err())

	Release(alloc, a)
	require.ErrorIs(t, alloc.Err(), ErrDoubleRelease)
}

func TestTrackerUnknownHandle(t *testing.T) {
	alloc := NewTracker(NewGoAllocator())
	foreign := make([]byte, 16)
	Release(alloc, Array{Data: unsafe.Pointer(&foreign[0]), Len: 16})
	require.ErrorIs(t, alloc.Err(), ErrUnknownHandle)
}

func TestAllocatorSymmetry(t *testing.T) {
	inner := NewGoAllocator()
	alloc := NewTracker(inner)
	handles := make([]Array, 0, 50)
	for i := 0; i < 50; i++ {
		a, err := Encode(alloc, []float64{float64(i), float64(i) + 0.5})
		require.NoError(t, err)
		handles = append(handles, a)
	}
	require.Equal(t, 50, alloc.LiveCount())
	for _, a := range handles {
		Release(alloc, a)
	}
	require.NoError(t, alloc.Err())
	require.Zero(t, alloc.LiveCount())
	require.Zero(t, inner.Live())
}
