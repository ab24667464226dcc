package dataview

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testView returns an 8-byte aligned view over 0, 1, ..., 7 so that odd
// offsets are reliably misaligned for 2-byte types.
func testView() View {
	v := ViewOf(new(uint64))
	for i := range v {
		v[i] = byte(i)
	}
	return v
}

func TestViewBasics(t *testing.T) {
	v := testView()
	assert.Equal(t, 8, v.Len())
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6, 7}, v.Bytes())

	raw := []byte("some bytes")
	assert.Equal(t, len(raw), View(raw).Len())
	assert.Equal(t, 0, View(nil).Len())
}

func TestRead(t *testing.T) {
	v := testView()
	for i := range v.Len() {
		want := uint8(i)

		got, ok := TryRead[uint8](v, i)
		require.True(t, ok, "offset %d", i)
		assert.Equal(t, want, got)
		assert.Equal(t, want, Read[uint8](v, i))
		assert.Equal(t, want, ReadUnchecked[uint8](v, i))
	}

	_, ok := TryRead[uint8](v, v.Len())
	assert.False(t, ok)
	_, ok = TryRead[uint8](v, -1)
	assert.False(t, ok)
	_, ok = TryRead[uint64](v, 1)
	assert.False(t, ok)
	_, ok = TryRead[uint32](v, math.MaxInt)
	assert.False(t, ok)
}

func TestReadUnaligned(t *testing.T) {
	v := testView()

	got, ok := TryRead[uint16](v, 1)
	require.True(t, ok)
	assert.Equal(t, binary.NativeEndian.Uint16([]byte{1, 2}), got)

	wide, ok := TryRead[uint64](v, 0)
	require.True(t, ok)
	assert.Equal(t, binary.NativeEndian.Uint64(v), wide)
}

func TestReadInto(t *testing.T) {
	v := testView()
	for i := range v.Len() {
		want := uint8(i)

		dst := uint8(0xff)
		require.True(t, TryReadInto(v, i, &dst))
		assert.Equal(t, want, dst)

		dst = 0xff
		ReadInto(v, i, &dst)
		assert.Equal(t, want, dst)

		dst = 0xff
		ReadIntoUnchecked(v, i, &dst)
		assert.Equal(t, want, dst)
	}

	dst := uint8(0xff)
	assert.False(t, TryReadInto(v, v.Len(), &dst))
	assert.Equal(t, uint8(0xff), dst)

	words := make([]uint16, 3)
	require.True(t, TryReadIntoSlice(v, 1, words))
	assert.Equal(t, binary.NativeEndian.Uint16([]byte{3, 4}), words[1])

	assert.False(t, TryReadIntoSlice(v, 3, words))
	assert.Panics(t, func() { ReadIntoSlice(v, 3, words) })

	ReadIntoSliceUnchecked(v, 2, words)
	assert.Equal(t, binary.NativeEndian.Uint16([]byte{6, 7}), words[2])
}

func TestRef(t *testing.T) {
	v := testView()
	for i := range v.Len() {
		p, ok := TryRef[uint8](v, i)
		require.True(t, ok)
		assert.Equal(t, uint8(i), *p)
		assert.Equal(t, uint8(i), *Ref[uint8](v, i))
		assert.Equal(t, uint8(i), *RefUnchecked[uint8](v, i))

		if i%2 == 1 {
			_, ok := TryRef[uint16](v, i)
			assert.False(t, ok, "offset %d is misaligned for uint16", i)
		}
	}

	_, ok := TryRef[uint8](v, v.Len())
	assert.False(t, ok)

	// Alignment guard.
	_, ok = TryRef[uint16](v, 1)
	assert.False(t, ok)
	p, ok := TryRef[uint16](v, 0)
	require.True(t, ok)
	assert.Equal(t, binary.NativeEndian.Uint16([]byte{0, 1}), *p)

	// References alias the view.
	*p = 0
	assert.Equal(t, []byte{0, 0}, v.Bytes()[:2])
}

func TestSlice(t *testing.T) {
	v := testView()
	for i := 0; i <= v.Len(); i++ {
		for j := i; j <= v.Len(); j++ {
			want := v.Bytes()[i:j]

			got, ok := TrySlice[uint8](v, i, j-i)
			require.True(t, ok)
			assert.Equal(t, want, got)
			assert.Equal(t, want, Slice[uint8](v, i, j-i))
			assert.Len(t, SliceUnchecked[uint8](v, i, j-i), j-i)

			if i%2 == 1 {
				_, ok := TrySlice[uint16](v, i, (j-i)/2)
				assert.False(t, ok, "offset %d is misaligned for uint16", i)
			}
		}
	}

	got, ok := TrySlice[uint8](v, v.Len(), 0)
	require.True(t, ok)
	assert.Empty(t, got)
	_, ok = TrySlice[uint8](v, v.Len(), 1)
	assert.False(t, ok)
	_, ok = TrySlice[uint8](v, 0, -1)
	assert.False(t, ok)
}

func TestSliceBounds(t *testing.T) {
	v := testView()
	for off := -1; off <= v.Len()+1; off++ {
		for n := -1; n <= 3; n++ {
			want := off >= 0 && n >= 0 && off+n*4 <= v.Len() && off%4 == 0
			_, ok := TrySlice[uint32](v, off, n)
			assert.Equal(t, want, ok, "off=%d n=%d", off, n)
		}
	}

	_, ok := TrySlice[uint64](v, 0, math.MaxInt/4)
	assert.False(t, ok, "length overflow")
}

func TestSliceAliases(t *testing.T) {
	v := testView()
	words := Slice[uint32](v, 0, 2)
	words[1] = 0
	assert.Equal(t, []byte{0, 1, 2, 3, 0, 0, 0, 0}, v.Bytes())
}

func TestTailSlice(t *testing.T) {
	// An 8-byte view whose base is one byte past an 8-byte boundary, so that
	// offset 3 lands on a 4-byte boundary.
	backing := ViewOf(new([2]uint64))
	v := backing.Sub(1, 9)
	require.Equal(t, 8, v.Len())

	assert.Equal(t, 1, TailLen[uint32](v, 3))
	got, ok := TryTailSlice[uint32](v, 3)
	require.True(t, ok)
	assert.Len(t, got, 1)
	assert.Len(t, TailSlice[uint32](v, 3), 1)
	assert.Len(t, TailSliceUnchecked[uint32](v, 3), 1)

	assert.Len(t, TailSlice[uint8](v, 3), 5)
	assert.Empty(t, TailSlice[uint8](v, 8))

	_, ok = TryTailSlice[uint32](v, 2)
	assert.False(t, ok, "misaligned")
	_, ok = TryTailSlice[uint8](v, 9)
	assert.False(t, ok)
	assert.Panics(t, func() { TailLen[uint8](v, 9) })
}

func TestWrite(t *testing.T) {
	v := ViewOf(new(uint64))

	require.True(t, TryWrite(v, 1, uint16(0xbeef)))
	got, ok := TryRead[uint16](v, 1)
	require.True(t, ok)
	assert.Equal(t, uint16(0xbeef), got)

	Write(v, 4, uint32(7))
	assert.Equal(t, uint32(7), Read[uint32](v, 4))

	WriteUnchecked(v, 0, uint8(9))
	assert.Equal(t, uint8(9), v[0])

	assert.False(t, TryWrite(v, 5, uint32(1)))
	assert.False(t, TryWrite(v, -1, uint8(1)))
	assert.Equal(t, uint32(7), Read[uint32](v, 4), "failed write must not modify the view")

	require.True(t, TryWriteSlice(v, 0, []uint16{1, 2, 3, 4}))
	assert.Equal(t, []uint16{1, 2, 3, 4}, Slice[uint16](v, 0, 4))
	assert.False(t, TryWriteSlice(v, 2, []uint16{1, 2, 3, 4}))
	assert.Panics(t, func() { WriteSlice(v, 2, []uint16{1, 2, 3, 4}) })

	WriteSliceUnchecked(v, 6, []uint8{0xaa, 0xbb})
	assert.Equal(t, []byte{0xaa, 0xbb}, v.Bytes()[6:])
}

func TestAssertingPanicsWithInvalidOffset(t *testing.T) {
	v := testView()

	assert.PanicsWithError(t, "invalid offset", func() { Read[uint64](v, 1) })
	assert.PanicsWithError(t, "invalid offset", func() { ReadInto(v, 8, new(uint8)) })
	assert.PanicsWithError(t, "invalid offset", func() { Ref[uint16](v, 1) })
	assert.PanicsWithError(t, "invalid offset", func() { Slice[uint16](v, 1, 1) })
	assert.PanicsWithError(t, "invalid offset", func() { TailSlice[uint32](v, 9) })
	assert.PanicsWithError(t, "invalid offset", func() { Write(v, 7, uint16(0)) })
	assert.PanicsWithError(t, "invalid offset", func() { v.Sub(2, 9) })
}

func TestFallibleAssertingEquivalence(t *testing.T) {
	v := testView()
	for off := -2; off <= v.Len()+2; off++ {
		_, ok := TryRead[uint32](v, off)
		assertPanicsIff(t, !ok, func() { Read[uint32](v, off) })

		_, ok = TryRef[uint32](v, off)
		assertPanicsIff(t, !ok, func() { Ref[uint32](v, off) })

		for n := -1; n <= 3; n++ {
			_, ok = TrySlice[uint16](v, off, n)
			assertPanicsIff(t, !ok, func() { Slice[uint16](v, off, n) })

			_, ok = v.TrySub(off, off+n)
			assertPanicsIff(t, !ok, func() { v.Sub(off, off+n) })
		}

		_, ok = TryTailSlice[uint16](v, off)
		assertPanicsIff(t, !ok, func() { TailSlice[uint16](v, off) })

		scratch := View(make([]byte, v.Len()))
		ok = TryWrite(scratch, off, uint16(1))
		assertPanicsIff(t, !ok, func() { Write(scratch, off, uint16(1)) })
	}
}

func assertPanicsIff(t *testing.T, wantPanic bool, fn func()) {
	t.Helper()
	if wantPanic {
		assert.PanicsWithError(t, "invalid offset", fn)
	} else {
		assert.NotPanics(t, fn)
	}
}

func TestUncheckedMatchesFallible(t *testing.T) {
	v := testView()
	for off := 0; off <= v.Len(); off++ {
		if got, ok := TryRead[uint16](v, off); ok {
			assert.Equal(t, got, ReadUnchecked[uint16](v, off))
		}
		if got, ok := TryRef[uint32](v, off); ok {
			assert.Same(t, got, RefUnchecked[uint32](v, off))
		}
		for n := 0; n <= 4; n++ {
			if got, ok := TrySlice[uint16](v, off, n); ok {
				assert.Equal(t, len(got), len(SliceUnchecked[uint16](v, off, n)))
				for i := range got {
					assert.Same(t, &got[i], &SliceUnchecked[uint16](v, off, n)[i])
				}
			}
		}
		if got, ok := TryTailSlice[uint8](v, off); ok {
			assert.Equal(t, len(got), len(TailSliceUnchecked[uint8](v, off)))
		}
	}
}

func TestZeroSizedAccess(t *testing.T) {
	v := testView()

	_, ok := TryRead[struct{}](v, v.Len())
	assert.True(t, ok)
	_, ok = TryRead[struct{}](v, v.Len()+1)
	assert.False(t, ok)

	p, ok := TryRef[Marker[string]](v, v.Len())
	require.True(t, ok)
	assert.NotNil(t, p)

	units, ok := TrySlice[struct{}](v, 3, 1000)
	require.True(t, ok)
	assert.Len(t, units, 1000)

	assert.Equal(t, 0, TailLen[struct{}](v, 0))
	assert.Empty(t, TailSlice[struct{}](v, 0))

	// [0]uint64 is zero-sized but 8-byte aligned.
	_, ok = TryRef[[0]uint64](v, 1)
	assert.False(t, ok)
	_, ok = TryRef[[0]uint64](v, 0)
	assert.True(t, ok)
}

func TestNonPlainTypeArgumentPanics(t *testing.T) {
	v := testView()
	assert.Panics(t, func() { TryRead[bool](v, 0) })
	assert.Panics(t, func() { TryWrite(v, 0, "text") })
	assert.Panics(t, func() { TrySlice[unmarked](v, 0, 1) })

	// Unchecked forms skip bounds and alignment, never the type
	assert.Panics(t, func() { ReadUnchecked[string](v, 0) })
	assert.Panics(t, func() { ReadIntoUnchecked(v, 0, new(bool)) })
	assert.Panics(t, func() { ReadIntoSliceUnchecked(v, 0, make([]unmarked, 1)) })
	assert.Panics(t, func() { RefUnchecked[string](v, 0) })
	assert.Panics(t, func() { SliceUnchecked[bool](v, 0, 1) })
	assert.Panics(t, func() { TailSliceUnchecked[unmarked](v, 0) })
	assert.Panics(t, func() { WriteUnchecked(v, 0, true) })
	assert.Panics(t, func() { WriteSliceUnchecked(v, 0, []string{"x"}) })
}
