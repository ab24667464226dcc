package dataview

import (
	"math"
	"unsafe"
)

// View is typed access to a byte slice. Converting between View and []byte
// is free; a View carries nothing but the slice header.
type View []byte

// Len returns the number of bytes in the view.
func (v View) Len() int {
	return len(v)
}

// Bytes returns the underlying byte slice.
func (v View) Bytes() []byte {
	return v
}

// TailLen returns the number of T values that fit between off and the end of
// the view. It is 0 for zero-sized T and panics with ErrInvalidOffset when
// off is outside [0, v.Len()].
func TailLen[T any](v View, off int) int {
	if off < 0 || off > len(v) {
		invalidOffset()
	}
	size := sizeOf[T]()
	if size == 0 {
		return 0
	}
	return (len(v) - off) / size
}

func sizeOf[T any]() int {
	var z T
	return int(unsafe.Sizeof(z))
}

func alignOf[T any]() uintptr {
	var z T
	return unsafe.Alignof(z)
}

// inBounds reports whether [off, off+n) lies within v without overflowing.
func inBounds(v View, off, n int) bool {
	return off >= 0 && n >= 0 && off <= len(v) && n <= len(v)-off
}

// mulOK reports whether n*size is representable as an int.
func mulOK(n, size int) bool {
	return size == 0 || n <= math.MaxInt/size
}

// alignedAt reports whether the address of v[off] is aligned to align. The
// address is only compared, never converted back to a pointer.
func alignedAt(v View, off int, align uintptr) bool {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(v))) + uintptr(off)
	return addr&(align-1) == 0
}

// at returns the address of v[off] without a bounds check.
func at(v View, off int) unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(v)), off)
}

// rawBytes returns n bytes starting at v[off] without a bounds check. An
// empty result never forms a pointer, so off == v.Len() stays inside the
// allocation rules of package unsafe.
func rawBytes(v View, off, n int) []byte {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(at(v, off)), n)
}
