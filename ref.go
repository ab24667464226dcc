package dataview

import "unsafe"

// TryRef returns a pointer to the T stored at off. It fails when the value
// does not fit or when its address is not aligned for T.
func TryRef[T any](v View, off int) (*T, bool) {
	mustBePlain[T]()
	n := sizeOf[T]()
	if !inBounds(v, off, n) || !alignedAt(v, off, alignOf[T]()) {
		return nil, false
	}
	if n == 0 {
		return new(T), true
	}
	return (*T)(at(v, off)), true
}

// Ref is TryRef that panics with ErrInvalidOffset.
func Ref[T any](v View, off int) *T {
	p, ok := TryRef[T](v, off)
	if !ok {
		invalidOffset()
	}
	return p
}

// RefUnchecked returns a pointer to the T stored at off without checks. The
// address must be in bounds and aligned.
func RefUnchecked[T any](v View, off int) *T {
	mustBePlain[T]()
	if sizeOf[T]() == 0 {
		return new(T)
	}
	return (*T)(at(v, off))
}

// TrySlice returns the n values of T stored at off. It fails when they do not
// fit, when n times the size of T overflows, or when the address is not
// aligned for T.
//
// Slices of a zero-sized T have length n and do not alias the view.
func TrySlice[T any](v View, off, n int) ([]T, bool) {
	mustBePlain[T]()
	size := sizeOf[T]()
	if n < 0 || !mulOK(n, size) {
		return nil, false
	}
	need := n * size
	if !inBounds(v, off, need) || !alignedAt(v, off, alignOf[T]()) {
		return nil, false
	}
	return sliceAt[T](v, off, n, need), true
}

// Slice is TrySlice that panics with ErrInvalidOffset.
func Slice[T any](v View, off, n int) []T {
	s, ok := TrySlice[T](v, off, n)
	if !ok {
		invalidOffset()
	}
	return s
}

// SliceUnchecked is TrySlice without checks.
func SliceUnchecked[T any](v View, off, n int) []T {
	mustBePlain[T]()
	return sliceAt[T](v, off, n, n*sizeOf[T]())
}

// TryTailSlice returns as many values of T as fit between off and the end of
// the view. For a zero-sized T the result is empty.
func TryTailSlice[T any](v View, off int) ([]T, bool) {
	mustBePlain[T]()
	if off < 0 || off > len(v) {
		return nil, false
	}
	return TrySlice[T](v, off, tailCount[T](v, off))
}

// TailSlice is TryTailSlice that panics with ErrInvalidOffset.
func TailSlice[T any](v View, off int) []T {
	s, ok := TryTailSlice[T](v, off)
	if !ok {
		invalidOffset()
	}
	return s
}

// TailSliceUnchecked is TryTailSlice without checks.
func TailSliceUnchecked[T any](v View, off int) []T {
	return SliceUnchecked[T](v, off, tailCount[T](v, off))
}

func tailCount[T any](v View, off int) int {
	size := sizeOf[T]()
	if size == 0 {
		return 0
	}
	return (len(v) - off) / size
}

func sliceAt[T any](v View, off, n, need int) []T {
	switch {
	case n == 0:
		return []T{}
	case need == 0:
		return make([]T, n)
	}
	return unsafe.Slice((*T)(at(v, off)), n)
}
