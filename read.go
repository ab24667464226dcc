package dataview

// TryRead copies a T out of the view at off. The bytes need not be aligned.
func TryRead[T any](v View, off int) (T, bool) {
	mustBePlain[T]()
	var out T
	n := sizeOf[T]()
	if !inBounds(v, off, n) {
		return out, false
	}
	copy(bytesOf(&out), v[off:off+n])
	return out, true
}

// Read copies a T out of the view at off and panics with ErrInvalidOffset
// when it does not fit.
func Read[T any](v View, off int) T {
	out, ok := TryRead[T](v, off)
	if !ok {
		invalidOffset()
	}
	return out
}

// ReadUnchecked copies a T out of the view at off without bounds checks.
// T must still be plain data.
func ReadUnchecked[T any](v View, off int) T {
	mustBePlain[T]()
	var out T
	copy(bytesOf(&out), rawBytes(v, off, sizeOf[T]()))
	return out
}

// TryReadInto overwrites *dst with the bytes at off.
func TryReadInto[T any](v View, off int, dst *T) bool {
	mustBePlain[T]()
	n := sizeOf[T]()
	if !inBounds(v, off, n) {
		return false
	}
	copy(bytesOf(dst), v[off:off+n])
	return true
}

// ReadInto overwrites *dst with the bytes at off and panics with
// ErrInvalidOffset when they do not fit.
func ReadInto[T any](v View, off int, dst *T) {
	if !TryReadInto(v, off, dst) {
		invalidOffset()
	}
}

// ReadIntoUnchecked overwrites *dst with the bytes at off without checks.
func ReadIntoUnchecked[T any](v View, off int, dst *T) {
	mustBePlain[T]()
	copy(bytesOf(dst), rawBytes(v, off, sizeOf[T]()))
}

// TryReadIntoSlice overwrites every element of dst with the bytes at off.
// The number of bytes read is len(dst) times the size of T.
func TryReadIntoSlice[T any](v View, off int, dst []T) bool {
	mustBePlain[T]()
	b := sliceBytesOf(dst)
	if !inBounds(v, off, len(b)) {
		return false
	}
	copy(b, v[off:off+len(b)])
	return true
}

// ReadIntoSlice is TryReadIntoSlice that panics with ErrInvalidOffset.
func ReadIntoSlice[T any](v View, off int, dst []T) {
	if !TryReadIntoSlice(v, off, dst) {
		invalidOffset()
	}
}

// ReadIntoSliceUnchecked is TryReadIntoSlice without checks.
func ReadIntoSliceUnchecked[T any](v View, off int, dst []T) {
	mustBePlain[T]()
	b := sliceBytesOf(dst)
	copy(b, rawBytes(v, off, len(b)))
}
