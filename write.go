package dataview

// TryWrite copies the bytes of x into the view at off. The destination need
// not be aligned.
func TryWrite[T any](v View, off int, x T) bool {
	mustBePlain[T]()
	n := sizeOf[T]()
	if !inBounds(v, off, n) {
		return false
	}
	copy(v[off:off+n], bytesOf(&x))
	return true
}

// Write is TryWrite that panics with ErrInvalidOffset.
func Write[T any](v View, off int, x T) {
	if !TryWrite(v, off, x) {
		invalidOffset()
	}
}

// WriteUnchecked is TryWrite without checks.
func WriteUnchecked[T any](v View, off int, x T) {
	mustBePlain[T]()
	copy(rawBytes(v, off, sizeOf[T]()), bytesOf(&x))
}

// TryWriteSlice copies the bytes of xs into the view at off.
func TryWriteSlice[T any](v View, off int, xs []T) bool {
	mustBePlain[T]()
	b := sliceBytesOf(xs)
	if !inBounds(v, off, len(b)) {
		return false
	}
	copy(v[off:off+len(b)], b)
	return true
}

// WriteSlice is TryWriteSlice that panics with ErrInvalidOffset.
func WriteSlice[T any](v View, off int, xs []T) {
	if !TryWriteSlice(v, off, xs) {
		invalidOffset()
	}
}

// WriteSliceUnchecked is TryWriteSlice without checks.
func WriteSliceUnchecked[T any](v View, off int, xs []T) {
	mustBePlain[T]()
	b := sliceBytesOf(xs)
	copy(rawBytes(v, off, len(b)), b)
}
