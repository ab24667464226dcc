package dataview

import "errors"

// ErrInvalidOffset is the panic value of every asserting operation whose
// Try variant would have failed: out of bounds, misaligned or overflowing.
var ErrInvalidOffset = errors.New("invalid offset")

//go:noinline
func invalidOffset() {
	panic(ErrInvalidOffset)
}
