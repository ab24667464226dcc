package dataview

import "math/bits"

// Uint128 is an unsigned 128-bit integer stored as two 64-bit words, low
// word first.
type Uint128 struct {
	Lo, Hi uint64
}

// PlainData implements Witness.
func (Uint128) PlainData() {}

// Add returns u+v, wrapping on overflow.
func (u Uint128) Add(v Uint128) Uint128 {
	lo, carry := bits.Add64(u.Lo, v.Lo, 0)
	hi, _ := bits.Add64(u.Hi, v.Hi, carry)
	return Uint128{Lo: lo, Hi: hi}
}

// Cmp returns -1, 0 or +1 depending on whether u is less than, equal to or
// greater than v.
func (u Uint128) Cmp(v Uint128) int {
	switch {
	case u.Hi < v.Hi:
		return -1
	case u.Hi > v.Hi:
		return 1
	case u.Lo < v.Lo:
		return -1
	case u.Lo > v.Lo:
		return 1
	}
	return 0
}

// Int128 is a two's-complement signed 128-bit integer stored as two 64-bit
// words, low word first.
type Int128 struct {
	Lo uint64
	Hi int64
}

// PlainData implements Witness.
func (Int128) PlainData() {}

// Int128From64 sign-extends v.
func Int128From64(v int64) Int128 {
	return Int128{Lo: uint64(v), Hi: v >> 63}
}

// Sign returns -1, 0 or +1.
func (i Int128) Sign() int {
	switch {
	case i.Hi < 0:
		return -1
	case i.Hi == 0 && i.Lo == 0:
		return 0
	}
	return 1
}
