// Package dataview reinterprets plain data values as bytes and bytes as
// plain data values.
//
// A type is plain data when every bit pattern of its size is a valid value,
// it has a fixed layout, and it holds no pointers or other resources.
// Fixed-width integers, floats, arrays of plain data and zero-sized structs
// are plain by construction. Structs opt in through podgen, which validates
// the declaration (representation, field types, no padding) and emits a
// Witness method plus static assertions:
//
//	// @pod repr=C
//	type Header struct {
//		Magic uint32
//		Count uint16
//		Flags uint16
//	}
//
// A View wraps a byte slice and offers typed access in three variants:
//
//   - Try* functions report failure with a false result.
//   - Functions without prefix or suffix panic with ErrInvalidOffset
//     ("invalid offset") whenever the Try variant would fail.
//   - *Unchecked functions assume the offset is valid. Violating that is
//     memory corruption. They still panic when T is not plain data.
//
// Reads copy out and ignore alignment. References and slices point into the
// view and require the address to be aligned for the element type.
//
// A View never owns its bytes. Several goroutines may read through views over
// the same bytes; writes need the usual exclusion.
package dataview
