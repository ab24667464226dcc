package dataview

import "fmt"

// Embed reinterprets bytes included with //go:embed as a slice of T:
//
//	//go:embed testdata/table.bin
//	var tableBytes []byte
//
//	var table = dataview.Embed[uint16](tableBytes)
//
// The bytes are copied into freshly allocated, correctly aligned memory. Embed
// panics when T is not plain data, when T is zero-sized, or when len(raw) is
// not a multiple of the size of T. For a fixed-length array generated at
// build time use the @embed directive of podgen.
func Embed[T any](raw []byte) []T {
	mustBePlain[T]()
	size := sizeOf[T]()
	if size == 0 {
		panic(fmt.Sprintf("dataview: cannot embed zero-sized %T", *new(T)))
	}
	if len(raw)%size != 0 {
		panic(fmt.Sprintf("dataview: embedded data of %d bytes is not a multiple of %T size %d",
			len(raw), *new(T), size))
	}
	out := make([]T, len(raw)/size)
	copy(sliceBytesOf(out), raw)
	return out
}
