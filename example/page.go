package example

import "unsafe"

const (
	// PageSize is the size of every page.
	PageSize = 4096

	// PageAlign is the alignment of pages returned by AllocatePage,
	// suitable for direct I/O.
	PageAlign = 512
)

// AllocatePage returns a zeroed page aligned to PageAlign.
func AllocatePage() []byte {
	backing := make([]byte, PageSize+PageAlign-1)
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(backing)))
	off := int((PageAlign - addr%PageAlign) % PageAlign)
	return backing[off : off+PageSize : off+PageSize]
}
