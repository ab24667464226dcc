package example

import (
	"errors"
	"fmt"
	"sort"

	"github.com/alexhholmes/dataview"
)

// PageID numbers a page in the file.
//
// @pod repr=transparent
type PageID uint64

// LeafElement locates one value inside a leaf page.
//
// @pod repr=C
type LeafElement struct {
	Key   uint32 `pod:"@0"`
	Value uint32 `pod:"@4"` // offset of the value within the page
}

// LeafHeader starts every leaf page.
//
// @pod repr=C align=8
type LeafHeader struct {
	_        [0]uint64
	NumKeys  uint16 `pod:"@0,name=Count"`
	Flags    uint16 `pod:"@2"`
	Reserved uint32 `pod:"-"`
	Next     PageID `pod:"@8"`
	Prev     PageID `pod:"@16"`
}

// The footer holds a checksum in the last 8 bytes of the page.
const footerOffset = PageSize - 8

// ErrPageFull is returned by Insert when no element fits before the footer.
var ErrPageFull = errors.New("example: leaf page is full")

// LeafPage is a leaf page viewed in place. The header and the elements are
// references into the page buffer.
type LeafPage struct {
	v dataview.View
}

// OpenLeaf views buf as a leaf page.
func OpenLeaf(buf []byte) (LeafPage, error) {
	if len(buf) != PageSize {
		return LeafPage{}, fmt.Errorf("example: page is %d bytes, want %d", len(buf), PageSize)
	}
	v := dataview.View(buf)
	if _, ok := dataview.TryRef[LeafHeader](v, 0); !ok {
		return LeafPage{}, fmt.Errorf("example: page is not aligned for LeafHeader")
	}
	return LeafPage{v: v}, nil
}

// Header returns the page header.
func (p LeafPage) Header() *LeafHeader {
	return dataview.Ref[LeafHeader](p.v, 0)
}

// Elements returns the elements in key order.
func (p LeafPage) Elements() []LeafElement {
	return dataview.Slice[LeafElement](p.v, int(LeafHeaderSize), int(p.Header().NumKeys))
}

// Cap returns the number of elements the page can hold.
func (p LeafPage) Cap() int {
	return int((footerOffset - LeafHeaderSize) / LeafElementSize)
}

// Insert adds e in key order, replacing an element with the same key.
func (p LeafPage) Insert(e LeafElement) error {
	h := p.Header()
	elems := p.Elements()
	i := sort.Search(len(elems), func(i int) bool { return elems[i].Key >= e.Key })
	if i < len(elems) && elems[i].Key == e.Key {
		elems[i] = e
		return nil
	}
	if len(elems) == p.Cap() {
		return ErrPageFull
	}

	elems = dataview.Slice[LeafElement](p.v, int(LeafHeaderSize), len(elems)+1)
	copy(elems[i+1:], elems[i:])
	elems[i] = e
	h.NumKeys++
	return nil
}

// Find returns the element with the given key.
func (p LeafPage) Find(key uint32) (LeafElement, bool) {
	elems := p.Elements()
	i := sort.Search(len(elems), func(i int) bool { return elems[i].Key >= key })
	if i < len(elems) && elems[i].Key == key {
		return elems[i], true
	}
	return LeafElement{}, false
}

// Footer returns the checksum stored at the end of the page.
func (p LeafPage) Footer() uint64 {
	return dataview.Read[uint64](p.v, footerOffset)
}

// SetFooter stores the page checksum.
func (p LeafPage) SetFooter(sum uint64) {
	dataview.Write(p.v, footerOffset, sum)
}
