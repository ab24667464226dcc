package dataview

import (
	"math"
	"unsafe"
)

type boundKind uint8

const (
	unbounded boundKind = iota
	included
	excluded
)

type bound struct {
	kind boundKind
	n    int
}

// Range selects a sub-view. Every form is normalised to a half-open
// [start, end) pair before it is checked against the view length.
type Range struct {
	start, end bound
}

// Span selects [start, end).
func Span(start, end int) Range {
	return Range{start: bound{included, start}, end: bound{excluded, end}}
}

// Through selects [start, last], including last.
func Through(start, last int) Range {
	return Range{start: bound{included, start}, end: bound{included, last}}
}

// After selects (start, end), excluding both ends.
func After(start, end int) Range {
	return Range{start: bound{excluded, start}, end: bound{excluded, end}}
}

// From selects [start, len).
func From(start int) Range {
	return Range{start: bound{included, start}}
}

// To selects [0, end).
func To(end int) Range {
	return Range{end: bound{excluded, end}}
}

// All selects the whole view.
func All() Range {
	return Range{}
}

// endpoints converts r into a half-open pair for a view of the given length
// without validating it.
func (r Range) endpoints(length int) (start, end int) {
	switch r.start.kind {
	case included:
		start = r.start.n
	case excluded:
		start = r.start.n + 1
	}
	switch r.end.kind {
	case unbounded:
		end = length
	case included:
		end = r.end.n + 1
	case excluded:
		end = r.end.n
	}
	return start, end
}

// bounds converts r into [start, end) and reports whether it lies within a
// view of the given length.
func (r Range) bounds(length int) (start, end int, ok bool) {
	if (r.start.kind == excluded && r.start.n == math.MaxInt) ||
		(r.end.kind == included && r.end.n == math.MaxInt) {
		return 0, 0, false
	}
	start, end = r.endpoints(length)
	if start < 0 || start > end || end > length {
		return 0, 0, false
	}
	return start, end, true
}

// TryIndex returns the sub-view selected by r. The sub-view shares memory and
// base alignment with v and its capacity ends at its length.
func (v View) TryIndex(r Range) (View, bool) {
	start, end, ok := r.bounds(len(v))
	if !ok {
		return nil, false
	}
	return v[start:end:end], true
}

// Index is TryIndex that panics with ErrInvalidOffset.
func (v View) Index(r Range) View {
	sub, ok := v.TryIndex(r)
	if !ok {
		invalidOffset()
	}
	return sub
}

// IndexUnchecked is TryIndex without checks. r must select a valid range.
func (v View) IndexUnchecked(r Range) View {
	start, end := r.endpoints(len(v))
	if start == end {
		// Empty like v[start:start:start]: nil only when v is
		return View(unsafe.Slice(unsafe.SliceData(v), 0))
	}
	return View(rawBytes(v, start, end-start))
}

// TrySub returns the sub-view [start, end).
func (v View) TrySub(start, end int) (View, bool) {
	return v.TryIndex(Span(start, end))
}

// Sub returns the sub-view [start, end) and panics with ErrInvalidOffset when
// the range is invalid.
func (v View) Sub(start, end int) View {
	return v.Index(Span(start, end))
}
