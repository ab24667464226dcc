package a

import "github.com/alexhholmes/dataview"

type Frame struct {
	Kind  uint32
	Flags uint32
}

func (Frame) PlainData() {}

type Padded struct {
	A uint8
	B uint32
}

func (*Padded) PlainData() {} // want `Padded declares PlainData but type a.Padded has padding: size 8 != field sum 5`

type Flag bool

func (Flag) PlainData() {} // want `Flag declares PlainData but type a.Flag is not plain data`

type PageID uint64

func (PageID) PlainData() {}

type Unmarked struct {
	A uint32
}

type Linked struct {
	Next *Frame
	N    uint64
}

func (Linked) PlainData() {} // want `Linked declares PlainData but field a.Linked.Next: raw pointer \*a.Frame is not plain data`

func reads(v dataview.View) {
	_ = dataview.Read[uint64](v, 0)
	_ = dataview.Read[Frame](v, 0)
	_ = dataview.Read[[4]PageID](v, 0)
	_ = dataview.Read[dataview.Marker[string]](v, 0)

	_ = dataview.Read[bool](v, 0)       // want `dataview.Read instantiated with bool: type bool is not plain data`
	_ = dataview.Read[Unmarked](v, 0)   // want `dataview.Read instantiated with Unmarked: type a.Unmarked does not implement dataview.Witness`
	_ = dataview.Slice[string](v, 0, 1) // want `dataview.Slice instantiated with string: type string is not plain data`
	_ = dataview.Read[*Frame](v, 0)     // want `dataview.Read instantiated with \*Frame: raw pointer \*a.Frame is not plain data`
}

func writes(v dataview.View) {
	dataview.Write(v, 0, Frame{})
	dataview.Write(v, 0, true) // want `dataview.Write instantiated with bool: type bool is not plain data`
	_ = dataview.Transmute[Frame](uint64(0))
	_ = dataview.Transmute[[2]bool](uint16(0)) // want `dataview.Transmute instantiated with \[2\]bool: type bool is not plain data`
}

func unchecked(v dataview.View) {
	_ = dataview.ReadUnchecked[Frame](v, 0)
	_ = dataview.ReadUnchecked[string](v, 0) // want `dataview.ReadUnchecked instantiated with string: type string is not plain data`
	_ = dataview.RefUnchecked[Padded](v, 0)  // want `dataview.RefUnchecked instantiated with Padded: type a.Padded has padding: size 8 != field sum 5`
}

func unconstrained() {
	_ = dataview.Check[bool]()
	_, _ = dataview.OffsetOf[Unmarked]("A")
}

func generic[T any](v dataview.View) T {
	return dataview.Read[T](v, 0)
}
