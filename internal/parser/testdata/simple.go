package testdata

import "structs"

// @pod repr=C
type Frame struct {
	Kind  uint32 `pod:"@0"`
	Flags uint32 `pod:"@4,name=Bits"`
}

// @pod align=8
type Header struct {
	_      structs.HostLayout
	_      [0]uint64
	Magic  [4]byte `pod:"@0"`
	Len    uint32  `pod:"@4"`
	Unused uint64  `pod:"-"`
}

type Ignored struct {
	Field uint32 `pod:"@0"`
}
