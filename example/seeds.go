package example

import (
	_ "embed"

	"github.com/alexhholmes/dataview"
)

// @embed hashSeeds uint32 seeds.bin

//go:embed seeds.bin
var seedBytes []byte

// Seeds returns the hash seeds decoded at run time. podgen decodes the same
// file into hashSeeds at generation time.
func Seeds() []uint32 {
	return dataview.Embed[uint32](seedBytes)
}

// Hash mixes key with the seed selected by the low bits of key.
func Hash(key uint32) uint32 {
	h := key * hashSeeds[key%uint32(len(hashSeeds))]
	return h ^ h>>15
}
