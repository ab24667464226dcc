package dataview

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed(t *testing.T) {
	raw := binary.NativeEndian.AppendUint32(nil, 1)
	raw = binary.NativeEndian.AppendUint32(raw, 2)
	raw = binary.NativeEndian.AppendUint32(raw, 3)
	raw = binary.NativeEndian.AppendUint32(raw, 4)

	words := Embed[uint32](raw)
	assert.Equal(t, []uint32{1, 2, 3, 4}, words)

	frames := Embed[frame](raw)
	require.Len(t, frames, 2)
	assert.Equal(t, frame{Kind: 3, Flags: 4}, frames[1])

	// The result owns its memory.
	raw[0] = 0xff
	assert.Equal(t, uint32(1), words[0])

	assert.Empty(t, Embed[uint64](nil))
}

func TestEmbedRejects(t *testing.T) {
	assert.PanicsWithValue(t, "dataview: embedded data of 3 bytes is not a multiple of uint16 size 2",
		func() { Embed[uint16]([]byte{1, 2, 3}) })
	assert.PanicsWithValue(t, "dataview: cannot embed zero-sized struct {}",
		func() { Embed[struct{}]([]byte{}) })
	assert.Panics(t, func() { Embed[bool]([]byte{1}) })
}
