//go:build int2ptr

package dataview

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestPointersArePlain(t *testing.T) {
	assert.True(t, IsPlain[*int]())
	assert.True(t, IsPlain[unsafe.Pointer]())
	assert.True(t, IsPlain[[2]*byte]())
}
