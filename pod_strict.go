//go:build !int2ptr

package dataview

const pointersArePlain = false
