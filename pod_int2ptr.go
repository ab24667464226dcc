//go:build int2ptr

package dataview

// Raw pointers are plain data in this build. Reading a pointer out of bytes
// fabricates it from an integer, which the garbage collector cannot track;
// only use this for pointers into memory the collector does not manage.
const pointersArePlain = true
