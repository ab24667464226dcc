package dataview

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unsafe"
)

// Witness marks a struct type as plain data.
//
// podgen emits the method for a record after validating its layout. Writing
// it by hand is allowed but the rules still apply: every field must be plain
// data and the struct must not contain padding. Both are verified again at
// run time the first time the type is used.
//
// The method counts when promoted, so a struct embedding Uint128, Int128 or
// a Marker is a Witness without declaring PlainData itself. Its fields and
// padding are checked all the same.
type Witness interface {
	PlainData()
}

// Marker is a zero-sized plain data value tagged with a type parameter.
type Marker[T any] struct{}

// PlainData implements Witness.
func (Marker[T]) PlainData() {}

var witnessType = reflect.TypeFor[Witness]()

// LayoutError describes why a type is not plain data.
type LayoutError struct {
	Type  reflect.Type
	Path  []string // field path from Type to the offending part
	Cause string
}

func (e *LayoutError) Error() string {
	var b strings.Builder
	b.WriteString("dataview: ")
	b.WriteString(e.Type.String())
	for _, p := range e.Path {
		b.WriteByte('.')
		b.WriteString(p)
	}
	b.WriteString(": ")
	b.WriteString(e.Cause)
	return b.String()
}

type checkResult struct {
	err *LayoutError
}

var checked sync.Map // reflect.Type -> checkResult

// Check reports whether T is plain data, with a *LayoutError naming the
// offending field when it is not.
func Check[T any]() error {
	if err := checkType(reflect.TypeFor[T]()); err != nil {
		return err
	}
	return nil
}

// IsPlain reports whether T is plain data.
func IsPlain[T any]() bool {
	return checkType(reflect.TypeFor[T]()) == nil
}

func checkType(t reflect.Type) *LayoutError {
	if isScalar(t.Kind()) {
		return nil
	}
	if r, ok := checked.Load(t); ok {
		return r.(checkResult).err
	}
	err := classify(t, t, nil)
	checked.Store(t, checkResult{err: err})
	return err
}

// mustBePlain panics when T is not plain data. Every checked operation calls
// it, so a misuse surfaces on the first call with that type argument.
func mustBePlain[T any]() {
	if err := checkType(reflect.TypeFor[T]()); err != nil {
		panic(err)
	}
}

func isScalar(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

func classify(root, t reflect.Type, path []string) *LayoutError {
	fail := func(format string, args ...any) *LayoutError {
		return &LayoutError{Type: root, Path: path, Cause: fmt.Sprintf(format, args...)}
	}

	k := t.Kind()
	switch {
	case isScalar(k):
		return nil
	case k == reflect.Array:
		return classify(root, t.Elem(), append(path, "[]"))
	case k == reflect.Pointer || k == reflect.UnsafePointer:
		if pointersArePlain {
			return nil
		}
		return fail("raw pointer %s is not plain data (build with -tags int2ptr)", t)
	case k != reflect.Struct:
		return fail("type %s is not plain data", t)
	}

	// Zero-sized structs such as struct{}, Marker and structs.HostLayout
	// have exactly one value.
	if t.Size() == 0 {
		for i := range t.NumField() {
			f := t.Field(i)
			if err := classify(root, f.Type, append(path, f.Name)); err != nil {
				return err
			}
		}
		return nil
	}

	if !t.Implements(witnessType) && !reflect.PointerTo(t).Implements(witnessType) {
		return fail("type %s does not implement dataview.Witness", t)
	}

	var sum uintptr
	for i := range t.NumField() {
		f := t.Field(i)
		if err := classify(root, f.Type, append(path, f.Name)); err != nil {
			return err
		}
		if f.Offset != sum {
			return fail("padding present before field %s: offset %d, want %d", f.Name, f.Offset, sum)
		}
		sum += f.Type.Size()
	}
	if sum != t.Size() {
		return fail("padding present: size %d != field sum %d", t.Size(), sum)
	}
	return nil
}

// Zeroed returns the value of T whose bytes are all zero.
func Zeroed[T any]() T {
	mustBePlain[T]()
	var z T
	return z
}

// Bytes returns the memory of *v as a byte slice of length unsafe.Sizeof(*v).
// Writes through the slice modify *v.
func Bytes[T any](v *T) []byte {
	mustBePlain[T]()
	return bytesOf(v)
}

// SliceBytes returns the memory backing s as a byte slice.
func SliceBytes[T any](s []T) []byte {
	mustBePlain[T]()
	return sliceBytesOf(s)
}

// ViewOf returns a View over the memory of *v.
func ViewOf[T any](v *T) View {
	return View(Bytes(v))
}

// ViewOfSlice returns a View over the memory backing s.
func ViewOfSlice[T any](s []T) View {
	return View(SliceBytes(s))
}

// TryTransmute reinterprets the bytes of v as a U. It fails when the sizes
// differ.
func TryTransmute[U, T any](v T) (U, bool) {
	mustBePlain[T]()
	mustBePlain[U]()
	var u U
	if unsafe.Sizeof(u) != unsafe.Sizeof(v) {
		return u, false
	}
	copy(bytesOf(&u), bytesOf(&v))
	return u, true
}

// Transmute reinterprets the bytes of v as a U and panics when the sizes
// differ.
func Transmute[U, T any](v T) U {
	u, ok := TryTransmute[U](v)
	if !ok {
		panic(fmt.Sprintf("dataview: cannot transmute %T (%d bytes) to %T (%d bytes)",
			v, unsafe.Sizeof(v), u, unsafe.Sizeof(u)))
	}
	return u
}

func bytesOf[T any](v *T) []byte {
	if v == nil {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}

func sliceBytesOf[T any](s []T) []byte {
	var z T
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(z)))
}
