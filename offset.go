package dataview

import (
	"fmt"
	"reflect"
	"strings"
)

// FieldSpan is the half-open byte range [Start, End) a field occupies in its
// struct.
type FieldSpan struct {
	Start, End uintptr
}

// Len returns the size of the field.
func (s FieldSpan) Len() uintptr {
	return s.End - s.Start
}

// FieldOffset is one entry of a field offset table.
type FieldOffset struct {
	Name string
	FieldSpan
}

// OffsetOf returns the byte offset of the named field of struct type T.
//
// Only fields declared directly on T are accepted. Promoted fields are
// rejected because reaching them may go through an embedded pointer, which
// would yield an offset inside a different object.
func OffsetOf[T any](field string) (uintptr, error) {
	span, err := SpanOf[T](field)
	if err != nil {
		return 0, err
	}
	return span.Start, nil
}

// SpanOf returns the byte range of the named field of struct type T.
func SpanOf[T any](field string) (FieldSpan, error) {
	t := reflect.TypeFor[T]()
	f, err := directField(t, field)
	if err != nil {
		return FieldSpan{}, err
	}
	return FieldSpan{Start: f.Offset, End: f.Offset + f.Type.Size()}, nil
}

// FieldOffsets returns the offset table of struct type T in declaration
// order. Blank fields are omitted.
func FieldOffsets[T any]() ([]FieldOffset, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("dataview: type %s has no fields", t)
	}
	table := make([]FieldOffset, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Name == "_" {
			continue
		}
		table = append(table, FieldOffset{
			Name:      f.Name,
			FieldSpan: FieldSpan{Start: f.Offset, End: f.Offset + f.Type.Size()},
		})
	}
	return table, nil
}

func directField(t reflect.Type, name string) (reflect.StructField, error) {
	switch {
	case name == "":
		return reflect.StructField{}, fmt.Errorf("dataview: %s: missing field access", t)
	case isPositional(name):
		return reflect.StructField{}, fmt.Errorf("dataview: %s.%s: offset of tuple field not supported", t, name)
	case strings.Contains(name, "."):
		return reflect.StructField{}, fmt.Errorf("dataview: %s.%s: projection through multiple fields not supported", t, name)
	case t.Kind() != reflect.Struct:
		return reflect.StructField{}, fmt.Errorf("dataview: type %s has no fields", t)
	}

	for i := range t.NumField() {
		if f := t.Field(i); f.Name == name && name != "_" {
			return f, nil
		}
	}

	if f, ok := t.FieldByName(name); ok && len(f.Index) > 1 {
		if throughPointer(t, f.Index) {
			return reflect.StructField{}, fmt.Errorf("dataview: %s.%s: field is reached through an implicit dereference", t, name)
		}
		return reflect.StructField{}, fmt.Errorf("dataview: %s.%s: promoted field not supported, name the embedded field", t, name)
	}
	return reflect.StructField{}, fmt.Errorf("dataview: %s has no field %s", t, name)
}

func isPositional(name string) bool {
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// throughPointer reports whether following index from t crosses an embedded
// pointer.
func throughPointer(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		f := t.Field(i)
		if f.Type.Kind() == reflect.Pointer {
			return true
		}
		t = f.Type
	}
	return false
}
