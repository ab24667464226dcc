package dataview

type Witness interface {
	PlainData()
}

type Marker[T any] struct{}

func (Marker[T]) PlainData() {}

type View []byte

func Read[T any](v View, off int) T {
	var x T
	return x
}

func Write[T any](v View, off int, x T) {}

func Slice[T any](v View, off, n int) []T { return nil }

func Transmute[U, T any](v T) U {
	var u U
	return u
}

func Check[T any]() error { return nil }

func OffsetOf[T any](field string) (uintptr, error) { return 0, nil }

func ReadUnchecked[T any](v View, off int) T {
	var x T
	return x
}

func RefUnchecked[T any](v View, off int) *T { return nil }
