package testdata

// @pod repr=C
type Pair struct {
	uint32
	int32
}

// @pod repr=transparent
type PageID uint64

// @pod repr=C
type Shape interface {
	Area() float64
}

// @pod repr=C
type Number interface {
	~int32 | ~float32
}

// @pod repr=C
type Box[T any] struct {
	Value T
}

type (
	// @pod repr=C
	Point struct {
		X, Y float32
	}

	Plain struct{}
)

// @embed crcTable uint32 crc.bin
