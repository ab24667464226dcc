package parser

import (
	"fmt"
)

// Example demonstrating tag parsing for an annotated record
func ExampleParseTag() {
	// // @pod repr=C
	// type Frame struct {
	//   Kind    uint32 `pod:"@0"`
	//   Flags   uint32 `pod:"@4,name=Bits"`
	//   Scratch uint64 `pod:"-"`
	// }

	tags := []string{
		"@0",
		"@4,name=Bits",
		"-",
	}

	for i, tag := range tags {
		layout, err := ParseTag(tag)
		if err != nil {
			fmt.Printf("Field%d: ERROR: %v\n", i+1, err)
			continue
		}

		fmt.Printf("Field%d (%s): ", i+1, tag)
		switch {
		case layout.Omit:
			fmt.Println("omitted from offset table")
		case layout.Alias != "":
			fmt.Printf("at byte %d as %s\n", layout.Offset, layout.Alias)
		default:
			fmt.Printf("at byte %d\n", layout.Offset)
		}
	}

	// Output:
	// Field1 (@0): at byte 0
	// Field2 (@4,name=Bits): at byte 4 as Bits
	// Field3 (-): omitted from offset table
}
