// Command podcheck reports dataview calls instantiated with types that are
// not plain data.
//
// Usage:
//
//	podcheck [-arch GOARCH] [-int2ptr] packages...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/alexhholmes/dataview/internal/podcheck"
)

func main() {
	singlechecker.Main(podcheck.Analyzer)
}
