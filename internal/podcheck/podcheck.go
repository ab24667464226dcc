// Package podcheck defines an Analyzer that reports dataview calls whose
// type arguments are not plain data, and PlainData methods declared on
// types that cannot be plain data.
//
// The runtime library rejects such types too, but only when the call
// executes. podcheck moves the failure to vet time.
package podcheck

import (
	"go/ast"
	"go/types"
	"runtime"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/alexhholmes/dataview/internal/codegen"
	"github.com/alexhholmes/dataview/internal/typeclass"
)

const doc = `check that dataview type arguments are plain data

Every generic function of github.com/alexhholmes/dataview that reads, writes
or reinterprets memory requires its type arguments to be plain data:
integers, floats, arrays of plain data and structs with a PlainData method,
no padding and plain fields. podcheck reports instantiations that violate
this and PlainData methods on types that do not satisfy it.`

// Analyzer is the podcheck analysis pass.
var Analyzer = &analysis.Analyzer{
	Name:     "podcheck",
	Doc:      doc,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

var (
	arch    string
	int2ptr bool
)

func init() {
	Analyzer.Flags.StringVar(&arch, "arch", runtime.GOARCH, "GOARCH whose layout rules apply")
	Analyzer.Flags.BoolVar(&int2ptr, "int2ptr", false, "treat raw pointers as plain data")
}

// unconstrained lists the generic functions that accept any type argument.
var unconstrained = map[string]bool{
	"Check":        true,
	"IsPlain":      true,
	"OffsetOf":     true,
	"SpanOf":       true,
	"FieldOffsets": true,
}

func run(pass *analysis.Pass) (any, error) {
	classifier, err := typeclass.New(arch, int2ptr)
	if err != nil {
		return nil, err
	}
	qual := types.RelativeTo(pass.Pkg)

	for id, inst := range pass.TypesInfo.Instances {
		fn, ok := pass.TypesInfo.Uses[id].(*types.Func)
		if !ok || fn.Pkg() == nil || fn.Pkg().Path() != codegen.ImportPath || unconstrained[fn.Name()] {
			continue
		}
		for i := range inst.TypeArgs.Len() {
			arg := inst.TypeArgs.At(i)
			if hasTypeParam(arg) {
				// Checked at run time for each instantiation
				continue
			}
			if why := classifier.Why(arg); why != "" {
				pass.Reportf(id.Pos(), "dataview.%s instantiated with %s: %s",
					fn.Name(), types.TypeString(arg, qual), why)
			}
		}
	}

	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
		decl := n.(*ast.FuncDecl)
		if decl.Recv == nil || decl.Name.Name != typeclass.WitnessMethod {
			return
		}
		fn, ok := pass.TypesInfo.Defs[decl.Name].(*types.Func)
		if !ok {
			return
		}
		sig := fn.Type().(*types.Signature)
		if sig.Params().Len() != 0 || sig.Results().Len() != 0 {
			return
		}

		recv := sig.Recv().Type()
		if ptr, ok := recv.(*types.Pointer); ok {
			recv = ptr.Elem()
		}
		named, ok := recv.(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			return
		}
		if why := classifier.Why(named); why != "" {
			pass.Reportf(decl.Name.Pos(), "%s declares PlainData but %s",
				named.Obj().Name(), why)
		}
	})

	return nil, nil
}

// hasTypeParam reports whether t mentions a type parameter.
func hasTypeParam(t types.Type) bool {
	switch u := types.Unalias(t).(type) {
	case *types.TypeParam:
		return true
	case *types.Array:
		return hasTypeParam(u.Elem())
	case *types.Slice:
		return hasTypeParam(u.Elem())
	case *types.Pointer:
		return hasTypeParam(u.Elem())
	case *types.Named:
		args := u.TypeArgs()
		for i := range args.Len() {
			if hasTypeParam(args.At(i)) {
				return true
			}
		}
	case *types.Struct:
		for i := range u.NumFields() {
			if hasTypeParam(u.Field(i).Type()) {
				return true
			}
		}
	}
	return false
}
