// Package loader type-checks the package a source file belongs to, so the
// generator can size field types declared elsewhere.
package loader

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path/filepath"

	"golang.org/x/tools/go/packages"
)

// Package is a loaded and type-checked package.
type Package struct {
	Name   string
	Path   string
	Fset   *token.FileSet
	Types  *types.Package
	Errors []error // load and type errors, the package may still be usable

	files map[string]*ast.File // absolute filename → syntax
}

// Load loads the package in dir.
func Load(ctx context.Context, dir string) (*Package, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedTypes |
			packages.NeedSyntax | packages.NeedTypesInfo | packages.NeedImports,
	}

	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", dir, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found in %s", dir)
	}

	pkg := pkgs[0]
	if pkg.Types == nil {
		return nil, fmt.Errorf("type information not available for %s", dir)
	}

	p := &Package{
		Name:  pkg.Name,
		Path:  pkg.PkgPath,
		Fset:  pkg.Fset,
		Types: pkg.Types,
		files: make(map[string]*ast.File, len(pkg.Syntax)),
	}
	for _, e := range pkg.Errors {
		p.Errors = append(p.Errors, e)
	}
	for _, f := range pkg.Syntax {
		name := pkg.Fset.Position(f.Package).Filename
		if abs, err := filepath.Abs(name); err == nil {
			name = abs
		}
		p.files[name] = f
	}
	return p, nil
}

// Err joins the load and type errors.
func (p *Package) Err() error {
	return errors.Join(p.Errors...)
}

// TypeOf evaluates a type expression as written in filename, so the file's
// imports are in scope.
func (p *Package) TypeOf(filename, expr string) (types.Type, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	file, ok := p.files[abs]
	if !ok {
		return nil, fmt.Errorf("%s is not part of package %s", filename, p.Path)
	}

	tv, err := types.Eval(p.Fset, p.Types, file.Name.Pos(), expr)
	if err != nil {
		return nil, fmt.Errorf("evaluating %s: %w", expr, err)
	}
	if !tv.IsType() {
		return nil, fmt.Errorf("%s is not a type", expr)
	}
	return tv.Type, nil
}

// IntConsts returns the integer constants declared at package level, for
// use as array lengths.
func (p *Package) IntConsts() map[string]int64 {
	consts := make(map[string]int64)
	scope := p.Types.Scope()
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok || c.Val().Kind() != constant.Int {
			continue
		}
		if v, exact := constant.Int64Val(c.Val()); exact {
			consts[name] = v
		}
	}
	return consts
}
