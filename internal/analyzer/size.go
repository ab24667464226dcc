package analyzer

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/types"
	"strconv"
)

// TypeInfo is what the analyzer needs to know about a field type
type TypeInfo struct {
	Size    int64
	Align   int64
	Plain   bool
	Why     string // reason the type is not plain data
	Witness bool   // struct that is plain through a dataview.Witness method
}

var basicKinds = map[string]types.BasicKind{
	"bool":       types.Bool,
	"int":        types.Int,
	"int8":       types.Int8,
	"int16":      types.Int16,
	"int32":      types.Int32,
	"int64":      types.Int64,
	"uint":       types.Uint,
	"uint8":      types.Uint8,
	"uint16":     types.Uint16,
	"uint32":     types.Uint32,
	"uint64":     types.Uint64,
	"uintptr":    types.Uintptr,
	"float32":    types.Float32,
	"float64":    types.Float64,
	"complex64":  types.Complex64,
	"complex128": types.Complex128,
	"string":     types.String,
	"byte":       types.Byte,
	"rune":       types.Rune,
}

// TypeRegistry tracks sizes, alignments and plain-ness of the types a
// record may use, for one target architecture.
type TypeRegistry struct {
	sizes   types.Sizes
	word    int64
	int2ptr bool
	types   map[string]TypeInfo // type expression → info
	aliases map[string]string   // alias → underlying type
	consts  map[string]int64    // constant name → value, for array lengths
}

// NewTypeRegistry returns a registry for amd64 with raw pointers rejected
func NewTypeRegistry() *TypeRegistry {
	r, _ := NewTypeRegistryFor("amd64", false)
	return r
}

// NewTypeRegistryFor returns a registry using the gc layout rules of arch.
// int2ptr makes raw pointers plain data.
func NewTypeRegistryFor(arch string, int2ptr bool) (*TypeRegistry, error) {
	sizes := types.SizesFor("gc", arch)
	if sizes == nil {
		return nil, fmt.Errorf("unknown architecture: %s", arch)
	}
	r := &TypeRegistry{
		sizes:   sizes,
		word:    sizes.Sizeof(types.Typ[types.Uintptr]),
		int2ptr: int2ptr,
		types:   make(map[string]TypeInfo),
		aliases: make(map[string]string),
		consts:  make(map[string]int64),
	}
	r.Register("structs.HostLayout", TypeInfo{Size: 0, Align: 1, Plain: true})
	return r, nil
}

// WordSize returns the pointer size of the target architecture
func (r *TypeRegistry) WordSize() int64 {
	return r.word
}

// Register adds a named type
func (r *TypeRegistry) Register(name string, info TypeInfo) {
	r.types[name] = info
}

// RegisterAlias adds a type alias mapping (e.g., type PageID = uint64)
func (r *TypeRegistry) RegisterAlias(alias, underlying string) {
	r.aliases[alias] = underlying
}

// RegisterConst makes an integer constant usable as an array length
func (r *TypeRegistry) RegisterConst(name string, value int64) {
	r.consts[name] = value
}

// Lookup returns the info of a registered type
func (r *TypeRegistry) Lookup(name string) (TypeInfo, bool) {
	info, ok := r.types[name]
	return info, ok
}

// ResolveType resolves type aliases to their underlying types
// Returns the original type if not an alias
func (r *TypeRegistry) ResolveType(goType string) string {
	seen := 0
	for {
		underlying, ok := r.aliases[goType]
		if !ok || seen > len(r.aliases) {
			return goType
		}
		goType = underlying
		seen++
	}
}

// SizeOf returns the size in bytes of a type expression
func (r *TypeRegistry) SizeOf(goType string) (int64, error) {
	info, err := r.Info(goType)
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

// Known reports whether goType can be sized without error
func (r *TypeRegistry) Known(goType string) bool {
	_, err := r.Info(goType)
	return err == nil
}

// Info describes a type expression as written in source
func (r *TypeRegistry) Info(goType string) (TypeInfo, error) {
	resolved := r.ResolveType(goType)
	if info, ok := r.types[resolved]; ok {
		return info, nil
	}
	expr, err := parser.ParseExpr(resolved)
	if err != nil {
		return TypeInfo{}, fmt.Errorf("invalid type: %s", goType)
	}
	return r.exprInfo(expr)
}

func (r *TypeRegistry) exprInfo(expr ast.Expr) (TypeInfo, error) {
	switch t := expr.(type) {
	case *ast.ParenExpr:
		return r.exprInfo(t.X)

	case *ast.Ident:
		name := r.ResolveType(t.Name)
		if info, ok := r.types[name]; ok {
			return info, nil
		}
		if name != t.Name {
			return r.Info(name)
		}
		if kind, ok := basicKinds[name]; ok {
			return r.basicInfo(name, kind), nil
		}
		switch name {
		case "any", "error":
			return r.notPlain(name, 2*r.word, r.word), nil
		}
		return TypeInfo{}, fmt.Errorf("unknown type: %s (not registered)", name)

	case *ast.SelectorExpr:
		name := types.ExprString(t)
		if name == "unsafe.Pointer" {
			return r.pointerInfo(name), nil
		}
		return r.named(name)

	case *ast.IndexExpr, *ast.IndexListExpr:
		return r.named(types.ExprString(t))

	case *ast.ArrayType:
		if t.Len == nil {
			return r.notPlain(types.ExprString(t), 3*r.word, r.word), nil
		}
		n, err := r.arrayLen(t.Len)
		if err != nil {
			return TypeInfo{}, err
		}
		elem, err := r.exprInfo(t.Elt)
		if err != nil {
			return TypeInfo{}, fmt.Errorf("array element: %w", err)
		}
		return TypeInfo{
			Size:  n * elem.Size,
			Align: elem.Align,
			Plain: elem.Plain,
			Why:   elem.Why,
		}, nil

	case *ast.StarExpr:
		return r.pointerInfo(types.ExprString(t)), nil

	case *ast.StructType:
		if t.Fields.NumFields() == 0 {
			return TypeInfo{Size: 0, Align: 1, Plain: true}, nil
		}
		return TypeInfo{}, fmt.Errorf("anonymous struct not supported: %s", types.ExprString(t))

	case *ast.MapType, *ast.ChanType, *ast.FuncType:
		return r.notPlain(types.ExprString(t), r.word, r.word), nil

	case *ast.InterfaceType:
		return r.notPlain(types.ExprString(t), 2*r.word, r.word), nil
	}

	return TypeInfo{}, fmt.Errorf("unsupported type expression: %s", types.ExprString(expr))
}

func (r *TypeRegistry) named(name string) (TypeInfo, error) {
	resolved := r.ResolveType(name)
	if info, ok := r.types[resolved]; ok {
		return info, nil
	}
	return TypeInfo{}, fmt.Errorf("unknown type: %s (not registered)", name)
}

func (r *TypeRegistry) basicInfo(name string, kind types.BasicKind) TypeInfo {
	typ := types.Typ[kind]
	info := TypeInfo{
		Size:  r.sizes.Sizeof(typ),
		Align: r.sizes.Alignof(typ),
		Plain: true,
	}
	switch kind {
	case types.Bool, types.String:
		info.Plain = false
		info.Why = fmt.Sprintf("type %s is not plain data", name)
	}
	return info
}

func (r *TypeRegistry) pointerInfo(name string) TypeInfo {
	info := TypeInfo{Size: r.word, Align: r.word, Plain: r.int2ptr}
	if !r.int2ptr {
		info.Why = fmt.Sprintf("raw pointer %s is not plain data (set int2ptr = true)", name)
	}
	return info
}

func (r *TypeRegistry) notPlain(name string, size, align int64) TypeInfo {
	return TypeInfo{
		Size:  size,
		Align: align,
		Why:   fmt.Sprintf("type %s is not plain data", name),
	}
}

func (r *TypeRegistry) arrayLen(expr ast.Expr) (int64, error) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		n, err := strconv.ParseInt(e.Value, 0, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid array length: %s", e.Value)
		}
		return n, nil
	case *ast.Ident:
		if n, ok := r.consts[e.Name]; ok {
			return n, nil
		}
	case *ast.SelectorExpr:
		if n, ok := r.consts[types.ExprString(e)]; ok {
			return n, nil
		}
	}
	return 0, fmt.Errorf("unknown array length: %s", types.ExprString(expr))
}
