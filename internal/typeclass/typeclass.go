// Package typeclass decides whether a type-checked Go type is plain data and
// what its size and alignment are on a target architecture. It applies the
// same rules as the dataview runtime check, statically.
package typeclass

import (
	"fmt"
	"go/types"

	"github.com/alexhholmes/dataview/internal/analyzer"
)

// WitnessMethod is the method that marks a struct as plain data.
const WitnessMethod = "PlainData"

// Classifier classifies types for one architecture.
type Classifier struct {
	sizes   types.Sizes
	int2ptr bool
	qual    types.Qualifier
}

// New returns a Classifier using the gc layout rules of arch. int2ptr makes
// raw pointers plain data.
func New(arch string, int2ptr bool) (*Classifier, error) {
	sizes := types.SizesFor("gc", arch)
	if sizes == nil {
		return nil, fmt.Errorf("unknown architecture: %s", arch)
	}
	return &Classifier{
		sizes:   sizes,
		int2ptr: int2ptr,
		qual:    func(p *types.Package) string { return p.Name() },
	}, nil
}

// Classify returns size, alignment and plain-ness of t.
func (c *Classifier) Classify(t types.Type) analyzer.TypeInfo {
	info := analyzer.TypeInfo{Plain: true}
	if _, ok := types.Unalias(t).(*types.TypeParam); !ok {
		info.Size = c.sizes.Sizeof(t)
		info.Align = c.sizes.Alignof(t)
	}
	if why := c.reason(t); why != "" {
		info.Plain = false
		info.Why = why
	}
	if s, ok := types.Unalias(t).Underlying().(*types.Struct); ok && info.Plain && s.NumFields() > 0 {
		info.Witness = HasWitness(t)
	}
	return info
}

// Why returns the reason t is not plain data, or "" when it is.
func (c *Classifier) Why(t types.Type) string {
	return c.reason(t)
}

func (c *Classifier) reason(t types.Type) string {
	t = types.Unalias(t)
	name := types.TypeString(t, c.qual)

	switch u := t.Underlying().(type) {
	case *types.Basic:
		switch {
		case u.Kind() == types.UnsafePointer:
			return c.pointer(name)
		case u.Info()&(types.IsInteger|types.IsFloat|types.IsComplex) != 0 && u.Info()&types.IsUntyped == 0:
			return ""
		}
		return fmt.Sprintf("type %s is not plain data", name)

	case *types.Array:
		return c.reason(u.Elem())

	case *types.Pointer:
		return c.pointer(name)

	case *types.Struct:
		return c.structReason(t, u, name)

	case *types.Interface:
		if _, ok := t.(*types.TypeParam); ok {
			return fmt.Sprintf("type parameter %s is not plain data", name)
		}
	}
	return fmt.Sprintf("type %s is not plain data", name)
}

func (c *Classifier) pointer(name string) string {
	if c.int2ptr {
		return ""
	}
	return fmt.Sprintf("raw pointer %s is not plain data (set int2ptr = true)", name)
}

func (c *Classifier) structReason(t types.Type, s *types.Struct, name string) string {
	// Zero-sized structs such as struct{} and structs.HostLayout have
	// exactly one value.
	if c.sizes.Sizeof(t) == 0 {
		for i := range s.NumFields() {
			if why := c.reason(s.Field(i).Type()); why != "" {
				return why
			}
		}
		return ""
	}

	if !HasWitness(t) {
		return fmt.Sprintf("type %s does not implement dataview.Witness", name)
	}

	var sum int64
	for i := range s.NumFields() {
		f := s.Field(i)
		if why := c.reason(f.Type()); why != "" {
			return fmt.Sprintf("field %s.%s: %s", name, f.Name(), why)
		}
		sum += c.sizes.Sizeof(f.Type())
	}
	if size := c.sizes.Sizeof(t); size != sum {
		return fmt.Sprintf("type %s has padding: size %d != field sum %d", name, size, sum)
	}
	return ""
}

// HasWitness reports whether t or *t has a PlainData() method.
func HasWitness(t types.Type) bool {
	for _, recv := range []types.Type{t, types.NewPointer(t)} {
		sel := types.NewMethodSet(recv).Lookup(nil, WitnessMethod)
		if sel == nil {
			continue
		}
		sig, ok := sel.Type().(*types.Signature)
		if ok && sig.Params().Len() == 0 && sig.Results().Len() == 0 {
			return true
		}
	}
	return false
}

// Mentions reports whether t, looking through arrays and pointers, is a
// named type of pkg listed in names.
func Mentions(t types.Type, pkg *types.Package, names map[string]bool) bool {
	for {
		switch u := types.Unalias(t).(type) {
		case *types.Array:
			t = u.Elem()
		case *types.Pointer:
			t = u.Elem()
		case *types.Named:
			obj := u.Obj()
			return obj.Pkg() == pkg && names[obj.Name()]
		default:
			return false
		}
	}
}
