package codegen

import (
	"encoding/binary"
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/types"
	"math"
	"strconv"
	"strings"

	"github.com/alexhholmes/dataview/internal/analyzer"
)

// bigEndian lists the GOARCH values that store the most significant byte
// first.
var bigEndian = map[string]bool{
	"armbe":     true,
	"arm64be":   true,
	"m68k":      true,
	"mips":      true,
	"mips64":    true,
	"mips64p32": true,
	"ppc":       true,
	"ppc64":     true,
	"s390":      true,
	"s390x":     true,
	"sparc":     true,
	"sparc64":   true,
}

// ByteOrderFor returns the byte order of arch
func ByteOrderFor(arch string) binary.ByteOrder {
	if bigEndian[arch] {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// literal renders size(goType) bytes as a Go literal of goType. The type is
// elided for composite values, so the result is only valid as an element
// of an outer composite literal.
func (g *Generator) literal(goType string, data []byte) (string, error) {
	resolved := g.registry.ResolveType(goType)
	if a, ok := g.byName[resolved]; ok {
		return g.recordLiteral(a, data)
	}

	expr, err := goparser.ParseExpr(resolved)
	if err != nil {
		return "", fmt.Errorf("invalid type: %s", goType)
	}

	switch t := expr.(type) {
	case *ast.Ident:
		return g.scalarLiteral(t.Name, data)

	case *ast.ArrayType:
		if t.Len == nil {
			break
		}
		elem := types.ExprString(t.Elt)
		size, err := g.registry.SizeOf(elem)
		if err != nil {
			return "", err
		}
		if size == 0 {
			return "{}", nil
		}
		var parts []string
		for off := int64(0); off < int64(len(data)); off += size {
			s, err := g.literal(elem, data[off:off+size])
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	}

	return "", fmt.Errorf("cannot render %s as a literal", goType)
}

func (g *Generator) recordLiteral(a *analyzer.AnalyzedLayout, data []byte) (string, error) {
	if len(a.Fields) == 0 {
		// Defined type over a scalar or array
		return g.literal(a.Record.Underlying, data)
	}
	var parts []string
	for _, f := range a.Fields {
		if f.Name == "_" || f.Size == 0 {
			continue
		}
		s, err := g.literal(f.GoType, data[f.Offset:f.End()])
		if err != nil {
			return "", fmt.Errorf("field %s: %w", f.Name, err)
		}
		parts = append(parts, f.Name+": "+s)
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

func (g *Generator) scalarLiteral(name string, data []byte) (string, error) {
	order := g.opts.ByteOrder
	word := g.registry.WordSize()

	switch name {
	case "int", "uint", "uintptr":
		switch word {
		case 4:
			name = map[string]string{"int": "int32", "uint": "uint32", "uintptr": "uint32"}[name]
		default:
			name = map[string]string{"int": "int64", "uint": "uint64", "uintptr": "uint64"}[name]
		}
	case "byte":
		name = "uint8"
	case "rune":
		name = "int32"
	}

	switch name {
	case "uint8":
		return strconv.FormatUint(uint64(data[0]), 10), nil
	case "int8":
		return strconv.FormatInt(int64(int8(data[0])), 10), nil
	case "uint16":
		return strconv.FormatUint(uint64(order.Uint16(data)), 10), nil
	case "int16":
		return strconv.FormatInt(int64(int16(order.Uint16(data))), 10), nil
	case "uint32":
		return fmt.Sprintf("%#x", order.Uint32(data)), nil
	case "int32":
		return strconv.FormatInt(int64(int32(order.Uint32(data))), 10), nil
	case "uint64":
		return fmt.Sprintf("%#x", order.Uint64(data)), nil
	case "int64":
		return strconv.FormatInt(int64(order.Uint64(data)), 10), nil
	case "float32":
		bits := order.Uint32(data)
		f := math.Float32frombits(bits)
		if !exact(float64(f)) {
			g.needMath = true
			return fmt.Sprintf("math.Float32frombits(%#x)", bits), nil
		}
		return strconv.FormatFloat(float64(f), 'g', -1, 32), nil
	case "float64":
		bits := order.Uint64(data)
		f := math.Float64frombits(bits)
		if !exact(f) {
			g.needMath = true
			return fmt.Sprintf("math.Float64frombits(%#x)", bits), nil
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	}
	return "", fmt.Errorf("cannot render %s as a literal", name)
}

// exact reports whether a float constant literal reproduces f bit for bit.
func exact(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && !(f == 0 && math.Signbit(f))
}
