package codegen

import (
	"encoding/binary"
	"fmt"
	"go/ast"
	"go/format"
	goparser "go/parser"
	"path"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alexhholmes/dataview/internal/analyzer"
	"github.com/alexhholmes/dataview/internal/parser"
)

// ImportPath is the import path of the runtime package generated code uses.
const ImportPath = "github.com/alexhholmes/dataview"

// Options configures a Generator
type Options struct {
	Package   string           // package clause of the generated file
	Source    string           // source file name, for the header comment
	Offsets   bool             // emit offset constants and field tables
	ByteOrder binary.ByteOrder // target byte order for @embed data

	// Imports maps the package names used in the source file to import
	// paths. Field types naming another package need an entry.
	Imports map[string]string
}

// Embed is an @embed directive together with the bytes it names
type Embed struct {
	Name string
	Elem string
	Data []byte
}

// Generator generates the companion file of one source file: witness
// methods, static layout assertions, offset tables and embedded arrays.
type Generator struct {
	opts     Options
	registry *analyzer.TypeRegistry
	layouts  []*analyzer.AnalyzedLayout
	byName   map[string]*analyzer.AnalyzedLayout
	embeds   []embedLit

	needMath   bool
	qualifiers map[string]bool // package names referenced by the body
}

type embedLit struct {
	Embed
	count int64
	elems []string
}

// NewGenerator creates a new code generator
func NewGenerator(reg *analyzer.TypeRegistry, opts Options) *Generator {
	if opts.ByteOrder == nil {
		opts.ByteOrder = binary.LittleEndian
	}
	return &Generator{
		opts:       opts,
		registry:   reg,
		byName:     make(map[string]*analyzer.AnalyzedLayout),
		qualifiers: make(map[string]bool),
	}
}

// AddLayout queues a record. Only valid layouts are accepted.
func (g *Generator) AddLayout(a *analyzer.AnalyzedLayout) error {
	if a == nil || !a.IsValid() {
		return fmt.Errorf("cannot generate invalid layout")
	}
	g.layouts = append(g.layouts, a)
	g.byName[a.TypeName()] = a
	return nil
}

// AddEmbed decodes an @embed file into array elements. The element type
// must be plain data and the data length a multiple of its size. Records
// used as element type must be added first.
func (g *Generator) AddEmbed(e Embed) error {
	info, err := g.registry.Info(e.Elem)
	if err != nil {
		return fmt.Errorf("embed %s: %w", e.Name, err)
	}
	if !info.Plain {
		return fmt.Errorf("embed %s: %s", e.Name, info.Why)
	}
	if info.Size == 0 {
		return fmt.Errorf("embed %s: cannot embed zero-sized %s", e.Name, e.Elem)
	}
	if int64(len(e.Data))%info.Size != 0 {
		return fmt.Errorf("embed %s: %d bytes is not a multiple of %s size %d",
			e.Name, len(e.Data), e.Elem, info.Size)
	}

	lit := embedLit{Embed: e, count: int64(len(e.Data)) / info.Size}
	for off := int64(0); off < int64(len(e.Data)); off += info.Size {
		s, err := g.literal(e.Elem, e.Data[off:off+info.Size])
		if err != nil {
			return fmt.Errorf("embed %s: %w", e.Name, err)
		}
		lit.elems = append(lit.elems, s)
	}
	g.embeds = append(g.embeds, lit)
	return nil
}

// Generate returns the gofmt-ed companion file
func (g *Generator) Generate() ([]byte, error) {
	var body strings.Builder
	for _, a := range g.layouts {
		body.WriteString(g.generateWitness(a))
		body.WriteString(g.generateAssertions(a))
		if g.opts.Offsets && a.Record.Shape != parser.Defined {
			body.WriteString(g.generateOffsets(a))
		}
	}
	for _, e := range g.embeds {
		body.WriteString(g.generateEmbed(e))
	}

	var out strings.Builder
	out.WriteString("// Code generated by podgen. DO NOT EDIT.\n")
	if g.opts.Source != "" {
		fmt.Fprintf(&out, "// source: %s\n", g.opts.Source)
	}
	fmt.Fprintf(&out, "\npackage %s\n\n", g.opts.Package)

	imports, err := g.imports(body.String())
	if err != nil {
		return nil, err
	}
	if len(imports) > 0 {
		out.WriteString("import (\n")
		for _, imp := range imports {
			if imp.name != "" {
				fmt.Fprintf(&out, "\t%s %q\n", imp.name, imp.path)
			} else {
				fmt.Fprintf(&out, "\t%q\n", imp.path)
			}
		}
		out.WriteString(")\n\n")
	}
	out.WriteString(body.String())

	src, err := format.Source([]byte(out.String()))
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w", err)
	}
	return src, nil
}

type importSpec struct {
	name string // empty when it matches the last path element
	path string
}

func (g *Generator) imports(body string) ([]importSpec, error) {
	var imports []importSpec
	if g.needMath {
		imports = append(imports, importSpec{path: "math"})
	}
	if strings.Contains(body, "unsafe.") {
		imports = append(imports, importSpec{path: "unsafe"})
	}
	if strings.Contains(body, "dataview.") {
		imports = append(imports, importSpec{path: ImportPath})
	}

	for q := range g.qualifiers {
		p, ok := g.opts.Imports[q]
		if !ok {
			if q == "dataview" {
				continue // added above
			}
			return nil, fmt.Errorf("package %s is not imported by %s", q, g.opts.Source)
		}
		if p == ImportPath && q == "dataview" {
			continue
		}
		spec := importSpec{path: p}
		if path.Base(p) != q {
			spec.name = q
		}
		imports = append(imports, spec)
	}

	sort.Slice(imports, func(i, j int) bool {
		if imports[i].path != imports[j].path {
			return imports[i].path < imports[j].path
		}
		return imports[i].name < imports[j].name
	})
	return imports, nil
}

// qualify records the package names a type expression refers to.
func (g *Generator) qualify(goType string) {
	expr, err := goparser.ParseExpr(goType)
	if err != nil {
		return
	}
	ast.Inspect(expr, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok {
				g.qualifiers[id.Name] = true
			}
			return false
		}
		return true
	})
}

// generateWitness emits the PlainData method
func (g *Generator) generateWitness(a *analyzer.AnalyzedLayout) string {
	return fmt.Sprintf("// PlainData marks %s as plain data.\nfunc (%s) PlainData() {}\n\n", a.TypeName(), a.TypeName())
}

// generateAssertions emits a func _() that fails to compile when the
// layout the compiler picks differs from the analyzed one.
func (g *Generator) generateAssertions(a *analyzer.AnalyzedLayout) string {
	var b strings.Builder
	name := a.TypeName()
	zero := "*new(" + name + ")"

	b.WriteString("func _() {\n")
	b.WriteString("\tvar x [1]struct{}\n")
	fmt.Fprintf(&b, "\t// %s has no padding: size equals the field sum.\n", name)
	fmt.Fprintf(&b, "\t_ = x[unsafe.Sizeof(%s)-%d]\n", zero, a.FieldSum)
	fmt.Fprintf(&b, "\t_ = x[unsafe.Alignof(%s)-%d]\n", zero, a.Align)

	for _, f := range a.Fields {
		if f.Name == "_" {
			continue
		}
		fmt.Fprintf(&b, "\t_ = x[unsafe.Offsetof(%s{}.%s)-%d]\n", name, f.Name, f.Offset)
	}

	seen := make(map[string]bool)
	for _, f := range a.Fields {
		if !f.Type.Witness || seen[f.GoType] {
			continue
		}
		seen[f.GoType] = true
		g.qualify(f.GoType)
		fmt.Fprintf(&b, "\tvar _ dataview.Witness = (*%s)(nil)\n", f.GoType)
	}
	b.WriteString("}\n\n")
	return b.String()
}

// generateOffsets emits offset and end constants plus the field table
func (g *Generator) generateOffsets(a *analyzer.AnalyzedLayout) string {
	var b strings.Builder
	name := a.TypeName()

	var fields []analyzer.FieldInfo
	for _, f := range a.Fields {
		if f.InTable() {
			fields = append(fields, f)
		}
	}

	b.WriteString("const (\n")
	fmt.Fprintf(&b, "\t%sSize = unsafe.Sizeof(%s{})\n", name, name)
	for _, f := range fields {
		c := upperFirst(f.ConstName())
		fmt.Fprintf(&b, "\t%sOffset%s = unsafe.Offsetof(%s{}.%s)\n", name, c, name, f.Name)
		fmt.Fprintf(&b, "\t%sEnd%s = %sOffset%s + unsafe.Sizeof(%s{}.%s)\n", name, c, name, c, name, f.Name)
	}
	b.WriteString(")\n\n")

	fmt.Fprintf(&b, "// %sFields is the field offset table of %s.\n", name, name)
	fmt.Fprintf(&b, "var %sFields = [...]dataview.FieldOffset{\n", name)
	for _, f := range fields {
		c := upperFirst(f.ConstName())
		fmt.Fprintf(&b, "\t{Name: %q, FieldSpan: dataview.FieldSpan{Start: %sOffset%s, End: %sEnd%s}},\n",
			f.Name, name, c, name, c)
	}
	b.WriteString("}\n\n")
	return b.String()
}

func (g *Generator) generateEmbed(e embedLit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "var %s = [%d]%s{", e.Name, e.count, e.Elem)
	for i, s := range e.elems {
		if i%8 == 0 {
			b.WriteString("\n\t")
		} else {
			b.WriteString(" ")
		}
		b.WriteString(s)
		b.WriteString(",")
	}
	b.WriteString("\n}\n\n")
	return b.String()
}

func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// HasWork reports whether anything was queued
func (g *Generator) HasWork() bool {
	return len(g.layouts) > 0 || len(g.embeds) > 0
}

// Records returns the names of the queued records
func (g *Generator) Records() []string {
	names := make([]string, len(g.layouts))
	for i, a := range g.layouts {
		names[i] = a.TypeName()
	}
	return names
}
