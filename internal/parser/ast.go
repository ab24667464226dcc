package parser

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path"
	"reflect"
	"strconv"
	"strings"
)

// Shape is the declaration form of an annotated type
type Shape int

const (
	Named      Shape = iota // struct with named fields
	Positional              // struct whose fields are all embedded
	Defined                 // defined non-struct type: type ID uint64
	Enum                    // interface with a method set (sealed sum type)
	Union                   // interface with type terms
)

func (s Shape) String() string {
	switch s {
	case Named:
		return "named"
	case Positional:
		return "positional"
	case Defined:
		return "defined"
	case Enum:
		return "enum"
	case Union:
		return "union"
	default:
		return "unknown"
	}
}

// Record represents a type declaration carrying a @pod annotation
type Record struct {
	Name       string
	Pos        token.Position
	Anno       *TypeAnnotation
	Shape      Shape
	TypeParams []string
	Underlying string // type expression of a Defined record
	HostLayout bool   // has a _ structs.HostLayout field
	Fields     []Field
}

// Field represents a struct field of a record
type Field struct {
	Name     string // "_" for blank fields, the type name for embedded ones
	GoType   string
	Embedded bool
	Layout   *FieldLayout // never nil, Offset is -1 when untagged
}

// Embed is an @embed directive found in a file
type Embed struct {
	*EmbedDirective
	Pos token.Position
}

// File is the result of parsing one Go source file
type File struct {
	Path    string
	Package string
	Imports map[string]string // local name → import path
	Records []*Record
	Embeds  []*Embed
}

// HasWork reports whether the file needs a generated companion
func (f *File) HasWork() bool {
	return len(f.Records) > 0 || len(f.Embeds) > 0
}

// ParseFile parses a Go source file and extracts types with @pod annotations
func ParseFile(filename string) (*File, error) {
	return ParseSource(filename, nil)
}

// ParseSource is ParseFile for source held in memory. src follows the rules
// of go/parser.ParseFile.
func ParseSource(filename string, src any) (*File, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	out := &File{
		Path:    filename,
		Package: file.Name.Name,
		Imports: imports(file),
	}

	var errs []error
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec := spec.(*ast.TypeSpec)
			if typeSpec.Assign.IsValid() {
				continue // Alias, nothing to generate
			}

			doc := typeSpec.Doc
			if doc == nil && len(genDecl.Specs) == 1 {
				doc = genDecl.Doc
			}
			anno, found, err := extractAnnotation(doc)
			if !found {
				continue // No @pod, skip this type
			}
			pos := fset.Position(typeSpec.Pos())
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %s: %w", pos, typeSpec.Name.Name, err))
				continue
			}

			rec, err := buildRecord(typeSpec, anno, out.Imports)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %s: %w", pos, typeSpec.Name.Name, err))
				continue
			}
			rec.Pos = pos
			out.Records = append(out.Records, rec)
		}
	}

	for _, group := range file.Comments {
		for _, c := range group.List {
			line := CleanComment(c.Text)
			if !embedRe.MatchString(line) {
				continue
			}
			pos := fset.Position(c.Pos())
			dir, err := ParseEmbed(line)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", pos, err))
				continue
			}
			out.Embeds = append(out.Embeds, &Embed{EmbedDirective: dir, Pos: pos})
		}
	}

	if len(errs) > 0 {
		return out, errors.Join(errs...)
	}
	return out, nil
}

func imports(file *ast.File) map[string]string {
	m := make(map[string]string, len(file.Imports))
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := path.Base(p)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		m[name] = p
	}
	return m
}

func extractAnnotation(doc *ast.CommentGroup) (*TypeAnnotation, bool, error) {
	if doc == nil {
		return nil, false, nil
	}

	// Extract comment text lines
	var lines []string
	for _, comment := range doc.List {
		lines = append(lines, CleanComment(comment.Text))
	}

	return FindAnnotation(lines)
}

func buildRecord(spec *ast.TypeSpec, anno *TypeAnnotation, imports map[string]string) (*Record, error) {
	rec := &Record{
		Name: spec.Name.Name,
		Anno: anno,
	}
	if spec.TypeParams != nil {
		for _, field := range spec.TypeParams.List {
			for _, name := range field.Names {
				rec.TypeParams = append(rec.TypeParams, name.Name)
			}
		}
	}

	switch t := spec.Type.(type) {
	case *ast.StructType:
		fields, err := extractFields(t)
		if err != nil {
			return nil, err
		}
		rec.Fields = fields
		rec.Shape = structShape(fields)
		for _, f := range fields {
			if f.Name == "_" && isHostLayout(f.GoType, imports) {
				rec.HostLayout = true
			}
		}

	case *ast.InterfaceType:
		rec.Shape = interfaceShape(t)

	default:
		rec.Shape = Defined
		rec.Underlying = types.ExprString(spec.Type)
	}

	return rec, nil
}

func structShape(fields []Field) Shape {
	if len(fields) == 0 {
		return Named
	}
	for _, f := range fields {
		if !f.Embedded {
			return Named
		}
	}
	return Positional
}

func interfaceShape(t *ast.InterfaceType) Shape {
	for _, m := range t.Methods.List {
		if len(m.Names) > 0 {
			continue
		}
		switch m.Type.(type) {
		case *ast.BinaryExpr, *ast.UnaryExpr:
			return Union
		}
	}
	return Enum
}

func isHostLayout(goType string, imports map[string]string) bool {
	pkg, name, ok := strings.Cut(goType, ".")
	return ok && name == "HostLayout" && imports[pkg] == "structs"
}

func extractFields(structType *ast.StructType) ([]Field, error) {
	var fields []Field
	var errs []error

	for _, field := range structType.Fields.List {
		layout := &FieldLayout{Offset: -1}
		if field.Tag != nil {
			tag := reflect.StructTag(strings.Trim(field.Tag.Value, "`"))
			if podTag, ok := tag.Lookup("pod"); ok {
				parsed, err := ParseTag(podTag)
				if err != nil {
					errs = append(errs, fmt.Errorf("field %s: %w", fieldLabel(field), err))
					continue
				}
				layout = parsed
			}
		}

		goType := types.ExprString(field.Type)
		if len(field.Names) == 0 {
			fields = append(fields, Field{
				Name:     embeddedName(field.Type),
				GoType:   goType,
				Embedded: true,
				Layout:   layout,
			})
			continue
		}

		for _, name := range field.Names {
			fields = append(fields, Field{
				Name:   name.Name,
				GoType: goType,
				Layout: layout,
			})
		}
	}

	return fields, errors.Join(errs...)
}

func fieldLabel(field *ast.Field) string {
	if len(field.Names) > 0 {
		return field.Names[0].Name
	}
	return embeddedName(field.Type)
}

// embeddedName returns the implicit field name of an embedded type
func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.IndexExpr:
		return embeddedName(t.X)
	case *ast.IndexListExpr:
		return embeddedName(t.X)
	default:
		return types.ExprString(expr)
	}
}
