package analyzer

import (
	"errors"
	"fmt"
	"go/token"

	"github.com/alexhholmes/dataview/internal/parser"
)

// Kind classifies a Diagnostic
type Kind int

const (
	MissingRepr Kind = iota
	EnumRecord
	UnionRecord
	GenericRecord
	NotPlain
	UnknownType
	Padding
	Alignment
	OffsetMismatch
	Transparent
)

func (k Kind) String() string {
	switch k {
	case MissingRepr:
		return "missing-repr"
	case EnumRecord:
		return "enum"
	case UnionRecord:
		return "union"
	case GenericRecord:
		return "generic"
	case NotPlain:
		return "not-plain"
	case UnknownType:
		return "unknown-type"
	case Padding:
		return "padding"
	case Alignment:
		return "alignment"
	case OffsetMismatch:
		return "offset"
	case Transparent:
		return "transparent"
	default:
		return "unknown"
	}
}

// Diagnostic is a rejection of a record, naming the record and, where it
// applies, the offending field.
type Diagnostic struct {
	Kind   Kind
	Pos    token.Position
	Record string
	Field  string
	Detail string
}

func (d *Diagnostic) Error() string {
	prefix := d.Record
	if d.Pos.IsValid() {
		prefix = d.Pos.String() + ": " + d.Record
	}
	return prefix + ": " + d.Detail
}

// FieldInfo is the computed placement of one field
type FieldInfo struct {
	parser.Field
	Offset int64
	Size   int64
	Align  int64
	Type   TypeInfo
}

// End returns the offset one past the last byte of the field
func (f FieldInfo) End() int64 {
	return f.Offset + f.Size
}

// ConstName returns the name used for the field's generated constants
func (f FieldInfo) ConstName() string {
	if f.Layout != nil && f.Layout.Alias != "" {
		return f.Layout.Alias
	}
	return f.Name
}

// InTable reports whether the field gets offset constants
func (f FieldInfo) InTable() bool {
	return f.Name != "_" && (f.Layout == nil || !f.Layout.Omit)
}

// AnalyzedLayout contains the computed memory layout of a record
type AnalyzedLayout struct {
	Record      *parser.Record
	Repr        parser.Repr // effective repr, HostLayout counts as C
	Size        int64
	Align       int64
	FieldSum    int64
	Fields      []FieldInfo
	Diagnostics []*Diagnostic
}

// TypeName returns the record name
func (a *AnalyzedLayout) TypeName() string {
	return a.Record.Name
}

// IsValid returns true if layout has no errors
func (a *AnalyzedLayout) IsValid() bool {
	return len(a.Diagnostics) == 0
}

func (a *AnalyzedLayout) reject(kind Kind, field, format string, args ...any) {
	a.Diagnostics = append(a.Diagnostics, &Diagnostic{
		Kind:   kind,
		Pos:    a.Record.Pos,
		Record: a.Record.Name,
		Field:  field,
		Detail: fmt.Sprintf(format, args...),
	})
}

// Analyze validates a record and computes its layout with the gc rules of
// the registry's architecture. A valid record is registered so later
// records can embed it.
func Analyze(rec *parser.Record, registry *TypeRegistry) (*AnalyzedLayout, error) {
	if rec == nil {
		return nil, fmt.Errorf("record is nil")
	}

	a := &AnalyzedLayout{Record: rec, Repr: effectiveRepr(rec)}

	// Phase 1: Shape
	switch {
	case rec.Shape == parser.Enum:
		a.reject(EnumRecord, "", "cannot implement for enum")
	case rec.Shape == parser.Union:
		a.reject(UnionRecord, "", "cannot implement for union")
	case len(rec.TypeParams) > 0:
		a.reject(GenericRecord, "", "cannot implement for generic")
	case a.Repr == parser.ReprNone:
		a.reject(MissingRepr, "", "missing repr")
	case rec.Shape == parser.Defined && a.Repr != parser.ReprTransparent:
		a.reject(MissingRepr, "", "missing repr: defined type %s needs repr=transparent", rec.Underlying)
	}
	if !a.IsValid() {
		return a, fmt.Errorf("%s: layout has %d errors", rec.Name, len(a.Diagnostics))
	}

	// Phase 2: Placement
	if rec.Shape == parser.Defined {
		analyzeDefined(a, registry)
	} else {
		analyzeStruct(a, registry)
	}

	// Phase 3: Declared constraints
	if a.IsValid() {
		checkTransparent(a)
		checkPadding(a)
		checkAlign(a)
		checkOffsets(a)
	}

	if !a.IsValid() {
		return a, fmt.Errorf("%s: layout has %d errors", rec.Name, len(a.Diagnostics))
	}

	registry.Register(rec.Name, TypeInfo{
		Size:    a.Size,
		Align:   a.Align,
		Plain:   true,
		Witness: true,
	})
	return a, nil
}

// AnalyzeAll analyzes records in dependency order, so a record may use
// another record declared later in the same package. Results follow the
// input order; the error joins every Diagnostic.
func AnalyzeAll(records []*parser.Record, registry *TypeRegistry) ([]*AnalyzedLayout, error) {
	results := make(map[*parser.Record]*AnalyzedLayout, len(records))
	pending := records
	for len(pending) > 0 {
		var next []*parser.Record
		for _, rec := range pending {
			if !ready(rec, registry) {
				next = append(next, rec)
				continue
			}
			results[rec], _ = Analyze(rec, registry)
		}
		if len(next) == len(pending) {
			// Cycle or a genuinely unknown type: report it
			for _, rec := range next {
				results[rec], _ = Analyze(rec, registry)
			}
			break
		}
		pending = next
	}

	out := make([]*AnalyzedLayout, 0, len(records))
	var errs []error
	for _, rec := range records {
		a := results[rec]
		out = append(out, a)
		for _, d := range a.Diagnostics {
			errs = append(errs, d)
		}
	}
	return out, errors.Join(errs...)
}

func ready(rec *parser.Record, registry *TypeRegistry) bool {
	if rec.Shape == parser.Defined {
		return registry.Known(rec.Underlying)
	}
	for _, f := range rec.Fields {
		if !registry.Known(f.GoType) {
			return false
		}
	}
	return true
}

func effectiveRepr(rec *parser.Record) parser.Repr {
	if rec.Anno == nil {
		return parser.ReprNone
	}
	if rec.Anno.Repr == parser.ReprNone && rec.HostLayout {
		return parser.ReprC
	}
	return rec.Anno.Repr
}

func analyzeDefined(a *AnalyzedLayout, registry *TypeRegistry) {
	info, err := registry.Info(a.Record.Underlying)
	if err != nil {
		a.reject(UnknownType, "", "underlying type: %v", err)
		return
	}
	if !info.Plain {
		a.reject(NotPlain, "", "underlying %s", info.Why)
		return
	}
	a.Size = info.Size
	a.Align = info.Align
	a.FieldSum = info.Size
}

// analyzeStruct places fields the way the gc compiler does: each field at
// the next multiple of its alignment, one extra byte after a trailing
// zero-sized field of a non-empty struct, and the total rounded up to the
// struct alignment.
func analyzeStruct(a *AnalyzedLayout, registry *TypeRegistry) {
	var offset int64
	align := int64(1)

	for _, field := range a.Record.Fields {
		info, err := registry.Info(field.GoType)
		if err != nil {
			a.reject(UnknownType, field.Name, "field %s: %v", field.Name, err)
			continue
		}
		if !info.Plain {
			a.reject(NotPlain, field.Name, "field %s: %s", field.Name, info.Why)
			continue
		}

		offset = alignUp(offset, info.Align)
		a.Fields = append(a.Fields, FieldInfo{
			Field:  field,
			Offset: offset,
			Size:   info.Size,
			Align:  info.Align,
			Type:   info,
		})
		offset += info.Size
		a.FieldSum += info.Size
		align = max(align, info.Align)
	}

	if n := len(a.Fields); n > 0 && offset > 0 && a.Fields[n-1].Size == 0 {
		offset++
	}
	a.Size = alignUp(offset, align)
	a.Align = align
}

func checkTransparent(a *AnalyzedLayout) {
	if a.Repr != parser.ReprTransparent || a.Record.Shape == parser.Defined {
		return
	}
	sized := 0
	for _, f := range a.Fields {
		if f.Size > 0 {
			sized++
		}
	}
	if sized != 1 {
		a.reject(Transparent, "", "repr=transparent needs exactly one non-zero-sized field, found %d", sized)
	}
}

func checkPadding(a *AnalyzedLayout) {
	if a.Size == a.FieldSum {
		return
	}
	var sum int64
	for _, f := range a.Fields {
		if f.Offset != sum {
			a.reject(Padding, f.Name, "padding present: size %d != field sum %d, first gap before field %s",
				a.Size, a.FieldSum, f.Name)
			return
		}
		sum += f.Size
	}
	a.reject(Padding, "", "padding present: size %d != field sum %d", a.Size, a.FieldSum)
}

func checkAlign(a *AnalyzedLayout) {
	want := int64(a.Record.Anno.Align)
	if want == 0 || want == a.Align {
		return
	}
	if want > a.Align {
		a.reject(Alignment, "", "align=%d but computed alignment is %d, add a leading zero-sized field aligned to %d",
			want, a.Align, want)
		return
	}
	a.reject(Alignment, "", "align=%d is below the natural alignment %d", want, a.Align)
}

func checkOffsets(a *AnalyzedLayout) {
	for _, f := range a.Fields {
		if f.Layout == nil || f.Layout.Offset < 0 {
			continue
		}
		if int64(f.Layout.Offset) != f.Offset {
			a.reject(OffsetMismatch, f.Name, "field %s: declared @%d but offset is %d",
				f.Name, f.Layout.Offset, f.Offset)
		}
	}
}

func alignUp(n, align int64) int64 {
	if align <= 1 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}
