package parser

import (
	"strings"
	"testing"
)

func TestParseFile(t *testing.T) {
	file, err := ParseFile("testdata/simple.go")
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}

	if file.Package != "testdata" {
		t.Errorf("Package = %q, want %q", file.Package, "testdata")
	}

	// Ignored has no @pod annotation
	if len(file.Records) != 2 {
		t.Fatalf("ParseFile() found %d records, want 2", len(file.Records))
	}

	frame := file.Records[0]
	if frame.Name != "Frame" {
		t.Errorf("records[0].Name = %q, want %q", frame.Name, "Frame")
	}
	if frame.Anno.Repr != ReprC {
		t.Errorf("Frame.Anno.Repr = %v, want C", frame.Anno.Repr)
	}
	if frame.Shape != Named {
		t.Errorf("Frame.Shape = %v, want named", frame.Shape)
	}
	if len(frame.Fields) != 2 {
		t.Fatalf("Frame has %d fields, want 2", len(frame.Fields))
	}
	if f := frame.Fields[1]; f.Name != "Flags" || f.GoType != "uint32" || f.Layout.Offset != 4 || f.Layout.Alias != "Bits" {
		t.Errorf("fields[1] = %+v (layout %+v), want Flags uint32 @4 name=Bits", f, *f.Layout)
	}
	if frame.Pos.Line != 6 {
		t.Errorf("Frame.Pos.Line = %d, want 6", frame.Pos.Line)
	}

	header := file.Records[1]
	if !header.HostLayout {
		t.Error("Header.HostLayout = false, want true")
	}
	if header.Anno.Repr != ReprNone || header.Anno.Align != 8 {
		t.Errorf("Header.Anno = %+v, want no repr, align 8", *header.Anno)
	}
	if len(header.Fields) != 5 {
		t.Fatalf("Header has %d fields, want 5", len(header.Fields))
	}
	wantTypes := []string{"structs.HostLayout", "[0]uint64", "[4]byte", "uint32", "uint64"}
	for i, want := range wantTypes {
		if got := header.Fields[i].GoType; got != want {
			t.Errorf("Header.Fields[%d].GoType = %q, want %q", i, got, want)
		}
	}
	if !header.Fields[4].Layout.Omit {
		t.Error("Header.Unused should be omitted")
	}
	if header.Fields[3].Layout.Offset != 4 {
		t.Errorf("Header.Len offset = %d, want 4", header.Fields[3].Layout.Offset)
	}
	if header.Fields[1].Layout.Offset != -1 {
		t.Errorf("untagged field offset = %d, want -1", header.Fields[1].Layout.Offset)
	}
}

func TestParseShapes(t *testing.T) {
	file, err := ParseFile("testdata/complex.go")
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}

	tests := []struct {
		name   string
		shape  Shape
		params int
	}{
		{"Pair", Positional, 0},
		{"PageID", Defined, 0},
		{"Shape", Enum, 0},
		{"Number", Union, 0},
		{"Box", Named, 1},
		{"Point", Named, 0},
	}
	if len(file.Records) != len(tests) {
		t.Fatalf("found %d records, want %d", len(file.Records), len(tests))
	}
	for i, tt := range tests {
		rec := file.Records[i]
		if rec.Name != tt.name {
			t.Errorf("records[%d].Name = %q, want %q", i, rec.Name, tt.name)
			continue
		}
		if rec.Shape != tt.shape {
			t.Errorf("%s.Shape = %v, want %v", rec.Name, rec.Shape, tt.shape)
		}
		if len(rec.TypeParams) != tt.params {
			t.Errorf("%s has %d type params, want %d", rec.Name, len(rec.TypeParams), tt.params)
		}
	}

	pair := file.Records[0]
	if pair.Fields[0].Name != "uint32" || !pair.Fields[0].Embedded {
		t.Errorf("Pair.Fields[0] = %+v, want embedded uint32", pair.Fields[0])
	}
	if pid := file.Records[1]; pid.Underlying != "uint64" || pid.Anno.Repr != ReprTransparent {
		t.Errorf("PageID = %+v, want transparent uint64", *pid)
	}
	if point := file.Records[5]; len(point.Fields) != 2 || point.Fields[1].Name != "Y" {
		t.Errorf("Point fields = %+v, want X, Y", point.Fields)
	}

	if len(file.Embeds) != 1 {
		t.Fatalf("found %d embeds, want 1", len(file.Embeds))
	}
	if e := file.Embeds[0]; e.Name != "crcTable" || e.Elem != "uint32" || e.Path != "crc.bin" {
		t.Errorf("embed = %+v, want crcTable uint32 crc.bin", *e.EmbedDirective)
	}
	if !file.HasWork() {
		t.Error("HasWork() = false, want true")
	}
}

func TestParseSourceErrors(t *testing.T) {
	src := `package p

// @pod repr=packed
type A struct{ X uint8 }

// @pod repr=C
type B struct {
	X uint8 ` + "`pod:\"@x\"`" + `
}

// @pod repr=C
type C struct{ X uint8 }

// @embed onlyname
`
	file, err := ParseSource("p.go", src)
	if err == nil {
		t.Fatal("ParseSource() expected error, got nil")
	}

	for _, want := range []string{
		"p.go:4:6: A: repr must be 'C' or 'transparent'",
		"p.go:7:6: B: field X: invalid offset: @x",
		"p.go:14:1: @embed wants NAME ELEM PATH",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not contain %q", err, want)
		}
	}

	// Valid records are still returned
	if len(file.Records) != 1 || file.Records[0].Name != "C" {
		t.Errorf("records = %v, want [C]", file.Records)
	}
}

func TestParseSourceSyntaxError(t *testing.T) {
	_, err := ParseSource("bad.go", "package p\ntype {")
	if err == nil || !strings.Contains(err.Error(), "parse error") {
		t.Errorf("ParseSource() error = %v, want parse error", err)
	}
}
