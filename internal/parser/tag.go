package parser

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"
)

// FieldLayout is the parsed pod struct tag of a field
type FieldLayout struct {
	Offset int    // Expected byte offset, -1 if not declared
	Omit   bool   // Leave the field out of the offset table
	Alias  string // Name used for the generated constants (empty = field name)
}

// ParseTag parses pod struct tags
//
// Semantics:
//   - "@N"           : Field must sit at byte offset N
//   - "-"            : No offset constants for this field
//   - "name=Alias"   : Emit constants as <Record>Offset<Alias>
//   - "@N,name=X"    : Both
//
// Examples:
//
//	"@0"             → Offset 0
//	"@8,name=Len"    → Offset 8, constants named after Len
//	"-"              → Omitted
func ParseTag(tag string) (*FieldLayout, error) {
	if tag == "" {
		return nil, fmt.Errorf("empty pod tag")
	}

	f := &FieldLayout{Offset: -1}

	if tag == "-" {
		f.Omit = true
		return f, nil
	}

	for _, part := range strings.Split(tag, ",") {
		switch {
		case strings.HasPrefix(part, "@"):
			// Extract offset: "@8" → 8
			offset, err := strconv.Atoi(strings.TrimPrefix(part, "@"))
			if err != nil {
				return nil, fmt.Errorf("invalid offset: %s", part)
			}
			if offset < 0 {
				return nil, fmt.Errorf("offset must not be negative: %s", part)
			}
			if f.Offset >= 0 {
				return nil, fmt.Errorf("duplicate offset: %s", part)
			}
			f.Offset = offset

		case strings.HasPrefix(part, "name="):
			alias := strings.TrimPrefix(part, "name=")
			if !token.IsIdentifier(alias) {
				return nil, fmt.Errorf("name= requires an identifier, got: %q", alias)
			}
			f.Alias = alias

		case part == "-":
			return nil, fmt.Errorf("- cannot be combined with other parameters")

		default:
			return nil, fmt.Errorf("unknown parameter: %s", part)
		}
	}

	return f, nil
}
