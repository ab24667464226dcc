package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Repr is the memory representation a record declares.
type Repr int

const (
	ReprNone        Repr = iota // no repr given
	ReprC                       // C-compatible field order and alignment
	ReprTransparent             // same layout as the single wrapped type
)

func (r Repr) String() string {
	switch r {
	case ReprNone:
		return "none"
	case ReprC:
		return "C"
	case ReprTransparent:
		return "transparent"
	default:
		return "unknown"
	}
}

// TypeAnnotation holds a parsed @pod annotation
type TypeAnnotation struct {
	Repr  Repr
	Align int // Required alignment in bytes (0 = natural)
}

var (
	podRe   = regexp.MustCompile(`^@pod(?:\s+(.*))?$`)
	pairRe  = regexp.MustCompile(`^(\w+)=(\w+)$`)
	embedRe = regexp.MustCompile(`^@embed(?:\s+(.*))?$`)
)

// ParseAnnotation parses @pod annotation from comment text
//
// Expected format:
//
//	// @pod
//	// @pod repr=C
//	// @pod repr=C align=8
//	// @pod repr=transparent
//
// Params are space-separated key=value pairs. A bare @pod declares no repr,
// which the analyzer rejects unless the struct carries a structs.HostLayout
// field.
func ParseAnnotation(comment string) (*TypeAnnotation, error) {
	matches := podRe.FindStringSubmatch(comment)
	if matches == nil {
		return nil, fmt.Errorf("no @pod annotation found")
	}

	anno := &TypeAnnotation{}
	for _, param := range strings.Fields(matches[1]) {
		pair := pairRe.FindStringSubmatch(param)
		if pair == nil {
			return nil, fmt.Errorf("malformed parameter: %s", param)
		}
		key, value := pair[1], pair[2]

		switch key {
		case "repr":
			switch value {
			case "C":
				anno.Repr = ReprC
			case "transparent":
				anno.Repr = ReprTransparent
			default:
				return nil, fmt.Errorf("repr must be 'C' or 'transparent', got: %s", value)
			}

		case "align":
			align, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid align value: %s", value)
			}
			if align <= 0 || (align&(align-1)) != 0 {
				return nil, fmt.Errorf("align must be a power of 2, got: %d", align)
			}
			anno.Align = align

		default:
			return nil, fmt.Errorf("unknown parameter: %s", key)
		}
	}

	return anno, nil
}

// FindAnnotation searches comment lines for a @pod annotation.
// It returns the parse error of the first @pod line that is malformed.
func FindAnnotation(comments []string) (*TypeAnnotation, bool, error) {
	for _, comment := range comments {
		if !podRe.MatchString(comment) {
			continue
		}
		anno, err := ParseAnnotation(comment)
		if err != nil {
			return nil, true, err
		}
		return anno, true, nil
	}
	return nil, false, nil
}

// EmbedDirective asks the generator to turn a file into a fixed-length array:
//
//	// @embed crcTable uint32 testdata/crc.bin
//
// emits var crcTable = [N]uint32{...} with N = file size / size(uint32).
type EmbedDirective struct {
	Name string
	Elem string
	Path string // relative to the source file
}

// ParseEmbed parses an @embed directive from comment text
func ParseEmbed(comment string) (*EmbedDirective, error) {
	matches := embedRe.FindStringSubmatch(comment)
	if matches == nil {
		return nil, fmt.Errorf("no @embed directive found")
	}
	args := strings.Fields(matches[1])
	if len(args) != 3 {
		return nil, fmt.Errorf("@embed wants NAME ELEM PATH, got %d arguments", len(args))
	}
	return &EmbedDirective{Name: args[0], Elem: args[1], Path: args[2]}, nil
}

// CleanComment removes comment markers from a line
// "// @pod repr=C" → "@pod repr=C"
// "/* @pod repr=C */" → "@pod repr=C"
func CleanComment(line string) string {
	line = strings.TrimSpace(line)

	// Remove // prefix
	if strings.HasPrefix(line, "//") {
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimSpace(line)
		return line
	}

	// Remove /* */ wrapper
	if strings.HasPrefix(line, "/*") && strings.HasSuffix(line, "*/") {
		line = strings.TrimPrefix(line, "/*")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimSpace(line)
		return line
	}

	return line
}
