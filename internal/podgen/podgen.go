// Package podgen runs the generator over source files: parse, resolve
// foreign types, analyze, and write the companion file of each source.
package podgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/alexhholmes/dataview/internal/analyzer"
	"github.com/alexhholmes/dataview/internal/codegen"
	"github.com/alexhholmes/dataview/internal/config"
	"github.com/alexhholmes/dataview/internal/loader"
	"github.com/alexhholmes/dataview/internal/parser"
	"github.com/alexhholmes/dataview/internal/typeclass"
)

// LoadFunc loads the package in a directory.
type LoadFunc func(ctx context.Context, dir string) (*loader.Package, error)

// Result describes what happened to one source file.
type Result struct {
	Source  string
	Output  string // empty when nothing was written
	Records []string
	Embeds  int
}

// Generator runs the pipeline with one configuration.
type Generator struct {
	cfg      *config.Config
	log      *zap.Logger
	load     LoadFunc
	packages map[string]*loader.Package // dir → loaded package
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger. The default logs nothing.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithLoader replaces the package loader.
func WithLoader(fn LoadFunc) Option {
	return func(g *Generator) { g.load = fn }
}

// New returns a Generator.
func New(cfg *config.Config, opts ...Option) *Generator {
	g := &Generator{
		cfg:      cfg,
		log:      zap.NewNop(),
		load:     loader.Load,
		packages: make(map[string]*loader.Package),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run processes every path. Directories are expanded to their Go files,
// skipping tests and generated files. It keeps going after a failing file
// and returns all errors joined.
func (g *Generator) Run(ctx context.Context, paths []string) ([]*Result, error) {
	files, err := g.expand(paths)
	if err != nil {
		return nil, err
	}

	var results []*Result
	var errs []error
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := g.ProcessFile(ctx, file)
		if err != nil {
			g.log.Error("generation failed", zap.String("file", file), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

func (g *Generator) expand(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot stat %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(p, "*.go"))
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if strings.HasSuffix(m, "_test.go") || g.cfg.IsGenerated(m) {
				continue
			}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// ProcessFile generates the companion of one source file.
func (g *Generator) ProcessFile(ctx context.Context, path string) (*Result, error) {
	log := g.log.With(zap.String("file", path))
	res := &Result{Source: path}

	file, err := parser.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !file.HasWork() {
		log.Debug("no @pod or @embed, skipping")
		return res, nil
	}

	registry, err := analyzer.NewTypeRegistryFor(g.cfg.Arch, g.cfg.Int2Ptr)
	if err != nil {
		return nil, err
	}
	if g.cfg.Load {
		g.resolveForeign(ctx, log, file, registry)
	}

	layouts, err := analyzer.AnalyzeAll(file.Records, registry)
	if err != nil {
		for _, a := range layouts {
			for _, d := range a.Diagnostics {
				log.Warn("record rejected",
					zap.String("record", d.Record),
					zap.String("field", d.Field),
					zap.Stringer("kind", d.Kind),
					zap.String("detail", d.Detail))
			}
		}
		return nil, err
	}

	gen := codegen.NewGenerator(registry, codegen.Options{
		Package:   file.Package,
		Source:    filepath.Base(path),
		Offsets:   g.cfg.Offsets,
		ByteOrder: codegen.ByteOrderFor(g.cfg.Arch),
		Imports:   file.Imports,
	})
	for _, a := range layouts {
		if err := gen.AddLayout(a); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		log.Debug("record admitted",
			zap.String("record", a.TypeName()),
			zap.Int64("size", a.Size),
			zap.Int64("align", a.Align))
	}
	for _, e := range file.Embeds {
		data, err := g.readEmbed(path, e)
		if err != nil {
			return nil, err
		}
		err = gen.AddEmbed(codegen.Embed{Name: e.Name, Elem: e.Elem, Data: data})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Pos, err)
		}
	}

	src, err := gen.Generate()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	res.Output = g.cfg.OutputPath(path)
	if err := os.WriteFile(res.Output, src, 0o644); err != nil {
		return nil, fmt.Errorf("cannot write %s: %w", res.Output, err)
	}
	res.Records = gen.Records()
	res.Embeds = len(file.Embeds)
	log.Info("generated",
		zap.String("output", res.Output),
		zap.Strings("records", res.Records),
		zap.Int("embeds", res.Embeds))
	return res, nil
}

func (g *Generator) readEmbed(source string, e *parser.Embed) ([]byte, error) {
	path := e.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(source), path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%s: embed %s: %w", e.Pos, e.Name, err)
	}
	if info.Size() > g.cfg.Embed.MaxBytes {
		return nil, fmt.Errorf("%s: embed %s: %s is %d bytes, limit is %d (embed.max_bytes)",
			e.Pos, e.Name, e.Path, info.Size(), g.cfg.Embed.MaxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: embed %s: %w", e.Pos, e.Name, err)
	}
	return data, nil
}

// resolveForeign registers the field types the registry cannot size on its
// own, using the type-checked package. Types of the records being generated
// are left to the analyzer. Failures only cost precision, so they are
// logged and the analyzer reports what stays unknown.
func (g *Generator) resolveForeign(ctx context.Context, log *zap.Logger, file *parser.File, registry *analyzer.TypeRegistry) {
	dir := filepath.Dir(file.Path)
	pkg, ok := g.packages[dir]
	if !ok {
		var err error
		pkg, err = g.load(ctx, dir)
		if err != nil {
			log.Warn("cannot load package", zap.String("dir", dir), zap.Error(err))
			return
		}
		if err := pkg.Err(); err != nil {
			log.Debug("package has errors", zap.String("dir", dir), zap.Error(err))
		}
		g.packages[dir] = pkg
	}

	for name, v := range pkg.IntConsts() {
		registry.RegisterConst(name, v)
	}

	classifier, err := typeclass.New(g.cfg.Arch, g.cfg.Int2Ptr)
	if err != nil {
		log.Warn("cannot classify types", zap.Error(err))
		return
	}

	local := make(map[string]bool, len(file.Records))
	for _, rec := range file.Records {
		local[rec.Name] = true
	}

	for _, expr := range foreignTypes(file) {
		if registry.Known(expr) {
			continue
		}
		t, err := pkg.TypeOf(file.Path, expr)
		if err != nil {
			log.Debug("cannot resolve type", zap.String("type", expr), zap.Error(err))
			continue
		}
		if typeclass.Mentions(t, pkg.Types, local) {
			continue
		}
		registry.Register(expr, classifier.Classify(t))
	}
}

func foreignTypes(file *parser.File) []string {
	seen := make(map[string]bool)
	var exprs []string
	add := func(expr string) {
		if expr != "" && !seen[expr] {
			seen[expr] = true
			exprs = append(exprs, expr)
		}
	}
	for _, rec := range file.Records {
		add(rec.Underlying)
		for _, f := range rec.Fields {
			add(f.GoType)
		}
	}
	for _, e := range file.Embeds {
		add(e.Elem)
	}
	return exprs
}

// Dump writes the analyzed layout of every record in path without
// generating anything.
func (g *Generator) Dump(ctx context.Context, path string, w io.Writer) error {
	file, err := parser.ParseFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if len(file.Records) == 0 {
		fmt.Fprintln(w, "No types with @pod annotations found")
		return nil
	}

	registry, err := analyzer.NewTypeRegistryFor(g.cfg.Arch, g.cfg.Int2Ptr)
	if err != nil {
		return err
	}
	if g.cfg.Load {
		g.resolveForeign(ctx, g.log, file, registry)
	}
	layouts, _ := analyzer.AnalyzeAll(file.Records, registry)

	for _, a := range layouts {
		rec := a.Record
		fmt.Fprintf(w, "\n%s (%s, repr=%s, size=%d, align=%d)\n", rec.Name, rec.Shape, a.Repr, a.Size, a.Align)
		if len(a.Fields) > 0 {
			fmt.Fprintln(w, "Fields:")
		}
		for _, f := range a.Fields {
			fmt.Fprintf(w, "  %-15s %-20s @%d..%d\n", f.Name, f.GoType, f.Offset, f.End())
		}
		for _, d := range a.Diagnostics {
			fmt.Fprintf(w, "  error: %s\n", d.Detail)
		}
	}
	return nil
}
