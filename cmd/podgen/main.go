// Command podgen validates @pod records and writes their witness methods,
// layout assertions and offset tables to a generated companion file.
//
// Usage:
//
//	podgen [-config podgen.toml] [-dump] [-v] files-or-dirs...
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alexhholmes/dataview/internal/config"
	"github.com/alexhholmes/dataview/internal/podgen"
)

func main() {
	configPath := flag.String("config", "", "path to podgen.toml (default: search upward from the working directory)")
	dump := flag.Bool("dump", false, "print analyzed layouts instead of generating")
	verbose := flag.Bool("v", false, "verbose output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] files-or-dirs...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gen := podgen.New(cfg, podgen.WithLogger(log))

	if *dump {
		for _, p := range paths {
			if err := gen.Dump(ctx, p, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
		}
		return
	}

	results, err := gen.Run(ctx, paths)
	written := 0
	for _, r := range results {
		if r.Output != "" {
			written++
		}
	}
	log.Debug("done", zap.Int("files", len(results)), zap.Int("written", written))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		return config.FindAndLoad(wd)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return config.Parse(data, filepath.Dir(path))
}

func newLogger(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.DisableStacktrace = true
	return zc.Build()
}
