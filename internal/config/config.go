// Package config handles podgen.toml generator configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "podgen.toml"

// Config represents a podgen.toml configuration.
type Config struct {
	Arch     string      `toml:"arch"`      // GOARCH whose layout rules apply
	Int2Ptr  bool        `toml:"int2ptr"`   // treat raw pointers as plain data
	Suffix   string      `toml:"suffix"`    // generated file suffix
	Offsets  bool        `toml:"offsets"`   // emit offset constants and tables
	Load     bool        `toml:"load"`      // type-check the package to size foreign types
	LogLevel string      `toml:"log_level"` // debug, info, warn, error
	Embed    EmbedConfig `toml:"embed"`

	// Dir is the directory containing the podgen.toml file (set at load time).
	Dir string `toml:"-"`
}

// EmbedConfig configures @embed directives.
type EmbedConfig struct {
	MaxBytes int64 `toml:"max_bytes"` // largest file an @embed may read
}

// Default returns the configuration used when no podgen.toml exists.
func Default() *Config {
	c := &Config{Offsets: true, Load: true}
	c.applyDefaults()
	return c
}

// Load parses a podgen.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return parse(data, path, dir)
}

// Parse decodes configuration text. dir is recorded as the config directory.
func Parse(data []byte, dir string) (*Config, error) {
	return parse(data, FileName, dir)
}

func parse(data []byte, path, dir string) (*Config, error) {
	// Booleans that default to true must be preset before decoding
	c := Config{Offsets: true, Load: true}
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

// FindAndLoad walks up from startDir to find a podgen.toml file, then loads
// and returns it. Returns Default() if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return Default(), nil
		}
		dir = parent
	}
}

func (c *Config) applyDefaults() {
	if c.Arch == "" {
		c.Arch = runtime.GOARCH
	}
	if c.Suffix == "" {
		c.Suffix = "_pod.go"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Embed.MaxBytes == 0 {
		c.Embed.MaxBytes = 1 << 20
	}
}

// Validate checks values that decode fine but cannot be used.
func (c *Config) Validate() error {
	if !strings.HasSuffix(c.Suffix, ".go") {
		return fmt.Errorf("suffix must end in .go, got: %s", c.Suffix)
	}
	if strings.HasSuffix(c.Suffix, "_test.go") {
		return fmt.Errorf("suffix must not produce test files, got: %s", c.Suffix)
	}
	if c.Embed.MaxBytes < 0 {
		return fmt.Errorf("embed.max_bytes must not be negative, got: %d", c.Embed.MaxBytes)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the zap level named by LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}
	return lvl, nil
}

// OutputPath returns the generated file path for a source file.
func (c *Config) OutputPath(source string) string {
	return strings.TrimSuffix(source, ".go") + c.Suffix
}

// IsGenerated reports whether path is a file podgen wrote.
func (c *Config) IsGenerated(path string) bool {
	return strings.HasSuffix(path, c.Suffix)
}
