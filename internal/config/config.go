// Package config provides configuration loading and discovery for cleanslate.
//
// Configuration is loaded from multiple sources with the following priority
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (CLEANSLATE_* prefix)
//  3. Config file (closest .cleanslate.toml, cleanslate.toml, or
//     pyproject.toml with a [tool.cleanslate] table)
//  4. Built-in defaults
//
// Config file discovery walks up the filesystem from the target path until
// a config file is found. The closest config wins (no merging).
package config

import (
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = "CLEANSLATE_"

// DefaultReportPath is where the checker report is written and read.
const DefaultReportPath = "mypy_error_report.txt"

// DefaultMaxFileSize is the largest source file that will be rewritten.
const DefaultMaxFileSize = 10 << 20

// Config represents the complete cleanslate configuration.
type Config struct {
	// Report locates the checker report.
	Report ReportConfig `koanf:"report" toml:"report"`

	// Mypy configures report generation.
	Mypy MypyConfig `koanf:"mypy" toml:"mypy"`

	// Edit configures how source files are rewritten.
	Edit EditConfig `koanf:"edit" toml:"edit"`

	// Log configures diagnostic logging on stderr.
	Log LogConfig `koanf:"log" toml:"log"`

	// Output configures the run summary.
	Output OutputConfig `koanf:"output" toml:"output"`

	// ConfigFile is the path to the config file that was loaded (if any).
	// This is metadata, not loaded from config.
	ConfigFile string `koanf:"-" toml:"-"`
}

// ReportConfig locates the checker report.
//
// Example TOML configuration:
//
//	[report]
//	path = "build/mypy.txt"
type ReportConfig struct {
	// Path is the report file. Written by report generation, read by the edit passes.
	Path string `koanf:"path" toml:"path" validate:"required"`
}

// MypyConfig configures how the checker is invoked.
//
// Example TOML configuration:
//
//	[mypy]
//	command = ["uv", "run", "mypy"]
//	flags = "--strict --python-version 3.12"
//	path = "src"
type MypyConfig struct {
	// Command is the checker argv prefix.
	Command []string `koanf:"command" toml:"command" validate:"required,min=1,dive,required"`

	// Flags are extra checker flags as one shell-quoted string.
	// Empty means --strict.
	Flags string `koanf:"flags" toml:"flags"`

	// Path is the code the checker is pointed at.
	Path string `koanf:"path" toml:"path" validate:"required"`
}

// EditConfig configures source rewriting.
//
// Example TOML configuration:
//
//	[edit]
//	exclude = ["migrations/**"]
//	skip-codes = ["import-untyped"]
//	max-file-size = 1048576
type EditConfig struct {
	// Exclude holds doublestar patterns for files that are never edited.
	Exclude []string `koanf:"exclude" toml:"exclude" validate:"dive,required,globpattern"`

	// SkipCodes are codes that are never added as suppressions.
	SkipCodes []string `koanf:"skip-codes" toml:"skip-codes" validate:"dive,required"`

	// MaxFileSize is the maximum file size in bytes (0 = unlimited).
	MaxFileSize int64 `koanf:"max-file-size" toml:"max-file-size" validate:"gte=0"`

	// Atomic writes each file through a temporary file and rename.
	Atomic bool `koanf:"atomic" toml:"atomic"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level" toml:"level" validate:"loglevel"`

	// Format is console or json.
	Format string `koanf:"format" toml:"format" validate:"oneof=console json"`
}

// OutputConfig configures the run summary.
type OutputConfig struct {
	// Format is text, json, github-actions or markdown.
	Format string `koanf:"format" toml:"format" validate:"oneof=text json github-actions markdown"`

	// ShowEdits lists every rewritten line in text output.
	ShowEdits bool `koanf:"show-edits" toml:"show-edits"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Report: ReportConfig{
			Path: DefaultReportPath,
		},
		Mypy: MypyConfig{
			Command: []string{"mypy"},
			Path:    ".",
		},
		Edit: EditConfig{
			Exclude:     []string{},
			SkipCodes:   []string{},
			MaxFileSize: DefaultMaxFileSize,
			Atomic:      true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{
			Format:    "text",
			ShowEdits: true,
		},
	}
}

// Load loads configuration for a target path.
// It discovers the closest config file, loads it, and applies
// environment variable overrides.
func Load(targetPath string) (*Config, error) {
	return LoadWithOverrides(Discover(targetPath), nil)
}

// LoadFromFile loads configuration from a specific config file path.
// Unlike Load, it does not perform config discovery.
func LoadFromFile(configPath string) (*Config, error) {
	return LoadWithOverrides(configPath, nil)
}

// LoadWithOverrides loads configuration from configPath (empty for none)
// and applies overrides on top of the environment.
//
// Overrides use the same nested shape as the TOML config file, for example:
//
//	overrides := map[string]any{
//	  "edit": map[string]any{"exclude": []string{"tests/**"}},
//	}
func LoadWithOverrides(configPath string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	// 2. Load config file if provided
	if err := loadConfigFile(k, configPath); err != nil {
		return nil, &LoadError{Path: configPath, Err: err}
	}

	// 3. Load environment variables (CLEANSLATE_* prefix)
	// CLEANSLATE_EDIT_MAX_FILE_SIZE -> edit.max-file-size
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyTransform,
	}), nil); err != nil {
		return nil, err
	}

	// 4. Apply CLI overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, err
		}
	}

	// 5. Decode and validate.
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, &LoadError{Path: configPath, Err: err}
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	cfg.ConfigFile = configPath
	return cfg, nil
}

func loadConfigFile(k *koanf.Koanf, configPath string) error {
	if configPath == "" {
		return nil
	}
	if !isPyProject(configPath) {
		return k.Load(file.Provider(configPath), toml.Parser())
	}

	// pyproject.toml: only the [tool.cleanslate] table applies.
	pk := koanf.New(".")
	if err := pk.Load(file.Provider(configPath), toml.Parser()); err != nil {
		return err
	}
	return k.Merge(pk.Cut(pyProjectSection))
}

// TOML renders the configuration in config file form.
func (c *Config) TOML() ([]byte, error) {
	return gotoml.Marshal(c)
}
