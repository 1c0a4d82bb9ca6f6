// Package config loads and validates bootbuild configuration.
//
// A configuration file is optional: without one the built-in variants apply.
// Relative paths are interpreted against the project root, which is the
// working directory of the run.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	bberrors "git.home.luguber.info/inful/bootbuild/internal/errors"
	"git.home.luguber.info/inful/bootbuild/internal/logfields"
)

// DefaultFilename is the configuration file looked up when none is given.
const DefaultFilename = "bootbuild.yaml"

// ErrNotFound is returned by Load when the configuration file does not exist.
var ErrNotFound = errors.New("configuration file not found")

// Config is the root configuration.
type Config struct {
	LibraryDir     string              `yaml:"library_dir"`
	ArchiveSuffix  string              `yaml:"archive_suffix"`
	DefaultVariant string              `yaml:"default_variant"`
	Tools          Tools               `yaml:"tools"`
	Variants       map[string]*Variant `yaml:"variants"`
}

// Tools names the external executables.
type Tools struct {
	Compiler string `yaml:"compiler"`
	Packager string `yaml:"packager"`
	Runtime  string `yaml:"runtime"`
}

// Variant is one build target: what to compile, how to package it, and what
// to launch.
type Variant struct {
	// Name is the key the variant is registered under.
	Name string `yaml:"-"`

	SourceRoot   string `yaml:"source_root"`
	StageSubtree string `yaml:"stage_subtree,omitempty"`
	StagingDir   string `yaml:"staging_dir,omitempty"`

	ResetDirs []string `yaml:"reset_dirs"`
	ClassDir  string   `yaml:"class_dir"`
	MainClass string   `yaml:"main_class"`
	Artifact  string   `yaml:"artifact"`

	SourceLevel    string   `yaml:"source_level,omitempty"`
	Encoding       string   `yaml:"encoding,omitempty"`
	ExtraUnitGlobs []string `yaml:"extra_unit_globs,omitempty"`
	CompilerFlags  []string `yaml:"compiler_flags,omitempty"`
	LaunchFlags    []string `yaml:"launch_flags,omitempty"`

	Packager      string `yaml:"packager,omitempty"`
	StampRevision bool   `yaml:"stamp_revision,omitempty"`
}

// Staged reports whether the variant compiles from a staged copy.
func (v *Variant) Staged() bool {
	return v.StageSubtree != ""
}

// CompileRoot is the source search path handed to the compiler.
func (v *Variant) CompileRoot() string {
	if v.Staged() {
		return v.StagingDir
	}
	return v.SourceRoot
}

// Load reads, expands and validates the configuration at path. Built-in
// defaults fill every field the file leaves empty.
func Load(path string) (*Config, error) {
	loadEnvFiles(".")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, bberrors.ConfigNotFound(path, ErrNotFound)
		}
		return nil, bberrors.ConfigInvalid(path, fmt.Errorf("read config file: %w", err))
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, bberrors.ConfigInvalid(path, fmt.Errorf("parse config file: %w", err))
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, bberrors.ConfigInvalid(path, err)
	}

	slog.Debug("Configuration loaded", logfields.Path(path), slog.Int("variants", len(cfg.Variants)))
	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns the built-in configuration
// when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, ErrNotFound) {
		slog.Debug("No configuration file, using built-in variants", logfields.Path(path))
		return Defaults(), nil
	}
	return cfg, err
}

// Variant returns the named variant, or the default variant for "".
func (c *Config) Variant(name string) (*Variant, error) {
	if name == "" {
		name = c.DefaultVariant
	}
	v, ok := c.Variants[name]
	if !ok {
		return nil, bberrors.UnknownVariant(name)
	}
	return v, nil
}

// VariantNames returns the configured variant names in sorted order.
func (c *Config) VariantNames() []string {
	names := make([]string, 0, len(c.Variants))
	for name := range c.Variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Init writes an example configuration file holding the built-in variants.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	header := "# bootbuild configuration. ${VAR} references are expanded from the\n" +
		"# environment, including .env and .env.local in the project root.\n"

	if err := os.WriteFile(path, append([]byte(header), data...), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
