package config

import (
	"git.home.luguber.info/inful/bootbuild/internal/compiler"
	"git.home.luguber.info/inful/bootbuild/internal/deps"
	"git.home.luguber.info/inful/bootbuild/internal/launcher"
	"git.home.luguber.info/inful/bootbuild/internal/packager"
)

// Built-in variant names.
const (
	VariantBuilder         = "builder"
	VariantBuilderSelftest = "builder-selftest"
	VariantWebsite         = "website"
)

const (
	defaultLibraryDir = "lib"
	defaultSourceRoot = "src"
	builderPackage    = "net/sourceforge/docfetcher"
)

// Defaults returns the built-in configuration.
func Defaults() *Config {
	cfg := &Config{
		LibraryDir:     defaultLibraryDir,
		ArchiveSuffix:  deps.DefaultSuffix,
		DefaultVariant: VariantBuilder,
		Tools: Tools{
			Compiler: compiler.DefaultTool,
			Packager: packager.DefaultJarTool,
			Runtime:  launcher.DefaultRuntime,
		},
		Variants: map[string]*Variant{
			VariantBuilder: {
				SourceRoot:   defaultSourceRoot,
				StageSubtree: builderPackage,
				StagingDir:   "build/tmp/src-builder",
				ResetDirs:    []string{"build"},
				ClassDir:     "build/tmp/classes",
				MainClass:    "net.sourceforge.docfetcher.build.BuildMain",
				Artifact:     "build/tmp/docfetcher-builder.jar",
				Packager:     packager.KindJar,
			},
			VariantBuilderSelftest: {
				SourceRoot:     defaultSourceRoot,
				StageSubtree:   builderPackage,
				StagingDir:     "build/tmp/src-builder",
				ResetDirs:      []string{"build"},
				ClassDir:       "build/tmp/classes",
				MainClass:      "net.sourceforge.docfetcher.build.BuildMain",
				Artifact:       "build/tmp/docfetcher-builder.jar",
				SourceLevel:    "1.8",
				Encoding:       "UTF-8",
				ExtraUnitGlobs: []string{"*Test.java"},
				LaunchFlags:    []string{"-ea"},
				Packager:       packager.KindJar,
			},
			VariantWebsite: {
				SourceRoot: defaultSourceRoot,
				ResetDirs:  []string{"build/website/classes"},
				ClassDir:   "build/website/classes",
				MainClass:  "net.sourceforge.docfetcher.website.Website",
				Artifact:   "build/website/docfetcher-website-builder.jar",
				Packager:   packager.KindJar,
			},
		},
	}
	for name, v := range cfg.Variants {
		v.Name = name
	}
	return cfg
}

// applyDefaults fills empty fields from the built-in configuration. Variants
// named in the file replace the built-in variant of the same name; the other
// built-in variants stay available.
func applyDefaults(cfg *Config) {
	def := Defaults()

	if cfg.LibraryDir == "" {
		cfg.LibraryDir = def.LibraryDir
	}
	if cfg.ArchiveSuffix == "" {
		cfg.ArchiveSuffix = def.ArchiveSuffix
	}
	if cfg.DefaultVariant == "" {
		cfg.DefaultVariant = def.DefaultVariant
	}
	if cfg.Tools.Compiler == "" {
		cfg.Tools.Compiler = def.Tools.Compiler
	}
	if cfg.Tools.Packager == "" {
		cfg.Tools.Packager = def.Tools.Packager
	}
	if cfg.Tools.Runtime == "" {
		cfg.Tools.Runtime = def.Tools.Runtime
	}

	if cfg.Variants == nil {
		cfg.Variants = map[string]*Variant{}
	}
	for name, v := range def.Variants {
		if _, ok := cfg.Variants[name]; !ok {
			cfg.Variants[name] = v
		}
	}
	for name, v := range cfg.Variants {
		if v == nil {
			v = &Variant{}
			cfg.Variants[name] = v
		}
		v.Name = name
		if v.SourceRoot == "" {
			v.SourceRoot = defaultSourceRoot
		}
		if v.Packager == "" {
			v.Packager = packager.KindJar
		}
		if v.Staged() && v.StagingDir == "" {
			v.StagingDir = "build/tmp/src-" + name
		}
	}
}
