package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/text/encoding/ianaindex"

	"git.home.luguber.info/inful/bootbuild/internal/packager"
	"git.home.luguber.info/inful/bootbuild/internal/qualified"
)

// Validate checks cfg and returns every problem found, joined.
func Validate(cfg *Config) error {
	var errs []error
	if _, ok := cfg.Variants[cfg.DefaultVariant]; !ok {
		errs = append(errs, fmt.Errorf("default_variant: %q is not a configured variant", cfg.DefaultVariant))
	}
	for _, name := range cfg.VariantNames() {
		if err := ValidateVariant(cfg.Variants[name]); err != nil {
			errs = append(errs, fmt.Errorf("variants.%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateVariant checks one variant.
func ValidateVariant(v *Variant) error {
	var errs []error
	add := func(field, format string, a ...any) {
		errs = append(errs, fmt.Errorf("%s: %s", field, fmt.Sprintf(format, a...)))
	}

	if _, err := qualified.Parse(v.MainClass); err != nil {
		add("main_class", "%v", err)
	}
	if v.ClassDir == "" {
		add("class_dir", "required")
	}
	if v.Artifact == "" {
		add("artifact", "required")
	}
	if v.SourceRoot == "" {
		add("source_root", "required")
	}

	switch v.Packager {
	case packager.KindJar, packager.KindNative:
	default:
		add("packager", "must be %q or %q, got %q", packager.KindJar, packager.KindNative, v.Packager)
	}

	if v.Encoding != "" {
		if _, err := ianaindex.IANA.Encoding(v.Encoding); err != nil {
			add("encoding", "unknown charset %q", v.Encoding)
		}
	}

	for _, g := range v.ExtraUnitGlobs {
		if _, err := filepath.Match(g, ""); err != nil {
			add("extra_unit_globs", "invalid pattern %q", g)
		}
	}

	if v.ClassDir != "" {
		if problem := checkResettable(v.ClassDir, v.SourceRoot); problem != "" {
			add("class_dir", "%s", problem)
		}
	}

	if v.Staged() {
		switch {
		case v.StagingDir == "":
			add("staging_dir", "required when stage_subtree is set")
		case within(v.StagingDir, v.SourceRoot):
			add("staging_dir", "%q lies inside source_root %q", v.StagingDir, v.SourceRoot)
		default:
			if problem := checkResettable(v.StagingDir, v.SourceRoot); problem != "" {
				add("staging_dir", "%s", problem)
			}
		}
	}

	for _, d := range v.ResetDirs {
		if d == "" {
			add("reset_dirs", "empty entry")
			continue
		}
		if problem := checkResettable(d, v.SourceRoot); problem != "" {
			add("reset_dirs", "%s", problem)
		}
	}

	return errors.Join(errs...)
}

// checkResettable describes why dir must not be emptied before a build, or
// returns "" when it is safe.
func checkResettable(dir, sourceRoot string) string {
	switch {
	case samePath(dir, "."):
		return fmt.Sprintf("%q is the project root", dir)
	case samePath(dir, sourceRoot) || within(sourceRoot, dir):
		return fmt.Sprintf("%q would delete sources under %q", dir, sourceRoot)
	}
	return ""
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	return err1 == nil && err2 == nil && aa == bb
}

// within reports whether path lies inside dir.
func within(path, dir string) bool {
	ap, err1 := filepath.Abs(path)
	ad, err2 := filepath.Abs(dir)
	if err1 != nil || err2 != nil {
		return false
	}
	rel, err := filepath.Rel(ad, ap)
	return err == nil && rel != "." && rel != ".." && !filepath.IsAbs(rel) && !startsWithParent(rel)
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
