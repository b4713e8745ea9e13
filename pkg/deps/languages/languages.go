// Package languages provides the complete list of supported report readers.
//
// This package exists to break import cycles: the individual reader packages
// (gradle, rust, etc.) import pkg/deps, so pkg/deps cannot import them back.
// Instead, consumers that need the full list import this package.
//
// Usage:
//
//	import "github.com/tratzlaff/sbomgen/pkg/deps/languages"
//
//	p, err := deps.DetectManifest(path, languages.Parsers()...)
package languages

import (
	"github.com/tratzlaff/sbomgen/pkg/deps"
	"github.com/tratzlaff/sbomgen/pkg/deps/gradle"
	"github.com/tratzlaff/sbomgen/pkg/deps/java"
	"github.com/tratzlaff/sbomgen/pkg/deps/python"
	"github.com/tratzlaff/sbomgen/pkg/deps/rust"
	sbomio "github.com/tratzlaff/sbomgen/pkg/io"
)

// All is the canonical list of supported readers, in detection order.
var All = []*deps.Language{
	gradle.Language,
	rust.Language,
	python.Language,
	java.Language,
	sbomio.Language,
}

// Find returns the Language with the given name, or nil if not found.
func Find(name string) *deps.Language {
	for _, l := range All {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Parsers returns every manifest parser of every language.
func Parsers() []deps.ManifestParser {
	return deps.AllParsers(All...)
}

// Manifest returns the parser registered under a type or alias in any
// language, e.g. "cargo", "poetry.lock" or "json".
func Manifest(name string) (deps.ManifestParser, bool) {
	return deps.FindManifest(name, All...)
}

// Types lists every manifest type name, for help text and completion.
func Types() []string {
	var out []string
	for _, l := range All {
		out = append(out, l.ManifestTypes...)
	}
	return out
}
