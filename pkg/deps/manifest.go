package deps

import (
	"path/filepath"

	errs "github.com/tratzlaff/sbomgen/pkg/errors"
)

// ManifestParser reads an already-resolved dependency report from a file.
type ManifestParser interface {
	// Parse reads the report at path and returns its dependency graph.
	Parse(path string, opts Options) (*ManifestResult, error)
	// Supports reports whether this parser handles the given filename.
	Supports(filename string) bool
	// Type returns the manifest type identifier (e.g., "gradle", "cargo").
	Type() string
	// IncludesTransitive reports whether the manifest contains the full
	// transitive closure (like lock files) or just direct dependencies.
	IncludesTransitive() bool
}

// ManifestResult holds the parsed dependency data from a manifest file.
type ManifestResult struct {
	Root               *Node  // Root of the resolved graph (the project itself)
	Type               string // Parser type that produced this result
	Ecosystem          string // Package URL type of the coordinates ("maven", "cargo", "pypi")
	IncludesTransitive bool   // Whether Root includes transitive dependencies
}

// DetectManifest finds a parser that supports the given file path.
// Returns an error if no parser matches.
func DetectManifest(path string, parsers ...ManifestParser) (ManifestParser, error) {
	name := filepath.Base(path)
	for _, p := range parsers {
		if p.Supports(name) {
			return p, nil
		}
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "unsupported manifest: %s", name)
}
