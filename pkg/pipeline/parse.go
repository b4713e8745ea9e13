package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/tratzlaff/sbomgen/pkg/cache"
	"github.com/tratzlaff/sbomgen/pkg/deps"
	"github.com/tratzlaff/sbomgen/pkg/deps/languages"
	errs "github.com/tratzlaff/sbomgen/pkg/errors"
	"github.com/tratzlaff/sbomgen/pkg/observability"
)

// siblingFiles are read by some parsers next to the report (root project
// name and direct dependencies), so they take part in the input hash.
var siblingFiles = map[string][]string{
	"cargo":  {"Cargo.toml"},
	"poetry": {"pyproject.toml"},
}

// SelectParser returns the parser for opts: the one named by opts.Type, or
// the one matching the input filename.
func SelectParser(opts Options) (deps.ManifestParser, error) {
	if opts.Type != "" {
		p, ok := languages.Manifest(opts.Type)
		if !ok {
			return nil, errs.New(errs.ErrCodeUnsupported, "unknown input type %q (known: %v)", opts.Type, languages.Types())
		}
		return p, nil
	}
	return deps.DetectManifest(opts.Path, languages.Parsers()...)
}

// Parse reads the report at opts.Path with the selected parser.
func Parse(ctx context.Context, p deps.ManifestParser, opts Options) (*deps.ManifestResult, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, p.Type(), opts.Path)
	start := time.Now()

	res, err := p.Parse(opts.Path, opts.ParseOptions())
	if err == nil && (res == nil || res.Root == nil) {
		err = errs.New(errs.ErrCodeInternal, "%s parser returned no graph for %s", p.Type(), opts.Path)
	}
	if err != nil {
		hooks.OnParseComplete(ctx, p.Type(), opts.Path, 0, time.Since(start), err)
		return nil, err
	}

	hooks.OnParseComplete(ctx, p.Type(), opts.Path, deps.Summarize(res.Root).Positions, time.Since(start), nil)
	return res, nil
}

// InputHash hashes the report at path together with the sibling files its
// parser reads. A missing report is FILE_NOT_FOUND; missing siblings are
// skipped.
func InputHash(path string, p deps.ManifestParser) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errs.Wrap(errs.ErrCodeFileNotFound, err, "input %s", path)
		}
		return "", errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s", path)
	}
	parts := []cache.Part{{Name: "input", Data: data}}
	for _, name := range siblingFiles[p.Type()] {
		sib, err := os.ReadFile(filepath.Join(filepath.Dir(path), name))
		if err != nil {
			continue
		}
		parts = append(parts, cache.Part{Name: name, Data: sib})
	}
	return cache.HashParts(parts...), nil
}
