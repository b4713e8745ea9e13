package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tratzlaff/sbomgen/pkg/cache"
	"github.com/tratzlaff/sbomgen/pkg/deps"
	"github.com/tratzlaff/sbomgen/pkg/observability"
	"github.com/tratzlaff/sbomgen/pkg/sbom"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration // Lifetime of cached artifacts
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLDocument,
	}
}

// Execute runs the complete parse → build → render pipeline with caching.
//
// When every requested format is cached for the input and options, the
// cached bytes are returned without parsing. Otherwise the input is parsed
// and built once, all formats are rendered, and each is written back.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	parser, err := SelectParser(opts)
	if err != nil {
		return nil, err
	}
	hash, err := InputHash(opts.Path, parser)
	if err != nil {
		return nil, err
	}
	result := &Result{Parser: parser.Type(), InputHash: hash}

	keys := make(map[string]string, len(opts.Formats))
	for _, f := range opts.Formats {
		keys[f] = r.Keyer.DocumentKey(hash, opts.DocumentKeyOpts(parser.Type(), f))
	}

	if !opts.Refresh {
		if artifacts, ok := r.lookup(ctx, keys); ok {
			r.Logger.Debug("cache hit", "path", opts.Path, "formats", opts.Formats)
			result.Artifacts = artifacts
			result.CacheHit = true
			return result, nil
		}
	}

	// Stage 1: Parse
	parseStart := time.Now()
	res, err := Parse(ctx, parser, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.Graph = deps.Summarize(res.Root)
	if !res.IncludesTransitive {
		r.Logger.Warn("input lists direct dependencies only", "parser", parser.Type(), "path", opts.Path)
	}
	r.Logger.Info("parsed dependencies",
		"parser", parser.Type(),
		"positions", result.Stats.Graph.Positions,
		"coordinates", result.Stats.Graph.Coordinates,
		"duration", result.Stats.ParseTime)

	// Stage 2: Build
	buildStart := time.Now()
	doc, err := Build(ctx, res, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.Packages = len(doc.Packages())
	result.Stats.Relationships = len(doc.Relationships())

	r.Logger.Info("built document",
		"packages", result.Stats.Packages,
		"relationships", result.Stats.Relationships,
		"duration", result.Stats.BuildTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := Render(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	r.store(ctx, keys, artifacts)
	return result, nil
}

// Build creates the sealed document for a parse result. Set fields of
// opts.Project replace the corresponding fields of the root coordinate.
func Build(ctx context.Context, res *deps.ManifestResult, opts Options) (*sbom.Document, error) {
	r := *res.Root
	r.Coordinate = opts.Project.Merge(r.Coordinate)

	hooks := observability.Pipeline()
	root := r.Coordinate.String()
	hooks.OnBuildStart(ctx, root)
	start := time.Now()

	doc, err := sbom.NewForProject(&r, deps.Coordinate{}, opts.BuildOptions(res.Ecosystem)...)
	if err != nil {
		hooks.OnBuildComplete(ctx, root, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnBuildComplete(ctx, root, len(doc.Packages()), len(doc.Relationships()), time.Since(start), nil)
	return doc, nil
}

// lookup returns the cached artifacts when every key hits.
func (r *Runner) lookup(ctx context.Context, keys map[string]string) (map[string][]byte, bool) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(keys))
	for format, key := range keys {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "err", err)
		}
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, format)
			return nil, false
		}
		hooks.OnCacheHit(ctx, format)
		artifacts[format] = data
	}
	return artifacts, true
}

// store writes artifacts back. Cache failures are logged, never returned:
// the artifacts are already computed.
func (r *Runner) store(ctx context.Context, keys map[string]string, artifacts map[string][]byte) {
	hooks := observability.Cache()
	for format, data := range artifacts {
		if err := r.Cache.Set(ctx, keys[format], data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, format, len(data))
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
