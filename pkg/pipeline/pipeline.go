// Package pipeline provides the core generation pipeline for sbomgen.
//
// This package implements the complete parse → build → render pipeline used
// by the CLI. By centralizing this logic, every entry point reads reports,
// caches documents and reports progress the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read a resolved dependency report into a [deps.Node] graph
//  2. Build: Turn the graph into a sealed [sbom.Document]
//  3. Render: Serialize the document (JSON) or draw it (DOT, SVG)
//
// Rendered artifacts are cached under a key derived from the input bytes and
// every option that affects output. Generation is deterministic, so a cache
// hit is byte-identical to a fresh run.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "build/dependencies.txt",
//	    Formats: []string{pipeline.FormatJSON},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Artifacts[pipeline.FormatJSON])
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tratzlaff/sbomgen/pkg/cache"
	"github.com/tratzlaff/sbomgen/pkg/deps"
	errs "github.com/tratzlaff/sbomgen/pkg/errors"
	"github.com/tratzlaff/sbomgen/pkg/sbom"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// Defaults returns the built-in options. Configuration files, environment
// and flags are layered on top of these.
func Defaults() Options {
	return Options{
		Configuration: deps.DefaultConfiguration,
		NamespaceBase: sbom.DefaultNamespaceBase,
		Formats:       []string{FormatJSON},
	}
}

// Options contains all configuration for one pipeline run.
type Options struct {
	// Parse options
	Path          string          `json:"path"`
	Type          string          `json:"type,omitempty"` // Forces a reader; detected from the filename when empty
	Configuration string          `json:"configuration,omitempty"`
	IncludeDev    bool            `json:"include_dev,omitempty"`
	Project       deps.Coordinate `json:"project,omitempty"` // Overrides fields of the root coordinate

	// Build options
	Name          string `json:"name,omitempty"` // Document name; default is the project name
	NamespaceBase string `json:"namespace_base,omitempty"`
	UUIDNamespace bool   `json:"uuid_namespace,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // Detailed DOT/SVG labels
	Refresh  bool     `json:"refresh,omitempty"`  // Ignore cached artifacts

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the built document. It is nil when every artifact came
	// from the cache.
	Document *sbom.Document

	// Parser is the type of the reader that handled the input.
	Parser string

	// InputHash is the content hash of the input files.
	InputHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether all artifacts came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Graph         deps.Stats
	Packages      int
	Relationships int
	ParseTime     time.Duration
	BuildTime     time.Duration
	RenderTime    time.Duration
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and fills unset fields from
// [Defaults]. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Path == "" {
		return errs.New(errs.ErrCodeInvalidInput, "input path is required")
	}
	if err := errs.ValidatePath(o.Path); err != nil {
		return err
	}

	d := Defaults()
	if o.Configuration == "" {
		o.Configuration = d.Configuration
	}
	if o.NamespaceBase == "" {
		o.NamespaceBase = d.NamespaceBase
	}
	if len(o.Formats) == 0 {
		o.Formats = d.Formats
	}
	o.Formats = dedupe(o.Formats)
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if err := errs.ValidateNamespaceBase(o.NamespaceBase); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// ParseOptions returns the reader options for this run.
func (o *Options) ParseOptions() deps.Options {
	opts := deps.Options{
		Configuration: o.Configuration,
		IncludeDev:    o.IncludeDev,
		Project:       o.Project,
	}
	if o.Logger != nil {
		opts.Logger = func(format string, args ...any) {
			o.Logger.Warnf(format, args...)
		}
	}
	return opts
}

// BuildOptions returns the document options for this run.
func (o *Options) BuildOptions(purlType string) []sbom.Option {
	return []sbom.Option{
		sbom.WithNamespaceBase(o.NamespaceBase),
		sbom.WithUUIDNamespace(o.UUIDNamespace),
		sbom.WithPURLType(purlType),
		sbom.WithName(o.Name),
	}
}

// DocumentKeyOpts returns cache key options for one output format.
func (o *Options) DocumentKeyOpts(parser, format string) cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{
		Parser:        parser,
		Configuration: o.Configuration,
		IncludeDev:    o.IncludeDev,
		Group:         o.Project.Group,
		Name:          o.Project.Name,
		Version:       o.Project.Version,
		DocumentName:  o.Name,
		NamespaceBase: o.NamespaceBase,
		UUIDNamespace: o.UUIDNamespace,
		Detailed:      o.Detailed && format != FormatJSON,
		Format:        format,
	}
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
