package pipeline

import (
	"context"
	"time"

	errs "github.com/tratzlaff/sbomgen/pkg/errors"
	"github.com/tratzlaff/sbomgen/pkg/observability"
	"github.com/tratzlaff/sbomgen/pkg/render/nodelink"
	"github.com/tratzlaff/sbomgen/pkg/sbom"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, doc *sbom.Document, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := render(ctx, doc, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func render(ctx context.Context, doc *sbom.Document, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	dotFor := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(doc, nodelink.Options{Detailed: opts.Detailed})
		}
		return dot
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = sbom.Serialize(doc)
		case FormatDOT:
			data = []byte(dotFor())
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dotFor())
		default:
			return nil, errs.New(errs.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
