package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports pipeline and cache events as debug log lines.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnParseStart(_ context.Context, parser, path string) {
	h.logger.Debug("parse", "parser", parser, "path", path)
}

func (h *LogHooks) OnParseComplete(_ context.Context, parser, path string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("parse failed", "parser", parser, "path", path, "err", err)
		return
	}
	h.logger.Debug("parsed", "parser", parser, "nodes", nodeCount, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnBuildStart(_ context.Context, root string) {
	h.logger.Debug("build", "root", root)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, root string, packages, relationships int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("build failed", "root", root, "err", err)
		return
	}
	h.logger.Debug("built", "root", root, "packages", packages, "relationships", relationships, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("rendered", "formats", formats, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
