// Package cli implements the sbomgen command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tratzlaff/sbomgen/pkg/buildinfo"
	"github.com/tratzlaff/sbomgen/pkg/cache"
	"github.com/tratzlaff/sbomgen/pkg/observability"
	"github.com/tratzlaff/sbomgen/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "sbomgen"

	// keyPrefix scopes cache keys so a shared Redis can be cleared safely.
	keyPrefix = appName + ":v1:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level, pipeline and
// cache events are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "sbomgen turns resolved dependency graphs into SBOM documents",
		Long:         `sbomgen reads the dependency graph a build tool has already resolved (a Gradle dependency report, Cargo.lock, poetry.lock, pom.xml or a JSON tree) and writes a software bill of materials: one package per distinct module coordinate, linked by DESCRIBES and DEPENDS_ON relationships.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./"+defaultConfigFile+" if present)")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A cache that cannot be
// opened is reported and replaced by no cache at all.
func (c *CLI) newRunner(ctx context.Context, cfg *Config, noCache bool) *pipeline.Runner {
	ch, err := cache.Open(ctx, cfg.cacheConfig(noCache))
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", cfg.Cache.Backend, "err", err)
		ch = cache.NewNullCache()
	}
	r := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, keyPrefix), c.Logger)
	if ttl, err := cfg.ttl(); err == nil {
		r.TTL = ttl
	}
	return r
}

// config loads the configuration selected by --config.
func (c *CLI) config() (*Config, error) {
	return loadConfig(c.configPath)
}
