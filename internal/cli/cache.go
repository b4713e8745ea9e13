package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tratzlaff/sbomgen/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the generated document cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			p := newPrinter(cmd)

			ch, err := cache.Open(ctx, cfg.cacheConfig(false))
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer ch.Close()

			var count int
			switch ch := ch.(type) {
			case *cache.FileCache:
				count, err = ch.Clear()
				if err == nil {
					defer p.detail("Directory: %s", ch.Dir())
				}
			case *cache.RedisCache:
				count, err = ch.Clear(ctx, keyPrefix)
			default:
				p.info("Cache backend %q keeps nothing between runs", cfg.Cache.Backend)
				return nil
			}
			if err != nil {
				return err
			}

			p.success("Cleared %d cached entries", count)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			loc, err := cacheLocation(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		},
	}
}

// cacheLocation describes where the configured backend keeps entries: a
// directory for the file backend, the URL for Redis.
func cacheLocation(cfg *Config) (string, error) {
	switch cfg.Cache.Backend {
	case "", cache.BackendFile:
		if cfg.Cache.Dir != "" {
			return cfg.Cache.Dir, nil
		}
		dir, err := cache.DefaultDir()
		if err != nil {
			return "", fmt.Errorf("get cache dir: %w", err)
		}
		return dir, nil
	case cache.BackendRedis:
		return cfg.Cache.URL, nil
	default:
		return "(" + cfg.Cache.Backend + ")", nil
	}
}
