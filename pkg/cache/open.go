package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Config selects and configures a cache backend.
type Config struct {
	Backend string // file (default), memory, redis or none
	Dir     string // file backend directory; default [DefaultDir]
	URL     string // redis backend URL
	Entries int    // memory backend size
}

// Open creates the cache described by cfg.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = DefaultDir(); err != nil {
				return nil, fmt.Errorf("cache dir: %w", err)
			}
		}
		return NewFileCache(dir)
	case BackendMemory:
		return NewMemoryCache(cfg.Entries)
	case BackendRedis:
		if cfg.URL == "" {
			return nil, fmt.Errorf("redis backend: no url configured")
		}
		return NewRedisCache(ctx, cfg.URL)
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
