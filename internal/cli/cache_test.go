package cli

import (
	"path/filepath"
	"testing"

	"github.com/tratzlaff/sbomgen/pkg/cache"
)

func TestCacheLocation(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	tests := []struct {
		name string
		cfg  CacheConfig
		want string
	}{
		{"default file", CacheConfig{}, filepath.Join(xdg, appName)},
		{"explicit dir", CacheConfig{Backend: cache.BackendFile, Dir: "/tmp/sboms"}, "/tmp/sboms"},
		{"redis", CacheConfig{Backend: cache.BackendRedis, URL: "redis://localhost:6379/0"}, "redis://localhost:6379/0"},
		{"none", CacheConfig{Backend: cache.BackendNone}, "(none)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cacheLocation(&Config{Cache: tt.cfg})
			if err != nil {
				t.Fatalf("cacheLocation() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCacheConfigNoCache(t *testing.T) {
	cfg := &Config{Cache: CacheConfig{Backend: cache.BackendRedis, URL: "redis://x"}}
	if got := cfg.cacheConfig(true); got.Backend != cache.BackendNone {
		t.Errorf("cacheConfig(noCache) backend = %q", got.Backend)
	}
	if got := cfg.cacheConfig(false); got.Backend != cache.BackendRedis || got.URL != "redis://x" {
		t.Errorf("cacheConfig() = %+v", got)
	}
}
