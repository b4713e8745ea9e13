package cli

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/tratzlaff/sbomgen/pkg/cache"
	"github.com/tratzlaff/sbomgen/pkg/deps"
	errs "github.com/tratzlaff/sbomgen/pkg/errors"
	"github.com/tratzlaff/sbomgen/pkg/pipeline"
)

// defaultConfigFile is read from the working directory when --config is not set.
const defaultConfigFile = "sbomgen.toml"

// Environment variables layered over the config file.
const (
	envNamespaceBase = "SBOMGEN_NAMESPACE_BASE"
	envCacheURL      = "SBOMGEN_CACHE_URL"
	envCacheBackend  = "SBOMGEN_CACHE_BACKEND"
)

// Config is the sbomgen.toml file format.
type Config struct {
	Project  ProjectConfig  `toml:"project"`
	Document DocumentConfig `toml:"document"`
	Input    InputConfig    `toml:"input"`
	Cache    CacheConfig    `toml:"cache"`
}

// ProjectConfig overrides fields of the root coordinate.
type ProjectConfig struct {
	Group   string `toml:"group"`
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// DocumentConfig controls document metadata.
type DocumentConfig struct {
	Name          string `toml:"name"`
	NamespaceBase string `toml:"namespace_base"`
	UUIDNamespace bool   `toml:"uuid_namespace"`
}

// InputConfig controls report parsing.
type InputConfig struct {
	Configuration string `toml:"configuration"`
	IncludeDev    bool   `toml:"include_dev"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend string `toml:"backend"`
	URL     string `toml:"url"`
	Dir     string `toml:"dir"`
	Entries int    `toml:"entries"`
	TTL     string `toml:"ttl"`
}

// loadConfig builds the configuration from defaults, the config file and
// the environment, in increasing precedence. An explicit path must exist;
// the default file is optional. A .env file in the working directory is
// loaded into the environment first, without overriding set variables.
func loadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	d := pipeline.Defaults()
	cfg := &Config{
		Document: DocumentConfig{NamespaceBase: d.NamespaceBase},
		Input:    InputConfig{Configuration: d.Configuration},
		Cache:    CacheConfig{Backend: cache.BackendFile},
	}

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		missing := errors.Is(err, os.ErrNotExist)
		switch {
		case missing && !explicit:
		case missing:
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "config %s", path)
		default:
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config %s", path)
		}
	}

	if v := strings.TrimSpace(os.Getenv(envNamespaceBase)); v != "" {
		cfg.Document.NamespaceBase = v
	}
	if v := strings.TrimSpace(os.Getenv(envCacheBackend)); v != "" {
		cfg.Cache.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv(envCacheURL)); v != "" {
		cfg.Cache.URL = v
		if os.Getenv(envCacheBackend) == "" {
			cfg.Cache.Backend = cache.BackendRedis
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := errs.ValidateNamespaceBase(c.Document.NamespaceBase); err != nil {
		return err
	}
	if _, err := c.ttl(); err != nil {
		return err
	}
	return nil
}

// ttl returns the configured cache lifetime, or the default.
func (c *Config) ttl() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return cache.TTLDocument, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, errs.New(errs.ErrCodeInvalidConfig, "invalid cache ttl %q", c.Cache.TTL)
	}
	return d, nil
}

// pipelineOptions returns the options for one input, before flags apply.
func (c *Config) pipelineOptions(path string) pipeline.Options {
	return pipeline.Options{
		Path:          path,
		Configuration: c.Input.Configuration,
		IncludeDev:    c.Input.IncludeDev,
		Project: deps.Coordinate{
			Group:   c.Project.Group,
			Name:    c.Project.Name,
			Version: c.Project.Version,
		},
		Name:          c.Document.Name,
		NamespaceBase: c.Document.NamespaceBase,
		UUIDNamespace: c.Document.UUIDNamespace,
	}
}

// cacheConfig returns the backend settings, honoring --no-cache.
func (c *Config) cacheConfig(noCache bool) cache.Config {
	if noCache {
		return cache.Config{Backend: cache.BackendNone}
	}
	return cache.Config{
		Backend: c.Cache.Backend,
		URL:     c.Cache.URL,
		Dir:     c.Cache.Dir,
		Entries: c.Cache.Entries,
	}
}
