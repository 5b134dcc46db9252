package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	rerrors "github.com/matzehuels/railyard/pkg/errors"
	"github.com/matzehuels/railyard/pkg/pipeline"
)

// defaultConfigFile is read from the working directory when --config is
// not given. It is optional.
const defaultConfigFile = "railyard.toml"

// Cache backends.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config is the railyard.toml file:
//
//	[layout]
//	path = "yard/layout.yaml"
//	format = "yaml"           # default: from extension
//	schema = "segregated"     # default: flat
//	strict = true
//
//	[query]
//	from = "PN001"
//	to = "EN001"
//
//	[cache]
//	backend = "redis"         # file (default), redis, none
//	dir = "/var/cache/railyard"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Query  QueryConfig  `toml:"query"`
	Cache  CacheConfig  `toml:"cache"`
}

// LayoutConfig selects and interprets the layout document.
type LayoutConfig struct {
	Path   string `toml:"path"`
	Format string `toml:"format"`
	Schema string `toml:"schema"`
	Strict bool   `toml:"strict"`
}

// QueryConfig is the example adjacency query run by the root command.
type QueryConfig struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      duration `toml:"ttl"`
}

// duration decodes Go duration strings ("36h", "15m") from TOML.
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("negative duration %q", text)
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Layout: LayoutConfig{
			Path:   pipeline.DefaultPath,
			Schema: string(pipeline.DefaultSchema),
		},
		Query: QueryConfig{
			From: pipeline.DefaultFrom,
			To:   pipeline.DefaultTo,
		},
		Cache: CacheConfig{
			Backend: backendFile,
		},
	}
}

// ReadConfig decodes a config file on top of the defaults. Unknown keys
// are rejected so typos do not silently fall back to defaults.
func ReadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, rerrors.Wrap(rerrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, rerrors.Wrap(rerrors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, rerrors.New(rerrors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.validate()
}

func (cfg *Config) validate() error {
	switch cfg.Cache.Backend {
	case backendFile, backendNone:
	case backendRedis:
		if cfg.Cache.RedisURL == "" {
			return rerrors.New(rerrors.ErrCodeInvalidInput, "cache backend %q requires redis_url", backendRedis)
		}
	default:
		return rerrors.New(rerrors.ErrCodeInvalidInput, "unknown cache backend %q (want file, redis or none)", cfg.Cache.Backend)
	}
	if cfg.Layout.Path == "" {
		cfg.Layout.Path = pipeline.DefaultPath
	}
	if cfg.Layout.Schema == "" {
		cfg.Layout.Schema = string(pipeline.DefaultSchema)
	}
	return nil
}

// loadConfig reads the config file, if any, and applies flag overrides.
// An explicit --config must exist; the implicit railyard.toml may not.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	path := c.flags.config
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	cfg, err := ReadConfig(path)
	if err != nil {
		if explicit || !rerrors.Is(err, rerrors.ErrCodeFileNotFound) {
			return err
		}
		cfg = DefaultConfig()
	} else {
		c.Logger.Debug("loaded config", "path", path)
	}

	flags := cmd.Flags()
	if flags.Changed("schema") {
		cfg.Layout.Schema = c.flags.schema
	}
	if flags.Changed("doc-format") {
		cfg.Layout.Format = c.flags.docFormat
	}
	if flags.Changed("strict") {
		cfg.Layout.Strict = c.flags.strict
	}

	c.cfg = cfg
	return nil
}

// queryFlags are the root command's example query endpoints.
type queryFlags struct {
	from string
	to   string
}

func (c *CLI) applyQueryFlags(cmd *cobra.Command, q queryFlags) {
	if cmd.Flags().Changed("from") {
		c.cfg.Query.From = q.from
	}
	if cmd.Flags().Changed("to") {
		c.cfg.Query.To = q.to
	}
}
