// Package cli implements the railyard command-line interface.
//
// The root command loads a layout document, prints it, and runs one
// example adjacency query. Subcommands validate a document, run a single
// query, render node-link diagrams, and manage the artifact cache.
//
// # Configuration
//
// Settings come from an optional railyard.toml (or --config) and are
// overridden by flags. See [Config].
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// forwards pipeline and cache events to the logger.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/railyard/pkg/buildinfo"
	"github.com/matzehuels/railyard/pkg/cache"
	"github.com/matzehuels/railyard/pkg/observability"
	"github.com/matzehuels/railyard/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "railyard"
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

	flags globalFlags
	cfg   Config
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	config    string
	schema    string
	docFormat string
	strict    bool
	noCache   bool
	verbose   bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level. At debug level, pipeline and
// cache events are forwarded to the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := &logHooks{logger: c.Logger}
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var query queryFlags

	root := &cobra.Command{
		Use:   "railyard [file]",
		Short: "Railyard loads and queries rail-yard track layouts",
		Long: `Railyard builds a validated rail-yard layout from a JSON, TOML or YAML
document, prints every node and track, and looks up the track joining two
nodes. With no file argument it reads layout.json from the working directory.`,
		Version:           buildinfo.Version,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDocuments,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.flags.verbose {
				c.SetLogLevel(LogDebug)
			}
			return c.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyFileArg(args)
			c.applyQueryFlags(cmd, query)
			return c.runShow(cmd.Context(), cmd.OutOrStdout())
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.config, "config", "", "config file (default: ./railyard.toml if present)")
	pf.StringVar(&c.flags.schema, "schema", "", "document shape: flat (default), segregated")
	pf.StringVar(&c.flags.docFormat, "doc-format", "", "document encoding: json, toml, yaml (default: from file extension)")
	pf.BoolVar(&c.flags.strict, "strict", false, "also require node track references to name existing tracks")
	pf.BoolVar(&c.flags.noCache, "no-cache", false, "disable the artifact cache")
	pf.BoolVarP(&c.flags.verbose, "verbose", "v", false, "enable debug logging")

	root.Flags().StringVar(&query.from, "from", "", "example query start node (default: "+pipeline.DefaultFrom+")")
	root.Flags().StringVar(&query.to, "to", "", "example query end node (default: "+pipeline.DefaultTo+")")

	// Register all subcommands
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.findCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// queryRunner creates an uncached runner for commands that only load and
// query a layout. They never touch the artifact cache, so a broken cache
// cannot fail them.
func (c *CLI) queryRunner() *pipeline.Runner {
	return pipeline.NewRunner(nil, c.Logger)
}

// renderRunner creates a runner backed by the configured artifact cache.
// A cache that cannot be opened degrades to no caching.
func (c *CLI) renderRunner(ctx context.Context) *pipeline.Runner {
	ch, err := c.newCache(ctx)
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", c.cfg.Cache.Backend, "error", err)
		ch = cache.NewNullCache()
	}
	r := pipeline.NewRunner(ch, c.Logger)
	if c.cfg.Cache.TTL.Duration > 0 {
		r.TTL = c.cfg.Cache.TTL.Duration
	}
	return r
}

// newCache opens the configured cache backend.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.flags.noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		return cache.NewRedisCache(ctx, c.cfg.Cache.RedisURL, cache.DefaultRedisPrefix)
	default:
		dir, err := c.cacheDir()
		if err != nil {
			return nil, fmt.Errorf("cache dir: %w", err)
		}
		return cache.NewFileCache(dir)
	}
}

// loadOptions returns pipeline load options from the effective config.
func (c *CLI) loadOptions() pipeline.Options {
	return pipeline.Options{
		Path:   c.cfg.Layout.Path,
		Format: c.cfg.Layout.Format,
		Schema: c.cfg.Layout.Schema,
		Strict: c.cfg.Layout.Strict,
		Logger: c.Logger,
	}
}

// applyFileArg lets a positional document path override the config.
func (c *CLI) applyFileArg(args []string) {
	if len(args) > 0 && args[0] != "" {
		c.cfg.Layout.Path = args[0]
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/railyard/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
