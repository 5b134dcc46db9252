package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/railyard/pkg/cache"
	"github.com/matzehuels/railyard/pkg/document"
	"github.com/matzehuels/railyard/pkg/layout"
	"github.com/matzehuels/railyard/pkg/loader"
	"github.com/matzehuels/railyard/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
	TTL    time.Duration // artifact lifetime; zero never expires
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Logger: logger,
		TTL:    cache.TTLArtifact,
	}
}

// Load reads, decodes and builds the layout named by opts. Build failures
// are returned unwrapped from the layout package's typed errors, so
// errors.As works on the result; no partial layout is ever returned.
func (r *Runner) Load(ctx context.Context, opts Options) (res *Result, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Path)
	start := time.Now()
	defer func() {
		var nodes, tracks int
		if res != nil {
			nodes, tracks = res.Stats.NodeCount, res.Stats.TrackCount
		}
		hooks.OnLoadComplete(ctx, opts.Path, nodes, tracks, time.Since(start), err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := document.Read(opts.Path)
	if err != nil {
		return nil, err
	}
	tree, err := document.Parse(data, document.Format(opts.Format))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Path, err)
	}
	readTime := time.Since(start)

	schema := loader.Schema(opts.Schema)
	buildStart := time.Now()
	l, err := loader.Load(tree, schema, opts.BuildOptions()...)
	if err != nil {
		return nil, err
	}

	res = &Result{
		Layout:  l,
		Path:    opts.Path,
		DocHash: cache.Hash(data),
		Schema:  schema,
		Strict:  opts.Strict,
		Stats: Stats{
			NodeCount:  l.NodeCount(),
			TrackCount: l.TrackCount(),
			Bytes:      len(data),
			ReadTime:   readTime,
			BuildTime:  time.Since(buildStart),
		},
	}

	opts.Logger.Debug("built layout",
		"path", opts.Path,
		"schema", schema,
		"nodes", res.Stats.NodeCount,
		"tracks", res.Stats.TrackCount,
		"duration", time.Since(start))

	return res, nil
}

// Find runs one adjacency query against a loaded layout.
func (r *Runner) Find(ctx context.Context, res *Result, a, b string) (layout.Track, error) {
	t, err := res.Layout.FindTrack(a, b)
	observability.Pipeline().OnQuery(ctx, a, b, err == nil)

	var nf *layout.NotFoundError
	switch {
	case err == nil:
		r.Logger.Debug("found track", "from", a, "to", b, "track", t.ID)
	case errors.As(err, &nf):
		r.Logger.Debug("no connecting track", "from", a, "to", b)
	}
	return t, err
}

// Render produces every format in opts.Formats for a loaded layout. The
// boolean reports whether all artifacts came from the cache.
func (r *Runner) Render(ctx context.Context, res *Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	start := time.Now()
	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	var dot string

	for _, format := range opts.Formats {
		key := cache.ArtifactKey(res.DocHash, res.ArtifactKeyOpts(format, opts.Detailed))

		if !opts.Refresh {
			if data, ok := r.cached(ctx, key); ok {
				artifacts[format] = data
				continue
			}
		}
		allCached = false

		if dot == "" {
			dot = toDOT(res, opts)
		}
		data, err := renderFormat(ctx, dot, format)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	res.Stats.RenderTime = time.Since(start)
	opts.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", allCached,
		"duration", res.Stats.RenderTime)

	return artifacts, allCached, nil
}

// cached returns the artifact stored under key. Backend errors count as
// misses so a broken cache never fails a render.
func (r *Runner) cached(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
		hit = false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "artifact")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	return data, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
