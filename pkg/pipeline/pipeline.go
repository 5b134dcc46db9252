// Package pipeline ties the railyard stages together.
//
// A run reads a layout document, decodes it, builds and validates the
// layout, and optionally renders node-link artifacts:
//
//  1. Load: read → decode → [loader.Load] → immutable [layout.Layout]
//  2. Query: adjacency lookups against the built layout
//  3. Render: DOT, SVG, PNG or PDF artifacts, cached by document hash
//
// # Usage
//
//	runner := pipeline.NewRunner(c, logger)
//	res, err := runner.Load(ctx, pipeline.Options{Path: "layout.json"})
//	if err != nil {
//	    return err
//	}
//	t, err := runner.Find(ctx, res, "PN001", "EN001")
//
//	opts := pipeline.Options{Formats: []string{"svg"}}
//	artifacts, cached, err := runner.Render(ctx, res, opts)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/railyard/pkg/cache"
	"github.com/matzehuels/railyard/pkg/document"
	rerrors "github.com/matzehuels/railyard/pkg/errors"
	"github.com/matzehuels/railyard/pkg/layout"
	"github.com/matzehuels/railyard/pkg/loader"
	"github.com/matzehuels/railyard/pkg/render/nodelink"
)

// =============================================================================
// Default Values - Single Source of Truth for the CLI
// =============================================================================

const (
	// DefaultPath is the layout document read when none is given.
	DefaultPath = "layout.json"

	// DefaultSchema is the canonical document shape.
	DefaultSchema = loader.SchemaFlat

	// DefaultFrom and DefaultTo are the endpoints of the example query.
	DefaultFrom = "PN001"
	DefaultTo   = "EN001"
)

// DefaultFormats are rendered when no format is requested.
var DefaultFormats = []string{string(nodelink.FormatSVG)}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Load options
	Path   string // layout document; DefaultPath when empty
	Format string // document encoding; inferred from Path when empty
	Schema string // "flat" or "segregated"; DefaultSchema when empty
	Strict bool   // also validate node track references

	// Render options
	Formats  []string
	Detailed bool
	Refresh  bool // bypass cached artifacts

	// Runtime options
	Logger *log.Logger

	// validated tracks whether ValidateForLoad has been called.
	validated bool
}

// Result is a loaded layout together with what is needed to key its
// rendered artifacts.
type Result struct {
	// Layout is the built, immutable layout.
	Layout *layout.Layout

	// Path is the document the layout was read from.
	Path string

	// DocHash is the content hash of the raw document bytes.
	DocHash string

	// Schema and Strict are the settings the layout was built with.
	Schema loader.Schema
	Strict bool

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	TrackCount int
	Bytes      int
	ReadTime   time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all render formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := nodelink.ParseFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateForLoad checks load options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateForLoad() error {
	if o.validated {
		return nil
	}
	if strings.TrimSpace(o.Path) == "" {
		o.Path = DefaultPath
	}
	if err := rerrors.ValidatePath(o.Path); err != nil {
		return err
	}

	if o.Schema == "" {
		o.Schema = string(DefaultSchema)
	}
	schema, err := loader.ParseSchema(o.Schema)
	if err != nil {
		return err
	}
	o.Schema = string(schema)

	var f document.Format
	if o.Format == "" {
		f, err = document.FormatFromPath(o.Path)
	} else {
		f, err = document.ParseFormat(o.Format)
	}
	if err != nil {
		return err
	}
	o.Format = string(f)

	o.setLogger()
	o.validated = true
	return nil
}

// ValidateForRender checks render options and applies defaults.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	normalized := make([]string, len(o.Formats))
	for i, f := range o.Formats {
		format, err := nodelink.ParseFormat(f)
		if err != nil {
			return err
		}
		normalized[i] = string(format)
	}
	o.Formats = normalized
	o.setLogger()
	return nil
}

// BuildOptions returns the layout build options implied by o.
func (o *Options) BuildOptions() []layout.BuildOption {
	if o.Strict {
		return []layout.BuildOption{layout.WithStrictReferences()}
	}
	return nil
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (r *Result) ArtifactKeyOpts(format string, detailed bool) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Schema:   string(r.Schema),
		Strict:   r.Strict,
		Format:   format,
		Detailed: detailed,
	}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
