package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railyard/pkg/pipeline"
	"github.com/matzehuels/railyard/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (single format) or base path
	formats  []string // output formats: "svg", "png", "pdf", "dot"
	detailed bool     // list node track references in labels
	refresh  bool     // ignore cached artifacts
}

// renderCommand creates the render command for node-link diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a layout as a node-link diagram",
		Long: `Render draws the layout with Graphviz. End nodes are boxes, points nodes
are diamonds, and each edge is labeled with its track id and length.

DOT and SVG are produced in-process; PNG and PDF require librsvg
(rsvg-convert). Artifacts are cached by document content.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyFileArg(args)
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "list each node's track references in its label")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return slices.Clone(pipeline.DefaultFormats)
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, ...), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if _, err := nodelink.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns the file an artifact is written to. A single format
// with an explicit -o is written to exactly that path.
func outputPath(opts *renderOpts, input, format string) string {
	if len(opts.formats) == 1 && opts.output != "" {
		return opts.output
	}
	return basePath(opts.output, input) + "." + format
}

func (c *CLI) runRender(ctx context.Context, w io.Writer, opts *renderOpts) error {
	runner := c.renderRunner(ctx)
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := runner.Load(ctx, c.loadOptions())
	if err != nil {
		return fmt.Errorf("loading failed: %w", err)
	}

	artifacts, cached, err := runner.Render(ctx, res, pipeline.Options{
		Formats:  opts.formats,
		Detailed: opts.detailed,
		Refresh:  opts.refresh,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}

	var written []string
	for _, format := range opts.formats {
		path := outputPath(opts, res.Path, format)
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	prog.done(fmt.Sprintf("Rendered %d artifact(s)", len(written)))

	printSuccess(w, "Rendered %s", res.Path)
	printStats(w, res.Stats.NodeCount, res.Stats.TrackCount, cached)
	for _, path := range written {
		printFile(w, path)
	}
	return nil
}
