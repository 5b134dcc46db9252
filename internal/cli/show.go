package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/matzehuels/railyard/pkg/layout"
	"github.com/matzehuels/railyard/pkg/render/text"
)

// runShow is the root command: build the layout, print it, then run the
// example query. A missing connection is reported but is not a failure.
func (c *CLI) runShow(ctx context.Context, w io.Writer) error {
	runner := c.queryRunner()
	defer runner.Close()

	res, err := runner.Load(ctx, c.loadOptions())
	if err != nil {
		return fmt.Errorf("loading failed: %w", err)
	}

	if err := text.WriteLayout(w, res.Layout); err != nil {
		return err
	}
	fmt.Fprintln(w)

	from, to := c.cfg.Query.From, c.cfg.Query.To
	t, err := runner.Find(ctx, res, from, to)
	var nf *layout.NotFoundError
	switch {
	case errors.As(err, &nf):
		fmt.Fprintln(w, nf.Error())
	case err != nil:
		return err
	default:
		fmt.Fprintln(w, text.Track(t))
	}
	return nil
}
