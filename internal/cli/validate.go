package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	rerrors "github.com/matzehuels/railyard/pkg/errors"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that a layout document builds",
		Long: `Validate builds the layout without printing it. Every id must be unique
within its scope and every track must join two existing nodes. With --strict,
node track references must also name existing tracks.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyFileArg(args)
			return c.runValidate(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func (c *CLI) runValidate(ctx context.Context, w, errw io.Writer) error {
	runner := c.queryRunner()
	defer runner.Close()

	path := c.cfg.Layout.Path
	res, err := runner.Load(ctx, c.loadOptions())
	if err != nil {
		printError(errw, "%s is invalid", path)
		printDetail(errw, "%s", rerrors.UserMessage(err))
		if code := rerrors.GetCode(err); code != "" {
			printDetail(errw, "code: %s", code)
		}
		return err
	}

	printSuccess(w, "%s is valid", res.Path)
	printStats(w, res.Stats.NodeCount, res.Stats.TrackCount, false)
	printNextStep(w, "Render it", "railyard render "+res.Path)
	return nil
}
