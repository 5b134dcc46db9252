package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	rerrors "github.com/matzehuels/railyard/pkg/errors"
	"github.com/matzehuels/railyard/pkg/render/text"
)

// findCommand creates the find command for a single adjacency query.
func (c *CLI) findCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find <node> <node> [file]",
		Short: "Find the track joining two nodes",
		Long: `Find prints the first track, in document order, whose endpoints are the
two given nodes in either order. It exits non-zero when no track joins them.`,
		Args: cobra.RangeArgs(2, 3),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) < 2 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeDocuments(cmd, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyFileArg(args[2:])
			return c.runFind(cmd.Context(), cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func (c *CLI) runFind(ctx context.Context, w io.Writer, a, b string) error {
	for _, id := range []string{a, b} {
		if err := rerrors.ValidateID(id); err != nil {
			return err
		}
	}

	runner := c.queryRunner()
	defer runner.Close()

	res, err := runner.Load(ctx, c.loadOptions())
	if err != nil {
		return fmt.Errorf("loading failed: %w", err)
	}

	t, err := runner.Find(ctx, res, a, b)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, text.Track(t))
	printKeyValue(w, "start", t.StartNode)
	printKeyValue(w, "end", t.EndNode)
	printKeyValue(w, "length", text.Length(t))
	return nil
}
