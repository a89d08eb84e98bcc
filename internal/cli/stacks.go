package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitbutler/but-workspace/internal/cli/helpers"
	"github.com/gitbutler/but-workspace/internal/output"
	"github.com/gitbutler/but-workspace/internal/runtime"
)

// newStacksCmd creates the stacks command
func newStacksCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stacks",
		Short: "List the stacks applied to the workspace",
		Long: `List the stacks applied to the workspace in the order the workspace keeps them.

Each stack shows its id followed by its branches, topmost branch first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				entries, err := ctx.Workspace.Stacks()
				if err != nil {
					return err
				}
				if asJSON {
					return output.WriteJSON(cmd.OutOrStdout(), entries)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), output.RenderStacks(entries))
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stacks as JSON")

	return cmd
}
