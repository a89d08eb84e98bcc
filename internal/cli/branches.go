package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitbutler/but-workspace/internal/cli/helpers"
	"github.com/gitbutler/but-workspace/internal/id"
	"github.com/gitbutler/but-workspace/internal/output"
	"github.com/gitbutler/but-workspace/internal/runtime"
	"github.com/gitbutler/but-workspace/internal/state"
)

func parseStackID(raw string) (id.Id[state.Stack], error) {
	stackID, err := id.Parse[state.Stack](raw)
	if err != nil {
		return stackID, fmt.Errorf("invalid stack id %q: %w", raw, err)
	}
	return stackID, nil
}

// newBranchesCmd creates the branches command
func newBranchesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "branches <stack-id>",
		Short: "Show every branch of a stack with its commits",
		Long: `Show every branch of a stack, topmost first, with its commits classified as
local only, pushed, or integrated, followed by commits that only exist on the
branch's upstream.

The command fails if any branch of the stack cannot be assembled.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: helpers.CompleteStackIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stackID, err := parseStackID(args[0])
			if err != nil {
				return err
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				branches, err := ctx.Workspace.StackBranches(cmd.Context(), stackID)
				if err != nil {
					return err
				}
				if asJSON {
					return output.WriteJSON(cmd.OutOrStdout(), branches)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), output.RenderBranches(branches))
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the branches as JSON")

	return cmd
}

// newBranchCmd creates the branch command
func newBranchCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "branch <stack-id> <branch-name>",
		Short: "Show one branch of a stack with its commits",
		Long: `Show a single branch of a stack. Other branches of the stack are not
inspected, so a broken sibling branch does not affect the result.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: helpers.CompleteStackIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stackID, err := parseStackID(args[0])
			if err != nil {
				return err
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				branch, err := ctx.Workspace.StackBranch(cmd.Context(), stackID, args[1])
				if err != nil {
					return err
				}
				if asJSON {
					return output.WriteJSON(cmd.OutOrStdout(), branch)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), output.RenderBranch(branch))
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the branch as JSON")

	return cmd
}
