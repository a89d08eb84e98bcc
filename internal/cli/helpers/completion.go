package helpers

import (
	"github.com/spf13/cobra"

	"github.com/gitbutler/but-workspace/internal/runtime"
	"github.com/gitbutler/but-workspace/internal/workspace"
)

// CompleteStackIDs is a helper for cobra.ValidArgsFunction that returns the ids of the
// applied stacks, described by their branch names
func CompleteStackIDs(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	entries, err := listStacks(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	completions := make([]string, 0, len(entries))
	for _, entry := range entries {
		completions = append(completions, entry.ID.String()+"\t"+entry.BranchNames[0])
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

func listStacks(cmd *cobra.Command) ([]workspace.StackEntry, error) {
	ctx, err := runtime.NewContext(ContextOptions(cmd))
	if err != nil {
		return nil, err
	}
	entries, err := ctx.Workspace.Stacks()
	if closeErr := ctx.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return entries, err
}
