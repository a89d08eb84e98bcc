package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitbutler/but-workspace/internal/cli/helpers"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "but-workspace",
		Short: "Inspect the stacks and commits of a GitButler workspace",
		Long: `but-workspace lists the stacks applied to a GitButler workspace and shows,
for every branch of a stack, which commits are local only, which are also on
the remote, and which are already integrated into the target branch.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().String(helpers.FlagRepo, "", "Path inside the repository (default: current directory)")
	rootCmd.PersistentFlags().String(helpers.FlagGBDir, "", "GitButler state directory (default: <git dir>/gitbutler)")
	rootCmd.PersistentFlags().Bool(helpers.FlagDebug, false, "Print debug output")

	rootCmd.AddCommand(newStacksCmd())
	rootCmd.AddCommand(newBranchesCmd())
	rootCmd.AddCommand(newBranchCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}
