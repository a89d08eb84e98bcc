package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitbutler/but-workspace/internal/cli/helpers"
	"github.com/gitbutler/but-workspace/internal/config"
	"github.com/gitbutler/but-workspace/internal/git"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get and set repository configuration",
		Long: `Get and set repository configuration values.

Keys: gbDir, walkLimit, matchOrder (newest|oldest), concurrency, logFile.

Examples:
  but-workspace config list
  but-workspace config get walkLimit
  but-workspace config set matchOrder oldest`,
	}

	cmd.AddCommand(newConfigListCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

func openGitDir(cmd *cobra.Command) (string, error) {
	repo, err := git.OpenRepository(helpers.ContextOptions(cmd).RepoPath)
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return repo.GitDir(), nil
}

// newConfigListCmd creates the config list command
func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gitDir, err := openGitDir(cmd)
			if err != nil {
				return err
			}
			cfg, err := config.GetRepoConfig(gitDir)
			if err != nil {
				return err
			}
			for _, kv := range cfg.Values(gitDir) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", kv[0], kv[1])
			}
			return nil
		},
	}
}

// newConfigGetCmd creates the config get command
func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gitDir, err := openGitDir(cmd)
			if err != nil {
				return err
			}
			cfg, err := config.GetRepoConfig(gitDir)
			if err != nil {
				return err
			}
			for _, kv := range cfg.Values(gitDir) {
				if kv[0] == args[0] {
					fmt.Fprintln(cmd.OutOrStdout(), kv[1])
					return nil
				}
			}
			return fmt.Errorf("unknown configuration key: %s", args[0])
		},
	}
}

// newConfigSetCmd creates the config set command
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gitDir, err := openGitDir(cmd)
			if err != nil {
				return err
			}
			cfg, err := config.GetRepoConfig(gitDir)
			if err != nil {
				return err
			}
			if err := cfg.SetValue(args[0], args[1]); err != nil {
				return err
			}
			if err := config.SaveRepoConfig(gitDir, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s to: %s\n", args[0], args[1])
			return nil
		},
	}
}
