// Package helpers provides shared helper functions for CLI commands.
package helpers

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitbutler/but-workspace/internal/output"
	"github.com/gitbutler/but-workspace/internal/runtime"
)

// Names of the global flags
const (
	FlagRepo  = "repo"
	FlagGBDir = "gb-dir"
	FlagDebug = "debug"
)

// ContextOptions resolves the runtime options from the global flags of cmd
func ContextOptions(cmd *cobra.Command) runtime.Options {
	opts := runtime.Options{LogWriter: cmd.ErrOrStderr()}
	flags := cmd.Flags()
	if repo, err := flags.GetString(FlagRepo); err == nil {
		opts.RepoPath = repo
	}
	if gbDir, err := flags.GetString(FlagGBDir); err == nil {
		opts.GBDir = gbDir
	}
	if debug, err := flags.GetBool(FlagDebug); err == nil {
		opts.Debug = debug
	}
	return opts
}

// Run is a helper that provides a runtime context to a command's execution function
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) (err error) {
	ctx, err := runtime.NewContext(ContextOptions(cmd))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := ctx.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close log file: %w", closeErr)
		}
	}()

	output.ConfigureColors(cmd.OutOrStdout())
	return fn(ctx)
}
