package errors_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	wserrors "github.com/gitbutler/but-workspace/internal/errors"
)

func TestTypedErrors(t *testing.T) {
	t.Run("state unavailable matches sentinel and keeps cause", func(t *testing.T) {
		err := fmt.Errorf("listing: %w", wserrors.NewStateUnavailableError("/tmp/gb/virtual_branches.toml", fs.ErrNotExist))
		require.ErrorIs(t, err, wserrors.ErrStateUnavailable)
		require.ErrorIs(t, err, fs.ErrNotExist)
		require.Contains(t, err.Error(), "/tmp/gb/virtual_branches.toml")
	})

	t.Run("ref resolution carries branch and ref", func(t *testing.T) {
		err := wserrors.NewRefResolutionError("feature", "refs/remotes/origin/feature", errors.New("reference not found"))
		require.ErrorIs(t, err, wserrors.ErrRefResolution)
		require.NotErrorIs(t, err, wserrors.ErrGraphWalk)
		require.Equal(t, "failed to resolve refs/remotes/origin/feature for branch feature: reference not found", err.Error())

		var refErr *wserrors.RefResolutionError
		require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &refErr)
		require.Equal(t, "feature", refErr.Branch)
	})

	t.Run("graph walk wraps limit exceeded", func(t *testing.T) {
		err := wserrors.NewGraphWalkError("feature", "", wserrors.ErrWalkLimitExceeded)
		require.ErrorIs(t, err, wserrors.ErrGraphWalk)
		require.ErrorIs(t, err, wserrors.ErrWalkLimitExceeded)
	})

	t.Run("branch not found", func(t *testing.T) {
		err := wserrors.NewBranchNotFoundError("stack-1", "missing")
		require.ErrorIs(t, err, wserrors.ErrBranchNotFound)
		require.Equal(t, "branch missing does not exist in stack stack-1", err.Error())
	})
}
