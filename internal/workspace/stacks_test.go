package workspace_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	wserrors "github.com/gitbutler/but-workspace/internal/errors"
	"github.com/gitbutler/but-workspace/internal/id"
	"github.com/gitbutler/but-workspace/internal/state"
	"github.com/gitbutler/but-workspace/internal/workspace"
	"github.com/gitbutler/but-workspace/testhelpers"
)

func TestStacks(t *testing.T) {
	t.Run("lists applied stacks in store order with topmost head first", func(t *testing.T) {
		gbDir := t.TempDir()
		first := id.New[state.Stack]()
		second := id.New[state.Stack]()
		require.NoError(t, testhelpers.WriteStateFile(gbDir, nil,
			testhelpers.StackFixture{
				ID: second, Name: "second", InWorkspace: true, Order: 1,
				Heads: []state.StackBranchHead{testhelpers.Head("only", "")},
			},
			testhelpers.StackFixture{
				ID: first, Name: "first", InWorkspace: true, Order: 0,
				Heads: []state.StackBranchHead{
					testhelpers.Head("bottom", ""),
					testhelpers.Head("middle", ""),
					testhelpers.Head("top", ""),
				},
			},
			testhelpers.StackFixture{
				Name: "unapplied", InWorkspace: false, Order: 2,
				Heads: []state.StackBranchHead{testhelpers.Head("hidden", "")},
			},
		))

		entries, err := workspace.Stacks(gbDir)
		require.NoError(t, err)
		require.Equal(t, []workspace.StackEntry{
			{ID: first, BranchNames: []string{"top", "middle", "bottom"}},
			{ID: second, BranchNames: []string{"only"}},
		}, entries)

		again, err := workspace.Stacks(gbDir)
		require.NoError(t, err)
		require.Equal(t, entries, again)
	})

	t.Run("no applied stacks is an empty list", func(t *testing.T) {
		gbDir := t.TempDir()
		require.NoError(t, testhelpers.WriteStateFile(gbDir, nil))

		entries, err := workspace.Stacks(gbDir)
		require.NoError(t, err)
		require.NotNil(t, entries)
		require.Empty(t, entries)
	})

	t.Run("missing state is unavailable", func(t *testing.T) {
		entries, err := workspace.Stacks(filepath.Join(t.TempDir(), "missing"))
		require.ErrorIs(t, err, wserrors.ErrStateUnavailable)
		require.Nil(t, entries)
	})
}
