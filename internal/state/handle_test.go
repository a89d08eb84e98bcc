package state_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	wserrors "github.com/gitbutler/but-workspace/internal/errors"
	"github.com/gitbutler/but-workspace/internal/id"
	"github.com/gitbutler/but-workspace/internal/state"
)

const (
	stackA = "11111111-1111-4111-8111-111111111111"
	stackB = "22222222-2222-4222-8222-222222222222"
	stackC = "33333333-3333-4333-8333-333333333333"
)

func writeState(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, state.FileName), []byte(content), 0600))
	return dir
}

const sampleState = `
[default_target]
branchName = "main"
remoteName = "origin"
sha = "0123456789012345678901234567890123456789"

[branches.` + stackB + `]
id = "` + stackB + `"
name = "second"
in_workspace = true
order = 1

[[branches.` + stackB + `.heads]]
name = "b-bottom"
head = "aaaa"

[[branches.` + stackB + `.heads]]
name = "b-top"
head = "bbbb"
upstream = "refs/remotes/origin/b-top"
description = "top of b"
pr_number = 42

[branches.` + stackA + `]
name = "first"
in_workspace = true
order = 0

[[branches.` + stackA + `.heads]]
name = "a-only"
head = "cccc"

[branches.` + stackC + `]
id = "` + stackC + `"
name = "unapplied"
in_workspace = false
order = 2

[[branches.` + stackC + `.heads]]
name = "c"
head = "dddd"
`

func TestListStacksInWorkspace(t *testing.T) {
	t.Run("returns applied stacks ordered by order field", func(t *testing.T) {
		handle := state.NewVirtualBranchesHandle(writeState(t, sampleState))

		stacks, err := handle.ListStacksInWorkspace()
		require.NoError(t, err)
		require.Len(t, stacks, 2)
		require.Equal(t, stackA, stacks[0].ID.String(), "id falls back to the table key")
		require.Equal(t, stackB, stacks[1].ID.String())
	})

	t.Run("heads are topmost first", func(t *testing.T) {
		handle := state.NewVirtualBranchesHandle(writeState(t, sampleState))

		stack, err := handle.GetStack(id.MustParse[state.Stack](stackB))
		require.NoError(t, err)
		require.Equal(t, []string{"b-top", "b-bottom"}, stack.Heads())

		top, below, ok := stack.Head("b-top")
		require.True(t, ok)
		require.Equal(t, "b-bottom", below.Name)
		require.Equal(t, "refs/remotes/origin/b-top", *top.Upstream)
		require.Equal(t, "top of b", *top.Description)
		require.Equal(t, 42, *top.PRNumber)

		bottom, below, ok := stack.Head("b-bottom")
		require.True(t, ok)
		require.Nil(t, below)
		require.Nil(t, bottom.Upstream)
		require.Nil(t, bottom.PRNumber)
	})

	t.Run("all stacks includes unapplied ones", func(t *testing.T) {
		handle := state.NewVirtualBranchesHandle(writeState(t, sampleState))

		stacks, err := handle.ListAllStacks()
		require.NoError(t, err)
		require.Len(t, stacks, 3)
		require.False(t, stacks[2].InWorkspace)
	})

	t.Run("empty file yields no stacks", func(t *testing.T) {
		handle := state.NewVirtualBranchesHandle(writeState(t, ""))

		stacks, err := handle.ListStacksInWorkspace()
		require.NoError(t, err)
		require.Empty(t, stacks)
	})

	t.Run("missing file is state unavailable", func(t *testing.T) {
		handle := state.NewVirtualBranchesHandle(filepath.Join(t.TempDir(), "missing"))

		_, err := handle.ListStacksInWorkspace()
		require.ErrorIs(t, err, wserrors.ErrStateUnavailable)
	})

	t.Run("malformed toml is state unavailable", func(t *testing.T) {
		handle := state.NewVirtualBranchesHandle(writeState(t, "[branches\nname ="))

		_, err := handle.ListStacksInWorkspace()
		require.ErrorIs(t, err, wserrors.ErrStateUnavailable)
	})

	t.Run("stack without heads is state unavailable", func(t *testing.T) {
		content := "[branches." + stackA + "]\nname = \"empty\"\nin_workspace = true\n"
		handle := state.NewVirtualBranchesHandle(writeState(t, content))

		_, err := handle.ListStacksInWorkspace()
		require.ErrorIs(t, err, wserrors.ErrStateUnavailable)
	})
}

func TestDefaultTarget(t *testing.T) {
	handle := state.NewVirtualBranchesHandle(writeState(t, sampleState))

	target, err := handle.DefaultTarget()
	require.NoError(t, err)
	require.NotNil(t, target)
	require.Equal(t, "refs/remotes/origin/main", target.RemoteRef())
	require.Equal(t, "0123456789012345678901234567890123456789", target.Sha)
}

func TestGetStackUnknown(t *testing.T) {
	handle := state.NewVirtualBranchesHandle(writeState(t, sampleState))

	_, err := handle.GetStack(id.New[state.Stack]())
	require.ErrorIs(t, err, wserrors.ErrStackNotFound)
}
