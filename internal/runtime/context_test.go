package runtime_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitbutler/but-workspace/internal/config"
	"github.com/gitbutler/but-workspace/internal/id"
	"github.com/gitbutler/but-workspace/internal/runtime"
	"github.com/gitbutler/but-workspace/internal/state"
	"github.com/gitbutler/but-workspace/testhelpers"
)

func TestNewContext(t *testing.T) {
	t.Run("uses the default state directory", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		stackID := id.New[state.Stack]()
		require.NoError(t, scene.WriteState(nil, testhelpers.StackFixture{
			ID: stackID, Name: "s", InWorkspace: true,
			Heads: []state.StackBranchHead{testhelpers.Head("feature", scene.Rev(t, "main"))},
		}))

		var logs bytes.Buffer
		ctx, err := runtime.NewContext(runtime.Options{RepoPath: scene.Dir, Debug: true, LogWriter: &logs})
		require.NoError(t, err)
		defer ctx.Close()

		require.Equal(t, scene.Dir, ctx.RepoRoot)
		require.Equal(t, scene.GBDir(), ctx.GBDir)

		entries, err := ctx.Workspace.Stacks()
		require.NoError(t, err)
		require.Len(t, entries, 1)

		_, err = ctx.Workspace.StackBranches(context.Background(), stackID)
		require.NoError(t, err)
		require.Contains(t, logs.String(), "assembled branch feature")
	})

	t.Run("honors the configured state directory and the flag override", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		gitDir := filepath.Join(scene.Dir, ".git")
		cfg := &config.RepoConfig{}
		require.NoError(t, cfg.SetValue("gbDir", "custom"))
		require.NoError(t, config.SaveRepoConfig(gitDir, cfg))

		ctx, err := runtime.NewContext(runtime.Options{RepoPath: scene.Dir})
		require.NoError(t, err)
		require.Equal(t, filepath.Join(gitDir, "custom"), ctx.GBDir)
		require.NoError(t, ctx.Close())

		override := t.TempDir()
		ctx, err = runtime.NewContext(runtime.Options{RepoPath: scene.Dir, GBDir: override})
		require.NoError(t, err)
		require.Equal(t, override, ctx.GBDir)
		require.NoError(t, ctx.Close())
	})

	t.Run("rejects an invalid match order", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		matchOrder := "random"
		require.NoError(t, config.SaveRepoConfig(filepath.Join(scene.Dir, ".git"), &config.RepoConfig{MatchOrder: &matchOrder}))

		_, err := runtime.NewContext(runtime.Options{RepoPath: scene.Dir})
		require.Error(t, err)
	})

	t.Run("fails outside a repository", func(t *testing.T) {
		_, err := runtime.NewContext(runtime.Options{RepoPath: t.TempDir()})
		require.Error(t, err)
	})
}
