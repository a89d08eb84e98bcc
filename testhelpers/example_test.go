package testhelpers_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"

	"github.com/gitbutler/but-workspace/internal/id"
	"github.com/gitbutler/but-workspace/internal/state"
	"github.com/gitbutler/but-workspace/testhelpers"
)

// TestGitRepoBasicOperations tests basic Git repository operations.
func TestGitRepoBasicOperations(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

	branches, err := scene.Repo.RunGitCommandAndGetOutput("branch", "--list")
	require.NoError(t, err)
	require.Contains(t, branches, "main")

	base := scene.Rev(t, "main")
	require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
	first := scene.Commit(t, "first", "first")
	second := scene.Commit(t, "second", "second")

	shas, err := scene.Repo.ListCommitSHAs(base, "feature")
	require.NoError(t, err)
	require.Equal(t, []string{second, first}, shas)
}

func TestWriteState(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	stackID := id.New[state.Stack]()
	head := scene.Rev(t, "main")

	require.NoError(t, scene.WriteState(
		&state.Target{BranchName: "main", RemoteName: "origin", Sha: head},
		testhelpers.StackFixture{
			ID: stackID, Name: "stack", InWorkspace: true,
			Heads: []state.StackBranchHead{{Name: "feature", Head: head, PRNumber: testhelpers.Ptr(3)}},
		},
	))

	data, err := os.ReadFile(filepath.Join(scene.GBDir(), state.FileName))
	require.NoError(t, err)

	var doc state.Document
	require.NoError(t, toml.Unmarshal(data, &doc))
	require.Equal(t, "main", doc.DefaultTarget.BranchName)
	require.Contains(t, doc.Branches, stackID.String())
	require.Equal(t, testhelpers.Ptr(3), doc.Branches[stackID.String()].Branches[0].PRNumber)
}
