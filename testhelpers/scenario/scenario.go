// Package scenario provides a high-level test scenario that combines a Scene,
// its stack state, and a runtime Context to provide a terse API for integration tests.
package scenario

import (
	"bytes"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitbutler/but-workspace/internal/id"
	"github.com/gitbutler/but-workspace/internal/runtime"
	"github.com/gitbutler/but-workspace/internal/state"
	"github.com/gitbutler/but-workspace/testhelpers"
)

// Scenario represents a high-level test scenario that combines a Scene,
// the stacks persisted for it, and a runtime Context.
type Scenario struct {
	T      *testing.T
	Scene  *testhelpers.Scene
	Target *state.Target
	Stacks []testhelpers.StackFixture
}

// NewScenario creates a new Scenario with an optional setup function.
func NewScenario(t *testing.T, setup testhelpers.SceneSetup) *Scenario {
	t.Helper()
	return &Scenario{
		T:     t,
		Scene: testhelpers.NewScene(t, setup),
	}
}

// WithInitialCommit creates an initial commit on the main branch.
func (s *Scenario) WithInitialCommit() *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.CreateChangeAndCommit("initial", "init"))
	return s
}

// WithOrigin creates a bare origin, pushes main to it and targets origin/main
// with the current main commit as the workspace base.
func (s *Scenario) WithOrigin() *Scenario {
	s.T.Helper()
	_, err := s.Scene.Repo.CreateBareRemote("origin")
	require.NoError(s.T, err)
	require.NoError(s.T, s.Scene.Repo.PushBranch("origin", "main"))
	s.Target = &state.Target{BranchName: "main", RemoteName: "origin", Sha: s.Scene.Rev(s.T, "main")}
	return s
}

// RunGit runs a git command in the scenario's repository.
func (s *Scenario) RunGit(args ...string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.RunGitCommand(args...))
	return s
}

// Checkout checks out a branch.
func (s *Scenario) Checkout(branch string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.CheckoutBranch(branch))
	return s
}

// CreateBranch creates and checks out a new branch.
func (s *Scenario) CreateBranch(name string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.CreateAndCheckoutBranch(name))
	return s
}

// CommitChange creates a file change and commits it.
func (s *Scenario) CommitChange(name, message string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.CreateChangeAndCommit(message, name))
	return s
}

// Push pushes a branch to origin.
func (s *Scenario) Push(branch string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.PushBranch("origin", branch))
	return s
}

// WithStack persists an applied stack whose heads point at the given git branches,
// bottom-most first. Heads whose branch was pushed get origin as upstream.
func (s *Scenario) WithStack(name string, branches ...string) id.Id[state.Stack] {
	s.T.Helper()
	stackID := id.New[state.Stack]()

	heads := make([]state.StackBranchHead, 0, len(branches))
	for _, branch := range branches {
		head := testhelpers.Head(branch, s.Scene.Rev(s.T, branch))
		upstream := "refs/remotes/origin/" + branch
		if _, err := s.Scene.Repo.GetRevision(upstream); err == nil {
			head.Upstream = &upstream
		}
		heads = append(heads, head)
	}

	s.Stacks = append(s.Stacks, testhelpers.StackFixture{
		ID: stackID, Name: name, InWorkspace: true, Order: len(s.Stacks), Heads: heads,
	})
	require.NoError(s.T, s.Scene.WriteState(s.Target, s.Stacks...))
	return stackID
}

// Context opens a runtime Context on the scenario's repository.
func (s *Scenario) Context() *runtime.Context {
	s.T.Helper()
	ctx, err := runtime.NewContext(runtime.Options{RepoPath: s.Scene.Dir})
	require.NoError(s.T, err)
	s.T.Cleanup(func() { _ = ctx.Close() })
	return ctx
}

// RunCli runs the but-workspace binary against the scenario's repository.
// It returns stdout, stderr and the exit code.
func (s *Scenario) RunCli(args ...string) (string, string, int) {
	s.T.Helper()
	binaryPath, err := testhelpers.GetSharedBinaryPath()
	require.NoError(s.T, err)

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(binaryPath, append(args, "--repo", s.Scene.Dir)...)
	cmd.Dir = s.Scene.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		require.True(s.T, errors.As(err, &exitErr), "failed to run binary: %v", err)
		exitCode = exitErr.ExitCode()
	}
	return stdout.String(), stderr.String(), exitCode
}
