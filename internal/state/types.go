package state

import (
	"github.com/gitbutler/but-workspace/internal/id"
)

// Target is the branch on the remote that stacks are integrated into
type Target struct {
	BranchName     string `toml:"branchName"`
	RemoteName     string `toml:"remoteName"`
	RemoteURL      string `toml:"remoteUrl,omitempty"`
	PushRemoteName string `toml:"pushRemoteName,omitempty"`
	// Sha is the base commit of the workspace, recorded when the target was last updated
	Sha string `toml:"sha,omitempty"`
}

// RemoteRef returns the fully qualified remote-tracking ref of the target, e.g. refs/remotes/origin/main
func (t *Target) RemoteRef() string {
	return "refs/remotes/" + t.RemoteName + "/" + t.BranchName
}

// Stack is a persisted collection of heads that build on each other
type Stack struct {
	ID          id.Id[Stack] `toml:"id"`
	Name        string       `toml:"name"`
	Notes       string       `toml:"notes,omitempty"`
	InWorkspace bool         `toml:"in_workspace"`
	Order       int          `toml:"order"`
	// Branches is stored bottom-most first: each entry builds on the one before it
	Branches []StackBranchHead `toml:"heads"`
}

// StackBranchHead is a pseudo-branch: a named pointer kept in the stack state,
// distinct from any ref in the repository
type StackBranchHead struct {
	Name string `toml:"name"`
	// Head is the commit the pseudo-branch points at (a sha or any revision)
	Head string `toml:"head"`
	// Upstream is the remote-tracking ref, absent if the branch was never pushed
	Upstream    *string `toml:"upstream,omitempty"`
	Description *string `toml:"description,omitempty"`
	PRNumber    *int    `toml:"pr_number,omitempty"`
}

// Heads returns the head names of the stack, topmost first
func (s *Stack) Heads() []string {
	names := make([]string, 0, len(s.Branches))
	for i := len(s.Branches) - 1; i >= 0; i-- {
		names = append(names, s.Branches[i].Name)
	}
	return names
}

// Head returns the head with the given name and the head directly below it, if any
func (s *Stack) Head(name string) (head *StackBranchHead, below *StackBranchHead, ok bool) {
	for i := range s.Branches {
		if s.Branches[i].Name != name {
			continue
		}
		if i > 0 {
			below = &s.Branches[i-1]
		}
		return &s.Branches[i], below, true
	}
	return nil, nil, false
}
