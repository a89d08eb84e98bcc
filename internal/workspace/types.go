package workspace

import (
	"encoding/json"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/gitbutler/but-workspace/internal/id"
	"github.com/gitbutler/but-workspace/internal/state"
)

// StackEntry is a lightweight view of a stack for listing
type StackEntry struct {
	ID id.Id[state.Stack] `json:"id"`
	// BranchNames is never empty. The first entry is the topmost branch of the stack.
	BranchNames []string `json:"branchNames"`
}

// CommitStateKind enumerates the states a commit can be in relative to its branch
type CommitStateKind int

const (
	// CommitLocalOnly indicates the commit only exists locally
	CommitLocalOnly CommitStateKind = iota
	// CommitLocalAndRemote indicates the commit, or a commit with the same content, is on the upstream
	CommitLocalAndRemote
	// CommitIntegrated indicates the commit, or its content, is already part of the integration boundary
	CommitIntegrated
)

func (k CommitStateKind) String() string {
	switch k {
	case CommitLocalOnly:
		return "LocalOnly"
	case CommitLocalAndRemote:
		return "LocalAndRemote"
	case CommitIntegrated:
		return "Integrated"
	default:
		return fmt.Sprintf("CommitStateKind(%d)", int(k))
	}
}

// CommitState is the state of a commit for the purposes of rendering.
//
// For CommitLocalAndRemote, RemoteCommitID is the matching remote commit. It may
// differ from the local commit id when the local commit was rebased or amended.
type CommitState struct {
	Kind           CommitStateKind
	RemoteCommitID plumbing.Hash
}

// LocalOnly returns the state of a commit that only exists locally
func LocalOnly() CommitState {
	return CommitState{Kind: CommitLocalOnly}
}

// LocalAndRemote returns the state of a commit that is also present at the remote as remoteID
func LocalAndRemote(remoteID plumbing.Hash) CommitState {
	return CommitState{Kind: CommitLocalAndRemote, RemoteCommitID: remoteID}
}

// Integrated returns the state of a commit that is part of the integration boundary
func Integrated() CommitState {
	return CommitState{Kind: CommitIntegrated}
}

func (s CommitState) String() string {
	if s.Kind == CommitLocalAndRemote {
		return fmt.Sprintf("LocalAndRemote(%s)", s.RemoteCommitID)
	}
	return s.Kind.String()
}

type commitStateJSON struct {
	Type    string `json:"type"`
	Subject string `json:"subject,omitempty"`
}

// MarshalJSON encodes the state as {"type": ..., "subject": <remote id>}
func (s CommitState) MarshalJSON() ([]byte, error) {
	out := commitStateJSON{Type: s.Kind.String()}
	if s.Kind == CommitLocalAndRemote {
		out.Subject = s.RemoteCommitID.String()
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the format produced by MarshalJSON
func (s *CommitState) UnmarshalJSON(data []byte) error {
	var in commitStateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Type {
	case "LocalOnly":
		*s = LocalOnly()
	case "LocalAndRemote":
		if !plumbing.IsHash(in.Subject) {
			return fmt.Errorf("invalid remote commit id %q", in.Subject)
		}
		*s = LocalAndRemote(plumbing.NewHash(in.Subject))
	case "Integrated":
		*s = Integrated()
	default:
		return fmt.Errorf("unknown commit state %q", in.Type)
	}
	return nil
}

// StackBranchCommit is a commit of a branch, with state derived relative to that branch
type StackBranchCommit struct {
	ID      plumbing.Hash `json:"id"`
	Message string        `json:"message"`
	// HasConflicts is set by the rebase machinery; it is surfaced, never computed here
	HasConflicts bool        `json:"hasConflicts"`
	State        CommitState `json:"state"`
}

// MarshalJSON encodes the commit id as a hex string
func (c StackBranchCommit) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID           string      `json:"id"`
		Message      string      `json:"message"`
		HasConflicts bool        `json:"hasConflicts"`
		State        CommitState `json:"state"`
	}{
		ID:           c.ID.String(),
		Message:      c.Message,
		HasConflicts: c.HasConflicts,
		State:        c.State,
	})
}

// UpstreamCommit is a commit that only exists on the upstream of a branch
type UpstreamCommit struct {
	ID      plumbing.Hash `json:"id"`
	Message string        `json:"message"`
}

// MarshalJSON encodes the commit id as a hex string
func (c UpstreamCommit) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}{ID: c.ID.String(), Message: c.Message})
}

// StackBranch is a branch of a stack, with commits derived from the local
// pseudo-branch and its remote-tracking counterpart
type StackBranch struct {
	Name string `json:"name"`
	// UpstreamReference is e.g. refs/remotes/origin/my-branch, nil if never pushed
	UpstreamReference *string `json:"upstreamReference"`
	// Commits is ordered newest to oldest
	Commits []StackBranchCommit `json:"commits"`
	// UpstreamCommits holds the commits that exist only on the upstream, newest to oldest
	UpstreamCommits []UpstreamCommit `json:"upstreamCommits"`
	Description     *string          `json:"description"`
	PRNumber        *int             `json:"prNumber"`
}

// MatchOrder decides which remote commit backs a local commit when several share its content
type MatchOrder int

const (
	// MatchNewestFirst picks the candidate closest to the upstream tip
	MatchNewestFirst MatchOrder = iota
	// MatchOldestFirst picks the candidate furthest from the upstream tip
	MatchOldestFirst
)

// ParseMatchOrder parses "newest" or "oldest"
func ParseMatchOrder(s string) (MatchOrder, error) {
	switch s {
	case "", "newest":
		return MatchNewestFirst, nil
	case "oldest":
		return MatchOldestFirst, nil
	default:
		return MatchNewestFirst, fmt.Errorf("unknown match order %q (expected newest or oldest)", s)
	}
}

// DefaultWalkLimit bounds every ancestry walk
const DefaultWalkLimit = 10000

// Options tune classification
type Options struct {
	// WalkLimit is the maximum number of commits visited per walk; 0 means unlimited
	WalkLimit  int
	MatchOrder MatchOrder
}

// DefaultOptions returns the options used when none are configured
func DefaultOptions() Options {
	return Options{WalkLimit: DefaultWalkLimit, MatchOrder: MatchNewestFirst}
}
