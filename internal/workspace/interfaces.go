package workspace

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/gitbutler/but-workspace/internal/git"
	"github.com/gitbutler/but-workspace/internal/id"
	"github.com/gitbutler/but-workspace/internal/state"
)

// Repository is the read access to the object store and refs the classifier needs.
// *git.Repository implements it. Implementations must be safe for concurrent use.
type Repository interface {
	// Resolve resolves a ref name or revision to an existing commit
	Resolve(rev string) (plumbing.Hash, error)
	// Commit returns id, message, parents, committer time and conflict flag of a commit
	Commit(hash plumbing.Hash) (*git.CommitInfo, error)
	// PatchID returns a content fingerprint that is stable across rebases
	PatchID(ctx context.Context, hash plumbing.Hash) (string, error)
	// MergeBases returns the best common ancestors of two commits
	MergeBases(a, b plumbing.Hash) ([]plumbing.Hash, error)
}

// StackStore is the read access to persisted stacks
type StackStore interface {
	ListStacksInWorkspace() ([]state.Stack, error)
	GetStack(stackID id.Id[state.Stack]) (*state.Stack, error)
	DefaultTarget() (*state.Target, error)
}

// Logger receives diagnostic output. *output.Splog implements it.
type Logger interface {
	Debug(format string, args ...interface{})
	Warn(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}

func (nopLogger) Warn(string, ...interface{}) {}

var (
	_ Repository = (*git.Repository)(nil)
	_ StackStore = (*state.VirtualBranchesHandle)(nil)
)
