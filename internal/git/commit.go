package git

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ConflictMarkerEntry is the root tree entry GitButler writes into commits it
// had to rebase with unresolved conflicts
const ConflictMarkerEntry = ".conflict-files"

// CommitInfo is the commit metadata needed to reason about ancestry
type CommitInfo struct {
	ID         plumbing.Hash
	Message    string
	Parents    []plumbing.Hash
	Time       time.Time
	Conflicted bool
}

// Commit reads the metadata of a single commit
func (r *Repository) Commit(hash plumbing.Hash) (*CommitInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", hash, err)
	}

	conflicted, err := hasConflictMarker(commit)
	if err != nil {
		return nil, err
	}

	parents := make([]plumbing.Hash, len(commit.ParentHashes))
	copy(parents, commit.ParentHashes)

	return &CommitInfo{
		ID:         commit.Hash,
		Message:    commit.Message,
		Parents:    parents,
		Time:       commit.Committer.When,
		Conflicted: conflicted,
	}, nil
}

// Parents returns the parent ids of a commit, first parent first
func (r *Repository) Parents(hash plumbing.Hash) ([]plumbing.Hash, error) {
	info, err := r.Commit(hash)
	if err != nil {
		return nil, err
	}
	return info.Parents, nil
}

// Message returns the full message of a commit
func (r *Repository) Message(hash plumbing.Hash) (string, error) {
	info, err := r.Commit(hash)
	if err != nil {
		return "", err
	}
	return info.Message, nil
}

func hasConflictMarker(commit *object.Commit) (bool, error) {
	tree, err := commit.Tree()
	if err != nil {
		return false, fmt.Errorf("failed to get tree of %s: %w", commit.Hash, err)
	}
	if _, err := tree.FindEntry(ConflictMarkerEntry); err != nil {
		if errors.Is(err, object.ErrEntryNotFound) || errors.Is(err, object.ErrDirectoryNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to inspect tree of %s: %w", commit.Hash, err)
	}
	return true, nil
}
