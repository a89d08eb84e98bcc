package git

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// MergeBases returns the best common ancestors of two commits.
// The result is empty when the histories are unrelated.
func (r *Repository) MergeBases(a, b plumbing.Hash) ([]plumbing.Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	commit1, err := r.repo.CommitObject(a)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", a, err)
	}

	commit2, err := r.repo.CommitObject(b)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", b, err)
	}

	mergeBases, err := commit1.MergeBase(commit2)
	if err != nil {
		return nil, fmt.Errorf("failed to find merge base: %w", err)
	}

	hashes := make([]plumbing.Hash, 0, len(mergeBases))
	for _, c := range mergeBases {
		hashes = append(hashes, c.Hash)
	}
	return hashes, nil
}
