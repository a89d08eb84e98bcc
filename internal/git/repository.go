package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// ErrReferenceNotFound indicates that a revision does not name an existing commit
var ErrReferenceNotFound = errors.New("reference not found")

// Repository wraps a go-git repository
type Repository struct {
	repo   *git.Repository
	path   string
	gitDir string

	// go-git packfile readers are not safe for concurrent use
	mu sync.Mutex
}

// OpenRepository opens the git repository containing the given path
func OpenRepository(path string) (*Repository, error) {
	// Resolve to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	r := &Repository{repo: repo, path: absPath}

	// Get the worktree to find the root; bare repositories keep the opened path
	if worktree, err := repo.Worktree(); err == nil {
		r.path = worktree.Filesystem.Root()
	}

	if fsStorage, ok := repo.Storer.(*filesystem.Storage); ok {
		r.gitDir = fsStorage.Filesystem().Root()
	} else {
		r.gitDir = filepath.Join(r.path, ".git")
	}

	return r, nil
}

// Root returns the root directory of the repository worktree
func (r *Repository) Root() string {
	return r.path
}

// GitDir returns the repository's control directory (usually <root>/.git)
func (r *Repository) GitDir() string {
	return r.gitDir
}

// Resolve resolves a revision (full ref name, branch name, remote branch, tag or sha) to a commit id.
// Annotated tags are peeled to the commit they point at.
func (r *Repository) Resolve(rev string) (plumbing.Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	hash, err := r.resolveLocked(rev)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return r.peelLocked(rev, hash)
}

func (r *Repository) resolveLocked(rev string) (plumbing.Hash, error) {
	if rev == "" {
		return plumbing.ZeroHash, fmt.Errorf("empty revision: %w", ErrReferenceNotFound)
	}

	// 1. Try as a full reference name
	if ref, err := r.repo.Reference(plumbing.ReferenceName(rev), true); err == nil {
		return ref.Hash(), nil
	}

	// 2. Try as a local branch
	if ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(rev), true); err == nil {
		return ref.Hash(), nil
	}

	// 3. Try as a remote-tracking branch (origin/main)
	if ref, err := r.repo.Reference(plumbing.ReferenceName("refs/remotes/"+rev), true); err == nil {
		return ref.Hash(), nil
	}

	// 4. Try as a tag
	if ref, err := r.repo.Reference(plumbing.NewTagReferenceName(rev), true); err == nil {
		return ref.Hash(), nil
	}

	// 5. Try ResolveRevision (handles SHAs, short SHAs, and expressions like HEAD~1)
	if hash, err := r.repo.ResolveRevision(plumbing.Revision(rev)); err == nil {
		return *hash, nil
	}

	return plumbing.ZeroHash, fmt.Errorf("%s: %w", rev, ErrReferenceNotFound)
}

// peelLocked makes sure hash names an existing commit, following annotated tags
func (r *Repository) peelLocked(rev string, hash plumbing.Hash) (plumbing.Hash, error) {
	if _, err := r.repo.CommitObject(hash); err == nil {
		return hash, nil
	} else if !errors.Is(err, plumbing.ErrObjectNotFound) {
		return plumbing.ZeroHash, fmt.Errorf("failed to read %s: %w", rev, err)
	}

	tag, err := r.repo.TagObject(hash)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("%s does not point at a commit: %w", rev, ErrReferenceNotFound)
	}
	commit, err := tag.Commit()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("tag %s does not point at a commit: %w", rev, ErrReferenceNotFound)
	}
	return commit.Hash, nil
}

// CurrentBranch returns the short name of the checked out branch
func (r *Repository) CurrentBranch() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is not on a branch")
	}

	return head.Name().Short(), nil
}
