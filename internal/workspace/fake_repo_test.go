package workspace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/gitbutler/but-workspace/internal/git"
)

var errObjectMissing = errors.New("object missing")

// fakeRepo is an in-memory commit graph. Commits added later are newer.
type fakeRepo struct {
	commits map[plumbing.Hash]*git.CommitInfo
	patches map[plumbing.Hash]string
	refs    map[string]plumbing.Hash
	broken  map[plumbing.Hash]bool
	clock   time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		commits: make(map[plumbing.Hash]*git.CommitInfo),
		patches: make(map[plumbing.Hash]string),
		refs:    make(map[string]plumbing.Hash),
		broken:  make(map[plumbing.Hash]bool),
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// commit adds a commit named name whose patch fingerprint is patch
func (f *fakeRepo) commit(name, patch string, parents ...plumbing.Hash) plumbing.Hash {
	h := plumbing.ComputeHash(plumbing.CommitObject, []byte(name))
	f.clock = f.clock.Add(time.Minute)
	f.commits[h] = &git.CommitInfo{
		ID:      h,
		Message: name,
		Parents: parents,
		Time:    f.clock,
	}
	f.patches[h] = patch
	return h
}

// chain adds one commit per name on top of parent and returns the ids in creation order
func (f *fakeRepo) chain(parent plumbing.Hash, names ...string) []plumbing.Hash {
	ids := make([]plumbing.Hash, 0, len(names))
	for _, name := range names {
		parent = f.commit(name, "patch-"+name, parent)
		ids = append(ids, parent)
	}
	return ids
}

func (f *fakeRepo) ref(name string, h plumbing.Hash) {
	f.refs[name] = h
}

func (f *fakeRepo) Resolve(rev string) (plumbing.Hash, error) {
	if h, ok := f.refs[rev]; ok {
		return h, nil
	}
	if plumbing.IsHash(rev) {
		h := plumbing.NewHash(rev)
		if _, ok := f.commits[h]; ok {
			return h, nil
		}
	}
	return plumbing.ZeroHash, fmt.Errorf("reference %s: %w", rev, git.ErrReferenceNotFound)
}

func (f *fakeRepo) Commit(h plumbing.Hash) (*git.CommitInfo, error) {
	info, ok := f.commits[h]
	if !ok || f.broken[h] {
		return nil, fmt.Errorf("commit %s: %w", h, errObjectMissing)
	}
	return info, nil
}

func (f *fakeRepo) PatchID(_ context.Context, h plumbing.Hash) (string, error) {
	info, err := f.Commit(h)
	if err != nil {
		return "", err
	}
	if len(info.Parents) > 1 {
		return "merge:" + h.String(), nil
	}
	return f.patches[h], nil
}

func (f *fakeRepo) MergeBases(a, b plumbing.Hash) ([]plumbing.Hash, error) {
	ancestorsA, err := f.ancestors(a)
	if err != nil {
		return nil, err
	}
	ancestorsB, err := f.ancestors(b)
	if err != nil {
		return nil, err
	}

	var common []plumbing.Hash
	for h := range ancestorsA {
		if _, ok := ancestorsB[h]; ok {
			common = append(common, h)
		}
	}

	// Keep only common ancestors that are not a proper ancestor of another one
	var best []plumbing.Hash
	for _, candidate := range common {
		dominated := false
		for _, other := range common {
			if other == candidate {
				continue
			}
			otherAncestors, err := f.ancestors(other)
			if err != nil {
				return nil, err
			}
			if _, ok := otherAncestors[candidate]; ok {
				dominated = true
				break
			}
		}
		if !dominated {
			best = append(best, candidate)
		}
	}
	return best, nil
}

func (f *fakeRepo) ancestors(tip plumbing.Hash) (map[plumbing.Hash]struct{}, error) {
	seen := make(map[plumbing.Hash]struct{})
	frontier := []plumbing.Hash{tip}
	for len(frontier) > 0 {
		h := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		if _, ok := seen[h]; ok {
			continue
		}
		info, ok := f.commits[h]
		if !ok {
			return nil, fmt.Errorf("commit %s: %w", h, errObjectMissing)
		}
		seen[h] = struct{}{}
		frontier = append(frontier, info.Parents...)
	}
	return seen, nil
}

var _ Repository = (*fakeRepo)(nil)
