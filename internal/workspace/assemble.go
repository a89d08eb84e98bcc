package workspace

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing"
)

// BranchMetadata is UI-supplied data carried through verbatim
type BranchMetadata struct {
	Description *string
	PRNumber    *int
}

// BranchSpec describes one head to assemble into a StackBranch
type BranchSpec struct {
	Name     string
	Head     string
	Upstream *string
	Boundary plumbing.Hash
	Base     []plumbing.Hash
	Metadata BranchMetadata
	Options  Options
}

// AssembleBranch classifies the commits of a head and combines them with its metadata
func AssembleBranch(ctx context.Context, repo Repository, b BranchSpec) (StackBranch, error) {
	classified, err := ClassifyCommits(ctx, repo, ClassifyInput{
		Branch:   b.Name,
		Head:     b.Head,
		Upstream: b.Upstream,
		Boundary: b.Boundary,
		Base:     b.Base,
		Options:  b.Options,
	})
	if err != nil {
		return StackBranch{}, err
	}

	return StackBranch{
		Name:              b.Name,
		UpstreamReference: b.Upstream,
		Commits:           classified.Commits,
		UpstreamCommits:   classified.UpstreamCommits,
		Description:       b.Metadata.Description,
		PRNumber:          b.Metadata.PRNumber,
	}, nil
}
