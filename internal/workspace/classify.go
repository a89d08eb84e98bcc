package workspace

import (
	"context"
	"fmt"
	"slices"

	"github.com/go-git/go-git/v5/plumbing"

	wserrors "github.com/gitbutler/but-workspace/internal/errors"
	"github.com/gitbutler/but-workspace/internal/git"
)

// ClassifyInput describes one branch to classify
type ClassifyInput struct {
	// Branch names the branch in errors
	Branch string
	// Head is the revision the pseudo-branch points at. Empty means the branch has no commits yet.
	Head string
	// Upstream is the remote-tracking ref of the branch, nil if it was never pushed
	Upstream *string
	// Boundary is the tip of the integration target. Zero disables integration checks.
	Boundary plumbing.Hash
	// Base holds additional commits the walks stop at: the head below this one in its
	// stack and the recorded workspace base. When empty, the merge bases of head and
	// boundary are used instead.
	Base    []plumbing.Hash
	Options Options
}

// Classification is the classified commit lists of one branch
type Classification struct {
	Commits         []StackBranchCommit
	UpstreamCommits []UpstreamCommit
}

// ClassifyCommits walks a branch and its upstream and assigns each local commit a state.
//
// A local commit is LocalAndRemote when its id, or failing that its patch identity, is found
// among the upstream commits; Integrated when it, or its patch, is reachable from the boundary
// (which overrides the remote state); LocalOnly otherwise. Upstream commits that back no local
// commit and are not reachable from the boundary are returned as UpstreamCommits.
// Both lists are newest first.
func ClassifyCommits(ctx context.Context, repo Repository, in ClassifyInput) (Classification, error) {
	result := Classification{
		Commits:         []StackBranchCommit{},
		UpstreamCommits: []UpstreamCommit{},
	}
	if in.Head == "" {
		return result, nil
	}

	// Resolve everything first so a dangling ref fails before any walking
	head, err := repo.Resolve(in.Head)
	if err != nil {
		return Classification{}, wserrors.NewRefResolutionError(in.Branch, in.Head, err)
	}
	var upstreamTip plumbing.Hash
	if in.Upstream != nil {
		upstreamTip, err = repo.Resolve(*in.Upstream)
		if err != nil {
			return Classification{}, wserrors.NewRefResolutionError(in.Branch, *in.Upstream, err)
		}
	}

	c := &classifier{repo: repo, in: in, fingerprints: make(map[plumbing.Hash]string)}

	headBases, err := c.mergeBases(head)
	if err != nil {
		return Classification{}, err
	}
	stops, err := c.stopsFor(ctx, head)
	if err != nil {
		return Classification{}, err
	}

	local, err := walkAncestry(ctx, repo, in.Branch, head, stops, in.Options.WalkLimit)
	if err != nil {
		return Classification{}, err
	}

	states := make(map[plumbing.Hash]CommitState, len(local.order))
	for _, info := range local.order {
		states[info.ID] = LocalOnly()
	}

	var upstream *commitGraph
	consumed := make(hashSet)
	if in.Upstream != nil {
		upstreamBases, err := c.mergeBases(upstreamTip)
		if err != nil {
			return Classification{}, err
		}
		upstreamStops, err := c.stopsFor(ctx, upstreamTip)
		if err != nil {
			return Classification{}, err
		}
		for h := range stops {
			upstreamStops.add(h)
		}
		for _, mb := range append(upstreamBases, headBases...) {
			upstreamStops.add(mb)
		}

		upstream, err = walkAncestry(ctx, repo, in.Branch, upstreamTip, upstreamStops, in.Options.WalkLimit)
		if err != nil {
			return Classification{}, err
		}
		if err := c.matchRemote(ctx, local, upstream, states, consumed); err != nil {
			return Classification{}, err
		}
	}

	if err := c.markIntegrated(ctx, local, headBases, stops, states); err != nil {
		return Classification{}, err
	}

	for _, info := range local.order {
		result.Commits = append(result.Commits, StackBranchCommit{
			ID:           info.ID,
			Message:      info.Message,
			HasConflicts: info.Conflicted,
			State:        states[info.ID],
		})
	}
	if upstream != nil {
		for _, info := range upstream.order {
			if consumed.has(info.ID) {
				continue
			}
			result.UpstreamCommits = append(result.UpstreamCommits, UpstreamCommit{
				ID:      info.ID,
				Message: info.Message,
			})
		}
	}
	return result, nil
}

type classifier struct {
	repo         Repository
	in           ClassifyInput
	fingerprints map[plumbing.Hash]string
}

func (c *classifier) mergeBases(tip plumbing.Hash) ([]plumbing.Hash, error) {
	if c.in.Boundary.IsZero() {
		return nil, nil
	}
	bases, err := c.repo.MergeBases(tip, c.in.Boundary)
	if err != nil {
		return nil, wserrors.NewGraphWalkError(c.in.Branch, tip.String(), err)
	}
	return bases, nil
}

// stopsFor returns the commits a walk from tip stops at: Base, the boundary and the
// points where tip forked off each of them. Without Base, only the boundary is used.
func (c *classifier) stopsFor(ctx context.Context, tip plumbing.Hash) (hashSet, error) {
	stops := newHashSet(c.in.Base...)
	stops.add(c.in.Boundary)

	targets := c.in.Base
	if len(targets) == 0 && !c.in.Boundary.IsZero() {
		targets = []plumbing.Hash{c.in.Boundary}
	}
	for _, target := range targets {
		if target.IsZero() || target == tip {
			continue
		}
		forks, err := c.forkPoints(ctx, tip, target)
		if err != nil {
			return nil, err
		}
		for _, h := range forks {
			stops.add(h)
		}
	}
	return stops, nil
}

// forkPoints returns where tip left the history of target. That is their merge base,
// unless tip is already contained in target: then it is the merge base of tip and the
// first commit on the first-parent chain of target that does not contain tip.
// History fast-forwarded into target cannot be told apart from target's own, so
// there only tip itself remains on the branch.
func (c *classifier) forkPoints(ctx context.Context, tip, target plumbing.Hash) ([]plumbing.Hash, error) {
	bases, err := c.repo.MergeBases(tip, target)
	if err != nil {
		return nil, wserrors.NewGraphWalkError(c.in.Branch, tip.String(), err)
	}
	if !slices.Contains(bases, tip) {
		return bases, nil
	}

	// Commits containing tip form a prefix of the chain. Gallop to the first one
	// that does not, then bisect.
	chain := []plumbing.Hash{target}
	extend := func(i int) (bool, error) {
		for len(chain) <= i {
			if err := ctx.Err(); err != nil {
				return false, err
			}
			limit := c.in.Options.WalkLimit
			if limit > 0 && len(chain) >= limit {
				return false, wserrors.NewGraphWalkError(c.in.Branch, target.String(),
					fmt.Errorf("more than %d first-parent commits: %w", limit, wserrors.ErrWalkLimitExceeded))
			}
			last := chain[len(chain)-1]
			info, err := c.repo.Commit(last)
			if err != nil {
				return false, wserrors.NewGraphWalkError(c.in.Branch, last.String(), err)
			}
			if len(info.Parents) == 0 {
				return false, nil
			}
			chain = append(chain, info.Parents[0])
		}
		return true, nil
	}
	containsTip := func(h plumbing.Hash) (bool, error) {
		mb, err := c.repo.MergeBases(tip, h)
		if err != nil {
			return false, wserrors.NewGraphWalkError(c.in.Branch, h.String(), err)
		}
		return slices.Contains(mb, tip), nil
	}

	lo, hi := 0, -1
	for step := 1; hi < 0; step *= 2 {
		i := lo + step
		ok, err := extend(i)
		if err != nil {
			return nil, err
		}
		if !ok {
			i = len(chain) - 1
			if i == lo {
				// tip is the root of target's first-parent chain
				return nil, nil
			}
		}
		in, err := containsTip(chain[i])
		if err != nil {
			return nil, err
		}
		switch {
		case !in:
			hi = i
		case !ok:
			return nil, nil
		default:
			lo = i
		}
	}
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		in, err := containsTip(chain[mid])
		if err != nil {
			return nil, err
		}
		if in {
			lo = mid
		} else {
			hi = mid
		}
	}

	forks, err := c.repo.MergeBases(tip, chain[hi])
	if err != nil {
		return nil, wserrors.NewGraphWalkError(c.in.Branch, tip.String(), err)
	}
	return forks, nil
}

func (c *classifier) fingerprint(ctx context.Context, h plumbing.Hash) (string, error) {
	if fp, ok := c.fingerprints[h]; ok {
		return fp, nil
	}
	fp, err := c.repo.PatchID(ctx, h)
	if err != nil {
		return "", wserrors.NewGraphWalkError(c.in.Branch, h.String(), err)
	}
	c.fingerprints[h] = fp
	return fp, nil
}

// matchRemote pairs local commits with upstream commits. Identical ids are paired first;
// the remaining local commits, newest first, take an unconsumed upstream commit with the
// same fingerprint, picked according to the configured MatchOrder.
func (c *classifier) matchRemote(ctx context.Context, local, upstream *commitGraph, states map[plumbing.Hash]CommitState, consumed hashSet) error {
	var unmatched []*git.CommitInfo
	for _, info := range local.order {
		if upstream.contains(info.ID) {
			consumed.add(info.ID)
			states[info.ID] = LocalAndRemote(info.ID)
			continue
		}
		unmatched = append(unmatched, info)
	}
	if len(unmatched) == 0 {
		return nil
	}

	// Fingerprint -> upstream candidates in ancestry order, built once per call
	candidates := make(map[string][]plumbing.Hash)
	for _, info := range upstream.order {
		if consumed.has(info.ID) {
			continue
		}
		fp, err := c.fingerprint(ctx, info.ID)
		if err != nil {
			return err
		}
		candidates[fp] = append(candidates[fp], info.ID)
	}
	if len(candidates) == 0 {
		return nil
	}

	for _, info := range unmatched {
		fp, err := c.fingerprint(ctx, info.ID)
		if err != nil {
			return err
		}
		if remoteID, ok := c.take(candidates[fp], consumed); ok {
			states[info.ID] = LocalAndRemote(remoteID)
		}
	}
	return nil
}

func (c *classifier) take(candidates []plumbing.Hash, consumed hashSet) (plumbing.Hash, bool) {
	n := len(candidates)
	for i := 0; i < n; i++ {
		idx := i
		if c.in.Options.MatchOrder == MatchOldestFirst {
			idx = n - 1 - i
		}
		if h := candidates[idx]; !consumed.has(h) {
			consumed.add(h)
			return h, true
		}
	}
	return plumbing.ZeroHash, false
}

// markIntegrated overrides the state of local commits that are already part of the boundary,
// either by ancestry or because the boundary carries a commit with the same patch
func (c *classifier) markIntegrated(ctx context.Context, local *commitGraph, headBases []plumbing.Hash, stops hashSet, states map[plumbing.Hash]CommitState) error {
	if c.in.Boundary.IsZero() || len(local.order) == 0 {
		return nil
	}

	reachable := reachableWithin(local, headBases)
	var remaining []*git.CommitInfo
	for _, info := range local.order {
		if reachable.has(info.ID) {
			states[info.ID] = Integrated()
			continue
		}
		remaining = append(remaining, info)
	}
	if len(remaining) == 0 {
		return nil
	}

	// Commits the boundary gained since the branch forked off
	boundaryStops := newHashSet(headBases...)
	for h := range stops {
		if h != c.in.Boundary {
			boundaryStops.add(h)
		}
	}
	target, err := walkAncestry(ctx, c.repo, c.in.Branch, c.in.Boundary, boundaryStops, c.in.Options.WalkLimit)
	if err != nil {
		return err
	}
	if len(target.order) == 0 {
		return nil
	}

	integratedPatches := make(map[string]struct{}, len(target.order))
	for _, info := range target.order {
		fp, err := c.fingerprint(ctx, info.ID)
		if err != nil {
			return err
		}
		integratedPatches[fp] = struct{}{}
	}
	for _, info := range remaining {
		fp, err := c.fingerprint(ctx, info.ID)
		if err != nil {
			return err
		}
		if _, ok := integratedPatches[fp]; ok {
			states[info.ID] = Integrated()
		}
	}
	return nil
}
