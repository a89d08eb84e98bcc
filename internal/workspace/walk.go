package workspace

import (
	"bytes"
	"container/heap"
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"

	wserrors "github.com/gitbutler/but-workspace/internal/errors"
	"github.com/gitbutler/but-workspace/internal/git"
)

type hashSet map[plumbing.Hash]struct{}

func newHashSet(hashes ...plumbing.Hash) hashSet {
	s := make(hashSet, len(hashes))
	for _, h := range hashes {
		s.add(h)
	}
	return s
}

func (s hashSet) add(h plumbing.Hash) {
	if !h.IsZero() {
		s[h] = struct{}{}
	}
}

func (s hashSet) has(h plumbing.Hash) bool {
	_, ok := s[h]
	return ok
}

// commitGraph is the part of the history reachable from one tip without crossing a stop commit
type commitGraph struct {
	// order is newest first: a commit always comes before its parents
	order []*git.CommitInfo
	byID  map[plumbing.Hash]*git.CommitInfo
}

func (g *commitGraph) contains(h plumbing.Hash) bool {
	_, ok := g.byID[h]
	return ok
}

// walkAncestry collects every commit reachable from tip that is not a stop commit and is not
// reachable only through one. It uses an explicit frontier and visited set, so deep histories
// do not grow the stack, and it fails rather than truncates once more than limit commits were seen.
func walkAncestry(ctx context.Context, repo Repository, branch string, tip plumbing.Hash, stops hashSet, limit int) (*commitGraph, error) {
	g := &commitGraph{byID: make(map[plumbing.Hash]*git.CommitInfo)}
	if tip.IsZero() || stops.has(tip) {
		return g, nil
	}

	frontier := []plumbing.Hash{tip}
	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		h := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		if g.contains(h) {
			continue
		}
		if limit > 0 && len(g.byID) >= limit {
			return nil, wserrors.NewGraphWalkError(branch, tip.String(),
				fmt.Errorf("more than %d commits reachable: %w", limit, wserrors.ErrWalkLimitExceeded))
		}

		info, err := repo.Commit(h)
		if err != nil {
			return nil, wserrors.NewGraphWalkError(branch, h.String(), err)
		}
		g.byID[h] = info

		for _, parent := range info.Parents {
			if stops.has(parent) || g.contains(parent) {
				continue
			}
			frontier = append(frontier, parent)
		}
	}

	g.order = topoSort(g.byID)
	return g, nil
}

// topoSort orders commits children-first. Among commits whose children are all emitted,
// the most recently committed goes first, then the smaller id, so the order is deterministic.
func topoSort(byID map[plumbing.Hash]*git.CommitInfo) []*git.CommitInfo {
	children := make(map[plumbing.Hash]int, len(byID))
	for _, info := range byID {
		for _, parent := range info.Parents {
			if _, ok := byID[parent]; ok {
				children[parent]++
			}
		}
	}

	ready := &readyQueue{}
	for h, info := range byID {
		if children[h] == 0 {
			*ready = append(*ready, info)
		}
	}
	heap.Init(ready)

	order := make([]*git.CommitInfo, 0, len(byID))
	for ready.Len() > 0 {
		info := heap.Pop(ready).(*git.CommitInfo)
		order = append(order, info)
		for _, parent := range info.Parents {
			if _, ok := byID[parent]; !ok {
				continue
			}
			children[parent]--
			if children[parent] == 0 {
				heap.Push(ready, byID[parent])
			}
		}
	}
	return order
}

type readyQueue []*git.CommitInfo

func (q readyQueue) Len() int { return len(q) }

func (q readyQueue) Less(i, j int) bool {
	if !q[i].Time.Equal(q[j].Time) {
		return q[i].Time.After(q[j].Time)
	}
	return bytes.Compare(q[i].ID[:], q[j].ID[:]) < 0
}

func (q readyQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *readyQueue) Push(x any) { *q = append(*q, x.(*git.CommitInfo)) }

func (q *readyQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// reachableWithin returns the commits of g that are reachable from any of roots, roots included,
// following parent links only inside g
func reachableWithin(g *commitGraph, roots []plumbing.Hash) hashSet {
	reached := make(hashSet)
	frontier := make([]plumbing.Hash, 0, len(roots))
	for _, r := range roots {
		if g.contains(r) {
			frontier = append(frontier, r)
		}
	}
	for len(frontier) > 0 {
		h := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		if reached.has(h) {
			continue
		}
		reached.add(h)
		for _, parent := range g.byID[h].Parents {
			if g.contains(parent) && !reached.has(parent) {
				frontier = append(frontier, parent)
			}
		}
	}
	return reached
}
