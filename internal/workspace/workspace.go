package workspace

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing"
	"golang.org/x/sync/errgroup"

	wserrors "github.com/gitbutler/but-workspace/internal/errors"
	"github.com/gitbutler/but-workspace/internal/id"
	"github.com/gitbutler/but-workspace/internal/state"
)

// DefaultConcurrency is the number of branches assembled in parallel
const DefaultConcurrency = 4

// Workspace answers stack and branch queries for one repository
type Workspace struct {
	repo        Repository
	store       StackStore
	options     Options
	concurrency int
	logger      Logger
}

// Option configures a Workspace
type Option func(*Workspace)

// WithOptions sets the classification options
func WithOptions(opts Options) Option {
	return func(w *Workspace) {
		w.options = opts
	}
}

// WithConcurrency bounds how many branches are assembled at once. Values below 1 mean one at a time.
func WithConcurrency(n int) Option {
	return func(w *Workspace) {
		if n < 1 {
			n = 1
		}
		w.concurrency = n
	}
}

// WithLogger sets the logger that receives diagnostic output
func WithLogger(logger Logger) Option {
	return func(w *Workspace) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a Workspace over a repository and its stack state
func New(repo Repository, store StackStore, opts ...Option) *Workspace {
	w := &Workspace{
		repo:        repo,
		store:       store,
		options:     DefaultOptions(),
		concurrency: DefaultConcurrency,
		logger:      nopLogger{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Stacks returns the applied stacks in store order
func (w *Workspace) Stacks() ([]StackEntry, error) {
	entries, err := ListStacks(w.store)
	if err != nil {
		return nil, err
	}
	w.logger.Debug("listed %d applied stacks", len(entries))
	return entries, nil
}

// StackBranches assembles every head of a stack, topmost first.
// The call fails as a whole if any head fails.
func (w *Workspace) StackBranches(ctx context.Context, stackID id.Id[state.Stack]) ([]StackBranch, error) {
	stack, err := w.store.GetStack(stackID)
	if err != nil {
		return nil, err
	}
	bounds, err := w.integrationBounds()
	if err != nil {
		return nil, err
	}

	names := stack.Heads()
	branches := make([]StackBranch, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for i, name := range names {
		g.Go(func() error {
			branch, err := w.assemble(gctx, stack, name, bounds)
			if err != nil {
				return err
			}
			branches[i] = branch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return branches, nil
}

// StackBranch assembles a single head of a stack
func (w *Workspace) StackBranch(ctx context.Context, stackID id.Id[state.Stack], name string) (StackBranch, error) {
	stack, err := w.store.GetStack(stackID)
	if err != nil {
		return StackBranch{}, err
	}
	if _, _, ok := stack.Head(name); !ok {
		return StackBranch{}, wserrors.NewBranchNotFoundError(stackID.String(), name)
	}
	bounds, err := w.integrationBounds()
	if err != nil {
		return StackBranch{}, err
	}
	return w.assemble(ctx, stack, name, bounds)
}

func (w *Workspace) assemble(ctx context.Context, stack *state.Stack, name string, bounds integrationBounds) (StackBranch, error) {
	head, below, ok := stack.Head(name)
	if !ok {
		return StackBranch{}, wserrors.NewBranchNotFoundError(stack.ID.String(), name)
	}

	var base []plumbing.Hash
	if below != nil && below.Head != "" {
		belowTip, err := w.repo.Resolve(below.Head)
		if err != nil {
			return StackBranch{}, wserrors.NewRefResolutionError(below.Name, below.Head, err)
		}
		base = append(base, belowTip)
	}
	if !bounds.base.IsZero() {
		base = append(base, bounds.base)
	}

	branch, err := AssembleBranch(ctx, w.repo, BranchSpec{
		Name:     head.Name,
		Head:     head.Head,
		Upstream: head.Upstream,
		Boundary: bounds.boundary,
		Base:     base,
		Metadata: BranchMetadata{Description: head.Description, PRNumber: head.PRNumber},
		Options:  w.options,
	})
	if err != nil {
		return StackBranch{}, err
	}
	w.logger.Debug("assembled branch %s: %d commits, %d upstream commits", name, len(branch.Commits), len(branch.UpstreamCommits))
	return branch, nil
}

type integrationBounds struct {
	// boundary is the current tip of the target
	boundary plumbing.Hash
	// base is the target commit recorded when the workspace was last updated
	base plumbing.Hash
}

// integrationBounds resolves the workspace target. Without a target there is
// nothing to integrate into and both bounds are zero. When the remote-tracking
// ref of the target is gone, the recorded base stands in for it.
func (w *Workspace) integrationBounds() (integrationBounds, error) {
	target, err := w.store.DefaultTarget()
	if err != nil {
		return integrationBounds{}, err
	}
	if target == nil {
		w.logger.Debug("no default target, integration checks disabled")
		return integrationBounds{}, nil
	}

	var bounds integrationBounds
	if target.Sha != "" {
		bounds.base, err = w.repo.Resolve(target.Sha)
		if err != nil {
			return integrationBounds{}, wserrors.NewRefResolutionError(target.BranchName, target.Sha, err)
		}
	}

	ref := target.RemoteRef()
	bounds.boundary, err = w.repo.Resolve(ref)
	if err != nil {
		if bounds.base.IsZero() {
			return integrationBounds{}, wserrors.NewRefResolutionError(target.BranchName, ref, err)
		}
		w.logger.Warn("target %s not found, using recorded base %s", ref, bounds.base)
		bounds.boundary = bounds.base
	}
	return bounds, nil
}
