package testhelpers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/gitbutler/but-workspace/internal/id"
	"github.com/gitbutler/but-workspace/internal/state"
)

// StackFixture describes one stack to persist. Heads are given bottom-most first.
type StackFixture struct {
	ID          id.Id[state.Stack]
	Name        string
	InWorkspace bool
	Order       int
	Heads       []state.StackBranchHead
}

// WriteState writes virtual_branches.toml into the scene's GitButler directory.
func (s *Scene) WriteState(target *state.Target, stacks ...StackFixture) error {
	return WriteStateFile(s.GBDir(), target, stacks...)
}

// WriteStateFile writes virtual_branches.toml into gbDir.
func WriteStateFile(gbDir string, target *state.Target, stacks ...StackFixture) error {
	doc := state.Document{
		DefaultTarget: target,
		Branches:      make(map[string]state.Stack, len(stacks)),
	}
	for _, fixture := range stacks {
		stackID := fixture.ID
		if stackID.IsZero() {
			stackID = id.New[state.Stack]()
		}
		doc.Branches[stackID.String()] = state.Stack{
			ID:          stackID,
			Name:        fixture.Name,
			InWorkspace: fixture.InWorkspace,
			Order:       fixture.Order,
			Branches:    fixture.Heads,
		}
	}

	if err := os.MkdirAll(gbDir, 0750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	f, err := os.Create(filepath.Join(gbDir, state.FileName))
	if err != nil {
		return fmt.Errorf("failed to create state file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	return nil
}

// Head is a shorthand for building a StackBranchHead fixture.
func Head(name, sha string) state.StackBranchHead {
	return state.StackBranchHead{Name: name, Head: sha}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
