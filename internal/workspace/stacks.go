package workspace

import (
	"github.com/gitbutler/but-workspace/internal/state"
)

// Stacks returns the stacks applied to the workspace whose state lives in gbDir
func Stacks(gbDir string) ([]StackEntry, error) {
	return ListStacks(state.NewVirtualBranchesHandle(gbDir))
}

// ListStacks returns the applied stacks of store in store order. Each entry carries
// the head names of its stack, topmost first.
func ListStacks(store StackStore) ([]StackEntry, error) {
	stacks, err := store.ListStacksInWorkspace()
	if err != nil {
		return nil, err
	}

	entries := make([]StackEntry, 0, len(stacks))
	for i := range stacks {
		entries = append(entries, StackEntry{
			ID:          stacks[i].ID,
			BranchNames: stacks[i].Heads(),
		})
	}
	return entries, nil
}
