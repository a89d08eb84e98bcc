// Package state reads the persisted stack state of a workspace.
//
// The state lives in virtual_branches.toml inside the GitButler directory of a
// repository (normally .git/gitbutler). The handle never writes and never caches:
// every call decodes the file afresh.
package state

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	wserrors "github.com/gitbutler/but-workspace/internal/errors"
	"github.com/gitbutler/but-workspace/internal/id"
)

// FileName is the name of the state file inside the GitButler directory
const FileName = "virtual_branches.toml"

// Document is the on-disk shape of the state file
type Document struct {
	DefaultTarget *Target          `toml:"default_target,omitempty"`
	Branches      map[string]Stack `toml:"branches"`
}

// VirtualBranchesHandle provides read access to the state file
type VirtualBranchesHandle struct {
	filePath string
}

// NewVirtualBranchesHandle creates a handle for the state in the given GitButler directory
func NewVirtualBranchesHandle(gbDir string) *VirtualBranchesHandle {
	return &VirtualBranchesHandle{filePath: filepath.Join(gbDir, FileName)}
}

// Path returns the path of the state file
func (h *VirtualBranchesHandle) Path() string {
	return h.filePath
}

// ListStacksInWorkspace returns the stacks that are applied to the workspace,
// in store order (ascending order, then id)
func (h *VirtualBranchesHandle) ListStacksInWorkspace() ([]Stack, error) {
	all, err := h.ListAllStacks()
	if err != nil {
		return nil, err
	}
	applied := make([]Stack, 0, len(all))
	for _, s := range all {
		if s.InWorkspace {
			applied = append(applied, s)
		}
	}
	return applied, nil
}

// ListAllStacks returns every persisted stack, applied or not, in store order
func (h *VirtualBranchesHandle) ListAllStacks() ([]Stack, error) {
	doc, err := h.read()
	if err != nil {
		return nil, err
	}
	stacks := make([]Stack, 0, len(doc.Branches))
	for _, s := range doc.Branches {
		stacks = append(stacks, s)
	}
	sort.SliceStable(stacks, func(i, j int) bool {
		if stacks[i].Order != stacks[j].Order {
			return stacks[i].Order < stacks[j].Order
		}
		return stacks[i].ID.String() < stacks[j].ID.String()
	})
	return stacks, nil
}

// GetStack returns the stack with the given id, applied or not
func (h *VirtualBranchesHandle) GetStack(stackID id.Id[Stack]) (*Stack, error) {
	doc, err := h.read()
	if err != nil {
		return nil, err
	}
	for _, s := range doc.Branches {
		if s.ID == stackID {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("stack %s: %w", stackID, wserrors.ErrStackNotFound)
}

// DefaultTarget returns the workspace target, or nil if none has been set
func (h *VirtualBranchesHandle) DefaultTarget() (*Target, error) {
	doc, err := h.read()
	if err != nil {
		return nil, err
	}
	return doc.DefaultTarget, nil
}

func (h *VirtualBranchesHandle) read() (*Document, error) {
	var doc Document
	if _, err := toml.DecodeFile(h.filePath, &doc); err != nil {
		return nil, wserrors.NewStateUnavailableError(h.filePath, err)
	}

	for key, s := range doc.Branches {
		// Older files may omit the id field; the table key carries it
		if s.ID.IsZero() {
			parsed, err := id.Parse[Stack](key)
			if err != nil {
				return nil, wserrors.NewStateUnavailableError(h.filePath, fmt.Errorf("stack %q has no valid id: %w", key, err))
			}
			s.ID = parsed
		}
		if len(s.Branches) == 0 {
			return nil, wserrors.NewStateUnavailableError(h.filePath, fmt.Errorf("stack %s has no heads", s.ID))
		}
		for _, head := range s.Branches {
			if head.Name == "" {
				return nil, wserrors.NewStateUnavailableError(h.filePath, fmt.Errorf("stack %s has a head without a name", s.ID))
			}
		}
		doc.Branches[key] = s
	}
	return &doc, nil
}
