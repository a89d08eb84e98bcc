// Package errors provides sentinel errors and custom error types for the workspace queries.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrStateUnavailable indicates the persisted stack state is missing or corrupt
	ErrStateUnavailable = errors.New("stack state unavailable")

	// ErrRefResolution indicates a branch, upstream or target ref could not be resolved to a commit
	ErrRefResolution = errors.New("reference could not be resolved")

	// ErrGraphWalk indicates the object store failed while traversing commit ancestry
	ErrGraphWalk = errors.New("commit graph walk failed")

	// ErrWalkLimitExceeded indicates an ancestry walk visited more commits than allowed
	ErrWalkLimitExceeded = errors.New("walk limit exceeded")

	// ErrStackNotFound indicates that a stack id is not part of the workspace
	ErrStackNotFound = errors.New("stack not found")

	// ErrBranchNotFound indicates that a branch does not exist in a stack
	ErrBranchNotFound = errors.New("branch not found")
)

// StateUnavailableError represents a failure to read the stack state file
type StateUnavailableError struct {
	Path string
	Err  error
}

func (e *StateUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stack state at %s is unavailable: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("stack state at %s is unavailable", e.Path)
}

func (e *StateUnavailableError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrStateUnavailable
func (e *StateUnavailableError) Is(target error) bool {
	return target == ErrStateUnavailable
}

// NewStateUnavailableError creates a new StateUnavailableError
func NewStateUnavailableError(path string, err error) *StateUnavailableError {
	return &StateUnavailableError{Path: path, Err: err}
}

// RefResolutionError represents a named reference that no longer points at a commit
type RefResolutionError struct {
	Branch string
	Ref    string
	Err    error
}

func (e *RefResolutionError) Error() string {
	msg := fmt.Sprintf("failed to resolve %s", e.Ref)
	if e.Branch != "" {
		msg += fmt.Sprintf(" for branch %s", e.Branch)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *RefResolutionError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrRefResolution
func (e *RefResolutionError) Is(target error) bool {
	return target == ErrRefResolution
}

// NewRefResolutionError creates a new RefResolutionError
func NewRefResolutionError(branch, ref string, err error) *RefResolutionError {
	return &RefResolutionError{Branch: branch, Ref: ref, Err: err}
}

// GraphWalkError represents an object store failure during ancestry traversal
type GraphWalkError struct {
	Branch string
	Commit string
	Err    error
}

func (e *GraphWalkError) Error() string {
	msg := "commit graph walk failed"
	if e.Branch != "" {
		msg += fmt.Sprintf(" for branch %s", e.Branch)
	}
	if e.Commit != "" {
		msg += fmt.Sprintf(" at %s", e.Commit)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *GraphWalkError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrGraphWalk
func (e *GraphWalkError) Is(target error) bool {
	return target == ErrGraphWalk
}

// NewGraphWalkError creates a new GraphWalkError
func NewGraphWalkError(branch, commit string, err error) *GraphWalkError {
	return &GraphWalkError{Branch: branch, Commit: commit, Err: err}
}

// BranchNotFoundError represents an error when a head is not part of a stack
type BranchNotFoundError struct {
	StackID    string
	BranchName string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch %s does not exist in stack %s", e.BranchName, e.StackID)
}

// Is returns true if the target error is ErrBranchNotFound
func (e *BranchNotFoundError) Is(target error) bool {
	return target == ErrBranchNotFound
}

// NewBranchNotFoundError creates a new BranchNotFoundError
func NewBranchNotFoundError(stackID, branchName string) *BranchNotFoundError {
	return &BranchNotFoundError{StackID: stackID, BranchName: branchName}
}
