// Package git provides read-only access to a git repository's object store and refs.
//
// It wraps go-git and provides a Go-friendly interface for:
//   - Resolving branch, remote-tracking and tag names to commit ids
//   - Reading commit metadata (message, parents, committer time)
//   - Computing patch identities that survive rebases
//   - Finding merge bases
//
// This package should be the only place that touches go-git directly.
package git
