package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Rev resolves a revision in the scene repository or fails the test.
func (s *Scene) Rev(t *testing.T, rev string) string {
	t.Helper()
	sha, err := s.Repo.GetRevision(rev)
	require.NoError(t, err, "failed to resolve %s", rev)
	return sha
}

// Commit creates a commit on the current branch and returns its SHA.
func (s *Scene) Commit(t *testing.T, message, prefix string) string {
	t.Helper()
	require.NoError(t, s.Repo.CreateChangeAndCommit(message, prefix))
	return s.Rev(t, "HEAD")
}
