package git

import (
	"context"
	"crypto/sha1" //nolint:gosec // fingerprint, not a security boundary
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/go-git/go-git/v5/plumbing"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// PatchID returns a fingerprint of the change a commit introduces relative to its first parent.
//
// Like git patch-id, the fingerprint ignores whitespace, hunk positions and context lines,
// so it stays the same when a commit is rebased or amended without touching its diff.
// Merge commits and commits without changes fingerprint to their own id.
func (r *Repository) PatchID(ctx context.Context, hash plumbing.Hash) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return "", fmt.Errorf("failed to get commit %s: %w", hash, err)
	}

	if commit.NumParents() > 1 {
		return "merge:" + hash.String(), nil
	}

	tree, err := commit.Tree()
	if err != nil {
		return "", fmt.Errorf("failed to get tree of %s: %w", hash, err)
	}

	// Root commits diff against the empty tree
	var parentTree *object.Tree
	if commit.NumParents() == 1 {
		parent, err := commit.Parent(0)
		if err != nil {
			return "", fmt.Errorf("failed to get parent of %s: %w", hash, err)
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return "", fmt.Errorf("failed to get tree of %s: %w", parent.Hash, err)
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, nil)
	if err != nil {
		return "", fmt.Errorf("failed to diff %s: %w", hash, err)
	}
	patch, err := changes.PatchContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to compute patch of %s: %w", hash, err)
	}

	filePatches := patch.FilePatches()
	if len(filePatches) == 0 {
		return "empty:" + hash.String(), nil
	}
	return fingerprintPatch(filePatches), nil
}

func fingerprintPatch(filePatches []fdiff.FilePatch) string {
	type entry struct {
		key  string
		body string
	}
	entries := make([]entry, 0, len(filePatches))

	for _, fp := range filePatches {
		from, to := fp.Files()
		key := filePath(from) + "\x00" + filePath(to)

		var body strings.Builder
		if fp.IsBinary() {
			body.WriteString("binary ")
			body.WriteString(fileHash(from))
			body.WriteString(" ")
			body.WriteString(fileHash(to))
		}
		for _, chunk := range fp.Chunks() {
			var op string
			switch chunk.Type() {
			case fdiff.Add:
				op = "+"
			case fdiff.Delete:
				op = "-"
			default:
				continue
			}
			for _, line := range strings.SplitAfter(chunk.Content(), "\n") {
				if line == "" {
					continue
				}
				body.WriteString(op)
				body.WriteString(stripWhitespace(line))
				body.WriteString("\n")
			}
		}
		entries = append(entries, entry{key: key, body: body.String()})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	h := sha1.New() //nolint:gosec
	for _, e := range entries {
		h.Write([]byte(e.key))
		h.Write([]byte("\n"))
		h.Write([]byte(e.body))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func filePath(f fdiff.File) string {
	if f == nil {
		return "/dev/null"
	}
	return f.Path()
}

func fileHash(f fdiff.File) string {
	if f == nil {
		return plumbing.ZeroHash.String()
	}
	return f.Hash().String()
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
