package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gitbutler/but-workspace/internal/workspace"
)

const shortIDLength = 7

// WriteJSON writes v as indented JSON followed by a newline
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// RenderStacks renders the applied stacks, one block per stack with the topmost branch first
func RenderStacks(entries []workspace.StackEntry) string {
	if len(entries) == 0 {
		return ColorDim("no stacks applied") + "\n"
	}

	var b strings.Builder
	for i, entry := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(ColorDim(entry.ID.String()))
		b.WriteString("\n")
		for j, name := range entry.BranchNames {
			marker := "│"
			if j == 0 {
				marker = "▸"
			}
			fmt.Fprintf(&b, "  %s %s\n", marker, ColorBranchName(name))
		}
	}
	return b.String()
}

// RenderBranches renders branches in the order given, separated by blank lines
func RenderBranches(branches []workspace.StackBranch) string {
	parts := make([]string, 0, len(branches))
	for _, branch := range branches {
		parts = append(parts, RenderBranch(branch))
	}
	return strings.Join(parts, "\n")
}

// RenderBranch renders one branch: header, local commits with their state, then upstream-only commits
func RenderBranch(branch workspace.StackBranch) string {
	var b strings.Builder

	header := "▸ " + ColorBranchName(branch.Name)
	if branch.UpstreamReference != nil {
		header += " " + ColorDim("("+*branch.UpstreamReference+")")
	}
	if branch.PRNumber != nil {
		header += " " + colored(colorUpstream, fmt.Sprintf("#%d", *branch.PRNumber))
	}
	b.WriteString(header + "\n")

	if branch.Description != nil && *branch.Description != "" {
		fmt.Fprintf(&b, "  %s\n", ColorDim(*branch.Description))
	}

	if len(branch.Commits) == 0 {
		fmt.Fprintf(&b, "  %s\n", ColorDim("no commits"))
	}
	for _, c := range branch.Commits {
		b.WriteString("  " + renderCommit(c) + "\n")
	}

	if len(branch.UpstreamCommits) > 0 {
		fmt.Fprintf(&b, "  %s\n", colored(colorUpstream, "upstream only:"))
		for _, c := range branch.UpstreamCommits {
			line := fmt.Sprintf("○ %s %s", shortID(c.ID.String()), subject(c.Message))
			b.WriteString("  " + colored(colorUpstream, line) + "\n")
		}
	}
	return b.String()
}

func renderCommit(c workspace.StackBranchCommit) string {
	var glyph, label, color string
	switch c.State.Kind {
	case workspace.CommitLocalAndRemote:
		glyph, color = "●", colorLocalAndRemote
		label = "pushed"
		if remote := c.State.RemoteCommitID.String(); remote != c.ID.String() {
			label = "pushed as " + shortID(remote)
		}
	case workspace.CommitIntegrated:
		glyph, label, color = "✓", "integrated", colorIntegrated
	default:
		glyph, label, color = "●", "local", colorLocalOnly
	}

	line := fmt.Sprintf("%s %s %s %s", colored(color, glyph), shortID(c.ID.String()), subject(c.Message), colored(color, "["+label+"]"))
	if c.HasConflicts {
		line += " " + ColorConflicted("conflicted")
	}
	return line
}

func shortID(id string) string {
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}

// subject returns the first line of a commit message
func subject(message string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(message), "\n")
	return first
}
