package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Colors of the commit states, in ANSI 16-color codes
const (
	colorLocalOnly      = "3" // yellow
	colorLocalAndRemote = "2" // green
	colorIntegrated     = "5" // magenta
	colorUpstream       = "6" // cyan
	colorConflicted     = "1" // red
	colorDim            = "8"
)

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ConfigureColors turns styling off when w is not a terminal
func ConfigureColors(w io.Writer) {
	if !IsTerminal(w) || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func colored(color, text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

// ColorBranchName renders a branch name in bold
func ColorBranchName(name string) string {
	return lipgloss.NewStyle().Bold(true).Render(name)
}

// ColorDim makes text dim/gray
func ColorDim(text string) string {
	return colored(colorDim, text)
}

// ColorConflicted colors text red
func ColorConflicted(text string) string {
	return colored(colorConflicted, text)
}
