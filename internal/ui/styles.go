// Package ui holds the terminal presentation layer: lipgloss styles, the
// interactive confirm/alert dialogs, and the sync report renderer.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color palette
// - Default (white/black): primary text
// - Accent (soft blue, overridable from config): keys, labels, counts
// - Muted (gray): secondary info
// - Colored symbols only for pass/warn/fail markers

const defaultAccent = "#7AA2F7"

var (
	// Accent styles reference labels, item keys, and counts.
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted styles secondary info and hints.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold styles section headers.
	Bold = lipgloss.NewStyle().Bold(true)

	// Pass and Warn style the symbols in front of report lines.
	Pass = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	Warn = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	Fail = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// ConfigureColors applies the configured accent color and disables color
// entirely when stdout is not a terminal.
func ConfigureColors(accent string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	if accent != "" {
		Accent = Accent.Foreground(lipgloss.Color(accent))
	}
}

// IsInteractive reports whether stdin and stdout are attached to a terminal,
// which is what the confirm dialogs need to run.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
