package ui

import (
	"os"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
)

// GetFangScheme returns the same light/dark-aware color scheme fang uses.
func GetFangScheme() fang.ColorScheme {
	// This mirrors fang.mustColorscheme(DefaultColorScheme)
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
	return fang.DefaultColorScheme(lipgloss.LightDark(isDark))
}

// PrefixStyles styles the prefixes of user-facing console messages.
type PrefixStyles struct {
	Hint  lipgloss.Style
	Error lipgloss.Style
	Fatal lipgloss.Style
}

// GetPrefixStyles returns prefix styles drawn from the fang color scheme, so
// hints and errors match the colors of help and error output.
func GetPrefixStyles() PrefixStyles {
	colorScheme := GetFangScheme()

	return PrefixStyles{
		Hint:  lipgloss.NewStyle().Foreground(colorScheme.Flag),
		Error: lipgloss.NewStyle().Foreground(colorScheme.QuotedString).Bold(true),
		Fatal: lipgloss.NewStyle().Foreground(colorScheme.QuotedString).Bold(true),
	}
}
