package cli

import "github.com/charmbracelet/lipgloss"

// Styles for command output. Lipgloss degrades to plain text when the
// terminal does not support colour.
var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")) // Purple

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1")) // Green

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9E2AF")) // Yellow

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")) // Medium gray
)
