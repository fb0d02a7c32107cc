package styles

import "github.com/charmbracelet/lipgloss"

// Monokai Pro color palette
const (
	Orange = "#FC9867" // Warnings
	Green  = "#A9DC76" // Success
)

// Status line styles. lipgloss drops the colors when stdout is not a terminal.
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
)
