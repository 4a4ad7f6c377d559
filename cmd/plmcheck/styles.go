package main

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all report output.
const (
	ColorPrimary = lipgloss.Color("#7C3AED")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorSuccess = lipgloss.Color("#10B981")
	ColorError   = lipgloss.Color("#EF4444")
	ColorWarning = lipgloss.Color("#F59E0B")
)

var (
	// TitleStyle is for the command banner.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary text such as the summary line.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle marks valid manifests.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle marks invalid manifests and fatal errors.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle marks lint warnings.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// PathStyle renders document paths inside violation lines.
	PathStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)
