package report

import "github.com/charmbracelet/lipgloss"

// Severity and status palette for the console reporter.
var (
	colorPrimary  = lipgloss.Color("#7D56F4")
	colorCritical = lipgloss.Color("#FF0000")
	colorHigh     = lipgloss.Color("#FF6B6B")
	colorMedium   = lipgloss.Color("#FFD93D")
	colorLow      = lipgloss.Color("#6BCB77")
	colorMuted    = lipgloss.Color("#6B7280")
	colorSuccess  = lipgloss.Color("#00D26A")
	colorError    = lipgloss.Color("#FF3838")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(colorPrimary).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	severityStyles = map[string]lipgloss.Style{
		"critical": lipgloss.NewStyle().Bold(true).Foreground(colorCritical),
		"high":     lipgloss.NewStyle().Foreground(colorHigh),
		"medium":   lipgloss.NewStyle().Foreground(colorMedium),
		"low":      lipgloss.NewStyle().Foreground(colorLow),
	}

	okStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	failStyle = lipgloss.NewStyle().Foreground(colorError)
)
