package cli

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(1, 5).
			MarginBottom(1).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder())

	// okStyle and warnStyle mark per-target outcomes of a probe run.
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	warnStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFB86C"))

	labelStyle = lipgloss.NewStyle().Faint(true).Width(12)
)
