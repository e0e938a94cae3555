package tui

import "github.com/charmbracelet/lipgloss"

var (
	appStyle    = lipgloss.NewStyle().Padding(1, 2)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	badgeStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1).Background(lipgloss.Color("#EF4444")).Foreground(lipgloss.Color("#FFFFFF"))
	subtleStyle = lipgloss.NewStyle().Faint(true)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// barStyle paints a progress bar in the band colour of a subject.
func barStyle(color string) lipgloss.Style {
	if color == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
