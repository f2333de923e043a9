package tui

import (
	"github.com/charmbracelet/lipgloss"

	"agenda/internal/tasklist"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#6C6C6C"}
	errorRed  = lipgloss.Color("#FF5F5F")
	foreLight = lipgloss.Color("#FFFFFF")

	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(subtle)
	doneStyle   = lipgloss.NewStyle().Foreground(subtle).Strikethrough(true)
	errorStyle  = lipgloss.NewStyle().Foreground(errorRed)
	hintStyle   = lipgloss.NewStyle().Foreground(subtle).Italic(true)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	drawerStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(subtle).Padding(0, 2, 0, 0).MarginRight(2)
)

// accent returns the window's accent colour.
func accent(w tasklist.Window) lipgloss.Color {
	return lipgloss.Color(w.Presentation().Color)
}

func tabStyle(w tasklist.Window, active bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 2)
	if active {
		return s.Bold(true).Foreground(foreLight).Background(accent(w))
	}
	return s.Foreground(accent(w))
}

func headerStyle(w tasklist.Window) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(accent(w)).
		Border(lipgloss.NormalBorder(), false, false, true, false).BorderForeground(accent(w))
}
