package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7D56F4")
	colorSuccess = lipgloss.Color("#04B575")
	colorWarning = lipgloss.Color("#FFB454")
	colorError   = lipgloss.Color("#FF5F87")
	colorMuted   = lipgloss.Color("#767676")

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)

	clearStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSuccess).
			Foreground(colorSuccess).
			Padding(1, 2)

	noticeStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorError).
			Foreground(colorError).
			Padding(0, 1)

	confirmStyle  = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(colorMuted).Width(14)
	focusStyle    = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Width(14)
	selectedStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	statusStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
)
