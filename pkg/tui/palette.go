package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#7aa2f7")
	colorText   = lipgloss.Color("#c0caf5")
	colorDim    = lipgloss.Color("#565f89")
	colorGreen  = lipgloss.Color("#9ece6a")
	colorRed    = lipgloss.Color("#f7768e")
	colorYellow = lipgloss.Color("#e0af68")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	labelStyle    = lipgloss.NewStyle().Foreground(colorDim)
	textStyle     = lipgloss.NewStyle().Foreground(colorText)
	selectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(colorGreen)
	errStyle      = lipgloss.NewStyle().Foreground(colorRed)
	busyStyle     = lipgloss.NewStyle().Foreground(colorYellow)
	helpStyle     = lipgloss.NewStyle().Foreground(colorDim).MarginTop(1)
)
