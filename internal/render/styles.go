package render

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("12")  // bright blue
	colorSecondary = lipgloss.Color("10")  // bright green
	colorError     = lipgloss.Color("9")   // bright red
	colorDim       = lipgloss.Color("240") // gray
	colorBorder    = lipgloss.Color("238") // dark gray

	styleHeader = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			Padding(0, 1)

	styleCell = lipgloss.NewStyle().
			Padding(0, 1)

	styleTarget = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Padding(0, 1)

	styleFailed = lipgloss.NewStyle().
			Foreground(colorError).
			Padding(0, 1)

	styleBorder = lipgloss.NewStyle().
			Foreground(colorBorder)

	styleFooter = lipgloss.NewStyle().
			Foreground(colorDim)
)
