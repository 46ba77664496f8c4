package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	subtleColor     = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#DDC7A1"}
	highlightColor  = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#E78A4E"}
	specialColor    = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#D8A657"}
	errorColor      = lipgloss.AdaptiveColor{Light: "#C14A4A", Dark: "#EA6962"}
	backgroundColor = lipgloss.AdaptiveColor{Light: "#eee0b7", Dark: "#504945"}
	focusedStyle    = lipgloss.NewStyle().Foreground(highlightColor)
	blurredStyle    = lipgloss.NewStyle().Foreground(subtleColor)
	errorStyle      = lipgloss.NewStyle().Foreground(errorColor)

	headerStyle = lipgloss.NewStyle().
			Background(backgroundColor).
			Foreground(subtleColor).
			Padding(0, 1).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Background(backgroundColor).
			Foreground(highlightColor).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(subtleColor).
			MarginRight(1)

	selectedLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(highlightColor).
				MarginRight(1)

	fieldStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtleColor).
			Padding(0, 1)

	selectedFieldStyle = fieldStyle.BorderForeground(highlightColor)

	notificationStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(highlightColor).
				Padding(1, 3)

	emptyStyle = lipgloss.NewStyle().
			Foreground(specialColor).
			Padding(1, 2)

	composeButton = fmt.Sprintf("[ %s ]", focusedStyle.Render("Compose Email"))
)
