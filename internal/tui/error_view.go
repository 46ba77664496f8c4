package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const errorBanner = "Welcome to the Error Page"

// ErrorView is shown for every path the router does not know.
type ErrorView struct {
	path string
}

func NewErrorView(path string) *ErrorView {
	return &ErrorView{path: path}
}

func (m *ErrorView) Init() tea.Cmd { return nil }

func (m *ErrorView) Update(tea.Msg) (tea.Model, tea.Cmd) { return m, nil }

func (m *ErrorView) View() string {
	return lipgloss.NewStyle().Padding(1, 2).Render(
		errorStyle.Bold(true).Render(errorBanner) + "\n\n" +
			blurredStyle.Render("Nothing lives at "+m.path+". Press i to go back to your inbox."),
	)
}
