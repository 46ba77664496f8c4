package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rexxDigital/snailmail/internal/logging"
	"github.com/rexxDigital/snailmail/types"
)

type profileLoadedMsg struct {
	viewID  int64
	profile types.Profile
	err     error
}

type ProfileView struct {
	id      int64
	api     MailAPI
	profile types.Profile
	loading bool
	failed  bool
}

func NewProfileView(api MailAPI) *ProfileView {
	return &ProfileView{
		id:      nextViewID(),
		api:     api,
		loading: true,
	}
}

func (m *ProfileView) Init() tea.Cmd {
	id, api := m.id, m.api
	return func() tea.Msg {
		p, err := api.Profile(context.Background())
		return profileLoadedMsg{viewID: id, profile: p, err: err}
	}
}

func (m *ProfileView) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := message.(profileLoadedMsg); ok && msg.viewID == m.id {
		m.loading = false
		if msg.err != nil {
			logging.Log.WithError(msg.err).Warn("Failed to fetch profile")
			m.failed = true
			return m, nil
		}
		m.profile = msg.profile
	}
	return m, nil
}

func (m *ProfileView) View() string {
	switch {
	case m.loading:
		return statusStyle.Render("⏳ Loading...")
	case m.failed:
		return errorStyle.Padding(1, 2).Render("Could not load your profile")
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(fmt.Sprintf(
		"%s\n\nUsername: %s\nEmail:    %s\nRole:     %s",
		focusedStyle.Bold(true).Render("Profile"),
		m.profile.Username,
		m.profile.Email,
		m.profile.Role,
	))
}
