package tui

import (
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type composeClosedMsg struct {
	sent bool
}

func closeCompose(sent bool) tea.Cmd {
	return func() tea.Msg {
		return composeClosedMsg{sent: sent}
	}
}

// BaseModel is the root shell. It routes between views, owns whether the
// compose view is open and shows at most one notification at a time.
type BaseModel struct {
	api    MailAPI
	sender string

	path        string
	currentView tea.Model
	composeOpen bool
	compose     *ComposeView
	notice      string

	prompting bool
	prompt    textinput.Model

	keys   keyMap
	help   help.Model
	width  int
	height int
}

func NewBaseModel(api MailAPI, sender, startPath string) *BaseModel {
	prompt := textinput.New()
	prompt.Prompt = ": "
	prompt.Placeholder = "/profile"

	m := &BaseModel{
		api:    api,
		sender: sender,
		prompt: prompt,
		keys:   keys,
		help:   help.New(),
	}
	m.mount(startPath)
	return m
}

func (m *BaseModel) Init() tea.Cmd {
	return m.currentView.Init()
}

// normalizePath turns whatever the user typed into a clean absolute path.
func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func (m *BaseModel) route(p string) tea.Model {
	switch p {
	case "/":
		return NewInboxView(m.api, m.width, m.viewHeight())
	case "/profile":
		return NewProfileView(m.api)
	default:
		return NewErrorView(p)
	}
}

// mount replaces the routed view with a fresh instance, even when the path
// did not change. The new view has not been initialised yet.
func (m *BaseModel) mount(p string) {
	m.path = normalizePath(p)
	m.currentView = m.route(m.path)
}

func (m *BaseModel) navigate(p string) tea.Cmd {
	m.mount(p)
	return m.currentView.Init()
}

func (m *BaseModel) openCompose() tea.Cmd {
	m.composeOpen = true
	m.compose = NewComposeView(m.api, m.sender, m.width, closeCompose)
	return m.compose.Init()
}

func (m *BaseModel) viewHeight() int {
	return m.height - 4
}

func (m *BaseModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		viewMsg := tea.WindowSizeMsg{Width: msg.Width, Height: m.viewHeight()}
		var cmds []tea.Cmd
		_, cmd := m.currentView.Update(viewMsg)
		cmds = append(cmds, cmd)
		if m.compose != nil {
			_, cmd = m.compose.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case NotificationMsg:
		// a newer notification replaces the one on screen
		m.notice = msg.Text
		return m, nil

	case composeClosedMsg:
		m.composeOpen = false
		m.compose = nil
		if msg.sent && m.path == "/" {
			return m, m.navigate(m.path)
		}
		return m, nil

	case sendResultMsg:
		if m.compose == nil {
			return m, nil
		}
		_, cmd := m.compose.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	var cmds []tea.Cmd
	_, cmd := m.currentView.Update(message)
	cmds = append(cmds, cmd)
	if m.compose != nil {
		_, cmd = m.compose.Update(message)
		cmds = append(cmds, cmd)
	}
	if m.prompting {
		m.prompt, cmd = m.prompt.Update(message)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *BaseModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Force) {
		return tea.Quit
	}

	// the notification is modal
	if m.notice != "" {
		if key.Matches(msg, m.keys.Dismiss) {
			m.notice = ""
		}
		return nil
	}

	if m.prompting {
		switch msg.Type {
		case tea.KeyEnter:
			m.prompting = false
			m.prompt.Blur()
			return m.navigate(m.prompt.Value())
		case tea.KeyEsc:
			m.prompting = false
			m.prompt.Blur()
			return nil
		}
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return cmd
	}

	if m.composeOpen {
		_, cmd := m.compose.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Compose):
		return m.openCompose()
	case key.Matches(msg, m.keys.Path):
		m.prompting = true
		m.prompt.SetValue("")
		return m.prompt.Focus()
	case key.Matches(msg, m.keys.Inbox):
		return m.navigate("/")
	case key.Matches(msg, m.keys.Profile):
		return m.navigate("/profile")
	case key.Matches(msg, m.keys.Refresh):
		return m.navigate(m.path)
	}

	_, cmd := m.currentView.Update(msg)
	return cmd
}

func (m *BaseModel) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	sections := []string{
		headerStyle.Width(width).Render("📧 SNAILMAIL - " + m.path),
		m.currentView.View(),
	}

	if m.composeOpen {
		sections = append(sections, m.compose.View())
	} else {
		sections = append(sections, composeButton)
	}

	switch {
	case m.prompting:
		sections = append(sections, m.prompt.View())
	case !m.composeOpen:
		sections = append(sections, m.help.View(m.keys))
	}

	screen := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.notice == "" {
		return screen
	}
	return renderNotification(screen, m.notice, width, m.height)
}
