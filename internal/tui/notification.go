package tui

import (
	"context"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rexxDigital/snailmail/types"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// MailAPI is what the views need from the backend.
type MailAPI interface {
	Inbox(ctx context.Context) ([]types.Mail, error)
	Send(ctx context.Context, m types.Mail) (types.Mail, error)
	Profile(ctx context.Context) (types.Profile, error)
}

// NotificationMsg asks the root shell to show a blocking notification.
type NotificationMsg struct {
	Text string
}

func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg{Text: text}
	}
}

// every mounted view gets its own id so late results for a replaced view
// can be told apart
var viewIDs atomic.Int64

func nextViewID() int64 {
	return viewIDs.Add(1)
}

// rendered wraps an already rendered string so it can be handed to overlay.
type rendered string

func (r rendered) Init() tea.Cmd                       { return nil }
func (r rendered) Update(tea.Msg) (tea.Model, tea.Cmd) { return r, nil }
func (r rendered) View() string                        { return string(r) }

// renderNotification draws the notification box centered over background,
// which is first stretched to fill the screen.
func renderNotification(background, text string, width, height int) string {
	box := notificationStyle.Render(text + "\n\n" + blurredStyle.Render("enter: ok"))

	width = max(width, lipgloss.Width(background), lipgloss.Width(box)+2)
	height = max(height, lipgloss.Height(background), lipgloss.Height(box)+2)
	background = lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, background)

	return overlay.New(rendered(box), rendered(background), overlay.Center, overlay.Center, 0, 0).View()
}
