package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rexxDigital/snailmail/internal/logging"
	"github.com/rexxDigital/snailmail/types"
)

const (
	inboxEmptyText       = "No Mail! You're all caught up!"
	inboxFetchFailedText = "There was a problem when fetching your inbox! Please try again later"
	blankCell            = "(blank)"
)

type inboxLoadedMsg struct {
	viewID int64
	mails  []types.Mail
	err    error
}

type InboxView struct {
	id      int64
	api     MailAPI
	mails   []types.Mail
	loading bool
	table   table.Model
	width   int
	height  int
}

func NewInboxView(api MailAPI, width, height int) *InboxView {
	t := table.New(
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(highlightColor).Bold(true)
	styles.Selected = styles.Selected.Foreground(specialColor).Background(backgroundColor)
	t.SetStyles(styles)

	m := &InboxView{
		id:      nextViewID(),
		api:     api,
		loading: true,
		table:   t,
	}
	m.resize(width, height)
	return m
}

func (m *InboxView) Init() tea.Cmd {
	return m.fetch()
}

// fetch reads the whole inbox once. There is no retry.
func (m *InboxView) fetch() tea.Cmd {
	id, api := m.id, m.api
	return func() tea.Msg {
		mails, err := api.Inbox(context.Background())
		return inboxLoadedMsg{viewID: id, mails: mails, err: err}
	}
}

func (m *InboxView) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case inboxLoadedMsg:
		if msg.viewID != m.id {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			logging.Log.WithError(msg.err).Warn("Failed to fetch inbox")
			m.mails = nil
			m.table.SetRows(nil)
			return m, Notify(inboxFetchFailedText)
		}
		m.mails = msg.mails
		m.table.SetRows(mailRows(msg.mails))
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(message)
	return m, cmd
}

func (m *InboxView) View() string {
	switch {
	case m.loading:
		return statusStyle.Render("⏳ Loading...")
	case len(m.mails) == 0:
		return emptyStyle.Render(inboxEmptyText)
	}
	return m.table.View()
}

func (m *InboxView) resize(width, height int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	m.width, m.height = width, height

	subjectWidth := min(30, width/4)
	senderWidth := min(30, width/4)
	bodyWidth := max(10, width-subjectWidth-senderWidth-8)

	m.table.SetColumns([]table.Column{
		{Title: "Subject", Width: subjectWidth},
		{Title: "Sender", Width: senderWidth},
		{Title: "Message", Width: bodyWidth},
	})
	m.table.SetWidth(width)
	// header, compose area and status bar live around the table
	m.table.SetHeight(max(3, height/2))
}

func mailRows(mails []types.Mail) []table.Row {
	rows := make([]table.Row, 0, len(mails))
	for _, mail := range mails {
		rows = append(rows, table.Row{
			cell(mail.Subject),
			cell(mail.Sender),
			cell(mail.Body),
		})
	}
	return rows
}

// cell flattens s onto one line. Text that is only whitespace still gets a
// visible marker so the row never looks empty for a field that was set.
func cell(s string) string {
	if s == "" {
		return ""
	}
	flat := strings.Join(strings.Fields(s), " ")
	if flat == "" {
		return blankCell
	}
	return flat
}
