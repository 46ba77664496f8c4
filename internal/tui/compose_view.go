package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rexxDigital/snailmail/internal/client"
	"github.com/rexxDigital/snailmail/internal/logging"
	"github.com/rexxDigital/snailmail/types"
)

const (
	fieldRecipient = iota
	fieldSubject
	fieldBody
	maxField = fieldBody
)

const (
	networkErrorText = "Network Error"
	unknownErrorText = "Some unknown error occurred!"
)

type sendResultMsg struct {
	composeID int64
	sent      types.Mail
	err       error
}

// ComposeView edits a single draft and submits it once. Its owner decides
// what closing means through onClose.
type ComposeView struct {
	id        int64
	api       MailAPI
	draft     types.Mail
	onClose   func(sent bool) tea.Cmd
	recipient textinput.Model
	subject   textinput.Model
	body      textarea.Model
	focus     int
	isSending bool
	keys      composeKeyMap
	help      help.Model

	width int
}

func NewComposeView(api MailAPI, sender string, width int, onClose func(sent bool) tea.Cmd) *ComposeView {
	recipient := textinput.New()
	recipient.Placeholder = "recipient@example.com"
	recipient.CharLimit = 254
	recipient.Prompt = ""

	subject := textinput.New()
	subject.Placeholder = "Enter subject..."
	subject.CharLimit = 200
	subject.Prompt = ""

	body := textarea.New()
	body.Placeholder = "Type your message here..."
	body.ShowLineNumbers = false
	body.SetHeight(6)

	m := &ComposeView{
		id:        nextViewID(),
		api:       api,
		draft:     types.NewDraft(sender),
		onClose:   onClose,
		recipient: recipient,
		subject:   subject,
		body:      body,
		keys:      composeKeys,
		help:      help.New(),
	}
	m.resize(width)
	return m
}

func (m *ComposeView) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.focusField(fieldRecipient))
}

func (m *ComposeView) focusField(field int) tea.Cmd {
	m.focus = field
	m.recipient.Blur()
	m.subject.Blur()
	m.body.Blur()

	switch field {
	case fieldRecipient:
		return m.recipient.Focus()
	case fieldSubject:
		return m.subject.Focus()
	default:
		return m.body.Focus()
	}
}

func (m *ComposeView) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
		return m, nil
	case sendResultMsg:
		return m, m.handleResult(msg)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Close):
			return m, m.onClose(false)
		case key.Matches(msg, m.keys.Send):
			return m, m.submit()
		case key.Matches(msg, m.keys.Next):
			return m, m.focusField((m.focus + 1) % (maxField + 1))
		case key.Matches(msg, m.keys.Prev):
			return m, m.focusField((m.focus + maxField) % (maxField + 1))
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldRecipient:
		m.recipient, cmd = m.recipient.Update(message)
	case fieldSubject:
		m.subject, cmd = m.subject.Update(message)
	case fieldBody:
		m.body, cmd = m.body.Update(message)
	}
	m.syncDraft()

	return m, cmd
}

// syncDraft copies the field values into the draft. Only the focused field
// can have changed.
func (m *ComposeView) syncDraft() {
	switch m.focus {
	case fieldRecipient:
		m.draft.Recipient = m.recipient.Value()
	case fieldSubject:
		m.draft.Subject = m.subject.Value()
	case fieldBody:
		m.draft.Body = m.body.Value()
	}
}

func (m *ComposeView) submit() tea.Cmd {
	if m.isSending {
		return nil
	}
	if err := types.ValidateDraft(m.draft); err != nil {
		return Notify(err.Error())
	}

	m.isSending = true
	id, api, draft := m.id, m.api, m.draft
	return func() tea.Msg {
		sent, err := api.Send(context.Background(), draft)
		return sendResultMsg{composeID: id, sent: sent, err: err}
	}
}

func (m *ComposeView) handleResult(msg sendResultMsg) tea.Cmd {
	if msg.composeID != m.id {
		return nil
	}
	m.isSending = false

	if msg.err != nil {
		logging.Log.WithError(msg.err).WithField("recipient", m.draft.Recipient).Warn("Failed to send mail")
		return Notify(sendFailureText(msg.err))
	}

	recipient := msg.sent.Recipient
	if recipient == "" {
		recipient = m.draft.Recipient
	}
	return tea.Batch(Notify("Sent Mail to: "+recipient), m.onClose(true))
}

func sendFailureText(err error) string {
	var netErr *client.NetworkError
	var apiErr *client.APIError

	switch {
	case errors.As(err, &netErr):
		return networkErrorText
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	}
	return unknownErrorText
}

func (m *ComposeView) resize(width int) {
	if width <= 0 {
		width = 80
	}
	m.width = width
	inner := max(20, width-6)
	m.recipient.Width = inner
	m.subject.Width = inner
	m.body.SetWidth(inner)
}

func (m *ComposeView) View() string {
	var content strings.Builder

	fields := []struct {
		label string
		view  string
	}{
		{"To:", m.recipient.View()},
		{"Subject:", m.subject.View()},
		{"Message:", m.body.View()},
	}

	for i, f := range fields {
		label, box := labelStyle, fieldStyle
		if i == m.focus {
			label, box = selectedLabelStyle, selectedFieldStyle
		}
		content.WriteString(label.Render(f.label) + "\n" + box.Render(f.view) + "\n")
	}

	footer := m.help.View(m.keys)
	if m.isSending {
		footer = statusStyle.Render("Sending email...")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Width(m.width).Render("📧 SNAILMAIL - Compose New Email"),
		blurredStyle.Render("From: "+m.draft.Sender),
		content.String(),
		footer,
	)
}
