package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Compose key.Binding
	Inbox   key.Binding
	Profile key.Binding
	Path    key.Binding
	Refresh key.Binding
	Dismiss key.Binding
	Quit    key.Binding
	Force   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Compose, k.Inbox, k.Profile, k.Path, k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Compose, k.Refresh},
		{k.Inbox, k.Profile, k.Path},
		{k.Dismiss, k.Quit},
	}
}

var keys = keyMap{
	Compose: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "compose"),
	),
	Inbox: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "inbox"),
	),
	Profile: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "profile"),
	),
	Path: key.NewBinding(
		key.WithKeys(":"),
		key.WithHelp(":", "go to path"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("enter", "esc"),
		key.WithHelp("enter", "ok"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	Force: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
}

type composeKeyMap struct {
	Next  key.Binding
	Prev  key.Binding
	Send  key.Binding
	Close key.Binding
}

func (k composeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Send, k.Close}
}

func (k composeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var composeKeys = composeKeyMap{
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Send: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "send"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}
