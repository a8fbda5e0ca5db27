package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
//
// Bindings use ctrl chords so plain keys reach the URL input.
type keyMap struct {
	focus   key.Binding
	submit  key.Binding
	clear   key.Binding
	open    key.Binding
	dismiss key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		focus:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "file/url")),
		submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "upload")),
		clear:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "clear")),
		open:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open thumbnail")),
		dismiss: key.NewBinding(key.WithKeys("esc", "enter"), key.WithHelp("enter", "ok")),
		quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.focus, k.submit, k.clear, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.focus, k.submit, k.clear},
		{k.open, k.dismiss, k.quit},
	}
}
