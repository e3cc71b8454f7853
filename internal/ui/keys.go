package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Explain  key.Binding
	Clear    key.Binding
	Focus    key.Binding
	CopyText key.Binding
	CopyCode key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Explain:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "explain")),
		Clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		CopyText: key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy explanation")),
		CopyCode: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "copy code")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Explain, k.Clear, k.Focus, k.CopyText, k.CopyCode, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Explain, k.Clear, k.Focus},
		{k.CopyText, k.CopyCode, k.Quit},
	}
}

// syncEnabled disables the explain binding while a request is in flight.
func (k *keyMap) syncEnabled(busy bool) {
	k.Explain.SetEnabled(!busy)
}
