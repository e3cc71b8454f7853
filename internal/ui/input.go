package ui

import (
	"github.com/atomicstack/code-explainer/internal/logging/events"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return tea.Quit
	case key.Matches(keyMsg, m.keys.Explain):
		return m.submit()
	case key.Matches(keyMsg, m.keys.Clear):
		return m.clear()
	case key.Matches(keyMsg, m.keys.Focus):
		return m.toggleFocus()
	case key.Matches(keyMsg, m.keys.CopyText):
		m.copyText(sourceExplanation, m.ctrl.State().Result)
		return nil
	case key.Matches(keyMsg, m.keys.CopyCode):
		m.copyText(sourceCode, m.input.Value())
		return nil
	}
	return m.updateFocused(keyMsg)
}

// updateFocused forwards msg to the focused pane. Edits to the code are
// mirrored into the controller straight away.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == focusOutput {
		m.output, cmd = m.output.Update(msg)
		return cmd
	}
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.ctrl.SetInput(value)
	}
	return cmd
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusInput {
		return m.setFocus(focusOutput)
	}
	return m.setFocus(focusInput)
}

func (m *Model) setFocus(target focusArea) tea.Cmd {
	if m.focus == target {
		return nil
	}
	m.focus = target
	events.UI.Focus(target.String())
	if target == focusOutput {
		m.input.Blur()
		return nil
	}
	return m.input.Focus()
}
