package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/code-explainer/internal/clipboard"
	"github.com/atomicstack/code-explainer/internal/explain"
	"github.com/atomicstack/code-explainer/internal/logging"
	"github.com/atomicstack/code-explainer/internal/logging/events"
	"github.com/atomicstack/code-explainer/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	sourceExplanation = "explanation"
	sourceCode        = "code"
)

// explainDoneMsg carries the outcome of a generation request.
type explainDoneMsg struct {
	req  explain.Request
	text string
	err  error
}

// submit starts a request for the current code. Validation failures are
// recorded by the controller and produce no command.
func (m *Model) submit() tea.Cmd {
	m.ctrl.SetInput(m.input.Value())
	req, ok := m.ctrl.Begin()
	if !ok {
		return nil
	}
	m.forceClearInfo()
	ctrl := m.ctrl
	run := m.bus.Execute(m.ctx, command.Request{
		ID:    req.ID,
		Label: "explain",
		Handler: func(ctx context.Context) tea.Msg {
			text, err := ctrl.Run(ctx, req)
			return explainDoneMsg{req: req, text: text, err: err}
		},
	})
	return tea.Batch(run, m.spinner.Tick)
}

func (m *Model) handleExplainDoneMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(explainDoneMsg)
	if !ok {
		return nil
	}
	if !m.ctrl.Finish(done.req, done.text, done.err) {
		return nil
	}
	if done.err != nil {
		logging.Error(done.err)
	}
	m.resetOutput()
	return nil
}

func (m *Model) handleSpinnerTickMsg(msg tea.Msg) tea.Cmd {
	if !m.ctrl.State().Busy {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

// clear resets the session and returns focus to the code pane. A request
// still in flight keeps running but its result is discarded.
func (m *Model) clear() tea.Cmd {
	m.ctrl.Clear()
	m.input.Reset()
	m.resetOutput()
	m.forceClearInfo()
	return m.setFocus(focusInput)
}

func (m *Model) copyText(source, text string) {
	if m.clipboard == nil {
		m.setInfo("Clipboard unavailable")
		return
	}
	target, err := m.clipboard.Copy(text)
	switch {
	case errors.Is(err, clipboard.ErrEmpty):
		events.Clipboard.Error(source, err)
		m.setInfo(fmt.Sprintf("No %s to copy", source))
	case err != nil:
		logging.Error(err)
		events.Clipboard.Error(source, err)
		m.setInfo(fmt.Sprintf("Copy failed: %v", err))
	default:
		events.Clipboard.Copy(source, len(text))
		m.setInfo(fmt.Sprintf("Copied %s to %s", source, target))
	}
}
