package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/code-explainer/internal/explain"
	"github.com/atomicstack/code-explainer/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "ui-test")
	if err == nil {
		logging.Configure(filepath.Join(dir, "test.log"))
	}
	code := m.Run()
	logging.Close()
	if dir != "" {
		_ = os.RemoveAll(dir)
	}
	os.Exit(code)
}

func TestExplainRoundTrip(t *testing.T) {
	gen := &stubGenerator{reply: "It prints hello."}
	h := NewHarness(newTestModel(gen, nil, 80, 30))
	h.Send(tea.WindowSizeMsg{Width: 80, Height: 30})

	h.SendKeys(`print("hello")`)
	h.Send(keyPress(tea.KeyCtrlS))

	state := h.Model().State()
	if state.Busy {
		t.Fatalf("expected request to complete")
	}
	if state.Result != "It prints hello." || state.Err != "" {
		t.Fatalf("unexpected state %#v", state)
	}
	if gen.Calls() != 1 {
		t.Fatalf("expected one generator call, got %d", gen.Calls())
	}
	if !strings.Contains(gen.prompts[0], `print("hello")`) {
		t.Fatalf("expected prompt to embed the code, got %q", gen.prompts[0])
	}
	if view := h.View(); !strings.Contains(view, "It prints hello.") {
		t.Fatalf("expected explanation in view:\n%s", view)
	}
}

func TestExplainFailureShowsMessage(t *testing.T) {
	gen := &stubGenerator{err: errors.New("rpc error: PERMISSION_DENIED")}
	h := NewHarness(newTestModel(gen, nil, 80, 30))
	h.SendKeys("x = 1")
	h.Send(keyPress(tea.KeyCtrlS))

	if got := h.Model().State().Err; got != explain.MsgPermission {
		t.Fatalf("expected permission message, got %q", got)
	}
	if view := h.View(); !strings.Contains(view, explain.MsgPermission) {
		t.Fatalf("expected error in view:\n%s", view)
	}
}

func TestClearAfterResult(t *testing.T) {
	clip := &fakeClipboard{}
	h := NewHarness(newTestModel(&stubGenerator{reply: "Adds numbers."}, clip, 80, 30))
	h.SendKeys("a + b")
	h.Send(keyPress(tea.KeyCtrlS))

	h.Send(keyPress(tea.KeyCtrlY))
	if len(clip.copied) != 1 || clip.copied[0] != "Adds numbers." {
		t.Fatalf("expected explanation copied, got %#v", clip.copied)
	}

	h.Send(keyPress(tea.KeyCtrlL))
	if got := h.Model().State(); got != (explain.State{}) {
		t.Fatalf("expected empty state after clear, got %#v", got)
	}
	view := h.View()
	if strings.Contains(view, "Adds numbers.") {
		t.Fatalf("expected explanation removed:\n%s", view)
	}
	if !strings.Contains(view, outputHint) {
		t.Fatalf("expected placeholder after clear:\n%s", view)
	}
}

func TestResubmitAfterFailureClearsError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("boom")}
	h := NewHarness(newTestModel(gen, nil, 80, 30))
	h.SendKeys("x")
	h.Send(keyPress(tea.KeyCtrlS))
	if h.Model().State().Err != "Error: boom" {
		t.Fatalf("unexpected error %q", h.Model().State().Err)
	}

	gen.mu.Lock()
	gen.err = nil
	gen.reply = "Fixed."
	gen.mu.Unlock()
	h.Send(keyPress(tea.KeyCtrlS))
	state := h.Model().State()
	if state.Err != "" || state.Result != "Fixed." {
		t.Fatalf("expected success to replace the error, got %#v", state)
	}
}

func TestQuitThroughHarness(t *testing.T) {
	h := NewHarness(newTestModel(&stubGenerator{}, nil, 80, 30))
	h.Send(keyPress(tea.KeyEsc))
	if !h.Quit() {
		t.Fatalf("expected quit")
	}
}
