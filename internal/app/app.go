package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atomicstack/code-explainer/internal/clipboard"
	"github.com/atomicstack/code-explainer/internal/explain"
	"github.com/atomicstack/code-explainer/internal/gemini"
	"github.com/atomicstack/code-explainer/internal/render"
	"github.com/atomicstack/code-explainer/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64 // negative leaves the model default
	Width       int
	Height      int
	ShowFooter  bool
	Markdown    bool
	Style       string
}

// ExplainError carries the user-facing message for a failed one-shot run.
type ExplainError struct {
	Message string
}

func (e *ExplainError) Error() string {
	return e.Message
}

// ModelWarning returns a notice for a model name the Gemini API may not
// serve, or "" when the name is known or a custom endpoint is configured.
func ModelWarning(cfg Config) string {
	if strings.TrimSpace(cfg.BaseURL) != "" {
		return ""
	}
	return gemini.ModelWarning(cfg.Model)
}

// NewController builds the explain controller for cfg. Without an API key no
// client is created and every submission is rejected locally.
func NewController(ctx context.Context, cfg Config) (*explain.Controller, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return explain.NewController(nil, ""), nil
	}
	opts := gemini.Options{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	}
	if cfg.Temperature >= 0 {
		temp := float32(cfg.Temperature)
		opts.Temperature = &temp
	}
	client, err := gemini.New(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return explain.NewController(client, cfg.APIKey), nil
}

// Run bootstraps and executes the Bubble Tea program.
func Run(ctx context.Context, cfg Config) error {
	ctrl, err := NewController(ctx, cfg)
	if err != nil {
		return err
	}
	model := ui.NewModel(ui.Options{
		Context:    ctx,
		Controller: ctrl,
		Renderer:   render.New(cfg.Markdown, cfg.Style),
		Clipboard:  clipboard.NewSystem(),
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		ModelName:  cfg.Model,
		Notice:     ModelWarning(cfg),
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}

// Explain runs a single submission for code and writes the explanation to
// out. When styled is true the text is rendered as markdown at cfg.Width
// columns. A failed submission returns an *ExplainError holding the message
// the TUI would show.
func Explain(ctx context.Context, cfg Config, code string, out io.Writer, styled bool) error {
	ctrl, err := NewController(ctx, cfg)
	if err != nil {
		return err
	}
	ctrl.SetInput(code)
	state := ctrl.Submit(ctx)
	if state.Err != "" {
		return &ExplainError{Message: state.Err}
	}
	text := state.Result
	if styled {
		if rendered, rerr := render.New(cfg.Markdown, cfg.Style).Render(text, cfg.Width); rerr == nil {
			text = rendered
		}
	}
	if _, err := io.WriteString(out, strings.TrimRight(text, "\n")+"\n"); err != nil {
		return fmt.Errorf("write explanation: %w", err)
	}
	return nil
}
