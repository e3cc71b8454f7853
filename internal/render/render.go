// Package render turns explanation text into terminal output, either as
// glamour-rendered markdown or as plain word-wrapped text.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// Style names accepted by New.
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

// Renderer formats explanations for a given width. Markdown renderers are
// cached per width because glamour bakes the wrap width in at construction.
type Renderer struct {
	markdown bool
	style    string

	width int
	term  *glamour.TermRenderer
}

// ValidStyle reports whether style is one of the accepted style names. The
// empty string counts as auto.
func ValidStyle(style string) bool {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "", StyleAuto, StyleDark, StyleLight, StyleNoTTY:
		return true
	}
	return false
}

// New returns a renderer. The auto style is resolved once, here, so rendering
// never queries the terminal while a program owns it.
func New(markdown bool, style string) *Renderer {
	style = strings.ToLower(strings.TrimSpace(style))
	switch style {
	case StyleDark, StyleLight, StyleNoTTY:
	default:
		if !markdown {
			style = StyleNoTTY
		} else if lipgloss.HasDarkBackground() {
			style = StyleDark
		} else {
			style = StyleLight
		}
	}
	return &Renderer{markdown: markdown, style: style}
}

// Markdown reports whether markdown rendering is enabled.
func (r *Renderer) Markdown() bool {
	return r != nil && r.markdown
}

// Render formats text to fit width columns. A non-positive width disables
// wrapping. When markdown rendering fails the plain form is returned along
// with the error.
func (r *Renderer) Render(text string, width int) (string, error) {
	if r == nil || !r.markdown {
		return Plain(text, width), nil
	}
	term, err := r.termFor(width)
	if err != nil {
		return Plain(text, width), err
	}
	out, err := term.Render(text)
	if err != nil {
		return Plain(text, width), fmt.Errorf("render markdown: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}

func (r *Renderer) termFor(width int) (*glamour.TermRenderer, error) {
	if r.term != nil && r.width == width {
		return r.term, nil
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(r.style)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	term, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	r.term = term
	r.width = width
	return term, nil
}

// Plain word-wraps text at width, hard-wrapping words longer than a line.
func Plain(text string, width int) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", "    ")
	if width <= 0 {
		return text
	}
	return wrap.String(wordwrap.String(text, width), width)
}
