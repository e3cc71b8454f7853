package render

import (
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestPlainWrapsToWidth(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog " + strings.Repeat("x", 30)
	out := Plain(text, 12)
	for _, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > 12 {
			t.Fatalf("line %q exceeds width: %d", line, w)
		}
	}
	if !strings.Contains(out, "jumps over") {
		t.Fatalf("expected words kept together, got:\n%s", out)
	}
}

func TestPlainZeroWidthIsUnchanged(t *testing.T) {
	if got := Plain("a\tb", 0); got != "a    b" {
		t.Fatalf("expected tabs expanded only, got %q", got)
	}
}

func TestRenderWithoutMarkdownIsPlain(t *testing.T) {
	r := New(false, StyleNoTTY)
	out, err := r.Render("# Title\nbody", 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "# Title\nbody" {
		t.Fatalf("expected plain passthrough, got %q", out)
	}
}

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func TestRenderMarkdownDropsSyntax(t *testing.T) {
	r := New(true, StyleDark)
	out, err := r.Render("## Overview\n\nThis **adds** numbers.", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out = ansiSeq.ReplaceAllString(out, "")
	if !strings.Contains(out, "Overview") || !strings.Contains(out, "adds") {
		t.Fatalf("expected rendered content, got:\n%s", out)
	}
	if strings.Contains(out, "**") {
		t.Fatalf("expected emphasis markers to be rendered, got:\n%s", out)
	}
}

func TestNilRendererFallsBackToPlain(t *testing.T) {
	var r *Renderer
	out, err := r.Render("hello", 0)
	if err != nil || out != "hello" {
		t.Fatalf("expected plain output, got %q, %v", out, err)
	}
	if r.Markdown() {
		t.Fatalf("nil renderer should not report markdown")
	}
}
