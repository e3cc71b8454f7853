package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/code-explainer/internal/app"
	"github.com/atomicstack/code-explainer/internal/config"
	"github.com/atomicstack/code-explainer/internal/explain"
	"github.com/atomicstack/code-explainer/internal/logging"
	"github.com/atomicstack/code-explainer/internal/testutil"
)

func TestCollectTTYDetailsIncludesStandardDescriptors(t *testing.T) {
	info := collectTTYDetails()
	if len(info.Probes) != 3 {
		t.Fatalf("expected 3 probe entries, got %d", len(info.Probes))
	}
	expected := []string{"stdin", "stdout", "stderr"}
	for i, name := range expected {
		if info.Probes[i].Name != name {
			t.Fatalf("expected probe %d name %q, got %q", i, name, info.Probes[i].Name)
		}
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			APIKey:     "secret-key-1234",
			Model:      "gemini-2.5-flash",
			Width:      80,
			Height:     24,
			ShowFooter: true,
			Markdown:   true,
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Flags: map[string]string{
			"apiKey": "****1234",
			"model":  "gemini-2.5-flash",
			"width":  "80",
			"height": "24",
			"footer": "true",
		},
		Args: []string{"--model", "gemini-2.5-flash"},
	}

	payload := startupTracePayload(cfg)

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["model"] != "gemini-2.5-flash" {
		t.Fatalf("expected model flag, got %v", flagsValue["model"])
	}
	if flagsValue["width"] != "80" {
		t.Fatalf("expected width 80, got %v", flagsValue["width"])
	}
	if flagsValue["footer"] != "true" {
		t.Fatalf("expected footer flag true, got %v", flagsValue["footer"])
	}
	if flagsValue["trace"] != true {
		t.Fatalf("expected trace flag true, got %v", flagsValue["trace"])
	}
	if flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected log file trace.log, got %v", flagsValue["logFile"])
	}

	if _, ok := payload["tty"].(ttyDetails); !ok {
		t.Fatalf("expected tty details in payload")
	}
	cfgValue, ok := payload["config"].(config.Config)
	if !ok {
		t.Fatalf("expected config in payload")
	}
	if cfgValue.App.APIKey != "****1234" {
		t.Fatalf("expected redacted api key, got %q", cfgValue.App.APIKey)
	}
	if cfg.App.APIKey != "secret-key-1234" {
		t.Fatalf("payload must not modify the caller's config")
	}
}

// isolate clears credentials and config discovery so the host environment
// cannot leak into a run.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("CODE_EXPLAINER_CONFIG", "")
	t.Setenv("CODE_EXPLAINER_MODEL", "")
	t.Setenv("CODE_EXPLAINER_BASE_URL", "")
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Cleanup(logging.Close)
	return dir
}

func TestRunVersion(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"version"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "code-explainer "+version) {
		t.Fatalf("unexpected version output %q", stdout.String())
	}
}

func TestRunExplainWithoutCredential(t *testing.T) {
	dir := isolate(t)
	var stdout, stderr bytes.Buffer
	args := []string{"explain", "--log-file", filepath.Join(dir, "run.log")}
	code := run(context.Background(), args, strings.NewReader("print(1)"), &stdout, &stderr)
	if code != exitRuntime {
		t.Fatalf("expected exit %d, got %d", exitRuntime, code)
	}
	if !strings.Contains(stderr.String(), explain.MsgNoCredential) {
		t.Fatalf("expected credential message, got %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected no stdout, got %q", stdout.String())
	}
}

func TestRunExplainBlankInput(t *testing.T) {
	dir := isolate(t)
	var stdout, stderr bytes.Buffer
	args := []string{"explain", "--api-key", "k", "--log-file", filepath.Join(dir, "run.log")}
	code := run(context.Background(), args, strings.NewReader("  \n"), &stdout, &stderr)
	if code != exitRuntime {
		t.Fatalf("expected exit %d, got %d", exitRuntime, code)
	}
	if !strings.Contains(stderr.String(), explain.MsgEmptyInput) {
		t.Fatalf("expected empty input message, got %q", stderr.String())
	}
}

func TestRunExplainPrintsExplanation(t *testing.T) {
	dir := isolate(t)
	srv, captured := testutil.GeminiServer(t, http.StatusOK, testutil.GeminiReply("Prints one."))

	source := filepath.Join(dir, "main.py")
	if err := os.WriteFile(source, []byte("print(1)\n"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	var stdout, stderr bytes.Buffer
	args := []string{
		"explain", source,
		"--api-key", "k",
		"--base-url", srv.URL,
		"--log-file", filepath.Join(dir, "run.log"),
	}
	code := run(context.Background(), args, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, stderr.String())
	}
	if got := stdout.String(); got != "Prints one.\n" {
		t.Fatalf("unexpected output %q", got)
	}
	if captured.Count() != 1 || captured.APIKey() != "k" {
		t.Fatalf("expected one request with key k, got %d with %q", captured.Count(), captured.APIKey())
	}
}

func TestRunExplainUnlistedModelWarnsAndSends(t *testing.T) {
	dir := isolate(t)
	srv, captured := testutil.GeminiServer(t, http.StatusOK, testutil.GeminiReply("Prints two."))
	var stdout, stderr bytes.Buffer
	args := []string{
		"explain",
		"--api-key", "k",
		"--model", "gemini-3-pro-preview",
		"--log-file", filepath.Join(dir, "run.log"),
	}
	// The SDK's own endpoint override keeps --base-url unset, so the
	// known-model check still applies.
	t.Setenv("GOOGLE_GEMINI_BASE_URL", srv.URL)
	code := run(context.Background(), args, strings.NewReader("print(2)"), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, stderr.String())
	}
	if got := stdout.String(); got != "Prints two.\n" {
		t.Fatalf("unexpected output %q", got)
	}
	if !strings.Contains(stderr.String(), `Warning: unknown model "gemini-3-pro-preview"`) {
		t.Fatalf("expected model warning, got %q", stderr.String())
	}
	if !strings.HasSuffix(captured.Path(), "models/gemini-3-pro-preview:generateContent") {
		t.Fatalf("expected request for the unlisted model, got %q", captured.Path())
	}
}

func TestRunConfigErrorExitsWithTwo(t *testing.T) {
	dir := isolate(t)
	var stdout, stderr bytes.Buffer
	args := []string{"explain", "--width=-3", "--log-file", filepath.Join(dir, "run.log")}
	code := run(context.Background(), args, strings.NewReader("x"), &stdout, &stderr)
	if code != exitConfig {
		t.Fatalf("expected exit %d, got %d", exitConfig, code)
	}
	if !strings.Contains(stderr.String(), "configuration error") {
		t.Fatalf("expected configuration error, got %q", stderr.String())
	}
}
