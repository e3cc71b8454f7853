package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/atomicstack/code-explainer/internal/app"
	"github.com/atomicstack/code-explainer/internal/config"
	"github.com/atomicstack/code-explainer/internal/logging"
	"github.com/atomicstack/code-explainer/internal/logging/events"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var version = "dev"

const (
	exitRuntime = 1
	exitConfig  = 2
)

// exitError carries a process exit code. A nil err means the message was
// already printed.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	logging.Close()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(args, stdin, stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exit.err)
		}
		events.App.Exit(exit.err)
		return exit.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitRuntime
}

func newRootCmd(argv []string, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var runtimeCfg config.Config
	root := &cobra.Command{
		Use:           "code-explainer",
		Short:         "Explain source code with Google Gemini",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, argv)
			if err != nil {
				return err
			}
			runtimeCfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.Run(cmd.Context(), runtimeCfg.App); err != nil {
				logging.Error(err)
				return &exitError{code: exitRuntime, err: err}
			}
			return nil
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	config.RegisterFlags(root.PersistentFlags())
	root.AddCommand(explainCmd(&runtimeCfg), versionCmd())
	return root
}

// loadConfig resolves and validates configuration, then prepares logging.
func loadConfig(cmd *cobra.Command, argv []string) (config.Config, error) {
	cfg, err := config.FromFlags(cmd.Flags(), os.Environ())
	if err != nil {
		return config.Config{}, &exitError{code: exitConfig, err: fmt.Errorf("configuration error: %w", err)}
	}
	cfg.Args = append([]string(nil), argv...)
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, &exitError{code: exitConfig, err: fmt.Errorf("configuration error: %w", err)}
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	traceStartup(cfg)
	if warning := app.ModelWarning(cfg.App); warning != "" {
		events.App.ModelWarning(cfg.App.Model, warning)
	}
	return cfg, nil
}

func explainCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [FILE]",
		Short: "Explain code from FILE (or stdin) and print the result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readSource(cmd.InOrStdin(), args)
			if err != nil {
				return &exitError{code: exitRuntime, err: err}
			}
			out := cmd.OutOrStdout()
			appCfg := cfg.App
			if warning := app.ModelWarning(appCfg); warning != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", warning)
			}
			styled := false
			if width, ok := terminalWidth(out); ok {
				styled = true
				if appCfg.Width <= 0 {
					appCfg.Width = width
				}
			}
			err = app.Explain(cmd.Context(), appCfg, code, out, styled)
			var explainErr *app.ExplainError
			if errors.As(err, &explainErr) {
				fmt.Fprintln(cmd.ErrOrStderr(), explainErr.Message)
				return &exitError{code: exitRuntime}
			}
			if err != nil {
				logging.Error(err)
				return &exitError{code: exitRuntime, err: err}
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "code-explainer %s\n", version)
		},
	}
}

// readSource loads the code to explain from the named file, or from stdin
// when no file (or "-") is given.
func readSource(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read source: %w", err)
		}
		return string(data), nil
	}
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errors.New("no input: pass a FILE or pipe code on stdin")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// terminalWidth reports the width of w when it is a terminal.
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 0, false
	}
	return width, true
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles runtime context for trace logging. The API key
// only appears redacted.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	redacted := cfg
	redacted.App.APIKey = cfg.Flags["apiKey"]
	payload := map[string]interface{}{
		"argv":    cfg.Args,
		"flags":   flags,
		"config":  redacted,
		"version": version,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetails struct {
	Detected *ttyDetected     `json:"detected,omitempty"`
	Probes   []ttyProbeResult `json:"probes"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails inspects standard descriptors for terminal support and dimensions.
func collectTTYDetails() ttyDetails {
	probes := []struct {
		name string
		fd   uintptr
	}{
		{"stdin", os.Stdin.Fd()},
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
	results := make([]ttyProbeResult, 0, len(probes))
	var detected *ttyDetected
	for _, probe := range probes {
		entry := ttyProbeResult{Name: probe.name}
		fd := int(probe.fd)
		if fd >= 0 && term.IsTerminal(fd) {
			entry.IsTerminal = true
			if width, height, err := term.GetSize(fd); err == nil {
				entry.Width = width
				entry.Height = height
				if detected == nil {
					detected = &ttyDetected{Source: probe.name, Width: width, Height: height}
				}
			} else {
				entry.Error = err.Error()
			}
		}
		results = append(results, entry)
	}
	return ttyDetails{Detected: detected, Probes: results}
}
