package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/atomicstack/code-explainer/internal/app"
	"github.com/atomicstack/code-explainer/internal/gemini"
	"github.com/atomicstack/code-explainer/internal/render"
)

// Config captures runtime configuration for the application.
type Config struct {
	App        app.Config
	Logging    Logging
	ConfigFile string
	Flags      map[string]string
	Args       []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envAPIKey       = "GEMINI_API_KEY"
	envGoogleAPIKey = "GOOGLE_API_KEY"
	envModel        = "CODE_EXPLAINER_MODEL"
	envBaseURL      = "CODE_EXPLAINER_BASE_URL"
	envTemperature  = "CODE_EXPLAINER_TEMPERATURE"
	envWidth        = "CODE_EXPLAINER_WIDTH"
	envHeight       = "CODE_EXPLAINER_HEIGHT"
	envShowFooter   = "CODE_EXPLAINER_FOOTER"
	envMarkdown     = "CODE_EXPLAINER_MARKDOWN"
	envStyle        = "CODE_EXPLAINER_STYLE"
	envTrace        = "CODE_EXPLAINER_TRACE"
	envLogFile      = "CODE_EXPLAINER_LOG_FILE"
	envConfigFile   = "CODE_EXPLAINER_CONFIG"
)

// fileConfig mirrors the optional YAML config file. Pointer fields tell an
// absent key apart from a zero value.
type fileConfig struct {
	APIKey      *string  `yaml:"api_key"`
	Model       *string  `yaml:"model"`
	BaseURL     *string  `yaml:"base_url"`
	Temperature *float64 `yaml:"temperature"`
	Width       *int     `yaml:"width"`
	Height      *int     `yaml:"height"`
	Footer      *bool    `yaml:"footer"`
	Markdown    *bool    `yaml:"markdown"`
	Style       *string  `yaml:"style"`
	Trace       *bool    `yaml:"trace"`
	LogFile     *string  `yaml:"log_file"`
}

// RegisterFlags declares every configuration flag on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("api-key", "", "Gemini API key (defaults to $GEMINI_API_KEY)")
	fs.String("model", gemini.DefaultModel, "Gemini model used for explanations")
	fs.String("base-url", "", "override the Gemini API endpoint")
	fs.Float64("temperature", -1, "sampling temperature (negative uses the model default)")
	fs.Int("width", 0, "desired viewport width in cells (0 uses terminal width)")
	fs.Int("height", 0, "desired viewport height in rows (0 uses terminal height)")
	fs.Bool("footer", true, "show the key help row")
	fs.Bool("markdown", true, "render explanations as markdown")
	fs.String("style", render.StyleAuto, "markdown style: auto, dark, light or notty")
	fs.Bool("trace", false, "enable verbose JSON trace logging")
	fs.String("log-file", "", "path to the log file")
	fs.String("config", "", "path to a YAML config file")
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet("code-explainer", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))
	RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg, err := FromFlags(fs, environ)
	if err != nil {
		return Config{}, err
	}
	cfg.Args = append([]string(nil), args...)
	return cfg, nil
}

// FromFlags resolves configuration from a parsed flag set. Each setting comes
// from the first source that provides it: flag, environment, config file,
// flag default.
func FromFlags(fs *pflag.FlagSet, environ []string) (Config, error) {
	env := parseEnv(environ)

	configPath, explicit := resolveConfigPath(fs, env)
	file, err := readFile(configPath, explicit)
	if err != nil {
		return Config{}, err
	}
	r := resolver{fs: fs, env: env}

	apiKey := r.stringValue("api-key", file.APIKey, envAPIKey, envGoogleAPIKey)
	model := r.stringValue("model", file.Model, envModel)
	baseURL := r.stringValue("base-url", file.BaseURL, envBaseURL)
	temperature := r.floatValue("temperature", file.Temperature, envTemperature)
	width := r.intValue("width", file.Width, envWidth)
	height := r.intValue("height", file.Height, envHeight)
	footer := r.boolValue("footer", file.Footer, envShowFooter)
	markdown := r.boolValue("markdown", file.Markdown, envMarkdown)
	style := strings.ToLower(strings.TrimSpace(r.stringValue("style", file.Style, envStyle)))
	trace := r.boolValue("trace", file.Trace, envTrace)
	logFile := r.stringValue("log-file", file.LogFile, envLogFile)
	if r.err != nil {
		return Config{}, r.err
	}

	if width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", width)
	}
	if height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", height)
	}
	if !render.ValidStyle(style) {
		return Config{}, fmt.Errorf("unknown style %q", style)
	}

	cfg := Config{
		App: app.Config{
			APIKey:      strings.TrimSpace(apiKey),
			Model:       strings.TrimSpace(model),
			BaseURL:     strings.TrimSpace(baseURL),
			Temperature: temperature,
			Width:       width,
			Height:      height,
			ShowFooter:  footer,
			Markdown:    markdown,
			Style:       style,
		},
		Logging: Logging{
			FilePath: logFile,
			Trace:    trace,
		},
		ConfigFile: configPath,
		Flags: map[string]string{
			"apiKey":      redact(apiKey),
			"model":       model,
			"baseURL":     baseURL,
			"temperature": strconv.FormatFloat(temperature, 'g', -1, 64),
			"width":       strconv.Itoa(width),
			"height":      strconv.Itoa(height),
			"footer":      strconv.FormatBool(footer),
			"markdown":    strconv.FormatBool(markdown),
			"style":       style,
			"trace":       strconv.FormatBool(trace),
			"logFile":     logFile,
			"config":      configPath,
		},
	}
	return cfg, nil
}

type resolver struct {
	fs  *pflag.FlagSet
	env map[string]string
	err error
}

func (r *resolver) raw(name string, envKeys ...string) (string, bool) {
	if r.fs.Changed(name) {
		if f := r.fs.Lookup(name); f != nil {
			return f.Value.String(), true
		}
	}
	for _, key := range envKeys {
		if v, ok := r.env[key]; ok && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", false
}

func (r *resolver) stringValue(name string, file *string, envKeys ...string) string {
	if v, ok := r.raw(name, envKeys...); ok {
		return v
	}
	if file != nil {
		return *file
	}
	return r.defValue(name)
}

func (r *resolver) intValue(name string, file *int, envKeys ...string) int {
	if v, ok := r.raw(name, envKeys...); ok {
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			r.fail(fmt.Errorf("invalid %s %q: %w", name, v, err))
			return 0
		}
		return parsed
	}
	if file != nil {
		return *file
	}
	parsed, _ := strconv.Atoi(r.defValue(name))
	return parsed
}

func (r *resolver) floatValue(name string, file *float64, envKeys ...string) float64 {
	if v, ok := r.raw(name, envKeys...); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			r.fail(fmt.Errorf("invalid %s %q: %w", name, v, err))
			return 0
		}
		return parsed
	}
	if file != nil {
		return *file
	}
	parsed, _ := strconv.ParseFloat(r.defValue(name), 64)
	return parsed
}

func (r *resolver) boolValue(name string, file *bool, envKeys ...string) bool {
	if v, ok := r.raw(name, envKeys...); ok {
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			r.fail(fmt.Errorf("invalid %s %q: %w", name, v, err))
			return false
		}
		return parsed
	}
	if file != nil {
		return *file
	}
	parsed, _ := strconv.ParseBool(r.defValue(name))
	return parsed
}

func (r *resolver) defValue(name string) string {
	if f := r.fs.Lookup(name); f != nil {
		return f.DefValue
	}
	return ""
}

func (r *resolver) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func resolveConfigPath(fs *pflag.FlagSet, env map[string]string) (string, bool) {
	if fs.Changed("config") {
		if f := fs.Lookup("config"); f != nil {
			return f.Value.String(), true
		}
	}
	if v := strings.TrimSpace(env[envConfigFile]); v != "" {
		return v, true
	}
	base := strings.TrimSpace(env["XDG_CONFIG_HOME"])
	if base == "" {
		home := strings.TrimSpace(env["HOME"])
		if home == "" {
			return "", false
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "code-explainer", "config.yaml"), false
}

// readFile loads the YAML config. A missing file is only an error when the
// path was requested explicitly.
func readFile(path string, explicit bool) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return fc, nil
		}
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func redact(secret string) string {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

// Validate ensures required minimum configuration is present. A missing API
// key is not an error here: the UI reports it when the user submits. Model
// names outside gemini.KnownModels pass; see app.ModelWarning.
func Validate(cfg Config) error {
	if cfg.App.Temperature > 2 {
		return fmt.Errorf("temperature must be <= 2 (got %g)", cfg.App.Temperature)
	}
	if strings.TrimSpace(cfg.App.Model) == "" {
		return errors.New("model must not be empty")
	}
	return nil
}
