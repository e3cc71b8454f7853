package ui

import (
	"context"
	"reflect"
	"time"

	"github.com/atomicstack/code-explainer/internal/clipboard"
	"github.com/atomicstack/code-explainer/internal/explain"
	"github.com/atomicstack/code-explainer/internal/render"
	"github.com/atomicstack/code-explainer/internal/theme"
	"github.com/atomicstack/code-explainer/internal/ui/command"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	appTitle        = "AI Code Explainer"
	appSubtitle     = "Paste your code and get detailed explanations powered by Google Gemini AI"
	inputTitle      = "Your Code"
	outputTitle     = "Explanation"
	inputHint       = "Paste your code here..."
	outputHint      = "Paste your code and press ctrl+s to get started"
	loadingText     = "Analyzing your code..."
	infoLifetime    = 5 * time.Second
	defaultWidth    = 80
	defaultHeight   = 24
	sideBySideWidth = 100
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

type focusArea int

const (
	focusInput focusArea = iota
	focusOutput
)

func (f focusArea) String() string {
	if f == focusOutput {
		return "output"
	}
	return "input"
}

// Options configures a Model.
type Options struct {
	// Context is handed to every generation request. Defaults to Background.
	Context    context.Context
	Controller *explain.Controller
	Renderer   *render.Renderer
	Clipboard  clipboard.Writer
	Width      int
	Height     int
	ShowFooter bool
	// ModelName is shown next to the title.
	ModelName string
	// Notice is shown on the info line at startup.
	Notice string
}

// Model implements the Bubble Tea model for the code explainer.
type Model struct {
	ctx       context.Context
	ctrl      *explain.Controller
	renderer  *render.Renderer
	clipboard clipboard.Writer
	bus       *command.Bus

	keys    keyMap
	help    help.Model
	input   textarea.Model
	output  viewport.Model
	spinner spinner.Model
	focus   focusArea

	// outputText and outputWidth record what the viewport currently holds.
	outputText  string
	outputWidth int

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	modelName   string
	infoMsg     string
	infoExpire  time.Time

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the UI state from opts.
func NewModel(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ctrl := opts.Controller
	if ctrl == nil {
		ctrl = explain.NewController(nil, "")
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.New(false, render.StyleNoTTY)
	}

	input := textarea.New()
	input.Placeholder = inputHint
	input.ShowLineNumbers = true
	input.CharLimit = 0
	input.MaxHeight = 0
	input.FocusedStyle.CursorLine = lipgloss.NewStyle()
	// Blinking starts in Init so programmatic drivers never wait on blink ticks.
	input.Cursor.SetMode(cursor.CursorStatic)
	input.Focus()

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	if styles.Spinner != nil {
		spin.Style = *styles.Spinner
	}

	m := &Model{
		ctx:        ctx,
		ctrl:       ctrl,
		renderer:   renderer,
		clipboard:  opts.Clipboard,
		bus:        command.New(),
		keys:       defaultKeyMap(),
		help:       help.New(),
		input:      input,
		output:     viewport.New(0, 0),
		spinner:    spin,
		focus:      focusInput,
		showFooter: opts.ShowFooter,
		modelName:  opts.ModelName,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	if opts.Notice != "" {
		m.setInfo(opts.Notice)
	}
	m.layout()
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return m.input.Cursor.SetMode(cursor.CursorBlink)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 2)
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, m.finishUpdate(cmds)
	}
	if cmd := m.updateFocused(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(spinner.TickMsg{}):   m.handleSpinnerTickMsg,
		reflect.TypeOf(explainDoneMsg{}):    m.handleExplainDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	m.keys.syncEnabled(m.ctrl.State().Busy)
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// State exposes the controller's session state.
func (m *Model) State() explain.State {
	return m.ctrl.State()
}
