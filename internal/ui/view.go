package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/code-explainer/internal/explain"
	"github.com/atomicstack/code-explainer/internal/logging/events"
	"github.com/atomicstack/code-explainer/internal/render"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	headerSeparator = " · "
	errorPrefix     = "✗ "
	minPaneHeight   = 4
)

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// paneLayout holds the outer size of both panes, borders included.
type paneLayout struct {
	sideBySide bool
	inputW     int
	inputH     int
	outputW    int
	outputH    int
}

// View implements tea.Model.
func (m *Model) View() string {
	m.layout()
	width, _ := m.frame()
	pl := m.paneLayout()

	inputPane := m.renderPane(inputTitle, m.input.View(), pl.inputW, pl.inputH, m.focus == focusInput)
	outputPane := m.renderPane(m.outputTitle(), m.outputBody(m.output.Width), pl.outputW, pl.outputH, m.focus == focusOutput)
	var panes string
	if pl.sideBySide {
		panes = lipgloss.JoinHorizontal(lipgloss.Top, inputPane, outputPane)
	} else {
		panes = lipgloss.JoinVertical(lipgloss.Left, inputPane, outputPane)
	}

	parts := []string{renderLines(applyWidth(m.headerLines(), width)), panes}
	parts = append(parts, m.bottomLines(width)...)
	return strings.Join(parts, "\n")
}

func (m *Model) frame() (int, int) {
	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return width, height
}

// paneLayout splits the rows left over by the header and bottom bar between
// the panes: side by side on wide terminals, stacked otherwise.
func (m *Model) paneLayout() paneLayout {
	width, height := m.frame()
	avail := height - len(m.headerLines()) - len(m.bottomLines(width))
	if avail < 2*minPaneHeight {
		avail = 2 * minPaneHeight
	}
	if width >= sideBySideWidth {
		left := width / 2
		return paneLayout{sideBySide: true, inputW: left, inputH: avail, outputW: width - left, outputH: avail}
	}
	inputH := avail * 2 / 5
	if inputH < minPaneHeight {
		inputH = minPaneHeight
	}
	return paneLayout{inputW: width, inputH: inputH, outputW: width, outputH: avail - inputH}
}

// layout sizes the widgets to the current frame and refreshes the
// explanation viewport when its text or width changed.
func (m *Model) layout() {
	pl := m.paneLayout()
	m.input.SetWidth(innerSize(pl.inputW, 2))
	m.input.SetHeight(innerSize(pl.inputH, 3))
	m.output.Width = innerSize(pl.outputW, 2)
	m.output.Height = innerSize(pl.outputH, 3)
	m.syncOutput()
}

// innerSize removes the border (and title row) from an outer dimension.
func innerSize(outer, chrome int) int {
	if outer-chrome < 1 {
		return 1
	}
	return outer - chrome
}

func (m *Model) syncOutput() {
	state := m.ctrl.State()
	if state.Display() != explain.DisplayResult {
		if m.outputText != "" {
			m.output.SetContent("")
			m.outputText = ""
			m.outputWidth = 0
		}
		return
	}
	if state.Result == m.outputText && m.output.Width == m.outputWidth {
		return
	}
	rendered, err := m.renderer.Render(state.Result, m.output.Width)
	if err != nil {
		events.UI.RenderError(err)
	}
	m.output.SetContent(rendered)
	m.outputText = state.Result
	m.outputWidth = m.output.Width
}

func (m *Model) resetOutput() {
	m.outputText = ""
	m.outputWidth = 0
	m.output.SetContent("")
	m.output.GotoTop()
	m.syncOutput()
}

func (m *Model) headerLines() []styledLine {
	title := styledLine{text: appTitle, style: styles.Title}
	if m.modelName != "" {
		title = styledLine{
			text:          appTitle + headerSeparator + m.modelName,
			prefixStyle:   styles.Title,
			style:         styles.Subtitle,
			highlightFrom: len([]rune(appTitle)),
		}
	}
	return []styledLine{title, {text: appSubtitle, style: styles.Subtitle}}
}

func (m *Model) bottomLines(width int) []string {
	lines := make([]string, 0, 2)
	if info := m.currentInfo(); info != "" {
		lines = append(lines, renderLines([]styledLine{{text: truncateText(info, width), style: styles.Info}}))
	}
	if m.showFooter {
		m.help.Width = width
		lines = append(lines, m.help.View(m.keys))
	}
	return lines
}

func (m *Model) outputTitle() string {
	if m.ctrl.State().Display() != explain.DisplayResult {
		return outputTitle
	}
	if m.output.TotalLineCount() <= m.output.Height {
		return outputTitle
	}
	return fmt.Sprintf("%s %3.f%%", outputTitle, m.output.ScrollPercent()*100)
}

// outputBody shows exactly one of: placeholder, spinner, error, explanation.
func (m *Model) outputBody(width int) string {
	state := m.ctrl.State()
	switch state.Display() {
	case explain.DisplayBusy:
		return m.spinner.View() + " " + styles.Loading.Render(loadingText)
	case explain.DisplayError:
		return styleEach(render.Plain(errorPrefix+state.Err, width), styles.Error)
	case explain.DisplayResult:
		return m.output.View()
	default:
		return styleEach(render.Plain(outputHint, width), styles.Placeholder)
	}
}

func styleEach(text string, style *lipgloss.Style) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderPane(title, body string, width, height int, focused bool) string {
	border := styles.PaneBorder
	if focused {
		border = styles.FocusBorder
	}
	innerW := innerSize(width, 2)
	innerH := innerSize(height, 2)
	lines := []styledLine{{text: title, style: styles.PaneTitle}}
	for _, line := range strings.Split(body, "\n") {
		lines = append(lines, styledLine{text: line, raw: true})
	}
	lines = limitHeight(applyWidth(lines, innerW), innerH, innerW)
	return border.Width(innerW).Height(innerH).Render(renderLines(lines))
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	events.UI.Resize(m.width, m.height)
	m.layout()
	return nil
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(infoLifetime)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		line.text = text
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		} else if line.prefixStyle != nil {
			text = line.prefixStyle.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
