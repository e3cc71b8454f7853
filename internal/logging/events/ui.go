package events

import "github.com/atomicstack/code-explainer/internal/logging"

type UITracer struct{}

type ClipboardTracer struct{}

type CommandTracer struct{}

var (
	UI        = UITracer{}
	Clipboard = ClipboardTracer{}
	Command   = CommandTracer{}
)

func (UITracer) Focus(pane string) {
	logging.Trace("ui.focus", map[string]interface{}{"pane": pane})
}

func (UITracer) Resize(width, height int) {
	logging.Trace("ui.resize", map[string]interface{}{"width": width, "height": height})
}

func (UITracer) RenderError(err error) {
	if err == nil {
		return
	}
	logging.Trace("ui.render-error", map[string]interface{}{"error": err.Error()})
}

func (ClipboardTracer) Copy(source string, size int) {
	logging.Trace("clipboard.copy", map[string]interface{}{"source": source, "size": size})
}

func (ClipboardTracer) Error(source string, err error) {
	if err == nil {
		return
	}
	logging.Trace("clipboard.error", map[string]interface{}{"source": source, "error": err.Error()})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}
