package command

import (
	"context"
	"fmt"

	"github.com/atomicstack/code-explainer/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Handler performs the work for a request and returns the message to feed
// back into the program.
type Handler func(ctx context.Context) tea.Msg

// Request encapsulates an asynchronous invocation.
type Request struct {
	ID      string
	Label   string
	Handler Handler
}

// Bus coordinates the execution of asynchronous UI work.
type Bus struct{}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Execute wraps a request into a Bubble Tea command while emitting trace logs.
func (b *Bus) Execute(ctx context.Context, req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	if ctx == nil {
		ctx = context.Background()
	}
	return func() tea.Msg {
		if req.Handler == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		msg := req.Handler(ctx)
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg))
		return msg
	}
}
