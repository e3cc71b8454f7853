package explain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/code-explainer/internal/logging/events"
	"github.com/google/uuid"
)

// ErrEmptyResponse is returned by Run when the service answers without text.
var ErrEmptyResponse = errors.New("empty response from model")

// Generator produces text for a prompt using the remote generation service.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Request is a single in-flight submission.
type Request struct {
	ID      string
	Prompt  string
	Started time.Time
}

// Controller owns the session state and the submit/clear operations. It is
// not safe for concurrent use: callers mutate it from one goroutine and only
// Run may execute elsewhere.
type Controller struct {
	gen           Generator
	hasCredential bool
	state         State
	pending       string
}

// NewController returns a controller calling gen. A blank apiKey or nil gen
// means no credential is configured and every submit is rejected locally.
func NewController(gen Generator, apiKey string) *Controller {
	return &Controller{
		gen:           gen,
		hasCredential: gen != nil && strings.TrimSpace(apiKey) != "",
	}
}

// State returns a copy of the current session state.
func (c *Controller) State() State {
	return c.state
}

// SetInput replaces the input text.
func (c *Controller) SetInput(text string) {
	c.state.Input = text
}

// Pending returns the ID of the in-flight request, if any.
func (c *Controller) Pending() string {
	return c.pending
}

// Begin validates the input and, when it is acceptable, marks the controller
// busy and returns the request to run. Validation failures set Err and return
// false without touching the network.
func (c *Controller) Begin() (Request, bool) {
	if c.state.Busy {
		events.Explain.Rejected(events.ReasonAlreadyActive)
		return Request{}, false
	}
	if c.state.Blank() {
		c.fail(MsgEmptyInput)
		events.Explain.Rejected(events.ReasonEmptyInput)
		return Request{}, false
	}
	if !c.hasCredential {
		c.fail(MsgNoCredential)
		events.Explain.Rejected(events.ReasonNoCredential)
		return Request{}, false
	}
	req := Request{
		ID:      uuid.NewString(),
		Prompt:  Prompt(c.state.Input),
		Started: time.Now(),
	}
	c.state.Busy = true
	c.state.Result = ""
	c.state.Err = ""
	c.pending = req.ID
	events.Explain.Submit(req.ID, len(c.state.Input))
	return req, true
}

// Run performs the single generation call for req. It touches no controller
// state, so it may run on another goroutine. A panicking generator is
// reported as an error. Any non-empty reply is returned verbatim.
func (c *Controller) Run(ctx context.Context, req Request) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()
	if c.gen == nil {
		return "", errors.New("no generator configured")
	}
	text, err = c.gen.Generate(ctx, req.Prompt)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Finish applies the outcome of req. Completions for anything but the
// pending request are dropped and reported as false.
func (c *Controller) Finish(req Request, text string, err error) bool {
	if req.ID == "" || req.ID != c.pending {
		events.Explain.Stale(req.ID)
		return false
	}
	c.release()
	if err != nil {
		msg := Classify(err)
		c.state.Result = ""
		c.state.Err = msg
		events.Explain.Failure(req.ID, err, msg)
		return true
	}
	c.state.Result = text
	c.state.Err = ""
	events.Explain.Success(req.ID, len(text), time.Since(req.Started))
	return true
}

// Submit runs a complete exchange synchronously and returns the final state.
func (c *Controller) Submit(ctx context.Context) State {
	req, ok := c.Begin()
	if !ok {
		return c.state
	}
	text, err := c.Run(ctx, req)
	c.Finish(req, text, err)
	return c.state
}

// Clear resets every field and forgets the pending request.
func (c *Controller) Clear() {
	events.Explain.Cleared(c.pending)
	c.state = State{}
	c.pending = ""
}

func (c *Controller) release() {
	c.state.Busy = false
	c.pending = ""
}

func (c *Controller) fail(msg string) {
	c.state.Result = ""
	c.state.Err = msg
}
