package events

import (
	"time"

	"github.com/atomicstack/code-explainer/internal/logging"
)

type ExplainTracer struct{}

var Explain = ExplainTracer{}

// Rejection reasons recorded when a submit never reaches the network.
const (
	ReasonEmptyInput    = "empty-input"
	ReasonNoCredential  = "no-credential"
	ReasonAlreadyActive = "busy"
)

func (ExplainTracer) Submit(id string, inputLen int) {
	logging.Trace("explain.submit", map[string]interface{}{"id": id, "input_len": inputLen})
}

func (ExplainTracer) Rejected(reason string) {
	logging.Trace("explain.rejected", map[string]interface{}{"reason": reason})
}

func (ExplainTracer) Success(id string, outputLen int, elapsed time.Duration) {
	logging.Trace("explain.success", map[string]interface{}{
		"id":         id,
		"output_len": outputLen,
		"elapsed_ms": elapsed.Milliseconds(),
	})
}

func (ExplainTracer) Failure(id string, err error, message string) {
	payload := map[string]interface{}{"id": id, "message": message}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("explain.failure", payload)
}

func (ExplainTracer) Stale(id string) {
	logging.Trace("explain.stale", map[string]interface{}{"id": id})
}

func (ExplainTracer) Cleared(pending string) {
	logging.Trace("explain.clear", map[string]interface{}{"pending": pending})
}
