package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// GeminiRequest records the last request seen by a GeminiServer.
type GeminiRequest struct {
	mu     sync.Mutex
	path   string
	apiKey string
	body   map[string]interface{}
	count  int
}

// Path returns the request path.
func (r *GeminiRequest) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// APIKey returns the key sent in the header or query string.
func (r *GeminiRequest) APIKey() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apiKey
}

// Body returns the decoded JSON request body.
func (r *GeminiRequest) Body() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body
}

// Count returns how many requests arrived.
func (r *GeminiRequest) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// GeminiServer starts a fake generation endpoint answering every request with
// status and payload.
func GeminiServer(t *testing.T, status int, payload string) (*httptest.Server, *GeminiRequest) {
	t.Helper()
	captured := &GeminiRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		_ = json.Unmarshal(data, &body)
		key := r.Header.Get("x-goog-api-key")
		if key == "" {
			key = r.URL.Query().Get("key")
		}
		captured.mu.Lock()
		captured.path = r.URL.Path
		captured.apiKey = key
		captured.body = body
		captured.count++
		captured.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

// GeminiReply renders a successful generateContent response carrying text.
func GeminiReply(text string) string {
	reply := map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content": map[string]interface{}{
					"role":  "model",
					"parts": []interface{}{map[string]interface{}{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
	data, _ := json.Marshal(reply)
	return string(data)
}
