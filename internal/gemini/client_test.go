package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/atomicstack/code-explainer/internal/explain"
	"github.com/atomicstack/code-explainer/internal/testutil"
)

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Options{APIKey: " "})
	require.Error(t, err)
}

func TestNewDefaultsModel(t *testing.T) {
	srv, _ := testutil.GeminiServer(t, http.StatusOK, `{}`)
	c, err := New(context.Background(), Options{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.Model())
}

func TestGenerateReturnsText(t *testing.T) {
	srv, captured := testutil.GeminiServer(t, http.StatusOK, testutil.GeminiReply("It prints hello."))

	c, err := New(context.Background(), Options{APIKey: "secret", Model: "gemini-2.0-flash", BaseURL: srv.URL})
	require.NoError(t, err)

	text, err := c.Generate(context.Background(), explain.Prompt(`print("hello")`))
	require.NoError(t, err)
	assert.Equal(t, "It prints hello.", text)
	assert.True(t, strings.HasSuffix(captured.Path(), "models/gemini-2.0-flash:generateContent"), "path %q", captured.Path())
	assert.Equal(t, "secret", captured.APIKey())
	assert.Equal(t, 1, captured.Count())

	body := captured.Body()
	contents, ok := body["contents"].([]interface{})
	require.True(t, ok, "expected contents in body: %#v", body)
	require.Len(t, contents, 1)
	raw, _ := json.Marshal(contents[0])
	assert.Contains(t, string(raw), `print(\"hello\")`)
}

func TestGenerateSendsTemperature(t *testing.T) {
	srv, captured := testutil.GeminiServer(t, http.StatusOK, testutil.GeminiReply("ok"))
	temp := float32(0.25)
	c, err := New(context.Background(), Options{APIKey: "k", BaseURL: srv.URL, Temperature: &temp})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "x")
	require.NoError(t, err)
	body := captured.Body()
	cfg, ok := body["generationConfig"].(map[string]interface{})
	require.True(t, ok, "expected generationConfig in body: %#v", body)
	assert.InDelta(t, 0.25, cfg["temperature"], 0.0001)
}

func TestGenerateErrorIsClassifiable(t *testing.T) {
	srv, _ := testutil.GeminiServer(t, http.StatusForbidden, `{
		"error": {"code": 403, "message": "Permission denied on resource", "status": "PERMISSION_DENIED"}
	}`)
	c, err := New(context.Background(), Options{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "x")
	require.Error(t, err)

	var apiErr genai.APIError
	require.True(t, errors.As(err, &apiErr), "expected genai.APIError in chain, got %T: %v", err, err)
	assert.Equal(t, 403, apiErr.Code)
	assert.Equal(t, explain.MsgPermission, explain.Classify(err))
}

func TestModelWarning(t *testing.T) {
	assert.Empty(t, ModelWarning("gemini-2.5-flash"))
	assert.Empty(t, ModelWarning("models/gemini-2.5-pro"))
	assert.Equal(t, `unknown model "gemini-2.5-flsh" (did you mean "gemini-2.5-flash"?)`, ModelWarning("gemini-2.5-flsh"))
	assert.Contains(t, ModelWarning("gemini-3-pro-preview"), `unknown model "gemini-3-pro-preview"`)
}

func TestSuggestModel(t *testing.T) {
	assert.True(t, IsKnownModel("models/gemini-2.5-flash"))
	assert.False(t, IsKnownModel("gpt-4"))
	assert.Equal(t, "gemini-2.5-flash", SuggestModel("gemini-2.5-flsh"))
	assert.Contains(t, KnownModels, SuggestModel("2.5-pro"))
	assert.Equal(t, "", SuggestModel(""))
}
