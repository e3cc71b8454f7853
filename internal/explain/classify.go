package explain

import (
	"errors"
	"strings"

	"google.golang.org/genai"
)

// User-facing messages. Validation messages never involve the network.
const (
	MsgEmptyInput   = "Please paste some code to explain"
	MsgNoCredential = "API key not configured. Please contact the developer."
	MsgInvalidKey   = "Invalid API key. Please check your Gemini API key."
	MsgPermission   = "Permission denied. Please check your API key permissions."
	MsgQuota        = "API quota exceeded. Please check your usage limits."
	MsgBilling      = "Billing issue. Please check your Google Cloud billing setup."

	msgFallback = "Failed to explain code. Please try again."
)

var substringRules = []struct {
	needle  string
	message string
}{
	{"API_KEY_INVALID", MsgInvalidKey},
	{"PERMISSION_DENIED", MsgPermission},
	{"QUOTA_EXCEEDED", MsgQuota},
	{"billing", MsgBilling},
}

// Classify maps a generation failure to the message shown to the user. The
// error text is matched first; API status codes only apply when no substring
// matched.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	text := err.Error()
	for _, rule := range substringRules {
		if strings.Contains(text, rule.needle) {
			return rule.message
		}
	}
	if msg, ok := classifyStatus(err); ok {
		return msg
	}
	if strings.TrimSpace(text) == "" {
		return "Error: " + msgFallback
	}
	return "Error: " + text
}

func classifyStatus(err error) (string, bool) {
	var status string
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.Status
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		status = apiErrPtr.Status
	default:
		return "", false
	}
	switch status {
	case "PERMISSION_DENIED":
		return MsgPermission, true
	case "RESOURCE_EXHAUSTED":
		return MsgQuota, true
	}
	return "", false
}
