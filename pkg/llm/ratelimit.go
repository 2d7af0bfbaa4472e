package llm

import (
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// IsRateLimited reports whether err (or its message) indicates a provider
// quota or rate-limit condition. The retry loop treats this as terminal:
// retrying would only burn more quota.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "rate limit", "quota", "resource exhausted", "too many requests"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
