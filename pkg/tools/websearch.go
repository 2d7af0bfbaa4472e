package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// WebSearchTool hits an external search API for the rare plan step that
// needs public information. Params: "query".
type WebSearchTool struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewWebSearchTool(endpoint, apiKey string) *WebSearchTool {
	return &WebSearchTool{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *WebSearchTool) Name() string { return "web_search" }

func (t *WebSearchTool) Run(ctx context.Context, params map[string]interface{}) (string, error) {
	query := stringParam(params, "query")
	if query == "" {
		return "", fmt.Errorf("missing query")
	}

	values := url.Values{}
	values.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?"+values.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build search request: %w", err)
	}
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read search response: %w", err)
	}

	var results struct {
		Results []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return string(body), nil
	}

	var sb strings.Builder
	for i, r := range results.Results {
		if i >= 3 {
			break
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", r.Title, r.Snippet))
	}
	if sb.Len() == 0 {
		return "No results found.", nil
	}
	return sb.String(), nil
}
