package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CRMTool looks up customer records in the tenant's CRM over its HTTP API.
// Params: "query" (free text), "entity" (contact/deal/ticket).
type CRMTool struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewCRMTool(endpoint, apiKey string) *CRMTool {
	return &CRMTool{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *CRMTool) Name() string { return "query_crm" }

func (t *CRMTool) Run(ctx context.Context, params map[string]interface{}) (string, error) {
	query := stringParam(params, "query")
	if query == "" {
		return "", fmt.Errorf("missing query")
	}

	payload, err := json.Marshal(map[string]string{
		"query":  query,
		"entity": stringParam(params, "entity"),
	})
	if err != nil {
		return "", fmt.Errorf("encode crm query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build crm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("crm request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("crm returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read crm response: %w", err)
	}
	return string(body), nil
}
