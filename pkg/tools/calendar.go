package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

// CalendarTool queries the tenant's calendar service over an OAuth2
// client-credentials HTTP client. Params: "date" (defaults to today),
// "calendar_id".
type CalendarTool struct {
	endpoint string
	oauth    *clientcredentials.Config
}

func NewCalendarTool(endpoint, tokenURL, clientID, clientSecret string) *CalendarTool {
	return &CalendarTool{
		endpoint: endpoint,
		oauth: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
		},
	}
}

func (t *CalendarTool) Name() string { return "check_calendar" }

func (t *CalendarTool) Run(ctx context.Context, params map[string]interface{}) (string, error) {
	date := stringParam(params, "date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	query := url.Values{}
	query.Set("date", date)
	if id := stringParam(params, "calendar_id"); id != "" {
		query.Set("calendar_id", id)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build calendar request: %w", err)
	}

	resp, err := t.oauth.Client(ctx).Do(req)
	if err != nil {
		return "", fmt.Errorf("calendar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("calendar service returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read calendar response: %w", err)
	}

	var slots struct {
		Available []string `json:"available"`
	}
	if err := json.Unmarshal(body, &slots); err != nil {
		return string(body), nil
	}
	if len(slots.Available) == 0 {
		return fmt.Sprintf("No availability on %s.", date), nil
	}
	return fmt.Sprintf("Available on %s: %v", date, slots.Available), nil
}
