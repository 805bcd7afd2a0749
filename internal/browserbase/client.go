package browserbase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no Browserbase service URL is set.
var ErrNotConfigured = errors.New("browserbase service not configured: set BROWSERBASE_SERVICE_URL")

// Client talks to the Browserbase session service, which drives a headless
// browser over a grant page and captures the application PDF.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.BaseURL != ""
}

// PDFLinkResult is the session service's answer for one grant page.
type PDFLinkResult struct {
	SessionID   string `json:"session_id"`
	LiveViewURL string `json:"live_view_url"`
	PDFLink     string `json:"pdf_link"`
}

// FetchPDFLink asks the session service to open a grant page and locate its
// application PDF. One request, no retry; a non-2xx reply carries the body.
func (c *Client) FetchPDFLink(ctx context.Context, grantURL string) (*PDFLinkResult, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(map[string]string{"grant_url": grantURL})
	if err != nil {
		return nil, fmt.Errorf("marshaling pdf-link payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/api/grants/pdf-link", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating pdf-link request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("browserbase request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("browserbase returned %d: %s", resp.StatusCode, string(body))
	}

	var result PDFLinkResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding pdf-link response: %w", err)
	}

	return &result, nil
}
