package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nmercer/grantscout/internal/models"
)

// SearchFailure is a non-2xx response from the search endpoint. Callers must
// not retry automatically; the failure is surfaced and the user re-triggers
// the search.
type SearchFailure struct {
	StatusCode int
	Body       string
}

func (e *SearchFailure) Error() string {
	return fmt.Sprintf("grant search failed: %d %s", e.StatusCode, e.Body)
}

// Client talks to the grant discovery endpoint.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SearchGrants issues a structured grant search and returns the raw result
// envelope. Records in the response are of heterogeneous completeness; only
// the link field is guaranteed.
func (c *Client) SearchGrants(ctx context.Context, request models.GrantSearchRequest) (*models.GrantSearchResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshaling search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/api/grants/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &SearchFailure{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(detail))}
	}

	var envelope models.GrantSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	return &envelope, nil
}
