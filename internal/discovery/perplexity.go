package discovery

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

// ErrMissingPerplexityKey is returned when live discovery is requested
// without a search credential.
var ErrMissingPerplexityKey = errors.New("missing Perplexity API key: set PERPLEXITY_API_KEY")

// PerplexityClient calls the Perplexity Search API: ranked web documents for
// a text query, optionally restricted to a set of domains.
type PerplexityClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewPerplexityClient(baseURL, apiKey string) *PerplexityClient {
	if baseURL == "" {
		baseURL = "https://api.perplexity.ai"
	}
	return &PerplexityClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 45 * time.Second,
		},
	}
}

type perplexitySearchRequest struct {
	Query              string   `json:"query"`
	MaxResults         int      `json:"max_results"`
	SearchDomainFilter []string `json:"search_domain_filter,omitempty"`
	MaxTokensPerPage   int      `json:"max_tokens_per_page,omitempty"`
}

// SearchResult is one ranked document from the search API. Field naming
// varies between API revisions; both url/link and snippet/text are seen.
type SearchResult struct {
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Link    string   `json:"link"`
	Snippet string   `json:"snippet"`
	Text    string   `json:"text"`
	Tags    []string `json:"tags"`
}

type SearchDocumentsResponse struct {
	Results []SearchResult `json:"results"`
}

func (c *PerplexityClient) Search(ctx context.Context, query string, maxResults int, domains []string, maxTokensPerPage int) (*SearchDocumentsResponse, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, ErrMissingPerplexityKey
	}

	payload := perplexitySearchRequest{
		Query:              query,
		MaxResults:         maxResults,
		SearchDomainFilter: domains,
		MaxTokensPerPage:   maxTokensPerPage,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling search payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/search", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perplexity request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("perplexity returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed SearchDocumentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding perplexity response: %w", err)
	}

	return &parsed, nil
}

// ResolvedURL normalizes the url/link naming difference.
func (r SearchResult) ResolvedURL() string {
	if r.URL != "" {
		return r.URL
	}
	return r.Link
}

// ResolvedSnippet normalizes the snippet/text naming difference.
func (r SearchResult) ResolvedSnippet() string {
	if r.Snippet != "" {
		return r.Snippet
	}
	return r.Text
}
