package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nmercer/grantscout/internal/models"
)

func TestSearchGrants_Success(t *testing.T) {
	var received models.GrantSearchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/grants/search" || r.Method != "POST" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decoding request: %v", err)
		}

		json.NewEncoder(w).Encode(models.GrantSearchResponse{
			Mode:  "mock",
			Count: 1,
			Results: []models.Grant{
				{Title: "Heritage Fund", Link: "https://example.org/heritage"},
			},
			GeneratedAt: time.Now().UTC(),
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	resp, err := client.SearchGrants(context.Background(), models.GrantSearchRequest{
		Organization: models.OrganizationInfo{LegalName: "Northern Heritage Society"},
	})
	if err != nil {
		t.Fatalf("SearchGrants: %v", err)
	}
	if resp.Mode != "mock" || len(resp.Results) != 1 {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	if received.Organization.LegalName != "Northern Heritage Society" {
		t.Fatalf("request body not forwarded: %+v", received)
	}
}

func TestSearchGrants_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "search backend unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).SearchGrants(context.Background(), models.GrantSearchRequest{})

	var failure *SearchFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected *SearchFailure, got %v", err)
	}
	if failure.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want 502", failure.StatusCode)
	}
	if failure.Body != "search backend unavailable" {
		t.Errorf("Body = %q", failure.Body)
	}
}
