package browserbase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchPDFLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/grants/pdf-link" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Method != "POST" {
			t.Errorf("method = %q", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"session_id":"sess-1","live_view_url":"https://bb.example.com/live/sess-1","pdf_link":"https://bb.example.com/pdf/app.pdf"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.FetchPDFLink(context.Background(), "https://www.canada.ca/en/funding.html")
	if err != nil {
		t.Fatalf("FetchPDFLink() error = %v", err)
	}
	if result.SessionID != "sess-1" {
		t.Errorf("SessionID = %q", result.SessionID)
	}
	if result.PDFLink != "https://bb.example.com/pdf/app.pdf" {
		t.Errorf("PDFLink = %q", result.PDFLink)
	}
}

func TestFetchPDFLinkErrorCarriesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "session pool exhausted", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchPDFLink(context.Background(), "https://www.canada.ca/en/funding.html")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "session pool exhausted") {
		t.Errorf("error %q missing status or body", err)
	}
}

func TestFetchPDFLinkUnconfigured(t *testing.T) {
	client := NewClient("")
	if _, err := client.FetchPDFLink(context.Background(), "https://example.com"); err != ErrNotConfigured {
		t.Errorf("error = %v, want ErrNotConfigured", err)
	}
}

func TestDateCandidatesFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "mixed formats sorted ascending",
			text: "Applications open March 1, 2026. Deadline: 2026-04-15. Late window closes 30 Apr 2026.",
			want: []string{"2026-03-01", "2026-04-15", "2026-04-30"},
		},
		{
			name: "duplicates collapse",
			text: "Due April 15, 2026. Final date 2026-04-15.",
			want: []string{"2026-04-15"},
		},
		{
			name: "no dates",
			text: "Submit your application as soon as possible.",
			want: nil,
		},
		{
			name: "slash format",
			text: "Closes 4/15/2026 at midnight.",
			want: []string{"2026-04-15"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dateCandidatesFromText(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("candidate %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtractPDFTextBadInput(t *testing.T) {
	if _, err := extractPDFText([]byte("not a pdf")); err == nil {
		t.Error("expected error for non-PDF input")
	}
}
