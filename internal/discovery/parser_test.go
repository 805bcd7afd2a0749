package discovery

import "testing"

func TestParseSearchResultsDomainFilter(t *testing.T) {
	results := []SearchResult{
		{Title: "Canadian Heritage Funding", URL: "https://www.canada.ca/en/funding.html", Snippet: "Grants up to $50,000 for heritage projects."},
		{Title: "Blog spam", URL: "https://grants-blog.example.com/post", Snippet: "Top 10 grants!"},
		{Title: "PCH program", Link: "https://pch.gc.ca/program", Text: "Funding between $10,000 and $25,000."},
		{Title: "No link at all"},
	}

	grants := parseSearchResults(results, testDefaults())

	if len(grants) != 2 {
		t.Fatalf("got %d grants, want 2", len(grants))
	}
	if grants[0].Link != "https://www.canada.ca/en/funding.html" {
		t.Errorf("first link = %q", grants[0].Link)
	}
	if grants[1].Link != "https://pch.gc.ca/program" {
		t.Errorf("second link = %q", grants[1].Link)
	}
}

func TestParseSearchResultsDefaults(t *testing.T) {
	grants := parseSearchResults([]SearchResult{
		{Title: "Program", URL: "https://www.canada.ca/p", Snippet: "Up to $50,000 available."},
	}, testDefaults())

	if len(grants) != 1 {
		t.Fatalf("got %d grants, want 1", len(grants))
	}
	g := grants[0]
	if g.Sponsor != "Government of Canada" {
		t.Errorf("Sponsor = %q", g.Sponsor)
	}
	if g.Region != "National" {
		t.Errorf("Region = %q", g.Region)
	}
	if g.Currency != "CAD" {
		t.Errorf("Currency = %q", g.Currency)
	}
	if g.AmountMin != nil {
		t.Errorf("AmountMin = %v, want nil for up-to amount", *g.AmountMin)
	}
	if g.AmountMax == nil || *g.AmountMax != 50000 {
		t.Errorf("AmountMax = %v, want 50000", g.AmountMax)
	}
}

func TestSnippetToText(t *testing.T) {
	tests := []struct {
		name    string
		snippet string
		want    string
	}{
		{"plain text", "Grants for museums.", "Grants for museums."},
		{"html markup", "<p>Grants for <b>museums</b>.</p>", "Grants for museums."},
		{"collapses whitespace", "Grants\n\n  for museums.", "Grants for museums."},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := snippetToText(tt.snippet); got != tt.want {
				t.Errorf("snippetToText(%q) = %q, want %q", tt.snippet, got, tt.want)
			}
		})
	}
}

func TestAmountsFromText(t *testing.T) {
	tests := []struct {
		name            string
		text            string
		wantMin, wantMax float64
		wantMinNil      bool
		wantOK          bool
	}{
		{name: "range", text: "Funding between $10,000 and $25,000.", wantMin: 10000, wantMax: 25000, wantOK: true},
		{name: "reversed range", text: "From $25,000 down to $5,000.", wantMin: 5000, wantMax: 25000, wantOK: true},
		{name: "up to", text: "Grants up to $50,000 available.", wantMax: 50000, wantMinNil: true, wantOK: true},
		{name: "single exact", text: "A flat $7,500 award.", wantMin: 7500, wantMax: 7500, wantOK: true},
		{name: "length-changing lowercase before amount", text: "KK$1", wantMin: 1, wantMax: 1, wantOK: true},
		{name: "length-changing lowercase in up-to text", text: "K: up to $2,000", wantMax: 2000, wantMinNil: true, wantOK: true},
		{name: "no amounts", text: "Funding for heritage projects.", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max, ok := amountsFromText(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if tt.wantMinNil {
				if min != nil {
					t.Errorf("min = %v, want nil", *min)
				}
			} else if min == nil || *min != tt.wantMin {
				t.Errorf("min = %v, want %v", min, tt.wantMin)
			}
			if max == nil || *max != tt.wantMax {
				t.Errorf("max = %v, want %v", max, tt.wantMax)
			}
		})
	}
}

func TestOnAllowedDomain(t *testing.T) {
	domains := []string{"canada.ca", "gc.ca"}
	tests := []struct {
		link string
		want bool
	}{
		{"https://www.canada.ca/en/funding.html", true},
		{"https://canada.ca/en", true},
		{"https://pch.gc.ca/program", true},
		{"https://notcanada.ca.example.com/", false},
		{"https://fakecanada.ca.attacker.io/", false},
		{"https://grants.example.com/", false},
	}
	for _, tt := range tests {
		if got := onAllowedDomain(tt.link, domains); got != tt.want {
			t.Errorf("onAllowedDomain(%q) = %v, want %v", tt.link, got, tt.want)
		}
	}
}
