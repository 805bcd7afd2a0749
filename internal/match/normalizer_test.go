package match

import (
	"testing"

	"github.com/nmercer/grantscout/internal/models"
)

func fptr(v float64) *float64 { return &v }

func TestNormalizeForDisplay_DropRule(t *testing.T) {
	tests := []struct {
		name string
		in   models.Grant
		keep bool
	}{
		{
			name: "complete record kept",
			in: models.Grant{
				Title:     "Heritage Capital Program",
				Link:      "https://example.org/heritage",
				Sponsor:   "Government of Canada",
				AmountMin: fptr(25000),
				AmountMax: fptr(100000),
			},
			keep: true,
		},
		{
			name: "missing title dropped",
			in: models.Grant{
				Link:      "https://example.org/a",
				Sponsor:   "Government of Canada",
				AmountMax: fptr(50000),
			},
		},
		{
			name: "missing sponsor dropped",
			in: models.Grant{
				Title:     "Museum Assistance",
				Link:      "https://example.org/b",
				AmountMax: fptr(50000),
			},
		},
		{
			name: "no amount bounds dropped",
			in: models.Grant{
				Title:   "Community Fund",
				Link:    "https://example.org/c",
				Sponsor: "Province of Alberta",
			},
		},
		{
			name: "min-only record kept",
			in: models.Grant{
				Title:     "Operating Grant",
				Link:      "https://example.org/d",
				Sponsor:   "Province of Alberta",
				AmountMin: fptr(5000),
			},
			keep: true,
		},
	}

	n := NewNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := n.NormalizeForDisplay([]models.Grant{tt.in})
			if got := len(cards) == 1; got != tt.keep {
				t.Fatalf("keep = %v, want %v (cards: %+v)", got, tt.keep, cards)
			}
		})
	}
}

func TestNormalizeForDisplay_OutputNeverLongerThanInput(t *testing.T) {
	in := []models.Grant{
		{Title: "A", Link: "https://x/1", Sponsor: "S", AmountMax: fptr(1000)},
		{Title: "B", Link: "https://x/2"},
		{Title: "", Link: "https://x/3", Sponsor: "S", AmountMax: fptr(1000)},
	}
	cards := NewNormalizer().NormalizeForDisplay(in)
	if len(cards) > len(in) {
		t.Fatalf("output %d longer than input %d", len(cards), len(in))
	}
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
}

func TestHashID_Deterministic(t *testing.T) {
	link := "https://example.org/grants/heritage-capital"
	first := HashID(link)
	for i := 0; i < 5; i++ {
		if got := HashID(link); got != first {
			t.Fatalf("hash changed between calls: %d vs %d", got, first)
		}
	}
	if first < 0 {
		t.Fatalf("hash must be non-negative, got %d", first)
	}

	// Two records with the same link always share an id.
	n := NewNormalizer()
	mk := func() []MatchCard {
		return n.NormalizeForDisplay([]models.Grant{
			{Title: "First Title", Link: link, Sponsor: "X", AmountMax: fptr(1)},
			{Title: "Second Title", Link: link, Sponsor: "Y", AmountMax: fptr(2)},
		})
	}
	a, b := mk(), mk()
	if a[0].ID != a[1].ID {
		t.Fatalf("same link produced different ids: %d vs %d", a[0].ID, a[1].ID)
	}
	if a[0].ID != b[0].ID {
		t.Fatalf("id not stable across invocations: %d vs %d", a[0].ID, b[0].ID)
	}
}

func TestFormatAmountRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max *float64
		want     string
	}{
		{"both bounds", fptr(25000), fptr(100000), "$25,000 - $100,000"},
		{"max only", nil, fptr(50000), "Up to $50,000"},
		{"min only", fptr(25000), nil, "Minimum $25,000"},
		{"neither", nil, nil, ""},
		{"small amount no separator", nil, fptr(750), "Up to $750"},
		{"millions", fptr(1000000), fptr(2500000), "$1,000,000 - $2,500,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatAmountRange(tt.min, tt.max); got != tt.want {
				t.Errorf("formatAmountRange() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDeadline(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"absent", "", RollingDeadline},
		{"unparseable", "whenever funds last", RollingDeadline},
		{"iso date", "2026-03-15", "Mar 15, 2026"},
		{"rfc3339", "2026-06-30T17:00:00Z", "Jun 30, 2026"},
		{"long month", "June 30, 2026", "Jun 30, 2026"},
		{"embedded in text", "Deadline: 2026-09-01 at 5pm", "Sep 1, 2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDeadline(tt.raw); got != tt.want {
				t.Errorf("FormatDeadline(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseEligibility(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "bullet list",
			raw:  "• Registered charities\n• Nonprofits in Alberta\n• Registered charities",
			want: []string{"Registered charities", "Nonprofits in Alberta"},
		},
		{
			name: "hyphen list",
			raw:  "- Must be incorporated - Annual budget under $1M",
			want: []string{"Must be incorporated", "Annual budget under $1M"},
		},
		{
			name: "empty falls back",
			raw:  "",
			want: []string{eligibilityFallback},
		},
		{
			name: "only separators falls back",
			raw:  "-•-\n",
			want: []string{eligibilityFallback},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEligibility(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseEligibility(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPositionScorer(t *testing.T) {
	s := PositionScorer{}
	for i := 0; i < 30; i++ {
		score := s.EstimateScore(models.Grant{}, i)
		want := 70 + ((i * 7) % 25)
		if score != want {
			t.Fatalf("position %d: score = %d, want %d", i, score, want)
		}
		if score < 70 || score > 94 {
			t.Fatalf("position %d: score %d outside [70, 94]", i, score)
		}
	}
}

func TestFilterVisible(t *testing.T) {
	cards := []MatchCard{
		{ID: 1, Title: "Museum Assistance Program", Funder: "Canadian Heritage", Description: "Exhibit support", Eligibility: []string{"Registered museums"}},
		{ID: 2, Title: "Community Fund", Funder: "Province of Alberta", Description: "Local projects", Eligibility: []string{"Nonprofits"}},
		{ID: 3, Title: "Arts Operating Grant", Funder: "Canada Council", Description: "Operating support", Eligibility: []string{"Arts organizations"}},
	}

	started := func(id int64) bool { return id == 2 }

	got := FilterVisible(cards, started, "")
	if len(got) != 2 {
		t.Fatalf("started filter: got %d cards, want 2", len(got))
	}

	got = FilterVisible(cards, nil, "MUSEUM")
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("title query: got %+v", got)
	}

	got = FilterVisible(cards, nil, "arts organizations")
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("eligibility query: got %+v", got)
	}

	got = FilterVisible(cards, started, "fund")
	if len(got) != 0 {
		t.Fatalf("combined filters: got %+v, want none", got)
	}
}
