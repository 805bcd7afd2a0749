package summarize

import (
	"encoding/json"
	"strings"

	"github.com/nmercer/grantscout/internal/models"
)

// compactGrant is the trimmed record shape embedded into a prompt. Long text
// fields are truncated before embedding to bound prompt size.
type compactGrant struct {
	Title       string   `json:"title"`
	Sponsor     string   `json:"sponsor"`
	AmountMin   *float64 `json:"amount_min"`
	AmountMax   *float64 `json:"amount_max"`
	Currency    string   `json:"currency"`
	Deadline    string   `json:"deadline"`
	Summary     string   `json:"summary"`
	Eligibility string   `json:"eligibility"`
	Link        string   `json:"link"`
}

// truncate cuts a string to maxLen runes, appending an ellipsis if
// truncated. Cutting on runes keeps the output valid UTF-8.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "…"
}

// buildPrompt constructs the batch instruction. The response contract is
// strict: a bare JSON array, one output item per input grant, with numeric
// amount bounds and a preformatted display string.
func buildPrompt(grants []models.Grant, maxFieldLength int) string {
	compact := make([]compactGrant, 0, len(grants))
	for _, g := range grants {
		compact = append(compact, compactGrant{
			Title:       g.Title,
			Sponsor:     g.Sponsor,
			AmountMin:   g.AmountMin,
			AmountMax:   g.AmountMax,
			Currency:    g.Currency,
			Deadline:    g.Deadline,
			Summary:     truncate(g.Summary, maxFieldLength),
			Eligibility: truncate(g.Eligibility, maxFieldLength),
			Link:        g.Link,
		})
	}

	rawJSON, _ := json.MarshalIndent(compact, "", "  ")

	lines := []string{
		"You are a grants analyst summarizing funding opportunities for a nonprofit.",
		"Review the following JSON array of grants and return a structured summary of each.",
		"Rules:",
		`- Return ONLY a JSON array. No prose, no markdown, no code fences.`,
		`- Each item must have exactly these fields: { "title", "link", "funder", "amount_min": number, "amount_max": number, "amount_display", "summary", "eligibility": string[], "deadline" }.`,
		`- amount_min and amount_max are numbers. For "up to $X" use amount_min 0 and amount_max X. For a single figure use it as both amount_min and amount_max. Use null when no amount is stated.`,
		`- amount_display is a short human readable range (e.g. "$25,000 - $100,000 CAD" or "Up to $50,000 CAD").`,
		"- summary is at most 2-3 sentences, focused on what the program funds.",
		"- eligibility is 2-4 concise bullet phrases.",
		"- deadline is the deadline text as stated, or an empty string.",
		"- Every input grant must map to at most one output item. If source data is sparse, emit a generic placeholder summary and generic eligibility phrases instead of omitting the grant.",
		"- Merge two grants only if they are true duplicates of the same program: title and link essentially identical, or funder and title match exactly. Keep superficially similar programs from the same funder distinct.",
		"- Ensure link points directly to the program application or official details page.",
		"",
		"Raw grants JSON:",
		string(rawJSON),
	}

	return strings.Join(lines, "\n")
}
